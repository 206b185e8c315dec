package leaderboard

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisCache backs the live (game_id, mode) leaderboard with a Redis
// sorted set, keyed by user id and scored by best_score. It is a thin
// wrapper: ranking/percentile/tier math stays in the pure functions of
// this package, grounded on the teacher's own Redis service, which
// exposes the same narrow {Set/Get/ZAdd/ZRange} surface this needs.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func key(gameID string, mode string) string {
	return fmt.Sprintf("leaderboard:%s:%s", gameID, mode)
}

// Submit records userID's best score in the sorted set for
// (gameID, mode), overwriting any previous entry for that user.
func (c *RedisCache) Submit(ctx context.Context, gameID, mode, userID string, bestScore float64) error {
	return c.client.ZAdd(ctx, key(gameID, mode), redis.Z{Score: bestScore, Member: userID}).Err()
}

// TopN returns the top n user ids by score, descending.
func (c *RedisCache) TopN(ctx context.Context, gameID, mode string, n int) ([]string, error) {
	return c.client.ZRevRange(ctx, key(gameID, mode), 0, int64(n-1)).Result()
}

// Score returns userID's current best score for (gameID, mode).
func (c *RedisCache) Score(ctx context.Context, gameID, mode, userID string) (float64, error) {
	return c.client.ZScore(ctx, key(gameID, mode), userID).Result()
}

// BetterCount returns the number of entries with a strictly higher
// score than the given value, used to compute Percentile against the
// live population without pulling every score client-side.
func (c *RedisCache) BetterCount(ctx context.Context, gameID, mode string, score float64) (int64, error) {
	total, err := c.client.ZCard(ctx, key(gameID, mode)).Result()
	if err != nil {
		return 0, err
	}
	notBetter, err := c.client.ZCount(ctx, key(gameID, mode), "-inf", fmt.Sprintf("%f", score)).Result()
	if err != nil {
		return 0, err
	}
	return total - notBetter, nil
}
