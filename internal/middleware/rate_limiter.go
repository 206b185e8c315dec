package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// SessionRateLimiter throttles the session-orchestration and semantics
// endpoints with a Redis sorted-set sliding window, one ZSET per
// (client, scope) pair.
type SessionRateLimiter struct {
	redisClient *redis.Client
	config      *RateLimitConfig
}

// RateLimitConfig holds the per-scope request ceilings.
type RateLimitConfig struct {
	SessionRPM    int            `json:"session_rpm"`    // /session/* endpoints
	SemanticsRPM  int            `json:"semantics_rpm"`  // /semantics/* endpoints
	Window        time.Duration  `json:"window"`
	EndpointLimits map[string]int `json:"endpoint_limits"` // per-path override
}

// RateLimitResult is the outcome of a single rate-limit check.
type RateLimitResult struct {
	Allowed    bool          `json:"allowed"`
	Limit      int           `json:"limit"`
	Remaining  int           `json:"remaining"`
	ResetTime  time.Time     `json:"reset_time"`
	RetryAfter time.Duration `json:"retry_after"`
}

// NewSessionRateLimiter returns a limiter with gaming-cognitive-test
// defaults filled in where the caller left zero values.
func NewSessionRateLimiter(redisClient *redis.Client, config *RateLimitConfig) *SessionRateLimiter {
	if config == nil {
		config = &RateLimitConfig{}
	}
	if config.SessionRPM == 0 {
		config.SessionRPM = 120 // 2 per second; sessions are short but chatty (init/update/run)
	}
	if config.SemanticsRPM == 0 {
		config.SemanticsRPM = 300 // similarity/rarity calls are cheap and frequent
	}
	if config.Window == 0 {
		config.Window = time.Minute
	}
	if config.EndpointLimits == nil {
		config.EndpointLimits = map[string]int{
			"/session/run": 30, // full mode dispatch is the heaviest endpoint
		}
	}
	return &SessionRateLimiter{redisClient: redisClient, config: config}
}

// SessionLimit gates /session/* routes.
func (rl *SessionRateLimiter) SessionLimit() gin.HandlerFunc {
	return rl.limitFor(func(c *gin.Context) int {
		if limit, ok := rl.config.EndpointLimits[c.Request.URL.Path]; ok {
			return limit
		}
		return rl.config.SessionRPM
	}, "session")
}

// SemanticsLimit gates /semantics/* routes.
func (rl *SessionRateLimiter) SemanticsLimit() gin.HandlerFunc {
	return rl.limitFor(func(c *gin.Context) int {
		return rl.config.SemanticsRPM
	}, "semantics")
}

func (rl *SessionRateLimiter) limitFor(limitOf func(*gin.Context) int, scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID := rl.clientIdentifier(c)
		limit := limitOf(c)
		key := fmt.Sprintf("herald:rate_limit:%s:%s", scope, clientID)

		result := rl.checkLimit(c.Request.Context(), key, limit, rl.config.Window)
		rl.setHeaders(c, result)

		if !result.Allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error_kind":  "RateLimited",
				"message":     "rate limit exceeded for " + scope,
				"limit":       result.Limit,
				"retry_after": result.RetryAfter.Seconds(),
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// checkLimit implements the sliding-window counter: prune entries
// older than the window, count what remains, then add the current
// request — all inside one Redis pipeline so concurrent requests from
// the same client never race the count.
func (rl *SessionRateLimiter) checkLimit(ctx context.Context, key string, limit int, window time.Duration) *RateLimitResult {
	pipe := rl.redisClient.TxPipeline()

	now := time.Now()
	windowStart := now.Add(-window)

	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart.UnixNano(), 10))
	countCmd := pipe.ZCard(ctx, key)
	pipe.ZAdd(ctx, key, redis.Z{
		Score:  float64(now.UnixNano()),
		Member: now.UnixNano(),
	})
	pipe.Expire(ctx, key, window+time.Minute)

	if _, err := pipe.Exec(ctx); err != nil {
		// Redis outage degrades to "allow" rather than blocking every request.
		return &RateLimitResult{Allowed: true, Limit: limit, Remaining: limit, ResetTime: now.Add(window)}
	}

	count := int(countCmd.Val())
	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}
	retryAfter := time.Duration(0)
	if count >= limit {
		retryAfter = window
	}
	return &RateLimitResult{
		Allowed:    count < limit,
		Limit:      limit,
		Remaining:  remaining,
		ResetTime:  now.Add(window),
		RetryAfter: retryAfter,
	}
}

func (rl *SessionRateLimiter) clientIdentifier(c *gin.Context) string {
	if userID, exists := c.Get("user_id"); exists {
		if s, ok := userID.(string); ok && s != "" {
			return "user:" + s
		}
	}
	return "ip:" + c.ClientIP()
}

func (rl *SessionRateLimiter) setHeaders(c *gin.Context, result *RateLimitResult) {
	c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetTime.Unix(), 10))
}
