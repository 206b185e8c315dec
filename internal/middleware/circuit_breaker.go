package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// EmbeddingCircuitBreaker guards the embedding provider call path: a
// slow or unavailable network-backed Provider degrades requests to
// ProviderUnavailable instead of letting them hang.
type EmbeddingCircuitBreaker struct {
	redisClient  *redis.Client
	config       *CircuitBreakerConfig
	stateManager *CircuitBreakerStateManager
}

// CircuitBreakerConfig tunes the trip/reset thresholds.
type CircuitBreakerConfig struct {
	FailureThreshold int           `json:"failure_threshold"` // consecutive failures to trip
	SuccessThreshold int           `json:"success_threshold"` // half-open successes to close
	OpenTimeout      time.Duration `json:"open_timeout"`      // time to stay open before half-open
}

// CircuitBreakerState is one of closed/open/half_open.
type CircuitBreakerState string

const (
	StateClosed   CircuitBreakerState = "closed"
	StateOpen     CircuitBreakerState = "open"
	StateHalfOpen CircuitBreakerState = "half_open"
)

// CircuitBreakerInfo is the persisted state for one service name.
type CircuitBreakerInfo struct {
	ServiceName         string
	State                CircuitBreakerState
	ConsecutiveFailures  int64
	ConsecutiveSuccesses int64
	StateChangedAt       time.Time
	NextRetryAt          *time.Time
}

// NewEmbeddingCircuitBreaker returns a breaker with cognitive-test
// defaults: the embedding lookup path is on the hot path of every
// scoring call, so it trips fast and recovers fast.
func NewEmbeddingCircuitBreaker(redisClient *redis.Client, config *CircuitBreakerConfig) *EmbeddingCircuitBreaker {
	if config == nil {
		config = &CircuitBreakerConfig{}
	}
	if config.FailureThreshold == 0 {
		config.FailureThreshold = 5
	}
	if config.SuccessThreshold == 0 {
		config.SuccessThreshold = 2
	}
	if config.OpenTimeout == 0 {
		config.OpenTimeout = 30 * time.Second
	}
	return &EmbeddingCircuitBreaker{
		redisClient:  redisClient,
		config:       config,
		stateManager: &CircuitBreakerStateManager{redisClient: redisClient, config: config},
	}
}

// Guard wraps the embedding provider middleware: when the breaker is
// open the request fails fast with 503 ProviderUnavailable rather than
// reaching the provider at all.
func (cb *EmbeddingCircuitBreaker) Guard() gin.HandlerFunc {
	const serviceName = "embedding_provider"
	return func(c *gin.Context) {
		info := cb.stateManager.GetCircuitInfo(c.Request.Context(), serviceName)

		switch info.State {
		case StateOpen:
			if cb.stateManager.readyForHalfOpen(info, time.Now()) {
				cb.stateManager.transitionTo(c.Request.Context(), serviceName, info, StateHalfOpen)
			} else {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"error_kind":  "ProviderUnavailable",
					"message":     "embedding provider is currently unavailable",
					"retry_after": info.NextRetryAt,
				})
				c.Abort()
				return
			}
		case StateHalfOpen, StateClosed:
			// fall through to execution
		}

		c.Next()

		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusInternalServerError {
			cb.stateManager.RecordFailure(c.Request.Context(), serviceName)
		} else {
			cb.stateManager.RecordSuccess(c.Request.Context(), serviceName)
		}
	}
}
