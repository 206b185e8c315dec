package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// CircuitBreakerStateManager persists CircuitBreakerInfo as a Redis
// hash, one key per service name.
type CircuitBreakerStateManager struct {
	redisClient *redis.Client
	config      *CircuitBreakerConfig
}

func (sm *CircuitBreakerStateManager) GetCircuitInfo(ctx context.Context, serviceName string) *CircuitBreakerInfo {
	key := circuitKey(serviceName)
	result, err := sm.redisClient.HGetAll(ctx, key).Result()
	if err != nil || len(result) == 0 {
		return sm.initializeCircuit(ctx, serviceName)
	}

	info := &CircuitBreakerInfo{ServiceName: serviceName, State: StateClosed}
	if state, ok := result["state"]; ok {
		info.State = CircuitBreakerState(state)
	}
	if v, ok := result["consecutive_failures"]; ok {
		info.ConsecutiveFailures, _ = strconv.ParseInt(v, 10, 64)
	}
	if v, ok := result["consecutive_successes"]; ok {
		info.ConsecutiveSuccesses, _ = strconv.ParseInt(v, 10, 64)
	}
	if v, ok := result["state_changed_at"]; ok {
		if ts, err := strconv.ParseInt(v, 10, 64); err == nil {
			info.StateChangedAt = time.Unix(ts, 0)
		}
	}
	if v, ok := result["next_retry_at"]; ok && v != "" {
		if ts, err := strconv.ParseInt(v, 10, 64); err == nil {
			t := time.Unix(ts, 0)
			info.NextRetryAt = &t
		}
	}
	return info
}

func (sm *CircuitBreakerStateManager) initializeCircuit(ctx context.Context, serviceName string) *CircuitBreakerInfo {
	info := &CircuitBreakerInfo{ServiceName: serviceName, State: StateClosed, StateChangedAt: time.Now()}
	sm.saveCircuitInfo(ctx, info)
	return info
}

// RecordSuccess resets the failure streak; enough consecutive
// successes while half-open closes the circuit again.
func (sm *CircuitBreakerStateManager) RecordSuccess(ctx context.Context, serviceName string) {
	info := sm.GetCircuitInfo(ctx, serviceName)
	info.ConsecutiveFailures = 0
	info.ConsecutiveSuccesses++
	if info.State == StateHalfOpen && info.ConsecutiveSuccesses >= int64(sm.config.SuccessThreshold) {
		sm.transitionTo(ctx, serviceName, info, StateClosed)
		return
	}
	sm.saveCircuitInfo(ctx, info)
}

// RecordFailure increments the failure streak; enough consecutive
// failures trips the circuit open. A failure while half-open reopens
// it immediately.
func (sm *CircuitBreakerStateManager) RecordFailure(ctx context.Context, serviceName string) {
	info := sm.GetCircuitInfo(ctx, serviceName)
	info.ConsecutiveSuccesses = 0
	info.ConsecutiveFailures++
	if info.State == StateHalfOpen || info.ConsecutiveFailures >= int64(sm.config.FailureThreshold) {
		sm.transitionTo(ctx, serviceName, info, StateOpen)
		return
	}
	sm.saveCircuitInfo(ctx, info)
}

func (sm *CircuitBreakerStateManager) readyForHalfOpen(info *CircuitBreakerInfo, now time.Time) bool {
	return info.NextRetryAt != nil && !now.Before(*info.NextRetryAt)
}

func (sm *CircuitBreakerStateManager) transitionTo(ctx context.Context, serviceName string, info *CircuitBreakerInfo, newState CircuitBreakerState) {
	info.State = newState
	info.StateChangedAt = time.Now()
	info.ConsecutiveFailures = 0
	info.ConsecutiveSuccesses = 0
	if newState == StateOpen {
		next := time.Now().Add(sm.config.OpenTimeout)
		info.NextRetryAt = &next
	} else {
		info.NextRetryAt = nil
	}
	sm.saveCircuitInfo(ctx, info)
}

func (sm *CircuitBreakerStateManager) saveCircuitInfo(ctx context.Context, info *CircuitBreakerInfo) {
	key := circuitKey(info.ServiceName)
	values := map[string]interface{}{
		"state":                 string(info.State),
		"consecutive_failures":  info.ConsecutiveFailures,
		"consecutive_successes": info.ConsecutiveSuccesses,
		"state_changed_at":      info.StateChangedAt.Unix(),
	}
	if info.NextRetryAt != nil {
		values["next_retry_at"] = info.NextRetryAt.Unix()
	} else {
		values["next_retry_at"] = ""
	}
	sm.redisClient.HSet(ctx, key, values)
	sm.redisClient.Expire(ctx, key, time.Hour)
}

func circuitKey(serviceName string) string {
	return fmt.Sprintf("herald:circuit_breaker:%s", serviceName)
}
