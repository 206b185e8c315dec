// Package audit records session lifecycle events (start, finish,
// cancel) and milestone claims to a Redis-backed audit trail, grounded
// on the teacher's gaming audit logger: each event is marshaled to
// JSON, stored with a retention TTL, and indexed by day and by action
// so it can be queried back later.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/herald-lol/brainprint/backend/internal/models"
)

// Action identifies the kind of lifecycle event being recorded.
type Action string

const (
	ActionSessionStarted   Action = "session_started"
	ActionSessionFinished  Action = "session_finished"
	ActionSessionCanceled  Action = "session_canceled"
	ActionMilestoneClaimed Action = "milestone_claimed"
)

// DefaultRetentionDays is used when New is given retentionDays <= 0.
const DefaultRetentionDays = 90

// Event is one audit record.
type Event struct {
	ID        string      `json:"id"`
	Timestamp time.Time   `json:"timestamp"`
	Action    Action      `json:"action"`
	UserID    string      `json:"user_id"`
	GameID    string      `json:"game_id,omitempty"`
	Mode      models.Mode `json:"mode,omitempty"`
	Outcome   string      `json:"outcome,omitempty"`
}

// SessionLogger persists events to Redis: one key per event (with a
// retention TTL), a per-day sorted-set time-series index, and a
// per-action sorted-set index, mirroring the teacher's
// audit:event/audit:time_series/audit:category key scheme.
type SessionLogger struct {
	redis     *redis.Client
	retention time.Duration
}

// New builds a SessionLogger backed by redisClient. retentionDays <= 0
// falls back to DefaultRetentionDays.
func New(redisClient *redis.Client, retentionDays int) *SessionLogger {
	if retentionDays <= 0 {
		retentionDays = DefaultRetentionDays
	}
	return &SessionLogger{redis: redisClient, retention: time.Duration(retentionDays) * 24 * time.Hour}
}

func (a *SessionLogger) log(ctx context.Context, event Event) {
	event.ID = uuid.New().String()
	event.Timestamp = time.Now()

	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	eventKey := fmt.Sprintf("audit:event:%s", event.ID)
	if err := a.redis.Set(ctx, eventKey, data, a.retention).Err(); err != nil {
		return
	}

	score := float64(event.Timestamp.Unix())
	timeSeriesKey := fmt.Sprintf("audit:time_series:%s", event.Timestamp.Format("2006-01-02"))
	a.redis.ZAdd(ctx, timeSeriesKey, redis.Z{Score: score, Member: event.ID})
	a.redis.Expire(ctx, timeSeriesKey, a.retention)

	actionKey := fmt.Sprintf("audit:action:%s", event.Action)
	a.redis.ZAdd(ctx, actionKey, redis.Z{Score: score, Member: event.ID})
	a.redis.Expire(ctx, actionKey, a.retention)
}

// Recent returns up to limit events for the given day (YYYY-MM-DD),
// newest first, reading back through the time-series index the same
// way the teacher's GetAuditEvents does.
func (a *SessionLogger) Recent(ctx context.Context, day string, limit int) ([]Event, error) {
	timeSeriesKey := fmt.Sprintf("audit:time_series:%s", day)
	ids, err := a.redis.ZRevRange(ctx, timeSeriesKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	events := make([]Event, 0, len(ids))
	for _, id := range ids {
		data, err := a.redis.Get(ctx, fmt.Sprintf("audit:event:%s", id)).Result()
		if err != nil {
			continue
		}
		var event Event
		if err := json.Unmarshal([]byte(data), &event); err != nil {
			continue
		}
		events = append(events, event)
	}
	return events, nil
}

func (a *SessionLogger) SessionStarted(ctx context.Context, userID, gameID string, mode models.Mode) {
	a.log(ctx, Event{Action: ActionSessionStarted, UserID: userID, GameID: gameID, Mode: mode})
}

func (a *SessionLogger) SessionFinished(ctx context.Context, userID, gameID string, mode models.Mode, outcome string) {
	a.log(ctx, Event{Action: ActionSessionFinished, UserID: userID, GameID: gameID, Mode: mode, Outcome: outcome})
}

func (a *SessionLogger) SessionCanceled(ctx context.Context, userID, gameID string, mode models.Mode, reason string) {
	a.log(ctx, Event{Action: ActionSessionCanceled, UserID: userID, GameID: gameID, Mode: mode, Outcome: reason})
}

func (a *SessionLogger) MilestoneClaimed(ctx context.Context, userID, milestoneID string) {
	a.log(ctx, Event{Action: ActionMilestoneClaimed, UserID: userID, Outcome: milestoneID})
}
