package models

import "encoding/json"

// GameResultSummary is what a plugin's Summarize produces and what a
// runner hands back to the orchestrator. Score is conventionally
// 0..100; SkillSignals values are clamped to [0,100] before they reach
// the brainprint aggregator.
type GameResultSummary struct {
	Score         float64            `json:"score"`
	DurationMS    int64              `json:"duration_ms"`
	Accuracy      *float64           `json:"accuracy,omitempty"`
	Percentile    *float64           `json:"percentile,omitempty"`
	SkillSignals  map[string]float64 `json:"skill_signals,omitempty"`
	Metadata      map[string]interface{} `json:"metadata,omitempty"`
}

// ClampSignals rewrites SkillSignals in place so every value sits in
// [0,100], per the GameResultSummary invariant in the data model.
func (s *GameResultSummary) ClampSignals() {
	for k, v := range s.SkillSignals {
		if v < 0 {
			v = 0
		}
		if v > 100 {
			v = 100
		}
		s.SkillSignals[k] = v
	}
}

// GameStateSnapshot is one entry in a ModeResult's History: a state
// observed after Init or after an applied action.
type GameStateSnapshot struct {
	State GameState `json:"state"`
}

// ModeResult is what the session orchestrator returns for a
// POST /session/run request.
type ModeResult struct {
	Summary  GameResultSummary      `json:"summary"`
	History  []GameStateSnapshot    `json:"history,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// ModeConfig carries the per-mode tuning knobs from spec §4.4: Journey's
// MaxSteps, Arena's DurationMS, Endurance's child sequence. Only the
// field relevant to the dispatched mode is read.
type ModeConfig struct {
	MaxSteps       int                `json:"max_steps,omitempty"`
	DurationMS     int64              `json:"duration_ms,omitempty"`
	EnduranceGames []EnduranceGameDef `json:"endurance_games,omitempty"`
}

// EnduranceGameDef names one child game in an endurance sequence along
// with the actions to feed it.
type EnduranceGameDef struct {
	GameID  string         `json:"game_id"`
	Actions []PlayerAction `json:"actions"`
}

// SessionRequest is the input to the session orchestrator's RunGame.
type SessionRequest struct {
	GameID     string              `json:"game_id"`
	Mode       Mode                `json:"mode"`
	Context    GameContext         `json:"context"`
	Actions    []PlayerAction      `json:"actions,omitempty"`
	Timed      []TimedAction       `json:"timed_actions,omitempty"`
	ModeConfig ModeConfig          `json:"mode_config,omitempty"`
}

// PersistedSession is the record written to the session store once a
// ModeResult is produced; downstream projections are applied
// idempotently keyed by SessionID.
type PersistedSession struct {
	SessionID string                 `json:"session_id" gorm:"primaryKey;size:64"`
	UserID    string                 `json:"user_id" gorm:"index;size:64"`
	GameID    string                 `json:"game_id" gorm:"index;size:64"`
	Mode      Mode                   `json:"mode" gorm:"size:32"`
	Score     float64                `json:"score"`
	Summary   json.RawMessage        `json:"summary" gorm:"type:text"`
	CreatedAt int64                  `json:"created_at"`
}
