package models

import "encoding/json"

// Mode identifies a runner strategy.
type Mode string

const (
	ModeOneShot   Mode = "one_shot"
	ModeJourney   Mode = "journey"
	ModeArena     Mode = "arena"
	ModeEndurance Mode = "endurance"
)

// AllModes lists every mode a game's SupportedModes may draw from.
var AllModes = []Mode{ModeOneShot, ModeJourney, ModeArena, ModeEndurance}

// GameContext is immutable within a session: the only inputs a plugin's
// Init may depend on besides its own code.
type GameContext struct {
	UserID   string `json:"user_id,omitempty"`
	Language string `json:"language_code"`
	Seed     string `json:"seed"`
	Mode     Mode   `json:"mode"`
	NowMS    int64  `json:"now"`
}

// GameState is mutated in place by a runner between plugin calls. Data
// is owned entirely by the plugin; the engine never inspects it.
type GameState struct {
	Step int             `json:"step"`
	Done bool            `json:"done"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Clone returns a deep-enough copy for history snapshots: Data is
// copied by value since json.RawMessage is a byte slice the plugin
// should not mutate after returning it.
func (s GameState) Clone() GameState {
	data := make(json.RawMessage, len(s.Data))
	copy(data, s.Data)
	return GameState{Step: s.Step, Done: s.Done, Data: data}
}

// ActionKind tags the variant carried by a PlayerAction.
type ActionKind string

const (
	ActionTap        ActionKind = "tap"
	ActionTapMany    ActionKind = "tap_many"
	ActionSubmitWord ActionKind = "submit_word"
	ActionTimer      ActionKind = "timer"
	ActionNoop       ActionKind = "noop"
	ActionCustom     ActionKind = "custom"
)

// PlayerAction is a tagged variant; only the field matching Kind is
// meaningful. TimestampMS is carried as sent; the arena runner reads
// the timestamp on the enclosing TimedAction, not this field.
type PlayerAction struct {
	Kind        ActionKind      `json:"kind"`
	WordID      string          `json:"word_id,omitempty"`
	WordIDs     []string        `json:"word_ids,omitempty"`
	Text        string          `json:"text,omitempty"`
	Payload     json.RawMessage `json:"payload,omitempty"`
	TimestampMS int64           `json:"timestamp_ms,omitempty"`
}

// TimedAction pairs an action with the timestamp (milliseconds since the
// run's start) arena uses to decide whether it falls inside the time
// budget.
type TimedAction struct {
	Action      PlayerAction
	TimestampMS int64
}
