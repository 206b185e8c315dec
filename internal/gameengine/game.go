// Package gameengine implements the game plugin contract (C4), the
// catalog (C5), and the session orchestrator (C7). Mode runners (C6)
// live in the runner subpackage to keep the one-way dependency graph
// of spec §9 explicit: gameengine depends on runner, never the other
// way around.
package gameengine

import (
	"context"

	"github.com/herald-lol/brainprint/backend/internal/models"
)

// UISchema is a declarative, opaque-to-the-engine description of how
// the external UI should render a game round.
type UISchema struct {
	Layout      string                 `json:"layout"`
	Input       string                 `json:"input"`
	Feedback    string                 `json:"feedback"`
	Animation   string                 `json:"animation,omitempty"`
	CardStyle   string                 `json:"card_style,omitempty"`
	Extra       map[string]interface{} `json:"extra,omitempty"`
}

// Game is the plugin contract every micro-game satisfies. Init must be
// a pure function of (seed, language, mode) and must not leak
// wall-clock into scoring; a plugin may still stash a start time into
// Data for UI purposes only. Update is deterministic and returns the
// state unchanged when the action is not one it recognizes — it never
// errors on an unexpected action.
type Game interface {
	ID() string
	Name() string
	ShortDescription() string
	SupportedModes() []models.Mode

	Init(ctx context.Context, gctx models.GameContext) (models.GameState, error)
	Update(ctx context.Context, gctx models.GameContext, state models.GameState, action models.PlayerAction) (models.GameState, error)
	Summarize(ctx context.Context, gctx models.GameContext, state models.GameState) (models.GameResultSummary, error)
	UISchema() UISchema
}

// SupportsMode reports whether g declares support for mode.
func SupportsMode(g Game, mode models.Mode) bool {
	for _, m := range g.SupportedModes() {
		if m == mode {
			return true
		}
	}
	return false
}
