package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/herald-lol/brainprint/backend/internal/apierr"
	"github.com/herald-lol/brainprint/backend/internal/brainprint"
	"github.com/herald-lol/brainprint/backend/internal/clock"
	"github.com/herald-lol/brainprint/backend/internal/gameengine"
	"github.com/herald-lol/brainprint/backend/internal/models"
	"github.com/herald-lol/brainprint/backend/internal/repository"
)

// SessionHandler implements the /session/* endpoints of spec §6. Init
// and Update operate on a single game directly (they are not full mode
// dispatches); Run goes through the orchestrator and persists the
// resulting summary.
type SessionHandler struct {
	Catalog      *gameengine.Catalog
	Orchestrator *gameengine.Orchestrator
	Sessions     *repository.SessionRepository
	Brainprints  *repository.BrainprintRepository
	Aggregator   *brainprint.Aggregator
	Clock        clock.Clock
}

func NewSessionHandler(catalog *gameengine.Catalog, orch *gameengine.Orchestrator, sessions *repository.SessionRepository, brainprints *repository.BrainprintRepository, aggregator *brainprint.Aggregator, c clock.Clock) *SessionHandler {
	if c == nil {
		c = clock.SystemClock{}
	}
	return &SessionHandler{Catalog: catalog, Orchestrator: orch, Sessions: sessions, Brainprints: brainprints, Aggregator: aggregator, Clock: c}
}

type initRequest struct {
	GameID   string `json:"game_id" binding:"required"`
	Mode     models.Mode `json:"mode" binding:"required"`
	Seed     string `json:"seed"`
	Language string `json:"language_code"`
	UserID   string `json:"user_id"`
}

type stateResponse struct {
	State models.GameState `json:"state"`
}

// Init handles POST /session/init: {game_id, mode, seed, language_code} -> {state}.
func (h *SessionHandler) Init(c *gin.Context) {
	var req initRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	game, ok := h.Catalog.Get(req.GameID)
	if !ok {
		respondError(c, apierr.New(apierr.KindMissingField, "unknown game id: "+req.GameID))
		return
	}
	if !gameengine.SupportsMode(game, req.Mode) {
		respondError(c, apierr.New(apierr.KindModeUnsupported, "game "+req.GameID+" does not support mode "+string(req.Mode)))
		return
	}

	gctx := models.GameContext{
		UserID:   req.UserID,
		Language: req.Language,
		Seed:     req.Seed,
		Mode:     req.Mode,
		NowMS:    h.Clock.Now().UnixMilli(),
	}
	state, err := game.Init(c.Request.Context(), gctx)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stateResponse{State: state})
}

type updateRequest struct {
	GameID   string             `json:"game_id" binding:"required"`
	Mode     models.Mode        `json:"mode" binding:"required"`
	Language string             `json:"language_code"`
	Seed     string             `json:"seed"`
	UserID   string             `json:"user_id"`
	State    models.GameState   `json:"state" binding:"required"`
	Action   models.PlayerAction `json:"action" binding:"required"`
}

// Update handles POST /session/update: {game_id, mode, state, action} -> {state}.
func (h *SessionHandler) Update(c *gin.Context) {
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	game, ok := h.Catalog.Get(req.GameID)
	if !ok {
		respondError(c, apierr.New(apierr.KindMissingField, "unknown game id: "+req.GameID))
		return
	}

	gctx := models.GameContext{
		UserID:   req.UserID,
		Language: req.Language,
		Seed:     req.Seed,
		Mode:     req.Mode,
		NowMS:    h.Clock.Now().UnixMilli(),
	}
	next, err := game.Update(c.Request.Context(), gctx, req.State, req.Action)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stateResponse{State: next})
}

// Run handles POST /session/run: the full SessionRequest, dispatched
// through the orchestrator. On success the resulting summary is
// persisted keyed by a freshly minted session id.
func (h *SessionHandler) Run(c *gin.Context) {
	var req models.SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	result, err := h.Orchestrator.RunGame(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	sessionID := uuid.NewString()
	if h.Sessions != nil {
		if err := h.Sessions.Save(c.Request.Context(), sessionID, req.Context.UserID, req.GameID, req.Mode, result.Summary); err != nil {
			respondError(c, err)
			return
		}
	}

	// The brainprint folds this run's signals in once, via the same
	// incremental update the aggregator exposes for tests. The update is
	// not recorded or deduplicated by session id, and the leaderboard
	// and season projections are not updated here.
	if h.Brainprints != nil && h.Aggregator != nil && req.Context.UserID != "" {
		existing, err := h.Brainprints.Get(c.Request.Context(), req.Context.UserID)
		if err != nil {
			respondError(c, err)
			return
		}
		updated := h.Aggregator.Incremental(existing, result.Summary)
		if err := h.Brainprints.Save(c.Request.Context(), updated); err != nil {
			respondError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id": sessionID,
		"result":     result,
	})
}
