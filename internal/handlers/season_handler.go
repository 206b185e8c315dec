package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/herald-lol/brainprint/backend/internal/apierr"
	"github.com/herald-lol/brainprint/backend/internal/models"
	"github.com/herald-lol/brainprint/backend/internal/repository"
	"github.com/herald-lol/brainprint/backend/internal/season"
)

// SeasonHandler implements the /seasons/* endpoints of spec §6.
type SeasonHandler struct {
	Manager *season.Manager
	Repo    *repository.SeasonRepository
}

func NewSeasonHandler(manager *season.Manager, repo *repository.SeasonRepository) *SeasonHandler {
	return &SeasonHandler{Manager: manager, Repo: repo}
}

func findSeason(seasons []models.Season, id string) (models.Season, bool) {
	for _, s := range seasons {
		if s.ID == id {
			return s, true
		}
	}
	return models.Season{}, false
}

// Active handles GET /seasons/active.
func (h *SeasonHandler) Active(c *gin.Context) {
	s, err := h.Manager.ActiveSeason(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// Get handles GET /seasons/:id. The repository's only listing query is
// ActiveSeasons, since the season.Store contract has no by-id lookup;
// a request for a past or future season id is out of scope until that
// contract grows one.
func (h *SeasonHandler) Get(c *gin.Context) {
	seasonID := c.Param("id")
	seasons, err := h.Repo.ActiveSeasons(c.Request.Context(), h.Manager.Clock.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	s, ok := findSeason(seasons, seasonID)
	if !ok {
		respondError(c, apierr.New(apierr.KindMissingField, "unknown season id: "+seasonID))
		return
	}
	c.JSON(http.StatusOK, s)
}

// Progress handles GET /seasons/:id/progress/:user.
func (h *SeasonHandler) Progress(c *gin.Context) {
	seasonID := c.Param("id")
	userID := c.Param("user")
	progress, err := h.Manager.Store.GetProgress(c.Request.Context(), userID, seasonID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}

// Leaderboard handles GET /seasons/:id/leaderboard. The season.Store
// contract is narrow by design (active-season lookup plus per-user
// progress) and has no bulk "every user's progress for a season" query,
// so a season-scoped leaderboard has nothing to rank against yet.
func (h *SeasonHandler) Leaderboard(c *gin.Context) {
	respondError(c, apierr.New(apierr.KindMissingField,
		"season leaderboard requires a season-scoped progress listing not exposed by the progress store"))
}

// List handles GET /seasons/list.
func (h *SeasonHandler) List(c *gin.Context) {
	seasons, err := h.Repo.ActiveSeasons(c.Request.Context(), h.Manager.Clock.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, seasons)
}

type claimRequest struct {
	UserID      string `json:"user_id" binding:"required"`
	MilestoneID string `json:"milestone_id" binding:"required"`
}

// ClaimMilestone handles POST /seasons/:id/milestones/claim.
func (h *SeasonHandler) ClaimMilestone(c *gin.Context) {
	seasonID := c.Param("id")
	var req claimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	seasons, err := h.Repo.ActiveSeasons(c.Request.Context(), h.Manager.Clock.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	s, ok := findSeason(seasons, seasonID)
	if !ok {
		respondError(c, apierr.New(apierr.KindMissingField, "unknown season id: "+seasonID))
		return
	}

	result, err := h.Manager.ClaimMilestone(c.Request.Context(), req.UserID, s, req.MilestoneID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
