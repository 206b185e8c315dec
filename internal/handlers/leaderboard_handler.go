package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/herald-lol/brainprint/backend/internal/apierr"
	"github.com/herald-lol/brainprint/backend/internal/clock"
	"github.com/herald-lol/brainprint/backend/internal/leaderboard"
	"github.com/herald-lol/brainprint/backend/internal/models"
	"github.com/herald-lol/brainprint/backend/internal/repository"
)

// LeaderboardHandler implements the /leaderboards/* endpoints of spec
// §6. Ranking math stays in internal/leaderboard's pure functions; this
// type only fetches rows and shapes the HTTP response.
type LeaderboardHandler struct {
	Repo    *repository.LeaderboardRepository
	Cache   *leaderboard.RedisCache
	Friends repository.FriendshipStore
	Clock   clock.Clock
}

func NewLeaderboardHandler(repo *repository.LeaderboardRepository, cache *leaderboard.RedisCache, friends repository.FriendshipStore, c clock.Clock) *LeaderboardHandler {
	if c == nil {
		c = clock.SystemClock{}
	}
	return &LeaderboardHandler{Repo: repo, Cache: cache, Friends: friends, Clock: c}
}

func queryInt(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

// Get handles GET /leaderboards/{game}/{mode}: the ranked all-time page,
// optionally restricted to the caller's friends when userId and a
// friendship store are both available.
func (h *LeaderboardHandler) Get(c *gin.Context) {
	gameID := c.Param("game")
	mode := models.Mode(c.Param("mode"))
	limit := queryInt(c, "limit", 50)
	offset := queryInt(c, "offset", 0)
	userID := c.Query("userId")

	entries, err := h.Repo.ListEntries(c.Request.Context(), gameID, mode)
	if err != nil {
		respondError(c, err)
		return
	}

	if userID != "" && h.Friends != nil {
		friendIDs, err := h.Friends.FriendsOf(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		entries = leaderboard.FriendsView(entries, userID, friendIDs)
	}

	ranked := leaderboard.RankEntries(entries)
	page := leaderboard.Page(ranked, limit, offset)
	c.JSON(http.StatusOK, page)
}

// Daily handles GET /leaderboards/{game}/{mode}/daily: the last-24h
// ranking, keyed on today's date in the server's local time.
func (h *LeaderboardHandler) Daily(c *gin.Context) {
	gameID := c.Param("game")
	mode := models.Mode(c.Param("mode"))
	date := h.Clock.Now().Format("2006-01-02")

	rows, err := h.Repo.ListDailyEntries(c.Request.Context(), gameID, mode, date)
	if err != nil {
		respondError(c, err)
		return
	}

	entries := make([]models.LeaderboardEntry, len(rows))
	for i, row := range rows {
		entries[i] = models.LeaderboardEntry{
			UserID:        row.UserID,
			GameID:        row.GameID,
			Mode:          row.Mode,
			BestScore:     row.Score,
			BestSessionID: row.SessionID,
		}
	}
	ranked := leaderboard.RankEntries(entries)
	limit := queryInt(c, "limit", 50)
	offset := queryInt(c, "offset", 0)
	c.JSON(http.StatusOK, leaderboard.Page(ranked, limit, offset))
}

type submitRequest struct {
	UserID    string  `json:"user_id" binding:"required"`
	Score     float64 `json:"score"`
	SessionID string  `json:"session_id"`
}

type submitResponse struct {
	Rank     int          `json:"rank"`
	Tier     models.Tier  `json:"tier"`
	Improved bool         `json:"improved"`
}

// Submit handles POST /leaderboards/{game}/{mode}/submit: folds the new
// score into the all-time entry, records today's daily entry, pushes
// the live redis sorted set, and returns the caller's new
// {rank, tier, improved}.
func (h *LeaderboardHandler) Submit(c *gin.Context) {
	gameID := c.Param("game")
	mode := models.Mode(c.Param("mode"))

	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	existing, err := h.Repo.GetEntry(c.Request.Context(), req.UserID, gameID, mode)
	if err != nil {
		respondError(c, err)
		return
	}
	improved := req.Score > existing.BestScore
	merged := leaderboard.MergeSubmission(existing, req.Score, req.SessionID)
	if err := h.Repo.SaveEntry(c.Request.Context(), merged); err != nil {
		respondError(c, err)
		return
	}

	today := h.Clock.Now().Format("2006-01-02")
	dailyEntry := models.DailyLeaderboardEntry{
		UserID: req.UserID, GameID: gameID, Mode: mode, Date: today,
		Score: req.Score, SessionID: req.SessionID,
	}
	if err := h.Repo.SaveDailyEntry(c.Request.Context(), dailyEntry); err != nil {
		respondError(c, err)
		return
	}

	all, err := h.Repo.ListEntries(c.Request.Context(), gameID, mode)
	if err != nil {
		respondError(c, err)
		return
	}
	ranked := leaderboard.RankEntries(all)
	rank := 0
	for _, e := range ranked {
		if e.UserID == req.UserID {
			rank = *e.Rank
			break
		}
	}
	if rank == 0 {
		respondError(c, apierr.New(apierr.KindInvariantViolation, "submitted entry missing from its own ranked set"))
		return
	}

	if h.Cache != nil {
		if err := h.Cache.Submit(c.Request.Context(), gameID, string(mode), req.UserID, merged.BestScore); err != nil {
			respondError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, submitResponse{Rank: rank, Tier: leaderboard.TierByRank(rank), Improved: improved})
}
