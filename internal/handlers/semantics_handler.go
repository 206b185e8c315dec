package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/herald-lol/brainprint/backend/internal/scorer"
)

// SemanticsHandler implements the /semantics/* endpoints of spec §6,
// all of which delegate straight into the scorer — none of these
// operations read or write any store.
type SemanticsHandler struct {
	Scorer *scorer.Scorer
}

func NewSemanticsHandler(s *scorer.Scorer) *SemanticsHandler {
	return &SemanticsHandler{Scorer: s}
}

type similarityRequest struct {
	Word      string   `json:"word" binding:"required"`
	OtherWord string   `json:"other_word"`
	Words     []string `json:"words"`
	Language  string   `json:"language"`
}

type similarityResponse struct {
	Score      float64  `json:"score"`
	Percentile *float64 `json:"percentile,omitempty"`
}

// Similarity handles POST /semantics/similarity: {word, other_word?, language}
// -> {score, percentile?}. When Words is supplied instead of a single
// other_word, the score is the mean similarity against that set.
func (h *SemanticsHandler) Similarity(c *gin.Context) {
	var req similarityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	var score float64
	switch {
	case len(req.Words) > 0:
		score = h.Scorer.AverageSimilarity(c.Request.Context(), req.Word, req.Words, req.Language)
	case req.OtherWord != "":
		score = h.Scorer.Similarity(c.Request.Context(), req.Word, req.OtherWord, req.Language)
	default:
		badRequest(c, "other_word or words is required")
		return
	}

	c.JSON(http.StatusOK, similarityResponse{Score: score})
}

type rarityRequest struct {
	Word     string `json:"word" binding:"required"`
	Pattern  string `json:"pattern"`
	Language string `json:"language"`
}

type rarityResponse struct {
	Rarity       int  `json:"rarity"`
	PatternMatch bool `json:"patternMatch"`
}

// Rarity handles POST /semantics/rarity: {word, pattern?} -> {rarity}.
func (h *SemanticsHandler) Rarity(c *gin.Context) {
	var req rarityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	result := h.Scorer.Rarity(c.Request.Context(), req.Word, req.Language, req.Pattern)
	c.JSON(http.StatusOK, rarityResponse{Rarity: result.Rarity, PatternMatch: result.PatternMatch})
}

type midpointRequest struct {
	Word     string `json:"word" binding:"required"`
	AnchorA  string `json:"anchorA" binding:"required"`
	AnchorB  string `json:"anchorB" binding:"required"`
	Language string `json:"language"`
}

type midpointResponse struct {
	Score float64 `json:"score"`
	DA    float64 `json:"dA"`
	DB    float64 `json:"dB"`
}

// Midpoint handles POST /semantics/midpoint: {word, anchorA, anchorB} -> {score}.
func (h *SemanticsHandler) Midpoint(c *gin.Context) {
	var req midpointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	result := h.Scorer.MidpointScore(c.Request.Context(), req.Word, req.AnchorA, req.AnchorB, req.Language)
	c.JSON(http.StatusOK, midpointResponse{Score: result.Score, DA: result.DA, DB: result.DB})
}

type clusterHeatRequest struct {
	Word      string   `json:"word" binding:"required"`
	ClusterID string   `json:"cluster_id"`
	Words     []string `json:"words"`
	Language  string   `json:"language"`
}

type clusterHeatResponse struct {
	Heat     float64 `json:"heat"`
	Distance float64 `json:"distance"`
}

// ClusterHeat handles POST /semantics/clusterHeat: {word, cluster_id_or_words}
// -> {heat}. The cluster's center is the centroid of Words; ClusterID is
// accepted for request-shape compatibility but this core has no named
// cluster store, so a request naming only a ClusterID without Words
// fails MissingField.
func (h *SemanticsHandler) ClusterHeat(c *gin.Context) {
	var req clusterHeatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	if len(req.Words) == 0 {
		badRequest(c, "words is required to derive a cluster center")
		return
	}

	center, err := h.Scorer.ClusterCenter(c.Request.Context(), req.Words, req.Language)
	if err != nil {
		respondError(c, err)
		return
	}
	result := h.Scorer.ClusterHeat(c.Request.Context(), req.Word, center, req.Language)
	c.JSON(http.StatusOK, clusterHeatResponse{Heat: result.Heat, Distance: result.Distance})
}
