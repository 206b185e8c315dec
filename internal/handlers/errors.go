// Package handlers wires the core packages (gameengine, scorer,
// leaderboard, season) to the gin HTTP boundary of spec §6. Every
// handler validates its own request shape and otherwise delegates
// immediately; none of them hold business logic themselves.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/herald-lol/brainprint/backend/internal/apierr"
)

// errorResponse is the {error_kind, message} envelope of spec §6.
type errorResponse struct {
	ErrorKind string `json:"error_kind"`
	Message   string `json:"message"`
}

// statusFor maps an apierr.Kind to the HTTP status per spec §7's
// propagation policy: 4xx for validation/state, 503 for provider
// absence, 500 for invariant/plugin violations.
func statusFor(kind apierr.Kind) int {
	switch kind {
	case apierr.KindMissingField,
		apierr.KindBadAction,
		apierr.KindModeUnsupported,
		apierr.KindOneShotRequiresOneAction,
		apierr.KindEnduranceBadLength,
		apierr.KindDimensionMismatch,
		apierr.KindInvalidPattern:
		return http.StatusBadRequest
	case apierr.KindUnauthenticated:
		return http.StatusUnauthorized
	case apierr.KindAlreadyClaimed:
		return http.StatusConflict
	case apierr.KindUnknownMilestone:
		return http.StatusNotFound
	case apierr.KindNotAchieved:
		return http.StatusBadRequest
	case apierr.KindProviderUnavailable:
		return http.StatusServiceUnavailable
	case apierr.KindStoreConflict:
		return http.StatusConflict
	case apierr.KindInvariantViolation, apierr.KindPluginContractViolation:
		return http.StatusInternalServerError
	case apierr.KindCancelled:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the error envelope for err, unwrapping an
// *apierr.Error when present and otherwise defaulting to a 500 with a
// generic kind so an unexpected error never leaks internals.
func respondError(c *gin.Context, err error) {
	var ae *apierr.Error
	if errors.As(err, &ae) {
		c.JSON(statusFor(ae.Kind), errorResponse{ErrorKind: string(ae.Kind), Message: ae.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, errorResponse{ErrorKind: "Internal", Message: "internal error"})
}

func badRequest(c *gin.Context, message string) {
	respondError(c, apierr.New(apierr.KindMissingField, message))
}
