package helpers

import (
	"errors"
	"net/http"

	"sealed-auction/internal/biddingerrors"
	"sealed-auction/utils"

	"github.com/gin-gonic/gin"
)

const msgUnavailable = "service unavailable, please try again later"

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, handlerName string, err error) {
	utils.JSONError(c, http.StatusBadRequest, biddingerrors.KindValidation.String(), "invalid request payload")
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// MapErrorToHTTP maps domain/service errors to HTTP status code and a public message.
// Transient and inconsistency errors never expose their cause.
func MapErrorToHTTP(err error) (int, string) {
	var rangeErr *biddingerrors.RangeError
	var conflict *biddingerrors.BidConflictError

	switch {
	case errors.As(err, &rangeErr):
		return http.StatusBadRequest, rangeErr.Error()
	case errors.As(err, &conflict):
		return http.StatusConflict, conflict.Error()
	case errors.Is(err, biddingerrors.ErrAlreadyRegistered):
		return http.StatusConflict, biddingerrors.ErrAlreadyRegistered.Error()
	case errors.Is(err, biddingerrors.ErrItemExists):
		return http.StatusConflict, biddingerrors.ErrItemExists.Error()
	case errors.Is(err, biddingerrors.ErrUserNotFound):
		return http.StatusNotFound, biddingerrors.ErrUserNotFound.Error()
	}

	switch biddingerrors.KindOf(err) {
	case biddingerrors.KindValidation:
		return http.StatusBadRequest, "invalid request details"
	case biddingerrors.KindNotRegistered:
		return http.StatusForbidden, biddingerrors.ErrNotRegistered.Error()
	case biddingerrors.KindNotFound:
		return http.StatusNotFound, biddingerrors.ErrItemNotFound.Error()
	case biddingerrors.KindConflict:
		return http.StatusConflict, "request conflicts with the auction state"
	default:
		return http.StatusServiceUnavailable, msgUnavailable
	}
}

// RespondError writes the mapped error and logs the full chain
func RespondError(c *gin.Context, handlerName string, err error, ctx map[string]any) {
	status, message := MapErrorToHTTP(err)
	kind := biddingerrors.KindOf(err)
	utils.JSONError(c, status, kind.String(), message)

	if ctx == nil {
		ctx = map[string]any{}
	}
	ctx["handler"] = handlerName
	ctx["kind"] = kind.String()
	ctx["error"] = err.Error()
	if status >= http.StatusInternalServerError {
		utils.Error(handlerName+": request failed", ctx)
		return
	}
	utils.Warn(handlerName+": request rejected", ctx)
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}
