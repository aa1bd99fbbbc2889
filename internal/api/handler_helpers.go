package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"songbook-backend-go/internal/core"
)

// currentUserID pulls the authenticated caller's id out of the Gin context.
// It reports false after writing an error response when the auth middleware
// did not run.
func currentUserID(c *gin.Context) (string, bool) {
	raw, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, NewErrorResponse("Authentication error: user ID not found in context"))
		return "", false
	}
	userID, ok := raw.(string)
	if !ok || userID == "" {
		c.JSON(http.StatusUnauthorized, NewErrorResponse("Authentication error: invalid user ID in context"))
		return "", false
	}
	return userID, true
}

// respondServiceError maps service-layer sentinel errors onto HTTP statuses
// with the uniform error envelope. Unknown errors become a generic 500; the
// detail stays in the server log via the request logger's gin_errors field.
func respondServiceError(c *gin.Context, err error) {
	_ = c.Error(err)

	switch {
	case errors.Is(err, core.ErrInvalidPriceID):
		c.JSON(http.StatusBadRequest, NewErrorResponse("Invalid price ID format"))
	case errors.Is(err, core.ErrInvalidReorder):
		c.JSON(http.StatusBadRequest, NewErrorResponse(err.Error()))
	case errors.Is(err, core.ErrForbidden):
		c.JSON(http.StatusForbidden, NewErrorResponse("You do not have access to this resource"))
	case errors.Is(err, core.ErrUserNotFound):
		c.JSON(http.StatusNotFound, NewErrorResponse("User profile not found"))
	case errors.Is(err, core.ErrPlaylistNotFound):
		c.JSON(http.StatusNotFound, NewErrorResponse("Playlist not found"))
	case errors.Is(err, core.ErrSongNotFound):
		c.JSON(http.StatusNotFound, NewErrorResponse("Song not found"))
	case errors.Is(err, core.ErrNoBillingCustomer):
		c.JSON(http.StatusNotFound, NewErrorResponse("No billing customer found"))
	case errors.Is(err, core.ErrNoActiveSubscription):
		c.JSON(http.StatusNotFound, NewErrorResponse("No active subscription found"))
	case errors.Is(err, core.ErrMailerNotConfigured):
		c.JSON(http.StatusServiceUnavailable, NewErrorResponse("Email delivery is not configured"))
	default:
		c.JSON(http.StatusInternalServerError, NewErrorResponse("Internal server error"))
	}
}
