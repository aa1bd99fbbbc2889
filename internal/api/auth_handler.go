package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"songbook-backend-go/internal/core"
	"songbook-backend-go/internal/models"
)

// AuthHandler handles the server-side half of the magic-link sign-in flow.
type AuthHandler struct {
	authService core.AuthService
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(as core.AuthService) *AuthHandler {
	return &AuthHandler{authService: as}
}

// SendSignInLink handles POST /api/auth/send-sign-in-link. The endpoint is
// public; possession of the mailbox is what proves identity.
func (h *AuthHandler) SendSignInLink(c *gin.Context) {
	var req models.SendSignInLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse("A valid email address is required"))
		return
	}

	if err := h.authService.SendSignInLink(c.Request.Context(), req.Email, req.ReturnURL); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, StatusResponse{Status: "sent"})
}
