package api

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"songbook-backend-go/internal/core"
	"songbook-backend-go/internal/models"
)

// UserHandler handles user-profile endpoints.
type UserHandler struct {
	userService core.UserService
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(us core.UserService) *UserHandler {
	return &UserHandler{userService: us}
}

// GetProfile handles GET /api/user-profile. A first read for a freshly
// authenticated user creates the profile with defaults, so the client never
// sees a 404 for its own profile.
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, created, err := h.userService.GetOrCreate(
		c.Request.Context(),
		userID,
		c.GetString("userEmail"),
		c.GetString("userDisplayName"),
		c.GetString("userPhotoURL"),
	)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if created {
		c.JSON(http.StatusCreated, user)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateProfile handles PATCH /api/user-profile. The body is decoded with
// unknown fields rejected, so a request naming a field outside the allow
// list fails instead of being silently dropped.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.UpdateProfileRequest
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse("Invalid request body: "+err.Error()))
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
