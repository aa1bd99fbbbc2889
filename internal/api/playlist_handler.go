package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"songbook-backend-go/internal/core"
	"songbook-backend-go/internal/models"
)

// PlaylistHandler handles playlist CRUD, ordering and sharing endpoints.
type PlaylistHandler struct {
	playlistService core.PlaylistService
}

// NewPlaylistHandler creates a PlaylistHandler.
func NewPlaylistHandler(ps core.PlaylistService) *PlaylistHandler {
	return &PlaylistHandler{playlistService: ps}
}

// Create handles POST /api/playlists.
func (h *PlaylistHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.CreatePlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse("Playlist name is required"))
		return
	}

	playlist, err := h.playlistService.Create(c.Request.Context(), userID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, playlist)
}

// List handles GET /api/playlists. It lists the caller's own playlists.
func (h *PlaylistHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	playlists, err := h.playlistService.ListOwned(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, playlists)
}

// Get handles GET /api/playlists/:playlistId.
func (h *PlaylistHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	playlist, err := h.playlistService.Get(c.Request.Context(), userID, c.Param("playlistId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, playlist)
}

// Update handles PATCH /api/playlists/:playlistId.
func (h *PlaylistHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.UpdatePlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse("Invalid request body"))
		return
	}

	playlist, err := h.playlistService.Update(c.Request.Context(), userID, c.Param("playlistId"), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, playlist)
}

// Delete handles DELETE /api/playlists/:playlistId.
func (h *PlaylistHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.playlistService.Delete(c.Request.Context(), userID, c.Param("playlistId")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, StatusResponse{Status: "deleted"})
}

// AddSong handles POST /api/playlists/:playlistId/songs.
func (h *PlaylistHandler) AddSong(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.AddPlaylistSongRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse("A song ID is required"))
		return
	}

	playlist, err := h.playlistService.AddSong(c.Request.Context(), userID, c.Param("playlistId"), req.SongID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, playlist)
}

// RemoveSong handles DELETE /api/playlists/:playlistId/songs/:songId.
func (h *PlaylistHandler) RemoveSong(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	playlist, err := h.playlistService.RemoveSong(c.Request.Context(), userID, c.Param("playlistId"), c.Param("songId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, playlist)
}

// Reorder handles PUT /api/playlists/:playlistId/songs. The body carries
// the complete new ordering.
func (h *PlaylistHandler) Reorder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.ReorderPlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse("A complete songs ordering is required"))
		return
	}

	playlist, err := h.playlistService.Reorder(c.Request.Context(), userID, c.Param("playlistId"), req.Songs)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, playlist)
}

// Share handles POST /api/playlists/:playlistId/share.
func (h *PlaylistHandler) Share(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.SharePlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse("A user ID and role are required"))
		return
	}

	if err := h.playlistService.Share(c.Request.Context(), userID, c.Param("playlistId"), req); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, StatusResponse{Status: "shared"})
}
