package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"songbook-backend-go/internal/core"
)

// SongHandler handles song catalog read endpoints.
type SongHandler struct {
	songService core.SongService
}

// NewSongHandler creates a SongHandler.
func NewSongHandler(ss core.SongService) *SongHandler {
	return &SongHandler{songService: ss}
}

// List handles GET /api/songs. An optional limit query caps the page size.
func (h *SongHandler) List(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, NewErrorResponse("limit must be a non-negative integer"))
			return
		}
		limit = parsed
	}

	songs, err := h.songService.List(c.Request.Context(), limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, songs)
}

// Get handles GET /api/songs/:songId.
func (h *SongHandler) Get(c *gin.Context) {
	song, err := h.songService.GetByID(c.Request.Context(), c.Param("songId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, song)
}
