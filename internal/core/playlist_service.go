package core

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"songbook-backend-go/internal/db"
	"songbook-backend-go/internal/models"
)

type playlistService struct {
	playlists db.PlaylistRepository
	logger    *zap.Logger
}

// NewPlaylistService creates a PlaylistService.
func NewPlaylistService(playlists db.PlaylistRepository, logger *zap.Logger) PlaylistService {
	return &playlistService{playlists: playlists, logger: logger}
}

func (s *playlistService) Create(ctx context.Context, ownerID string, req models.CreatePlaylistRequest) (*models.Playlist, error) {
	playlist := &models.Playlist{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     ownerID,
		Songs:       []string{},
		IsPublic:    req.IsPublic,
	}
	if err := s.playlists.Create(ctx, playlist); err != nil {
		return nil, fmt.Errorf("failed to create playlist: %w", err)
	}
	s.logger.Info("playlist created",
		zap.String("playlistId", playlist.ID),
		zap.String("ownerId", ownerID))
	return playlist, nil
}

func (s *playlistService) Get(ctx context.Context, userID, playlistID string) (*models.Playlist, error) {
	return s.authorize(ctx, userID, playlistID, models.RoleViewer)
}

func (s *playlistService) ListOwned(ctx context.Context, userID string) ([]*models.Playlist, error) {
	return s.playlists.ListByOwner(ctx, userID)
}

func (s *playlistService) Update(ctx context.Context, userID, playlistID string, req models.UpdatePlaylistRequest) (*models.Playlist, error) {
	if _, err := s.authorize(ctx, userID, playlistID, models.RoleEditor); err != nil {
		return nil, err
	}

	fields := make(map[string]interface{})
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.IsPublic != nil {
		fields["isPublic"] = *req.IsPublic
	}
	if req.Tags != nil {
		fields["tags"] = *req.Tags
	}
	if err := s.playlists.Update(ctx, playlistID, fields); err != nil {
		return nil, s.mapNotFound(err)
	}
	return s.playlists.GetByID(ctx, playlistID)
}

func (s *playlistService) Delete(ctx context.Context, userID, playlistID string) error {
	playlist, err := s.playlists.GetByID(ctx, playlistID)
	if err != nil {
		return s.mapNotFound(err)
	}
	// Only the owner may delete, sharing never grants that.
	if playlist.OwnerID != userID {
		return ErrForbidden
	}
	return s.playlists.Delete(ctx, playlistID)
}

// AddSong appends the song to the end of the ordering. Adding a song that is
// already present is a no-op, not an error.
func (s *playlistService) AddSong(ctx context.Context, userID, playlistID, songID string) (*models.Playlist, error) {
	playlist, err := s.authorize(ctx, userID, playlistID, models.RoleEditor)
	if err != nil {
		return nil, err
	}

	for _, id := range playlist.Songs {
		if id == songID {
			return playlist, nil
		}
	}
	songs := append(append([]string{}, playlist.Songs...), songID)
	if err := s.playlists.ReplaceSongs(ctx, playlistID, songs); err != nil {
		return nil, s.mapNotFound(err)
	}
	playlist.Songs = songs
	return playlist, nil
}

// RemoveSong removes the song while preserving the relative order of the
// rest. Removing an absent song is a no-op.
func (s *playlistService) RemoveSong(ctx context.Context, userID, playlistID, songID string) (*models.Playlist, error) {
	playlist, err := s.authorize(ctx, userID, playlistID, models.RoleEditor)
	if err != nil {
		return nil, err
	}

	songs := make([]string, 0, len(playlist.Songs))
	for _, id := range playlist.Songs {
		if id != songID {
			songs = append(songs, id)
		}
	}
	if len(songs) == len(playlist.Songs) {
		return playlist, nil
	}
	if err := s.playlists.ReplaceSongs(ctx, playlistID, songs); err != nil {
		return nil, s.mapNotFound(err)
	}
	playlist.Songs = songs
	return playlist, nil
}

// Reorder rewrites the whole songs array from the requested positions. The
// request must contain exactly the playlist's current songs, no more and no
// fewer; otherwise nothing is written.
func (s *playlistService) Reorder(ctx context.Context, userID, playlistID string, positions []models.SongPosition) (*models.Playlist, error) {
	playlist, err := s.authorize(ctx, userID, playlistID, models.RoleEditor)
	if err != nil {
		return nil, err
	}

	if len(positions) != len(playlist.Songs) {
		return nil, ErrInvalidReorder
	}
	current := make(map[string]bool, len(playlist.Songs))
	for _, id := range playlist.Songs {
		current[id] = true
	}
	seen := make(map[string]bool, len(positions))
	for _, p := range positions {
		if !current[p.ID] || seen[p.ID] {
			return nil, ErrInvalidReorder
		}
		seen[p.ID] = true
	}

	ordered := append([]models.SongPosition{}, positions...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Position < ordered[j].Position })
	songs := make([]string, len(ordered))
	for i, p := range ordered {
		songs[i] = p.ID
	}

	if err := s.playlists.ReplaceSongs(ctx, playlistID, songs); err != nil {
		return nil, s.mapNotFound(err)
	}
	playlist.Songs = songs
	return playlist, nil
}

// Share grants another user access to the playlist. Only the owner may
// share. Granting a role the user already holds just rewrites the record.
func (s *playlistService) Share(ctx context.Context, ownerID, playlistID string, req models.SharePlaylistRequest) error {
	playlist, err := s.playlists.GetByID(ctx, playlistID)
	if err != nil {
		return s.mapNotFound(err)
	}
	if playlist.OwnerID != ownerID {
		return ErrForbidden
	}
	if req.Role != models.RoleEditor && req.Role != models.RoleViewer {
		return fmt.Errorf("%w: role must be editor or viewer", ErrForbidden)
	}

	access := &models.PlaylistAccess{UserID: req.UserID, Role: req.Role}
	if err := s.playlists.SetAccess(ctx, playlistID, access); err != nil {
		return err
	}
	if err := s.playlists.Update(ctx, playlistID, map[string]interface{}{
		"shareCount": playlist.ShareCount + 1,
	}); err != nil {
		s.logger.Warn("failed to bump share count",
			zap.String("playlistId", playlistID), zap.Error(err))
	}
	s.logger.Info("playlist shared",
		zap.String("playlistId", playlistID),
		zap.String("grantee", req.UserID),
		zap.String("role", string(req.Role)))
	return nil
}

// authorize loads the playlist and checks the caller holds at least the
// required role. The owner holds every role; public playlists are viewable
// by anyone authenticated.
func (s *playlistService) authorize(ctx context.Context, userID, playlistID string, required models.PlaylistRole) (*models.Playlist, error) {
	playlist, err := s.playlists.GetByID(ctx, playlistID)
	if err != nil {
		return nil, s.mapNotFound(err)
	}
	if playlist.OwnerID == userID {
		return playlist, nil
	}
	if required == models.RoleViewer && playlist.IsPublic {
		return playlist, nil
	}

	access, err := s.playlists.GetAccess(ctx, playlistID, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrForbidden
		}
		return nil, err
	}
	if !roleAllows(access.Role, required) {
		return nil, ErrForbidden
	}
	return playlist, nil
}

func roleAllows(held, required models.PlaylistRole) bool {
	rank := map[models.PlaylistRole]int{
		models.RoleViewer: 1,
		models.RoleEditor: 2,
		models.RoleOwner:  3,
	}
	return rank[held] >= rank[required]
}

func (s *playlistService) mapNotFound(err error) error {
	if errors.Is(err, db.ErrNotFound) {
		return ErrPlaylistNotFound
	}
	return err
}
