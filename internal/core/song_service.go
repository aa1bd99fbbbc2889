package core

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"songbook-backend-go/internal/cache"
	"songbook-backend-go/internal/db"
	"songbook-backend-go/internal/models"
)

const songCacheTTL = 5 * time.Minute

type songService struct {
	songs  db.SongRepository
	cache  cache.Cache // optional
	logger *zap.Logger
}

// NewSongService creates a SongService. cacheClient may be nil.
func NewSongService(songs db.SongRepository, cacheClient cache.Cache, logger *zap.Logger) SongService {
	return &songService{songs: songs, cache: cacheClient, logger: logger}
}

func (s *songService) GetByID(ctx context.Context, songID string) (*models.Song, error) {
	cacheKey := "song:" + songID
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey); err == nil && cached != "" {
			var song models.Song
			if err := json.Unmarshal([]byte(cached), &song); err == nil {
				return &song, nil
			}
		}
	}

	song, err := s.songs.GetByID(ctx, songID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrSongNotFound
		}
		return nil, err
	}

	if s.cache != nil {
		if encoded, err := json.Marshal(song); err == nil {
			if err := s.cache.Set(ctx, cacheKey, string(encoded), songCacheTTL); err != nil {
				s.logger.Warn("failed to cache song", zap.String("songId", songID), zap.Error(err))
			}
		}
	}
	return song, nil
}

func (s *songService) List(ctx context.Context, limit int) ([]*models.Song, error) {
	return s.songs.List(ctx, limit)
}
