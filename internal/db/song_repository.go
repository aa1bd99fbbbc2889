package db

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"songbook-backend-go/internal/models"
)

const songsCollection = "songs"

const defaultSongListLimit = 100

type firestoreSongRepository struct {
	client *firestore.Client
}

// NewFirestoreSongRepository creates a SongRepository backed by Firestore.
// The song catalog is read-mostly; writes happen through content tooling,
// not this service.
func NewFirestoreSongRepository(client *firestore.Client) SongRepository {
	return &firestoreSongRepository{client: client}
}

func (r *firestoreSongRepository) GetByID(ctx context.Context, songID string) (*models.Song, error) {
	snap, err := r.client.Collection(songsCollection).Doc(songID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("song %q: %w", songID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get song %q: %w", songID, err)
	}
	var song models.Song
	if err := snap.DataTo(&song); err != nil {
		return nil, fmt.Errorf("failed to decode song %q: %w", songID, err)
	}
	song.ID = snap.Ref.ID
	return &song, nil
}

func (r *firestoreSongRepository) List(ctx context.Context, limit int) ([]*models.Song, error) {
	if limit <= 0 || limit > defaultSongListLimit {
		limit = defaultSongListLimit
	}
	iter := r.client.Collection(songsCollection).
		OrderBy("title", firestore.Asc).
		Limit(limit).
		Documents(ctx)
	defer iter.Stop()

	var songs []*models.Song
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list songs: %w", err)
		}
		var song models.Song
		if err := snap.DataTo(&song); err != nil {
			return nil, fmt.Errorf("failed to decode song %q: %w", snap.Ref.ID, err)
		}
		song.ID = snap.Ref.ID
		songs = append(songs, &song)
	}
	return songs, nil
}
