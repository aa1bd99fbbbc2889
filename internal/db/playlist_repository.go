package db

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"songbook-backend-go/internal/models"
)

const (
	playlistsCollection      = "playlists"
	playlistAccessCollection = "playlistAccess"
)

type firestorePlaylistRepository struct {
	client *firestore.Client
}

// NewFirestorePlaylistRepository creates a PlaylistRepository backed by Firestore.
func NewFirestorePlaylistRepository(client *firestore.Client) PlaylistRepository {
	return &firestorePlaylistRepository{client: client}
}

func (r *firestorePlaylistRepository) doc(playlistID string) *firestore.DocumentRef {
	return r.client.Collection(playlistsCollection).Doc(playlistID)
}

func (r *firestorePlaylistRepository) accessDoc(playlistID, userID string) *firestore.DocumentRef {
	return r.client.Collection(playlistAccessCollection).Doc(playlistID).Collection("users").Doc(userID)
}

func (r *firestorePlaylistRepository) Create(ctx context.Context, playlist *models.Playlist) error {
	if playlist.ID == "" {
		return errors.New("playlist ID cannot be empty")
	}
	if _, err := r.doc(playlist.ID).Create(ctx, playlist); err != nil {
		return fmt.Errorf("failed to create playlist %q: %w", playlist.ID, err)
	}
	return nil
}

func (r *firestorePlaylistRepository) GetByID(ctx context.Context, playlistID string) (*models.Playlist, error) {
	snap, err := r.doc(playlistID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("playlist %q: %w", playlistID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get playlist %q: %w", playlistID, err)
	}
	var playlist models.Playlist
	if err := snap.DataTo(&playlist); err != nil {
		return nil, fmt.Errorf("failed to decode playlist %q: %w", playlistID, err)
	}
	playlist.ID = snap.Ref.ID
	return &playlist, nil
}

func (r *firestorePlaylistRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Playlist, error) {
	iter := r.client.Collection(playlistsCollection).
		Where("ownerId", "==", ownerID).
		Documents(ctx)
	defer iter.Stop()

	var playlists []*models.Playlist
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list playlists for owner %q: %w", ownerID, err)
		}
		var playlist models.Playlist
		if err := snap.DataTo(&playlist); err != nil {
			return nil, fmt.Errorf("failed to decode playlist %q: %w", snap.Ref.ID, err)
		}
		playlist.ID = snap.Ref.ID
		playlists = append(playlists, &playlist)
	}
	return playlists, nil
}

func (r *firestorePlaylistRepository) Update(ctx context.Context, playlistID string, fields map[string]interface{}) error {
	updates := make([]firestore.Update, 0, len(fields)+1)
	for path, value := range fields {
		updates = append(updates, firestore.Update{Path: path, Value: value})
	}
	updates = append(updates, firestore.Update{Path: "updatedAt", Value: firestore.ServerTimestamp})

	if _, err := r.doc(playlistID).Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("playlist %q: %w", playlistID, ErrNotFound)
		}
		return fmt.Errorf("failed to update playlist %q: %w", playlistID, err)
	}
	return nil
}

func (r *firestorePlaylistRepository) ReplaceSongs(ctx context.Context, playlistID string, songs []string) error {
	return r.Update(ctx, playlistID, map[string]interface{}{
		"songs": songs,
	})
}

func (r *firestorePlaylistRepository) Delete(ctx context.Context, playlistID string) error {
	if _, err := r.doc(playlistID).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete playlist %q: %w", playlistID, err)
	}
	return nil
}

func (r *firestorePlaylistRepository) GetAccess(ctx context.Context, playlistID, userID string) (*models.PlaylistAccess, error) {
	snap, err := r.accessDoc(playlistID, userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("access for user %q on playlist %q: %w", userID, playlistID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get playlist access: %w", err)
	}
	var access models.PlaylistAccess
	if err := snap.DataTo(&access); err != nil {
		return nil, fmt.Errorf("failed to decode playlist access: %w", err)
	}
	return &access, nil
}

func (r *firestorePlaylistRepository) SetAccess(ctx context.Context, playlistID string, access *models.PlaylistAccess) error {
	if _, err := r.accessDoc(playlistID, access.UserID).Set(ctx, access); err != nil {
		return fmt.Errorf("failed to set playlist access: %w", err)
	}
	return nil
}

func (r *firestorePlaylistRepository) RemoveAccess(ctx context.Context, playlistID, userID string) error {
	if _, err := r.accessDoc(playlistID, userID).Delete(ctx); err != nil {
		return fmt.Errorf("failed to remove playlist access: %w", err)
	}
	return nil
}
