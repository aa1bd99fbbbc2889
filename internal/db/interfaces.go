package db

import (
	"context"
	"time"

	"songbook-backend-go/internal/models"
)

// BillingEventUpdate describes the profile mutation derived from one billing
// webhook event. EventAt is the provider's event timestamp; it is compared
// against the profile's stored cursor so that replayed or out-of-order
// deliveries do not overwrite newer state.
type BillingEventUpdate struct {
	CustomerID string
	EventID    string
	EventAt    time.Time

	Status models.SubscriptionStatus

	// SubscriptionID is written when SetSubscriptionID is true. An empty
	// value with SetSubscriptionID clears the stored subscription id.
	SubscriptionID    string
	SetSubscriptionID bool
}

// UserRepository defines the storage operations for user profile documents.
type UserRepository interface {
	GetByID(ctx context.Context, userID string) (*models.User, error)
	GetByStripeCustomerID(ctx context.Context, customerID string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error

	// Patch merge-writes the given fields into the profile and stamps
	// updatedAt. An empty map still stamps updatedAt.
	Patch(ctx context.Context, userID string, fields map[string]interface{}) error

	SetStripeCustomerID(ctx context.Context, userID, customerID string) error
	SetSubscriptionState(ctx context.Context, userID string, status models.SubscriptionStatus, subscriptionID string) error

	// ApplyBillingEvent transactionally locates the profile whose
	// stripeCustomerId matches upd.CustomerID and applies the update unless
	// the event is older than the last applied one or a replay of it. It
	// reports whether a write happened and, if so, the matched user's id; a
	// missing profile or a stale event is (false, "", nil).
	ApplyBillingEvent(ctx context.Context, upd BillingEventUpdate) (bool, string, error)
}

// PlaylistRepository defines the storage operations for playlists and their
// access records.
type PlaylistRepository interface {
	Create(ctx context.Context, playlist *models.Playlist) error
	GetByID(ctx context.Context, playlistID string) (*models.Playlist, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Playlist, error)
	Update(ctx context.Context, playlistID string, fields map[string]interface{}) error

	// ReplaceSongs rewrites the whole songs array.
	ReplaceSongs(ctx context.Context, playlistID string, songs []string) error
	Delete(ctx context.Context, playlistID string) error

	GetAccess(ctx context.Context, playlistID, userID string) (*models.PlaylistAccess, error)
	SetAccess(ctx context.Context, playlistID string, access *models.PlaylistAccess) error
	RemoveAccess(ctx context.Context, playlistID, userID string) error
}

// SongRepository defines read access to the song catalog.
type SongRepository interface {
	GetByID(ctx context.Context, songID string) (*models.Song, error)
	List(ctx context.Context, limit int) ([]*models.Song, error)
}
