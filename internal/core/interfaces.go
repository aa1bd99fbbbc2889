package core

import (
	"context"

	"songbook-backend-go/internal/billing"
	"songbook-backend-go/internal/models"
)

// UserService defines user-profile operations.
type UserService interface {
	// GetOrCreate retrieves the caller's profile, creating a default one on
	// first authentication if none exists. The boolean reports creation.
	GetOrCreate(ctx context.Context, userID, email, displayName, photoURL string) (*models.User, bool, error)
	GetByID(ctx context.Context, userID string) (*models.User, error)

	// UpdateProfile merge-writes the allow-listed fields and stamps
	// updatedAt. An empty request only moves updatedAt.
	UpdateProfile(ctx context.Context, userID string, req models.UpdateProfileRequest) (*models.User, error)
}

// SubscriptionCheck is the result of a live subscription lookup.
type SubscriptionCheck struct {
	Active       bool                  `json:"active"`
	Subscription *billing.Subscription `json:"subscription"`
}

// BillingService defines the subscription-synchronization operations:
// checkout issuance, webhook ingestion, and the direct read/cancel paths.
type BillingService interface {
	CreateCheckoutSession(ctx context.Context, userID, email, priceID string) (string, error)
	CreatePortalSession(ctx context.Context, userID, email string) (string, error)
	HandleWebhookEvent(ctx context.Context, payload []byte, signature string) error
	CheckSubscription(ctx context.Context, userID string) (*SubscriptionCheck, error)
	CancelSubscription(ctx context.Context, userID, email string) (*billing.Subscription, error)

	// HandleCheckoutSuccess resolves the hosted-checkout return leg and
	// returns the client URL to redirect to.
	HandleCheckoutSuccess(ctx context.Context, sessionID string) (string, error)
}

// AuthService defines the server-side half of the magic-link sign-in flow.
type AuthService interface {
	SendSignInLink(ctx context.Context, email, returnURL string) error
}

// PlaylistService defines playlist CRUD, ordering, and sharing.
type PlaylistService interface {
	Create(ctx context.Context, ownerID string, req models.CreatePlaylistRequest) (*models.Playlist, error)
	Get(ctx context.Context, userID, playlistID string) (*models.Playlist, error)
	ListOwned(ctx context.Context, userID string) ([]*models.Playlist, error)
	Update(ctx context.Context, userID, playlistID string, req models.UpdatePlaylistRequest) (*models.Playlist, error)
	Delete(ctx context.Context, userID, playlistID string) error

	AddSong(ctx context.Context, userID, playlistID, songID string) (*models.Playlist, error)
	RemoveSong(ctx context.Context, userID, playlistID, songID string) (*models.Playlist, error)
	Reorder(ctx context.Context, userID, playlistID string, positions []models.SongPosition) (*models.Playlist, error)
	Share(ctx context.Context, ownerID, playlistID string, req models.SharePlaylistRequest) error
}

// SongService defines read access to the song catalog.
type SongService interface {
	GetByID(ctx context.Context, songID string) (*models.Song, error)
	List(ctx context.Context, limit int) ([]*models.Song, error)
}
