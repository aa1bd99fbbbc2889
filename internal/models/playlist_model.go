package models

import "time"

// PlaylistRole is the access level a user holds on a playlist.
type PlaylistRole string

const (
	RoleOwner  PlaylistRole = "owner"
	RoleEditor PlaylistRole = "editor"
	RoleViewer PlaylistRole = "viewer"
)

// Playlist is an ordered collection of song IDs. The Songs slice order is
// semantically meaningful (display/playback order) and is always replaced
// whole: add, remove and reorder all rewrite the full array.
type Playlist struct {
	ID          string   `json:"id" firestore:"-"`
	Name        string   `json:"name" firestore:"name"`
	Description string   `json:"description,omitempty" firestore:"description"`
	OwnerID     string   `json:"ownerId" firestore:"ownerId"`
	Songs       []string `json:"songs" firestore:"songs"`
	IsPublic    bool     `json:"isPublic" firestore:"isPublic"`
	Tags        []string `json:"tags,omitempty" firestore:"tags"`
	LikeCount   int      `json:"likeCount" firestore:"likeCount"`
	ShareCount  int      `json:"shareCount" firestore:"shareCount"`

	Metadata ContentMetadata `json:"metadata" firestore:"metadata"`

	CreatedAt time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	UpdatedAt time.Time `json:"updatedAt" firestore:"updatedAt,serverTimestamp"`
}

// PlaylistAccess records a share grant, stored under
// playlistAccess/{playlistId}/users/{userId}.
type PlaylistAccess struct {
	UserID  string       `json:"userId" firestore:"userId"`
	Role    PlaylistRole `json:"role" firestore:"role"`
	AddedAt time.Time    `json:"addedAt" firestore:"addedAt,serverTimestamp"`
}

// ContentMetadata is the moderation/visibility block shared by content
// records (playlists, songs).
type ContentMetadata struct {
	IsPublished bool `json:"isPublished" firestore:"isPublished"`
	IsFeatured  bool `json:"isFeatured" firestore:"isFeatured"`
	IsPrivate   bool `json:"isPrivate" firestore:"isPrivate"`
	IsDeleted   bool `json:"isDeleted" firestore:"isDeleted"`
	IsDraft     bool `json:"isDraft" firestore:"isDraft"`
	IsPending   bool `json:"isPending" firestore:"isPending"`
	IsApproved  bool `json:"isApproved" firestore:"isApproved"`
	IsRejected  bool `json:"isRejected" firestore:"isRejected"`
	IsHidden    bool `json:"isHidden" firestore:"isHidden"`
}
