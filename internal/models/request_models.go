package models

// CreateCheckoutSessionRequest is the body of POST /api/create-checkout-session.
// PriceID may be empty, in which case the configured default price is used.
type CreateCheckoutSessionRequest struct {
	PriceID string `json:"priceId"`
}

// SendSignInLinkRequest is the body of POST /api/auth/send-sign-in-link.
type SendSignInLinkRequest struct {
	Email     string `json:"email" binding:"required,email"`
	ReturnURL string `json:"returnUrl"`
}

// UpdateProfileRequest is the allow-list of client-patchable profile fields.
// Pointer fields distinguish "absent" from "set to empty". Billing linkage
// and subscription state are deliberately not representable here.
type UpdateProfileRequest struct {
	DisplayName *string `json:"displayName,omitempty"`
	FirstName   *string `json:"firstName,omitempty"`
	LastName    *string `json:"lastName,omitempty"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
	PhotoURL    *string `json:"photoURL,omitempty"`
	Location    *string `json:"location,omitempty"`
	Bio         *string `json:"bio,omitempty"`
}

// Fields returns the set fields as a firestore-ready path→value map.
func (r UpdateProfileRequest) Fields() map[string]interface{} {
	fields := make(map[string]interface{})
	set := func(path string, v *string) {
		if v != nil {
			fields[path] = *v
		}
	}
	set("displayName", r.DisplayName)
	set("firstName", r.FirstName)
	set("lastName", r.LastName)
	set("phoneNumber", r.PhoneNumber)
	set("photoURL", r.PhotoURL)
	set("location", r.Location)
	set("bio", r.Bio)
	return fields
}

// CreatePlaylistRequest is the body of POST /api/playlists.
type CreatePlaylistRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	IsPublic    bool   `json:"isPublic"`
}

// UpdatePlaylistRequest is the body of PATCH /api/playlists/:playlistId.
type UpdatePlaylistRequest struct {
	Name        *string   `json:"name,omitempty"`
	Description *string   `json:"description,omitempty"`
	IsPublic    *bool     `json:"isPublic,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
}

// AddPlaylistSongRequest is the body of POST /api/playlists/:playlistId/songs.
type AddPlaylistSongRequest struct {
	SongID string `json:"songId" binding:"required"`
}

// SongPosition pairs a song ID with its desired position in a playlist.
type SongPosition struct {
	ID       string `json:"id" binding:"required"`
	Position int    `json:"position"`
}

// ReorderPlaylistRequest is the body of PUT /api/playlists/:playlistId/songs.
// The positions describe the complete new ordering of the songs array.
type ReorderPlaylistRequest struct {
	Songs []SongPosition `json:"songs" binding:"required"`
}

// SharePlaylistRequest is the body of POST /api/playlists/:playlistId/share.
type SharePlaylistRequest struct {
	UserID string       `json:"userId" binding:"required"`
	Role   PlaylistRole `json:"role" binding:"required"`
}
