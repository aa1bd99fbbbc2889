package core

import "errors"

var (
	// ErrUserNotFound is returned when no profile document exists for the
	// requested user.
	ErrUserNotFound = errors.New("user not found")

	// ErrPlaylistNotFound is returned when the requested playlist does not exist.
	ErrPlaylistNotFound = errors.New("playlist not found")

	// ErrSongNotFound is returned when the requested song does not exist.
	ErrSongNotFound = errors.New("song not found")

	// ErrForbidden is returned when the caller is authenticated but lacks
	// access to the target resource.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidPriceID is returned when a checkout is requested with a
	// price identifier that does not match the expected lexical pattern.
	// No provider call is made in that case.
	ErrInvalidPriceID = errors.New("invalid price ID format")

	// ErrInvalidReorder is returned when a reorder request does not contain
	// exactly the playlist's current songs.
	ErrInvalidReorder = errors.New("reorder must contain exactly the playlist's songs")

	// ErrNoBillingCustomer is returned when a billing operation requires a
	// customer record and none can be resolved for the caller.
	ErrNoBillingCustomer = errors.New("no billing customer found")

	// ErrNoActiveSubscription is returned when cancellation is requested
	// but the caller has no active subscription.
	ErrNoActiveSubscription = errors.New("no active subscription found")

	// ErrMailerNotConfigured is returned when magic-link delivery is
	// requested but no SMTP transport is configured.
	ErrMailerNotConfigured = errors.New("mail delivery is not configured")
)
