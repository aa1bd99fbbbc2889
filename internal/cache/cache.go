package cache

import (
	"context"
	"time"
)

// Cache is a small string cache used for read-mostly lookups (subscription
// checks, song documents). Implementations must treat a missing key as
// ("", nil), not an error.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
}
