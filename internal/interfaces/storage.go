// Package interfaces defines the service contracts for the risk API
package interfaces

import (
	"context"
	"time"
)

// CacheStore is the capability interface over the cache backend. Values are
// opaque serialized strings; keys follow the colon-joined grammar in the
// cache package. Implementations must be safe for concurrent use.
//
// Backend failures are returned as errors so callers can log them, but every
// caller treats a failed Get as a miss and a failed Set as a no-op — cache
// trouble never becomes a user-facing error.
type CacheStore interface {
	// Get returns the value for key. The boolean reports whether the key
	// was present; absence is not an error.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key with the given TTL. A zero TTL means no
	// expiry.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
