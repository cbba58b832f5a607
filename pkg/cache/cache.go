// Package cache provides artifact caching for rendered lift plans.
//
// Rendering a lift plan is cheap, but PDF/PNG conversion shells out to
// librsvg and the server may face repeated uploads of the same draft, so
// finished artifacts are cached keyed by a content hash of the inputs and
// render options.
//
// Three backends are provided:
//   - NullCache: caching disabled (tests, --no-cache)
//   - FileCache: directory-backed, for CLI usage
//   - RedisCache: shared cache for multi-instance server deployments
package cache

import (
	"context"
	"time"
)

// Cache is the interface all backends implement. Implementations must be
// safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The second return is false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
