// Package cache provides byte-oriented caching for expensive figquilt
// operations, primarily source measurement (decoding image and document
// headers to obtain native dimensions).
//
// Three backends are available:
//   - FileCache: file-based storage for CLI usage (~/.cache/figquilt)
//   - RedisCache: Redis-backed storage for shared build environments
//   - NullCache: a no-op cache for tests and --no-cache runs
//
// Keys for measurement entries include the source file's size and
// modification time, so a rewritten source can never serve stale
// dimensions; see [MeasureKey].
package cache

import (
	"context"
	"time"
)

// Cache is the interface implemented by all cache backends.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A zero TTL means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the backend.
	Close() error
}

// MeasureKey builds the cache key for a source measurement. The size and
// mtime components invalidate the entry whenever the file changes.
func MeasureKey(path string, size int64, mtimeUnixNano int64) string {
	return hashKey("measure", path, size, mtimeUnixNano)
}
