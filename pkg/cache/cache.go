// Package cache caches rendered graph artifacts.
//
// Rendering DOT through Graphviz is the slowest step of the pipeline, so
// rendered SVG and PNG bytes are cached keyed by the DOT source and output
// format. Two implementations are provided: [FileCache] for persistent
// on-disk caching and [NullCache] for disabling caching entirely.
package cache

import (
	"context"
	"time"
)

// Cache stores rendered artifacts by key.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero means no expiration; a negative
	// ttl stores an entry that is already expired.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}
