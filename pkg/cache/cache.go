// Package cache provides byte-level caching for computed scenes.
//
// Composing a scene from a large layout document is deterministic, so the
// result can be cached under a hash of the raw document. The Cache interface
// has three implementations:
//   - FileCache: directory-backed, for CLI usage
//   - RedisCache: shared cache for multi-instance server deployments
//   - NullCache: disables caching
//
// Keys are produced by a Keyer so that CLI and server agree on the key
// format and cached entries are shareable between them.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values with optional expiration.
type Cache interface {
	// Get retrieves a value. The second return is false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A non-positive ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer generates cache keys.
type Keyer interface {
	// SceneKey keys a composed scene by the hash of its source document.
	SceneKey(docHash string) string

	// DocumentKey keys a stored document snapshot by site ID.
	DocumentKey(siteID string) string
}

// DefaultKeyer is the standard key format.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// SceneKey generates a key for a composed scene.
func (k *DefaultKeyer) SceneKey(docHash string) string {
	return "scene:" + docHash
}

// DocumentKey generates a key for a document snapshot.
func (k *DefaultKeyer) DocumentKey(siteID string) string {
	return hashKey("doc", siteID)
}
