// Package cache stores rendered artifacts and layout snapshots by content key.
//
// The preview service keys every response on a hash of the request body, so
// identical scenes are laid out and drawn once. Three backends implement
// [Cache]:
//
//   - [NullCache]: stores nothing, for tests and --no-cache
//   - [FileCache]: one file per entry under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for multi-instance deployments
//
// A [Keyer] turns request parameters into keys; [ScopedKeyer] prefixes them
// so several services can share one Redis database.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the stored value and true, or nil and false on a miss.
	// Expired entries are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// Keyer builds cache keys.
type Keyer interface {
	// LayoutKey is the key of a layout snapshot for a scene.
	LayoutKey(sceneHash string, opts LayoutKeyOpts) string

	// RenderKey is the key of a rendered artifact for a scene.
	RenderKey(sceneHash string, opts RenderKeyOpts) string
}

// LayoutKeyOpts holds the request parameters that change a layout result.
type LayoutKeyOpts struct {
	Ticks   int    `json:"ticks"`
	Encoder string `json:"encoder"`
}

// RenderKeyOpts holds the request parameters that change a rendered artifact.
type RenderKeyOpts struct {
	Ticks    int     `json:"ticks"`
	Format   string  `json:"format"`
	View     string  `json:"view"`
	Style    string  `json:"style,omitempty"`
	Targets  bool    `json:"targets"`
	Rows     bool    `json:"rows"`
	Names    bool    `json:"names"`
	Detailed bool    `json:"detailed"`
	Scale    float64 `json:"scale"`
}

// DefaultKeyer hashes key options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates a keyer without a prefix.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey returns "layout:<hash>".
func (DefaultKeyer) LayoutKey(sceneHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", sceneHash, opts)
}

// RenderKey returns "render:<hash>".
func (DefaultKeyer) RenderKey(sceneHash string, opts RenderKeyOpts) string {
	return hashKey("render", sceneHash, opts)
}
