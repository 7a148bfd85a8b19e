// Package cache provides artifact caching for rendered waveform diagrams.
//
// Rendering a diagram means shelling out to the WaveDrom renderer and
// (for raster output) to librsvg, which dominates build time for
// documentation with many diagrams. Artifacts are content-addressed:
// the cache key is derived from the canonical serialization of the
// segment being rendered plus the options that affect the output bytes,
// so a cached entry never goes stale. TTLs only bound disk usage.
//
// Three backends are provided:
//   - FileCache: directory-based storage for CLI builds
//   - RedisCache: shared storage for server deployments
//   - NullCache: no-op backend for --no-cache and tests
package cache

import (
	"context"
	"time"
)

// TTLArtifact is the expiration for cached artifacts (SVG and PNG bytes).
// Entries are content-addressed and never stale, so the TTL exists only
// to reclaim space from diagrams that are no longer being built.
const TTLArtifact = 30 * 24 * time.Hour

// Cache is the interface for caching backends.
//
// Implementations must be safe for concurrent use. Callers treat cache
// failures as misses: a broken backend slows the build down but never
// fails it.
type Cache interface {
	// Get retrieves a value. Returns (nil, false, nil) on miss.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores a value with the given TTL. A TTL of zero means
	// the entry does not expire.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the backend.
	Close() error
}

// ArtifactKeyOpts are the options that change the bytes of a rendered
// artifact without changing the source diagram. They are hashed into
// the cache key alongside the document hash.
type ArtifactKeyOpts struct {
	// Format is the artifact format: "svg" or "png".
	Format string `json:"format"`

	// DPI is the raster density used for PNG conversion.
	DPI float64 `json:"dpi"`

	// FontSize, TextFill and Stroke are the restyle overrides forced
	// onto the rendered SVG.
	FontSize string `json:"font_size"`
	TextFill string `json:"text_fill"`
	Stroke   string `json:"stroke"`

	// FlatRowScale is the vertical compression applied to flat rows.
	FlatRowScale float64 `json:"flat_row_scale"`
}

// Keyer generates cache keys for rendered artifacts.
//
// Separating key generation from storage lets deployments namespace
// keys (see ScopedKeyer) without touching the backends.
type Keyer interface {
	// ArtifactKey generates a key for a rendered artifact.
	// docHash is the hash of the canonical serialization of the
	// segment being rendered.
	ArtifactKey(docHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer generates hash-based cache keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// ArtifactKey generates a key for a rendered artifact.
func (k *DefaultKeyer) ArtifactKey(docHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", docHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
