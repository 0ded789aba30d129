// Package cache provides artifact caching for the render pipeline.
//
// Rendering the same document with the same options always produces the same
// bytes (the sketchy generator is deterministically seeded), so rendered
// artifacts are safe to cache keyed by a content hash of the document plus
// the render options. The CLI uses a file-based cache; the preview server
// can disable caching with a NullCache.
package cache

import (
	"context"
	"time"
)

// TTLs per key type. Artifacts are pure functions of their key, so the
// expiry only bounds disk usage.
const (
	TTLDocument = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is the storage interface for rendered artifacts.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The second return value reports whether the
	// key was present (and unexpired).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A TTL of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// ArtifactKeyOpts captures every render option that affects output bytes.
// Two renders with equal document hashes and equal ArtifactKeyOpts produce
// identical artifacts.
type ArtifactKeyOpts struct {
	Format     string // "svg", "png", or "pdf"
	Background string // normalized background color ("" = none)
	Sketchy    bool   // sketchy vs. exact mode
	Legacy     bool   // legacy SVG-then-rasterize pipeline
	Quality    int    // PNG quality knob
	DPI        int    // target DPI (0 = source)
	Seed       uint64 // render seed base
}

// Keyer generates cache keys for pipeline stages.
type Keyer interface {
	// DocumentKey generates a key for a parsed document, from its content hash.
	DocumentKey(docHash string) string

	// ArtifactKey generates a key for a rendered artifact.
	ArtifactKey(docHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard key generator.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// DocumentKey generates a key for a parsed document.
func (k *DefaultKeyer) DocumentKey(docHash string) string {
	return hashKey("doc", docHash)
}

// ArtifactKey generates a key for a rendered artifact.
func (k *DefaultKeyer) ArtifactKey(docHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", docHash, opts)
}

// ScopedKeyer wraps a Keyer with a prefix so multiple documents (for example
// the preview server watching several files) share one cache directory
// without key collisions across namespaces.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// DocumentKey generates a prefixed document key.
func (k *ScopedKeyer) DocumentKey(docHash string) string {
	return k.prefix + k.inner.DocumentKey(docHash)
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(docHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(docHash, opts)
}
