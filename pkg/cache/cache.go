// Package cache stores computed layouts and rendered artifacts keyed by the
// content that produced them.
//
// Three backends implement [Cache]: [FileCache] for the CLI, [RedisCache] for
// shared deployments and [NullCache] when caching is disabled. Keys come from
// a [Keyer] so that callers never build key strings by hand.
package cache

import (
	"context"
	"time"
)

// Default lifetimes for cached entries.
const (
	TTLLayout   = 30 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. A miss is reported as (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// LayoutKeyOpts are the layout parameters that affect a cached layout.
type LayoutKeyOpts struct {
	DistOpt    float64 `json:"dist_opt"`
	TempStart  float64 `json:"temp_start"`
	Iterations int     `json:"iterations"`
}

// ArtifactKeyOpts are the output settings that affect a cached artifact.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	View   string  `json:"view,omitempty"`
	Scale  float64 `json:"scale,omitempty"`
	Labels bool    `json:"labels,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	// LayoutKey identifies the layout of a mesh under the given parameters.
	LayoutKey(meshHash string, opts LayoutKeyOpts) string
	// ArtifactKey identifies a rendered or encoded output of a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces keys of the form "kind:sha256".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

func (DefaultKeyer) LayoutKey(meshHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", meshHash, opts)
}

func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

var _ Keyer = DefaultKeyer{}
