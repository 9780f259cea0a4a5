// Package cache provides the key/value caching layer used by the blob
// pipeline and the HTTP server.
//
// Three backends implement [Cache]:
//   - [FileCache]: JSON entries sharded by key hash, for the CLI
//   - [RedisCache]: shared storage for multi-instance servers
//   - [NullCache]: disables caching
//
// Keys are produced by a [Keyer]. [DefaultKeyer] hashes the inputs of a
// computation so that identical shape snapshots and options map to the same
// entry. [ScopedKeyer] prefixes keys for namespace isolation.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. A miss is reported as (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A non-positive ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Entry lifetimes.
const (
	// TTLFrame is how long a computed frame stays cached. Frames are pure
	// functions of their inputs, so this only bounds disk usage.
	TTLFrame = 7 * 24 * time.Hour

	// TTLArtifact is the lifetime of rendered debug artifacts (DOT, SVG).
	TTLArtifact = 7 * 24 * time.Hour

	// TTLScene is the idle lifetime of a server-side scene.
	TTLScene = 24 * time.Hour
)

// Keyer builds cache keys.
type Keyer interface {
	// FrameKey identifies a computed frame for a shape snapshot and options.
	FrameKey(snapshotHash string, opts FrameKeyOpts) string

	// ArtifactKey identifies a rendered artifact derived from a frame.
	ArtifactKey(frameHash string, opts ArtifactKeyOpts) string

	// SceneKey identifies a stored scene.
	SceneKey(id string) string
}

// FrameKeyOpts lists every option that changes a computed frame.
type FrameKeyOpts struct {
	ConsiderConnected float64    `json:"cc"`
	GravitationLower  float64    `json:"grav"`
	Closeness         float64    `json:"closeness"`
	InwardShift       float64    `json:"shift"`
	OuterOffsetRatio  float64    `json:"outer"`
	Roundness         float64    `json:"round"`
	WingCount         int        `json:"wings"`
	Dissolve          float64    `json:"dissolve"`
	DissolveOffset    float64    `json:"dissolve_offset"`
	CoarseTolerance   float64    `json:"coarse"`
	FineTolerance     float64    `json:"fine"`
	Scale             float64    `json:"scale"`
	FillSource        string     `json:"fill_source"`
	FillDensity       float64    `json:"density"`
	FillRadius        [2]float64 `json:"fill_radius"`
	FillMaxTotal      int        `json:"max_total"`
	Seed              uint64     `json:"seed"`
}

// ArtifactKeyOpts identifies the rendering of an artifact.
type ArtifactKeyOpts struct {
	Kind   string `json:"kind"`
	Format string `json:"format"`
}

// DefaultKeyer hashes key inputs with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// FrameKey returns "frame:<sha256>".
func (DefaultKeyer) FrameKey(snapshotHash string, opts FrameKeyOpts) string {
	return hashKey("frame", snapshotHash, opts)
}

// ArtifactKey returns "artifact:<sha256>".
func (DefaultKeyer) ArtifactKey(frameHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", frameHash, opts)
}

// SceneKey returns "scene:<id>". Scene ids are already unique, so they are
// not hashed.
func (DefaultKeyer) SceneKey(id string) string {
	return "scene:" + id
}

var _ Keyer = DefaultKeyer{}
