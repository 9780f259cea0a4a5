// Package pipeline drives the blob engine from shapes to final contours.
//
// A frame is computed in five stages:
//
//  1. Group: classify shape pairs and build per-cluster polygon lists
//  2. Union: merge each cluster into outer contours
//  3. Dissolve: shrink the contours by the dissolve offset and simplify them
//  4. Deform: reshape the contours into stars and simplify them again
//  5. Fill: scatter decorative circles inside the contours
//
// An [Engine] keeps the previous inputs and stage outputs and re-runs only
// the stages whose inputs changed, which makes it suitable for per-frame
// ticks. A [Runner] computes single frames and caches them by shape
// snapshot and options.
//
// # Usage
//
//	engine := pipeline.NewEngine(logger)
//	for range ticks {
//	    frame, err := engine.Tick(ctx, arena.Snapshot(), opts)
//	    if err != nil {
//	        return err
//	    }
//	    draw(frame.Contours, frame.Decorations)
//	}
//
// One-shot computation with caching:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	frame, err := runner.Compute(ctx, shapes, opts)
package pipeline

import (
	"encoding/json"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/blobgeom/pkg/cache"
	"github.com/matzehuels/blobgeom/pkg/clip"
	"github.com/matzehuels/blobgeom/pkg/cluster"
	"github.com/matzehuels/blobgeom/pkg/errors"
	"github.com/matzehuels/blobgeom/pkg/fill"
	"github.com/matzehuels/blobgeom/pkg/geom"
	"github.com/matzehuels/blobgeom/pkg/shape"
	"github.com/matzehuels/blobgeom/pkg/star"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultCoarseTolerance simplifies the union before deforming.
	DefaultCoarseTolerance = 1.0

	// DefaultFineTolerance simplifies the deformed contours.
	DefaultFineTolerance = 0.25

	// DefaultDissolveOffset is the inward offset applied at full dissolve.
	DefaultDissolveOffset = 20.0

	// DefaultSeed is the default random seed for decorations.
	DefaultSeed = uint64(42)
)

// Decoration sources.
const (
	// FillSourceContour fills the final contours.
	FillSourceContour = "contour"
	// FillSourceField fills the low-resolution falloff field outline.
	FillSourceField = "field"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a frame.
// This struct supports JSON and TOML serialization.
type Options struct {
	Cluster  cluster.Params `json:"cluster" toml:"cluster"`
	Star     star.Params    `json:"star" toml:"star"`
	Fill     fill.Options   `json:"fill" toml:"fill"`
	Dissolve float64        `json:"dissolve" toml:"dissolve"`

	DissolveOffset  float64 `json:"dissolve_offset,omitempty" toml:"dissolve_offset"`
	FillSource      string  `json:"fill_source,omitempty" toml:"fill_source"`
	CoarseTolerance float64 `json:"coarse_tolerance,omitempty" toml:"coarse_tolerance"`
	FineTolerance   float64 `json:"fine_tolerance,omitempty" toml:"fine_tolerance"`
	Scale           float64 `json:"scale,omitempty" toml:"scale"`

	// Refresh bypasses the frame cache.
	Refresh bool `json:"refresh,omitempty" toml:"-"`

	Logger *log.Logger `json:"-" toml:"-"`
}

// SetDefaults fills zero-valued fields. A zero cluster or star block takes
// the package defaults as a whole; within a partially set block only the
// thresholds and the wing count are defaulted, since zero closeness, shift
// and roundness are meaningful.
func (o *Options) SetDefaults() {
	if o.Cluster == (cluster.Params{}) {
		o.Cluster = cluster.DefaultParams()
	}
	def := cluster.DefaultParams()
	if o.Cluster.ConsiderConnectedLowerBound == 0 {
		o.Cluster.ConsiderConnectedLowerBound = def.ConsiderConnectedLowerBound
	}
	if o.Cluster.GravitationForceVisibleLowerBound == 0 {
		o.Cluster.GravitationForceVisibleLowerBound = def.GravitationForceVisibleLowerBound
	}
	if o.Star == (star.Params{}) {
		o.Star = star.DefaultParams()
	}
	if o.Star.WingCount == 0 {
		o.Star.WingCount = star.DefaultParams().WingCount
	}
	o.Fill.SetDefaults()
	if o.Fill.Seed == 0 {
		o.Fill.Seed = DefaultSeed
	}
	if o.DissolveOffset == 0 {
		o.DissolveOffset = DefaultDissolveOffset
	}
	if o.FillSource == "" {
		o.FillSource = FillSourceContour
	}
	if o.CoarseTolerance == 0 {
		o.CoarseTolerance = DefaultCoarseTolerance
	}
	if o.FineTolerance == 0 {
		o.FineTolerance = DefaultFineTolerance
	}
	if o.Scale == 0 {
		o.Scale = clip.DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate checks every option. Call SetDefaults first.
func (o *Options) Validate() error {
	if err := o.Cluster.Validate(); err != nil {
		return err
	}
	if err := o.Star.Validate(); err != nil {
		return err
	}
	if err := o.Fill.Validate(); err != nil {
		return err
	}
	if err := errors.ValidateUnit("dissolve", o.Dissolve); err != nil {
		return err
	}
	if err := errors.ValidateNonNegative("dissolve_offset", o.DissolveOffset); err != nil {
		return err
	}
	if err := errors.ValidateNonNegative("coarse_tolerance", o.CoarseTolerance); err != nil {
		return err
	}
	if err := errors.ValidateNonNegative("fine_tolerance", o.FineTolerance); err != nil {
		return err
	}
	if err := errors.ValidatePositive("scale", o.Scale); err != nil {
		return err
	}
	return ValidateFillSource(o.FillSource)
}

// ValidateAndSetDefaults applies defaults and validates.
func (o *Options) ValidateAndSetDefaults() error {
	o.SetDefaults()
	return o.Validate()
}

// ValidateFillSource checks that a decoration source is known.
func ValidateFillSource(source string) error {
	if source != FillSourceContour && source != FillSourceField {
		return errors.New(errors.ErrCodeInvalidParams,
			"invalid fill_source: %q (must be one of: contour, field)", source)
	}
	return nil
}

// InTransition reports whether dissolve is strictly between 0 and 1.
func (o *Options) InTransition() bool {
	return o.Dissolve > 0 && o.Dissolve < 1
}

// FrameKeyOpts returns cache key options covering every field that changes
// a frame.
func (o *Options) FrameKeyOpts() cache.FrameKeyOpts {
	return cache.FrameKeyOpts{
		ConsiderConnected: o.Cluster.ConsiderConnectedLowerBound,
		GravitationLower:  o.Cluster.GravitationForceVisibleLowerBound,
		Closeness:         o.Cluster.Closeness,
		InwardShift:       o.Cluster.InwardShift,
		OuterOffsetRatio:  o.Star.OuterOffsetRatio,
		Roundness:         o.Star.Roundness,
		WingCount:         o.Star.WingCount,
		Dissolve:          o.Dissolve,
		DissolveOffset:    o.DissolveOffset,
		CoarseTolerance:   o.CoarseTolerance,
		FineTolerance:     o.FineTolerance,
		Scale:             o.Scale,
		FillSource:        o.FillSource,
		FillDensity:       o.Fill.Density,
		FillRadius:        o.Fill.Radius,
		FillMaxTotal:      o.Fill.MaxTotal,
		Seed:              o.Fill.Seed,
	}
}

// =============================================================================
// Frame - Pipeline Output
// =============================================================================

// Frame contains the outputs of one pipeline run.
type Frame struct {
	// Contours are the final counter-clockwise blob outlines.
	Contours []geom.Polygon `json:"contours"`

	// Skeleton lists merged and gravitating shape pairs.
	Skeleton []shape.Connection `json:"skeleton"`

	// Decorations are the circles scattered inside the contours.
	Decorations []fill.Position `json:"decorations"`

	// Clusters lists member shape IDs per cluster, representative first.
	Clusters [][]shape.ID `json:"clusters"`

	Stats     Stats     `json:"stats"`
	CacheInfo CacheInfo `json:"cache_info"`
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ShapeCount      int     `json:"shapes"`
	ClusterCount    int     `json:"clusters"`
	ContourCount    int     `json:"contours"`
	DecorationCount int     `json:"decorations"`
	Bridges         int     `json:"bridges"`
	Bumps           int     `json:"bumps"`
	RadiusExtend    float64 `json:"radius_extend"`
	MaxRadiusExtend float64 `json:"max_radius_extend"`

	GroupTime    time.Duration `json:"group_ns"`
	UnionTime    time.Duration `json:"union_ns"`
	DissolveTime time.Duration `json:"dissolve_ns"`
	DeformTime   time.Duration `json:"deform_ns"`
	FillTime     time.Duration `json:"fill_ns"`
}

// CacheInfo tracks which stages were skipped.
type CacheInfo struct {
	FrameHit          bool `json:"frame_hit"`          // Whether the whole frame came from cache
	PathsReused       bool `json:"paths_reused"`       // Group and union skipped
	ContoursReused    bool `json:"contours_reused"`    // Dissolve and deform skipped
	DecorationsReused bool `json:"decorations_reused"` // Fill skipped or frozen
}

// SnapshotHash returns the content hash of a shape set.
func SnapshotHash(shapes []shape.Shape) string {
	data, _ := json.Marshal(shapes)
	return cache.Hash(data)
}
