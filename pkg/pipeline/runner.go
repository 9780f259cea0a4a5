package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/blobgeom/pkg/cache"
	"github.com/matzehuels/blobgeom/pkg/observability"
	"github.com/matzehuels/blobgeom/pkg/shape"
	"github.com/matzehuels/blobgeom/pkg/skeleton"
)

// Runner computes single frames with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// ComputeWithCacheInfo computes a frame from scratch, serving it from the
// cache when the same shapes and options were computed before. The returned
// frame's CacheInfo.FrameHit reports the cache outcome.
func (r *Runner) ComputeWithCacheInfo(ctx context.Context, shapes []shape.Shape, opts Options) (*Frame, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, fmt.Errorf("invalid options: %w", err)
	}

	cacheKey := r.Keyer.FrameKey(SnapshotHash(shapes), opts.FrameKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var frame Frame
			if err := json.Unmarshal(data, &frame); err == nil {
				observability.Cache().OnCacheHit(ctx, "frame")
				frame.CacheInfo.FrameHit = true
				return &frame, true, nil
			}
			// If deserialization fails, fall through to recompute
		}
		observability.Cache().OnCacheMiss(ctx, "frame")
	}

	start := time.Now()
	frame, err := NewEngine(r.Logger).Tick(ctx, shapes, opts)
	if err != nil {
		return nil, false, err
	}

	r.Logger.Info("computed frame",
		"shapes", frame.Stats.ShapeCount,
		"clusters", frame.Stats.ClusterCount,
		"contours", frame.Stats.ContourCount,
		"decorations", frame.Stats.DecorationCount,
		"duration", time.Since(start))

	if data, err := json.Marshal(frame); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLFrame); err == nil {
			observability.Cache().OnCacheSet(ctx, "frame", len(data))
		} else {
			r.Logger.Warn("cache frame", "err", err)
		}
	}

	return frame, false, nil
}

// Compute is a convenience wrapper that calls ComputeWithCacheInfo and discards the cache hit info.
func (r *Runner) Compute(ctx context.Context, shapes []shape.Shape, opts Options) (*Frame, error) {
	frame, _, err := r.ComputeWithCacheInfo(ctx, shapes, opts)
	return frame, err
}

// SkeletonWithCacheInfo renders the skeleton of frame in the given format
// (dot or svg), caching the rendered artifact.
func (r *Runner) SkeletonWithCacheInfo(ctx context.Context, frame *Frame, shapes []shape.Shape, format string) ([]byte, bool, error) {
	if frame == nil {
		return nil, false, fmt.Errorf("skeleton: nil frame")
	}
	graphData, err := json.Marshal(struct {
		Skeleton []shape.Connection `json:"skeleton"`
		Clusters [][]shape.ID       `json:"clusters"`
		Shapes   []shape.Shape      `json:"shapes"`
	}{frame.Skeleton, frame.Clusters, shapes})
	if err != nil {
		return nil, false, fmt.Errorf("serialize skeleton for cache key: %w", err)
	}
	cacheKey := r.Keyer.ArtifactKey(cache.Hash(graphData), cache.ArtifactKeyOpts{Kind: "skeleton", Format: format})

	if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return data, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	dot := skeleton.ToDOT(frame.Skeleton, frame.Clusters, skeleton.Options{Detailed: true, Shapes: shapes})
	data, err := skeleton.Render(ctx, dot, format)
	if err != nil {
		return nil, false, err
	}
	if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact); err == nil {
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	return data, false, nil
}

// Skeleton is a convenience wrapper that calls SkeletonWithCacheInfo and discards the cache hit info.
func (r *Runner) Skeleton(ctx context.Context, frame *Frame, shapes []shape.Shape, format string) ([]byte, error) {
	data, _, err := r.SkeletonWithCacheInfo(ctx, frame, shapes, format)
	return data, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
