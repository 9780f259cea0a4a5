package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/blobgeom/pkg/clip"
	"github.com/matzehuels/blobgeom/pkg/cluster"
	"github.com/matzehuels/blobgeom/pkg/fill"
	"github.com/matzehuels/blobgeom/pkg/geom"
	"github.com/matzehuels/blobgeom/pkg/observability"
	"github.com/matzehuels/blobgeom/pkg/shape"
)

// Engine computes frames incrementally. It remembers the inputs and outputs
// of the previous tick and re-runs a stage only when one of its inputs
// changed:
//
//   - shapes, cluster parameters or scale: group and union
//   - dissolve, dissolve offset or coarse tolerance: dissolve
//   - star parameters or fine tolerance: deform
//   - contours or fill options: fill
//
// Decorations are frozen while dissolve is strictly between 0 and 1 so they
// do not flicker during the transition.
//
// An Engine is not safe for concurrent use.
type Engine struct {
	Logger *log.Logger

	comp    *clip.Compositor
	primed  bool
	prev    shape.Snapshot
	prevOpt Options

	grouped     *cluster.Result
	union       []geom.Polygon
	dissolved   []geom.Polygon
	contours    []geom.Polygon
	decorations []fill.Position
}

// NewEngine creates an engine. A nil logger uses log.Default().
func NewEngine(logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{Logger: logger, comp: clip.NewCompositor()}
}

// Reset discards all cached stage outputs.
func (e *Engine) Reset() {
	*e = Engine{Logger: e.Logger, comp: e.comp}
}

// Tick computes the frame for shapes and opts, reusing stage outputs of the
// previous tick where possible. The returned frame does not alias engine
// state that a later tick may modify.
func (e *Engine) Tick(ctx context.Context, shapes []shape.Shape, opts Options) (*Frame, error) {
	if opts.Logger == nil {
		opts.Logger = e.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	start := time.Now()
	snap := shape.Snapshot(shapes)
	prev := e.prevOpt

	pathDirty := !e.primed || !snap.Equal(e.prev) ||
		opts.Cluster != prev.Cluster || opts.Scale != prev.Scale
	dissolveDirty := pathDirty || opts.Dissolve != prev.Dissolve ||
		opts.DissolveOffset != prev.DissolveOffset || opts.CoarseTolerance != prev.CoarseTolerance
	deformDirty := dissolveDirty || opts.Star != prev.Star || opts.FineTolerance != prev.FineTolerance
	fillChanged := !e.primed || opts.Fill != prev.Fill || opts.FillSource != prev.FillSource
	fillDirty := deformDirty || fillChanged
	if fillDirty && !fillChanged && opts.InTransition() && e.decorations != nil {
		fillDirty = false
	}

	frame := &Frame{}
	stages := 0
	e.comp.Scale = opts.Scale

	if pathDirty {
		var err error
		frame.Stats.GroupTime, err = stage(ctx, observability.StageGroup, len(shapes), func() (int, error) {
			res, err := Group(shapes, opts)
			if err != nil {
				return 0, err
			}
			e.grouped = res
			return len(res.Order), nil
		})
		if err != nil {
			e.primed = false
			return nil, fmt.Errorf("group: %w", err)
		}
		frame.Stats.UnionTime, err = stage(ctx, observability.StageUnion, len(e.grouped.Order), func() (int, error) {
			union, err := Union(e.comp, e.grouped)
			e.union = union
			return len(union), err
		})
		if err != nil {
			e.primed = false
			return nil, fmt.Errorf("union: %w", err)
		}
		stages += 2
		opts.Logger.Debug("grouped shapes",
			"shapes", len(shapes),
			"clusters", len(e.grouped.Order),
			"contours", len(e.union),
			"duration", frame.Stats.GroupTime+frame.Stats.UnionTime)
	}

	if dissolveDirty {
		frame.Stats.DissolveTime, _ = stage(ctx, observability.StageDissolve, len(e.union), func() (int, error) {
			e.dissolved = Dissolve(e.comp, e.union, opts)
			return len(e.dissolved), nil
		})
		stages++
	}

	if deformDirty {
		var err error
		frame.Stats.DeformTime, err = stage(ctx, observability.StageDeform, len(e.dissolved), func() (int, error) {
			contours, err := Deform(e.comp, e.dissolved, opts)
			e.contours = contours
			return len(contours), err
		})
		if err != nil {
			e.primed = false
			return nil, fmt.Errorf("deform: %w", err)
		}
		stages++
		opts.Logger.Debug("shaped contours",
			"contours", len(e.contours),
			"dissolve", opts.Dissolve,
			"duration", frame.Stats.DissolveTime+frame.Stats.DeformTime)
	}

	if fillDirty {
		var err error
		frame.Stats.FillTime, err = stage(ctx, observability.StageFill, len(e.contours), func() (int, error) {
			decorations, err := Decorate(ctx, FillRegions(shapes, e.contours, opts), opts)
			e.decorations = decorations
			return len(decorations), err
		})
		if err != nil {
			e.primed = false
			return nil, fmt.Errorf("fill: %w", err)
		}
		stages++
	}

	e.primed = true
	e.prev = snap.Clone()
	opts.Logger = nil
	e.prevOpt = opts

	frame.Contours = clonePolygons(e.contours)
	frame.Decorations = append([]fill.Position(nil), e.decorations...)
	frame.Skeleton = append([]shape.Connection(nil), e.grouped.Skeleton...)
	frame.Clusters = e.grouped.Clusters()
	frame.Stats.ShapeCount = len(shapes)
	frame.Stats.ClusterCount = len(e.grouped.Order)
	frame.Stats.ContourCount = len(frame.Contours)
	frame.Stats.DecorationCount = len(frame.Decorations)
	frame.Stats.Bridges = e.grouped.Bridges
	frame.Stats.Bumps = e.grouped.Bumps
	frame.Stats.RadiusExtend = e.grouped.RadiusExtend
	frame.Stats.MaxRadiusExtend = e.grouped.MaxRadiusExtend
	frame.CacheInfo.PathsReused = !pathDirty
	frame.CacheInfo.ContoursReused = !deformDirty
	frame.CacheInfo.DecorationsReused = !fillDirty

	observability.Pipeline().OnTick(ctx, stages, time.Since(start))
	return frame, nil
}

func clonePolygons(polys []geom.Polygon) []geom.Polygon {
	out := make([]geom.Polygon, len(polys))
	for i, p := range polys {
		out[i] = p.Clone()
	}
	return out
}
