package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/blobgeom/pkg/clip"
	"github.com/matzehuels/blobgeom/pkg/cluster"
	"github.com/matzehuels/blobgeom/pkg/field"
	"github.com/matzehuels/blobgeom/pkg/fill"
	"github.com/matzehuels/blobgeom/pkg/geom"
	"github.com/matzehuels/blobgeom/pkg/observability"
	"github.com/matzehuels/blobgeom/pkg/shape"
	"github.com/matzehuels/blobgeom/pkg/simplify"
	"github.com/matzehuels/blobgeom/pkg/star"
)

// stage wraps fn with observability hooks and returns its duration.
func stage(ctx context.Context, name string, inputs int, fn func() (int, error)) (time.Duration, error) {
	hooks := observability.Pipeline()
	hooks.OnStageStart(ctx, name, inputs)
	start := time.Now()
	outputs, err := fn()
	d := time.Since(start)
	hooks.OnStageComplete(ctx, name, outputs, d, err)
	return d, err
}

// Group clusters shapes and returns the per-cluster polygon lists.
func Group(shapes []shape.Shape, opts Options) (*cluster.Result, error) {
	return cluster.Group(shapes, opts.Cluster)
}

// Union merges the cluster polygons into outer contours.
func Union(comp *clip.Compositor, res *cluster.Result) ([]geom.Polygon, error) {
	return comp.Union(res.Groups())
}

// Dissolve shrinks contours by Dissolve·DissolveOffset and applies the
// coarse simplification. Contours that vanish are dropped.
func Dissolve(comp *clip.Compositor, contours []geom.Polygon, opts Options) []geom.Polygon {
	shrunk := comp.Offset(contours, -opts.Dissolve*opts.DissolveOffset)
	return simplify.All(shrunk, opts.CoarseTolerance, false)
}

// Deform turns every contour into a star, resolves self-intersections and
// applies the fine simplification. With a zero outer offset the contours are
// only simplified.
func Deform(comp *clip.Compositor, contours []geom.Polygon, opts Options) ([]geom.Polygon, error) {
	if opts.Star.OuterOffsetRatio <= 0 {
		return simplify.All(contours, opts.FineTolerance, true), nil
	}
	stars := make([]geom.Polygon, 0, len(contours))
	for _, c := range contours {
		stars = append(stars, star.Deform(c, opts.Star, opts.Dissolve))
	}
	cleaned, err := comp.Clean(stars)
	if err != nil {
		return nil, err
	}
	return simplify.All(cleaned, opts.FineTolerance, true), nil
}

// FillRegions returns the polygons decorations are scattered in.
func FillRegions(shapes []shape.Shape, contours []geom.Polygon, opts Options) []geom.Polygon {
	if opts.FillSource == FillSourceField {
		f := field.Field{Shapes: shapes, SampleRate: field.DefaultSampleRate}
		return f.Contours(field.Threshold(opts.Cluster.Closeness))
	}
	return contours
}

// Decorate fills regions and flattens the result.
func Decorate(ctx context.Context, regions []geom.Polygon, opts Options) ([]fill.Position, error) {
	per, err := fill.FillAll(ctx, regions, opts.Fill)
	if err != nil {
		return nil, err
	}
	var out []fill.Position
	for _, p := range per {
		out = append(out, p...)
	}
	return out, nil
}
