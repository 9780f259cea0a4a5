// Package field traces low-resolution blob outlines from a summed falloff
// field.
//
// Every shape contributes a smooth polynomial falloff reaching zero at twice
// its radius. The field is sampled on a coarse grid and contoured with
// marching squares at a threshold derived from closeness. The outlines are
// cheap and stable, which makes them a good source for decorations while the
// exact outline is dissolving.
package field

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/blobgeom/pkg/geom"
	"github.com/matzehuels/blobgeom/pkg/shape"
)

const (
	DefaultSampleRate = 10
	// PaddingFactor scales the largest radius to pad the sampled area.
	PaddingFactor = 1.3
	// minThreshold keeps the zero border outside every contour.
	minThreshold = 1e-6
)

// Falloff is the Wyvill kernel 2(d/R)³ - 3(d/R)² + 1 with R = 2r, clamped to
// zero beyond R. It equals 1 at the center and 0.5 at distance r.
func Falloff(d, r float64) float64 {
	R := 2 * r
	if R <= 0 || d >= R {
		return 0
	}
	x := d / R
	return 2*x*x*x - 3*x*x + 1
}

// Threshold maps closeness to the contour level.
func Threshold(closeness float64) float64 { return 1 - closeness }

// Field is the summed falloff of a shape set.
type Field struct {
	Shapes     []shape.Shape
	SampleRate float64
}

// Value returns the field strength at p.
func (f Field) Value(p r2.Vec) float64 {
	var v float64
	for _, s := range f.Shapes {
		v += Falloff(geom.Dist(s.Center, p), s.Radius)
	}
	return v
}

// Grid holds field samples at cell centers.
type Grid struct {
	Origin r2.Vec
	Rate   float64
	W, H   int
	Values []float64
}

// at returns the sample at (i, j), or zero outside the grid.
func (g *Grid) at(i, j int) float64 {
	if i < 0 || j < 0 || i >= g.W || j >= g.H {
		return 0
	}
	return g.Values[j*g.W+i]
}

// point returns the world position of sample (i, j).
func (g *Grid) point(i, j int) r2.Vec {
	return r2.Vec{
		X: g.Origin.X + (float64(i)+0.5)*g.Rate,
		Y: g.Origin.Y + (float64(j)+0.5)*g.Rate,
	}
}

// Sample evaluates the field on a grid covering every shape center padded by
// PaddingFactor times the largest radius.
func (f Field) Sample() *Grid {
	rate := f.SampleRate
	if rate <= 0 {
		rate = DefaultSampleRate
	}
	if len(f.Shapes) == 0 {
		return &Grid{Rate: rate}
	}
	lo, hi := f.Shapes[0].Center, f.Shapes[0].Center
	var maxR float64
	for _, s := range f.Shapes {
		lo.X, lo.Y = min(lo.X, s.Center.X), min(lo.Y, s.Center.Y)
		hi.X, hi.Y = max(hi.X, s.Center.X), max(hi.Y, s.Center.Y)
		maxR = max(maxR, s.Radius)
	}
	pad := maxR * PaddingFactor
	g := &Grid{
		Origin: r2.Vec{X: lo.X - pad, Y: lo.Y - pad},
		Rate:   rate,
		W:      max(1, int(math.Round((hi.X-lo.X+2*pad)/rate))),
		H:      max(1, int(math.Round((hi.Y-lo.Y+2*pad)/rate))),
	}
	g.Values = make([]float64, g.W*g.H)
	for j := range g.H {
		for i := range g.W {
			g.Values[j*g.W+i] = f.Value(g.point(i, j))
		}
	}
	return g
}

// Contours returns the outer outlines of the region where the field reaches
// threshold, wound counter-clockwise. Holes are dropped.
func (f Field) Contours(threshold float64) []geom.Polygon {
	return f.Sample().Contours(threshold)
}
