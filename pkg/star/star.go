package star

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/blobgeom/pkg/errors"
	"github.com/matzehuels/blobgeom/pkg/geom"
)

const (
	// InputResolution is the number of points the contour is resampled to
	// before deforming.
	InputResolution = 160
	// OutputResolution is the number of points of the deformed contour.
	OutputResolution = 200

	MinWings = 5
	MaxWings = 20

	// closingFraction places the closing point this far back toward the start.
	closingFraction = 0.9

	// valleyReach is the share of the local width a vertex may sink inward.
	// Two facing valleys together leave a fifth of a narrow neck standing,
	// so a bridged cluster stays one contour.
	valleyReach = 0.4
)

// Params controls the star shape.
type Params struct {
	OuterOffsetRatio float64 `json:"outer_offset_ratio" toml:"outer_offset_ratio"`
	Roundness        float64 `json:"roundness" toml:"roundness"`
	WingCount        int     `json:"wings" toml:"wings"`
}

// DefaultParams returns a plain (undeformed) configuration with eight wings.
func DefaultParams() Params {
	return Params{OuterOffsetRatio: 0, Roundness: 0.5, WingCount: 8}
}

// Validate checks the parameter ranges.
func (p Params) Validate() error {
	if err := errors.ValidateNonNegative("outer_offset_ratio", p.OuterOffsetRatio); err != nil {
		return err
	}
	if err := errors.ValidateUnit("roundness", p.Roundness); err != nil {
		return err
	}
	if p.WingCount < 0 {
		return errors.New(errors.ErrCodeInvalidParams, "wings must not be negative, got %d", p.WingCount)
	}
	return nil
}

// Wings returns the wing count clamped to [MinWings, MaxWings].
func (p Params) Wings() int { return min(max(p.WingCount, MinWings), MaxWings) }

// control is a normal offset prescribed at arc position u.
type control struct {
	u, offset float64
}

// profile returns the offsets of one full revolution, sorted by u, with a
// closing control at u = 1 equal to the first.
func profile(p Params, wingLength float64) []control {
	n := p.Wings()
	step := 1 / float64(n)
	delta := step / 2 * geom.Lerp(0.6, 0.15, p.Roundness)
	vertical := geom.Lerp(0.2, 0.9, p.Roundness)
	ratio := p.OuterOffsetRatio

	valley := -wingLength * (1 - geom.Clamp(ratio, 0, 1))
	shoulder := vertical * wingLength * ratio
	tip := wingLength * ratio

	cs := make([]control, 0, 4*n+1)
	for w := range n {
		start := float64(w) * step
		mid := start + step/2
		cs = append(cs,
			control{start, valley},
			control{mid - delta, shoulder},
			control{mid, tip},
			control{mid + delta, shoulder},
		)
	}
	return append(cs, control{1, valley})
}

// WingLength returns the wing length for a contour of the given area: the
// equivalent circle radius scaled by the outer offset ratio and shortened by
// up to half while dissolving.
func WingLength(area, outerOffsetRatio, dissolve float64) float64 {
	r := math.Sqrt(math.Abs(area) / math.Pi)
	return r * outerOffsetRatio * (1 - 0.5*geom.Clamp(dissolve, 0, 1))
}

// Deform turns contour into a star shape. The result is counter-clockwise
// with OutputResolution points.
func Deform(contour geom.Polygon, p Params, dissolve float64) geom.Polygon {
	if len(contour) < 3 || p.OuterOffsetRatio <= 0 {
		return contour.Clone()
	}

	base := geom.CatmullRom(contour.CCW(), InputResolution, true).RotateToRightmost()
	curve := geom.NewCurve(base, true)
	if curve.Length() < geom.Epsilon {
		return contour.Clone()
	}
	controls := profile(p, WingLength(base.Area(), p.OuterOffsetRatio, dissolve))
	h := 0.5 / float64(len(base))
	n := len(base)

	normals := make([]r2.Vec, n)
	for i := range base {
		normals[i] = curve.Normal(curve.Offset(i), h)
	}
	limits := depthLimits(base, normals)

	displace := func(u, offset, limit float64) r2.Vec {
		offset = max(offset, -limit)
		return r2.Add(curve.At(u), r2.Scale(offset, curve.Normal(u, h)))
	}

	// Merge the contour vertices and the controls by arc position. Vertex
	// offsets interpolate linearly between the surrounding controls.
	out := make(geom.Polygon, 0, len(base)+len(controls))
	ci := 0
	for i := range base {
		u := curve.Offset(i)
		between := min(limits[i], limits[(i+n-1)%n])
		for ci < len(controls)-1 && controls[ci].u <= u {
			if controls[ci].u < u {
				out = append(out, displace(controls[ci].u, controls[ci].offset, between))
			}
			ci++
		}
		prev, next := controls[max(ci-1, 0)], controls[ci]
		t := 0.0
		if span := next.u - prev.u; span > geom.Epsilon {
			t = (u - prev.u) / span
		}
		out = append(out, displace(u, geom.Lerp(prev.offset, next.offset, t), limits[i]))
	}
	for last := min(limits[n-1], limits[0]); ci < len(controls)-1; ci++ {
		out = append(out, displace(controls[ci].u, controls[ci].offset, last))
	}

	out = append(out, geom.LerpPoints(out[len(out)-1], out[0], closingFraction))
	return geom.CatmullRom(out, OutputResolution, true)
}

// depthLimits returns, per vertex, how far it may move inward: valleyReach of
// the distance to the opposite side along the inward normal.
func depthLimits(base geom.Polygon, normals []r2.Vec) []float64 {
	n := len(base)
	out := make([]float64, n)
	for i, p := range base {
		inward := r2.Scale(-1, normals[i])
		width := math.Inf(1)
		for j := range n {
			if j == i || (j+1)%n == i {
				continue
			}
			if t, ok := rayHit(p, inward, base[j], base[(j+1)%n]); ok {
				width = min(width, t)
			}
		}
		out[i] = valleyReach * width
	}
	return out
}

// rayHit intersects the ray p + t·d, t > 0, with segment ab.
func rayHit(p, d, a, b r2.Vec) (float64, bool) {
	e := r2.Sub(b, a)
	den := d.X*e.Y - d.Y*e.X
	if math.Abs(den) < geom.Epsilon {
		return 0, false
	}
	ap := r2.Sub(a, p)
	t := (ap.X*e.Y - ap.Y*e.X) / den
	s := (ap.X*d.Y - ap.Y*d.X) / den
	if t <= geom.Epsilon || s < 0 || s > 1 {
		return 0, false
	}
	return t, true
}

// Reference returns a star around the origin built from a circle of the
// given size. It previews the wing profile independently of any contour.
func Reference(size float64, p Params) geom.Polygon {
	circle := geom.CirclePolygon(r2.Vec{}, size, 2*math.Pi/InputResolution)
	return Deform(circle, p, 0)
}
