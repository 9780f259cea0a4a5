package geom

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r2"
)

// catmullRomAlpha selects the centripetal parametrization, which avoids cusps
// and self-intersections within a segment.
const catmullRomAlpha = 0.5

// CatmullRom samples a centripetal Catmull-Rom spline through pts and returns
// n points spaced uniformly by arc length. For closed splines the last point
// connects back to the first and is not repeated. Open splines include both
// endpoints.
func CatmullRom(pts []r2.Vec, n int, closed bool) Polygon {
	if len(pts) < 2 || n < 2 {
		return Polygon(pts).Clone()
	}
	const perSegment = 16
	dense := make(Polygon, 0, len(pts)*perSegment+1)
	segments := len(pts) - 1
	if closed {
		segments = len(pts)
	}
	for i := 0; i < segments; i++ {
		p0, p1, p2, p3 := controlPoints(pts, i, closed)
		dense = appendSegment(dense, p0, p1, p2, p3, perSegment)
	}
	if !closed {
		dense = append(dense, pts[len(pts)-1])
	}
	return Resample(dense, n, closed)
}

func controlPoints(pts []r2.Vec, i int, closed bool) (p0, p1, p2, p3 r2.Vec) {
	n := len(pts)
	at := func(j int) r2.Vec {
		if closed {
			return pts[((j%n)+n)%n]
		}
		switch {
		case j < 0:
			// reflect the first point to get a phantom start
			return r2.Sub(r2.Scale(2, pts[0]), pts[1])
		case j >= n:
			return r2.Sub(r2.Scale(2, pts[n-1]), pts[n-2])
		}
		return pts[j]
	}
	return at(i - 1), at(i), at(i + 1), at(i + 2)
}

func appendSegment(out Polygon, p0, p1, p2, p3 r2.Vec, steps int) Polygon {
	t0 := 0.0
	t1 := t0 + knot(p0, p1)
	t2 := t1 + knot(p1, p2)
	t3 := t2 + knot(p2, p3)
	for s := 0; s < steps; s++ {
		t := Lerp(t1, t2, float64(s)/float64(steps))
		a1 := blend(p0, p1, t0, t1, t)
		a2 := blend(p1, p2, t1, t2, t)
		a3 := blend(p2, p3, t2, t3, t)
		b1 := blend(a1, a2, t0, t2, t)
		b2 := blend(a2, a3, t1, t3, t)
		c := blend(b1, b2, t1, t2, t)
		if !Finite(c) {
			c = LerpPoints(p1, p2, float64(s)/float64(steps))
		}
		out = append(out, c)
	}
	return out
}

func knot(a, b r2.Vec) float64 {
	return max(math.Pow(Dist(a, b), catmullRomAlpha), Epsilon)
}

func blend(a, b r2.Vec, ta, tb, t float64) r2.Vec {
	span := tb - ta
	return r2.Add(r2.Scale((tb-t)/span, a), r2.Scale((t-ta)/span, b))
}

// Resample redistributes n points uniformly by arc length along pts.
func Resample(pts []r2.Vec, n int, closed bool) Polygon {
	if len(pts) < 2 || n < 1 {
		return Polygon(pts).Clone()
	}
	c := NewCurve(pts, closed)
	if c.Length() < Epsilon {
		return Polygon(pts).Clone()
	}
	out := make(Polygon, n)
	div := float64(n)
	if !closed {
		div = float64(max(n-1, 1))
	}
	for i := range out {
		out[i] = c.At(float64(i) / div)
	}
	return out
}

// Curve is an arc-length parametrization of a polyline. Positions are
// normalized to [0, 1]; closed curves wrap.
type Curve struct {
	pts    []r2.Vec
	cum    []float64
	total  float64
	closed bool
}

// NewCurve builds the parametrization of pts. For closed curves the segment
// from the last point back to the first is included.
func NewCurve(pts []r2.Vec, closed bool) *Curve {
	c := &Curve{pts: pts, closed: closed}
	n := len(pts)
	edges := n - 1
	if closed {
		edges = n
	}
	c.cum = make([]float64, 0, edges+1)
	c.cum = append(c.cum, 0)
	for i := 0; i < edges; i++ {
		c.total += Dist(pts[i], pts[(i+1)%n])
		c.cum = append(c.cum, c.total)
	}
	return c
}

// Length returns the total arc length.
func (c *Curve) Length() float64 { return c.total }

// Offset returns the normalized arc position of vertex i.
func (c *Curve) Offset(i int) float64 {
	if c.total < Epsilon {
		return 0
	}
	return c.cum[i] / c.total
}

func (c *Curve) wrap(u float64) float64 {
	if !c.closed {
		return Clamp(u, 0, 1)
	}
	u -= math.Floor(u)
	return u
}

// segment returns the edge index containing arc distance s and the local
// interpolation factor along it.
func (c *Curve) segment(s float64) (int, float64) {
	i := sort.SearchFloat64s(c.cum, s)
	if i > 0 {
		i--
	}
	if i >= len(c.cum)-1 {
		i = len(c.cum) - 2
	}
	length := c.cum[i+1] - c.cum[i]
	if length < Epsilon {
		return i, 0
	}
	return i, Clamp((s-c.cum[i])/length, 0, 1)
}

// At returns the point at normalized arc position u.
func (c *Curve) At(u float64) r2.Vec {
	if len(c.pts) == 0 {
		return r2.Vec{}
	}
	if len(c.pts) == 1 || c.total < Epsilon {
		return c.pts[0]
	}
	i, t := c.segment(c.wrap(u) * c.total)
	return LerpPoints(c.pts[i], c.pts[(i+1)%len(c.pts)], t)
}

// Tangent returns the unit direction of travel at u, estimated by a central
// difference of width h. Zero-length neighborhoods widen the window until a
// direction is found; the zero vector is returned for degenerate curves.
func (c *Curve) Tangent(u, h float64) r2.Vec {
	if c.total < Epsilon {
		return r2.Vec{}
	}
	h = max(h, Epsilon)
	for range 8 {
		d := r2.Sub(c.At(u+h), c.At(u-h))
		if n := r2.Norm(d); n > Epsilon {
			return r2.Scale(1/n, d)
		}
		h *= 2
	}
	return r2.Vec{}
}

// Normal returns the unit normal at u pointing to the right of the direction
// of travel, which is outward for counter-clockwise contours.
func (c *Curve) Normal(u, h float64) r2.Vec {
	return Perp(c.Tangent(u, h))
}
