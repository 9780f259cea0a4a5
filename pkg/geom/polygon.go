package geom

import (
	"encoding/json"
	"math"
	"slices"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"gonum.org/v1/gonum/spatial/r2"
)

// DefaultCircleStep is the angular step, in radians, used by [CirclePolygon].
const DefaultCircleStep = 0.1

// Polygon is an implicitly closed sequence of points.
type Polygon []r2.Vec

// CirclePolygon approximates a circle by sampling its outline every step
// radians, starting at angle 0. A non-positive step uses DefaultCircleStep.
func CirclePolygon(center r2.Vec, radius, step float64) Polygon {
	if step <= 0 {
		step = DefaultCircleStep
	}
	n := int(math.Ceil(2*math.Pi/step - Epsilon))
	p := make(Polygon, n)
	for i := range p {
		p[i] = Polar(center, float64(i)*step, radius)
	}
	return p
}

// Clone returns a copy of p.
func (p Polygon) Clone() Polygon { return slices.Clone(p) }

// Ring converts p to an explicitly closed orb.Ring.
func (p Polygon) Ring() orb.Ring {
	r := make(orb.Ring, 0, len(p)+1)
	for _, v := range p {
		r = append(r, orb.Point{v.X, v.Y})
	}
	if len(p) > 0 {
		r = append(r, r[0])
	}
	return r
}

// FromRing converts an orb.Ring back to a Polygon, dropping the closing point.
func FromRing(r orb.Ring) Polygon {
	if len(r) > 1 && r[0] == r[len(r)-1] {
		r = r[:len(r)-1]
	}
	p := make(Polygon, len(r))
	for i, v := range r {
		p[i] = r2.Vec{X: v[0], Y: v[1]}
	}
	return p
}

// Bounds returns the axis-aligned bounding box of p. The zero box is returned
// for an empty polygon.
func (p Polygon) Bounds() r2.Box {
	if len(p) == 0 {
		return r2.Box{}
	}
	b := r2.Box{Min: p[0], Max: p[0]}
	for _, v := range p[1:] {
		b.Min.X = min(b.Min.X, v.X)
		b.Min.Y = min(b.Min.Y, v.Y)
		b.Max.X = max(b.Max.X, v.X)
		b.Max.Y = max(b.Max.Y, v.Y)
	}
	return b
}

// Area returns the unsigned area of p.
func (p Polygon) Area() float64 {
	if len(p) < 3 {
		return 0
	}
	return math.Abs(planar.Area(p.Ring()))
}

// SignedArea returns the area of p, positive for counter-clockwise winding
// in a y-up coordinate system.
func (p Polygon) SignedArea() float64 {
	if len(p) < 3 {
		return 0
	}
	r := p.Ring()
	a := math.Abs(planar.Area(r))
	if r.Orientation() == orb.CW {
		return -a
	}
	return a
}

// CCW returns p wound counter-clockwise, reversing a copy when necessary.
func (p Polygon) CCW() Polygon {
	if p.SignedArea() >= 0 {
		return p
	}
	q := p.Clone()
	slices.Reverse(q)
	return q
}

// Centroid returns the area centroid of p. Degenerate polygons fall back to
// the vertex average.
func (p Polygon) Centroid() r2.Vec {
	if len(p) == 0 {
		return r2.Vec{}
	}
	if len(p) >= 3 {
		c, a := planar.CentroidArea(p.Ring())
		if math.Abs(a) > Epsilon {
			return r2.Vec{X: c[0], Y: c[1]}
		}
	}
	var sum r2.Vec
	for _, v := range p {
		sum = r2.Add(sum, v)
	}
	return r2.Scale(1/float64(len(p)), sum)
}

// Contains reports whether pt lies inside p.
func (p Polygon) Contains(pt r2.Vec) bool {
	if len(p) < 3 {
		return false
	}
	return planar.RingContains(p.Ring(), orb.Point{pt.X, pt.Y})
}

// EdgeDistance returns the smallest distance from pt to any edge of p.
func (p Polygon) EdgeDistance(pt r2.Vec) float64 {
	if len(p) == 0 {
		return math.Inf(1)
	}
	q := orb.Point{pt.X, pt.Y}
	best := math.Inf(1)
	for i := range p {
		a, b := p[i], p[(i+1)%len(p)]
		d := planar.DistanceFromSegment(orb.Point{a.X, a.Y}, orb.Point{b.X, b.Y}, q)
		best = min(best, d)
	}
	return best
}

// RotateToRightmost returns p rotated so that it starts at its point with the
// largest X coordinate. Ties keep the first occurrence.
func (p Polygon) RotateToRightmost() Polygon {
	if len(p) == 0 {
		return p
	}
	idx := 0
	for i, v := range p {
		if v.X > p[idx].X {
			idx = i
		}
	}
	out := make(Polygon, 0, len(p))
	out = append(out, p[idx:]...)
	return append(out, p[:idx]...)
}

// MarshalJSON encodes p as a list of [x, y] pairs.
func (p Polygon) MarshalJSON() ([]byte, error) {
	pairs := make([][2]float64, len(p))
	for i, v := range p {
		pairs[i] = [2]float64{v.X, v.Y}
	}
	return json.Marshal(pairs)
}

// UnmarshalJSON decodes a list of [x, y] pairs.
func (p *Polygon) UnmarshalJSON(data []byte) error {
	var pairs [][2]float64
	if err := json.Unmarshal(data, &pairs); err != nil {
		return err
	}
	out := make(Polygon, len(pairs))
	for i, v := range pairs {
		out[i] = r2.Vec{X: v[0], Y: v[1]}
	}
	*p = out
	return nil
}
