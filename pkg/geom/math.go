package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Epsilon is the smallest denominator used for distance and radius divisions.
const Epsilon = 1e-9

// Pt is shorthand for r2.Vec{X: x, Y: y}.
func Pt(x, y float64) r2.Vec { return r2.Vec{X: x, Y: y} }

// Lerp linearly interpolates between a and b.
func Lerp(a, b, t float64) float64 { return a + (b-a)*t }

// LerpPoints linearly interpolates between two points.
func LerpPoints(a, b r2.Vec, t float64) r2.Vec {
	return r2.Add(a, r2.Scale(t, r2.Sub(b, a)))
}

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi float64) float64 { return max(lo, min(hi, v)) }

// Smoothstep is the cubic Hermite step between edge0 and edge1. Reversed
// edges (edge0 > edge1) yield a falling step. Equal edges degrade to a hard step.
func Smoothstep(edge0, edge1, x float64) float64 {
	if edge0 == edge1 {
		if x < edge0 {
			return 0
		}
		return 1
	}
	t := Clamp((x-edge0)/(edge1-edge0), 0, 1)
	return t * t * (3 - 2*t)
}

// Dist returns the euclidean distance between a and b.
func Dist(a, b r2.Vec) float64 { return r2.Norm(r2.Sub(a, b)) }

// Angle returns the angle of the vector from b to a.
func Angle(a, b r2.Vec) float64 { return math.Atan2(a.Y-b.Y, a.X-b.X) }

// Polar returns the point at angle a and distance r from c.
func Polar(c r2.Vec, a, r float64) r2.Vec {
	return r2.Vec{X: c.X + r*math.Cos(a), Y: c.Y + r*math.Sin(a)}
}

// InsideCircle reports whether p lies inside or on the circle (center, radius).
func InsideCircle(center r2.Vec, radius float64, p r2.Vec) bool {
	return r2.Norm2(r2.Sub(p, center)) <= radius*radius
}

// SafeDiv divides a by b with |b| clamped to at least Epsilon.
func SafeDiv(a, b float64) float64 {
	if math.Abs(b) < Epsilon {
		b = math.Copysign(Epsilon, b)
	}
	return a / b
}

// Finite reports whether p has no NaN or infinite component.
func Finite(p r2.Vec) bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// Perp returns the unit vector perpendicular (rotated -90°) to the direction v,
// or the zero vector when v is shorter than Epsilon.
func Perp(v r2.Vec) r2.Vec {
	n := r2.Norm(v)
	if n < Epsilon {
		return r2.Vec{}
	}
	return r2.Vec{X: v.Y / n, Y: -v.X / n}
}
