package connector

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/blobgeom/pkg/geom"
)

// EdgeSamples is the number of points each spline edge contributes.
const EdgeSamples = 12

// Tangents holds the four points where the bridge meets the two circles.
// P1 and P2 lie on the first circle, P3 and P4 on the second. P1 and P3 are
// on the same side of the center line, as are P2 and P4.
type Tangents struct {
	P1, P2, P3, P4 r2.Vec
}

// Bounds computes the bridge attachment points for circles (c1, ra) and
// (c2, rb). inwardShift in [0, 1] blends each angle from the circle
// intersection angle toward the outer tangent angle. The second result is
// false for degenerate input.
func Bounds(ra, rb float64, c1, c2 r2.Vec, inwardShift float64) (Tangents, bool) {
	d := geom.Dist(c1, c2)
	if d < geom.Epsilon || math.Abs(ra-rb) >= d {
		return Tangents{}, false
	}

	var u1, u2 float64
	if d < ra+rb {
		u1 = acos((ra*ra + d*d - rb*rb) / (2 * ra * d))
		u2 = acos((rb*rb + d*d - ra*ra) / (2 * rb * d))
	}

	base := geom.Angle(c2, c1)
	spread := acos((ra - rb) / d)

	a1 := base + u1 + (spread-u1)*inwardShift
	a2 := base - u1 - (spread-u1)*inwardShift
	a3 := base + math.Pi - u2 - (math.Pi-u2-spread)*inwardShift
	a4 := base - math.Pi + u2 + (math.Pi-u2-spread)*inwardShift

	t := Tangents{
		P1: geom.Polar(c1, a1, ra),
		P2: geom.Polar(c1, a2, ra),
		P3: geom.Polar(c2, a3, rb),
		P4: geom.Polar(c2, a4, rb),
	}
	for _, p := range []r2.Vec{t.P1, t.P2, t.P3, t.P4} {
		if !geom.Finite(p) {
			return Tangents{}, false
		}
	}
	return t, true
}

func acos(x float64) float64 { return math.Acos(geom.Clamp(x, -1, 1)) }

// weight returns the fraction of the way from c1 to c2 at which the gap
// between the two circle boundaries is centered.
func weight(ra, rb, d float64) float64 {
	return geom.Clamp((1+geom.SafeDiv(ra-rb, d))/2, 0, 1)
}

// Midpoint returns the radius-weighted midpoint between two circles: the
// center of the gap between their boundaries along the center line.
func Midpoint(c1 r2.Vec, ra float64, c2 r2.Vec, rb float64) r2.Vec {
	return geom.LerpPoints(c1, c2, weight(ra, rb, geom.Dist(c1, c2)))
}

// Metaball returns the bridge polygon between two merged circles. ease in
// [0, 1] moves the waist points from the center line (0) out to the line
// joining the attachment points (1).
func Metaball(ra, rb float64, c1, c2 r2.Vec, inwardShift, ease float64) geom.Polygon {
	t, ok := Bounds(ra, rb, c1, c2, inwardShift)
	if !ok {
		return nil
	}
	w := weight(ra, rb, geom.Dist(c1, c2))
	m := geom.LerpPoints(c1, c2, w)

	top := geom.LerpPoints(m, geom.LerpPoints(t.P1, t.P3, w), ease)
	bottom := geom.LerpPoints(m, geom.LerpPoints(t.P2, t.P4, w), ease)

	upper := geom.CatmullRom([]r2.Vec{t.P1, top, t.P3}, EdgeSamples, false)
	lower := geom.CatmullRom([]r2.Vec{t.P4, bottom, t.P2}, EdgeSamples, false)

	out := make(geom.Polygon, 0, len(upper)+len(lower))
	out = append(out, upper...)
	out = append(out, lower...)
	return finite(out)
}

// Gravitation returns a bump on circle (c1, ra) pointing toward circle
// (c2, rb). strength in [0, 1] moves the bump tip from the first circle's
// boundary to the weighted midpoint.
func Gravitation(c1 r2.Vec, ra float64, c2 r2.Vec, rb float64, strength, inwardShift float64) geom.Polygon {
	t, ok := Bounds(ra, rb, c1, c2, inwardShift)
	if !ok {
		return nil
	}
	m := Midpoint(c1, ra, c2, rb)
	toMid := r2.Sub(m, c1)
	n := r2.Norm(toMid)
	if n < geom.Epsilon {
		return nil
	}
	outline := r2.Add(c1, r2.Scale(ra/n, toMid))
	tip := geom.LerpPoints(outline, m, geom.Clamp(strength, 0, 1))

	return finite(geom.CatmullRom([]r2.Vec{t.P1, tip, t.P2}, 2*EdgeSamples, false))
}

func finite(p geom.Polygon) geom.Polygon {
	for _, v := range p {
		if !geom.Finite(v) {
			return nil
		}
	}
	return p
}
