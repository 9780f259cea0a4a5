// Package simplify reduces contour vertex counts while bounding deviation.
//
// Both passes come from github.com/paulmach/orb/simplify: a radial-distance
// pass that drops vertices closer than the tolerance to their predecessor,
// followed by Douglas-Peucker. High quality mode skips the radial pass,
// which is faster but can shave thin features.
package simplify

import (
	"github.com/paulmach/orb/planar"
	orbsimplify "github.com/paulmach/orb/simplify"

	"github.com/matzehuels/blobgeom/pkg/geom"
)

// Simplify returns contour with vertices removed so that no removed vertex
// deviates more than tolerance from the result. Results with fewer than three
// vertices are rejected in favor of the input.
func Simplify(contour geom.Polygon, tolerance float64, highQuality bool) geom.Polygon {
	if tolerance <= 0 || len(contour) < 4 {
		return contour.Clone()
	}
	ring := contour.Ring()
	if !highQuality {
		ring = orbsimplify.Radial(planar.Distance, tolerance).Ring(ring)
	}
	ring = orbsimplify.DouglasPeucker(tolerance).Ring(ring)

	out := geom.FromRing(ring)
	if len(out) < 3 {
		return contour.Clone()
	}
	return out
}

// All simplifies every contour, dropping contours that are too small to keep
// three vertices.
func All(contours []geom.Polygon, tolerance float64, highQuality bool) []geom.Polygon {
	out := make([]geom.Polygon, 0, len(contours))
	for _, c := range contours {
		if s := Simplify(c, tolerance, highQuality); len(s) >= 3 {
			out = append(out, s)
		}
	}
	return out
}
