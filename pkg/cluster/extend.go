package cluster

import (
	"math"

	"github.com/matzehuels/blobgeom/pkg/distance"
	"github.com/matzehuels/blobgeom/pkg/geom"
	"github.com/matzehuels/blobgeom/pkg/shape"
)

// SmallestRadiusExtend is the radius extend factor at closeness 0.
const SmallestRadiusExtend = 1.0

// RelativeDistances derives d/(rA+rB) from a matrix of center distances.
func RelativeDistances(raw *distance.Matrix[shape.Shape]) *distance.Matrix[shape.Shape] {
	return distance.Derive(raw, func(i, j int, d float64) float64 {
		return geom.SafeDiv(d, raw.Item(i).Radius+raw.Item(j).Radius)
	})
}

// Bottleneck returns the largest edge of a minimum spanning tree over m,
// which is the smallest threshold connecting every item. It returns 0 for
// fewer than two items.
func Bottleneck[T any](m *distance.Matrix[T]) float64 {
	n := m.Len()
	if n < 2 {
		return 0
	}
	in := make([]bool, n)
	best := make([]float64, n)
	for i := range best {
		best[i] = math.Inf(1)
	}
	best[0] = 0
	var worst float64
	for range n {
		u := -1
		for v := range n {
			if !in[v] && (u < 0 || best[v] < best[u]) {
				u = v
			}
		}
		in[u] = true
		worst = max(worst, best[u])
		for v := range n {
			if in[v] {
				continue
			}
			if d, ok := m.Between(u, v); ok && d < best[v] {
				best[v] = d
			}
		}
	}
	return worst
}

// MaxRadiusExtend returns the radius extend at closeness 1. It is the
// smallest factor at which every spanning tree edge reaches the connection
// threshold, and never less than SmallestRadiusExtend.
func MaxRadiusExtend(rel *distance.Matrix[shape.Shape], considerConnected float64) float64 {
	b := Bottleneck(rel)
	return max(SmallestRadiusExtend, considerConnected*b*(1+1e-9))
}

// RadiusExtend interpolates the radius extend factor for the given closeness.
func RadiusExtend(biggest, closeness float64) float64 {
	return geom.Lerp(SmallestRadiusExtend, biggest, geom.Clamp(closeness, 0, 1))
}
