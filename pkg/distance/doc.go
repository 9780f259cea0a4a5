// Package distance precomputes pairwise distances between items and answers
// nearest-neighbor queries.
//
// A [Matrix] stores, for each item, the distances to every other item sorted
// ascending. Construction is O(N² log N), which is fine for the handful of
// shapes a scene holds. The distance function is arbitrary, so a second
// matrix can be derived from a first one:
//
//	raw := distance.New(shapes, func(a, b shape.Shape) float64 {
//	    return geom.Dist(a.Center, b.Center)
//	})
//	rel := distance.Derive(raw, func(i, j int, d float64) float64 {
//	    return d / (shapes[i].Radius + shapes[j].Radius)
//	})
//
// Items are addressed by their index in the slice passed to [New].
package distance
