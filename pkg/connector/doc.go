// Package connector synthesizes the polygons that join circles into blobs.
//
// [Metaball] builds a bridge between two merged circles: four tangent-like
// points from [Bounds] plus two waist points near the weighted midpoint,
// joined by open Catmull-Rom splines so the bridge has no visible kinks.
// The construction follows the classic metaball bridge by SATO Hiroyuki.
//
// [Gravitation] builds a one-sided bump on the first circle pointing at the
// second. It is used for pairs that attract each other without merging.
//
// Both functions return an empty polygon for degenerate input (coincident
// centers, one circle containing the other, non-finite angles). Callers
// skip empty results.
package connector
