// Package cluster groups shapes into blobs and emits the polygons that make
// up each blob.
//
// # Classification
//
// Every pair of shapes A, B at center distance d is classified by its
// distance ratio
//
//	ratio = radiusExtend · (rA + rB) / d
//
// where radiusExtend is interpolated between [SmallestRadiusExtend] and a
// scene-dependent maximum by the closeness parameter. Pairs with
// ratio ≥ ConsiderConnectedLowerBound merge. Pairs below that but at or above
// GravitationForceVisibleLowerBound gravitate, provided they would merge at
// full closeness. Everything else is unrelated.
//
// The maximum radius extend is the bottleneck edge of a minimum spanning tree
// over d/(rA+rB), scaled by ConsiderConnectedLowerBound. At closeness 1 every
// spanning tree edge merges, so the whole scene becomes a single cluster.
//
// # Traversal
//
// [Group] runs a breadth-first traversal from each unvisited shape in input
// order. The seed becomes the cluster representative. Each visited shape
// contributes its circle outline, and merged neighbors are enqueued in
// nearest-first order along with a metaball bridge. Gravitating pairs are
// deferred until all representatives are known, then each side receives a
// bump toward the other.
//
// Cluster shapes depend on input order when several neighbors are equally
// eligible. This is deterministic for a given order.
//
// Shapes whose circles overlap (one center inside the other circle) always
// join the same cluster but emit no bridge; the union of their outlines
// already covers the join.
package cluster
