// Package shape defines the user-positioned circles the blob engine works on.
//
// A [Shape] is a circle with a stable [ID]. Clustering and caching key off
// that ID across frames, so shapes are stored in an index-based [Arena]
// rather than passed around by pointer. [Arena.Snapshot] produces an
// immutable value copy suitable for equality checks between frames.
//
// [Connection] records a relation between two shapes along with the
// distance ratio that produced it. The clustering stage emits connections
// for the skeleton export and for gravitating pairs.
package shape
