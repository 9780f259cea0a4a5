// Package clip composes cluster polygons into final outlines.
//
// Boolean operations run on integer coordinates through the [BooleanOps]
// interface. [Clipper] implements it with github.com/ctessum/go.clipper, a
// Go port of Angus Johnson's Clipper library.
//
// # Scale Contract
//
// [Compositor] multiplies floating coordinates by Scale and rounds them
// before every operation, then divides results by Scale. Offsets are scaled
// the same way. [DefaultScale] keeps four decimal places, which is far below
// any visible deviation for canvas-sized scenes while staying well inside
// the integer range Clipper supports.
//
// # Orientation
//
// Inputs are normalized to counter-clockwise winding before a union with the
// non-zero fill rule, so overlapping polygons always add up. Outer contours
// come back with positive orientation; holes come back negative and are
// discarded.
package clip
