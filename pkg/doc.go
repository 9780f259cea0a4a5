// Package pkg provides the libraries behind blobgeom, a metaball blob
// geometry engine.
//
// # Overview
//
// Blobgeom turns a set of user-placed circles into smooth organic outlines.
// Circles that are close enough are grouped, joined with metaball bridges or
// gravitation bumps, unioned into contours, optionally dissolved, deformed
// into star-like blobs and finally decorated with scattered circles.
//
// # Packages
//
// Geometry building blocks:
//
//   - [geom]: vectors, polygons and Catmull-Rom curves
//   - [shape]: circles, connections and the shape arena
//   - [distance]: pairwise distance matrices
//   - [field]: the falloff field and its iso-contours
//
// Pipeline stages:
//
//   - [cluster]: connectivity grouping and pair classification
//   - [connector]: metaball and gravitation connector polygons
//   - [clip]: polygon union, offset and cleanup
//   - [simplify]: contour simplification
//   - [star]: star-shape deformation
//   - [fill]: space-filling decoration sampling
//
// Orchestration and infrastructure:
//
//   - [pipeline]: the incremental engine and the cached runner
//   - [scene]: scene files in TOML or JSON
//   - [skeleton]: DOT and SVG export of the connection graph
//   - [cache]: file, Redis and null caches
//   - [errors]: structured error codes
//   - [observability]: hooks for metrics and tracing
//   - [buildinfo]: version information
//
// # Data Flow
//
//	shapes
//	   ↓
//	[cluster] group + classify pairs
//	   ↓
//	[connector] bridges and bumps → [clip] union
//	   ↓
//	[clip] dissolve offset → [simplify] coarse
//	   ↓
//	[star] deform → [simplify] fine
//	   ↓
//	[fill] decorations
//
// # Quick Start
//
//	sc, _ := scene.Load("scene.toml")
//	arena, _ := sc.Arena()
//	runner := pipeline.NewRunner(nil, nil, nil)
//	frame, _ := runner.Compute(ctx, arena.Shapes(), sc.Options())
package pkg
