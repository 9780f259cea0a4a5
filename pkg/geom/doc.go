// Package geom provides the 2D primitives shared by the blob engine.
//
// # Points and Polygons
//
// Points are [r2.Vec] values from gonum's spatial/r2 package. A [Polygon] is an
// ordered slice of points that is implicitly closed: the last point connects
// back to the first, so the first point is never repeated at the end.
//
// Containment, area and centroid queries delegate to github.com/paulmach/orb's
// planar package, which works on explicitly closed rings. [Polygon.Ring]
// performs that conversion.
//
// # Splines
//
// [CatmullRom] samples a centripetal Catmull-Rom spline through a point list and
// [Resample] redistributes points uniformly by arc length. [Curve] exposes an
// arc-length parametrization of a closed contour, which the star deformer uses
// to place wings at equal spacing.
//
// # Numerics
//
// All divisions by distances or radius sums clamp their denominator to at least
// [Epsilon]. Helpers such as [Lerp], [Smoothstep] and [Clamp] mirror the
// interpolation vocabulary used throughout the engine.
package geom
