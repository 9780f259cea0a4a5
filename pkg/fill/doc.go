// Package fill scatters small decorative circles inside contours.
//
// A [Sampler] draws candidate circles uniformly from the contour's bounding
// box and radius range, keeping a candidate when it lies fully inside the
// contour and clear of every circle kept before it. Sampling stops at the
// target count (density × area) or after a fixed attempt budget, whichever
// comes first, so small or thin contours are under-filled rather than
// searched exhaustively.
//
// Samplers are deterministic for a given seed. [FillAll] fills several
// contours concurrently, each with its own seeded generator and its own
// result slice, and caps the combined count.
package fill
