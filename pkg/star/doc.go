// Package star reshapes smooth contours into star shapes with rounded or
// spiky wings.
//
// [Deform] resamples the contour, walks it by arc length and pushes it along
// its outward normal following a per-wing profile: a valley at the start of
// each wing, two shoulders around the middle and the wing tip at the middle.
// Roundness trades sharp spikes (narrow shoulders, low shoulder height) for
// round lobes (wide shoulders close to tip height).
//
// An outer offset ratio of zero returns the contour untouched.
package star
