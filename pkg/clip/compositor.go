package clip

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/blobgeom/pkg/geom"
)

// DefaultScale converts floating coordinates to integers with four decimals.
const DefaultScale = 1e4

// Compositor unions and offsets float polygons through integer BooleanOps.
type Compositor struct {
	Ops   BooleanOps
	Scale float64
}

// NewCompositor returns a Compositor backed by Clipper at DefaultScale.
func NewCompositor() *Compositor {
	return &Compositor{Ops: Clipper{}, Scale: DefaultScale}
}

func (c *Compositor) scale() float64 {
	if c.Scale <= 0 {
		return DefaultScale
	}
	return c.Scale
}

func (c *Compositor) ops() BooleanOps {
	if c.Ops == nil {
		return Clipper{}
	}
	return c.Ops
}

// Union merges every polygon of every group into outer contours. Holes are
// dropped. An empty result means zero contours, not an error.
func (c *Compositor) Union(groups [][]geom.Polygon) ([]geom.Polygon, error) {
	var paths Paths
	for _, g := range groups {
		for _, p := range g {
			if len(p) < 3 {
				continue
			}
			paths = append(paths, c.toPath(p.CCW()))
		}
	}
	if len(paths) == 0 {
		return nil, nil
	}
	out, err := c.ops().Union(paths, NonZero)
	if err != nil {
		return nil, err
	}
	return c.outers(out), nil
}

// Offset moves every contour outward by delta (inward when negative) using
// square joins. A zero delta returns the contours unchanged.
func (c *Compositor) Offset(polys []geom.Polygon, delta float64) []geom.Polygon {
	if delta == 0 {
		return polys
	}
	paths := make(Paths, 0, len(polys))
	for _, p := range polys {
		if len(p) >= 3 {
			paths = append(paths, c.toPath(p.CCW()))
		}
	}
	if len(paths) == 0 {
		return nil
	}
	return c.outers(c.ops().Offset(paths, delta*c.scale(), JoinSquare, EndClosedPolygon))
}

// Clean resolves self-intersections, returning the outer contours covered by
// the non-zero fill of polys.
func (c *Compositor) Clean(polys []geom.Polygon) ([]geom.Polygon, error) {
	paths := make(Paths, 0, len(polys))
	for _, p := range polys {
		if len(p) >= 3 {
			paths = append(paths, c.toPath(p))
		}
	}
	if len(paths) == 0 {
		return nil, nil
	}
	out, err := c.ops().Simplify(paths, NonZero)
	if err != nil {
		return nil, err
	}
	return c.outers(out), nil
}

func (c *Compositor) outers(paths Paths) []geom.Polygon {
	out := make([]geom.Polygon, 0, len(paths))
	for _, p := range paths {
		if len(p) < 3 || !c.ops().Orientation(p) {
			continue
		}
		out = append(out, c.fromPath(p))
	}
	return out
}

func (c *Compositor) toPath(p geom.Polygon) Path {
	s := c.scale()
	out := make(Path, len(p))
	for i, v := range p {
		out[i] = Point{X: round(v.X * s), Y: round(v.Y * s)}
	}
	return out
}

func (c *Compositor) fromPath(p Path) geom.Polygon {
	s := c.scale()
	out := make(geom.Polygon, len(p))
	for i, v := range p {
		out[i] = r2.Vec{X: float64(v.X) / s, Y: float64(v.Y) / s}
	}
	return out
}
