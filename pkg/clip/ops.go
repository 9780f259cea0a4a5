package clip

import (
	"math"

	clipper "github.com/ctessum/go.clipper"

	"github.com/matzehuels/blobgeom/pkg/errors"
)

// FillRule selects how winding numbers map to inside and outside.
type FillRule int

const (
	EvenOdd FillRule = iota
	NonZero
	Positive
	Negative
)

// JoinType selects how offset corners are joined.
type JoinType int

const (
	JoinSquare JoinType = iota
	JoinRound
	JoinMiter
)

// EndType selects how offset path ends are treated.
type EndType int

const (
	EndClosedPolygon EndType = iota
	EndClosedLine
	EndOpenButt
	EndOpenSquare
	EndOpenRound
)

// Point is an integer coordinate.
type Point struct{ X, Y int64 }

// Path is an implicitly closed integer polygon.
type Path []Point

// Paths is a set of integer polygons.
type Paths []Path

// BooleanOps is the integer polygon capability the compositor relies on.
type BooleanOps interface {
	Union(paths Paths, rule FillRule) (Paths, error)
	Offset(paths Paths, delta float64, join JoinType, end EndType) Paths
	Simplify(paths Paths, rule FillRule) (Paths, error)
	Orientation(path Path) bool
}

// Clipper implements BooleanOps with go.clipper.
type Clipper struct{}

var _ BooleanOps = Clipper{}

// Union merges all paths into non-overlapping outlines.
func (Clipper) Union(paths Paths, rule FillRule) (Paths, error) {
	c := clipper.NewClipper(clipper.IoNone)
	c.AddPaths(toClipper(paths), clipper.PtSubject, true)
	out, ok := c.Execute1(clipper.CtUnion, fillType(rule), fillType(rule))
	if !ok {
		return nil, errors.New(errors.ErrCodeInternal, "union of %d paths failed", len(paths))
	}
	return fromClipper(out), nil
}

// Offset grows (delta > 0) or shrinks (delta < 0) the paths.
func (Clipper) Offset(paths Paths, delta float64, join JoinType, end EndType) Paths {
	co := clipper.NewClipperOffset()
	co.AddPaths(toClipper(paths), joinType(join), endType(end))
	return fromClipper(co.Execute(delta))
}

// Simplify removes self-intersections by unioning the paths with themselves.
func (c Clipper) Simplify(paths Paths, rule FillRule) (Paths, error) {
	return c.Union(paths, rule)
}

// Orientation reports whether path has non-negative signed area.
func (Clipper) Orientation(path Path) bool {
	return clipper.Orientation(toClipperPath(path))
}

func fillType(r FillRule) clipper.PolyFillType {
	switch r {
	case NonZero:
		return clipper.PftNonZero
	case Positive:
		return clipper.PftPositive
	case Negative:
		return clipper.PftNegative
	}
	return clipper.PftEvenOdd
}

func joinType(j JoinType) clipper.JoinType {
	switch j {
	case JoinRound:
		return clipper.JtRound
	case JoinMiter:
		return clipper.JtMiter
	}
	return clipper.JtSquare
}

func endType(e EndType) clipper.EndType {
	switch e {
	case EndClosedLine:
		return clipper.EtClosedLine
	case EndOpenButt:
		return clipper.EtOpenButt
	case EndOpenSquare:
		return clipper.EtOpenSquare
	case EndOpenRound:
		return clipper.EtOpenRound
	}
	return clipper.EtClosedPolygon
}

func toClipperPath(p Path) clipper.Path {
	out := make(clipper.Path, len(p))
	for i, v := range p {
		out[i] = &clipper.IntPoint{X: clipper.CInt(v.X), Y: clipper.CInt(v.Y)}
	}
	return out
}

func toClipper(paths Paths) clipper.Paths {
	out := make(clipper.Paths, 0, len(paths))
	for _, p := range paths {
		out = append(out, toClipperPath(p))
	}
	return out
}

func fromClipper(paths clipper.Paths) Paths {
	out := make(Paths, 0, len(paths))
	for _, p := range paths {
		q := make(Path, len(p))
		for i, v := range p {
			q[i] = Point{X: int64(v.X), Y: int64(v.Y)}
		}
		out = append(out, q)
	}
	return out
}

func round(v float64) int64 { return int64(math.Round(v)) }
