package field

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/blobgeom/pkg/geom"
)

// edge identifies a grid edge: horizontal (dir 0) from (i, j) to (i+1, j) or
// vertical (dir 1) from (i, j) to (i, j+1).
type edge struct{ i, j, dir int }

const (
	bottom = iota
	right
	top
	left
)

func cellEdge(i, j, side int) edge {
	switch side {
	case bottom:
		return edge{i, j, 0}
	case right:
		return edge{i + 1, j, 1}
	case top:
		return edge{i, j + 1, 0}
	}
	return edge{i, j, 1}
}

// segments lists the crossed side pairs per corner case. Bits are set for
// inside corners: 1 bottom-left, 2 bottom-right, 4 top-right, 8 top-left.
// Saddles (5, 10) are resolved separately.
var segments = [16][][2]int{
	1:  {{left, bottom}},
	2:  {{bottom, right}},
	3:  {{left, right}},
	4:  {{right, top}},
	6:  {{bottom, top}},
	7:  {{left, top}},
	8:  {{top, left}},
	9:  {{bottom, top}},
	11: {{right, top}},
	12: {{left, right}},
	13: {{bottom, right}},
	14: {{left, bottom}},
}

func saddle(c int, centerInside bool) [][2]int {
	if (c == 5) == centerInside {
		return [][2]int{{bottom, right}, {top, left}}
	}
	return [][2]int{{left, bottom}, {right, top}}
}

// Contours runs marching squares over the grid padded with a ring of zeros,
// so every outline closes.
func (g *Grid) Contours(threshold float64) []geom.Polygon {
	threshold = max(threshold, minThreshold)
	points := make(map[edge]r2.Vec)
	var segs [][2]edge

	cross := func(e edge) {
		if _, ok := points[e]; ok {
			return
		}
		a, b := g.point(e.i, e.j), g.point(e.i+1-e.dir, e.j+e.dir)
		va, vb := g.at(e.i, e.j), g.at(e.i+1-e.dir, e.j+e.dir)
		t := 0.5
		if d := vb - va; d != 0 {
			t = geom.Clamp((threshold-va)/d, 0, 1)
		}
		points[e] = geom.LerpPoints(a, b, t)
	}

	for j := -1; j < g.H; j++ {
		for i := -1; i < g.W; i++ {
			v := [4]float64{g.at(i, j), g.at(i+1, j), g.at(i+1, j+1), g.at(i, j+1)}
			c := 0
			for k, x := range v {
				if x >= threshold {
					c |= 1 << k
				}
			}
			pairs := segments[c]
			if c == 5 || c == 10 {
				pairs = saddle(c, (v[0]+v[1]+v[2]+v[3])/4 >= threshold)
			}
			for _, p := range pairs {
				a, b := cellEdge(i, j, p[0]), cellEdge(i, j, p[1])
				cross(a)
				cross(b)
				segs = append(segs, [2]edge{a, b})
			}
		}
	}
	return outers(stitch(segs, points))
}

// stitch joins segments sharing an edge crossing into closed rings.
func stitch(segs [][2]edge, points map[edge]r2.Vec) []geom.Polygon {
	adj := make(map[edge][]int, len(points))
	for k, s := range segs {
		adj[s[0]] = append(adj[s[0]], k)
		adj[s[1]] = append(adj[s[1]], k)
	}
	used := make([]bool, len(segs))
	var rings []geom.Polygon
	for k := range segs {
		if used[k] {
			continue
		}
		used[k] = true
		start, cur := segs[k][0], segs[k][1]
		ring := geom.Polygon{points[start]}
		for cur != start {
			ring = append(ring, points[cur])
			next := -1
			for _, n := range adj[cur] {
				if !used[n] {
					next = n
					break
				}
			}
			if next < 0 {
				break
			}
			used[next] = true
			if segs[next][0] == cur {
				cur = segs[next][1]
			} else {
				cur = segs[next][0]
			}
		}
		if len(ring) >= 3 {
			rings = append(rings, ring)
		}
	}
	return rings
}

// outers keeps rings enclosed by an even number of other rings, wound
// counter-clockwise.
func outers(rings []geom.Polygon) []geom.Polygon {
	var out []geom.Polygon
	for k, r := range rings {
		depth := 0
		for m, o := range rings {
			if m != k && o.Contains(r[0]) {
				depth++
			}
		}
		if depth%2 == 0 {
			out = append(out, r.CCW())
		}
	}
	return out
}
