package cluster

import (
	"github.com/matzehuels/blobgeom/pkg/connector"
	"github.com/matzehuels/blobgeom/pkg/distance"
	"github.com/matzehuels/blobgeom/pkg/errors"
	"github.com/matzehuels/blobgeom/pkg/geom"
	"github.com/matzehuels/blobgeom/pkg/shape"
)

// Result is the outcome of grouping a shape set.
type Result struct {
	// Representatives maps every shape to the seed of its cluster.
	Representatives map[shape.ID]shape.ID
	// Paths holds, per representative, the circle outlines and connector
	// polygons whose union forms the cluster outline.
	Paths map[shape.ID][]geom.Polygon
	// Order lists representatives in discovery order.
	Order []shape.ID
	// Gravitating lists pairs that attract without merging.
	Gravitating []shape.Connection
	// Skeleton lists every merged and gravitating pair once.
	Skeleton []shape.Connection

	RadiusExtend    float64
	MaxRadiusExtend float64
	Bridges         int // metaball polygons emitted
	Bumps           int // gravitation polygons emitted

	members map[shape.ID][]shape.ID
}

// Clusters returns the member IDs of each cluster in discovery order. Members
// are listed in traversal order, starting with the representative.
func (r *Result) Clusters() [][]shape.ID {
	out := make([][]shape.ID, 0, len(r.Order))
	for _, rep := range r.Order {
		out = append(out, r.members[rep])
	}
	return out
}

// Groups returns the polygon lists of each cluster in discovery order.
func (r *Result) Groups() [][]geom.Polygon {
	out := make([][]geom.Polygon, 0, len(r.Order))
	for _, rep := range r.Order {
		out = append(out, r.Paths[rep])
	}
	return out
}

type pair struct{ a, b int }

func key(i, j int) pair {
	if i > j {
		i, j = j, i
	}
	return pair{i, j}
}

// Group clusters shapes and builds each cluster's polygon list. Shapes must
// be valid and no two distinct shapes may share a center.
func Group(shapes []shape.Shape, p Params) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	for _, s := range shapes {
		if err := s.Validate(); err != nil {
			return nil, err
		}
	}

	raw := distance.New(shapes, func(a, b shape.Shape) float64 {
		return geom.Dist(a.Center, b.Center)
	})
	for i := range shapes {
		if e, ok := raw.NN(i); ok && e.Distance < geom.Epsilon {
			return nil, errors.Wrap(errors.ErrCodeInvalidShape,
				&errors.CoincidentError{A: uint32(shapes[i].ID), B: uint32(shapes[e.Ref].ID)},
				"cannot group shapes")
		}
	}

	biggest := MaxRadiusExtend(RelativeDistances(raw), p.ConsiderConnectedLowerBound)
	extend := RadiusExtend(biggest, p.Closeness)
	g := &grouper{
		shapes:  shapes,
		raw:     raw,
		params:  p,
		extend:  extend,
		biggest: biggest,
		visited: make([]bool, len(shapes)),
		handled: make(map[pair]bool),
		res: &Result{
			Representatives: make(map[shape.ID]shape.ID, len(shapes)),
			Paths:           make(map[shape.ID][]geom.Polygon),
			RadiusExtend:    extend,
			MaxRadiusExtend: biggest,
			members:         make(map[shape.ID][]shape.ID),
		},
	}
	for seed := range shapes {
		if !g.visited[seed] {
			g.traverse(seed)
		}
	}
	g.attachBumps()
	return g.res, nil
}

type grouper struct {
	shapes  []shape.Shape
	raw     *distance.Matrix[shape.Shape]
	params  Params
	extend  float64
	biggest float64
	visited []bool
	handled map[pair]bool
	pending []pending
	res     *Result
}

type pending struct {
	a, b  int
	ratio float64
}

func (g *grouper) traverse(seed int) {
	rep := g.shapes[seed].ID
	g.visited[seed] = true
	g.res.Order = append(g.res.Order, rep)

	queue := []int{seed}
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		a := g.shapes[i]
		g.res.Representatives[a.ID] = rep
		g.res.members[rep] = append(g.res.members[rep], a.ID)
		g.res.Paths[rep] = append(g.res.Paths[rep], geom.CirclePolygon(a.Center, a.Radius, geom.DefaultCircleStep))

		neighbors, _ := g.raw.KNN(i, 0)
		for _, e := range neighbors {
			j := e.Ref
			b := g.shapes[j]
			sum := a.Radius + b.Radius
			ratio := g.extend * geom.SafeDiv(sum, e.Distance)
			maxRatio := g.biggest * geom.SafeDiv(sum, e.Distance)
			overlap := geom.InsideCircle(a.Center, a.Radius, b.Center) || geom.InsideCircle(b.Center, b.Radius, a.Center)

			switch {
			case overlap || ratio >= g.params.ConsiderConnectedLowerBound:
				if !g.visited[j] {
					g.visited[j] = true
					queue = append(queue, j)
				}
				if g.handled[key(i, j)] {
					continue
				}
				g.handled[key(i, j)] = true
				g.res.Skeleton = append(g.res.Skeleton, shape.Connection{
					From: a.ID, To: b.ID, DistanceRatio: ratio, Merged: true,
				})
				if overlap {
					continue
				}
				ease := geom.Smoothstep(g.params.GravitationForceVisibleLowerBound, 1, ratio)
				if poly := connector.Metaball(a.Radius, b.Radius, a.Center, b.Center, g.params.InwardShift, ease); len(poly) > 0 {
					g.res.Paths[rep] = append(g.res.Paths[rep], poly)
					g.res.Bridges++
				}
			case ratio >= g.params.GravitationForceVisibleLowerBound && maxRatio >= g.params.ConsiderConnectedLowerBound:
				if g.handled[key(i, j)] {
					continue
				}
				g.handled[key(i, j)] = true
				g.pending = append(g.pending, pending{a: i, b: j, ratio: ratio})
			}
		}
	}
}

// attachBumps emits a gravitation polygon on both sides of every deferred
// pair, now that all representatives are known.
func (g *grouper) attachBumps() {
	for _, pd := range g.pending {
		a, b := g.shapes[pd.a], g.shapes[pd.b]
		conn := shape.Connection{From: a.ID, To: b.ID, DistanceRatio: pd.ratio}
		g.res.Gravitating = append(g.res.Gravitating, conn)
		g.res.Skeleton = append(g.res.Skeleton, conn)

		ease := geom.Smoothstep(g.params.GravitationForceVisibleLowerBound, g.params.ConsiderConnectedLowerBound, pd.ratio)
		for _, side := range [2][2]shape.Shape{{a, b}, {b, a}} {
			from, to := side[0], side[1]
			poly := connector.Gravitation(from.Center, from.Radius, to.Center, to.Radius, ease, g.params.InwardShift)
			if len(poly) == 0 {
				continue
			}
			rep := g.res.Representatives[from.ID]
			g.res.Paths[rep] = append(g.res.Paths[rep], poly)
			g.res.Bumps++
		}
	}
}
