package fill

import (
	"context"
	"math"
	"math/rand/v2"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/blobgeom/pkg/errors"
	"github.com/matzehuels/blobgeom/pkg/geom"
)

const (
	DefaultMaxAttempts   = 200
	DefaultCircleSamples = 8
	DefaultDensity       = 0.2
	DefaultMaxTotal      = 100
)

// DefaultRadius is the decoration radius range.
var DefaultRadius = [2]float64{4, 8}

// Position is a decorative circle.
type Position struct {
	Center r2.Vec  `json:"center"`
	Radius float64 `json:"radius"`
}

// Sampler places non-overlapping circles inside a polygon.
type Sampler struct {
	Polygon       geom.Polygon
	RadiusBounds  [2]float64
	MaxAttempts   int
	CircleSamples int
	Rand          *rand.Rand

	bounds r2.Box
}

// NewSampler returns a sampler over poly with default budgets and a PCG
// generator seeded from seed.
func NewSampler(poly geom.Polygon, radius [2]float64, seed uint64) *Sampler {
	return &Sampler{
		Polygon:       poly,
		RadiusBounds:  radius,
		MaxAttempts:   DefaultMaxAttempts,
		CircleSamples: DefaultCircleSamples,
		Rand:          rand.New(rand.NewPCG(seed, seed^0xdeadbeef)),
		bounds:        poly.Bounds(),
	}
}

func (s *Sampler) between(lo, hi float64) float64 {
	return lo + s.Rand.Float64()*(hi-lo)
}

func (s *Sampler) candidate() Position {
	return Position{
		Center: r2.Vec{
			X: s.between(s.bounds.Min.X, s.bounds.Max.X),
			Y: s.between(s.bounds.Min.Y, s.bounds.Max.Y),
		},
		Radius: s.between(s.RadiusBounds[0], s.RadiusBounds[1]),
	}
}

// fits reports whether c lies fully inside the polygon.
func (s *Sampler) fits(c Position) bool {
	if !s.Polygon.Contains(c.Center) {
		return false
	}
	n := max(s.CircleSamples, 1)
	for k := range n {
		if !s.Polygon.Contains(geom.Polar(c.Center, 2*math.Pi*float64(k)/float64(n), c.Radius)) {
			return false
		}
	}
	return s.Polygon.EdgeDistance(c.Center) >= c.Radius
}

func disjoint(c Position, accepted []Position) bool {
	for _, a := range accepted {
		if geom.Dist(a.Center, c.Center) < a.Radius+c.Radius {
			return false
		}
	}
	return true
}

// Target returns the number of circles Fill aims for at the given density:
// density times area, rounded up, so any polygon with a fractional expected
// count gets at least one attempt target.
func (s *Sampler) Target(samplesPerUnitArea float64) int {
	n := samplesPerUnitArea * s.Polygon.Area()
	if n <= 0 {
		return 0
	}
	// Absorb float noise such as 0.0005*10000 = 5.000000000000001.
	return int(math.Ceil(n - 1e-9))
}

// Fill samples circles until the target count for samplesPerUnitArea is
// reached or the attempt budget is spent.
func (s *Sampler) Fill(samplesPerUnitArea float64) []Position {
	if len(s.Polygon) < 3 {
		return nil
	}
	if s.bounds == (r2.Box{}) {
		s.bounds = s.Polygon.Bounds()
	}
	if s.Rand == nil {
		s.Rand = rand.New(rand.NewPCG(0, 0xdeadbeef))
	}
	target := s.Target(samplesPerUnitArea)
	var out []Position
	for attempt := 0; attempt < s.MaxAttempts && len(out) < target; attempt++ {
		c := s.candidate()
		if s.fits(c) && disjoint(c, out) {
			out = append(out, c)
		}
	}
	return out
}

// Options configures FillAll.
type Options struct {
	Radius   [2]float64 `json:"radius" toml:"radius"`
	Density  float64    `json:"density" toml:"density"`
	MaxTotal int        `json:"max_total" toml:"max_total"`
	Seed     uint64     `json:"seed" toml:"seed"`
}

// SetDefaults fills zero-valued fields.
func (o *Options) SetDefaults() {
	if o.Radius == ([2]float64{}) {
		o.Radius = DefaultRadius
	}
	if o.Density == 0 {
		o.Density = DefaultDensity
	}
	if o.MaxTotal == 0 {
		o.MaxTotal = DefaultMaxTotal
	}
}

// Validate checks the radius range, density and cap.
func (o Options) Validate() error {
	if err := errors.ValidatePositive("fill radius", o.Radius[0]); err != nil {
		return err
	}
	if err := errors.ValidateRange("fill radius", o.Radius[0], o.Radius[1]); err != nil {
		return err
	}
	if err := errors.ValidateNonNegative("fill density", o.Density); err != nil {
		return err
	}
	if o.MaxTotal < 0 {
		return errors.New(errors.ErrCodeInvalidParams, "fill max_total must not be negative, got %d", o.MaxTotal)
	}
	return nil
}

// FillAll fills every polygon concurrently. Polygon i uses seed Seed+i, and
// each result is truncated to MaxTotal/len(polys) so the combined count stays
// under MaxTotal.
func FillAll(ctx context.Context, polys []geom.Polygon, opts Options) ([][]Position, error) {
	out := make([][]Position, len(polys))
	if len(polys) == 0 {
		return out, nil
	}
	per := opts.MaxTotal / len(polys)

	g, ctx := errgroup.WithContext(ctx)
	for i, p := range polys {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			got := NewSampler(p, opts.Radius, opts.Seed+uint64(i)).Fill(opts.Density)
			out[i] = got[:min(len(got), per)]
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
