package connector

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/blobgeom/pkg/geom"
)

func near(a, b r2.Vec, tol float64) bool { return geom.Dist(a, b) <= tol }

func TestBoundsOuterTangents(t *testing.T) {
	b, ok := Bounds(10, 10, geom.Pt(0, 0), geom.Pt(30, 0), 1)
	if !ok {
		t.Fatal("Bounds reported degenerate input")
	}
	want := Tangents{
		P1: geom.Pt(0, 10),
		P2: geom.Pt(0, -10),
		P3: geom.Pt(30, 10),
		P4: geom.Pt(30, -10),
	}
	for i, pair := range [][2]r2.Vec{{b.P1, want.P1}, {b.P2, want.P2}, {b.P3, want.P3}, {b.P4, want.P4}} {
		if !near(pair[0], pair[1], 1e-9) {
			t.Errorf("P%d = %v, want %v", i+1, pair[0], pair[1])
		}
	}
}

func TestBoundsDegenerate(t *testing.T) {
	tests := []struct {
		name   string
		r1, r2 float64
		c2     r2.Vec
	}{
		{"coincident", 10, 10, geom.Pt(0, 0)},
		{"contained", 10, 2, geom.Pt(5, 0)},
		{"internally tangent", 10, 5, geom.Pt(5, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := Bounds(tt.r1, tt.r2, geom.Pt(0, 0), tt.c2, 0.5); ok {
				t.Error("Bounds accepted degenerate input")
			}
			if p := Metaball(tt.r1, tt.r2, geom.Pt(0, 0), tt.c2, 0.5, 1); len(p) != 0 {
				t.Errorf("Metaball = %d points, want empty", len(p))
			}
			if p := Gravitation(geom.Pt(0, 0), tt.r1, tt.c2, tt.r2, 1, 0.5); len(p) != 0 {
				t.Errorf("Gravitation = %d points, want empty", len(p))
			}
		})
	}
}

func TestMetaballWaist(t *testing.T) {
	c1, c2 := geom.Pt(0, 0), geom.Pt(30, 0)

	full := Metaball(10, 10, c1, c2, 0.5, 1)
	if len(full) != 2*EdgeSamples {
		t.Fatalf("len = %d, want %d", len(full), 2*EdgeSamples)
	}
	if !full.Contains(geom.Pt(15, 0)) {
		t.Error("bridge should cover the gap center")
	}
	// attachment points sit at 45° on both circles, so the waist reaches ~7.07
	if !full.Contains(geom.Pt(15, 6.5)) {
		t.Error("full ease bridge should be wide at the waist")
	}

	pinched := Metaball(10, 10, c1, c2, 0.5, 0)
	if pinched.Contains(geom.Pt(15, 3)) {
		t.Error("zero ease bridge should pinch at the waist")
	}
}

func TestMidpointWeighted(t *testing.T) {
	m := Midpoint(geom.Pt(0, 0), 20, geom.Pt(50, 0), 10)
	// gap runs from x=20 to x=40
	if !near(m, geom.Pt(30, 0), 1e-9) {
		t.Errorf("Midpoint = %v, want (30,0)", m)
	}
}

func TestGravitationTip(t *testing.T) {
	c1, c2 := geom.Pt(0, 0), geom.Pt(50, 0)

	tests := []struct {
		strength float64
		tipX     float64
	}{
		{0, 10},
		{0.5, 17.5},
		{1, 25},
	}
	for _, tt := range tests {
		p := Gravitation(c1, 10, c2, 10, tt.strength, 0.5)
		if len(p) == 0 {
			t.Fatalf("strength %v: empty polygon", tt.strength)
		}
		maxX := math.Inf(-1)
		for _, v := range p {
			maxX = max(maxX, v.X)
		}
		if math.Abs(maxX-tt.tipX) > 0.5 {
			t.Errorf("strength %v: tip x = %v, want ~%v", tt.strength, maxX, tt.tipX)
		}
		for _, v := range p {
			if v.X < -geom.Epsilon {
				t.Errorf("strength %v: bump extends behind the circle center: %v", tt.strength, v)
				break
			}
		}
	}
}
