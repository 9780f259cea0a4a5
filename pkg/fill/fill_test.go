package fill

import (
	"context"
	"testing"

	"github.com/matzehuels/blobgeom/pkg/geom"
)

func assertValid(t *testing.T, poly geom.Polygon, ps []Position) {
	t.Helper()
	for i, p := range ps {
		if !poly.Contains(p.Center) {
			t.Errorf("position %d center %v outside polygon", i, p.Center)
		}
		if d := poly.EdgeDistance(p.Center); d < p.Radius {
			t.Errorf("position %d pokes out: edge distance %v < radius %v", i, d, p.Radius)
		}
		for j := range i {
			q := ps[j]
			if geom.Dist(p.Center, q.Center) < p.Radius+q.Radius {
				t.Errorf("positions %d and %d overlap", j, i)
			}
		}
	}
}

func TestFillRespectsBounds(t *testing.T) {
	polys := map[string]geom.Polygon{
		"circle": geom.CirclePolygon(geom.Pt(0, 0), 80, 0.05),
		"square": {geom.Pt(0, 0), geom.Pt(100, 0), geom.Pt(100, 100), geom.Pt(0, 100)},
		"l-shape": {
			geom.Pt(0, 0), geom.Pt(120, 0), geom.Pt(120, 30),
			geom.Pt(30, 30), geom.Pt(30, 120), geom.Pt(0, 120),
		},
	}
	for name, poly := range polys {
		t.Run(name, func(t *testing.T) {
			s := NewSampler(poly, DefaultRadius, 42)
			got := s.Fill(DefaultDensity)
			if len(got) == 0 {
				t.Fatal("no positions accepted")
			}
			assertValid(t, poly, got)
		})
	}
}

func TestFillStopsAtTarget(t *testing.T) {
	square := geom.Polygon{geom.Pt(0, 0), geom.Pt(100, 0), geom.Pt(100, 100), geom.Pt(0, 100)}
	tests := []struct {
		density float64
		want    int
	}{
		{0.0005, 5},  // exactly 5
		{0.00025, 3}, // 2.5 rounds up
		{0.00005, 1}, // 0.5 still places one
		{0, 0},
	}
	for _, tt := range tests {
		s := NewSampler(square, [2]float64{1, 2}, 1)
		if got := s.Target(tt.density); got != tt.want {
			t.Errorf("Target(%v) = %d, want %d", tt.density, got, tt.want)
		}
		if got := s.Fill(tt.density); len(got) != tt.want {
			t.Errorf("Fill(%v) placed %d, want %d", tt.density, len(got), tt.want)
		}
	}
}

func TestFillUnderfillsTinyPolygon(t *testing.T) {
	tiny := geom.CirclePolygon(geom.Pt(0, 0), 5, 0.1)
	got := NewSampler(tiny, DefaultRadius, 3).Fill(10)
	if len(got) > 1 {
		t.Errorf("radius 5 circle held %d decorations of radius >= 4", len(got))
	}
	assertValid(t, tiny, got)
}

func TestFillDeterministic(t *testing.T) {
	poly := geom.CirclePolygon(geom.Pt(0, 0), 60, 0.05)
	a := NewSampler(poly, DefaultRadius, 9).Fill(DefaultDensity)
	b := NewSampler(poly, DefaultRadius, 9).Fill(DefaultDensity)
	if len(a) != len(b) {
		t.Fatalf("runs differ in length: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("position %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestFillAll(t *testing.T) {
	polys := []geom.Polygon{
		geom.CirclePolygon(geom.Pt(0, 0), 80, 0.05),
		geom.CirclePolygon(geom.Pt(300, 0), 80, 0.05),
		geom.CirclePolygon(geom.Pt(600, 0), 80, 0.05),
	}
	opts := Options{MaxTotal: 10}
	opts.SetDefaults()
	got, err := FillAll(context.Background(), polys, opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("groups = %d, want 3", len(got))
	}
	total := 0
	for i, ps := range got {
		if len(ps) > 3 {
			t.Errorf("polygon %d got %d, want at most 10/3", i, len(ps))
		}
		assertValid(t, polys[i], ps)
		total += len(ps)
	}
	if total > 10 {
		t.Errorf("total = %d exceeds cap", total)
	}
}

func TestFillAllCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	opts := Options{}
	opts.SetDefaults()
	_, err := FillAll(ctx, []geom.Polygon{geom.CirclePolygon(geom.Pt(0, 0), 50, 0)}, opts)
	if err == nil {
		t.Error("expected context error")
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"defaults", Options{Radius: DefaultRadius, Density: 0.2, MaxTotal: 100}, false},
		{"zero radius", Options{Radius: [2]float64{0, 3}, Density: 0.2}, true},
		{"inverted radius", Options{Radius: [2]float64{8, 4}, Density: 0.2}, true},
		{"negative density", Options{Radius: DefaultRadius, Density: -1}, true},
		{"negative cap", Options{Radius: DefaultRadius, MaxTotal: -1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.opts.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
