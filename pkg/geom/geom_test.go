package geom

import (
	"encoding/json"
	"math"
	"testing"
)

func TestSmoothstep(t *testing.T) {
	tests := []struct {
		e0, e1, x float64
		want      float64
	}{
		{0, 1, -1, 0},
		{0, 1, 0, 0},
		{0, 1, 0.5, 0.5},
		{0, 1, 1, 1},
		{0, 1, 2, 1},
		{1, 0, 0, 1}, // reversed edges fall
		{0.5, 0.5, 0.4, 0},
		{0.5, 0.5, 0.6, 1},
	}
	for _, tt := range tests {
		if got := Smoothstep(tt.e0, tt.e1, tt.x); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Smoothstep(%v, %v, %v) = %v, want %v", tt.e0, tt.e1, tt.x, got, tt.want)
		}
	}
}

func TestCirclePolygon(t *testing.T) {
	p := CirclePolygon(Pt(5, 5), 10, 0)
	if len(p) != 63 {
		t.Fatalf("len = %d, want 63", len(p))
	}
	for _, v := range p {
		if d := Dist(v, Pt(5, 5)); math.Abs(d-10) > 1e-9 {
			t.Fatalf("point %v at distance %v", v, d)
		}
	}
	if p.SignedArea() <= 0 {
		t.Error("circle should be counter-clockwise")
	}
	if a := p.Area(); math.Abs(a-math.Pi*100) > 2 {
		t.Errorf("Area = %v, want ~%v", a, math.Pi*100)
	}
}

func TestPolygonQueries(t *testing.T) {
	square := Polygon{Pt(0, 0), Pt(10, 0), Pt(10, 10), Pt(0, 10)}

	if !square.Contains(Pt(5, 5)) {
		t.Error("center should be inside")
	}
	if square.Contains(Pt(15, 5)) {
		t.Error("outside point reported inside")
	}
	if d := square.EdgeDistance(Pt(5, 2)); math.Abs(d-2) > 1e-9 {
		t.Errorf("EdgeDistance = %v, want 2", d)
	}
	c := square.Centroid()
	if math.Abs(c.X-5) > 1e-9 || math.Abs(c.Y-5) > 1e-9 {
		t.Errorf("Centroid = %v", c)
	}
	b := square.Bounds()
	if b.Min != Pt(0, 0) || b.Max != Pt(10, 10) {
		t.Errorf("Bounds = %v", b)
	}

	cw := Polygon{Pt(0, 0), Pt(0, 10), Pt(10, 10), Pt(10, 0)}
	if cw.SignedArea() >= 0 {
		t.Error("clockwise square should have negative signed area")
	}
	if cw.CCW().SignedArea() <= 0 {
		t.Error("CCW should reverse clockwise input")
	}
}

func TestRotateToRightmost(t *testing.T) {
	p := Polygon{Pt(0, 0), Pt(3, 1), Pt(1, 2)}
	r := p.RotateToRightmost()
	if r[0] != Pt(3, 1) || r[1] != Pt(1, 2) || r[2] != Pt(0, 0) {
		t.Errorf("RotateToRightmost = %v", r)
	}
}

func TestCatmullRomPassesNearControlPoints(t *testing.T) {
	circle := CirclePolygon(Pt(0, 0), 20, 2*math.Pi/100)
	out := CatmullRom(circle, 160, true)
	if len(out) != 160 {
		t.Fatalf("len = %d, want 160", len(out))
	}
	for _, v := range out {
		if d := Dist(v, Pt(0, 0)); math.Abs(d-20) > 0.05 {
			t.Fatalf("resampled point %v at radius %v", v, d)
		}
	}
}

func TestCatmullRomOpenKeepsEndpoints(t *testing.T) {
	pts := Polygon{Pt(0, 0), Pt(5, 5), Pt(10, 0)}
	out := CatmullRom(pts, 9, false)
	if Dist(out[0], pts[0]) > 1e-9 || Dist(out[len(out)-1], pts[2]) > 1e-9 {
		t.Errorf("endpoints moved: %v .. %v", out[0], out[len(out)-1])
	}
}

func TestCurve(t *testing.T) {
	square := Polygon{Pt(0, 0), Pt(10, 0), Pt(10, 10), Pt(0, 10)}
	c := NewCurve(square, true)
	if c.Length() != 40 {
		t.Fatalf("Length = %v, want 40", c.Length())
	}
	if p := c.At(0.125); Dist(p, Pt(5, 0)) > 1e-9 {
		t.Errorf("At(0.125) = %v", p)
	}
	if p := c.At(1.125); Dist(p, Pt(5, 0)) > 1e-9 {
		t.Errorf("closed curve should wrap, At(1.125) = %v", p)
	}
	n := c.Normal(0.125, 0.01)
	if Dist(n, Pt(0, -1)) > 1e-9 {
		t.Errorf("Normal on bottom edge = %v, want (0,-1)", n)
	}
}

func TestCurveDegenerate(t *testing.T) {
	c := NewCurve(Polygon{Pt(1, 1), Pt(1, 1), Pt(1, 1)}, true)
	if n := c.Normal(0.3, 0.01); n.X != 0 || n.Y != 0 {
		t.Errorf("degenerate curve normal = %v, want zero", n)
	}
}

func TestPolygonJSON(t *testing.T) {
	p := Polygon{Pt(1, 2), Pt(3, 4)}
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "[[1,2],[3,4]]" {
		t.Errorf("Marshal = %s", data)
	}
	var back Polygon
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if len(back) != 2 || back[1] != Pt(3, 4) {
		t.Errorf("Unmarshal = %v", back)
	}
}
