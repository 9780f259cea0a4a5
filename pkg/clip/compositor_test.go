package clip

import (
	"math"
	"testing"

	"github.com/matzehuels/blobgeom/pkg/geom"
)

func rect(x0, y0, x1, y1 float64) geom.Polygon {
	return geom.Polygon{geom.Pt(x0, y0), geom.Pt(x1, y0), geom.Pt(x1, y1), geom.Pt(x0, y1)}
}

func totalArea(ps []geom.Polygon) float64 {
	var a float64
	for _, p := range ps {
		a += p.Area()
	}
	return a
}

func TestUnion(t *testing.T) {
	c := NewCompositor()

	tests := []struct {
		name   string
		groups [][]geom.Polygon
		count  int
		area   float64
	}{
		{
			name:   "overlapping",
			groups: [][]geom.Polygon{{rect(0, 0, 10, 10), rect(5, 0, 15, 10)}},
			count:  1,
			area:   150,
		},
		{
			name:   "across groups",
			groups: [][]geom.Polygon{{rect(0, 0, 10, 10)}, {rect(5, 0, 15, 10)}},
			count:  1,
			area:   150,
		},
		{
			name:   "disjoint",
			groups: [][]geom.Polygon{{rect(0, 0, 10, 10)}, {rect(20, 0, 30, 10)}},
			count:  2,
			area:   200,
		},
		{
			name: "mixed winding",
			groups: [][]geom.Polygon{{
				rect(0, 0, 10, 10),
				{geom.Pt(5, 0), geom.Pt(5, 10), geom.Pt(15, 10), geom.Pt(15, 0)},
			}},
			count: 1,
			area:  150,
		},
		{
			name:   "empty",
			groups: nil,
			count:  0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Union(tt.groups)
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != tt.count {
				t.Fatalf("contours = %d, want %d", len(got), tt.count)
			}
			if a := totalArea(got); math.Abs(a-tt.area) > 1e-6 {
				t.Errorf("area = %v, want %v", a, tt.area)
			}
		})
	}
}

func TestUnionDropsHoles(t *testing.T) {
	frame := []geom.Polygon{
		rect(0, 0, 30, 10),
		rect(0, 20, 30, 30),
		rect(0, 0, 10, 30),
		rect(20, 0, 30, 30),
	}
	got, err := NewCompositor().Union([][]geom.Polygon{frame})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("contours = %d, want the outer ring only", len(got))
	}
	if a := got[0].Area(); math.Abs(a-900) > 1e-6 {
		t.Errorf("outer area = %v, want 900", a)
	}
}

func TestOffset(t *testing.T) {
	c := NewCompositor()
	square := []geom.Polygon{rect(0, 0, 40, 40)}

	shrunk := c.Offset(square, -5)
	if len(shrunk) != 1 {
		t.Fatalf("shrunk contours = %d, want 1", len(shrunk))
	}
	if a := shrunk[0].Area(); math.Abs(a-900) > 1e-3 {
		t.Errorf("shrunk area = %v, want 900", a)
	}

	if got := c.Offset(square, 0); len(got) != 1 || got[0].Area() != 1600 {
		t.Error("zero offset should return input unchanged")
	}
	if got := c.Offset(square, -25); len(got) != 0 {
		t.Errorf("fully dissolved square left %d contours", len(got))
	}
}

func TestClean(t *testing.T) {
	bowtie := geom.Polygon{geom.Pt(0, 0), geom.Pt(10, 10), geom.Pt(10, 0), geom.Pt(0, 10)}
	got, err := NewCompositor().Clean([]geom.Polygon{bowtie})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("contours = %d, want two triangles", len(got))
	}
	if a := totalArea(got); math.Abs(a-50) > 1e-6 {
		t.Errorf("area = %v, want 50", a)
	}
}

type countingOps struct {
	Clipper
	unions int
}

func (o *countingOps) Union(paths Paths, rule FillRule) (Paths, error) {
	o.unions++
	return o.Clipper.Union(paths, rule)
}

func TestCompositorUsesOps(t *testing.T) {
	ops := &countingOps{}
	c := &Compositor{Ops: ops, Scale: 100}
	got, err := c.Union([][]geom.Polygon{{rect(0, 0, 1.234, 1)}})
	if err != nil {
		t.Fatal(err)
	}
	if ops.unions != 1 {
		t.Errorf("unions = %d, want 1", ops.unions)
	}
	if b := got[0].Bounds(); math.Abs(b.Max.X-1.23) > 1e-9 {
		t.Errorf("scale 100 should round to two decimals, max x = %v", b.Max.X)
	}
}
