package skeleton

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/blobgeom/pkg/geom"
	"github.com/matzehuels/blobgeom/pkg/shape"
)

func TestToDOT(t *testing.T) {
	conns := []shape.Connection{
		{From: 1, To: 2, DistanceRatio: 0.9, Merged: true},
		{From: 2, To: 3, DistanceRatio: 0.6},
	}
	clusters := [][]shape.ID{{1, 2}, {3}, {}}

	dot := ToDOT(conns, clusters, Options{Detailed: true})

	for _, want := range []string{
		"graph G {",
		"subgraph cluster_0",
		"subgraph cluster_1",
		`"s1" -- "s2" [style=solid, penwidth=2, label="0.90"]`,
		`"s2" -- "s3" [style=dashed, color=grey40, label="0.60"]`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "cluster_2") {
		t.Error("empty clusters should be skipped")
	}
	if strings.Contains(dot, "neato") {
		t.Error("layout should not be pinned without shapes")
	}
}

func TestToDOTPinned(t *testing.T) {
	shapes := []shape.Shape{{ID: 1, Center: geom.Pt(10, 20), Radius: 5}}
	dot := ToDOT(nil, [][]shape.ID{{1}}, Options{Shapes: shapes})

	if !strings.Contains(dot, "layout=neato") {
		t.Error("pinned skeleton should use neato")
	}
	if !strings.Contains(dot, `pos="10.00,20.00!"`) {
		t.Errorf("missing pinned position:\n%s", dot)
	}
}

func TestRenderDOT(t *testing.T) {
	data, err := Render(context.Background(), "graph G {}\n", FormatDOT)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "graph G {}\n" {
		t.Errorf("Render(dot) = %q", data)
	}
	if _, err := Render(context.Background(), "graph G {}", "png"); err == nil {
		t.Error("unsupported format should fail")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="116pt" viewBox="0.00 0.00 62.00 116.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 62.00 116.00"`) {
		t.Errorf("viewBox not normalized: %s", out)
	}
	if !strings.HasSuffix(out, "<g/></svg>") {
		t.Errorf("body changed: %s", out)
	}

	plain := []byte("<svg><g/></svg>")
	if string(normalizeViewBox(plain)) != string(plain) {
		t.Error("svg without viewBox should be unchanged")
	}
}
