// Package skeleton exports the connection graph of a clustered shape set as
// Graphviz DOT and renders it to SVG.
//
// Each cluster becomes a DOT subgraph. Merged pairs are drawn as solid edges
// and gravitating pairs as dashed edges. When shape positions are supplied
// the nodes are pinned to their centers and laid out with neato, so the
// skeleton overlays the blob outline it was derived from.
//
// The skeleton is a debugging aid: it shows why two shapes did or did not
// merge without rendering any geometry.
package skeleton

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/blobgeom/pkg/shape"
)

// Output formats.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
)

// Formats lists the supported output formats.
var Formats = []string{FormatDOT, FormatSVG}

// Options configures DOT generation.
type Options struct {
	// Detailed labels edges with their distance ratio.
	Detailed bool
	// Shapes pins nodes to shape centers when non-empty. Shapes missing
	// from the slice are left for the layout engine to place.
	Shapes []shape.Shape
}

// ToDOT converts connections and cluster memberships to an undirected DOT
// graph. Shapes that appear in clusters but in no connection are drawn as
// isolated nodes.
func ToDOT(conns []shape.Connection, clusters [][]shape.ID, opts Options) string {
	pos := make(map[shape.ID]shape.Shape, len(opts.Shapes))
	for _, s := range opts.Shapes {
		pos[s.ID] = s
	}

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	if len(pos) > 0 {
		buf.WriteString("  layout=neato;\n")
	}
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=14];\n")
	buf.WriteString("\n")

	for i, members := range clusters {
		if len(members) == 0 {
			continue
		}
		fmt.Fprintf(&buf, "  subgraph cluster_%d {\n", i)
		buf.WriteString("    style=\"rounded,dashed\";\n")
		fmt.Fprintf(&buf, "    label=%q;\n", fmt.Sprintf("cluster %d", members[0]))
		for _, id := range members {
			fmt.Fprintf(&buf, "    %s [%s];\n", nodeID(id), strings.Join(nodeAttrs(id, pos), ", "))
		}
		buf.WriteString("  }\n")
	}

	buf.WriteString("\n")
	for _, c := range conns {
		fmt.Fprintf(&buf, "  %s -- %s [%s];\n", nodeID(c.From), nodeID(c.To), strings.Join(edgeAttrs(c, opts.Detailed), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(id shape.ID) string {
	return strconv.Quote("s" + strconv.FormatUint(uint64(id), 10))
}

func nodeAttrs(id shape.ID, pos map[shape.ID]shape.Shape) []string {
	attrs := []string{fmt.Sprintf("label=%q", strconv.FormatUint(uint64(id), 10))}
	if s, ok := pos[id]; ok {
		attrs = append(attrs, fmt.Sprintf("pos=\"%.2f,%.2f!\"", s.Center.X, s.Center.Y))
	}
	return attrs
}

func edgeAttrs(c shape.Connection, detailed bool) []string {
	var attrs []string
	if c.Merged {
		attrs = append(attrs, "style=solid", "penwidth=2")
	} else {
		attrs = append(attrs, "style=dashed", "color=grey40")
	}
	if detailed {
		attrs = append(attrs, fmt.Sprintf("label=%q", strconv.FormatFloat(c.DistanceRatio, 'f', 2, 64)))
	}
	return attrs
}

// Render produces the skeleton in the requested format.
func Render(ctx context.Context, dot, format string) ([]byte, error) {
	switch format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		return RenderSVG(ctx, dot)
	}
	return nil, fmt.Errorf("unsupported skeleton format: %q", format)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the fixed-size svg header with one anchored at
// the origin so the output scales with its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(header))
}
