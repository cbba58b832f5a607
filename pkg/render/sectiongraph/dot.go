// Package sectiongraph visualizes the section reference structure of a
// treadling as a directed graph: one node per section, one edge per
// reference, labeled with its repeat count. Useful for untangling deeply
// nested drafts before weaving them.
package sectiongraph

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/goccy/go-graphviz"

	"github.com/weftworks/liftplan/pkg/draft"
	"github.com/weftworks/liftplan/pkg/render"
)

// ToDOT converts the sections and main sequence to Graphviz DOT format.
// The main sequence renders as a distinct entry node; sections referenced
// from main get an edge from it. Node and edge order is sorted by name so
// output is deterministic.
func ToDOT(main draft.MainSequence, sections draft.Sections) string {
	var buf bytes.Buffer
	buf.WriteString("digraph treadling {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	buf.WriteString("  \"(main)\" [style=\"rounded,filled,bold\", fillcolor=lightyellow];\n")
	for _, name := range slices.Sorted(maps.Keys(sections)) {
		picks := 0
		for _, e := range sections[name] {
			if e.Kind == draft.KindPick {
				picks++
			}
		}
		fmt.Fprintf(&buf, "  %q [label=\"%s\\n%d picks\"];\n", name, name, picks)
	}

	buf.WriteString("\n")
	for _, ref := range main {
		fmt.Fprintf(&buf, "  \"(main)\" -> %q [label=\"x%d\"];\n", ref.Name, ref.Repeat)
	}
	for _, name := range slices.Sorted(maps.Keys(sections)) {
		for _, e := range sections[name] {
			if e.Kind == draft.KindRef {
				fmt.Fprintf(&buf, "  %q -> %q [label=\"x%d\"];\n", name, e.Name, e.Repeat)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// The result can be converted further with [render.ToPDF] or [render.ToPNG].
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
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
	return buf.Bytes(), nil
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(dot string) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion at the given scale.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
