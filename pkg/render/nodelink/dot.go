package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/factoryflow/pkg/report"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds per-item flow, usage and the number of compacted
	// entities to node labels. When false, only the name and ID are shown.
	Detailed bool
}

// ToDOT converts an analysis report to Graphviz DOT format.
// The resulting DOT string can be rendered with [RenderSVG].
//
// Saturated nodes are filled black. Virtual containers added under
// inserters with nothing to drop onto are drawn dashed.
func ToDOT(r *report.Report, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	if r.Label != "" {
		fmt.Fprintf(&buf, "  label=%q;\n", r.Label)
		buf.WriteString("  labelloc=t;\n")
	}
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range r.Nodes {
		label := fmtLabel(n, opts.Detailed)
		attrs := fmtAttrs(n, label)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, n := range r.Nodes {
		for _, child := range n.Children {
			fmt.Fprintf(&buf, "  %q -> %q;\n", n.ID, child)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n report.Node, detailed bool) string {
	label := fmt.Sprintf("%s #%s", n.Name, n.ID)
	if !detailed {
		return label
	}

	var parts []string
	if n.Recipe != "" {
		parts = append(parts, "recipe: "+n.Recipe)
	}
	for _, it := range n.Flow {
		parts = append(parts, fmt.Sprintf("%s: %.2f/s", it.Name, it.Amount))
	}
	if n.Usage != nil {
		parts = append(parts, fmt.Sprintf("usage: %.0f%%", *n.Usage*100))
	}
	if len(n.Subsumed) > 0 {
		parts = append(parts, fmt.Sprintf("+%d compacted", len(n.Subsumed)))
	}
	if len(parts) == 0 {
		return label
	}
	return label + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(n report.Node, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch {
	case n.Bottleneck:
		attrs = append(attrs, "fillcolor=black", "fontcolor=white")
	case n.Virtual:
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
	case n.Kind == "assembler":
		attrs = append(attrs, "penwidth=2")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
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
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the SVG scales from its
// viewBox instead of Graphviz's point-based width and height.
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

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
