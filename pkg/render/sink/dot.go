package sink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/parsets/pkg/parsets"
)

// DOTOptions configures [ToDOT].
type DOTOptions struct {
	// Detailed adds the node share and both ratio ranges to every label.
	Detailed bool
	// MaxDepth stops the export below this depth; zero exports everything.
	MaxDepth int
}

// ToDOT converts the partition tree of m to Graphviz DOT. Nodes are ranked
// left to right by depth, and edge width follows the child's share of all
// records.
func ToDOT(m *parsets.Model, opts DOTOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph parsets {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.15,0.08\"];\n")
	buf.WriteString("  edge [arrowhead=none, color=\"#4e79a7\"];\n")
	buf.WriteString("\n")

	ids := make(map[*parsets.Node]string)
	m.Tree.Walk(func(n *parsets.Node) bool {
		if opts.MaxDepth > 0 && n.Depth > opts.MaxDepth {
			return true
		}
		id := "n" + strconv.Itoa(len(ids))
		ids[n] = id
		fmt.Fprintf(&buf, "  %s [%s];\n", id, strings.Join(nodeAttrs(n, opts.Detailed), ", "))
		return true
	})

	buf.WriteString("\n")
	m.Tree.Walk(func(n *parsets.Node) bool {
		from, ok := ids[n]
		if !ok {
			return true
		}
		for _, c := range n.Children {
			to, ok := ids[c]
			if !ok {
				continue
			}
			fmt.Fprintf(&buf, "  %s -> %s [penwidth=%.2f];\n", from, to, penWidth(c.Ratio()))
		}
		return true
	})

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n *parsets.Node, detailed bool) []string {
	name := "all"
	if s := n.Segment(); s != nil {
		name = s.Label()
	}
	label := fmt.Sprintf("%s\n%d", name, n.Count())
	if detailed && !n.IsRoot() {
		prev, next := n.RatioRangeInPreviousAxisSegment(), n.RatioRangeInNextAxisSegment()
		label += fmt.Sprintf("\nshare: %.3f\nprev: [%.3f, %.3f)\nnext: [%.3f, %.3f)",
			n.Ratio(), prev.Start, prev.End, next.Start, next.End)
	}

	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch {
	case n.IsRoot():
		attrs = append(attrs, "fillcolor=\"#eeeeee\"")
	case n.Segment().Merged:
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
	}
	return attrs
}

func penWidth(ratio float64) float64 {
	return 1 + 9*ratio
}

// RenderTreeSVG renders DOT to SVG using Graphviz.
// The result can be passed on to the rsvg converters in pkg/render.
func RenderTreeSVG(ctx context.Context, dot string) ([]byte, error) {
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

// normalizeViewBox replaces Graphviz's point-based root element with one
// whose viewBox starts at the origin and whose size matches it.
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

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
