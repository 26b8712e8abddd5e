package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/matzehuels/parsets/pkg/geometry"
)

// DefaultPalette colours ribbons by their first-axis segment.
var DefaultPalette = []string{
	"#4e79a7", "#f28e2b", "#e15759", "#76b7b2", "#59a14f",
	"#edc948", "#b07aa1", "#ff9da7", "#9c755f", "#bab0ac",
}

const chartCSS = `
    .segment { fill: #222; }
    .segment.merged { fill: #777; }
    .ribbon { fill-opacity: 0.55; stroke: none; }
    .ribbon:hover { fill-opacity: 0.85; }
    .axis-label { font: bold 14px sans-serif; text-anchor: middle; }
    .segment-label { font: 12px sans-serif; dominant-baseline: middle; }`

const segmentWidth = 8.0

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	palette    []string
	title      string
	background string
	labels     bool
}

// WithPalette replaces the ribbon colours. An empty palette is ignored.
func WithPalette(colors ...string) SVGOption {
	return func(r *svgRenderer) {
		if len(colors) > 0 {
			r.palette = colors
		}
	}
}

// WithTitle adds a document title.
func WithTitle(title string) SVGOption { return func(r *svgRenderer) { r.title = title } }

// WithBackground fills the frame with a colour.
func WithBackground(color string) SVGOption { return func(r *svgRenderer) { r.background = color } }

// WithoutLabels omits axis and segment labels.
func WithoutLabels() SVGOption { return func(r *svgRenderer) { r.labels = false } }

// RenderSVG draws the scene: ribbons first, then axis segments on top, then
// labels. Every shape carries a <title> with its label chain and count.
func RenderSVG(sc *geometry.Scene, opts ...SVGOption) []byte {
	r := svgRenderer{palette: DefaultPalette, labels: true}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		sc.Width, sc.Height, sc.Width, sc.Height)
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", escapeXML(r.title))
	}
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", chartCSS)
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", escapeXML(r.background))
	}

	buf.WriteString("  <g class=\"ribbons\">\n")
	for _, rb := range sc.Ribbons {
		renderRibbon(&buf, rb, r.color(rb.Group))
	}
	buf.WriteString("  </g>\n")

	buf.WriteString("  <g class=\"axes\">\n")
	for _, a := range sc.Axes {
		renderAxis(&buf, a, r.labels)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r svgRenderer) color(group int) string {
	if group < 0 {
		group = 0
	}
	return r.palette[group%len(r.palette)]
}

func renderRibbon(buf *bytes.Buffer, rb geometry.RibbonShape, color string) {
	fmt.Fprintf(buf, `    <path class="ribbon" d="%s" fill="%s"><title>%s: %d</title></path>`+"\n",
		rb.Ribbon.PathData(), color, escapeXML(strings.Join(rb.Labels, " → ")), rb.Count)
}

func renderAxis(buf *bytes.Buffer, a geometry.AxisShape, labels bool) {
	fmt.Fprintf(buf, `   <g class="axis" data-dimension="%s">`+"\n", escapeXML(a.Dimension))
	for _, s := range a.Segments {
		class := "segment"
		if s.Merged {
			class += " merged"
		}
		fmt.Fprintf(buf, `    <rect class="%s" x="%.2f" y="%.2f" width="%.2f" height="%.2f"><title>%s: %s (%d)</title></rect>`+"\n",
			class, a.X-segmentWidth/2, s.Span.Y0, segmentWidth, s.Span.Height(),
			escapeXML(a.Label), escapeXML(s.Label), s.Count)
		if labels && s.Span.Height() > 0 {
			fmt.Fprintf(buf, `    <text class="segment-label" x="%.2f" y="%.2f">%s</text>`+"\n",
				a.X+segmentWidth, s.Span.Mid(), escapeXML(s.Label))
		}
	}
	if labels {
		fmt.Fprintf(buf, `    <text class="axis-label" x="%.2f" y="%.2f">%s</text>`+"\n",
			a.X, axisLabelY(a), escapeXML(a.Label))
	}
	buf.WriteString("   </g>\n")
}

func axisLabelY(a geometry.AxisShape) float64 {
	if len(a.Segments) == 0 {
		return 14
	}
	return max(14, a.Segments[0].Span.Y0-6)
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
