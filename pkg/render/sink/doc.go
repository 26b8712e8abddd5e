// Package sink provides output format renderers for parallel sets charts.
//
// # Overview
//
// A "sink" transforms a built [parsets.Model] or its positioned
// [geometry.Scene] into a final output format:
//
//   - SVG: the chart itself, ribbons under vertical axes
//   - JSON: model export (axes, segments, tree) with an optional scene
//   - DOT: the partition tree for Graphviz
//   - Tree SVG: the DOT tree laid out by Graphviz
//   - PDF and PNG: converted from SVG (requires rsvg-convert)
//
// # SVG Output
//
// [RenderSVG] colours each ribbon by the first-axis segment it descends
// from and adds a <title> tooltip to every shape:
//
//	sc := geometry.NewScene(m, geometry.NewFrame(960, 600), 0.5)
//	svg := sink.RenderSVG(sc,
//	    sink.WithTitle("Titanic"),
//	    sink.WithPalette("#1b9e77", "#d95f02", "#7570b3"),
//	)
//
// # Tree Output
//
// [ToDOT] writes one Graphviz node per tree node, ranked left to right by
// depth. [RenderTreeSVG] lays it out with the embedded Graphviz library:
//
//	dot := sink.ToDOT(m, sink.DOTOptions{Detailed: true})
//	svg, err := sink.RenderTreeSVG(ctx, dot)
//
// [parsets.Model]: github.com/matzehuels/parsets/pkg/parsets
// [geometry.Scene]: github.com/matzehuels/parsets/pkg/geometry
package sink
