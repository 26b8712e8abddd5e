// Package render provides output formats for parallel sets charts.
//
// # Overview
//
// Rendering starts from a [geometry.Scene], the model projected onto a
// frame. The [sink] subpackage writes scenes and models to concrete formats:
//
//   - SVG chart ([sink.RenderSVG])
//   - JSON model and scene export ([sink.RenderJSON])
//   - Graphviz DOT of the partition tree ([sink.ToDOT]) and its SVG
//     rendering ([sink.RenderTreeSVG])
//   - PNG and PDF via SVG conversion ([sink.RenderPNG], [sink.RenderPDF])
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg):
//
//	svg := sink.RenderSVG(scene)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// When rsvg-convert is not installed both return an UNSUPPORTED error.
//
// [geometry.Scene]: github.com/matzehuels/parsets/pkg/geometry
// [sink]: github.com/matzehuels/parsets/pkg/render/sink
// [sink.RenderSVG]: github.com/matzehuels/parsets/pkg/render/sink
// [sink.RenderJSON]: github.com/matzehuels/parsets/pkg/render/sink
// [sink.ToDOT]: github.com/matzehuels/parsets/pkg/render/sink
// [sink.RenderTreeSVG]: github.com/matzehuels/parsets/pkg/render/sink
// [sink.RenderPNG]: github.com/matzehuels/parsets/pkg/render/sink
// [sink.RenderPDF]: github.com/matzehuels/parsets/pkg/render/sink
package render
