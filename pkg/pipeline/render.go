package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/parsets/pkg/geometry"
	"github.com/matzehuels/parsets/pkg/parsets"
	"github.com/matzehuels/parsets/pkg/render/sink"
)

// Render generates output artifacts in the requested formats.
func Render(ctx context.Context, m *parsets.Model, sc *geometry.Scene, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		if _, done := artifacts[format]; done {
			continue
		}
		data, err := renderFormat(ctx, format, m, sc, opts)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderFormat(ctx context.Context, format string, m *parsets.Model, sc *geometry.Scene, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		return sink.RenderSVG(sc, buildSVGOptions(opts)...), nil
	case FormatJSON:
		return sink.RenderJSON(m, sink.WithJSONScene(sc), sink.WithJSONMaxDepth(opts.MaxDepth))
	case FormatDOT:
		return []byte(sink.ToDOT(m, dotOptions(opts))), nil
	case FormatTree:
		return sink.RenderTreeSVG(ctx, sink.ToDOT(m, dotOptions(opts)))
	case FormatPNG:
		return sink.RenderPNG(ctx, sc, sink.WithSVGOptions(buildSVGOptions(opts)...), sink.WithScale(opts.Scale))
	case FormatPDF:
		return sink.RenderPDF(ctx, sc, sink.WithSVGOptions(buildSVGOptions(opts)...))
	default:
		return nil, ValidateFormat(format)
	}
}

// buildSVGOptions creates SVG rendering options from pipeline options.
func buildSVGOptions(opts Options) []sink.SVGOption {
	var out []sink.SVGOption
	if len(opts.Palette) > 0 {
		out = append(out, sink.WithPalette(opts.Palette...))
	}
	if opts.Title != "" {
		out = append(out, sink.WithTitle(opts.Title))
	}
	if opts.Background != "" {
		out = append(out, sink.WithBackground(opts.Background))
	}
	if opts.NoLabels {
		out = append(out, sink.WithoutLabels())
	}
	return out
}

func dotOptions(opts Options) sink.DOTOptions {
	return sink.DOTOptions{Detailed: opts.Detailed, MaxDepth: opts.MaxDepth}
}
