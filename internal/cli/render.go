package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	perrors "github.com/matzehuels/parsets/pkg/errors"
	"github.com/matzehuels/parsets/pkg/pipeline"
)

// renderFlags holds the output flags of the render command.
type renderFlags struct {
	output     string
	formats    string
	title      string
	background string
	palette    string
	noLabels   bool
	maxDepth   int
	detailed   bool
	scale      float64
	noCache    bool
	refresh    bool
}

// renderCommand creates the render command, which runs the whole pipeline
// and writes one file per requested format.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		src  sourceFlags
		lay  optionFlags
		rend renderFlags
	)

	cmd := &cobra.Command{
		Use:   "render [records.csv|records.json]",
		Short: "Render a parallel-sets chart",
		Long: `Render a parallel-sets chart from a CSV or JSON file, or from a MongoDB
collection (--mongo-uri).

Each format is written next to the output base path:

  parsets render titanic.csv -d Class,Sex,Survived -f svg,json
  → titanic.svg, titanic.json

Formats: svg (chart), json (model document), dot (partition tree as Graphviz),
tree (partition tree rendered as SVG), png and pdf (need rsvg-convert).

Rendered artifacts are cached locally; --refresh forces a rebuild.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := src.source(args)
			if err != nil {
				return err
			}
			opts, err := lay.options(cmd)
			if err != nil {
				return err
			}
			opts = rend.apply(cmd, opts)
			return c.runRender(cmd.Context(), src.withFields(source, opts.Dimensions), opts, rend)
		},
	}

	src.register(cmd)
	lay.register(cmd)
	cmd.Flags().StringVarP(&rend.output, "output", "o", "", "output base path (default: input name); '-' writes a single format to stdout")
	cmd.Flags().StringVarP(&rend.formats, "format", "f", "", "output format(s): svg (default), json, dot, tree, png, pdf (comma-separated)")
	cmd.Flags().StringVar(&rend.title, "title", "", "chart title")
	cmd.Flags().StringVar(&rend.background, "background", "", "background color")
	cmd.Flags().StringVar(&rend.palette, "palette", "", "comma-separated ribbon colors")
	cmd.Flags().BoolVar(&rend.noLabels, "no-labels", false, "omit axis and segment labels")
	cmd.Flags().IntVar(&rend.maxDepth, "max-depth", 0, "limit the tree depth in json/dot/tree output (0 = all)")
	cmd.Flags().BoolVar(&rend.detailed, "detailed", false, "show ratio ranges in dot/tree output")
	cmd.Flags().Float64Var(&rend.scale, "scale", pipeline.DefaultScale, "png resolution multiplier")
	cmd.Flags().BoolVar(&rend.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&rend.refresh, "refresh", false, "ignore cached entries and rebuild")

	return cmd
}

// apply overlays the render flags the user set onto opts.
func (f renderFlags) apply(cmd *cobra.Command, opts pipeline.Options) pipeline.Options {
	changed := cmd.Flags().Changed
	if fs := parseList(f.formats); len(fs) > 0 {
		opts.Formats = fs
	}
	if changed("title") {
		opts.Title = f.title
	}
	if changed("background") {
		opts.Background = f.background
	}
	if p := parseList(f.palette); len(p) > 0 {
		opts.Palette = p
	}
	if changed("no-labels") {
		opts.NoLabels = f.noLabels
	}
	if changed("max-depth") {
		opts.MaxDepth = f.maxDepth
	}
	if changed("detailed") {
		opts.Detailed = f.detailed
	}
	if changed("scale") || opts.Scale == 0 {
		opts.Scale = f.scale
	}
	opts.Refresh = f.refresh
	return opts
}

// runRender loads the records, runs the pipeline, and writes the artifacts.
func (c *CLI) runRender(ctx context.Context, src pipeline.Source, opts pipeline.Options, flags renderFlags) error {
	runner, err := c.newRunner(flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	data, err := c.loadData(ctx, runner, src, flags.refresh)
	if err != nil {
		return err
	}

	opts.Logger = c.Logger
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	var spinner *Spinner
	if needsConverter(opts.Formats) {
		spinner = newSpinnerWithContext(ctx, c.Err, "Rendering "+strings.Join(opts.Formats, ", ")+"...")
		spinner.Start()
	}
	result, err := runner.Execute(ctx, data, opts)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	if flags.output == "-" {
		if len(opts.Formats) != 1 {
			return perrors.New(perrors.ErrCodeInvalidInput, "--output - needs exactly one format, got %d", len(opts.Formats))
		}
		_, err := c.Out.Write(result.Artifacts[opts.Formats[0]])
		return err
	}

	input := src.Path
	if src.Mongo != nil {
		input = src.Mongo.Collection
	}
	paths := outputPaths(basePath(flags.output, input), opts.Formats)
	for _, format := range opts.Formats {
		if err := writeOutput(paths[format], result.Artifacts[format]); err != nil {
			return err
		}
	}

	out := c.print()
	out.success("Rendered %s", strings.Join(opts.Dimensions, " → "))
	for _, format := range opts.Formats {
		out.file(paths[format])
	}
	out.stats(result.Stats, result.CacheInfo.RenderHit)
	out.newline()
	out.nextStep("Inspect", appName+" explore "+input+" -d "+strings.Join(opts.Dimensions, ","))
	return nil
}

// needsConverter reports whether any format shells out or calls Graphviz,
// which is slow enough to deserve a spinner.
func needsConverter(formats []string) bool {
	return slices.ContainsFunc(formats, func(f string) bool {
		return f == pipeline.FormatPNG || f == pipeline.FormatPDF || f == pipeline.FormatTree
	})
}

// basePath derives the base output path from the output and input names.
// A known format extension on output is stripped; with no output the input
// name minus its extension is used.
func basePath(output, input string) string {
	if output == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		if base == "" {
			return "parsets"
		}
		return base
	}
	for _, ext := range pipeline.FormatExtensions {
		if strings.HasSuffix(output, ext) && ext != ".svg" {
			return strings.TrimSuffix(output, ext)
		}
	}
	return strings.TrimSuffix(output, ".svg")
}

// outputPaths maps each format to base plus its extension.
func outputPaths(base string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	for _, f := range formats {
		paths[f] = base + pipeline.FormatExtensions[f]
	}
	return paths
}

// writeOutput writes data to path, creating parent directories.
func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", path, err)
	}
	return nil
}
