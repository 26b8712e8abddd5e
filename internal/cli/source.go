package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/parsets/pkg/dataset"
	perrors "github.com/matzehuels/parsets/pkg/errors"
	"github.com/matzehuels/parsets/pkg/pipeline"
)

// sourceFlags selects the records a command works on: a file argument or a
// MongoDB collection.
type sourceFlags struct {
	inferNumbers bool
	mongoURI     string
	mongoDB      string
	mongoColl    string
	mongoLimit   int64
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.inferNumbers, "numbers", false, "parse numeric CSV cells as numbers")
	cmd.Flags().StringVar(&f.mongoURI, "mongo-uri", "", "read records from MongoDB at this URI")
	cmd.Flags().StringVar(&f.mongoDB, "mongo-db", "", "MongoDB database")
	cmd.Flags().StringVar(&f.mongoColl, "mongo-collection", "", "MongoDB collection")
	cmd.Flags().Int64Var(&f.mongoLimit, "mongo-limit", 0, "maximum documents to read (0 = all)")
}

// source resolves the flags and positional arguments into a pipeline source.
func (f *sourceFlags) source(args []string) (pipeline.Source, error) {
	src := pipeline.Source{InferNumbers: f.inferNumbers}
	if len(args) > 0 {
		src.Path = args[0]
	}
	if f.mongoURI != "" {
		src.Mongo = &dataset.MongoSource{
			URI:        f.mongoURI,
			Database:   f.mongoDB,
			Collection: f.mongoColl,
			Limit:      f.mongoLimit,
		}
	}
	return src, src.Validate()
}

// withFields sets the Mongo projection to dims, so only the dimensions in
// use are transferred.
func (f *sourceFlags) withFields(src pipeline.Source, dims []string) pipeline.Source {
	if src.Mongo != nil {
		m := *src.Mongo
		m.Fields = dims
		src.Mongo = &m
	}
	return src
}

// optionFlags are the layout flags shared by render, layout and explore.
type optionFlags struct {
	config     string
	dimensions string
	width      float64
	height     float64
	tension    float64
	maxSegs    int
	merged     string
	mergedMax  float64
	sort       string
}

func (f *optionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.config, "config", "c", "", "TOML options file")
	cmd.Flags().StringVarP(&f.dimensions, "dimensions", "d", "", "comma-separated dimension order")
	cmd.Flags().Float64Var(&f.width, "width", pipeline.DefaultWidth, "frame width")
	cmd.Flags().Float64Var(&f.height, "height", pipeline.DefaultHeight, "frame height")
	cmd.Flags().Float64Var(&f.tension, "tension", pipeline.DefaultTension, "ribbon curve tension in [0,1]")
	cmd.Flags().IntVar(&f.maxSegs, "max-segments", 0, "default segment limit per axis; extra values are merged")
	cmd.Flags().StringVar(&f.merged, "merged-label", "", "default label of merged segments")
	cmd.Flags().Float64Var(&f.mergedMax, "merged-max-ratio", 0, "default cap on the merged segment's share")
	cmd.Flags().StringVar(&f.sort, "sort", "", "default value order: none, asc, desc, numeric, numeric-desc")
}

// options loads the config file, if any, and overlays the flags the user set.
func (f *optionFlags) options(cmd *cobra.Command) (pipeline.Options, error) {
	var opts pipeline.Options
	if f.config != "" {
		loaded, err := pipeline.LoadConfig(f.config)
		if err != nil {
			return opts, err
		}
		opts = loaded
	}

	var override pipeline.Options
	changed := cmd.Flags().Changed
	override.Dimensions = parseList(f.dimensions)
	if changed("width") || opts.Width == 0 {
		override.Width = f.width
	}
	if changed("height") || opts.Height == 0 {
		override.Height = f.height
	}
	if changed("tension") || opts.Tension == nil {
		t := f.tension
		override.Tension = &t
	}

	def := pipeline.AxisOptions{}
	if opts.Axes != nil {
		def = opts.Axes[""]
	}
	defChanged := false
	if changed("max-segments") {
		def.MaxSegments, defChanged = f.maxSegs, true
	}
	if changed("merged-label") {
		def.MergedLabel, defChanged = f.merged, true
	}
	if changed("merged-max-ratio") {
		r := f.mergedMax
		def.MergedMaxRatio, defChanged = &r, true
	}
	if changed("sort") {
		def.Sort, defChanged = f.sort, true
	}
	if defChanged {
		override.Axes = map[string]pipeline.AxisOptions{"": def}
	}

	opts = opts.Merge(override)
	if len(opts.Dimensions) == 0 {
		return opts, perrors.New(perrors.ErrCodeInvalidInput, "no dimensions: pass --dimensions or set them in the config file")
	}
	return opts, nil
}

// loadData reads records for a command, logging where they came from.
func (c *CLI) loadData(ctx context.Context, runner *pipeline.Runner, src pipeline.Source, refresh bool) (dataset.Dataset, error) {
	prog := newProgress(loggerFromContext(ctx))
	data, hit, err := runner.LoadWithCacheInfo(ctx, src, refresh)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", src.Name(), err)
	}
	status := "read"
	if hit {
		status = "cached"
	}
	prog.done(fmt.Sprintf("Loaded %d records from %s (%s)", len(data), src.Name(), status))
	return data, nil
}
