// Package pipeline provides the load → build → render pipeline for parsets.
//
// The CLI and the HTTP server both go through this package, so option
// defaults, validation and caching behave the same at every entry point.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read records from a CSV/JSON file or a MongoDB collection
//  2. Build: Compute the parallel-sets model ([parsets.Build]) and its scene
//  3. Render: Generate output in various formats (SVG, JSON, DOT, PNG, PDF)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Dimensions: []string{"Class", "Sex", "Survived"},
//	    Formats:    []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, rows, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Options can also come from a TOML file:
//
//	dimensions = ["Class", "Sex", "Survived"]
//	tension = 0.6
//
//	[axes.""]
//	max_segments = 6
//	merged_label = "Other"
//
//	[axes.Class]
//	label = "Ticket class"
//	sort = "asc"
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/parsets/pkg/cache"
	perrors "github.com/matzehuels/parsets/pkg/errors"
	"github.com/matzehuels/parsets/pkg/geometry"
	"github.com/matzehuels/parsets/pkg/parsets"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultWidth is the default frame width in pixels.
	DefaultWidth = geometry.DefaultWidth

	// DefaultHeight is the default frame height in pixels.
	DefaultHeight = geometry.DefaultHeight

	// DefaultTension draws ribbons with fully horizontal tangents.
	DefaultTension = 1.0

	// DefaultScale is the PNG resolution multiplier.
	DefaultScale = 2.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatTree = "tree" // partition tree rendered by Graphviz as SVG
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatJSON: true,
	FormatDOT:  true,
	FormatTree: true,
	FormatPNG:  true,
	FormatPDF:  true,
}

// FormatExtensions maps formats to output file extensions.
var FormatExtensions = map[string]string{
	FormatSVG:  ".svg",
	FormatJSON: ".json",
	FormatDOT:  ".dot",
	FormatTree: ".tree.svg",
	FormatPNG:  ".png",
	FormatPDF:  ".pdf",
}

// ContentTypes maps formats to MIME types.
var ContentTypes = map[string]string{
	FormatSVG:  "image/svg+xml",
	FormatJSON: "application/json",
	FormatDOT:  "text/vnd.graphviz",
	FormatTree: "image/svg+xml",
	FormatPNG:  "image/png",
	FormatPDF:  "application/pdf",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// AxisOptions is the serializable form of [parsets.AxisConfig].
type AxisOptions struct {
	Label          string   `json:"label,omitempty" toml:"label"`
	MaxSegments    int      `json:"max_segments,omitempty" toml:"max_segments"`
	MergedLabel    string   `json:"merged_label,omitempty" toml:"merged_label"`
	MergedMaxRatio *float64 `json:"merged_max_ratio,omitempty" toml:"merged_max_ratio"`
	Sort           string   `json:"sort,omitempty" toml:"sort"`
}

// Options contains all configuration for the pipeline.
// This struct supports JSON for API requests and TOML for config files.
type Options struct {
	// Build options
	Dimensions []string               `json:"dimensions" toml:"dimensions"`
	Axes       map[string]AxisOptions `json:"axes,omitempty" toml:"axes"` // "" is the default entry

	// Layout options
	Width   float64  `json:"width,omitempty" toml:"width"`
	Height  float64  `json:"height,omitempty" toml:"height"`
	Tension *float64 `json:"tension,omitempty" toml:"tension"`

	// Render options
	Formats    []string `json:"formats,omitempty" toml:"formats"`
	Title      string   `json:"title,omitempty" toml:"title"`
	Background string   `json:"background,omitempty" toml:"background"`
	Palette    []string `json:"palette,omitempty" toml:"palette"`
	NoLabels   bool     `json:"no_labels,omitempty" toml:"no_labels"`
	MaxDepth   int      `json:"max_depth,omitempty" toml:"max_depth"` // tree depth in JSON/DOT output
	Detailed   bool     `json:"detailed,omitempty" toml:"detailed"`   // ratio ranges in DOT labels
	Scale      float64  `json:"scale,omitempty" toml:"scale"`

	// Runtime options (not serialized)
	Refresh bool        `json:"-" toml:"-"`
	Logger  *log.Logger `json:"-" toml:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// BuildID identifies this run in logs and API responses.
	BuildID uuid.UUID

	// DataHash is the content hash of the input records.
	DataHash string

	// ModelKey is the cache key of the model inputs (records, dimensions, axis config).
	ModelKey string

	// Model is the computed layout model.
	Model *parsets.Model

	// Scene is the model projected onto the frame.
	Scene *geometry.Scene

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Rows       int
	Segments   int
	Nodes      int
	Ribbons    int
	BuildTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LoadHit   bool // Whether records came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return perrors.New(perrors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, json, dot, tree, png, pdf)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAxes checks every axis entry: the sort must be a known name and
// the merged ratio, if set, must lie in [0,1].
func ValidateAxes(axes map[string]AxisOptions) error {
	for dim, a := range axes {
		if !parsets.IsSortName(a.Sort) {
			return perrors.New(perrors.ErrCodeInvalidConfig,
				"axis %q: unknown sort %q (must be one of: none, asc, desc, numeric, numeric-desc)", dim, a.Sort)
		}
		if a.MergedMaxRatio != nil {
			if err := perrors.ValidateRatio("axis "+dim+" merged_max_ratio", *a.MergedMaxRatio); err != nil {
				return err
			}
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks all fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForBuild(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForBuild checks the fields the model depends on.
func (o *Options) ValidateForBuild() error {
	if len(o.Dimensions) == 0 {
		return perrors.New(perrors.ErrCodeInvalidInput, "at least one dimension is required")
	}
	if err := perrors.ValidateDimensions(o.Dimensions); err != nil {
		return err
	}
	if err := ValidateAxes(o.Axes); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetLayoutDefaults sets default values for scene computation.
func (o *Options) SetLayoutDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Tension == nil {
		t := DefaultTension
		o.Tension = &t
	}
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for scene and rendering.
func (o *Options) ValidateForRender() error {
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	if o.Width < 0 || o.Height < 0 {
		return perrors.New(perrors.ErrCodeInvalidConfig, "frame size must not be negative, got %vx%v", o.Width, o.Height)
	}
	if err := perrors.ValidateRatio("tension", *o.Tension); err != nil {
		return err
	}
	if o.Scale < 0 {
		return perrors.New(perrors.ErrCodeInvalidConfig, "scale must not be negative, got %v", o.Scale)
	}
	return ValidateFormats(o.Formats)
}

// TensionValue returns the configured tension, or the default when unset.
func (o *Options) TensionValue() float64 {
	if o.Tension == nil {
		return DefaultTension
	}
	return *o.Tension
}

// Frame returns the viewport the scene is laid out on.
func (o *Options) Frame() geometry.Frame {
	return geometry.NewFrame(o.Width, o.Height)
}

// ToConfig converts the axis options into a build configuration.
func (o *Options) ToConfig() (parsets.Config, error) {
	cfg := make(parsets.Config, len(o.Axes))
	for dim, a := range o.Axes {
		cmp, err := parsets.ComparatorByName(a.Sort)
		if err != nil {
			return nil, perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "axis %q", dim)
		}
		cfg[dim] = parsets.AxisConfig{
			Label:                 a.Label,
			MaxSegmentCount:       a.MaxSegments,
			MergedSegmentLabel:    a.MergedLabel,
			MergedSegmentMaxRatio: a.MergedMaxRatio,
			ValueSorting:          cmp,
		}
	}
	return cfg, nil
}

// ModelKeyOpts returns cache key options for the model.
func (o *Options) ModelKeyOpts() cache.ModelKeyOpts {
	h, _ := cache.HashJSON(o.Axes)
	return cache.ModelKeyOpts{
		Dimensions: o.Dimensions,
		ConfigHash: h,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	variant, _ := cache.HashJSON(struct {
		Title      string   `json:"title"`
		Background string   `json:"background"`
		Palette    []string `json:"palette"`
		NoLabels   bool     `json:"no_labels"`
		MaxDepth   int      `json:"max_depth"`
		Detailed   bool     `json:"detailed"`
		Scale      float64  `json:"scale"`
	}{o.Title, o.Background, o.Palette, o.NoLabels, o.MaxDepth, o.Detailed, o.Scale})
	return cache.ArtifactKeyOpts{
		Format:  format,
		Width:   o.Width,
		Height:  o.Height,
		Tension: o.TensionValue(),
		Variant: variant,
	}
}
