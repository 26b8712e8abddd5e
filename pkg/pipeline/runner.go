package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/parsets/pkg/cache"
	"github.com/matzehuels/parsets/pkg/dataset"
	perrors "github.com/matzehuels/parsets/pkg/errors"
	"github.com/matzehuels/parsets/pkg/geometry"
	"github.com/matzehuels/parsets/pkg/observability"
	"github.com/matzehuels/parsets/pkg/parsets"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the build → render pipeline on data with caching.
//
// The model is always rebuilt since it is cheap next to rendering and
// callers receive it in the result. Rendered artifacts are cached under
// a key derived from the records, dimensions, axis options and render
// options.
func (r *Runner) Execute(ctx context.Context, data dataset.Dataset, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		BuildID:   uuid.New(),
		Artifacts: make(map[string][]byte),
	}
	logger := opts.Logger.With("build", result.BuildID.String()[:8])

	dataHash, err := cache.HashJSON(data)
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidDataset, err, "hash records")
	}
	result.DataHash = dataHash
	result.ModelKey = r.Keyer.ModelKey(dataHash, opts.ModelKeyOpts())

	// Stage 1: Build
	buildStart := time.Now()
	m, err := r.Build(ctx, data, opts)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	sc := BuildScene(m, opts)
	result.Model = m
	result.Scene = sc
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.Rows = m.Total
	result.Stats.Segments = segmentCount(m)
	result.Stats.Nodes = m.Tree.Len()
	result.Stats.Ribbons = len(sc.Ribbons)

	logger.Info("built model",
		"rows", m.Total,
		"segments", result.Stats.Segments,
		"ribbons", result.Stats.Ribbons,
		"duration", result.Stats.BuildTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, m, sc, result.ModelKey, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
// modelKey identifies the model inputs; it is usually [Result.ModelKey].
func (r *Runner) RenderWithCacheInfo(ctx context.Context, m *parsets.Model, sc *geometry.Scene, modelKey string, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	modelHash := cache.Hash([]byte(modelKey))

	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		if _, seen := artifacts[format]; seen {
			continue
		}
		key := r.Keyer.ArtifactKey(modelHash, opts.ArtifactKeyOpts(format))
		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "artifact")
				artifacts[format] = data
				continue
			}
			observability.Cache().OnCacheMiss(ctx, "artifact")
		}
		missing = append(missing, format)
	}

	if len(missing) == 0 {
		observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)
		return artifacts, true, nil // All artifacts from cache
	}

	renderOpts := opts
	renderOpts.Formats = missing
	rendered, err := Render(ctx, m, sc, renderOpts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		artifacts[format] = data
		key := r.Keyer.ArtifactKey(modelHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			opts.Logger.Warn("cache write failed", "format", format, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}

	return artifacts, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}
