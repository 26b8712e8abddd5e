package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/parsets/pkg/dataset"
	"github.com/matzehuels/parsets/pkg/geometry"
	"github.com/matzehuels/parsets/pkg/observability"
	"github.com/matzehuels/parsets/pkg/parsets"
)

// BuildModel computes the parallel-sets model of data under opts.
func BuildModel(data dataset.Dataset, opts Options) (*parsets.Model, error) {
	if err := opts.ValidateForBuild(); err != nil {
		return nil, err
	}
	cfg, err := opts.ToConfig()
	if err != nil {
		return nil, err
	}
	return parsets.Build(data, opts.Dimensions, cfg)
}

// BuildScene projects m onto the frame described by opts.
func BuildScene(m *parsets.Model, opts Options) *geometry.Scene {
	opts.SetLayoutDefaults()
	return geometry.NewScene(m, opts.Frame(), opts.TensionValue())
}

// Build computes the model and reports the build to the registered hooks.
func (r *Runner) Build(ctx context.Context, data dataset.Dataset, opts Options) (*parsets.Model, error) {
	r.applyLogger(&opts)

	start := time.Now()
	observability.Pipeline().OnBuildStart(ctx, opts.Dimensions, len(data))
	m, err := BuildModel(data, opts)
	nodes := 0
	if err == nil {
		nodes = m.Tree.Len()
	}
	observability.Pipeline().OnBuildComplete(ctx, opts.Dimensions, nodes, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	opts.Logger.Debug("built model",
		"rows", m.Total,
		"dimensions", len(m.Dimensions),
		"segments", segmentCount(m),
		"nodes", nodes,
		"paths", m.Index.Len())
	return m, nil
}

func segmentCount(m *parsets.Model) int {
	n := 0
	for _, a := range m.OrderedAxes() {
		n += len(a.Segments)
	}
	return n
}
