package parsets

import (
	"slices"

	"github.com/matzehuels/parsets/pkg/dataset"
	perrors "github.com/matzehuels/parsets/pkg/errors"
)

// Model is the complete layout of one dataset under one dimension order.
type Model struct {
	Dimensions []string
	Axes       map[string]*Axis
	Index      *PathIndex
	Tree       *Tree
	Total      int

	ordered []*Axis
}

// Axis returns the axis of dimension.
func (m *Model) Axis(dimension string) (*Axis, bool) {
	a, ok := m.Axes[dimension]
	return a, ok
}

// OrderedAxes returns the axes in dimension order.
func (m *Model) OrderedAxes() []*Axis { return slices.Clone(m.ordered) }

// Build validates its inputs and computes the model.
//
// Dimension names must be non-empty and distinct, and every config entry
// must be well formed; any violation is reported before work starts. Empty
// dimensions or an empty dataset are valid and give a model without
// segments whose tree is a lone root.
func Build(data dataset.Dataset, dimensions []string, cfg Config) (*Model, error) {
	if err := perrors.ValidateDimensions(dimensions); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Model{
		Dimensions: slices.Clone(dimensions),
		Axes:       make(map[string]*Axis, len(dimensions)),
		Total:      len(data),
	}
	for i, dim := range dimensions {
		axis, err := NewAxis(data, dim, i, cfg.Resolve(dim))
		if err != nil {
			return nil, perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "build axis %q", dim)
		}
		m.Axes[dim] = axis
		m.ordered = append(m.ordered, axis)
	}

	m.Index = NewPathIndex(m.ordered)
	m.Tree = NewTree(data, m.ordered, m.Index)
	return m, nil
}
