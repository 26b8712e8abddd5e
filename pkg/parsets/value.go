package parsets

import (
	"slices"
	"strings"

	"github.com/matzehuels/parsets/pkg/dataset"
)

// WrappedValue is the value of a segment: one original value, or the distinct
// union of several values when the segment is merged.
type WrappedValue struct {
	values []dataset.Value
}

// Wrap returns a WrappedValue holding exactly v.
func Wrap(v dataset.Value) WrappedValue {
	return WrappedValue{values: []dataset.Value{v}}
}

// WrapAll returns the distinct union of values, keeping first-seen order.
func WrapAll(values ...dataset.Value) WrappedValue {
	out := make([]dataset.Value, 0, len(values))
	for _, v := range values {
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return WrappedValue{values: out}
}

// Values returns a copy of the wrapped values.
func (w WrappedValue) Values() []dataset.Value { return slices.Clone(w.values) }

// Len returns the number of wrapped values.
func (w WrappedValue) Len() int { return len(w.values) }

// First returns the first wrapped value, used as the sort key of a group.
func (w WrappedValue) First() dataset.Value {
	if len(w.values) == 0 {
		return dataset.Missing()
	}
	return w.values[0]
}

// Match reports whether v is one of the wrapped values. Equality is strict.
func (w WrappedValue) Match(v dataset.Value) bool {
	return slices.Contains(w.values, v)
}

// Label joins the display forms of the wrapped values with commas.
func (w WrappedValue) Label() string {
	parts := make([]string, len(w.values))
	for i, v := range w.values {
		parts[i] = v.String()
	}
	return strings.Join(parts, ",")
}

func (w WrappedValue) String() string { return w.Label() }
