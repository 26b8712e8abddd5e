package dataset

import (
	"maps"
	"slices"
)

// Datum is one record: dimension name to value. A dimension absent from the
// map reads as [Missing].
//
// Datum values are treated as immutable once ingested; the layout builder
// shares them between partitions without copying.
type Datum map[string]Value

// Get returns the value of dimension d, or the missing value.
func (r Datum) Get(d string) Value { return r[d] }

// Dataset is an ordered sequence of records.
type Dataset []Datum

// Len returns the number of records.
func (d Dataset) Len() int { return len(d) }

// Column returns the values of dimension dim in record order.
func (d Dataset) Column(dim string) []Value {
	col := make([]Value, len(d))
	for i, r := range d {
		col[i] = r.Get(dim)
	}
	return col
}

// Dimensions returns every dimension name that appears in at least one
// record. Names are ordered by the first record in which they appear, and
// alphabetically within that record.
func (d Dataset) Dimensions() []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range d {
		for _, k := range slices.Sorted(maps.Keys(r)) {
			if !seen[k] {
				seen[k] = true
				out = append(out, k)
			}
		}
	}
	return out
}
