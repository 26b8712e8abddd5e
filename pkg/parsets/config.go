package parsets

import (
	perrors "github.com/matzehuels/parsets/pkg/errors"
)

// DefaultKey is the Config key whose entry supplies fallbacks for every
// dimension.
const DefaultKey = ""

// AxisConfig controls how one dimension is segmented.
//
// The zero value means: label is the dimension name, no segment limit, no
// merge cap and first-encounter order.
type AxisConfig struct {
	// Label overrides the axis label. Empty falls back to the dimension name.
	Label string

	// MaxSegmentCount limits the number of segments. When the number of
	// distinct values exceeds it, the first MaxSegmentCount-1 groups are kept
	// and the rest are merged. Zero is unset and falls back to the default
	// entry; a negative value means explicitly unlimited.
	MaxSegmentCount int

	// MergedSegmentLabel labels the merged segment. Empty falls back to the
	// comma-joined merged values.
	MergedSegmentLabel string

	// MergedSegmentMaxRatio caps the share of the axis the merged segment
	// may take. Nil means no cap. Must be within [0,1].
	MergedSegmentMaxRatio *float64

	// ValueSorting orders the groups before merging. Nil keeps
	// first-encounter order.
	ValueSorting Comparator
}

// Validate reports malformed settings.
func (c AxisConfig) Validate() error {
	if c.MergedSegmentMaxRatio != nil {
		if err := perrors.ValidateRatio("merged segment max ratio", *c.MergedSegmentMaxRatio); err != nil {
			return err
		}
	}
	return nil
}

func (c AxisConfig) limit() int {
	if c.MaxSegmentCount <= 0 {
		return 0
	}
	return c.MaxSegmentCount
}

// Ratio returns a pointer to r, for use in [AxisConfig.MergedSegmentMaxRatio].
func Ratio(r float64) *float64 { return &r }

// Config maps dimension names to their axis settings. The entry under
// [DefaultKey] provides a per-field fallback for every dimension.
type Config map[string]AxisConfig

// Resolve returns the effective settings of dimension, filling each unset
// field from the default entry.
func (c Config) Resolve(dimension string) AxisConfig {
	def := c[DefaultKey]
	own, ok := c[dimension]
	if !ok {
		return def
	}
	if own.Label == "" {
		own.Label = def.Label
	}
	if own.MaxSegmentCount == 0 {
		own.MaxSegmentCount = def.MaxSegmentCount
	}
	if own.MergedSegmentLabel == "" {
		own.MergedSegmentLabel = def.MergedSegmentLabel
	}
	if own.MergedSegmentMaxRatio == nil {
		own.MergedSegmentMaxRatio = def.MergedSegmentMaxRatio
	}
	if own.ValueSorting == nil {
		own.ValueSorting = def.ValueSorting
	}
	return own
}

// Validate checks every entry.
func (c Config) Validate() error {
	for name, ac := range c {
		if err := ac.Validate(); err != nil {
			if name == DefaultKey {
				return perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "default axis config")
			}
			return perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "axis config %q", name)
		}
	}
	return nil
}
