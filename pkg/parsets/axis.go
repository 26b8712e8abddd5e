package parsets

import (
	"slices"

	"github.com/matzehuels/parsets/pkg/dataset"
)

// RatioRange is a half-open interval [Start, End) within [0,1].
type RatioRange struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Width returns End - Start.
func (r RatioRange) Width() float64 { return r.End - r.Start }

// Contains reports whether x lies in [Start, End).
func (r RatioRange) Contains(x float64) bool { return x >= r.Start && x < r.End }

// Segment is one partition of a dimension's records sharing a value.
//
// A segment belongs to exactly one [Axis]. AxisIndex identifies that axis
// within the model's dimension order; it is a lookup key, not an owner link.
type Segment struct {
	AxisIndex int
	Index     int // position on the axis
	Value     WrappedValue
	Data      dataset.Dataset
	Merged    bool

	// RawRatio is len(Data) divided by the axis record count.
	RawRatio float64
	// AdjustedRatio is RawRatio after the merged segment cap is applied.
	AdjustedRatio float64
	// Range is the segment's running slot on the axis.
	Range RatioRange

	label string
	total int
}

// Label returns the configured label, or the wrapped value label.
func (s *Segment) Label() string {
	if s.label != "" {
		return s.label
	}
	return s.Value.Label()
}

// Count returns the number of records in the segment.
func (s *Segment) Count() int { return len(s.Data) }

// FullCount returns the number of records on the segment's axis.
func (s *Segment) FullCount() int { return s.total }

// Ratio returns the adjusted ratio, the share of the axis the segment covers.
func (s *Segment) Ratio() float64 { return s.AdjustedRatio }

// Axis is the ordered segmentation of one dimension.
type Axis struct {
	Dimension string
	Index     int
	Segments  []*Segment
	Total     int // records on the axis

	label string
}

// Label returns the configured label, or the dimension name.
func (a *Axis) Label() string {
	if a.label != "" {
		return a.label
	}
	return a.Dimension
}

// SegmentFor returns the segment whose value matches v.
func (a *Axis) SegmentFor(v dataset.Value) (*Segment, bool) {
	for _, s := range a.Segments {
		if s.Value.Match(v) {
			return s, true
		}
	}
	return nil, false
}

// MergedSegment returns the merged segment, if the axis has one.
func (a *Axis) MergedSegment() (*Segment, bool) {
	for _, s := range a.Segments {
		if s.Merged {
			return s, true
		}
	}
	return nil, false
}

type group struct {
	value dataset.Value
	rows  dataset.Dataset
}

// NewAxis segments data by dimension.
//
// Records are grouped by strict equality of their value, in first-encounter
// order, then sorted by cfg.ValueSorting when set. If the group count
// exceeds cfg.MaxSegmentCount, the first MaxSegmentCount-1 groups stay and
// the rest become one merged segment. If the merged segment's raw ratio is
// above cfg.MergedSegmentMaxRatio, the excess is moved to the normal
// segments in proportion to their raw ratio. Finally every segment gets a
// running range on the axis.
//
// An empty dataset yields an axis without segments. Only a malformed cfg is
// an error.
func NewAxis(data dataset.Dataset, dimension string, index int, cfg AxisConfig) (*Axis, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	axis := &Axis{
		Dimension: dimension,
		Index:     index,
		Total:     len(data),
		label:     cfg.Label,
	}

	groups := groupBy(data, dimension)
	if cfg.ValueSorting != nil {
		slices.SortStableFunc(groups, func(a, b group) int {
			return cfg.ValueSorting(a.value, b.value)
		})
	}

	keep := len(groups)
	if limit := cfg.limit(); limit > 0 && len(groups) > limit {
		keep = limit - 1
	}

	for _, g := range groups[:keep] {
		axis.Segments = append(axis.Segments, &Segment{
			AxisIndex: index,
			Index:     len(axis.Segments),
			Value:     Wrap(g.value),
			Data:      g.rows,
			total:     len(data),
		})
	}

	if tail := groups[keep:]; len(tail) > 0 {
		values := make([]dataset.Value, 0, len(tail))
		var rows dataset.Dataset
		for _, g := range tail {
			values = append(values, g.value)
			rows = append(rows, g.rows...)
		}
		axis.Segments = append(axis.Segments, &Segment{
			AxisIndex: index,
			Index:     len(axis.Segments),
			Value:     WrapAll(values...),
			Data:      rows,
			Merged:    true,
			label:     cfg.MergedSegmentLabel,
			total:     len(data),
		})
	}

	for _, s := range axis.Segments {
		s.RawRatio = ratio(len(s.Data), len(data))
		s.AdjustedRatio = s.RawRatio
	}
	capMerged(axis.Segments, cfg.MergedSegmentMaxRatio)

	offset := 0.0
	for _, s := range axis.Segments {
		s.Range = RatioRange{Start: offset, End: offset + s.AdjustedRatio}
		offset = s.Range.End
	}
	return axis, nil
}

// capMerged applies the merged segment cap in a single pass from raw ratios.
func capMerged(segments []*Segment, maxRatio *float64) {
	if maxRatio == nil {
		return
	}
	var merged *Segment
	for _, s := range segments {
		if s.Merged {
			merged = s
		}
	}
	if merged == nil {
		return
	}

	mergedRatio := merged.RawRatio
	excess := mergedRatio - *maxRatio
	normal := 1 - mergedRatio
	if excess <= 0 || normal <= 0 {
		return
	}

	merged.AdjustedRatio = *maxRatio
	for _, s := range segments {
		if !s.Merged {
			s.AdjustedRatio = s.RawRatio + excess*(s.RawRatio/normal)
		}
	}
}

func groupBy(data dataset.Dataset, dimension string) []group {
	pos := make(map[dataset.Value]int)
	var groups []group
	for _, row := range data {
		v := row.Get(dimension)
		i, ok := pos[v]
		if !ok {
			i = len(groups)
			pos[v] = i
			groups = append(groups, group{value: v})
		}
		groups[i].rows = append(groups[i].rows, row)
	}
	return groups
}

func ratio(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}
