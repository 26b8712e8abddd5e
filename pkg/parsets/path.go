package parsets

import (
	"strconv"
	"strings"

	"github.com/matzehuels/parsets/pkg/dataset"
)

// RibbonPath is a chain of segments, one per dimension traversed, together
// with the records that fall in every one of them.
//
// Range locates the path inside its terminal segment. Paths ending in the
// same segment tile [0,1) without gaps.
type RibbonPath struct {
	Segments []*Segment
	Data     dataset.Dataset
	Range    RatioRange
}

// Depth returns the number of chained segments.
func (p *RibbonPath) Depth() int { return len(p.Segments) }

// Count returns the number of records on the path.
func (p *RibbonPath) Count() int { return len(p.Data) }

// Terminal returns the last segment of the chain, or nil for an empty path.
func (p *RibbonPath) Terminal() *Segment {
	if len(p.Segments) == 0 {
		return nil
	}
	return p.Segments[len(p.Segments)-1]
}

// Labels returns the label of every chained segment.
func (p *RibbonPath) Labels() []string {
	out := make([]string, len(p.Segments))
	for i, s := range p.Segments {
		out[i] = s.Label()
	}
	return out
}

// RatioForSegment is the share of the terminal segment's records on the path.
func (p *RibbonPath) RatioForSegment() float64 {
	t := p.Terminal()
	if t == nil {
		return 0
	}
	return ratio(len(p.Data), t.Count())
}

// RatioForAll is the share of all records on the path.
func (p *RibbonPath) RatioForAll() float64 {
	t := p.Terminal()
	if t == nil {
		return 0
	}
	return ratio(len(p.Data), t.FullCount())
}

func (p *RibbonPath) key() string { return chainKey(p.Segments) }

// chainKey identifies a chain by the position of each segment.
func chainKey(chain []*Segment) string {
	var b strings.Builder
	for i, s := range chain {
		if i > 0 {
			b.WriteByte('/')
		}
		b.WriteString(strconv.Itoa(s.AxisIndex))
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(s.Index))
	}
	return b.String()
}

// filterBy keeps the records whose dimension value belongs to s.
func filterBy(data dataset.Dataset, dimension string, s *Segment) dataset.Dataset {
	var out dataset.Dataset
	for _, row := range data {
		if s.Value.Match(row.Get(dimension)) {
			out = append(out, row)
		}
	}
	return out
}
