package geometry

import "github.com/matzehuels/parsets/pkg/parsets"

// Default frame settings.
const (
	DefaultWidth      = 960.0
	DefaultHeight     = 600.0
	DefaultAxisMargin = 0.05
	DefaultSegmentGap = 0.05
)

// Frame maps layout ratios onto a width by height viewport. Axes are
// vertical and spread left to right in dimension order.
type Frame struct {
	Width  float64
	Height float64

	// AxisMargin is the share of the width left empty on each side of the
	// axis row.
	AxisMargin float64

	// SegmentGap is the share of an axis's height spent on gaps, split
	// evenly between its segments.
	SegmentGap float64
}

// NewFrame returns a frame with the default margins.
func NewFrame(width, height float64) Frame {
	return Frame{
		Width:      width,
		Height:     height,
		AxisMargin: DefaultAxisMargin,
		SegmentGap: DefaultSegmentGap,
	}
}

// AxisX returns the x position of axis i of n.
func (f Frame) AxisX(i, n int) float64 {
	if n <= 0 {
		return f.Width * f.AxisMargin
	}
	r := float64(i)/float64(n)*(1-2*f.AxisMargin) + f.AxisMargin
	return r * f.Width
}

// SegmentSpan returns the drawn extent of s on an axis of count segments.
// Each segment gives up half its share of the gap at either end; segments
// thinner than their gap collapse to their centre.
func (f Frame) SegmentSpan(s *parsets.Segment, count int) Span {
	half := 0.0
	if count > 0 {
		half = f.SegmentGap / float64(count) / 2
	}
	y0 := s.Range.Start + half
	y1 := s.Range.End - half
	if y1 < y0 {
		mid := (s.Range.Start + s.Range.End) / 2
		y0, y1 = mid, mid
	}
	return Span{Y0: y0 * f.Height, Y1: y1 * f.Height}
}
