package geometry

import "github.com/matzehuels/parsets/pkg/parsets"

// AxisShape is a positioned axis.
type AxisShape struct {
	Dimension string         `json:"dimension"`
	Label     string         `json:"label"`
	X         float64        `json:"x"`
	Segments  []SegmentShape `json:"segments"`
}

// SegmentShape is a positioned axis segment.
type SegmentShape struct {
	Label  string  `json:"label"`
	Count  int     `json:"count"`
	Ratio  float64 `json:"ratio"`
	Merged bool    `json:"merged,omitempty"`
	Span   Span    `json:"span"`
}

// RibbonShape is a positioned ribbon for one tree node.
type RibbonShape struct {
	Labels []string `json:"labels"`
	Group  int      `json:"group"` // segment index on the first axis
	Depth  int      `json:"depth"`
	Count  int      `json:"count"`
	Ratio  float64  `json:"ratio"`
	Source Span     `json:"source"`
	Dest   Span     `json:"dest"`
	Ribbon Ribbon   `json:"ribbon"`
}

// Scene is a model projected onto a frame.
type Scene struct {
	Width   float64       `json:"width"`
	Height  float64       `json:"height"`
	Tension float64       `json:"tension"`
	Axes    []AxisShape   `json:"axes"`
	Ribbons []RibbonShape `json:"ribbons"`
}

// NewScene positions every axis of m and one ribbon per tree node that
// joins two axes. Ribbons follow the tree's breadth-first order, so ribbons
// between earlier axes come first.
//
// A node at depth d joins axis d-2 to axis d-1. Its source is the slot
// RatioRangeInPreviousAxisSegment inside the parent's segment and its
// destination is RatioRangeInNextAxisSegment inside its own.
func NewScene(m *parsets.Model, f Frame, tension float64) *Scene {
	axes := m.OrderedAxes()
	sc := &Scene{
		Width:   f.Width,
		Height:  f.Height,
		Tension: ClampTension(tension),
	}

	spans := make(map[*parsets.Segment]Span)
	for i, a := range axes {
		shape := AxisShape{
			Dimension: a.Dimension,
			Label:     a.Label(),
			X:         f.AxisX(i, len(axes)),
		}
		for _, s := range a.Segments {
			span := f.SegmentSpan(s, len(a.Segments))
			spans[s] = span
			shape.Segments = append(shape.Segments, SegmentShape{
				Label:  s.Label(),
				Count:  s.Count(),
				Ratio:  s.AdjustedRatio,
				Merged: s.Merged,
				Span:   span,
			})
		}
		sc.Axes = append(sc.Axes, shape)
	}

	m.Tree.Walk(func(n *parsets.Node) bool {
		if n.Depth < 2 {
			return true
		}
		srcSeg := n.Parent().Segment()
		dstSeg := n.Segment()
		prev := n.RatioRangeInPreviousAxisSegment()
		next := n.RatioRangeInNextAxisSegment()
		src := spans[srcSeg].Sub(prev.Start, prev.End)
		dst := spans[dstSeg].Sub(next.Start, next.End)
		x := sc.Axes[n.Depth-2].X
		destX := sc.Axes[n.Depth-1].X

		sc.Ribbons = append(sc.Ribbons, RibbonShape{
			Labels: n.Labels(),
			Group:  n.Path.Segments[0].Index,
			Depth:  n.Depth,
			Count:  n.Count(),
			Ratio:  n.Ratio(),
			Source: src,
			Dest:   dst,
			Ribbon: NewRibbon(src, dst, x, destX, sc.Tension),
		})
		return true
	})
	return sc
}
