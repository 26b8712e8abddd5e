// Package parsets computes the layout model behind a parallel sets chart.
//
// # Overview
//
// A parallel sets chart draws one axis per categorical dimension. Each axis
// is split into segments, one per category, sized by the share of records in
// that category. Ribbons connect segments of neighbouring axes, and a
// ribbon's thickness is the number of records that belong to every segment
// it passes through.
//
// This package turns records plus an ordered dimension list into that
// structure. It has no notion of pixels; everything is expressed as ratios in
// [0,1] that a renderer scales to its viewport (see package geometry).
//
// # Building a Model
//
// [Build] is the single entry point. It validates the inputs, builds an
// [Axis] per dimension, indexes every ribbon path in a [PathIndex] and grows
// a [Tree] over the full dimension sequence:
//
//	m, err := parsets.Build(rows, []string{"Class", "Age", "Survived"}, parsets.Config{
//	    "":      {MaxSegmentCount: 6},
//	    "Class": {Label: "Ticket class", ValueSorting: parsets.CompareAsc},
//	})
//	if err != nil {
//	    return err
//	}
//	m.Tree.Walk(func(n *parsets.Node) bool {
//	    fmt.Println(n.Labels(), n.Count())
//	    return true
//	})
//
// A Model is an immutable snapshot. Rebuild it whenever the records or the
// dimension list change.
//
// # Segments and Merging
//
// [NewAxis] groups records by strict value equality in first-encounter order
// and optionally sorts the groups with a [Comparator]. When more groups exist
// than [AxisConfig.MaxSegmentCount] allows, the tail is folded into a single
// merged segment. [AxisConfig.MergedSegmentMaxRatio] caps how much of the
// axis that merged segment may occupy; the excess is handed back to the
// normal segments in proportion to their raw size, so the adjusted ratios of
// an axis always sum to 1.
//
// # Ratios in the Tree
//
// Every non-root [Node] describes the records sharing one value chain across
// the first Depth dimensions. The node sits inside two segments: the one on
// the previous axis, covered by [Node.RatioRangeInPreviousAxisSegment], and
// its own terminal segment, covered by [Node.RatioRangeInNextAxisSegment].
// Both are derived from real record counts, so correlated dimensions produce
// correct ribbons.
//
// # Concurrency
//
// Build is pure and holds no shared state. A finished Model is read-only and
// safe for concurrent readers.
package parsets
