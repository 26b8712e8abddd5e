package parsets

import "github.com/matzehuels/parsets/pkg/dataset"

// NodeState classifies a tree node.
type NodeState int

const (
	// StateRoot is the node before any dimension is consumed.
	StateRoot NodeState = iota
	// StateInternal is a node with further dimensions below it.
	StateInternal
	// StateLeaf is a node at full depth.
	StateLeaf
)

func (s NodeState) String() string {
	switch s {
	case StateRoot:
		return "root"
	case StateInternal:
		return "internal"
	default:
		return "leaf"
	}
}

// Node is one partition of the records by the value chain of the first
// Depth dimensions.
//
// A node owns its children. The parent pointer is for ratio lookups only.
type Node struct {
	Depth    int
	Path     *RibbonPath
	Children []*Node

	parent    *Node
	total     int
	maxDepth  int
	prevRange RatioRange
}

// Parent returns the parent node, or nil for the root.
func (n *Node) Parent() *Node { return n.parent }

// IsRoot reports whether n is the root.
func (n *Node) IsRoot() bool { return n.parent == nil }

// IsLeaf reports whether n sits at full depth.
func (n *Node) IsLeaf() bool { return n.Depth == n.maxDepth }

// State returns the node's classification.
func (n *Node) State() NodeState {
	switch {
	case n.IsRoot():
		return StateRoot
	case n.IsLeaf():
		return StateLeaf
	default:
		return StateInternal
	}
}

// Data returns the node's records.
func (n *Node) Data() dataset.Dataset { return n.Path.Data }

// Count returns the number of records in the node.
func (n *Node) Count() int { return len(n.Path.Data) }

// Ratio returns the node's share of all records.
func (n *Node) Ratio() float64 { return ratio(n.Count(), n.total) }

// Segment returns the segment the node ends in, or nil for the root.
func (n *Node) Segment() *Segment { return n.Path.Terminal() }

// Labels returns the segment labels along the node's path.
func (n *Node) Labels() []string { return n.Path.Labels() }

// RatioInNextAxisSegment is the share of the node's own terminal segment it
// occupies.
func (n *Node) RatioInNextAxisSegment() float64 { return n.Path.Range.Width() }

// RatioRangeInNextAxisSegment locates the node inside its terminal segment.
func (n *Node) RatioRangeInNextAxisSegment() RatioRange { return n.Path.Range }

// RatioInPreviousAxisSegment is the share of the parent's terminal segment
// the node occupies: the node's fraction of the parent's records times the
// parent's own share of that segment. The root reports 1.
func (n *Node) RatioInPreviousAxisSegment() float64 {
	if n.parent == nil {
		return 1
	}
	return ratio(n.Count(), n.parent.Count()) * n.parent.RatioInNextAxisSegment()
}

// RatioRangeInPreviousAxisSegment locates the node inside the parent's
// terminal segment. Siblings tile the parent's next-axis range in axis order.
func (n *Node) RatioRangeInPreviousAxisSegment() RatioRange { return n.prevRange }

// Tree is the recursive partition of the records across all dimensions.
type Tree struct {
	Root  *Node
	Total int
	Depth int
}

// NewTree grows the tree over axes, looking paths up in index.
//
// The root holds every record with an empty path and range [0,1). A node at
// depth d gets a child for each segment of axis d whose extended chain
// exists in the index, in axis order. Chains without records are absent
// from the index, so empty nodes are never created.
func NewTree(data dataset.Dataset, axes []*Axis, index *PathIndex) *Tree {
	root := &Node{
		Path:      &RibbonPath{Data: data, Range: RatioRange{Start: 0, End: 1}},
		total:     len(data),
		maxDepth:  len(axes),
		prevRange: RatioRange{Start: 0, End: 1},
	}

	queue := []*Node{root}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if n.Depth >= len(axes) {
			continue
		}

		offset := n.Path.Range.Start
		for _, s := range axes[n.Depth].Segments {
			chain := make([]*Segment, len(n.Path.Segments)+1)
			copy(chain, n.Path.Segments)
			chain[len(n.Path.Segments)] = s
			p, ok := index.Lookup(chain...)
			if !ok {
				continue
			}

			child := &Node{
				Depth:    n.Depth + 1,
				Path:     p,
				parent:   n,
				total:    root.total,
				maxDepth: root.maxDepth,
			}
			w := child.RatioInPreviousAxisSegment()
			child.prevRange = RatioRange{Start: offset, End: offset + w}
			offset = child.prevRange.End

			n.Children = append(n.Children, child)
			queue = append(queue, child)
		}
	}

	return &Tree{Root: root, Total: len(data), Depth: len(axes)}
}

// Walk visits the nodes breadth-first, children in axis order. Returning
// false from fn stops the walk.
func (t *Tree) Walk(fn func(*Node) bool) {
	queue := []*Node{t.Root}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if !fn(n) {
			return
		}
		queue = append(queue, n.Children...)
	}
}

// Leaves returns the full-depth nodes in breadth-first order.
func (t *Tree) Leaves() []*Node {
	var out []*Node
	t.Walk(func(n *Node) bool {
		if n.IsLeaf() {
			out = append(out, n)
		}
		return true
	})
	return out
}

// Len returns the number of nodes, the root included.
func (t *Tree) Len() int {
	count := 0
	t.Walk(func(*Node) bool {
		count++
		return true
	})
	return count
}
