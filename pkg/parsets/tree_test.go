package parsets

import (
	"fmt"
	"math"
	"math/rand"
	"slices"
	"testing"

	"github.com/matzehuels/parsets/pkg/dataset"
)

func rowsAB(pairs ...[2]any) dataset.Dataset {
	rows := make(dataset.Dataset, len(pairs))
	for i, p := range pairs {
		rows[i] = dataset.Datum{"A": toValue(p[0]), "B": toValue(p[1])}
	}
	return rows
}

func toValue(v any) dataset.Value {
	switch x := v.(type) {
	case string:
		return dataset.String(x)
	case int:
		return dataset.Number(float64(x))
	default:
		return dataset.Missing()
	}
}

// randomRows generates n records over dims with a few values each.
func randomRows(seed int64, n int, dims ...string) dataset.Dataset {
	rng := rand.New(rand.NewSource(seed))
	rows := make(dataset.Dataset, n)
	for i := range rows {
		row := dataset.Datum{"row": dataset.Number(float64(i))}
		for j, d := range dims {
			if rng.Intn(10) == 0 {
				continue
			}
			row[d] = dataset.String(fmt.Sprintf("v%d", rng.Intn(2+j)))
		}
		rows[i] = row
	}
	return rows
}

func TestBuildIndependentDimensions(t *testing.T) {
	data := rowsAB([2]any{1, "x"}, [2]any{1, "y"}, [2]any{2, "x"}, [2]any{2, "y"})

	m, err := Build(data, []string{"A", "B"}, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	a := m.Axes["A"]
	if got := labels(a); got != "1|2" {
		t.Fatalf("axis A = %q, want 1|2", got)
	}
	for _, s := range a.Segments {
		if s.AdjustedRatio != 0.5 {
			t.Errorf("segment %s ratio = %v, want 0.5", s.Label(), s.AdjustedRatio)
		}
	}

	root := m.Tree.Root
	if len(root.Children) != 2 {
		t.Fatalf("root children = %d, want 2", len(root.Children))
	}
	a1 := root.Children[0]
	if a1.Count() != 2 || a1.Segment().Label() != "1" {
		t.Fatalf("first child = %v with %d rows, want A=1 with 2", a1.Labels(), a1.Count())
	}
	if len(a1.Children) != 2 {
		t.Fatalf("A=1 children = %d, want 2", len(a1.Children))
	}
	for i, want := range []string{"x", "y"} {
		c := a1.Children[i]
		if c.Segment().Label() != want || c.Count() != 1 {
			t.Errorf("child %d = %v with %d rows", i, c.Labels(), c.Count())
		}
		if c.RatioInPreviousAxisSegment() != 0.5 {
			t.Errorf("child %s ratio in previous = %v, want 0.5", want, c.RatioInPreviousAxisSegment())
		}
		if !c.IsLeaf() || c.State() != StateLeaf {
			t.Errorf("child %s should be a leaf", want)
		}
	}
	if got := a1.Children[1].RatioRangeInPreviousAxisSegment(); got != (RatioRange{0.5, 1}) {
		t.Errorf("second child previous range = %+v, want [0.5,1)", got)
	}
}

func TestBuildCorrelatedDimensions(t *testing.T) {
	data := rowsAB([2]any{1, "x"}, [2]any{1, "x"}, [2]any{2, "y"}, [2]any{2, "y"}, [2]any{2, "y"})

	m, err := Build(data, []string{"A", "B"}, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for _, a := range m.Tree.Root.Children {
		if len(a.Children) != 1 {
			t.Fatalf("A=%s should have exactly one child, got %d", a.Segment().Label(), len(a.Children))
		}
		b := a.Children[0]
		if b.RatioInPreviousAxisSegment() != 1 {
			t.Errorf("A=%s B=%s ratio in previous = %v, want 1", a.Segment().Label(), b.Segment().Label(), b.RatioInPreviousAxisSegment())
		}
		if b.RatioInNextAxisSegment() != 1 {
			t.Errorf("A=%s B=%s ratio in next = %v, want 1", a.Segment().Label(), b.Segment().Label(), b.RatioInNextAxisSegment())
		}
	}
}

func TestTreePartitionLaw(t *testing.T) {
	dims := []string{"A", "B", "C", "D"}
	data := randomRows(7, 500, dims...)

	m, err := Build(data, dims, Config{"C": {MaxSegmentCount: 2}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	m.Tree.Walk(func(n *Node) bool {
		if len(n.Children) == 0 {
			return true
		}
		sum := 0
		for _, c := range n.Children {
			if c.Count() == 0 {
				t.Errorf("empty node %v", c.Labels())
			}
			sum += c.Count()
		}
		if sum != n.Count() {
			t.Errorf("node %v: children sum %d, want %d", n.Labels(), sum, n.Count())
		}
		return true
	})
}

func TestTreeCoverageUnderPermutation(t *testing.T) {
	dims := []string{"A", "B", "C"}
	data := randomRows(11, 200, dims...)

	perms := [][]string{
		{"A", "B", "C"}, {"A", "C", "B"}, {"B", "A", "C"},
		{"B", "C", "A"}, {"C", "A", "B"}, {"C", "B", "A"},
	}
	for _, order := range perms {
		m, err := Build(data, order, nil)
		if err != nil {
			t.Fatalf("Build(%v): %v", order, err)
		}
		seen := make(map[dataset.Value]int)
		for _, leaf := range m.Tree.Leaves() {
			if leaf.Depth != len(order) {
				t.Errorf("leaf at depth %d", leaf.Depth)
			}
			for _, row := range leaf.Data() {
				seen[row.Get("row")]++
			}
		}
		if len(seen) != len(data) {
			t.Errorf("order %v reaches %d rows, want %d", order, len(seen), len(data))
		}
		for id, n := range seen {
			if n != 1 {
				t.Errorf("order %v: row %v reached %d times", order, id, n)
			}
		}
	}
}

func TestTreeRatiosTile(t *testing.T) {
	dims := []string{"A", "B", "C"}
	data := randomRows(3, 300, dims...)

	m, err := Build(data, dims, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	m.Tree.Walk(func(n *Node) bool {
		if len(n.Children) == 0 {
			return true
		}
		sum := 0.0
		for _, c := range n.Children {
			sum += c.RatioInPreviousAxisSegment()
		}
		if math.Abs(sum-n.RatioInNextAxisSegment()) > epsilon {
			t.Errorf("node %v: children cover %v of %v", n.Labels(), sum, n.RatioInNextAxisSegment())
		}
		last := n.Children[len(n.Children)-1].RatioRangeInPreviousAxisSegment()
		if math.Abs(last.End-n.RatioRangeInNextAxisSegment().End) > epsilon {
			t.Errorf("node %v: children end at %v, want %v", n.Labels(), last.End, n.RatioRangeInNextAxisSegment().End)
		}
		return true
	})
}

func TestTreeWalkIsBreadthFirst(t *testing.T) {
	dims := []string{"A", "B", "C"}
	m, err := Build(randomRows(5, 100, dims...), dims, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	var depths []int
	m.Tree.Walk(func(n *Node) bool {
		depths = append(depths, n.Depth)
		return true
	})
	if !slices.IsSorted(depths) {
		t.Errorf("walk depths not non-decreasing: %v", depths)
	}
	if len(depths) != m.Tree.Len() {
		t.Errorf("Len() = %d, walked %d", m.Tree.Len(), len(depths))
	}

	visited := 0
	m.Tree.Walk(func(*Node) bool {
		visited++
		return visited < 3
	})
	if visited != 3 {
		t.Errorf("walk should stop after 3 nodes, visited %d", visited)
	}
}

func TestNodeRatio(t *testing.T) {
	data := rowsAB([2]any{"a", "x"}, [2]any{"a", "y"}, [2]any{"b", "x"}, [2]any{"a", "x"})
	m, err := Build(data, []string{"A", "B"}, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	ax := m.Tree.Root.Children[0].Children[0]
	if ax.Ratio() != 0.5 {
		t.Errorf("Ratio() = %v, want 0.5", ax.Ratio())
	}
	if got := ax.Labels(); !slices.Equal(got, []string{"a", "x"}) {
		t.Errorf("Labels() = %v", got)
	}
	if ax.Parent() != m.Tree.Root.Children[0] {
		t.Error("Parent() mismatch")
	}
	if m.Tree.Root.State() != StateRoot || m.Tree.Root.Children[0].State() != StateInternal {
		t.Error("unexpected states")
	}
	if m.Tree.Root.RatioInPreviousAxisSegment() != 1 {
		t.Error("root should report ratio 1")
	}
}
