package parsets

// PathIndex holds every non-empty ribbon path of a sequence of axes, keyed
// both by terminal segment and by full chain.
type PathIndex struct {
	bySegment map[*Segment][]*RibbonPath
	byChain   map[string]*RibbonPath
	depth     int
}

// NewPathIndex enumerates the ribbon paths across axes.
//
// Paths of the first axis are its segments. For every later axis, each
// segment s extends the paths recorded at every segment of the previous axis
// (axis order, then recorded order) and keeps the records that also match s.
// Empty results are dropped. Within s the surviving paths receive contiguous
// ranges of width |path|/|s| in enumeration order.
func NewPathIndex(axes []*Axis) *PathIndex {
	idx := &PathIndex{
		bySegment: make(map[*Segment][]*RibbonPath),
		byChain:   make(map[string]*RibbonPath),
		depth:     len(axes),
	}

	for d, axis := range axes {
		for _, s := range axis.Segments {
			var paths []*RibbonPath
			if d == 0 {
				paths = append(paths, &RibbonPath{
					Segments: []*Segment{s},
					Data:     s.Data,
					Range:    RatioRange{Start: 0, End: 1},
				})
			} else {
				for _, prevSeg := range axes[d-1].Segments {
					for _, prev := range idx.bySegment[prevSeg] {
						rows := filterBy(prev.Data, axis.Dimension, s)
						if len(rows) == 0 {
							continue
						}
						chain := make([]*Segment, len(prev.Segments)+1)
						copy(chain, prev.Segments)
						chain[len(prev.Segments)] = s
						paths = append(paths, &RibbonPath{Segments: chain, Data: rows})
					}
				}
				offset := 0.0
				for _, p := range paths {
					w := ratio(len(p.Data), s.Count())
					p.Range = RatioRange{Start: offset, End: offset + w}
					offset = p.Range.End
				}
			}

			idx.bySegment[s] = paths
			for _, p := range paths {
				idx.byChain[p.key()] = p
			}
		}
	}
	return idx
}

// PathsAt returns the paths ending in s, in enumeration order.
func (x *PathIndex) PathsAt(s *Segment) []*RibbonPath { return x.bySegment[s] }

// Lookup returns the path with exactly the given chain of segments.
func (x *PathIndex) Lookup(chain ...*Segment) (*RibbonPath, bool) {
	if len(chain) == 0 || len(chain) > x.depth {
		return nil, false
	}
	p, ok := x.byChain[chainKey(chain)]
	return p, ok
}

// Len returns the number of indexed paths.
func (x *PathIndex) Len() int { return len(x.byChain) }

// Depth returns the number of indexed axes.
func (x *PathIndex) Depth() int { return x.depth }
