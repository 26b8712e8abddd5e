package sink

import (
	"encoding/json"

	"github.com/matzehuels/parsets/pkg/dataset"
	"github.com/matzehuels/parsets/pkg/geometry"
	"github.com/matzehuels/parsets/pkg/parsets"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	scene    *geometry.Scene
	buildID  string
	maxDepth int
}

// WithJSONScene includes the positioned shapes alongside the model.
func WithJSONScene(sc *geometry.Scene) JSONOption { return func(r *jsonRenderer) { r.scene = sc } }

// WithJSONBuildID records the build identifier in the output.
func WithJSONBuildID(id string) JSONOption { return func(r *jsonRenderer) { r.buildID = id } }

// WithJSONMaxDepth truncates the exported tree below depth d. Zero or
// negative exports the full tree.
func WithJSONMaxDepth(d int) JSONOption { return func(r *jsonRenderer) { r.maxDepth = d } }

// ModelDocument is the JSON form of a model.
type ModelDocument struct {
	BuildID    string          `json:"build_id,omitempty"`
	Dimensions []string        `json:"dimensions"`
	Total      int             `json:"total"`
	Axes       []AxisDocument  `json:"axes"`
	Tree       NodeDocument    `json:"tree"`
	Scene      *geometry.Scene `json:"scene,omitempty"`
}

// AxisDocument is the JSON form of an axis.
type AxisDocument struct {
	Dimension string            `json:"dimension"`
	Label     string            `json:"label"`
	Segments  []SegmentDocument `json:"segments"`
}

// SegmentDocument is the JSON form of a segment.
type SegmentDocument struct {
	Label         string             `json:"label"`
	Values        []dataset.Value    `json:"values"`
	Count         int                `json:"count"`
	Merged        bool               `json:"merged,omitempty"`
	RawRatio      float64            `json:"raw_ratio"`
	AdjustedRatio float64            `json:"adjusted_ratio"`
	Range         parsets.RatioRange `json:"range"`
}

// NodeDocument is the JSON form of a tree node.
type NodeDocument struct {
	Labels    []string           `json:"labels"`
	Count     int                `json:"count"`
	Ratio     float64            `json:"ratio"`
	PrevRatio float64            `json:"ratio_in_previous"`
	PrevRange parsets.RatioRange `json:"range_in_previous"`
	NextRatio float64            `json:"ratio_in_next"`
	NextRange parsets.RatioRange `json:"range_in_next"`
	Children  []NodeDocument     `json:"children,omitempty"`
}

// RenderJSON exports the model as a pretty-printed JSON document: every axis
// with its segments and ratios, and the partition tree with the ratio ranges
// of each node on both adjacent axes.
//
// RenderJSON does not modify m and is safe to call concurrently.
func RenderJSON(m *parsets.Model, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	return json.MarshalIndent(NewModelDocument(m, r.buildID, r.scene, r.maxDepth), "", "  ")
}

// NewModelDocument builds the JSON form of m. maxDepth <= 0 keeps the whole
// tree.
func NewModelDocument(m *parsets.Model, buildID string, sc *geometry.Scene, maxDepth int) ModelDocument {
	doc := ModelDocument{
		BuildID:    buildID,
		Dimensions: m.Dimensions,
		Total:      m.Total,
		Axes:       make([]AxisDocument, 0, len(m.Dimensions)),
		Tree:       nodeDocument(m.Tree.Root, maxDepth),
		Scene:      sc,
	}
	if doc.Dimensions == nil {
		doc.Dimensions = []string{}
	}
	for _, a := range m.OrderedAxes() {
		ad := AxisDocument{
			Dimension: a.Dimension,
			Label:     a.Label(),
			Segments:  make([]SegmentDocument, 0, len(a.Segments)),
		}
		for _, s := range a.Segments {
			ad.Segments = append(ad.Segments, SegmentDocument{
				Label:         s.Label(),
				Values:        s.Value.Values(),
				Count:         s.Count(),
				Merged:        s.Merged,
				RawRatio:      s.RawRatio,
				AdjustedRatio: s.AdjustedRatio,
				Range:         s.Range,
			})
		}
		doc.Axes = append(doc.Axes, ad)
	}
	return doc
}

func nodeDocument(n *parsets.Node, maxDepth int) NodeDocument {
	d := NodeDocument{
		Labels:    n.Labels(),
		Count:     n.Count(),
		Ratio:     n.Ratio(),
		PrevRatio: n.RatioInPreviousAxisSegment(),
		PrevRange: n.RatioRangeInPreviousAxisSegment(),
		NextRatio: n.RatioInNextAxisSegment(),
		NextRange: n.RatioRangeInNextAxisSegment(),
	}
	if maxDepth > 0 && n.Depth >= maxDepth {
		return d
	}
	for _, c := range n.Children {
		d.Children = append(d.Children, nodeDocument(c, maxDepth))
	}
	return d
}
