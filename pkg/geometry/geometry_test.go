package geometry

import (
	"math"
	"strings"
	"testing"

	"github.com/matzehuels/parsets/pkg/dataset"
	"github.com/matzehuels/parsets/pkg/parsets"
)

const epsilon = 1e-9

func TestControlX(t *testing.T) {
	tests := []struct {
		name     string
		x, destX float64
		tension  float64
		want1    float64
		want2    float64
	}{
		{"full tension", 0, 100, 1, 0, 100},
		{"zero tension", 0, 100, 0, 100, 0},
		{"half", 0, 100, 0.5, 50, 50},
		{"quarter", 0, 100, 0.25, 75, 25},
		{"clamped high", 10, 20, 3, 10, 20},
		{"clamped low", 10, 20, -1, 20, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c1, c2 := ControlX(tt.x, tt.destX, tt.tension)
			if math.Abs(c1-tt.want1) > epsilon || math.Abs(c2-tt.want2) > epsilon {
				t.Errorf("ControlX = (%v, %v), want (%v, %v)", c1, c2, tt.want1, tt.want2)
			}
		})
	}
}

func TestNewRibbon(t *testing.T) {
	r := NewRibbon(Span{10, 20}, Span{30, 50}, 0, 100, 0.25)

	if r.Upper.From != (Point{0, 10}) || r.Upper.To != (Point{100, 30}) {
		t.Errorf("upper endpoints = %+v -> %+v", r.Upper.From, r.Upper.To)
	}
	if r.Upper.C1 != (Point{75, 10}) || r.Upper.C2 != (Point{25, 30}) {
		t.Errorf("upper controls = %+v, %+v", r.Upper.C1, r.Upper.C2)
	}
	if r.Lower.From != (Point{100, 50}) || r.Lower.To != (Point{0, 20}) {
		t.Errorf("lower endpoints = %+v -> %+v", r.Lower.From, r.Lower.To)
	}
	if r.Lower.C1 != (Point{25, 50}) || r.Lower.C2 != (Point{75, 20}) {
		t.Errorf("lower controls = %+v, %+v", r.Lower.C1, r.Lower.C2)
	}

	want := "M0.00 10.00 C75.00 10.00,25.00 30.00,100.00 30.00 L100.00 50.00 C25.00 50.00,75.00 20.00,0.00 20.00 Z"
	if got := r.PathData(); got != want {
		t.Errorf("PathData() =\n  %s\nwant\n  %s", got, want)
	}
}

func TestClampTension(t *testing.T) {
	for in, want := range map[float64]float64{-2: 0, 0: 0, 0.4: 0.4, 1: 1, 7: 1, math.NaN(): 0} {
		if got := ClampTension(in); got != want {
			t.Errorf("ClampTension(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestFrameAxisX(t *testing.T) {
	f := NewFrame(1000, 500)
	tests := []struct {
		i, n int
		want float64
	}{
		{0, 2, 50},
		{1, 2, 500},
		{0, 4, 50},
		{3, 4, 725},
	}
	for _, tt := range tests {
		if got := f.AxisX(tt.i, tt.n); math.Abs(got-tt.want) > epsilon {
			t.Errorf("AxisX(%d, %d) = %v, want %v", tt.i, tt.n, got, tt.want)
		}
	}
}

func TestFrameSegmentSpan(t *testing.T) {
	f := NewFrame(100, 1000)

	s := &parsets.Segment{Range: parsets.RatioRange{Start: 0.5, End: 1}}
	got := f.SegmentSpan(s, 2)
	// gap per segment 0.025, 0.0125 each side
	if math.Abs(got.Y0-512.5) > epsilon || math.Abs(got.Y1-987.5) > epsilon {
		t.Errorf("SegmentSpan = %+v, want {512.5 987.5}", got)
	}

	thin := &parsets.Segment{Range: parsets.RatioRange{Start: 0.2, End: 0.201}}
	got = f.SegmentSpan(thin, 2)
	if got.Y0 != got.Y1 {
		t.Errorf("thin segment should collapse, got %+v", got)
	}
}

func TestNewScene(t *testing.T) {
	row := func(a, b string) dataset.Datum {
		return dataset.Datum{"A": dataset.String(a), "B": dataset.String(b)}
	}
	data := dataset.Dataset{row("1", "x"), row("1", "y"), row("2", "x"), row("2", "y")}
	m, err := parsets.Build(data, []string{"A", "B"}, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	sc := NewScene(m, NewFrame(200, 100), 0.5)
	if len(sc.Axes) != 2 {
		t.Fatalf("axes = %d, want 2", len(sc.Axes))
	}
	if len(sc.Ribbons) != 4 {
		t.Fatalf("ribbons = %d, want 4", len(sc.Ribbons))
	}

	first := sc.Ribbons[0]
	if strings.Join(first.Labels, ">") != "1>x" || first.Count != 1 {
		t.Errorf("first ribbon = %v (%d)", first.Labels, first.Count)
	}
	if first.Ribbon.Upper.From.X != sc.Axes[0].X || first.Ribbon.Upper.To.X != sc.Axes[1].X {
		t.Error("ribbon should join the first two axes")
	}

	// Ribbons leaving one segment stack without overlap.
	second := sc.Ribbons[1]
	if math.Abs(first.Source.Y1-second.Source.Y0) > epsilon {
		t.Errorf("sources should touch: %v vs %v", first.Source.Y1, second.Source.Y0)
	}
	seg := sc.Axes[0].Segments[0].Span
	if math.Abs(first.Source.Y0-seg.Y0) > epsilon || math.Abs(second.Source.Y1-seg.Y1) > epsilon {
		t.Errorf("sources %v..%v should fill segment %+v", first.Source.Y0, second.Source.Y1, seg)
	}
}

func TestNewSceneSingleAxis(t *testing.T) {
	data := dataset.Dataset{{"A": dataset.String("a")}, {"A": dataset.String("b")}}
	m, err := parsets.Build(data, []string{"A"}, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	sc := NewScene(m, NewFrame(100, 100), 1)
	if len(sc.Ribbons) != 0 {
		t.Errorf("single axis should draw no ribbons, got %d", len(sc.Ribbons))
	}
	if len(sc.Axes[0].Segments) != 2 {
		t.Errorf("segments = %d, want 2", len(sc.Axes[0].Segments))
	}
}
