package geometry

import (
	"strconv"
	"strings"
)

// Point is a position in frame coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Span is a vertical extent on an axis, Y0 above Y1.
type Span struct {
	Y0 float64 `json:"y0"`
	Y1 float64 `json:"y1"`
}

// Height returns Y1 - Y0.
func (s Span) Height() float64 { return s.Y1 - s.Y0 }

// Mid returns the vertical centre of the span.
func (s Span) Mid() float64 { return (s.Y0 + s.Y1) / 2 }

// Sub maps a ratio interval [start, end) of the span onto frame coordinates.
func (s Span) Sub(start, end float64) Span {
	h := s.Height()
	return Span{Y0: s.Y0 + start*h, Y1: s.Y0 + end*h}
}

// Curve is a cubic Bézier segment.
type Curve struct {
	From Point `json:"from"`
	C1   Point `json:"c1"`
	C2   Point `json:"c2"`
	To   Point `json:"to"`
}

// Ribbon is the closed outline joining a span on one axis to a span on the
// next: the upper curve runs from source top to destination top, a vertical
// edge drops to the destination bottom, and the lower curve returns to the
// source bottom.
type Ribbon struct {
	Upper Curve `json:"upper"`
	Lower Curve `json:"lower"`
}

// ClampTension limits t to [0,1].
func ClampTension(t float64) float64 {
	switch {
	case t != t, t < 0:
		return 0
	case t > 1:
		return 1
	}
	return t
}

// ControlX returns the control point x positions of a ribbon between x and
// destX. Tension 1 pins each control to its own end, giving straight sides.
func ControlX(x, destX, tension float64) (cx1, cx2 float64) {
	t := ClampTension(tension)
	cx1 = t*x + (1-t)*destX
	cx2 = t*destX + (1-t)*x
	return cx1, cx2
}

// NewRibbon builds the outline between src at x and dst at destX.
func NewRibbon(src, dst Span, x, destX, tension float64) Ribbon {
	cx1, cx2 := ControlX(x, destX, tension)
	return Ribbon{
		Upper: Curve{
			From: Point{x, src.Y0},
			C1:   Point{cx1, src.Y0},
			C2:   Point{cx2, dst.Y0},
			To:   Point{destX, dst.Y0},
		},
		Lower: Curve{
			From: Point{destX, dst.Y1},
			C1:   Point{cx2, dst.Y1},
			C2:   Point{cx1, src.Y1},
			To:   Point{x, src.Y1},
		},
	}
}

// PathData renders the outline as SVG path data.
func (r Ribbon) PathData() string {
	var b strings.Builder
	b.WriteString("M")
	writePoint(&b, r.Upper.From)
	b.WriteString(" C")
	writePoint(&b, r.Upper.C1)
	b.WriteString(",")
	writePoint(&b, r.Upper.C2)
	b.WriteString(",")
	writePoint(&b, r.Upper.To)
	b.WriteString(" L")
	writePoint(&b, r.Lower.From)
	b.WriteString(" C")
	writePoint(&b, r.Lower.C1)
	b.WriteString(",")
	writePoint(&b, r.Lower.C2)
	b.WriteString(",")
	writePoint(&b, r.Lower.To)
	b.WriteString(" Z")
	return b.String()
}

func writePoint(b *strings.Builder, p Point) {
	b.WriteString(formatCoord(p.X))
	b.WriteByte(' ')
	b.WriteString(formatCoord(p.Y))
}

func formatCoord(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}
