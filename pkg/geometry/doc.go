// Package geometry turns a parsets model into drawable shapes.
//
// A [Frame] fixes the viewport: axes are vertical lines spread across the
// width, and segments are stacked top to bottom with a small gap between
// them. [NewRibbon] builds the outline of a single ribbon from two vertical
// spans and the x positions of their axes, and [NewScene] does this for
// every tree node of a model.
//
// The tension parameter controls how far the Bézier control points sit from
// their own axis:
//
//	controlX1 = t*x + (1-t)*destX
//	controlX2 = t*destX + (1-t)*x
//
// Both sides of a ribbon share the pair, taking y from their own endpoints.
package geometry
