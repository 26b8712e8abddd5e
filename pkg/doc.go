// Package pkg provides the core libraries for parsets, a parallel-sets
// layout engine for categorical data.
//
// # Overview
//
// A parallel-sets chart draws one axis per categorical dimension, one
// segment per value on each axis, and ribbons between adjacent axes whose
// widths follow the number of records sharing a value chain. The pkg
// directory is organized into these areas:
//
//  1. [dataset] - Records, values and loaders (CSV, JSON, MongoDB)
//  2. [parsets] - The model: axes, segments, the path index and the ribbon tree
//  3. [geometry] - Projection of a model onto a frame (axis positions, ribbon curves)
//  4. [render] - Output formats (SVG, JSON, Graphviz DOT, PNG, PDF)
//  5. [pipeline] - Orchestration (load → build → render) with caching
//  6. [cache] - File, Redis and null caches with deterministic keys
//
// # Architecture
//
// The typical data flow through parsets:
//
//	CSV / JSON / MongoDB
//	         ↓
//	    [dataset] package (records with typed values)
//	         ↓
//	    [parsets] package (axes, paths, partition tree)
//	         ↓
//	    [geometry] package (scene: axis spans and ribbon shapes)
//	         ↓
//	    [render/sink] package (SVG/JSON/DOT/PNG/PDF)
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/parsets/pkg/dataset"
//	    "github.com/matzehuels/parsets/pkg/geometry"
//	    "github.com/matzehuels/parsets/pkg/parsets"
//	    "github.com/matzehuels/parsets/pkg/render/sink"
//	)
//
//	// 1. Load records
//	data, _ := dataset.ImportFile("titanic.csv")
//
//	// 2. Build the model, merging rare classes
//	m, _ := parsets.Build(data, []string{"Class", "Sex", "Survived"}, parsets.Config{
//	    "Class": {MaxSegmentCount: 3, MergedSegmentLabel: "Other"},
//	})
//
//	// 3. Lay it out and render to SVG
//	scene := geometry.NewScene(m, geometry.NewFrame(960, 600), 1.0)
//	svg := sink.RenderSVG(scene)
//
// Most callers go through [pipeline] instead, which adds validation,
// defaults and caching on top of these steps.
//
// [dataset]: https://pkg.go.dev/github.com/matzehuels/parsets/pkg/dataset
// [parsets]: https://pkg.go.dev/github.com/matzehuels/parsets/pkg/parsets
// [geometry]: https://pkg.go.dev/github.com/matzehuels/parsets/pkg/geometry
// [render]: https://pkg.go.dev/github.com/matzehuels/parsets/pkg/render
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/parsets/pkg/render/sink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/parsets/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/parsets/pkg/cache
package pkg
