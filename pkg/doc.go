// Package pkg provides the core libraries for provgraph, a provenance graph
// viewer for machine-learning pipelines.
//
// # Overview
//
// A provenance graph links data sources through feature groups, feature
// views and training datasets to models and their deployments. Real
// graphs hold thousands of nodes, so provgraph collapses whole tiers into
// aggregate nodes, traces the lineage of a selected node and filters by
// name or type before laying the result out on a grid.
//
// # Architecture
//
// The typical data flow:
//
//	JSON/TOML graph file (or the built-in fixture)
//	         ↓
//	    [io] package (import)
//	         ↓
//	    [lineage/transform] package (collapse, trace, filter)
//	         ↓
//	    [layout] package (tier columns, grid snapping, pinned positions)
//	         ↓
//	    [view] package (interactive state → Snapshot)
//	         ↓
//	    [render/nodelink] package (DOT, SVG, PNG)
//
// # Quick Start
//
// Build a view over the fixture graph and render it:
//
//	import (
//	    "github.com/matzehuels/provgraph/pkg/lineage/fixture"
//	    "github.com/matzehuels/provgraph/pkg/render/nodelink"
//	    "github.com/matzehuels/provgraph/pkg/view"
//	)
//
//	ctrl := view.New(fixture.Provenance(), view.DefaultConfig())
//	snap := ctrl.SelectNode("model-42")
//	dot := nodelink.ToDOT(snap, nodelink.Options{})
//	svg, _ := nodelink.RenderSVG(ctx, dot)
//
// # Main Packages
//
// [lineage] - Nodes, edges, tiers and the immutable graph with validation
// and cycle detection.
//
// [lineage/transform] - Pure transformations: [transform.Collapse],
// [transform.Trace] and [transform.Filter].
//
// [layout] - Deterministic positions with per-node overrides.
//
// [view] - The controller holding collapse, selection, filter and drag
// state. Every operation returns a fresh snapshot.
//
// [io] - Graph and snapshot serialization.
//
// [pipeline] - Load → view → render, shared by the CLI and the server.
//
// [cache] - Content-addressed artifact cache (file, Redis, null).
//
// [errors] - Structured error codes used across all packages.
//
// [lineage]: https://pkg.go.dev/github.com/matzehuels/provgraph/pkg/lineage
// [lineage/transform]: https://pkg.go.dev/github.com/matzehuels/provgraph/pkg/lineage/transform
// [transform.Collapse]: https://pkg.go.dev/github.com/matzehuels/provgraph/pkg/lineage/transform#Collapse
// [transform.Trace]: https://pkg.go.dev/github.com/matzehuels/provgraph/pkg/lineage/transform#Trace
// [transform.Filter]: https://pkg.go.dev/github.com/matzehuels/provgraph/pkg/lineage/transform#Filter
// [layout]: https://pkg.go.dev/github.com/matzehuels/provgraph/pkg/layout
// [view]: https://pkg.go.dev/github.com/matzehuels/provgraph/pkg/view
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/provgraph/pkg/render/nodelink
// [io]: https://pkg.go.dev/github.com/matzehuels/provgraph/pkg/io
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/provgraph/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/provgraph/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/provgraph/pkg/errors
package pkg
