// Package nodelink renders provenance views as Graphviz node-link diagrams.
//
// # Overview
//
// A computed [view.Snapshot] already carries positions, highlight state and
// edge styles. This package translates it into DOT with every node pinned at
// its layout position, so the static output matches the interactive view.
//
// # Usage
//
//	dot := nodelink.ToDOT(snap, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Styling
//
// Nodes are colored by tier. Aggregate nodes are drawn dashed with their
// member count. Nodes and edges outside an active trace are translucent.
// Highlighted edges are blue, derived and aggregated edges are dashed, and
// aggregated edges are labeled with their connection count.
//
// # Options
//
//   - Detailed: When true, node labels include the metadata rows shown in
//     the viewer's tooltips.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process rendering
// with the neato engine, which honors pinned positions.
package nodelink
