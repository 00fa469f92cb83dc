// Package layout computes deterministic grid positions for a visible
// provenance graph.
//
// # Columns and Rows
//
// The horizontal axis is fixed by tier: sources in column 0 through
// deployments in column 5, one [Options.ColumnSpacing] apart. Unknown types
// land in the last column. Graph depth only matters for placement order.
//
// Vertically, a node is centered on the mean y of its parents and fanned out
// by its rank among siblings sharing the same parent set:
//
//	y = centroid(parents) + (rank - (n-1)/2) * RowSpacing
//
// Nodes without parents are centered the same way around [Options.BaseRow]
// within their tier. Aggregate nodes are pinned to (column, BaseRow).
//
// # Snapping and Overrides
//
// Every computed coordinate is rounded to the nearest multiple of
// [Options.Grid]. Positions in [Overrides] replace the computed ones as-is;
// removing them restores exactly the computed layout.
//
// # Styling
//
// [Compute] also resolves the visual attributes a renderer needs when a trace
// is active: faded opacity for nodes and edges outside the highlight, raised
// stacking order inside it, and per-edge curvature, stroke width and
// connection-count labels for aggregated edges.
package layout
