// Package io reads and writes provenance graphs and computed views.
//
// # Formats
//
// Graphs are stored as JSON or TOML. Both carry the same two lists. JSON
// uses the front-end node shape:
//
//	{
//	  "nodes": [
//	    {"id": "source-1", "type": "source", "label": "Customer Database",
//	     "metadata": {"type": "MySQL", "connectorType": "JDBC"}},
//	    {"id": "fg-1", "type": "featureGroup", "label": "Customer Features"}
//	  ],
//	  "edges": [
//	    {"id": "e-s1-fg1", "source": "source-1", "target": "fg-1"}
//	  ]
//	}
//
// TOML uses arrays of tables with a metadata sub-table per node:
//
//	[[nodes]]
//	id = "source-1"
//	type = "source"
//	label = "Customer Database"
//
//	[nodes.metadata]
//	type = "MySQL"
//
//	[[edges]]
//	id = "e-s1-fg1"
//	source = "source-1"
//	target = "fg-1"
//
// The metadata payload is decoded according to the node type; unknown types
// keep no metadata. A missing group defaults to the type.
//
// # Import
//
// [Import] picks the decoder from the file extension. [ReadJSON] and
// [ReadTOML] decode from any reader. Decoding never validates graph
// structure: dangling edges and duplicate ids are left for
// [lineage.Graph.Validate] to report.
//
// # Export
//
// [Export], [WriteJSON] and [WriteTOML] write graphs back in the same
// formats, so import followed by export is lossless. [WriteSnapshot] encodes
// a computed [view.Snapshot] with positions and styles for external
// renderers.
//
// All failures are returned as *errors.Error values from
// github.com/matzehuels/provgraph/pkg/errors with INVALID_FORMAT,
// INVALID_PATH or FILE_NOT_FOUND codes.
package io
