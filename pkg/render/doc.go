// Package render groups the static renderers for computed provenance views.
//
// The interactive viewer serves [view.Snapshot] values as JSON; the
// renderers here turn the same snapshots into files for reports and
// documentation.
//
//   - [nodelink]: Graphviz node-link diagrams (DOT, SVG, PNG) with the
//     snapshot's positions pinned
//
// [view.Snapshot]: github.com/matzehuels/provgraph/pkg/view.Snapshot
// [nodelink]: github.com/matzehuels/provgraph/pkg/render/nodelink
package render
