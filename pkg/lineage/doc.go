// Package lineage provides the provenance graph model rendered by provgraph.
//
// # Overview
//
// A provenance graph describes how machine-learning artifacts are derived from
// each other. Nodes belong to one of six tiers that form a fixed pipeline:
//
//	source → featureGroup → featureView → trainingDataset → model → deployment
//
// Each tier occupies its own column when laid out (see [NodeType.Column]).
// A seventh node type, [TypeCollapsedGroup], never appears in input graphs: it
// is synthesized by the collapse engine in the [transform] subpackage to stand
// in for every member of a collapsed tier.
//
// # Basic Usage
//
// Build a [Graph] from node and edge slices with [NewGraph]. The graph is
// immutable after construction and indexes parents and children for fast
// lookup:
//
//	g := lineage.NewGraph(
//	    []lineage.Node{
//	        {ID: "source-1", Type: lineage.TypeSource, Label: "Customer Database"},
//	        {ID: "fg-1", Type: lineage.TypeFeatureGroup, Label: "Customer Features"},
//	    },
//	    []lineage.Edge{{ID: "e-s1-fg1", Source: "source-1", Target: "fg-1"}},
//	)
//	g.Children("source-1") // ["fg-1"]
//
// # Metadata
//
// Node metadata is a tagged union keyed by node type. Each tier has its own
// payload struct ([SourceMeta], [FeatureGroupMeta], ...) so callers get typed
// access, while JSON encoding keeps the flat {"metadata": {...}} shape used by
// front ends. [Metadata.Fields] returns ordered label/value pairs for
// tooltips.
//
// # Malformed Input
//
// The graph never rejects input. Duplicate ids, dangling edge endpoints and
// unknown node types are reported by [Graph.Validate] as [Issue] values and
// are otherwise tolerated: dangling edges are skipped by the index and every
// downstream stage drops them silently.
//
// # Cycles
//
// Provenance graphs are acyclic by convention but cycles are tolerated.
// [Graph.CyclicComponents] reports strongly connected components so callers
// can warn about them.
//
// [transform]: github.com/matzehuels/provgraph/pkg/lineage/transform
package lineage
