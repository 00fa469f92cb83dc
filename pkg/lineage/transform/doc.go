// Package transform provides the pure graph transformations behind the
// provenance viewer: tier collapsing, connectivity tracing and name/type
// filtering.
//
// # Overview
//
// A provenance graph of a feature store quickly grows to hundreds of nodes,
// most of them training datasets and models. The viewer keeps it readable by
// running every frame through a small pipeline:
//
//  1. [Collapse] replaces collapsed tiers with one aggregate node each
//  2. [Trace] computes the upstream and downstream closure of a selected node
//  3. [Restrict] narrows the graph to the traced subset
//  4. [Filter] keeps nodes matching a label substring and tier
//
// All functions are pure: they never mutate their inputs and never fail.
// Edges that reference unknown nodes are dropped silently.
//
// # Collapsing
//
// [Collapse] hides every member of a collapsed tier behind a synthetic node
// with id "collapsed-<tier>". Edges touching hidden nodes are redirected to
// the aggregate and merged by their resolved endpoints:
//
//	Before: fv-1→td-1, fv-1→td-2, fv-1→td-3
//	After:  fv-1→collapsed-trainingDataset (count 3)
//
// Synthetic edge ids are derived from the resolved endpoints
// ("edge-<source>-<target>"), so collapsing the same graph twice yields
// identical output.
//
// # Tracing
//
// [Trace] walks parents and children of the start node with one visited set
// per direction, so cyclic input terminates. Parallel edges are all
// highlighted. Callers are expected to trace over the fully expanded edge
// set; tracing a collapsed view would hide connections behind aggregates.
//
// # Filtering
//
// [Filter] applies a [Criteria] of case-insensitive label substring and tier.
// Aggregate nodes match by the tier they stand in for. An edge survives only
// if both endpoints do.
package transform
