package lineage

import (
	"fmt"
	"slices"
)

// Graph is an immutable provenance graph with parent/child indices.
//
// The zero value is an empty graph. Use [NewGraph] to build one; the node
// and edge slices passed in are copied. Graph is safe for concurrent reads.
type Graph struct {
	nodes    []Node
	edges    []Edge
	byID     map[string]int
	children map[string][]string
	parents  map[string][]string
}

// NewGraph indexes nodes and edges. The first node wins when ids repeat and
// edges with unknown endpoints are kept in [Graph.Edges] but left out of the
// parent/child index; see [Graph.Validate] for reporting.
func NewGraph(nodes []Node, edges []Edge) *Graph {
	g := &Graph{
		nodes:    slices.Clone(nodes),
		edges:    slices.Clone(edges),
		byID:     make(map[string]int, len(nodes)),
		children: make(map[string][]string),
		parents:  make(map[string][]string),
	}
	for i, n := range g.nodes {
		if _, dup := g.byID[n.ID]; !dup {
			g.byID[n.ID] = i
		}
	}
	for _, e := range g.edges {
		if !g.HasNode(e.Source) || !g.HasNode(e.Target) {
			continue
		}
		g.children[e.Source] = append(g.children[e.Source], e.Target)
		g.parents[e.Target] = append(g.parents[e.Target], e.Source)
	}
	return g
}

// Nodes returns a copy of the nodes in input order.
func (g *Graph) Nodes() []Node { return slices.Clone(g.nodes) }

// Edges returns a copy of the edges in input order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// NodeCount returns the number of nodes, duplicates included.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges, dangling ones included.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Node returns the node with the given id.
func (g *Graph) Node(id string) (Node, bool) {
	i, ok := g.byID[id]
	if !ok {
		return Node{}, false
	}
	return g.nodes[i], true
}

// HasNode reports whether a node with the given id exists.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.byID[id]
	return ok
}

// Children returns the targets of edges leaving id. The slice must not be
// modified.
func (g *Graph) Children(id string) []string { return g.children[id] }

// Parents returns the sources of edges entering id. The slice must not be
// modified.
func (g *Graph) Parents(id string) []string { return g.parents[id] }

// Sources returns the ids of nodes without parents, in input order.
func (g *Graph) Sources() []string {
	var out []string
	for _, n := range g.nodes {
		if len(g.parents[n.ID]) == 0 {
			out = append(out, n.ID)
		}
	}
	return out
}

// Sinks returns the ids of nodes without children, in input order.
func (g *Graph) Sinks() []string {
	var out []string
	for _, n := range g.nodes {
		if len(g.children[n.ID]) == 0 {
			out = append(out, n.ID)
		}
	}
	return out
}

// GroupInfo summarizes one tier of the graph.
type GroupInfo struct {
	Group NodeType `json:"group"`
	Label string   `json:"label"`
	Count int      `json:"count"`
}

// Groups returns every group present in the graph with its member count.
// Tiers come first in column order, followed by unknown groups in order of
// first appearance.
func (g *Graph) Groups() []GroupInfo {
	counts := make(map[string]int)
	var extra []string
	for _, n := range g.nodes {
		if _, seen := counts[n.Group]; !seen && !NodeType(n.Group).IsTier() {
			extra = append(extra, n.Group)
		}
		counts[n.Group]++
	}
	var out []GroupInfo
	for _, t := range Tiers {
		if c := counts[string(t)]; c > 0 {
			out = append(out, GroupInfo{Group: t, Label: t.Label(), Count: c})
		}
	}
	for _, grp := range extra {
		out = append(out, GroupInfo{Group: NodeType(grp), Label: grp, Count: counts[grp]})
	}
	return out
}

// IssueKind classifies a problem found by [Graph.Validate].
type IssueKind string

const (
	IssueEmptyID         IssueKind = "empty_id"
	IssueDuplicateNode   IssueKind = "duplicate_node"
	IssueDuplicateEdge   IssueKind = "duplicate_edge"
	IssueDanglingEdge    IssueKind = "dangling_edge"
	IssueUnknownType     IssueKind = "unknown_type"
	IssueGroupMismatch   IssueKind = "group_mismatch"
	IssueUnexpectedGroup IssueKind = "collapsed_input"
)

// Issue is a non-fatal problem in an input graph.
type Issue struct {
	Kind IssueKind `json:"kind"`
	ID   string    `json:"id"`
	Msg  string    `json:"message"`
}

func (i Issue) String() string { return fmt.Sprintf("%s %s: %s", i.Kind, i.ID, i.Msg) }

// Validate reports malformed input. It never fails: every issue is tolerated
// by the downstream pipeline, which drops what it cannot place.
func (g *Graph) Validate() []Issue {
	var issues []Issue
	seen := make(map[string]bool, len(g.nodes))
	for _, n := range g.nodes {
		switch {
		case n.ID == "":
			issues = append(issues, Issue{IssueEmptyID, "", ErrInvalidNodeID.Error()})
			continue
		case seen[n.ID]:
			issues = append(issues, Issue{IssueDuplicateNode, n.ID, "duplicate node id"})
			continue
		}
		seen[n.ID] = true

		switch {
		case n.IsCollapsed():
			issues = append(issues, Issue{IssueUnexpectedGroup, n.ID, "collapsed group nodes are synthesized, not loaded"})
		case !n.Type.IsTier():
			issues = append(issues, Issue{IssueUnknownType, n.ID, fmt.Sprintf("unknown node type %q", n.Type)})
		case n.Group != string(n.Type):
			issues = append(issues, Issue{IssueGroupMismatch, n.ID, fmt.Sprintf("group %q differs from type %q", n.Group, n.Type)})
		}
	}

	seenEdges := make(map[string]bool, len(g.edges))
	for _, e := range g.edges {
		if seenEdges[e.ID] {
			issues = append(issues, Issue{IssueDuplicateEdge, e.ID, "duplicate edge id"})
		}
		seenEdges[e.ID] = true
		if !g.HasNode(e.Source) {
			issues = append(issues, Issue{IssueDanglingEdge, e.ID, fmt.Sprintf("unknown source %q", e.Source)})
		}
		if !g.HasNode(e.Target) {
			issues = append(issues, Issue{IssueDanglingEdge, e.ID, fmt.Sprintf("unknown target %q", e.Target)})
		}
	}
	return issues
}
