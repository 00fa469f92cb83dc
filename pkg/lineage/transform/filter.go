package transform

import (
	"strings"

	"github.com/matzehuels/provgraph/pkg/lineage"
)

// Criteria selects nodes by label substring and tier. Empty fields match
// everything.
type Criteria struct {
	Name string           `json:"name,omitempty"`
	Type lineage.NodeType `json:"type,omitempty"`
}

// Active reports whether the criteria restrict anything.
func (c Criteria) Active() bool { return c.Name != "" || c.Type != "" }

// Match reports whether n satisfies both the tier and the name predicate.
// Aggregate nodes match by the tier they stand in for.
func (c Criteria) Match(n lineage.Node) bool {
	if c.Type != "" && n.Type != c.Type && !(n.IsCollapsed() && lineage.NodeType(n.Group) == c.Type) {
		return false
	}
	if c.Name == "" {
		return true
	}
	return strings.Contains(strings.ToLower(n.DisplayLabel()), strings.ToLower(c.Name))
}

// Filter keeps the nodes matching c and the edges whose endpoints both
// survive.
func Filter(nodes []lineage.Node, edges []lineage.Edge, c Criteria) Result {
	return keep(nodes, edges, c.Match)
}

// Restrict narrows nodes and edges to the highlighted subset. An inactive
// highlight keeps everything.
func Restrict(nodes []lineage.Node, edges []lineage.Edge, h Highlight) Result {
	if !h.Active() {
		return keep(nodes, edges, func(lineage.Node) bool { return true })
	}
	return keep(nodes, edges, func(n lineage.Node) bool { return h.HasNode(n.ID) })
}

func keep(nodes []lineage.Node, edges []lineage.Edge, pred func(lineage.Node) bool) Result {
	var out Result
	kept := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		if pred(n) {
			kept[n.ID] = true
			out.Nodes = append(out.Nodes, n)
		}
	}
	for _, e := range edges {
		if kept[e.Source] && kept[e.Target] {
			out.Edges = append(out.Edges, e)
		}
	}
	return out
}
