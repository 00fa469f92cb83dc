package transform

import (
	"maps"
	"slices"

	"github.com/matzehuels/provgraph/pkg/lineage"
)

// Highlight is the set of nodes and edges connected to a traced node.
// The zero value is an inactive highlight.
type Highlight struct {
	Nodes map[string]bool
	Edges map[string]bool
}

// Active reports whether anything is highlighted.
func (h Highlight) Active() bool { return len(h.Nodes) > 0 }

// HasNode reports whether id is highlighted.
func (h Highlight) HasNode(id string) bool { return h.Nodes[id] }

// HasEdge reports whether the edge id is highlighted.
func (h Highlight) HasEdge(id string) bool { return h.Edges[id] }

// NodeIDs returns the highlighted node ids in sorted order.
func (h Highlight) NodeIDs() []string { return slices.Sorted(maps.Keys(h.Nodes)) }

// EdgeIDs returns the highlighted edge ids in sorted order.
func (h Highlight) EdgeIDs() []string { return slices.Sorted(maps.Keys(h.Edges)) }

func (h *Highlight) merge(o Highlight) {
	if h.Nodes == nil {
		h.Nodes = make(map[string]bool, len(o.Nodes))
	}
	if h.Edges == nil {
		h.Edges = make(map[string]bool, len(o.Edges))
	}
	maps.Copy(h.Nodes, o.Nodes)
	maps.Copy(h.Edges, o.Edges)
}

// Trace returns the start node together with its full ancestor and
// descendant closures over edges. An empty start yields an inactive
// highlight.
func Trace(start string, edges []lineage.Edge) Highlight {
	if start == "" {
		return Highlight{}
	}
	h := Upstream(start, edges)
	h.merge(Downstream(start, edges))
	return h
}

// Upstream returns start and every node it is reachable from, along with
// the edges walked to reach them.
func Upstream(start string, edges []lineage.Edge) Highlight {
	return walk(start, edges,
		func(e lineage.Edge) string { return e.Target },
		func(e lineage.Edge) string { return e.Source })
}

// Downstream returns start and every node reachable from it, along with the
// edges walked to reach them.
func Downstream(start string, edges []lineage.Edge) Highlight {
	return walk(start, edges,
		func(e lineage.Edge) string { return e.Source },
		func(e lineage.Edge) string { return e.Target })
}

// walk runs an iterative depth-first search from start. from picks the
// endpoint an edge is indexed by and to picks the endpoint it leads to.
func walk(start string, edges []lineage.Edge, from, to func(lineage.Edge) string) Highlight {
	if start == "" {
		return Highlight{}
	}
	adj := make(map[string][]lineage.Edge)
	for _, e := range edges {
		adj[from(e)] = append(adj[from(e)], e)
	}

	h := Highlight{
		Nodes: map[string]bool{start: true},
		Edges: make(map[string]bool),
	}
	stack := []string{start}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, e := range adj[id] {
			h.Edges[e.ID] = true
			next := to(e)
			if h.Nodes[next] {
				continue
			}
			h.Nodes[next] = true
			stack = append(stack, next)
		}
	}
	return h
}
