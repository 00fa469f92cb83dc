package lineage

import (
	"slices"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// CyclicComponents returns the strongly connected components that contain a
// cycle: components with more than one node, plus nodes with a self loop.
// Each component lists node ids in input order; components are ordered by
// their first node. An acyclic graph returns nil.
func (g *Graph) CyclicComponents() [][]string {
	if len(g.nodes) == 0 {
		return nil
	}

	index := make(map[string]int64, len(g.byID))
	ids := make([]string, 0, len(g.byID))
	for _, n := range g.nodes {
		if _, ok := index[n.ID]; ok {
			continue
		}
		index[n.ID] = int64(len(ids))
		ids = append(ids, n.ID)
	}

	dg := simple.NewDirectedGraph()
	for i := range ids {
		dg.AddNode(simple.Node(int64(i)))
	}
	selfLoops := make(map[int64]bool)
	for src, targets := range g.children {
		from := index[src]
		for _, dst := range targets {
			to := index[dst]
			if from == to {
				// simple graphs reject self edges
				selfLoops[from] = true
				continue
			}
			dg.SetEdge(dg.NewEdge(simple.Node(from), simple.Node(to)))
		}
	}

	var out [][]int64
	for _, scc := range topo.TarjanSCC(dg) {
		if len(scc) == 1 && !selfLoops[scc[0].ID()] {
			continue
		}
		comp := make([]int64, len(scc))
		for i, n := range scc {
			comp[i] = n.ID()
		}
		slices.Sort(comp)
		out = append(out, comp)
	}
	slices.SortFunc(out, func(a, b []int64) int { return int(a[0] - b[0]) })

	result := make([][]string, len(out))
	for i, comp := range out {
		result[i] = make([]string, len(comp))
		for j, idx := range comp {
			result[i][j] = ids[idx]
		}
	}
	return result
}
