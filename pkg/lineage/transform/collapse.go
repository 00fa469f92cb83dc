package transform

import (
	"maps"
	"slices"

	"github.com/matzehuels/provgraph/pkg/lineage"
)

// CollapseMap records which tiers are collapsed. Entries are flipped or
// reset but never removed, so a tier that was once toggled stays known.
type CollapseMap map[string]bool

// NewCollapseMap returns a map with the given groups collapsed.
func NewCollapseMap(groups ...string) CollapseMap {
	m := make(CollapseMap, len(groups))
	for _, g := range groups {
		m[g] = true
	}
	return m
}

// Toggle flips the entry for group and returns the new state.
func (m CollapseMap) Toggle(group string) bool {
	m[group] = !m[group]
	return m[group]
}

// Collapsed reports whether group is collapsed.
func (m CollapseMap) Collapsed(group string) bool { return m[group] }

// ExpandAll marks every known group as expanded.
func (m CollapseMap) ExpandAll() {
	for g := range m {
		m[g] = false
	}
}

// CollapseAll marks every given group as collapsed.
func (m CollapseMap) CollapseAll(groups []string) {
	for _, g := range groups {
		m[g] = true
	}
}

// AnyCollapsed reports whether at least one group is collapsed.
func (m CollapseMap) AnyCollapsed() bool {
	for _, v := range m {
		if v {
			return true
		}
	}
	return false
}

// Clone returns an independent copy.
func (m CollapseMap) Clone() CollapseMap { return maps.Clone(m) }

// Keys returns the collapsed groups in sorted order.
func (m CollapseMap) Keys() []string {
	var out []string
	for g, v := range m {
		if v {
			out = append(out, g)
		}
	}
	slices.Sort(out)
	return out
}

// Result is the visible node and edge set produced by a transformation.
type Result struct {
	Nodes []lineage.Node
	Edges []lineage.Edge
}

// CollapseStats summarizes what [Collapse] did.
type CollapseStats struct {
	Collapsed  int // member nodes hidden behind aggregates
	Aggregates int // synthetic group nodes emitted
	Redirected int // underlying edges folded into synthetic edges
	Dropped    int // edges with an unknown endpoint
}

// Collapse replaces every member of a collapsed group with a single
// aggregate node and redirects the affected edges to it.
//
// Surviving nodes keep their input order and are followed by aggregates in
// tier order. Pass-through edges keep their id and data and precede the
// synthetic edges, which appear in first-seen order and carry the flags of
// the first edge they absorb. Intra-group edges of a
// collapsed tier become one counted self edge on the aggregate.
func Collapse(nodes []lineage.Node, edges []lineage.Edge, m CollapseMap) (Result, CollapseStats) {
	var (
		stats   CollapseStats
		out     Result
		resolve = make(map[string]string, len(nodes))
		members = make(map[string][]string)
	)

	for _, n := range nodes {
		if _, dup := resolve[n.ID]; dup {
			continue
		}
		if !n.IsCollapsed() && m.Collapsed(n.Group) {
			resolve[n.ID] = lineage.CollapsedID(n.Group)
			members[n.Group] = append(members[n.Group], n.ID)
			stats.Collapsed++
			continue
		}
		resolve[n.ID] = n.ID
		out.Nodes = append(out.Nodes, n)
	}

	for _, group := range groupOrder(members) {
		ids := slices.Clone(members[group])
		slices.Sort(ids)
		out.Nodes = append(out.Nodes, lineage.Node{
			ID:        lineage.CollapsedID(group),
			Type:      lineage.TypeCollapsedGroup,
			Group:     group,
			Label:     lineage.NodeType(group).Label() + " Group",
			Count:     len(ids),
			MemberIDs: ids,
		})
		stats.Aggregates++
	}

	var synthetic []lineage.Edge
	index := make(map[[2]string]int)
	for _, e := range edges {
		src, okSrc := resolve[e.Source]
		dst, okDst := resolve[e.Target]
		if !okSrc || !okDst {
			stats.Dropped++
			continue
		}
		if src == e.Source && dst == e.Target {
			out.Edges = append(out.Edges, e)
			continue
		}
		stats.Redirected++
		key := [2]string{src, dst}
		if i, ok := index[key]; ok {
			synthetic[i].Data.Count++
			continue
		}
		index[key] = len(synthetic)
		data := e.Data
		data.Count = 1
		synthetic = append(synthetic, lineage.Edge{
			ID:     SyntheticEdgeID(src, dst),
			Source: src,
			Target: dst,
			Data:   data,
		})
	}
	out.Edges = append(out.Edges, synthetic...)
	return out, stats
}

// SyntheticEdgeID returns the id of the aggregated edge between two
// resolved endpoints.
func SyntheticEdgeID(source, target string) string {
	return "edge-" + source + "-" + target
}

// groupOrder returns the groups with members: known tiers in column order,
// then any other group sorted by name.
func groupOrder(members map[string][]string) []string {
	var out, extra []string
	for _, t := range lineage.Tiers {
		if len(members[string(t)]) > 0 {
			out = append(out, string(t))
		}
	}
	for g := range members {
		if !lineage.NodeType(g).IsTier() {
			extra = append(extra, g)
		}
	}
	slices.Sort(extra)
	return append(out, extra...)
}
