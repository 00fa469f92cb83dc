package view

import (
	"github.com/matzehuels/provgraph/pkg/layout"
	"github.com/matzehuels/provgraph/pkg/lineage"
	"github.com/matzehuels/provgraph/pkg/lineage/transform"
)

// GroupState describes one tier for group controls.
type GroupState struct {
	Group     lineage.NodeType `json:"group"`
	Label     string           `json:"label"`
	Count     int              `json:"count"`
	Collapsed bool             `json:"collapsed"`
}

// Snapshot is the fully computed view after a transition.
type Snapshot struct {
	Nodes  []layout.PositionedNode `json:"nodes"`
	Edges  []layout.StyledEdge     `json:"edges"`
	Bounds layout.Bounds           `json:"bounds"`

	// Visible counts the nodes shown; Total counts the nodes before trace
	// and filter narrowing ("Showing Visible of Total nodes").
	Visible int `json:"visible"`
	Total   int `json:"total"`

	Selection        string                  `json:"selection,omitempty"`
	HighlightedNodes []string                `json:"highlightedNodes,omitempty"`
	HighlightedEdges []string                `json:"highlightedEdges,omitempty"`
	Filter           transform.Criteria      `json:"filter"`
	FilteringActive  bool                    `json:"filteringActive"`
	Groups           []GroupState            `json:"groups"`
	Stats            transform.CollapseStats `json:"stats"`
	Viewport         Viewport                `json:"viewport"`
}

// Node returns the visible node with the given id.
func (s Snapshot) Node(id string) (layout.PositionedNode, bool) {
	for _, n := range s.Nodes {
		if n.Node.ID == id {
			return n, true
		}
	}
	return layout.PositionedNode{}, false
}

// Percent returns Visible as a rounded percentage of Total.
func (s Snapshot) Percent() int {
	if s.Total == 0 {
		return 0
	}
	return (s.Visible*200 + s.Total) / (2 * s.Total)
}
