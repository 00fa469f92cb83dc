package view

import (
	"maps"

	"github.com/matzehuels/provgraph/pkg/layout"
	"github.com/matzehuels/provgraph/pkg/lineage/transform"
)

// ViewState is the mutable state of one viewer.
type ViewState struct {
	Collapse  transform.CollapseMap `json:"collapse"`
	Selection string                `json:"selection,omitempty"`
	Highlight transform.Highlight   `json:"-"`
	Filter    transform.Criteria    `json:"filter"`
	Overrides layout.Overrides      `json:"overrides,omitempty"`
}

// Clone returns a deep copy.
func (s ViewState) Clone() ViewState {
	out := s
	out.Collapse = s.Collapse.Clone()
	out.Overrides = maps.Clone(s.Overrides)
	out.Highlight = transform.Highlight{
		Nodes: maps.Clone(s.Highlight.Nodes),
		Edges: maps.Clone(s.Highlight.Edges),
	}
	return out
}

// FilteringActive reports whether a trace or a filter narrows the view.
func (s ViewState) FilteringActive() bool {
	return s.Highlight.Active() || s.Filter.Active()
}
