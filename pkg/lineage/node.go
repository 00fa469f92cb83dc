package lineage

import (
	"encoding/json"
	"fmt"
)

// Node is a vertex of the provenance graph.
//
// For every node except aggregates, Group equals Type. Aggregate nodes
// ([TypeCollapsedGroup]) carry the collapsed tier in Group together with the
// member count and member ids.
type Node struct {
	ID    string
	Type  NodeType
	Group string
	Label string
	Meta  Metadata

	// Count and MemberIDs are only set on collapsed group nodes.
	Count     int
	MemberIDs []string
}

// IsCollapsed reports whether the node is a synthetic collapsed group.
func (n Node) IsCollapsed() bool { return n.Type == TypeCollapsedGroup }

// Tier returns the tier the node is laid out in: its Group for collapsed
// groups, its Type otherwise.
func (n Node) Tier() NodeType {
	if n.IsCollapsed() {
		return NodeType(n.Group)
	}
	return n.Type
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Fields returns the tooltip rows for the node. Collapsed groups report
// their member count.
func (n Node) Fields() []Field {
	if n.IsCollapsed() {
		return []Field{{"Items", fmt.Sprintf("%d", n.Count)}}
	}
	if n.Meta == nil {
		return nil
	}
	return n.Meta.Fields()
}

type nodeJSON struct {
	ID        string          `json:"id"`
	Type      NodeType        `json:"type"`
	Group     string          `json:"group,omitempty"`
	Label     string          `json:"label,omitempty"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
	Count     int             `json:"count,omitempty"`
	MemberIDs []string        `json:"nodeIds,omitempty"`
}

// MarshalJSON encodes the node in the flat front-end shape:
// {"id", "type", "group", "label", "metadata", "count", "nodeIds"}.
func (n Node) MarshalJSON() ([]byte, error) {
	out := nodeJSON{
		ID:        n.ID,
		Type:      n.Type,
		Group:     n.Group,
		Label:     n.Label,
		Count:     n.Count,
		MemberIDs: n.MemberIDs,
	}
	if n.Meta != nil {
		raw, err := json.Marshal(n.Meta)
		if err != nil {
			return nil, fmt.Errorf("encode metadata of %s: %w", n.ID, err)
		}
		out.Metadata = raw
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a node, selecting the metadata payload type from the
// node's type. A missing group defaults to the type.
func (n *Node) UnmarshalJSON(data []byte) error {
	var in nodeJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	meta, err := DecodeMetadata(in.Type, in.Metadata)
	if err != nil {
		return fmt.Errorf("node %s: %w", in.ID, err)
	}
	*n = Node{
		ID:        in.ID,
		Type:      in.Type,
		Group:     in.Group,
		Label:     in.Label,
		Meta:      meta,
		Count:     in.Count,
		MemberIDs: in.MemberIDs,
	}
	if n.Group == "" && !n.IsCollapsed() {
		n.Group = string(n.Type)
	}
	return nil
}

// EdgeData carries per-edge attributes. Count is set on aggregated edges and
// records how many underlying edges were merged.
type EdgeData struct {
	Count         int  `json:"count,omitempty" toml:"count"`
	IsDerived     bool `json:"isDerived,omitempty" toml:"isDerived"`
	IsHighlighted bool `json:"isHighlighted,omitempty" toml:"isHighlighted"`
}

// Edge is a directed connection from Source to Target.
type Edge struct {
	ID     string   `json:"id" toml:"id"`
	Source string   `json:"source" toml:"source"`
	Target string   `json:"target" toml:"target"`
	Data   EdgeData `json:"data,omitzero" toml:"data"`
}

// Aggregated reports whether the edge stands for more than one underlying edge.
func (e Edge) Aggregated() bool { return e.Data.Count > 1 }

// IsDerivedEdge reports whether an edge from src to dst denotes feature
// derivation: feature group to feature group, or feature group to feature view.
// Aggregates count as their tier.
func IsDerivedEdge(src, dst Node) bool {
	if src.Tier() != TypeFeatureGroup {
		return false
	}
	return dst.Tier() == TypeFeatureGroup || dst.Tier() == TypeFeatureView
}
