package lineage

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrInvalidNodeID is returned when a node has an empty identifier.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrUnknownNodeType is returned by [ParseNodeType] for names that are not
	// one of the six tiers or the collapsed group type.
	ErrUnknownNodeType = errors.New("unknown node type")
)

// NodeType identifies the tier a node belongs to.
type NodeType string

const (
	TypeSource          NodeType = "source"
	TypeFeatureGroup    NodeType = "featureGroup"
	TypeFeatureView     NodeType = "featureView"
	TypeTrainingDataset NodeType = "trainingDataset"
	TypeModel           NodeType = "model"
	TypeDeployment      NodeType = "deployment"

	// TypeCollapsedGroup marks synthetic aggregate nodes. The tier they stand
	// in for is stored in [Node.Group].
	TypeCollapsedGroup NodeType = "collapsedGroup"
)

// Tiers lists the six real node types in pipeline (column) order.
var Tiers = []NodeType{
	TypeSource,
	TypeFeatureGroup,
	TypeFeatureView,
	TypeTrainingDataset,
	TypeModel,
	TypeDeployment,
}

var tierLabels = map[NodeType]string{
	TypeSource:          "Data Sources",
	TypeFeatureGroup:    "Feature Groups",
	TypeFeatureView:     "Feature Views",
	TypeTrainingDataset: "Training Datasets",
	TypeModel:           "Models",
	TypeDeployment:      "Deployments",
	TypeCollapsedGroup:  "Collapsed Group",
}

// Column returns the layout column of the type. Unknown types fall back to
// the last column.
func (t NodeType) Column() int {
	if i := slices.Index(Tiers, t); i >= 0 {
		return i
	}
	return len(Tiers) - 1
}

// IsTier reports whether t is one of the six real tiers.
func (t NodeType) IsTier() bool { return slices.Contains(Tiers, t) }

// IsKnown reports whether t is a tier or the collapsed group type.
func (t NodeType) IsKnown() bool { return t.IsTier() || t == TypeCollapsedGroup }

// Label returns the plural display label of the tier ("Feature Groups").
// Unknown types return the raw string.
func (t NodeType) Label() string {
	if l, ok := tierLabels[t]; ok {
		return l
	}
	return string(t)
}

// String implements fmt.Stringer.
func (t NodeType) String() string { return string(t) }

// ParseNodeType converts user input into a NodeType. Matching ignores case
// and accepts snake_case and kebab-case spellings ("feature_group").
func ParseNodeType(s string) (NodeType, error) {
	norm := strings.ToLower(strings.NewReplacer("_", "", "-", "", " ", "").Replace(s))
	for _, t := range slices.Concat(Tiers, []NodeType{TypeCollapsedGroup}) {
		if strings.ToLower(string(t)) == norm {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownNodeType, s)
}

// Position is a 2-D coordinate in layout space (pixels, y grows downward).
type Position struct {
	X float64 `json:"x" toml:"x"`
	Y float64 `json:"y" toml:"y"`
}

// CollapsedID returns the id of the aggregate node standing in for group.
func CollapsedID(group string) string { return "collapsed-" + group }
