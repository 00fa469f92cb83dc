package lineage

import (
	"errors"
	"testing"
)

func TestNodeType_Column(t *testing.T) {
	tests := []struct {
		t    NodeType
		want int
	}{
		{TypeSource, 0},
		{TypeFeatureGroup, 1},
		{TypeFeatureView, 2},
		{TypeTrainingDataset, 3},
		{TypeModel, 4},
		{TypeDeployment, 5},
		{"widget", 5},
	}
	for _, tt := range tests {
		if got := tt.t.Column(); got != tt.want {
			t.Errorf("%s.Column() = %d, want %d", tt.t, got, tt.want)
		}
	}
}

func TestParseNodeType(t *testing.T) {
	tests := []struct {
		in   string
		want NodeType
	}{
		{"source", TypeSource},
		{"feature_group", TypeFeatureGroup},
		{"Feature-View", TypeFeatureView},
		{"TRAININGDATASET", TypeTrainingDataset},
		{"collapsed group", TypeCollapsedGroup},
	}
	for _, tt := range tests {
		got, err := ParseNodeType(tt.in)
		if err != nil {
			t.Errorf("ParseNodeType(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseNodeType(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}

	if _, err := ParseNodeType("widget"); !errors.Is(err, ErrUnknownNodeType) {
		t.Errorf("ParseNodeType(widget) error = %v, want ErrUnknownNodeType", err)
	}
}

func TestNodeType_Label(t *testing.T) {
	if got := TypeTrainingDataset.Label(); got != "Training Datasets" {
		t.Errorf("Label() = %q, want %q", got, "Training Datasets")
	}
	if got := NodeType("widget").Label(); got != "widget" {
		t.Errorf("Label() = %q, want %q", got, "widget")
	}
}

func TestNode_Tier(t *testing.T) {
	n := Node{ID: CollapsedID("model"), Type: TypeCollapsedGroup, Group: "model"}
	if n.Tier() != TypeModel {
		t.Errorf("Tier() = %s, want model", n.Tier())
	}
	if n.ID != "collapsed-model" {
		t.Errorf("CollapsedID() = %s, want collapsed-model", n.ID)
	}
}
