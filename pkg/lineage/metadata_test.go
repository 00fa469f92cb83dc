package lineage

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNode_UnmarshalJSON_TypedMetadata(t *testing.T) {
	data := []byte(`{
		"id": "model-42",
		"type": "model",
		"label": "Model 42",
		"metadata": {
			"version": 3,
			"framework": "TensorFlow",
			"metrics": {"accuracy": 0.91, "f1Score": 0.88, "auc": 0.93},
			"hyperparameters": {"learningRate": 0.01},
			"unknownKey": true
		}
	}`)

	var n Node
	require.NoError(t, json.Unmarshal(data, &n))

	assert.Equal(t, "model", n.Group, "missing group defaults to type")
	meta, ok := n.Meta.(ModelMeta)
	require.True(t, ok, "metadata type = %T, want ModelMeta", n.Meta)
	assert.Equal(t, 3, meta.Version)
	assert.Equal(t, "TensorFlow", meta.Framework)
	require.NotNil(t, meta.Metrics)
	assert.InDelta(t, 0.91, meta.Metrics.Accuracy, 1e-9)
	assert.Equal(t, TypeModel, meta.Kind())
}

func TestNode_UnmarshalJSON_UnknownTypeHasNoMetadata(t *testing.T) {
	var n Node
	require.NoError(t, json.Unmarshal([]byte(`{"id":"x","type":"widget","metadata":{"a":1}}`), &n))
	assert.Nil(t, n.Meta)
}

func TestNode_UnmarshalJSON_BadMetadata(t *testing.T) {
	var n Node
	err := json.Unmarshal([]byte(`{"id":"x","type":"model","metadata":{"version":"three"}}`), &n)
	assert.Error(t, err)
}

func TestNode_JSONRoundTrip(t *testing.T) {
	in := Node{
		ID:    "td-1",
		Type:  TypeTrainingDataset,
		Group: "trainingDataset",
		Label: "Training Dataset 1",
		Meta:  TrainingDatasetMeta{Version: 1, Samples: 12000, SplitRatio: "80/20"},
	}
	raw, err := json.Marshal(in)
	require.NoError(t, err)

	var out Node
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, in, out)
}

func TestCollapsedNode_JSONShape(t *testing.T) {
	n := Node{
		ID:        "collapsed-model",
		Type:      TypeCollapsedGroup,
		Group:     "model",
		Label:     "Models Group",
		Count:     2,
		MemberIDs: []string{"model-1", "model-2"},
	}
	raw, err := json.Marshal(n)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"collapsed-model","type":"collapsedGroup","group":"model",
		"label":"Models Group","count":2,"nodeIds":["model-1","model-2"]}`, string(raw))
	assert.Equal(t, []Field{{"Items", "2"}}, n.Fields())
}

func TestMetadataFields(t *testing.T) {
	tests := []struct {
		name string
		meta Metadata
		want []Field
	}{
		{
			"source",
			SourceMeta{Type: "Kafka", TopicName: "events", LastUpdated: "2024-03-01T10:30:00Z"},
			[]Field{{"Type", "Kafka"}, {"Topic", "events"}, {"Last Updated", "2024-03-01 10:30 UTC"}},
		},
		{
			"dataset",
			TrainingDatasetMeta{Version: 2, Samples: 1234567},
			[]Field{{"Version", "2"}, {"Samples", "1,234,567"}},
		},
		{
			"model",
			ModelMeta{Metrics: &ModelMetrics{Accuracy: 0.9, F1Score: 0.85, AUC: 0.925}, Hyperparameters: map[string]float64{"depth": 6, "alpha": 0.5}},
			[]Field{{"Accuracy", "90.0%"}, {"F1 Score", "85.0%"}, {"AUC", "92.5%"}, {"alpha", "0.50"}, {"depth", "6.00"}},
		},
		{
			"deployment keeps unparsed time",
			DeploymentMeta{DeployedAt: "yesterday", Status: "active"},
			[]Field{{"Deployed", "yesterday"}, {"Status", "active"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.meta.Fields())
		})
	}
}

func TestFmtThousands(t *testing.T) {
	tests := map[int]string{0: "0", 999: "999", 1000: "1,000", -45000: "-45,000"}
	for in, want := range tests {
		if got := fmtThousands(in); got != want {
			t.Errorf("fmtThousands(%d) = %q, want %q", in, got, want)
		}
	}
}
