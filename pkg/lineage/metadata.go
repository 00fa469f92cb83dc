package lineage

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Metadata is the typed payload attached to a node. The concrete type is
// determined by the node's tier; [Metadata.Kind] reports which one.
type Metadata interface {
	Kind() NodeType
	// Fields returns ordered label/value pairs suitable for tooltips.
	Fields() []Field
}

// Field is a single display row of node metadata.
type Field struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// SourceMeta describes an external data source.
type SourceMeta struct {
	Type          string `json:"type,omitempty" toml:"type"`
	ConnectorType string `json:"connectorType,omitempty" toml:"connectorType"`
	TopicName     string `json:"topicName,omitempty" toml:"topicName"`
	Format        string `json:"format,omitempty" toml:"format"`
	LastUpdated   string `json:"lastUpdated,omitempty" toml:"lastUpdated"`
}

// FeatureGroupMeta describes a versioned set of features.
type FeatureGroupMeta struct {
	Version  int      `json:"version,omitempty" toml:"version"`
	Features []string `json:"features,omitempty" toml:"features"`
	Created  string   `json:"created,omitempty" toml:"created"`
}

// FeatureViewMeta describes a view joining features from several groups.
type FeatureViewMeta struct {
	Version     int      `json:"version,omitempty" toml:"version"`
	Description string   `json:"description,omitempty" toml:"description"`
	Created     string   `json:"created,omitempty" toml:"created"`
	Features    []string `json:"features,omitempty" toml:"features"`
}

// TrainingDatasetMeta describes a materialized training dataset.
type TrainingDatasetMeta struct {
	Version    int      `json:"version,omitempty" toml:"version"`
	Created    string   `json:"created,omitempty" toml:"created"`
	SplitRatio string   `json:"splitRatio,omitempty" toml:"splitRatio"`
	Samples    int      `json:"samples,omitempty" toml:"samples"`
	Features   []string `json:"features,omitempty" toml:"features"`
	Target     string   `json:"target,omitempty" toml:"target"`
}

// ModelMetrics holds evaluation scores of a trained model.
type ModelMetrics struct {
	Accuracy float64 `json:"accuracy" toml:"accuracy"`
	F1Score  float64 `json:"f1Score" toml:"f1Score"`
	AUC      float64 `json:"auc" toml:"auc"`
}

// ModelMeta describes a trained model.
type ModelMeta struct {
	Version         int                `json:"version,omitempty" toml:"version"`
	Created         string             `json:"created,omitempty" toml:"created"`
	Framework       string             `json:"framework,omitempty" toml:"framework"`
	Metrics         *ModelMetrics      `json:"metrics,omitempty" toml:"metrics"`
	Hyperparameters map[string]float64 `json:"hyperparameters,omitempty" toml:"hyperparameters"`
	TrainingDataset string             `json:"trainingDataset,omitempty" toml:"trainingDataset"`
}

// DeploymentMeta describes a serving deployment of a model.
type DeploymentMeta struct {
	Version    int    `json:"version,omitempty" toml:"version"`
	Model      string `json:"model,omitempty" toml:"model"`
	DeployedAt string `json:"deployedAt,omitempty" toml:"deployedAt"`
	Status     string `json:"status,omitempty" toml:"status"`
	Endpoint   string `json:"endpoint,omitempty" toml:"endpoint"`
	Schedule   string `json:"schedule,omitempty" toml:"schedule"`
}

func (SourceMeta) Kind() NodeType          { return TypeSource }
func (FeatureGroupMeta) Kind() NodeType    { return TypeFeatureGroup }
func (FeatureViewMeta) Kind() NodeType     { return TypeFeatureView }
func (TrainingDatasetMeta) Kind() NodeType { return TypeTrainingDataset }
func (ModelMeta) Kind() NodeType           { return TypeModel }
func (DeploymentMeta) Kind() NodeType      { return TypeDeployment }

func (m SourceMeta) Fields() []Field {
	return compact([]Field{
		{"Type", m.Type},
		{"Connector", m.ConnectorType},
		{"Topic", m.TopicName},
		{"Format", m.Format},
		{"Last Updated", fmtTime(m.LastUpdated)},
	})
}

func (m FeatureGroupMeta) Fields() []Field {
	return compact([]Field{
		{"Version", fmtVersion(m.Version)},
		{"Created", fmtTime(m.Created)},
		{"Features", fmtList(m.Features)},
	})
}

func (m FeatureViewMeta) Fields() []Field {
	return compact([]Field{
		{"Version", fmtVersion(m.Version)},
		{"Created", fmtTime(m.Created)},
		{"Description", m.Description},
		{"Features", fmtList(m.Features)},
	})
}

func (m TrainingDatasetMeta) Fields() []Field {
	samples := ""
	if m.Samples > 0 {
		samples = fmtThousands(m.Samples)
	}
	return compact([]Field{
		{"Version", fmtVersion(m.Version)},
		{"Created", fmtTime(m.Created)},
		{"Split Ratio", m.SplitRatio},
		{"Samples", samples},
		{"Target", m.Target},
	})
}

func (m ModelMeta) Fields() []Field {
	fields := []Field{
		{"Version", fmtVersion(m.Version)},
		{"Created", fmtTime(m.Created)},
		{"Framework", m.Framework},
		{"Training Dataset", m.TrainingDataset},
	}
	if m.Metrics != nil {
		fields = append(fields,
			Field{"Accuracy", fmtPercent(m.Metrics.Accuracy)},
			Field{"F1 Score", fmtPercent(m.Metrics.F1Score)},
			Field{"AUC", fmtPercent(m.Metrics.AUC)},
		)
	}
	for _, k := range slices.Sorted(maps.Keys(m.Hyperparameters)) {
		fields = append(fields, Field{k, strconv.FormatFloat(m.Hyperparameters[k], 'f', 2, 64)})
	}
	return compact(fields)
}

func (m DeploymentMeta) Fields() []Field {
	return compact([]Field{
		{"Version", fmtVersion(m.Version)},
		{"Model", m.Model},
		{"Deployed", fmtTime(m.DeployedAt)},
		{"Status", m.Status},
		{"Endpoint", m.Endpoint},
		{"Schedule", m.Schedule},
	})
}

// DecodeMetadata decodes a raw JSON object into the payload type for t.
// Empty input and unknown types yield nil metadata without error.
func DecodeMetadata(t NodeType, raw json.RawMessage) (Metadata, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	decode := func(v Metadata) (Metadata, error) {
		if err := json.Unmarshal(raw, v); err != nil {
			return nil, fmt.Errorf("decode %s metadata: %w", t, err)
		}
		return v, nil
	}
	switch t {
	case TypeSource:
		return deref(decode(&SourceMeta{}))
	case TypeFeatureGroup:
		return deref(decode(&FeatureGroupMeta{}))
	case TypeFeatureView:
		return deref(decode(&FeatureViewMeta{}))
	case TypeTrainingDataset:
		return deref(decode(&TrainingDatasetMeta{}))
	case TypeModel:
		return deref(decode(&ModelMeta{}))
	case TypeDeployment:
		return deref(decode(&DeploymentMeta{}))
	default:
		return nil, nil
	}
}

// deref turns the pointer used for decoding back into the value type so
// callers can type-switch on value receivers only.
func deref(m Metadata, err error) (Metadata, error) {
	if err != nil {
		return nil, err
	}
	switch v := m.(type) {
	case *SourceMeta:
		return *v, nil
	case *FeatureGroupMeta:
		return *v, nil
	case *FeatureViewMeta:
		return *v, nil
	case *TrainingDatasetMeta:
		return *v, nil
	case *ModelMeta:
		return *v, nil
	case *DeploymentMeta:
		return *v, nil
	}
	return m, nil
}

func compact(fields []Field) []Field {
	return slices.DeleteFunc(fields, func(f Field) bool { return f.Value == "" })
}

func fmtVersion(v int) string {
	if v == 0 {
		return ""
	}
	return strconv.Itoa(v)
}

func fmtList(items []string) string {
	if len(items) == 0 {
		return ""
	}
	return strings.Join(items, ", ")
}

func fmtPercent(v float64) string {
	return strconv.FormatFloat(v*100, 'f', 1, 64) + "%"
}

// fmtTime renders RFC 3339 timestamps as "2006-01-02 15:04 UTC" and leaves
// anything else untouched.
func fmtTime(s string) string {
	if s == "" {
		return ""
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return s
	}
	return t.UTC().Format("2006-01-02 15:04 UTC")
}

func fmtThousands(n int) string {
	if n < 0 {
		return "-" + fmtThousands(-n)
	}
	s := strconv.Itoa(n)
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String()
}
