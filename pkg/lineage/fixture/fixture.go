// Package fixture provides a deterministic mock provenance graph.
//
// The dataset mirrors a small feature store: three data sources feeding five
// feature groups (two of them derived), one feature view, fifty training
// datasets and seventy-five models, three of which are deployed. Models
// 51 through 75 all train on the last dataset, so the model tier is wider than
// the dataset tier. It is used by tests, demos and the `fixture` command.
package fixture

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/matzehuels/provgraph/pkg/lineage"
)

// Tier sizes of the generated graph.
const (
	Sources          = 3
	FeatureGroups    = 5
	FeatureViews     = 1
	TrainingDatasets = 50
	Models           = 75
	Deployments      = 3
)

// Seed drives the pseudo-random model metrics so every call yields the same
// graph.
const Seed = 42

var datasetFeatures = []string{
	"customer_id", "age", "tenure", "income_bracket",
	"avg_transaction_value", "transaction_frequency", "preferred_category",
}

var modelKinds = []string{"RandomForest", "XGBoost", "NeuralNetwork"}

// Provenance returns the mock graph.
func Provenance() *lineage.Graph {
	nodes, edges := Data()
	return lineage.NewGraph(nodes, edges)
}

// Data returns the raw node and edge lists of the mock graph.
func Data() ([]lineage.Node, []lineage.Edge) {
	nodes := []lineage.Node{
		node("source-1", lineage.TypeSource, "Customer Database", lineage.SourceMeta{
			Type: "MySQL", ConnectorType: "JDBC", LastUpdated: "2023-05-15T12:30:45Z",
		}),
		node("source-2", lineage.TypeSource, "Transaction Logs", lineage.SourceMeta{
			Type: "Kafka", ConnectorType: "Streaming", TopicName: "transactions", LastUpdated: "2023-05-16T09:15:22Z",
		}),
		node("source-3", lineage.TypeSource, "Product Catalog", lineage.SourceMeta{
			Type: "S3", ConnectorType: "File", Format: "Parquet", LastUpdated: "2023-05-14T18:45:10Z",
		}),
		node("fg-1", lineage.TypeFeatureGroup, "Customer Features", lineage.FeatureGroupMeta{
			Version: 1, Created: "2023-05-17T10:30:00Z",
			Features: []string{"customer_id", "age", "tenure", "income_bracket"},
		}),
		node("fg-2", lineage.TypeFeatureGroup, "Transaction Features", lineage.FeatureGroupMeta{
			Version: 2, Created: "2023-05-17T11:45:00Z",
			Features: []string{"transaction_id", "amount", "timestamp", "merchant_id"},
		}),
		node("fg-3", lineage.TypeFeatureGroup, "Product Features", lineage.FeatureGroupMeta{
			Version: 1, Created: "2023-05-17T14:15:00Z",
			Features: []string{"product_id", "category", "price", "inventory_level"},
		}),
		node("fg-4", lineage.TypeFeatureGroup, "Customer Spending Patterns", lineage.FeatureGroupMeta{
			Version: 1, Created: "2023-05-18T09:30:00Z",
			Features: []string{"customer_id", "avg_transaction_value", "transaction_frequency", "preferred_category"},
		}),
		node("fg-5", lineage.TypeFeatureGroup, "Customer Product Affinity", lineage.FeatureGroupMeta{
			Version: 1, Created: "2023-05-18T16:20:00Z",
			Features: []string{"customer_id", "product_id", "purchase_count", "last_purchase_date"},
		}),
		node("fv-1", lineage.TypeFeatureView, "Customer 360 View", lineage.FeatureViewMeta{
			Version: 1, Created: "2023-05-19T11:00:00Z",
			Description: "Unified view of customer data for predictive modeling",
			Features:    datasetFeatures,
		}),
	}

	for i := 1; i <= TrainingDatasets; i++ {
		nodes = append(nodes, node(datasetID(i), lineage.TypeTrainingDataset, fmt.Sprintf("Training Dataset %d", i),
			lineage.TrainingDatasetMeta{
				Version:    1,
				Created:    day(2023, time.June, 20+i/10),
				SplitRatio: "80/20",
				Samples:    10000 + i*100,
				Features:   datasetFeatures,
				Target:     "churn_probability",
			}))
	}

	rng := rand.New(rand.NewPCG(Seed, Seed))
	for i := 1; i <= Models; i++ {
		kind := modelKinds[i%len(modelKinds)]
		framework := "Scikit-learn"
		if kind == "NeuralNetwork" {
			framework = "TensorFlow"
		}
		nodes = append(nodes, node(modelID(i), lineage.TypeModel, fmt.Sprintf("%s Model %d", kind, i),
			lineage.ModelMeta{
				Version:   1,
				Created:   day(2023, time.June, 25+i/15),
				Framework: framework,
				Metrics: &lineage.ModelMetrics{
					Accuracy: 0.82 + rng.Float64()*0.1,
					F1Score:  0.79 + rng.Float64()*0.1,
					AUC:      0.85 + rng.Float64()*0.08,
				},
				Hyperparameters: map[string]float64{
					"param1": rng.Float64() * 10,
					"param2": rng.Float64() * 100,
				},
				TrainingDataset: datasetID(min(i, TrainingDatasets)),
			}))
	}

	nodes = append(nodes,
		node("deploy-1", lineage.TypeDeployment, "Production Endpoint", lineage.DeploymentMeta{
			Version: 1, Model: "model-42", DeployedAt: "2023-06-15T14:30:00Z", Status: "active",
			Endpoint: "https://api.example.com/predictions/customer-churn",
		}),
		node("deploy-2", lineage.TypeDeployment, "Batch Inference Job", lineage.DeploymentMeta{
			Version: 1, Model: "model-55", DeployedAt: "2023-06-16T09:45:00Z", Status: "active",
			Schedule: "Daily at 02:00 UTC",
		}),
		node("deploy-3", lineage.TypeDeployment, "Staging Endpoint", lineage.DeploymentMeta{
			Version: 1, Model: "model-73", DeployedAt: "2023-06-14T16:20:00Z", Status: "active",
			Endpoint: "https://staging.example.com/predictions/customer-churn",
		}),
	)

	edges := []lineage.Edge{
		edge("e-s1-fg1", "source-1", "fg-1"),
		edge("e-s2-fg2", "source-2", "fg-2"),
		edge("e-s3-fg3", "source-3", "fg-3"),
		edge("e-fg1-fg4", "fg-1", "fg-4"),
		edge("e-fg2-fg4", "fg-2", "fg-4"),
		edge("e-fg1-fg5", "fg-1", "fg-5"),
		edge("e-fg3-fg5", "fg-3", "fg-5"),
		edge("e-fg1-fv1", "fg-1", "fv-1"),
		edge("e-fg4-fv1", "fg-4", "fv-1"),
	}
	for i := 1; i <= TrainingDatasets; i++ {
		edges = append(edges, edge(fmt.Sprintf("e-fv1-td%d", i), "fv-1", datasetID(i)))
	}
	for i := 1; i <= Models; i++ {
		td := min(i, TrainingDatasets)
		edges = append(edges, edge(fmt.Sprintf("e-td%d-model%d", td, i), datasetID(td), modelID(i)))
	}
	edges = append(edges,
		edge("e-model42-deploy1", "model-42", "deploy-1"),
		edge("e-model55-deploy2", "model-55", "deploy-2"),
		edge("e-model73-deploy3", "model-73", "deploy-3"),
	)
	return nodes, edges
}

// Groups returns the tier summaries of the mock graph in column order.
func Groups() []lineage.GroupInfo {
	counts := []int{Sources, FeatureGroups, FeatureViews, TrainingDatasets, Models, Deployments}
	out := make([]lineage.GroupInfo, len(lineage.Tiers))
	for i, t := range lineage.Tiers {
		out[i] = lineage.GroupInfo{Group: t, Label: t.Label(), Count: counts[i]}
	}
	return out
}

func node(id string, t lineage.NodeType, label string, meta lineage.Metadata) lineage.Node {
	return lineage.Node{ID: id, Type: t, Group: string(t), Label: label, Meta: meta}
}

func edge(id, src, dst string) lineage.Edge {
	return lineage.Edge{ID: id, Source: src, Target: dst}
}

func datasetID(i int) string { return fmt.Sprintf("td-%d", i) }
func modelID(i int) string   { return fmt.Sprintf("model-%d", i) }

func day(year int, month time.Month, d int) string {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC).Format(time.RFC3339)
}
