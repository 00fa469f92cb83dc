package io

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/provgraph/pkg/lineage"
	"github.com/matzehuels/provgraph/pkg/lineage/fixture"
	"github.com/matzehuels/provgraph/pkg/view"

	perrors "github.com/matzehuels/provgraph/pkg/errors"
)

func TestJSONRoundTrip(t *testing.T) {
	g := fixture.Provenance()

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(g, &buf))
	got, err := ReadJSON(&buf)
	require.NoError(t, err)

	assert.Equal(t, g.Nodes(), got.Nodes())
	assert.Equal(t, g.Edges(), got.Edges())
}

func TestTOMLRoundTrip(t *testing.T) {
	g := fixture.Provenance()

	var buf bytes.Buffer
	require.NoError(t, WriteTOML(g, &buf))
	got, err := ReadTOML(&buf)
	require.NoError(t, err)

	assert.Equal(t, g.Nodes(), got.Nodes())
	assert.Equal(t, g.Edges(), got.Edges())
}

func TestReadTOML_Metadata(t *testing.T) {
	src := `
[[nodes]]
id = "source-1"
type = "source"
label = "Customer Database"

[nodes.metadata]
type = "MySQL"
connectorType = "JDBC"

[[nodes]]
id = "td-1"
type = "trainingDataset"

[nodes.metadata]
version = 2
samples = 10100
features = ["age", "tenure"]

[[edges]]
id = "e1"
source = "source-1"
target = "td-1"

[edges.data]
count = 3
`
	g, err := ReadTOML(strings.NewReader(src))
	require.NoError(t, err)
	require.Equal(t, 2, g.NodeCount())

	src1, _ := g.Node("source-1")
	assert.Equal(t, lineage.SourceMeta{Type: "MySQL", ConnectorType: "JDBC"}, src1.Meta)
	assert.Equal(t, "source", src1.Group)

	td, _ := g.Node("td-1")
	assert.Equal(t, lineage.TrainingDatasetMeta{Version: 2, Samples: 10100, Features: []string{"age", "tenure"}}, td.Meta)

	assert.Equal(t, 3, g.Edges()[0].Data.Count)
}

func TestReadJSON_DefaultsGroup(t *testing.T) {
	g, err := ReadJSON(strings.NewReader(`{"nodes":[{"id":"m","type":"model","metadata":{"framework":"TensorFlow"}}],"edges":[]}`))
	require.NoError(t, err)

	n, ok := g.Node("m")
	require.True(t, ok)
	assert.Equal(t, "model", n.Group)
	assert.Equal(t, lineage.ModelMeta{Framework: "TensorFlow"}, n.Meta)
}

func TestReadJSON_KeepsStructuralProblems(t *testing.T) {
	g, err := ReadJSON(strings.NewReader(`{"nodes":[{"id":"a","type":"source"}],"edges":[{"id":"x","source":"a","target":"ghost"}]}`))
	require.NoError(t, err)
	assert.Equal(t, 1, g.EdgeCount())
	assert.Len(t, g.Validate(), 1)
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name string
		read func() error
	}{
		{"malformed json", func() error { _, err := ReadJSON(strings.NewReader(`{"nodes":[`)); return err }},
		{"bad metadata", func() error {
			_, err := ReadJSON(strings.NewReader(`{"nodes":[{"id":"a","type":"source","metadata":{"type":7}}]}`))
			return err
		}},
		{"malformed toml", func() error { _, err := ReadTOML(strings.NewReader(`[[nodes]`)); return err }},
		{"bad toml metadata", func() error {
			_, err := ReadTOML(strings.NewReader("[[nodes]]\nid = \"a\"\ntype = \"model\"\n[nodes.metadata]\nversion = \"one\"\n"))
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.read()
			require.Error(t, err)
			assert.Equal(t, perrors.ErrCodeInvalidFormat, perrors.GetCode(err))
		})
	}
}

func TestImportExport(t *testing.T) {
	dir := t.TempDir()
	g := fixture.Provenance()

	for _, name := range []string{"graph.json", "graph.TOML"} {
		path := filepath.Join(dir, name)
		require.NoError(t, Export(g, path))

		got, err := Import(path)
		require.NoError(t, err, name)
		assert.Equal(t, g.NodeCount(), got.NodeCount(), name)
		assert.Equal(t, g.EdgeCount(), got.EdgeCount(), name)
	}
}

func TestImport_Errors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		path string
		code perrors.Code
	}{
		{filepath.Join(dir, "missing.json"), perrors.ErrCodeFileNotFound},
		{filepath.Join(dir, "graph.yaml"), perrors.ErrCodeInvalidFormat},
		{"", perrors.ErrCodeInvalidPath},
	}
	for _, tt := range tests {
		_, err := Import(tt.path)
		if got := perrors.GetCode(err); got != tt.code {
			t.Errorf("Import(%q) code = %s, want %s", tt.path, got, tt.code)
		}
	}
}

func TestFormatOf(t *testing.T) {
	f, err := FormatOf("a/b/graph.Json")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)
}

func TestWriteJSON_EmptyGraph(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(lineage.NewGraph(nil, nil), &buf))
	assert.JSONEq(t, `{"nodes":[],"edges":[]}`, buf.String())
}

func TestExportSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "view.json")
	c := view.New(fixture.Provenance(), view.DefaultConfig())
	require.NoError(t, ExportSnapshot(c.Snapshot(), path))

	var buf bytes.Buffer
	require.NoError(t, WriteSnapshot(c.Snapshot(), &buf))
	assert.Contains(t, buf.String(), `"visible": 14`)
	assert.Contains(t, buf.String(), `"collapsed-model"`)
}
