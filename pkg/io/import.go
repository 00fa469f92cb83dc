package io

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/provgraph/pkg/lineage"

	perrors "github.com/matzehuels/provgraph/pkg/errors"
)

// Format identifies a graph file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// FormatOf returns the format implied by the extension of path.
func FormatOf(path string) (Format, error) {
	if err := perrors.ValidateGraphPath(path); err != nil {
		return "", err
	}
	return Format(strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")), nil
}

type graph struct {
	Nodes []lineage.Node `json:"nodes"`
	Edges []lineage.Edge `json:"edges"`
}

type tomlGraph struct {
	Nodes []tomlNode `toml:"nodes"`
	Edges []tomlEdge `toml:"edges"`
}

type tomlNode struct {
	ID       string           `toml:"id"`
	Type     lineage.NodeType `toml:"type"`
	Group    string           `toml:"group,omitempty"`
	Label    string           `toml:"label,omitempty"`
	Metadata map[string]any   `toml:"metadata,omitempty"`
}

type tomlEdge struct {
	ID     string            `toml:"id"`
	Source string            `toml:"source"`
	Target string            `toml:"target"`
	Data   *lineage.EdgeData `toml:"data,omitempty"`
}

// ReadJSON decodes a JSON graph from r. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*lineage.Graph, error) {
	var data graph
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidFormat, err, "decode json graph")
	}
	return lineage.NewGraph(data.Nodes, data.Edges), nil
}

// ReadTOML decodes a TOML graph from r. ReadTOML does not close r.
func ReadTOML(r io.Reader) (*lineage.Graph, error) {
	var data tomlGraph
	if _, err := toml.NewDecoder(r).Decode(&data); err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidFormat, err, "decode toml graph")
	}

	nodes := make([]lineage.Node, len(data.Nodes))
	for i, tn := range data.Nodes {
		n, err := tn.node()
		if err != nil {
			return nil, perrors.Wrap(perrors.ErrCodeInvalidFormat, err, "node %s", tn.ID)
		}
		nodes[i] = n
	}
	edges := make([]lineage.Edge, len(data.Edges))
	for i, te := range data.Edges {
		edges[i] = lineage.Edge{ID: te.ID, Source: te.Source, Target: te.Target}
		if te.Data != nil {
			edges[i].Data = *te.Data
		}
	}
	return lineage.NewGraph(nodes, edges), nil
}

// node converts the generic metadata table through its JSON form, so both
// formats share one typed decoder.
func (tn tomlNode) node() (lineage.Node, error) {
	n := lineage.Node{ID: tn.ID, Type: tn.Type, Group: tn.Group, Label: tn.Label}
	if n.Group == "" && !n.IsCollapsed() {
		n.Group = string(n.Type)
	}
	if len(tn.Metadata) == 0 {
		return n, nil
	}
	raw, err := json.Marshal(tn.Metadata)
	if err != nil {
		return n, fmt.Errorf("encode metadata: %w", err)
	}
	meta, err := lineage.DecodeMetadata(n.Type, raw)
	if err != nil {
		return n, err
	}
	n.Meta = meta
	return n, nil
}

// Import reads the graph file at path, choosing the decoder from its
// extension.
func Import(path string) (*lineage.Graph, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, perrors.Wrap(perrors.ErrCodeFileNotFound, err, "graph file %s", path)
		}
		return nil, perrors.Wrap(perrors.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer f.Close()

	if format == FormatTOML {
		return ReadTOML(f)
	}
	return ReadJSON(f)
}
