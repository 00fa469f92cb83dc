package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/provgraph/pkg/lineage"
	"github.com/matzehuels/provgraph/pkg/view"

	perrors "github.com/matzehuels/provgraph/pkg/errors"
)

// WriteJSON encodes g as indented JSON. The output can be re-read with
// [ReadJSON].
func WriteJSON(g *lineage.Graph, w io.Writer) error {
	out := graph{Nodes: g.Nodes(), Edges: g.Edges()}
	if out.Nodes == nil {
		out.Nodes = []lineage.Node{}
	}
	if out.Edges == nil {
		out.Edges = []lineage.Edge{}
	}
	return encodeJSON(out, w)
}

// WriteTOML encodes g as TOML. The output can be re-read with [ReadTOML].
// Collapsed aggregates are not representable and are written without
// their member lists.
func WriteTOML(g *lineage.Graph, w io.Writer) error {
	var out tomlGraph
	for _, n := range g.Nodes() {
		tn := tomlNode{ID: n.ID, Type: n.Type, Group: n.Group, Label: n.Label}
		if n.Meta != nil {
			m, err := metaTable(n.Meta)
			if err != nil {
				return perrors.Wrap(perrors.ErrCodeInternal, err, "node %s", n.ID)
			}
			tn.Metadata = m
		}
		out.Nodes = append(out.Nodes, tn)
	}
	for _, e := range g.Edges() {
		te := tomlEdge{ID: e.ID, Source: e.Source, Target: e.Target}
		if e.Data != (lineage.EdgeData{}) {
			data := e.Data
			te.Data = &data
		}
		out.Edges = append(out.Edges, te)
	}
	if err := toml.NewEncoder(w).Encode(out); err != nil {
		return perrors.Wrap(perrors.ErrCodeInternal, err, "encode toml graph")
	}
	return nil
}

// metaTable converts a metadata payload into a generic table. Numbers keep
// their integer form where they have one.
func metaTable(m lineage.Metadata) (map[string]any, error) {
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var out map[string]any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return normalizeNumbers(out).(map[string]any), nil
}

func normalizeNumbers(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		f, _ := t.Float64()
		return f
	case map[string]any:
		for k, x := range t {
			t[k] = normalizeNumbers(x)
		}
		return t
	case []any:
		for i, x := range t {
			t[i] = normalizeNumbers(x)
		}
		return t
	default:
		return v
	}
}

// Export writes g to path in the format implied by its extension.
func Export(g *lineage.Graph, path string) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	return writeFile(path, func(w io.Writer) error {
		if format == FormatTOML {
			return WriteTOML(g, w)
		}
		return WriteJSON(g, w)
	})
}

// WriteSnapshot encodes a computed view as indented JSON.
func WriteSnapshot(s view.Snapshot, w io.Writer) error {
	return encodeJSON(s, w)
}

// ExportSnapshot writes a computed view to a JSON file at path.
func ExportSnapshot(s view.Snapshot, path string) error {
	return writeFile(path, func(w io.Writer) error { return WriteSnapshot(s, w) })
}

func encodeJSON(v any, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return perrors.Wrap(perrors.ErrCodeInternal, err, "encode json")
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return perrors.Wrap(perrors.ErrCodeInvalidPath, err, "create %s", path)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
