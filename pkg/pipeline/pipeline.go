// Package pipeline runs the load → view → render pipeline for provgraph.
//
// The CLI and the HTTP server share this package so a graph is always
// loaded, validated, transformed and rendered the same way.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: read a JSON or TOML graph file, or build the mock fixture
//  2. View: apply the initial collapse set, selection and filter through a
//     [view.Controller] and take its snapshot
//  3. Render: emit DOT, snapshot JSON, SVG or PNG from the snapshot
//
// Graphviz rendering is the expensive step. SVG and PNG artifacts are cached
// under a key derived from the hash of the DOT document, so identical views
// render once.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Graph:   "lineage.json",
//	    View:    view.DefaultConfig(),
//	    Select:  "model-42",
//	    Formats: []string{"svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/provgraph/pkg/lineage"
	"github.com/matzehuels/provgraph/pkg/view"

	perrors "github.com/matzehuels/provgraph/pkg/errors"
)

// Format constants for output formats.
const (
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
)

// DefaultFormat is used when no format is requested.
const DefaultFormat = FormatSVG

// DefaultTTL is how long rendered artifacts stay cached.
const DefaultTTL = 24 * time.Hour

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
	FormatJSON: true,
}

// ValidateFormat reports an error for unsupported formats. Formats are
// case-sensitive.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return perrors.New(perrors.ErrCodeUnsupported, "unsupported format %q (want dot, svg, png or json)", format)
	}
	return nil
}

// ValidateFormats validates every format in formats.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// Options configures a pipeline run.
type Options struct {
	// Graph is the graph file to load. Empty loads the mock fixture.
	Graph string

	// View configures the controller: initial collapse set and layout.
	View view.Config

	// Select traces connectivity from this node. Selecting expands every
	// group first.
	Select string

	// FilterName and FilterType narrow the view. They cannot be combined
	// with Select: an active filter clears the selection.
	FilterName string
	FilterType string

	Formats  []string
	Detailed bool

	// Refresh re-renders artifacts and overwrites cached copies.
	Refresh bool

	// TTL of cached artifacts. Zero means DefaultTTL.
	TTL time.Duration
}

// ValidateAndSetDefaults checks opts and fills in defaults.
func (o *Options) ValidateAndSetDefaults() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.TTL <= 0 {
		o.TTL = DefaultTTL
	}
	if o.Graph != "" {
		if err := perrors.ValidateGraphPath(o.Graph); err != nil {
			return err
		}
	}
	if o.Select != "" {
		if err := perrors.ValidateNodeID(o.Select); err != nil {
			return err
		}
		if o.filtering() {
			return perrors.New(perrors.ErrCodeInvalidInput, "select and filter cannot be combined")
		}
	}
	if _, err := o.nodeType(); err != nil {
		return err
	}
	return nil
}

func (o Options) filtering() bool {
	return strings.TrimSpace(o.FilterName) != "" || o.FilterType != ""
}

func (o Options) nodeType() (lineage.NodeType, error) {
	if o.FilterType == "" {
		return "", nil
	}
	t, err := lineage.ParseNodeType(o.FilterType)
	if err != nil {
		return "", perrors.Wrap(perrors.ErrCodeInvalidNodeType, err, "filter type %q", o.FilterType)
	}
	return t, nil
}

// Result holds everything a pipeline run produced.
type Result struct {
	Graph     *lineage.Graph
	Issues    []lineage.Issue
	Snapshot  view.Snapshot
	DOT       string
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats records stage timings and graph size.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	LoadTime   time.Duration
	ViewTime   time.Duration
	RenderTime time.Duration
}

// CacheInfo reports whether cached artifacts were used.
type CacheInfo struct {
	// RenderHit is true when every cacheable artifact came from the cache.
	RenderHit bool
}

// String summarizes the run for log output.
func (s Stats) String() string {
	return fmt.Sprintf("%d nodes, %d edges (load %s, view %s, render %s)",
		s.NodeCount, s.EdgeCount,
		s.LoadTime.Round(time.Millisecond), s.ViewTime.Round(time.Millisecond), s.RenderTime.Round(time.Millisecond))
}
