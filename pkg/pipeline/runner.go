package pipeline

import (
	"bytes"
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/provgraph/pkg/cache"
	pgio "github.com/matzehuels/provgraph/pkg/io"
	"github.com/matzehuels/provgraph/pkg/lineage"
	"github.com/matzehuels/provgraph/pkg/lineage/fixture"
	"github.com/matzehuels/provgraph/pkg/render/nodelink"
	"github.com/matzehuels/provgraph/pkg/view"

	perrors "github.com/matzehuels/provgraph/pkg/errors"
)

// renderers maps the Graphviz-backed formats to their renderer.
var renderers = map[string]func(context.Context, string) ([]byte, error){
	FormatSVG: nodelink.RenderSVG,
	FormatPNG: nodelink.RenderPNG,
}

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger: it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → view → render pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	g, err := r.Load(opts.Graph)
	if err != nil {
		return nil, err
	}
	result.Graph = g
	result.Issues = g.Validate()
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()

	r.Logger.Info("loaded graph",
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"duration", result.Stats.LoadTime)
	for _, issue := range result.Issues {
		r.Logger.Warn("graph issue", "kind", issue.Kind, "id", issue.ID, "msg", issue.Msg)
	}

	// Stage 2: View
	viewStart := time.Now()
	c, err := r.BuildView(g, opts)
	if err != nil {
		return nil, err
	}
	result.Snapshot = c.Snapshot()
	result.Stats.ViewTime = time.Since(viewStart)

	r.Logger.Info("computed view",
		"visible", result.Snapshot.Visible,
		"total", result.Snapshot.Total,
		"collapsed", result.Snapshot.Stats.Aggregates,
		"duration", result.Stats.ViewTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, result.Snapshot, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.DOT = nodelink.ToDOT(result.Snapshot, nodelink.Options{Detailed: opts.Detailed})
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = hit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load reads the graph file at path, or builds the mock fixture when path
// is empty.
func (r *Runner) Load(path string) (*lineage.Graph, error) {
	if path == "" {
		r.Logger.Debug("using built-in fixture", "seed", fixture.Seed)
		return fixture.Provenance(), nil
	}
	g, err := pgio.Import(path)
	if err != nil {
		return nil, err
	}
	if cycles := g.CyclicComponents(); len(cycles) > 0 {
		r.Logger.Warn("graph contains cycles", "components", len(cycles))
	}
	return g, nil
}

// BuildView creates a controller over g and applies the selection or filter
// from opts.
func (r *Runner) BuildView(g *lineage.Graph, opts Options) (*view.Controller, error) {
	t, err := opts.nodeType()
	if err != nil {
		return nil, err
	}
	c := view.New(g, opts.View)
	if opts.Select != "" {
		if !g.HasNode(opts.Select) {
			return nil, perrors.New(perrors.ErrCodeNotFound, "node %q not found", opts.Select)
		}
		c.SelectNode(opts.Select)
	}
	if opts.filtering() {
		c.SetFilter(opts.FilterName, t)
	}
	return c, nil
}

// RenderWithCacheInfo renders snap in every requested format. The bool
// result is true when every Graphviz artifact came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, snap view.Snapshot, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	dot := nodelink.ToDOT(snap, nodelink.Options{Detailed: opts.Detailed})
	dotHash := cache.Hash([]byte(dot))

	artifacts := make(map[string][]byte, len(opts.Formats))
	allCached, rendered := true, false
	for _, format := range opts.Formats {
		switch format {
		case FormatDOT:
			artifacts[format] = []byte(dot)
			continue
		case FormatJSON:
			var buf bytes.Buffer
			if err := pgio.WriteSnapshot(snap, &buf); err != nil {
				return nil, false, err
			}
			artifacts[format] = buf.Bytes()
			continue
		}

		key := r.Keyer.ArtifactKey(dotHash, cache.ArtifactKeyOpts{Format: format, Detailed: opts.Detailed})
		fill := func() ([]byte, error) {
			allCached = false
			return renderers[format](ctx, dot)
		}
		var (
			data []byte
			err  error
		)
		if opts.Refresh {
			data, err = fill()
			if err == nil {
				_ = r.Cache.Set(ctx, key, data, opts.TTL)
			}
		} else {
			data, err = cache.Fetch(ctx, r.Cache, key, format, opts.TTL, fill)
		}
		if err != nil {
			return nil, false, perrors.Wrap(perrors.ErrCodeInternal, err, "render %s", format)
		}
		artifacts[format] = data
		rendered = true
	}
	return artifacts, rendered && allCached, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, snap view.Snapshot, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, snap, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
