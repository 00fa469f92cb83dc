// Package server exposes interactive provgraph views over a JSON HTTP API.
//
// Each client opens a session that owns one [view.Controller]. Interaction
// events are posted to the session and answered with the recomputed
// snapshot; the session can also be rendered as SVG, PNG or DOT.
//
// Routes:
//
//	POST   /api/sessions               open a session (optional {"collapsed": [...]})
//	GET    /api/sessions/{id}          current snapshot
//	POST   /api/sessions/{id}/events   apply a view.Event
//	GET    /api/sessions/{id}/svg      render (also /png, /dot; ?detailed=true)
//	DELETE /api/sessions/{id}          close a session
//	GET    /api/graph                  raw graph, groups and validation issues
//	GET    /healthz                    liveness and build info
//	GET    /metrics                    Prometheus metrics
//
// Sessions live in memory only. Reloading the graph file (see Options.Watch)
// closes every open session.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	pgio "github.com/matzehuels/provgraph/pkg/io"
	"github.com/matzehuels/provgraph/pkg/lineage"
	"github.com/matzehuels/provgraph/pkg/observability"
	"github.com/matzehuels/provgraph/pkg/pipeline"
	"github.com/matzehuels/provgraph/pkg/view"
)

// Defaults.
const (
	DefaultAddr            = ":8080"
	DefaultMaxSessions     = 256
	DefaultShutdownTimeout = 5 * time.Second
)

// Options configures a Server.
type Options struct {
	Addr string

	// Graph is served to every new session. When nil and GraphPath is
	// set, the graph is imported from GraphPath.
	Graph     *lineage.Graph
	GraphPath string

	// Watch reloads GraphPath when it changes on disk.
	Watch bool

	View            view.Config
	Runner          *pipeline.Runner
	Metrics         *Metrics
	Logger          *log.Logger
	MaxSessions     int
	ShutdownTimeout time.Duration
}

// Server is the provgraph HTTP API.
type Server struct {
	opts     Options
	logger   *log.Logger
	runner   *pipeline.Runner
	metrics  *Metrics
	sessions *sessionStore
	router   chi.Router

	mu    sync.RWMutex
	graph *lineage.Graph
}

// New creates a server. It fails only when the graph must be imported from
// GraphPath and cannot be read.
func New(opts Options) (*Server, error) {
	if opts.Addr == "" {
		opts.Addr = DefaultAddr
	}
	if opts.MaxSessions <= 0 {
		opts.MaxSessions = DefaultMaxSessions
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = DefaultShutdownTimeout
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Runner == nil {
		opts.Runner = pipeline.NewRunner(nil, nil, opts.Logger)
	}
	if opts.Metrics == nil {
		opts.Metrics = NewMetrics()
	}

	g := opts.Graph
	if g == nil && opts.GraphPath != "" {
		var err error
		if g, err = pgio.Import(opts.GraphPath); err != nil {
			return nil, err
		}
	}
	if g == nil {
		g = lineage.NewGraph(nil, nil)
	}

	s := &Server{
		opts:     opts,
		logger:   opts.Logger,
		runner:   opts.Runner,
		metrics:  opts.Metrics,
		sessions: newSessionStore(opts.MaxSessions),
		graph:    g,
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewMux()
	r.Use(
		middleware.Recoverer,
		s.instrument,
	)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/graph", s.handleGraph)
		r.Post("/sessions", s.handleCreateSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)
			r.Post("/events", s.handleEvent)
			r.Get("/svg", s.handleRender(pipeline.FormatSVG))
			r.Get("/png", s.handleRender(pipeline.FormatPNG))
			r.Get("/dot", s.handleRender(pipeline.FormatDOT))
		})
	})
	return r
}

// Handler returns the HTTP handler serving the API.
func (s *Server) Handler() http.Handler { return s.router }

// Metrics returns the server's metrics collector.
func (s *Server) Metrics() *Metrics { return s.metrics }

// Graph returns the graph served to new sessions.
func (s *Server) Graph() *lineage.Graph {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.graph
}

// SetGraph replaces the served graph and closes every open session.
func (s *Server) SetGraph(g *lineage.Graph) int {
	s.mu.Lock()
	s.graph = g
	s.mu.Unlock()
	n := s.sessions.reset()
	observability.HTTP().OnSessions(context.Background(), 0)
	return n
}

// Reload re-imports GraphPath. On failure the current graph stays in place.
func (s *Server) Reload() error {
	if s.opts.GraphPath == "" {
		return fmt.Errorf("no graph file to reload")
	}
	g, err := pgio.Import(s.opts.GraphPath)
	if err != nil {
		return err
	}
	closed := s.SetGraph(g)
	s.logger.Info("reloaded graph",
		"path", s.opts.GraphPath,
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"closed_sessions", closed)
	return nil
}

// Serve starts the server and blocks until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("starting server", "addr", s.opts.Addr, "sessions", s.opts.MaxSessions, "watch", s.opts.Watch)

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    s.opts.Addr,
		Handler: s.router,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.opts.Watch && s.opts.GraphPath != "" {
		w, err := s.newWatcher()
		if err != nil {
			return err
		}
		eg.Go(func() error {
			return s.watchGraph(egctx, w)
		})
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()

		s.logger.Debug("shutting down server")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
