package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/provgraph/internal/server"
	"github.com/matzehuels/provgraph/pkg/lineage/fixture"
)

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve interactive views over HTTP",
		Long: `Serve interactive views over a JSON HTTP API.

Every client opens a session holding its own view state, posts interaction
events to it and fetches the recomputed snapshot or a rendered image.
Prometheus metrics are exposed at /metrics.

With --watch the graph file is reloaded when it changes; reloading closes
every open session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.settings()

			runner, err := c.newRunner(ctx)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			opts := server.Options{
				Addr:            cfg.Server.Addr,
				GraphPath:       cfg.Graph,
				Watch:           cfg.Server.Watch,
				View:            cfg.ViewConfig(),
				Runner:          runner,
				Logger:          loggerFromContext(ctx),
				MaxSessions:     cfg.Server.MaxSessions,
				ShutdownTimeout: cfg.Server.Shutdown,
			}
			if cfg.Graph == "" {
				opts.Graph = fixture.Provenance()
			}

			srv, err := server.New(opts)
			if err != nil {
				return err
			}
			srv.Metrics().Register()

			g := srv.Graph()
			printSuccess(c.Out, "Serving %d nodes on %s", g.NodeCount(), cfg.Server.Addr)
			printNextStep(c.Out, "Open a session", "curl -X POST "+baseURL(cfg.Server.Addr)+"/api/sessions")
			return srv.Serve(ctx)
		},
	}

	f := cmd.Flags()
	f.String("addr", "", "listen address (default :8080)")
	f.Bool("watch", false, "reload the graph file when it changes")
	f.Int("max-sessions", 0, "maximum number of open sessions")
	addLayoutFlags(cmd)
	addCacheFlags(cmd)

	return cmd
}

// baseURL turns a listen address into a URL reachable from the local host.
func baseURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr
}
