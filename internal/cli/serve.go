package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/reflow/pkg/cache"
	"github.com/matzehuels/reflow/pkg/observability"
)

const shutdownTimeout = 5 * time.Second

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr     string
	redisURL string
	ttl      time.Duration
	noCache  bool
}

// serveCommand creates the serve command running the preview service.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{addr: "127.0.0.1:8080", ttl: time.Hour}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the layout preview service",
		Long: `Run the layout preview service.

Endpoints:
  GET  /healthz         liveness and version
  GET  /v1/properties   property names, types and defaults
  GET  /v1/stats        request, drag, reorder and settle counters
  POST /v1/layout       settle a scene and return its snapshot
  POST /v1/hover        drag an item to a pointer and return the slot it takes
  POST /v1/render       render a scene (?view=frame|tree&format=svg|pdf|png&style=simple|handdrawn)

Scenes are posted as JSON ({"scene": {...}, "ticks": 0}) or, for layout and
render, as a TOML scene file with Content-Type application/toml.

Results are cached in the local cache directory, or in Redis with
--redis-url for deployments running several instances.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.redisURL, "redis-url", "", "cache results in Redis (redis://host:port/db)")
	cmd.Flags().DurationVar(&opts.ttl, "cache-ttl", opts.ttl, "lifetime of cached results")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

// runServe serves until ctx is cancelled, then shuts down gracefully.
func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	store, err := c.serveCache(ctx, opts)
	if err != nil {
		return err
	}
	defer store.Close()

	srv := newServer(c.Logger, store, opts.ttl)
	observability.SetReflowHooks(srv.stats)
	observability.SetHTTPHooks(srv.stats)
	defer observability.Reset()

	ln, err := net.Listen("tcp", opts.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", opts.addr, err)
	}
	httpSrv := &http.Server{
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.Serve(ln) }()
	printSuccess("Serving on http://%s", ln.Addr())

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

// serveCache picks the cache backend: Redis when a URL is given, the file
// cache otherwise.
func (c *CLI) serveCache(ctx context.Context, opts serveOpts) (cache.Cache, error) {
	if opts.noCache || opts.redisURL == "" {
		return newCache(opts.noCache)
	}
	c.Logger.Info("connecting to redis")
	rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{URL: opts.redisURL, Prefix: appName + ":"})
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return rc, nil
}
