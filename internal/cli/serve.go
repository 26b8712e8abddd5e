package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/parsets/internal/server"
	"github.com/matzehuels/parsets/pkg/cache"
	"github.com/matzehuels/parsets/pkg/observability"
	"github.com/matzehuels/parsets/pkg/pipeline"
)

const (
	defaultAddr        = ":8080"
	defaultRedisPrefix = "parsets:"
	shutdownTimeout    = 30 * time.Second
)

// serveFlags holds the flags of the serve command.
type serveFlags struct {
	addr    string
	redis   cache.RedisConfig
	scope   string
	maxRows int
	maxBody int64
	timeout time.Duration
	noCache bool
	events  bool
}

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var flags serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout and render API over HTTP",
		Long: `Serve the layout and render API over HTTP.

Routes:
  GET  /healthz               liveness and build info
  POST /v1/layout             model document as JSON
  POST /v1/render?format=svg  rendered chart

Rendered artifacts are cached in Redis when --redis-addr or --redis-url is
set, and in the local cache directory otherwise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), flags)
		},
	}

	cmd.Flags().StringVar(&flags.addr, "addr", defaultAddr, "listen address")
	cmd.Flags().StringVar(&flags.redis.Addr, "redis-addr", "", "redis address for the shared cache")
	cmd.Flags().StringVar(&flags.redis.URL, "redis-url", "", "redis URL for the shared cache (overrides --redis-addr)")
	cmd.Flags().StringVar(&flags.redis.Password, "redis-password", "", "redis password")
	cmd.Flags().IntVar(&flags.redis.DB, "redis-db", 0, "redis database number")
	cmd.Flags().StringVar(&flags.redis.Prefix, "redis-prefix", defaultRedisPrefix, "redis key prefix")
	cmd.Flags().StringVar(&flags.scope, "cache-scope", "", "namespace cache keys, e.g. per deployment")
	cmd.Flags().IntVar(&flags.maxRows, "max-rows", server.DefaultMaxRows, "maximum records per request")
	cmd.Flags().Int64Var(&flags.maxBody, "max-body", server.DefaultMaxBodyBytes, "maximum request body in bytes")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", server.DefaultTimeout, "per-request timeout")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&flags.events, "events", false, "log pipeline, cache and request events (with -v) and report counts on /healthz")

	return cmd
}

// runServe starts the server and shuts it down when ctx is cancelled.
func (c *CLI) runServe(ctx context.Context, flags serveFlags) error {
	store, err := c.newSharedCache(ctx, flags.redis, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}

	var keyer cache.Keyer
	if flags.scope != "" {
		keyer = cache.NewScopedKeyer(cache.NewDefaultKeyer(), flags.scope+":")
	}
	runner := pipeline.NewRunner(store, keyer, c.Logger)
	defer runner.Close()

	var events *observability.LogHooks
	if flags.events {
		events = observability.NewLogHooks(c.Logger)
		observability.UseLogHooks(events)
		defer observability.Reset()
	}

	handler := server.New(server.Config{
		Runner:       runner,
		Logger:       c.Logger,
		MaxBodyBytes: flags.maxBody,
		MaxRows:      flags.maxRows,
		Timeout:      flags.timeout,
		Events:       events,
	})

	srv := &http.Server{
		Addr:              flags.addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		defer close(errChan)
		c.Logger.Info("server starting", "addr", flags.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	c.Logger.Info("server stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	c.Logger.Info("server stopped")
	return nil
}
