package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/txgraph"
	"github.com/aretw0/txgraph/internal/config"
	"github.com/aretw0/txgraph/internal/presentation/tui"
	httpAdapter "github.com/aretw0/txgraph/pkg/adapters/http"
	"github.com/aretw0/txgraph/pkg/adapters/mcp"
	"github.com/aretw0/txgraph/pkg/adapters/redis"
	"github.com/aretw0/txgraph/pkg/observability"
	"github.com/aretw0/txgraph/pkg/ports"
)

// SeedLockTTL bounds how long a served expansion may hold its seed lock.
const SeedLockTTL = 5 * time.Minute

// Transports supported by the MCP command.
const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
)

// service bundles an engine with the resources it owns.
type service struct {
	cfg     *config.Config
	engine  *txgraph.Engine
	store   ports.RecordStore
	metrics *observability.Metrics
	logger  *slog.Logger
	close   func() error
}

func openService(opts RunOptions, stderr io.Writer) (*service, error) {
	cfg, err := LoadConfig(opts.ConfigPath, opts.DataDir, tui.NewPrinter(stderr).Warn)
	if err != nil {
		return nil, err
	}

	logger := createLogger(opts.Debug)
	metrics := observability.NewMetrics()
	hooks := metrics.Hooks()
	if opts.Debug {
		hooks = observability.Combine(hooks, createDebugHooks(logger))
	}

	store, closeStore, err := OpenStore(cfg)
	if err != nil {
		return nil, err
	}
	engine, err := createEngine(opts, cfg, store, hooks, logger)
	if err != nil {
		_ = closeStore()
		return nil, err
	}

	return &service{
		cfg:     cfg,
		engine:  engine,
		store:   store,
		metrics: metrics,
		logger:  logger,
		close:   closeStore,
	}, nil
}

// handler builds the HTTP API. Redis-backed stores also get a per-seed lock.
func (s *service) handler() http.Handler {
	httpOpts := []httpAdapter.Option{
		httpAdapter.WithMetrics(s.metrics.Handler()),
		httpAdapter.WithLogger(s.logger),
	}
	if rs, ok := s.store.(*redis.Store); ok {
		locker := redis.NewLocker(rs.Client(), s.cfg.Redis.Prefix)
		httpOpts = append(httpOpts, httpAdapter.WithLocker(locker, SeedLockTTL))
	}
	return httpAdapter.NewHandler(s.engine, httpOpts...)
}

// Serve runs the HTTP API until ctx is cancelled.
// An empty addr falls back to the configured serve address.
func Serve(ctx context.Context, opts RunOptions, addr string, stderr io.Writer) error {
	svc, err := openService(opts, stderr)
	if err != nil {
		return err
	}
	defer svc.close()

	if addr == "" {
		addr = svc.cfg.Serve.Addr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           svc.handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		fmt.Fprintf(stderr, "Starting txgraph server on %s\n", srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			_ = srv.Close()
			return fmt.Errorf("graceful shutdown did not complete: %w", err)
		}
		fmt.Fprintln(stderr, "txgraph server stopped gracefully")
		return nil
	}
}

// RunMCP exposes the engine as an MCP server over the given transport.
func RunMCP(ctx context.Context, opts RunOptions, transport string, port int, stderr io.Writer) error {
	svc, err := openService(opts, stderr)
	if err != nil {
		return err
	}
	defer svc.close()

	srv := mcp.NewServer(svc.engine, svc.logger)
	switch transport {
	case TransportStdio:
		return srv.ServeStdio()
	case TransportSSE:
		if err := srv.ServeSSE(ctx, port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	default:
		return fmt.Errorf("unknown transport %q (want %s or %s)", transport, TransportStdio, TransportSSE)
	}
}
