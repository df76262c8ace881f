// Command merakiops serves the Meraki Dashboard API over the Model
// Context Protocol, with response caching, disk overflow for oversized
// results, and a read-only policy gate for mutations.
//
// Transport is stdio by default; set MCP_TRANSPORT=sse to serve over
// HTTP with optional API-key or JWT authentication.
package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/jonwraymond/merakiops/auth"
	"github.com/jonwraymond/merakiops/cache"
	"github.com/jonwraymond/merakiops/config"
	"github.com/jonwraymond/merakiops/dashboard"
	"github.com/jonwraymond/merakiops/dispatch"
	"github.com/jonwraymond/merakiops/health"
	"github.com/jonwraymond/merakiops/mcptools"
	"github.com/jonwraymond/merakiops/observe"
	"github.com/jonwraymond/merakiops/overflow"
)

const (
	serverName    = "Meraki Dashboard MCP"
	serverVersion = "1.0.0"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "merakiops:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	obs, err := observe.NewObserver(ctx, cfg.ObserveConfig(serverVersion))
	if err != nil {
		return fmt.Errorf("telemetry setup: %w", err)
	}
	defer func() {
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = obs.Shutdown(shCtx)
	}()
	logger := obs.Logger()

	client, err := dashboard.NewClient(cfg.DashboardConfig(), dashboard.WithClientLogger(logger))
	if err != nil {
		return fmt.Errorf("dashboard client: %w", err)
	}

	store, err := overflow.NewStore(cfg.OverflowConfig())
	if err != nil {
		return fmt.Errorf("overflow store: %w", err)
	}
	if store.Enabled() {
		if res, err := store.Sweep(cfg.RetentionAge()); err != nil {
			logger.Warn(ctx, "startup overflow sweep failed", observe.Field{Key: "error", Value: err.Error()})
		} else {
			logger.Info(ctx, "startup overflow sweep",
				observe.Field{Key: "deleted", Value: res.DeletedCount},
				observe.Field{Key: "kept", Value: res.KeptCount})
		}
	}

	metrics, err := observe.NewMetrics(obs.Meter())
	if err != nil {
		return fmt.Errorf("metrics setup: %w", err)
	}

	d := dispatch.New(client, cache.NewMemory(cfg.CachePolicy()), store, cfg.DispatchConfig(),
		dispatch.WithLogger(logger),
		dispatch.WithMetrics(metrics),
		dispatch.WithTracer(observe.NewTracer(obs.Tracer())),
	)

	s := server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithRecovery(),
		server.WithToolCapabilities(false),
	)
	mcptools.Register(s, mcptools.Deps{
		Dispatcher: d,
		Describer:  client,
		ServerInfo: mcptools.ServerInfo{
			ReadOnly:         cfg.ReadOnly,
			CachingEnabled:   cfg.CacheEnabled,
			CacheTTLSeconds:  cfg.CacheTTLSeconds,
			OrgIDConfigured:  cfg.OrgID != "",
			APIKeyConfigured: cfg.APIKey != "",
		},
	})

	logger.Info(ctx, "server configured",
		observe.Field{Key: "transport", Value: cfg.Transport},
		observe.Field{Key: "read_only", Value: cfg.ReadOnly},
		observe.Field{Key: "caching", Value: cfg.CacheEnabled})

	if cfg.Transport == "sse" {
		return serveSSE(ctx, cfg, s, d, logger)
	}
	return server.ServeStdio(s)
}

// serveSSE runs the MCP server over HTTP alongside health endpoints.
// Authentication applies to the MCP routes only; probes stay open so
// orchestrators can reach them without credentials.
func serveSSE(ctx context.Context, cfg *config.Config, s *server.MCPServer, d *dispatch.Dispatcher, logger observe.Logger) error {
	agg := health.NewAggregator()
	agg.Register("cache", health.NewCacheChecker(d.Cache()))
	agg.Register("overflow", health.NewOverflowChecker(d.Store()))
	agg.Register("upstream", health.NewUpstreamChecker(cfg.BaseURL, nil))

	mux := http.NewServeMux()
	health.RegisterHandlers(mux, agg)

	var handler http.Handler = server.NewSSEServer(s)
	if auths := buildAuthenticators(cfg); len(auths) > 0 {
		handler = auth.Middleware(handler, auths...)
	} else {
		logger.Warn(ctx, "sse transport has no authenticators configured; endpoint is open")
	}
	mux.Handle("/", handler)

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	logger.Info(ctx, "sse server listening", observe.Field{Key: "addr", Value: srv.Addr})

	select {
	case <-ctx.Done():
		shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shCtx)
	case err := <-errCh:
		return err
	}
}

func buildAuthenticators(cfg *config.Config) []auth.Authenticator {
	var auths []auth.Authenticator
	if len(cfg.AuthAPIKeys) > 0 {
		keys := make(map[string]string, len(cfg.AuthAPIKeys))
		for i, k := range cfg.AuthAPIKeys {
			keys[k] = fmt.Sprintf("api-key-%d", i)
		}
		auths = append(auths, auth.NewAPIKeyAuthenticator(auth.APIKeyConfig{Keys: keys}))
	}
	if cfg.JWTSecret != "" {
		auths = append(auths, auth.NewJWTAuthenticator(auth.JWTConfig{
			Secret: []byte(cfg.JWTSecret),
			Issuer: cfg.JWTIssuer,
		}))
	}
	return auths
}
