package bootstrap

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gatelab/gqlgate/config"
	"github.com/gatelab/gqlgate/internal/graph"
	httpx "github.com/gatelab/gqlgate/internal/http"
	"github.com/gatelab/gqlgate/internal/service"
)

// Version is the build version reported by the about query. Overridden at
// build time via -ldflags.
var Version = "dev"

// HTTPServerDeps contains dependencies for the HTTP server.
type HTTPServerDeps struct {
	Config      *config.AppConfig
	Auth        *service.AuthService
	DB          *sql.DB               // optional, readiness only
	RedisClient redis.UniversalClient // optional, readiness only
	Logger      *slog.Logger
}

// StartHTTPServer creates and starts the HTTP server.
// Returns the server instance for graceful shutdown.
func StartHTTPServer(deps HTTPServerDeps) *http.Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config

	resolver := graph.NewResolver(aboutInfo(cfg))

	var dbPinger, redisPinger httpx.Pinger
	if deps.DB != nil {
		dbPinger = deps.DB
	}
	if deps.RedisClient != nil {
		client := deps.RedisClient
		redisPinger = httpx.PingerFunc(func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		})
	}

	router := httpx.NewRouter(httpx.RouterServices{
		Auth:         deps.Auth,
		GraphQL:      graph.NewHandler(resolver),
		GraphQLMount: cfg.HTTP.GraphQLMount,
		CookieDomain: cfg.HTTP.CookieDomain,
		DB:           dbPinger,
		Redis:        redisPinger,
		Logger:       logger,
	})

	// Order: Recover -> Logging -> SessionGuard -> Router
	h := httpx.SessionGuard(httpx.SessionGuardOptions{
		Validator:    deps.Auth,
		Enforce:      cfg.Auth.Enforce,
		GraphQLMount: cfg.HTTP.GraphQLMount,
		Logger:       logger,
	})(router)
	h = httpx.Logging(logger)(h)
	h = httpx.Recover(logger)(h)

	return startServer(logger, h, cfg.HTTP.Addr)
}

// aboutInfo collects the static facts reported by the about query.
func aboutInfo(cfg *config.AppConfig) graph.AboutInfo {
	hostedAt := cfg.HTTP.BaseURL
	if u, err := url.Parse(cfg.HTTP.BaseURL); err == nil && u.Host != "" {
		hostedAt = u.Host
	}

	node, err := os.Hostname()
	if err != nil {
		node = "unknown"
	}

	return graph.AboutInfo{
		Env:      cfg.Environment,
		Version:  Version,
		HostedAt: hostedAt,
		Node:     node,
	}
}

func startServer(logger *slog.Logger, handler http.Handler, addr string) *http.Server {
	// Guard against empty addr to avoid listening on Go default
	if addr == "" {
		addr = ":36016"
	}

	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
		}
	}()

	return server
}

// ShutdownHTTPServer gracefully shuts down the HTTP server.
func ShutdownHTTPServer(ctx context.Context, server *http.Server, logger *slog.Logger) error {
	if server == nil {
		return nil
	}
	if logger != nil {
		logger.Info("shutting down HTTP server")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if logger != nil {
		logger.Info("HTTP server stopped")
	}
	return nil
}
