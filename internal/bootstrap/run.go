package bootstrap

import (
	"context"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"
)

// RunUntilShutdown starts the HTTP server and blocks until SIGINT or SIGTERM
// is received, then drains in-flight requests before returning.
func RunUntilShutdown(deps HTTPServerDeps) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := StartHTTPServer(deps)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-gctx.Done()
		// The signal context is already done; use a fresh context so the
		// drain window is honored.
		return ShutdownHTTPServer(context.Background(), server, deps.Logger)
	})

	return g.Wait()
}
