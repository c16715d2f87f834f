// Package server runs the two mock backends the terminal app talks to. Both
// share one SQLite store and speak the json-server dialect the client
// expects: name_like search, _page/_limit paging with X-Total-Count, and
// CRUD by numeric ID.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"onboard/internal/store"
)

// Options configures Run.
type Options struct {
	BasicInfoAddr string
	DetailsAddr   string
	// Latency delays every response, to make debounce and stale-response
	// handling visible in the client.
	Latency time.Duration
	Logger  *slog.Logger
}

// Run serves both backends until ctx is cancelled or one listener fails.
func Run(ctx context.Context, st *store.Store, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	routerOpts := RouterOptions{Latency: opts.Latency, Logger: logger}
	servers := []*http.Server{
		{
			Addr:              opts.BasicInfoAddr,
			Handler:           BasicInfoRouter(st, routerOpts),
			ReadHeaderTimeout: 10 * time.Second,
		},
		{
			Addr:              opts.DetailsAddr,
			Handler:           DetailsRouter(st, routerOpts),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		g.Go(func() error {
			logger.Info("mock service listening", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("listen and serve %s: %w", srv.Addr, err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		var firstErr error
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil && firstErr == nil {
				firstErr = fmt.Errorf("shutdown %s: %w", srv.Addr, err)
			}
		}
		logger.Info("mock services stopped")
		return firstErr
	})
	return g.Wait()
}
