// ABOUTME: The serve command exposes tracking and history over an HTTP JSON API
// ABOUTME: Wires handlers onto the Huma router and shuts down gracefully on SIGINT/SIGTERM

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"adtracker/api"
	"adtracker/api/handlers"
	"adtracker/pkg/featureflags"
)

const shutdownTimeout = 30 * time.Second

func newServeCmd(global *globalOptions) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the tracker as an HTTP API",
		Long:  `Serve POST /track and the history endpoints as JSON. OpenAPI docs are at /docs and prometheus metrics at /metrics.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if port != "" {
				global.cfg.Server.Port = port
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, global)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "port to listen on (default $PORT or 8080)")
	return cmd
}

func serve(ctx context.Context, global *globalOptions) error {
	a, err := newApp(global.cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	handler, err := a.newServerHandler(ctx)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + a.cfg.Server.Port,
		Handler:           handler,
		ReadHeaderTimeout: 15 * time.Second,
		// a track request waits on one search call per keyword
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting", map[string]interface{}{
			"address": srv.Addr,
			"history": a.cfg.History.Path,
			"backend": a.cfg.History.Backend,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("Shutting down server...", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	a.logger.Info("Server stopped", nil)
	return nil
}

// newServerHandler builds the router with every endpoint registered
func (a *app) newServerHandler(ctx context.Context) (http.Handler, error) {
	a.flags.SetEnabled(featureflags.MetricsEnabled, true)
	svc, err := a.newTracker(ctx, a.cfg.Tracker.Concurrency, a.cfg.Tracker.RequestBudget)
	if err != nil {
		return nil, err
	}

	humaAPI, router := api.NewAPIWithMiddleware(api.APIConfig{
		Logger:         a.logger,
		RateLimit:      a.cfg.Server.RateLimit,
		RateWindow:     time.Duration(a.cfg.Server.RateWindowSeconds) * time.Second,
		AllowedOrigins: a.cfg.Server.AllowedOrigins,
	})

	handlers.NewTrackHandler(svc, a.store, a.cfg.SerpAPI.APIKey).RegisterRoutes(humaAPI)
	handlers.NewHistoryHandler(a.store).RegisterRoutes(humaAPI)
	mountMetrics(router, a)

	return router, nil
}

func mountMetrics(router chi.Router, a *app) {
	if a.metrics == nil {
		return
	}
	router.Handle("/metrics", promhttp.HandlerFor(a.metrics.Registry(), promhttp.HandlerOpts{}))
}
