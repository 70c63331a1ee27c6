package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/systemstart/skillet-runner/pkg/metrics"
)

// startMetrics serves /metrics on addr until the returned function is
// called. An empty addr disables the server.
func startMetrics(ctx context.Context, addr string) func() {
	if addr == "" {
		return func() {}
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server failed", "error", err)
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("stopping metrics server", "error", err)
		}
	}
}
