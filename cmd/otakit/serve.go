package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/actyme/ota-partner-kit/pkg/metrics"
	"github.com/actyme/ota-partner-kit/pkg/otaclient"
	"github.com/actyme/ota-partner-kit/pkg/types"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the health and metrics HTTP endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger, err := buildLogger(cfg.Logging)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			registry := prometheus.NewRegistry()
			registry.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)

			client, err := otaclient.New(cfg,
				otaclient.WithLogger(logger),
				otaclient.WithCollectors(metrics.NewCollectors(registry)),
			)
			if err != nil {
				return err
			}

			router := chi.NewRouter()
			router.Use(middleware.Recoverer)
			router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
				report := client.HealthCheck(r.Context())
				w.Header().Set("Content-Type", "application/json")
				if report.Overall != types.HealthStatusHealthy {
					w.WriteHeader(http.StatusServiceUnavailable)
				}
				_ = json.NewEncoder(w).Encode(report)
			})
			router.Get("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}).ServeHTTP)

			srv := &http.Server{
				Addr:              addr,
				Handler:           router,
				ReadHeaderTimeout: 5 * time.Second,
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			// Periodic probe keeps breaker and metrics state warm and
			// surfaces partner degradation in the logs.
			go runHealthLoop(ctx, client, logger, cfg.Monitoring.HealthCheckInterval)

			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()

			logger.Info("serving", zap.String("addr", addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}

func runHealthLoop(ctx context.Context, client *otaclient.Client, logger *zap.Logger, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			report := client.HealthCheck(ctx)
			if report.Overall == types.HealthStatusHealthy {
				logger.Debug("partner health check passed")
				continue
			}
			for partner, health := range report.Partners {
				if health.Error != "" {
					logger.Warn("partner unhealthy",
						zap.String("partner", partner.String()),
						zap.String("error", health.Error))
				}
			}
		}
	}
}
