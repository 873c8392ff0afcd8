// Command server runs the verification backend the auto-fill gateway
// talks to: two verification endpoints over chi, a TTL response cache in
// front of the upstream registries, health and Prometheus endpoints.
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
	"golang.org/x/sync/errgroup"

	"formfill/internal/platform/config"
	"formfill/internal/platform/health"
	"formfill/internal/platform/logger"
	"formfill/internal/platform/middleware"
	"formfill/internal/verifyd/handler"
	"formfill/internal/verifyd/metrics"
	"formfill/internal/verifyd/providers"
	"formfill/internal/verifyd/service"
	"formfill/internal/verifyd/store"
)

const shutdownGrace = 10 * time.Second

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	personClient := providers.NewPersonClient(
		cfg.PersonRegistryURL, cfg.PersonRegistryKey, cfg.ProviderTimeout)
	corporateClient := providers.NewCorporateClient(
		cfg.CorporateRegistryURL, cfg.CorporateRegistryKey, cfg.ProviderTimeout)

	svc := service.New(
		store.NewMemoryCache(cfg.ResponseCacheTTL),
		personClient,
		corporateClient,
		service.WithLogger(log),
		service.WithMetrics(metrics.New()),
	)

	r := chi.NewRouter()
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(log))

	healthHandler := health.New()
	probeClient := &http.Client{Timeout: 2 * time.Second}
	healthHandler.RegisterCheck("person_registry",
		health.URLCheck(probeClient, cfg.PersonRegistryURL+"/health"))
	healthHandler.RegisterCheck("corporate_registry",
		health.URLCheck(probeClient, cfg.CorporateRegistryURL+"/health"))
	healthHandler.Register(r)

	r.Handle("/metrics", promhttp.Handler())
	handler.New(svc, log).Routes(r)

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info("verification backend listening", "addr", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}
