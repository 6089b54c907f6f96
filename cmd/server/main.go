package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"

	"delivery-serviceability-service/internal/adapters/geocode"
	"delivery-serviceability-service/internal/adapters/shiprocket"
	"delivery-serviceability-service/internal/api"
	"delivery-serviceability-service/internal/api/handlers"
	"delivery-serviceability-service/internal/config"
	"delivery-serviceability-service/internal/platform/obs"
	"delivery-serviceability-service/internal/ports"
	"delivery-serviceability-service/internal/services"
)

func main() {
	// Optional .env for local development; real deployments set the
	// environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	logger := obs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := obs.NewMetrics()
	clock := clockwork.NewRealClock()

	client, err := shiprocket.NewClient(cfg.ShiprocketBaseURL, shiprocket.Credentials{
		Email:    cfg.ShiprocketEmail,
		Password: cfg.ShiprocketPassword,
	}, cfg.UpstreamTimeout, logger, metrics)
	if err != nil {
		logger.Error("upstream client setup failed", "error", err)
		os.Exit(1)
	}
	tokens := shiprocket.NewTokenSession(client.Login, clock, metrics)

	geocoder := geocode.NewClient(cfg.GeocodeBaseURL, cfg.GeocodeTimeout, logger)
	resolver := geocode.NewResolver([]ports.CoordinateSource{
		&geocode.CountrySource{Client: geocoder},
		geocode.NewDirectorySource(cfg.PostalDirectoryBaseURL, cfg.GeocodeTimeout, geocoder, logger),
	}, cfg.FallbackPoint, logger, metrics)

	checker := services.NewChecker(services.CheckerConfig{
		PickupPostcode:    cfg.PickupPostcode,
		Pickup:            cfg.PickupPoint,
		DefaultWeightKg:   cfg.DefaultWeightKg,
		AllowedPincodes:   cfg.AllowedPincodes,
		ProviderFragments: cfg.ProviderFragments,
	}, tokens, resolver, client, shiprocket.Normalize, logger, metrics)

	router := api.NewRouter(api.Handlers{
		Serviceability: handlers.NewServiceabilityHandler(checker, logger),
		Coordinates:    handlers.NewCoordinatesHandler(resolver),
		Orders:         handlers.NewOrdersHandler(client, tokens, clock, logger),
		Tracking:       handlers.NewTrackingHandler(client, tokens, logger),
	}, logger)

	// Write timeout leaves headroom for the slowest path: a cold geocode
	// chain plus the upstream serviceability call.
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.UpstreamTimeout + 2*cfg.GeocodeTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", cfg.HTTPAddr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
