package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/storefront/backend/config"
	httpDelivery "github.com/storefront/backend/internal/delivery/http"
	"github.com/storefront/backend/internal/domain"
	"github.com/storefront/backend/internal/infrastructure/catalog"
	"github.com/storefront/backend/internal/logger"
	"github.com/storefront/backend/internal/metrics"
	"github.com/storefront/backend/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Pretty: cfg.Log.Pretty || cfg.Server.Environment == "development",
	})

	log.Info().
		Str("environment", cfg.Server.Environment).
		Str("port", cfg.Server.Port).
		Str("catalog_source", cfg.Catalog.Source).
		Msg("Starting storefront backend v1.0.0")

	m := metrics.New()

	repo, err := newCatalogRepository(cfg, m, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize catalog")
	}

	productService := usecase.NewProductService(repo, m, log)
	handler := httpDelivery.NewHandler(productService, log)
	router := httpDelivery.SetupRouter(cfg, handler, m, log)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Forced shutdown")
	}
}

// newCatalogRepository builds the configured catalog data source
func newCatalogRepository(cfg *config.Config, m *metrics.Metrics, log zerolog.Logger) (domain.CatalogRepository, error) {
	switch cfg.Catalog.Source {
	case config.CatalogSourceRemote:
		client := catalog.NewClient(catalog.ClientConfig{
			BaseURL:         cfg.Catalog.BaseURL,
			APIKey:          cfg.Catalog.APIKey,
			Timeout:         cfg.Catalog.Timeout,
			RequestsPerHour: cfg.RateLimit.Catalog,
		}, log)
		client.SetRecorder(m)
		if cfg.Server.Environment == "development" {
			client.SetDebug(true)
		}
		log.Info().Str("base_url", cfg.Catalog.BaseURL).Bool("api_key_set", cfg.Catalog.APIKey != "").Msg("Remote catalog configured")
		return client, nil
	default:
		memory, err := catalog.LoadFile(cfg.Catalog.FilePath)
		if err != nil {
			return nil, err
		}
		log.Info().Str("path", cfg.Catalog.FilePath).Int("products", memory.Size()).Msg("Catalog file loaded")
		return memory, nil
	}
}
