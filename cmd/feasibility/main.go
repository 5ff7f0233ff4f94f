package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/parcel-feasibility/internal/adapter/gemini"
	httpadapter "github.com/couchcryptid/parcel-feasibility/internal/adapter/http"
	"github.com/couchcryptid/parcel-feasibility/internal/adapter/nominatim"
	"github.com/couchcryptid/parcel-feasibility/internal/config"
	"github.com/couchcryptid/parcel-feasibility/internal/domain"
	"github.com/couchcryptid/parcel-feasibility/internal/geodata"
	"github.com/couchcryptid/parcel-feasibility/internal/mapview"
	"github.com/couchcryptid/parcel-feasibility/internal/narrative"
	"github.com/couchcryptid/parcel-feasibility/internal/observability"
	"github.com/couchcryptid/parcel-feasibility/internal/pipeline"
	"github.com/couchcryptid/parcel-feasibility/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	store := geodata.NewStore(cfg.DataDir, logger)
	if err := store.Preload(); err != nil {
		logger.Error("failed to load geodata layers", "data_dir", cfg.DataDir, "error", err)
		os.Exit(1)
	}
	for _, name := range store.Names() {
		metrics.LayerFeatures.WithLabelValues(name).Set(float64(store.FeatureCount(name)))
	}

	client := nominatim.NewClient(cfg.NominatimBaseURL, cfg.NominatimUserAgent, cfg.NominatimTimeout, metrics, logger)
	geocoder := nominatim.NewCachedGeocoder(client, cfg.GeocodeCacheTTL, metrics)

	// Narratives are feature-flagged via GEMINI_ENABLED / GEMINI_API_KEY.
	// Without a generator the service still analyzes, with placeholder text.
	var generator domain.TextGenerator
	if cfg.GeminiEnabled {
		generator = gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiTimeout, logger)
		logger.Info("gemini narratives enabled", "model", cfg.GeminiModel, "timeout", cfg.GeminiTimeout)
	} else {
		logger.Info("gemini narratives disabled")
	}
	narrator := narrative.NewService(generator, metrics, logger)

	analyzer := pipeline.New(store, geocoder, narrator, logger, metrics)
	sessions := session.NewStore(cfg.SessionTTL, nil, metrics)
	overlays := mapview.NewBuilder(store)

	srv := httpadapter.NewServer(cfg.HTTPAddr, analyzer, narrator, overlays, sessions, analyzer, cfg.City, cfg.State, cfg.GeminiTimeout, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
