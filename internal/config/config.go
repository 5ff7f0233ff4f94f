package config

import (
	"errors"
	"os"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// GeoJSON layer directory.
	DataDir string

	// Address defaults appended to every analyzed street address.
	City  string
	State string

	// Nominatim geocoding configuration.
	NominatimBaseURL   string
	NominatimUserAgent string
	NominatimTimeout   time.Duration
	GeocodeCacheTTL    time.Duration

	// Gemini narrative configuration.
	GeminiAPIKey  string
	GeminiModel   string
	GeminiEnabled bool
	GeminiTimeout time.Duration

	SessionTTL time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := envDuration("SHUTDOWN_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}

	nominatimTimeout, err := envDuration("NOMINATIM_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	cacheTTL, err := envDuration("GEOCODE_CACHE_TTL", "1h")
	if err != nil {
		return nil, err
	}

	geminiTimeout, err := envDuration("GEMINI_TIMEOUT", "60s")
	if err != nil {
		return nil, err
	}

	sessionTTL, err := envDuration("SESSION_TTL", "2h")
	if err != nil {
		return nil, err
	}

	geminiKey := os.Getenv("GEMINI_API_KEY")
	geminiEnabled := geminiKey != ""
	if v := os.Getenv("GEMINI_ENABLED"); v != "" {
		geminiEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		DataDir: envOrDefault("DATA_DIR", "data"),

		City:  envOrDefault("CITY", "Mercer Island"),
		State: envOrDefault("STATE", "WA"),

		NominatimBaseURL:   envOrDefault("NOMINATIM_BASE_URL", "https://nominatim.openstreetmap.org"),
		NominatimUserAgent: envOrDefault("NOMINATIM_USER_AGENT", "parcel-feasibility/1.0"),
		NominatimTimeout:   nominatimTimeout,
		GeocodeCacheTTL:    cacheTTL,

		GeminiAPIKey:  geminiKey,
		GeminiModel:   envOrDefault("GEMINI_MODEL", "gemini-2.0-flash"),
		GeminiEnabled: geminiEnabled,
		GeminiTimeout: geminiTimeout,

		SessionTTL: sessionTTL,
	}

	if cfg.DataDir == "" {
		return nil, errors.New("DATA_DIR is required")
	}
	if cfg.GeminiEnabled && cfg.GeminiAPIKey == "" {
		return nil, errors.New("GEMINI_ENABLED is true but GEMINI_API_KEY is not set")
	}

	return cfg, nil
}
