package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/Atj28/weather-and-solar-AI-chat-bot/internal/geocode"
)

// AppConfig holds the process configuration. All clients are constructed from
// it at startup; nothing reads the environment after Load returns.
type AppConfig struct {
	OpenAIAPIKey string
	OpenAIModel  string

	// Optional Google geocoding fallback; empty disables it.
	GoogleGeocoderAPIKey string

	NominatimBaseURL  string
	GeocoderUserAgent string

	// Climate normals period for climate queries.
	ClimateStartYear string
	ClimateEndYear   string

	// HTTPTimeout bounds every outbound call.
	HTTPTimeout time.Duration

	Port string
}

// Load reads configuration from environment with sensible defaults.
// OPENAI_API_KEY is the only required value.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
	}

	cfg.OpenAIModel = getenvDefault("OPENAI_MODEL", "")
	cfg.GoogleGeocoderAPIKey = os.Getenv("GOOGLE_GEOCODER_API_KEY")
	cfg.NominatimBaseURL = getenvDefault("NOMINATIM_BASE_URL", geocode.DefaultNominatimBaseURL)
	cfg.GeocoderUserAgent = getenvDefault("GEOCODER_USER_AGENT", "SolarForecastApp/1.0")

	cfg.ClimateStartYear = getenvDefault("CLIMATE_START_YEAR", "1990")
	cfg.ClimateEndYear = getenvDefault("CLIMATE_END_YEAR", "2020")

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "30s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	cfg.Port = getenvDefault("PORT", "8000")

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
