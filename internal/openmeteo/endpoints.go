package openmeteo

import (
	"fmt"

	"github.com/Atj28/weather-and-solar-AI-chat-bot/internal/intent"
)

// baseURLs maps each API type to its Open-Meteo service endpoint.
var baseURLs = map[intent.APIType]string{
	intent.APIForecast:   "https://api.open-meteo.com/v1/forecast",
	intent.APIArchive:    "https://archive-api.open-meteo.com/v1/archive",
	intent.APIMarine:     "https://marine-api.open-meteo.com/v1/marine",
	intent.APIAirQuality: "https://air-quality-api.open-meteo.com/v1/air-quality",
	intent.APISnow:       "https://snow-api.open-meteo.com/v1/snow",
	intent.APIClimate:    "https://climate-api.open-meteo.com/v1/climate",
}

// BaseURL returns the service endpoint for the given API type.
func BaseURL(t intent.APIType) (string, error) {
	u, ok := baseURLs[t]
	if !ok {
		return "", fmt.Errorf("no endpoint registered for api type %q", t)
	}
	return u, nil
}
