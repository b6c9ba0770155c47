package llm

import (
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/Atj28/weather-and-solar-AI-chat-bot/internal/intent"
)

// ErrNoSchema means no response schema is registered for an API type. This is
// a configuration fault, not a user error.
var ErrNoSchema = errors.New("no response schema for api type")

// baseProperties are shared by every response schema: a free-text summary and
// a list of categorized recommendations.
func baseProperties() map[string]interface{} {
	return map[string]interface{}{
		"summary": map[string]interface{}{
			"type":        "string",
			"description": "Overall analysis and key findings",
		},
		"recommendations": map[string]interface{}{
			"type": "array",
			"items": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"category": map[string]interface{}{"type": "string"},
					"advice":   map[string]interface{}{"type": "string"},
				},
			},
		},
	}
}

// entrySchema builds an array-of-objects property whose entries carry the
// given string fields.
func entrySchema(fields ...string) map[string]interface{} {
	props := make(map[string]interface{}, len(fields))
	for _, f := range fields {
		props[f] = map[string]interface{}{"type": "string"}
	}
	return map[string]interface{}{
		"type": "array",
		"items": map[string]interface{}{
			"type":       "object",
			"properties": props,
		},
	}
}

// objectSchema builds an object property with the given string fields.
func objectSchema(fields ...string) map[string]interface{} {
	props := make(map[string]interface{}, len(fields))
	for _, f := range fields {
		props[f] = map[string]interface{}{"type": "string"}
	}
	return map[string]interface{}{
		"type":       "object",
		"properties": props,
	}
}

func schemaDef(name, description, payloadKey string, payload map[string]interface{}) openai.FunctionDefinition {
	props := baseProperties()
	props[payloadKey] = payload
	return openai.FunctionDefinition{
		Name:        name,
		Description: description,
		Parameters: map[string]interface{}{
			"type":       "object",
			"properties": props,
			"required":   []string{"summary", payloadKey, "recommendations"},
		},
	}
}

// FunctionFor selects the structured-output schema for a classified intent.
// Forecast schemas split on time frame; every other API type has one schema.
func FunctionFor(w intent.WeatherIntent) (openai.FunctionDefinition, error) {
	switch w.APIType {
	case intent.APIForecast:
		if w.TimeFrame == intent.TimeFrameHourly {
			return schemaDef(
				"analyze_hourly_forecast",
				"Analyze hourly weather forecast data",
				"hourly_forecast",
				entrySchema("hour", "conditions", "solar_potential"),
			), nil
		}
		return schemaDef(
			"analyze_daily_forecast",
			"Analyze daily weather forecast data",
			"daily_forecast",
			entrySchema("date", "conditions", "solar_potential"),
		), nil
	case intent.APIMarine:
		return schemaDef(
			"analyze_marine_conditions",
			"Analyze marine weather conditions",
			"wave_conditions",
			objectSchema("wave_height", "wave_direction", "sea_temperature"),
		), nil
	case intent.APIAirQuality:
		return schemaDef(
			"analyze_air_quality",
			"Analyze air quality data",
			"air_quality_metrics",
			objectSchema("aqi_level", "pollutants", "health_implications"),
		), nil
	case intent.APIArchive:
		return schemaDef(
			"analyze_historical_weather",
			"Analyze historical weather data",
			"historical_trends",
			entrySchema("period", "conditions", "solar_potential"),
		), nil
	case intent.APISnow:
		return schemaDef(
			"analyze_snow_conditions",
			"Analyze snow and winter conditions",
			"snow_conditions",
			objectSchema("snowfall", "snow_depth", "ski_conditions"),
		), nil
	case intent.APIClimate:
		return schemaDef(
			"analyze_climate_normals",
			"Analyze long-term climate data",
			"climate_normals",
			objectSchema("temperature_range", "precipitation", "solar_resource"),
		), nil
	default:
		return openai.FunctionDefinition{}, fmt.Errorf("%w: %q", ErrNoSchema, w.APIType)
	}
}
