package openmeteo

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Atj28/weather-and-solar-AI-chat-bot/internal/intent"
)

// Params is the query parameter set for one upstream Open-Meteo call.
// Values may be strings or string lists; lists are comma-joined on the wire.
type Params map[string]any

// Values serializes the parameter set for an outbound GET.
func (p Params) Values() url.Values {
	values := url.Values{}
	for key, v := range p {
		switch val := v.(type) {
		case string:
			values.Set(key, val)
		case []string:
			values.Set(key, strings.Join(val, ","))
		case float64:
			values.Set(key, fmt.Sprintf("%f", val))
		default:
			values.Set(key, fmt.Sprintf("%v", val))
		}
	}
	return values
}

// Field lists per API type. These are part of the upstream contract; do not
// reorder or rename without checking the Open-Meteo docs.
var (
	forecastHourlyFields = []string{
		"shortwave_radiation",
		"direct_radiation",
		"diffuse_radiation",
		"temperature_2m",
		"cloudcover",
		"uv_index",
		"windspeed_10m",
	}

	forecastDailyFields = []string{
		"temperature_2m_max",
		"temperature_2m_min",
		"sunrise",
		"sunset",
		"uv_index_max",
		"shortwave_radiation_sum",
	}

	archiveHourlyFields = []string{
		"temperature_2m",
		"shortwave_radiation",
		"direct_radiation",
		"diffuse_radiation",
	}

	marineHourlyFields = []string{
		"wave_height",
		"wave_direction",
		"wave_period",
		"wind_wave_height",
		"wind_wave_direction",
		"wind_wave_period",
		"swell_wave_height",
		"swell_wave_direction",
		"swell_wave_period",
	}

	airQualityHourlyFields = []string{
		"pm10",
		"pm2_5",
		"carbon_monoxide",
		"nitrogen_dioxide",
		"sulphur_dioxide",
		"ozone",
		"aerosol_optical_depth",
		"dust",
		"uv_index",
		"european_aqi",
	}

	snowHourlyFields = []string{
		"snowfall",
		"snow_depth",
		"snow_height",
		"freezing_level_height",
		"snow_melt",
	}

	snowDailyFields = []string{
		"snowfall_sum",
		"snow_depth_max",
	}

	climateDailyFields = []string{
		"temperature_2m_max",
		"temperature_2m_min",
		"precipitation_sum",
		"shortwave_radiation_sum",
	}

	climateModels = []string{"ERA5", "CMIP6"}
)

// Builder derives upstream query parameters from a classified intent.
// The zero value uses the default climate normals period.
type Builder struct {
	ClimateStartYear string
	ClimateEndYear   string
}

// NewBuilder returns a Builder with the default 1990-2020 climate period.
func NewBuilder() Builder {
	return Builder{
		ClimateStartYear: "1990",
		ClimateEndYear:   "2020",
	}
}

// Build produces the full parameter set for one call: base geolocation
// parameters merged with the API-type specific fields. Pure data shaping,
// no I/O.
func (b Builder) Build(w intent.WeatherIntent, lat, lon float64) Params {
	params := Params{
		"latitude":  fmt.Sprintf("%f", lat),
		"longitude": fmt.Sprintf("%f", lon),
		"timezone":  "auto",
	}

	switch w.APIType {
	case intent.APIForecast:
		if w.TimeFrame == intent.TimeFrameHourly {
			params["hourly"] = forecastHourlyFields
		} else {
			params["daily"] = forecastDailyFields
		}
	case intent.APIArchive:
		start, end := w.StartDate, w.EndDate
		if start == "" || end == "" {
			// Archive queries without an explicit range default to the
			// trailing 30 days.
			now := time.Now()
			end = now.Format(intent.DateLayout)
			start = now.AddDate(0, 0, -30).Format(intent.DateLayout)
		}
		params["start_date"] = start
		params["end_date"] = end
		params["hourly"] = archiveHourlyFields
	case intent.APIMarine:
		params["hourly"] = marineHourlyFields
	case intent.APIAirQuality:
		params["hourly"] = airQualityHourlyFields
	case intent.APISnow:
		params["hourly"] = snowHourlyFields
		params["daily"] = snowDailyFields
	case intent.APIClimate:
		startYear, endYear := b.ClimateStartYear, b.ClimateEndYear
		if startYear == "" {
			startYear = "1990"
		}
		if endYear == "" {
			endYear = "2020"
		}
		params["start_date"] = startYear + "-01-01"
		params["end_date"] = endYear + "-12-31"
		params["models"] = climateModels
		params["daily"] = climateDailyFields
	}

	return params
}
