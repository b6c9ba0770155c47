package openmeteo

import (
	"testing"
	"time"

	"github.com/Atj28/weather-and-solar-AI-chat-bot/internal/intent"
)

func stringList(t *testing.T, p Params, key string) []string {
	t.Helper()
	v, ok := p[key]
	if !ok {
		t.Fatalf("expected key %q in params", key)
	}
	list, ok := v.([]string)
	if !ok {
		t.Fatalf("expected %q to be a string list, got %T", key, v)
	}
	return list
}

func TestBuildForecastHourly(t *testing.T) {
	b := NewBuilder()
	p := b.Build(intent.WeatherIntent{APIType: intent.APIForecast, TimeFrame: intent.TimeFrameHourly}, 52.52, 13.4)

	want := []string{
		"shortwave_radiation",
		"direct_radiation",
		"diffuse_radiation",
		"temperature_2m",
		"cloudcover",
		"uv_index",
		"windspeed_10m",
	}
	got := stringList(t, p, "hourly")
	if len(got) != len(want) {
		t.Fatalf("expected %d hourly fields, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("hourly field %d: expected %q, got %q", i, want[i], got[i])
		}
	}
	if _, ok := p["daily"]; ok {
		t.Error("hourly forecast params must not contain daily fields")
	}
}

func TestBuildForecastDaily(t *testing.T) {
	b := NewBuilder()
	p := b.Build(intent.WeatherIntent{APIType: intent.APIForecast, TimeFrame: intent.TimeFrameDaily}, 52.52, 13.4)

	want := []string{
		"temperature_2m_max",
		"temperature_2m_min",
		"sunrise",
		"sunset",
		"uv_index_max",
		"shortwave_radiation_sum",
	}
	got := stringList(t, p, "daily")
	if len(got) != len(want) {
		t.Fatalf("expected %d daily fields, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("daily field %d: expected %q, got %q", i, want[i], got[i])
		}
	}
	if _, ok := p["hourly"]; ok {
		t.Error("daily forecast params must not contain hourly fields")
	}
}

func TestBuildBaseParams(t *testing.T) {
	b := NewBuilder()
	p := b.Build(intent.WeatherIntent{APIType: intent.APIForecast, TimeFrame: intent.TimeFrameDaily}, 52.52, 13.4)

	values := p.Values()
	if got := values.Get("latitude"); got != "52.520000" {
		t.Errorf("expected latitude 52.520000, got %q", got)
	}
	if got := values.Get("longitude"); got != "13.400000" {
		t.Errorf("expected longitude 13.400000, got %q", got)
	}
	if got := values.Get("timezone"); got != "auto" {
		t.Errorf("expected timezone auto, got %q", got)
	}
}

func TestBuildArchiveDefaultsDateRange(t *testing.T) {
	b := NewBuilder()
	p := b.Build(intent.WeatherIntent{APIType: intent.APIArchive, TimeFrame: intent.TimeFrameDaily}, 48.85, 2.35)

	start, ok := p["start_date"].(string)
	if !ok || start == "" {
		t.Fatal("expected a default start_date for archive queries")
	}
	end, ok := p["end_date"].(string)
	if !ok || end == "" {
		t.Fatal("expected a default end_date for archive queries")
	}

	startTS, err := time.Parse(intent.DateLayout, start)
	if err != nil {
		t.Fatalf("invalid start_date %q: %v", start, err)
	}
	endTS, err := time.Parse(intent.DateLayout, end)
	if err != nil {
		t.Fatalf("invalid end_date %q: %v", end, err)
	}
	if got := endTS.Sub(startTS); got != 30*24*time.Hour {
		t.Errorf("expected a 30-day default window, got %v", got)
	}

	if got := stringList(t, p, "hourly"); len(got) != 4 {
		t.Errorf("expected 4 archive hourly fields, got %d: %v", len(got), got)
	}
}

func TestBuildArchiveKeepsExplicitRange(t *testing.T) {
	b := NewBuilder()
	p := b.Build(intent.WeatherIntent{
		APIType:   intent.APIArchive,
		TimeFrame: intent.TimeFrameHistorical,
		StartDate: "2025-01-01",
		EndDate:   "2025-01-31",
	}, 48.85, 2.35)

	if p["start_date"] != "2025-01-01" || p["end_date"] != "2025-01-31" {
		t.Errorf("explicit range overwritten: %v..%v", p["start_date"], p["end_date"])
	}
}

func TestBuildMarine(t *testing.T) {
	b := NewBuilder()
	p := b.Build(intent.WeatherIntent{APIType: intent.APIMarine}, 43.48, -1.56)

	if got := stringList(t, p, "hourly"); len(got) != 9 {
		t.Errorf("expected 9 marine hourly fields, got %d: %v", len(got), got)
	}
}

func TestBuildAirQuality(t *testing.T) {
	b := NewBuilder()
	p := b.Build(intent.WeatherIntent{APIType: intent.APIAirQuality}, 52.52, 13.4)

	if got := stringList(t, p, "hourly"); len(got) != 10 {
		t.Errorf("expected 10 air quality hourly fields, got %d: %v", len(got), got)
	}
}

func TestBuildSnow(t *testing.T) {
	b := NewBuilder()
	p := b.Build(intent.WeatherIntent{APIType: intent.APISnow}, 46.0, 7.7)

	if got := stringList(t, p, "hourly"); len(got) != 5 {
		t.Errorf("expected 5 snow hourly fields, got %d: %v", len(got), got)
	}
	if got := stringList(t, p, "daily"); len(got) != 2 {
		t.Errorf("expected 2 snow daily fields, got %d: %v", len(got), got)
	}
}

func TestBuildClimate(t *testing.T) {
	b := NewBuilder()
	p := b.Build(intent.WeatherIntent{APIType: intent.APIClimate}, 52.52, 13.4)

	if p["start_date"] != "1990-01-01" || p["end_date"] != "2020-12-31" {
		t.Errorf("unexpected climate period: %v..%v", p["start_date"], p["end_date"])
	}

	values := p.Values()
	if got := values.Get("models"); got != "ERA5,CMIP6" {
		t.Errorf("expected models ERA5,CMIP6, got %q", got)
	}
	if got := stringList(t, p, "daily"); len(got) != 4 {
		t.Errorf("expected 4 climate daily fields, got %d: %v", len(got), got)
	}
}

func TestBaseURLKnownTypes(t *testing.T) {
	for _, apiType := range []intent.APIType{
		intent.APIForecast,
		intent.APIArchive,
		intent.APIMarine,
		intent.APIAirQuality,
		intent.APISnow,
		intent.APIClimate,
	} {
		u, err := BaseURL(apiType)
		if err != nil {
			t.Errorf("BaseURL(%q) returned error: %v", apiType, err)
		}
		if u == "" {
			t.Errorf("BaseURL(%q) returned empty URL", apiType)
		}
	}

	if _, err := BaseURL(intent.APIType("bogus")); err == nil {
		t.Error("expected error for unregistered api type")
	}
}
