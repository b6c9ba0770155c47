package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/Atj28/weather-and-solar-AI-chat-bot/internal/geocode"
	"github.com/Atj28/weather-and-solar-AI-chat-bot/internal/intent"
	"github.com/Atj28/weather-and-solar-AI-chat-bot/internal/llm"
	"github.com/Atj28/weather-and-solar-AI-chat-bot/internal/openmeteo"
)

type fakeGeocoder struct {
	loc   geocode.Location
	err   error
	calls int
}

func (f *fakeGeocoder) Resolve(ctx context.Context, query string) (geocode.Location, error) {
	f.calls++
	return f.loc, f.err
}

type fakeFetcher struct {
	data      map[string]any
	err       error
	calls     int
	gotType   intent.APIType
	gotParams openmeteo.Params
}

func (f *fakeFetcher) Fetch(ctx context.Context, t intent.APIType, params openmeteo.Params) (map[string]any, error) {
	f.calls++
	f.gotType = t
	f.gotParams = params
	return f.data, f.err
}

type fakeFormatter struct {
	gotData map[string]any
	gotLoc  geocode.Location
	gotInt  intent.WeatherIntent
	result  map[string]any
	err     error
}

func (f *fakeFormatter) Format(ctx context.Context, weatherData map[string]any, loc geocode.Location, w intent.WeatherIntent) (map[string]any, error) {
	f.gotData = weatherData
	f.gotLoc = loc
	f.gotInt = w
	return f.result, f.err
}

type fakeModerator struct {
	verdict llm.Verdict
}

func (f *fakeModerator) Check(ctx context.Context, text string) llm.Verdict {
	return f.verdict
}

func newTestService(geo *fakeGeocoder, fetch *fakeFetcher, format *fakeFormatter, mod *fakeModerator) *Service {
	return NewService(geo, fetch, openmeteo.NewBuilder(), format, mod)
}

func TestHandleMissingLocation(t *testing.T) {
	geo := &fakeGeocoder{}
	fetch := &fakeFetcher{}
	svc := newTestService(geo, fetch, &fakeFormatter{}, &fakeModerator{})

	result, err := svc.Handle(context.Background(), "tell me a joke")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Kind != KindLocationRequest {
		t.Fatalf("expected a location request, got kind %d", result.Kind)
	}
	if result.Message == "" {
		t.Error("location request must carry a user-facing message")
	}
	if geo.calls != 0 || fetch.calls != 0 {
		t.Error("pipeline must short-circuit before geocoding when location is missing")
	}
}

func TestHandleFlaggedInput(t *testing.T) {
	mod := &fakeModerator{verdict: llm.Verdict{Flagged: true, Categories: []string{"harassment"}}}
	fetch := &fakeFetcher{}
	svc := newTestService(&fakeGeocoder{}, fetch, &fakeFormatter{}, mod)

	result, err := svc.Handle(context.Background(), "current weather in Berlin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Kind != KindFlagged {
		t.Fatalf("expected flagged result, got kind %d", result.Kind)
	}
	if len(result.FlaggedCategories) != 1 || result.FlaggedCategories[0] != "harassment" {
		t.Errorf("unexpected flagged categories: %v", result.FlaggedCategories)
	}
	if fetch.calls != 0 {
		t.Error("no upstream call may happen for flagged input")
	}
}

func TestHandleUnresolvableLocation(t *testing.T) {
	geo := &fakeGeocoder{err: fmt.Errorf("%w: %q", geocode.ErrNotFound, "Xyzzy")}
	svc := newTestService(geo, &fakeFetcher{}, &fakeFormatter{}, &fakeModerator{})

	result, err := svc.Handle(context.Background(), "weather forecast for Xyzzy")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Kind != KindLocationRequest {
		t.Fatalf("expected a location request, got kind %d", result.Kind)
	}
	if !strings.Contains(result.Message, "Xyzzy") {
		t.Errorf("message should name the raw location, got %q", result.Message)
	}
}

func TestHandleGeocoderFault(t *testing.T) {
	geo := &fakeGeocoder{err: errors.New("connection refused")}
	svc := newTestService(geo, &fakeFetcher{}, &fakeFormatter{}, &fakeModerator{})

	if _, err := svc.Handle(context.Background(), "weather forecast for Berlin"); err == nil {
		t.Fatal("a geocoder transport fault must be terminal")
	}
}

func TestHandleFullPipeline(t *testing.T) {
	geo := &fakeGeocoder{loc: geocode.Location{
		City:        "Berlin",
		Coordinates: geocode.Coordinates{Lat: 52.52, Lon: 13.4},
	}}
	fetch := &fakeFetcher{data: map[string]any{"hourly": map[string]any{"pm10": []any{12.0}}}}
	format := &fakeFormatter{result: map[string]any{"summary": "clean air"}}
	svc := newTestService(geo, fetch, format, &fakeModerator{})

	result, err := svc.Handle(context.Background(), "current air quality in Berlin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Kind != KindAnalysis {
		t.Fatalf("expected an analysis, got kind %d", result.Kind)
	}
	if result.Analysis["summary"] != "clean air" {
		t.Errorf("unexpected analysis: %v", result.Analysis)
	}

	if fetch.gotType != intent.APIAirQuality {
		t.Errorf("expected an air quality fetch, got %q", fetch.gotType)
	}
	if _, ok := fetch.gotParams["hourly"]; !ok {
		t.Error("expected built hourly parameters for the air quality call")
	}

	// Raw data is annotated before formatting.
	if format.gotData["request_type"] != "air_quality" {
		t.Errorf("expected request_type annotation, got %v", format.gotData["request_type"])
	}
	if format.gotData["location"] != "Berlin" {
		t.Errorf("expected location annotation, got %v", format.gotData["location"])
	}
	if format.gotInt.TimeFrame != intent.TimeFrameHourly {
		t.Errorf("expected hourly time frame, got %q", format.gotInt.TimeFrame)
	}
}

func TestHandleFetchFaultIsTerminal(t *testing.T) {
	geo := &fakeGeocoder{loc: geocode.Location{City: "Berlin"}}
	fetch := &fakeFetcher{err: &openmeteo.UpstreamError{StatusCode: 502, Reason: "bad gateway"}}
	svc := newTestService(geo, fetch, &fakeFormatter{}, &fakeModerator{})

	_, err := svc.Handle(context.Background(), "weather forecast for Berlin")
	var upstream *openmeteo.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected the upstream error to propagate, got %v", err)
	}
}
