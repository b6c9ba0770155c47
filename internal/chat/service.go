package chat

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/Atj28/weather-and-solar-AI-chat-bot/internal/geocode"
	"github.com/Atj28/weather-and-solar-AI-chat-bot/internal/intent"
	"github.com/Atj28/weather-and-solar-AI-chat-bot/internal/llm"
	"github.com/Atj28/weather-and-solar-AI-chat-bot/internal/openmeteo"
)

// Fetcher performs the upstream weather call for a built parameter set.
type Fetcher interface {
	Fetch(ctx context.Context, t intent.APIType, params openmeteo.Params) (map[string]any, error)
}

// Formatter turns raw weather data into the structured analysis object.
type Formatter interface {
	Format(ctx context.Context, weatherData map[string]any, loc geocode.Location, w intent.WeatherIntent) (map[string]any, error)
}

// Moderator screens inbound text.
type Moderator interface {
	Check(ctx context.Context, text string) llm.Verdict
}

// ResultKind discriminates the non-fault replies a chat turn can produce.
type ResultKind int

const (
	// KindAnalysis carries a formatted weather analysis.
	KindAnalysis ResultKind = iota
	// KindLocationRequest asks the user for a (different) location.
	KindLocationRequest
	// KindFlagged means moderation rejected the input.
	KindFlagged
)

// Result is the outcome of one chat turn. Terminal faults are returned as
// errors instead.
type Result struct {
	Kind              ResultKind
	Analysis          map[string]any
	Message           string
	FlaggedCategories []string
}

// Service sequences one request: moderation and classification (independent,
// run side by side), then geocoding, upstream fetch, and formatting.
type Service struct {
	geocoder  geocode.Geocoder
	fetcher   Fetcher
	builder   openmeteo.Builder
	formatter Formatter
	moderator Moderator
}

func NewService(geocoder geocode.Geocoder, fetcher Fetcher, builder openmeteo.Builder, formatter Formatter, moderator Moderator) *Service {
	return &Service{
		geocoder:  geocoder,
		fetcher:   fetcher,
		builder:   builder,
		formatter: formatter,
		moderator: moderator,
	}
}

// Handle runs the full pipeline for one message. Classification never fails;
// a missing or unresolvable location becomes a KindLocationRequest reply, a
// moderation hit becomes KindFlagged, and everything else that goes wrong is
// a terminal fault for this request.
func (s *Service) Handle(ctx context.Context, message string) (Result, error) {
	// Moderation is independent of classification; run it alongside.
	verdictCh := make(chan llm.Verdict, 1)
	go func() {
		verdictCh <- s.moderator.Check(ctx, message)
	}()

	w := intent.Classify(message)
	log.Printf("INFO: classified intent api=%s time_frame=%s location=%q", w.APIType, w.TimeFrame, w.Location)

	verdict := <-verdictCh
	if verdict.Flagged {
		log.Printf("moderation flagged input: %v", verdict.Categories)
		return Result{Kind: KindFlagged, FlaggedCategories: verdict.Categories}, nil
	}

	if w.Location == "" {
		return Result{
			Kind: KindLocationRequest,
			Message: "I couldn't determine the location. Please specify a city or place for the weather forecast. " +
				"For example: 'weather forecast for London' or 'air quality in Paris'.",
		}, nil
	}

	loc, err := s.geocoder.Resolve(ctx, w.Location)
	if err != nil {
		if errors.Is(err, geocode.ErrNotFound) {
			log.Printf("location not found: %q", w.Location)
			return Result{
				Kind:    KindLocationRequest,
				Message: fmt.Sprintf("I couldn't find the location '%s'. Please check the spelling or try a different city.", w.Location),
			}, nil
		}
		return Result{}, fmt.Errorf("resolving location %q: %w", w.Location, err)
	}
	log.Printf("INFO: location found: %s (%.4f, %.4f)", loc.City, loc.Coordinates.Lat, loc.Coordinates.Lon)

	params := s.builder.Build(w, loc.Coordinates.Lat, loc.Coordinates.Lon)
	data, err := s.fetcher.Fetch(ctx, w.APIType, params)
	if err != nil {
		return Result{}, err
	}

	// Annotate the raw data the way the analysis consumers expect it.
	data["request_type"] = string(w.APIType)
	data["location"] = loc.City
	data["coordinates"] = loc.Coordinates

	analysis, err := s.formatter.Format(ctx, data, loc, w)
	if err != nil {
		return Result{}, err
	}

	return Result{Kind: KindAnalysis, Analysis: analysis}, nil
}
