package intent

import (
	"regexp"
	"strings"
	"time"

	"github.com/Atj28/weather-and-solar-AI-chat-bot/internal/common"
)

// APIType selects which Open-Meteo service a query targets.
type APIType string

const (
	APIForecast   APIType = "forecast"
	APIArchive    APIType = "archive"
	APIMarine     APIType = "marine"
	APIAirQuality APIType = "air_quality"
	APISnow       APIType = "snow"
	APIClimate    APIType = "climate"
)

// TimeFrame is the temporal granularity of the requested data.
type TimeFrame string

const (
	TimeFrameHourly     TimeFrame = "hourly"
	TimeFrameDaily      TimeFrame = "daily"
	TimeFrameHistorical TimeFrame = "historical"
)

// DateLayout is the ISO date format used for archive and climate ranges.
const DateLayout = "2006-01-02"

// WeatherIntent is the structured interpretation of a free-text query.
// Location is empty when no pattern matched; StartDate/EndDate are set only
// for archive/historical queries.
type WeatherIntent struct {
	APIType   APIType
	TimeFrame TimeFrame
	Location  string
	StartDate string
	EndDate   string

	// SpecificParams is reserved for per-query parameter overrides.
	SpecificParams []string
}

// Building blocks shared by the location patterns below.
const (
	prepositions  = `(?:in|at|for|of|near|around)`
	conditions    = `(?:weather|forecast|condition|temperature|climate|air quality|marine conditions?|wave height|wind)`
	timeMarkers   = `(?:current|today|tomorrow|now|tonight|this week|last month|last year|historical|past|previous)`
	questionWords = `(?:what|how|when|where|is|are|will)`
)

// locationPatterns are ordered most specific first; the first pattern whose
// cleaned capture survives wins. Order is a contract: overlapping patterns on
// ambiguous text change behavior if reordered.
var locationPatterns = []*regexp.Regexp{
	// "what are the conditions in X"
	regexp.MustCompile(`(?i)` + questionWords + `\s+(?:is|are)\s+(?:the\s+)?` + conditions + `\s+` + prepositions + `\s+([A-Za-z\s,]+?)(?:\s+` + timeMarkers + `)?[?]?$`),
	// "X conditions"
	regexp.MustCompile(`(?i)(?:` + prepositions + `\s+)?([A-Za-z\s,]+?)\s+` + conditions),
	// "conditions in X"
	regexp.MustCompile(`(?i)` + conditions + `\s+` + prepositions + `\s+([A-Za-z\s,]+?)(?:\s+` + timeMarkers + `)?[?]?$`),
	// bare "in X"
	regexp.MustCompile(`(?i)` + prepositions + `\s+([A-Za-z\s,]+?)(?:\s+` + timeMarkers + `)?[?]?$`),
}

var (
	trailingPunct  = regexp.MustCompile(`[.,!?]+$`)
	leakedKeywords = regexp.MustCompile(`(?i)\b(?:` + conditions + `|` + timeMarkers + `|` + questionWords + `)\b`)
	quotedText     = regexp.MustCompile(`"([^"]+)"`)
)

// apiKeywords maps query keywords to API types. Scanned in order with
// first-match-wins semantics, so e.g. "historical" wins over "marine" when
// both appear; forecast is the default when nothing matches.
var apiKeywords = []struct {
	api      APIType
	keywords []string
}{
	{APIArchive, []string{"historical", "past", "previous", "archive"}},
	{APIMarine, []string{"marine", "sea", "ocean", "wave", "shipping"}},
	{APIAirQuality, []string{"air quality", "pollution", "aqi", "pm2.5", "pm10"}},
	{APISnow, []string{"snow", "ski", "winter", "freezing"}},
	{APIClimate, []string{"climate", "long-term", "average", "norm"}},
}

var (
	hourlyKeywords     = []string{"hourly", "hour", "today", "now", "current"}
	historicalKeywords = []string{"historical", "past", "previous", "last month", "last year"}
)

// ExtractLocation pulls a location string out of a free-text message.
// Returns "" when no pattern and no quoted text yields at least 2 characters.
func ExtractLocation(message string) string {
	message = strings.TrimSpace(message)

	for _, pattern := range locationPatterns {
		m := pattern.FindStringSubmatch(message)
		if m == nil {
			continue
		}

		location := strings.TrimSpace(m[1])
		location = trailingPunct.ReplaceAllString(location, "")
		// Drop condition/time/question words that leaked into the capture.
		location = leakedKeywords.ReplaceAllString(location, "")
		location = common.CollapseSpaces(location)

		if len(location) >= 2 {
			return location
		}
	}

	// Last resort: a quoted location like ask about "New York".
	if m := quotedText.FindStringSubmatch(message); m != nil {
		location := common.CollapseSpaces(strings.TrimSpace(m[1]))
		if len(location) >= 2 {
			return location
		}
	}

	return ""
}

// Classify turns a free-text message into a WeatherIntent. It never fails:
// unmatched text degrades to the forecast/daily defaults with an empty
// location, and the caller is expected to ask for clarification.
func Classify(message string) WeatherIntent {
	return classifyAt(message, time.Now())
}

func classifyAt(message string, now time.Time) WeatherIntent {
	w := WeatherIntent{
		APIType:   APIForecast,
		TimeFrame: TimeFrameDaily,
	}
	lower := strings.ToLower(message)

	w.Location = ExtractLocation(message)

	for _, entry := range apiKeywords {
		if common.HasAny(lower, entry.keywords...) {
			w.APIType = entry.api
			break
		}
	}

	if common.HasAny(lower, hourlyKeywords...) {
		w.TimeFrame = TimeFrameHourly
	} else if common.HasAny(lower, historicalKeywords...) {
		w.TimeFrame = TimeFrameHistorical
		// Default historical range: trailing 30 days ending today.
		w.EndDate = now.Format(DateLayout)
		w.StartDate = now.AddDate(0, 0, -30).Format(DateLayout)
	}

	return w
}
