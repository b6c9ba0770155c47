package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"
)

// DefaultNominatimBaseURL is the public OpenStreetMap Nominatim endpoint.
const DefaultNominatimBaseURL = "https://nominatim.openstreetmap.org"

// Nominatim resolves locations through the OpenStreetMap Nominatim search
// API. Nominatim requires a descriptive User-Agent per its usage policy.
type Nominatim struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	circuit    *gobreaker.CircuitBreaker
}

// NewNominatim creates a Nominatim geocoder. Empty baseURL falls back to the
// public endpoint.
func NewNominatim(httpClient *http.Client, baseURL, userAgent string) *Nominatim {
	if baseURL == "" {
		baseURL = DefaultNominatimBaseURL
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "nominatim",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
	return &Nominatim{
		httpClient: httpClient,
		baseURL:    baseURL,
		userAgent:  userAgent,
		circuit:    cb,
	}
}

// nominatimResult is the subset of a Nominatim search hit we consume.
// Lat/lon come back as strings.
type nominatimResult struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

// Resolve looks the query up with limit=1 and uses the first hit. The city
// name is the display_name up to the first comma. An empty result list maps
// to ErrNotFound.
func (n *Nominatim) Resolve(ctx context.Context, query string) (Location, error) {
	values := url.Values{}
	values.Set("q", query)
	values.Set("format", "json")
	values.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/search?"+values.Encode(), nil)
	if err != nil {
		return Location{}, err
	}
	req.Header.Set("User-Agent", n.userAgent)
	req.Header.Set("Accept", "application/json")

	result, err := n.circuit.Execute(func() (interface{}, error) {
		resp, execErr := n.httpClient.Do(req)
		if execErr != nil {
			return nil, execErr
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("geocoding service returned status %d", resp.StatusCode)
		}

		var hits []nominatimResult
		if decErr := json.NewDecoder(resp.Body).Decode(&hits); decErr != nil {
			return nil, fmt.Errorf("decoding geocoding response: %w", decErr)
		}
		return hits, nil
	})
	if err != nil {
		return Location{}, err
	}

	hits, ok := result.([]nominatimResult)
	if !ok {
		return Location{}, fmt.Errorf("unexpected result type from circuit breaker")
	}
	if len(hits) == 0 {
		return Location{}, fmt.Errorf("%w: %q", ErrNotFound, query)
	}

	hit := hits[0]
	lat, err := strconv.ParseFloat(hit.Lat, 64)
	if err != nil {
		return Location{}, fmt.Errorf("parsing latitude %q: %w", hit.Lat, err)
	}
	lon, err := strconv.ParseFloat(hit.Lon, 64)
	if err != nil {
		return Location{}, fmt.Errorf("parsing longitude %q: %w", hit.Lon, err)
	}

	city := hit.DisplayName
	if i := strings.Index(city, ","); i >= 0 {
		city = city[:i]
	}

	return Location{
		City:        city,
		Coordinates: Coordinates{Lat: lat, Lon: lon},
	}, nil
}
