package geocode

import (
	"context"
	"fmt"

	"github.com/kelvins/geocoder"
)

// Google resolves locations through the Google geocoding API. It is used as
// a fallback behind Nominatim when an API key is configured.
type Google struct{}

// NewGoogle configures the Google geocoding API key and returns the geocoder.
// The kelvins/geocoder package holds the key in package state.
func NewGoogle(apiKey string) *Google {
	geocoder.ApiKey = apiKey
	return &Google{}
}

// Resolve geocodes the query as a city name. Google returns coordinates only,
// so the raw query doubles as the display name. Failed lookups map to
// ErrNotFound rather than a terminal fault: the fallback has nothing better
// to say than the primary's miss.
func (g *Google) Resolve(ctx context.Context, query string) (Location, error) {
	if err := ctx.Err(); err != nil {
		return Location{}, err
	}

	loc, err := geocoder.Geocoding(geocoder.Address{City: query})
	if err != nil {
		return Location{}, fmt.Errorf("%w: %q", ErrNotFound, query)
	}

	return Location{
		City:        query,
		Coordinates: Coordinates{Lat: loc.Latitude, Lon: loc.Longitude},
	}, nil
}
