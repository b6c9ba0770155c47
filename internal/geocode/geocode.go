package geocode

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a geocoder has no result for a query. It is a
// recoverable, user-facing condition; any other error is a terminal fault.
var ErrNotFound = errors.New("location not found")

// Coordinates is a lat/lon pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Location is a resolved place: canonical display name plus coordinates.
// Immutable after creation.
type Location struct {
	City        string      `json:"city"`
	Coordinates Coordinates `json:"coordinates"`
}

// Geocoder resolves a free-text location string to coordinates.
type Geocoder interface {
	Resolve(ctx context.Context, query string) (Location, error)
}

// Chain tries each geocoder in order, moving on only when the previous one
// reported ErrNotFound. Transport faults stop the chain.
type Chain []Geocoder

func (c Chain) Resolve(ctx context.Context, query string) (Location, error) {
	if len(c) == 0 {
		return Location{}, ErrNotFound
	}

	var lastErr error
	for _, g := range c {
		loc, err := g.Resolve(ctx, query)
		if err == nil {
			return loc, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return Location{}, err
		}
		lastErr = err
	}
	return Location{}, lastErr
}
