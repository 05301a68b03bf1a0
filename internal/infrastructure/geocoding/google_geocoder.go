package geocoding

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"

	"github.com/MichaelVenturi/House-marketplace/internal/domain/entity"
	"github.com/MichaelVenturi/House-marketplace/internal/domain/service"
)

type GoogleGeocoder struct {
	client *maps.Client
}

var _ service.Geocoder = (*GoogleGeocoder)(nil)

// NewGoogleGeocoder builds a client for the Google Geocoding API. Extra
// options such as maps.WithBaseURL are passed through.
func NewGoogleGeocoder(apiKey string, opts ...maps.ClientOption) (*GoogleGeocoder, error) {
	client, err := maps.NewClient(append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create geocoding client: %w", err)
	}

	return &GoogleGeocoder{client: client}, nil
}

// Geocode returns the first match. ok is false when the API answered with
// no results.
func (g *GoogleGeocoder) Geocode(ctx context.Context, address string) (entity.GeoLocation, bool, error) {
	results, err := g.client.Geocode(ctx, &maps.GeocodingRequest{Address: address})
	if err != nil {
		return entity.GeoLocation{}, false, fmt.Errorf("geocode %q: %w", address, err)
	}
	if len(results) == 0 {
		return entity.GeoLocation{}, false, nil
	}

	loc := results[0].Geometry.Location
	return entity.GeoLocation{Lat: loc.Lat, Lng: loc.Lng}, true, nil
}
