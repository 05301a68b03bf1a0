package service

import (
	"context"

	"github.com/MichaelVenturi/House-marketplace/internal/domain/entity"
)

// Geocoder resolves a free-text address. It returns ok=false when the
// provider answered but found no match.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (loc entity.GeoLocation, ok bool, err error)
}
