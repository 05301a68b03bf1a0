package geocoding

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"googlemaps.github.io/maps"

	"github.com/MichaelVenturi/House-marketplace/internal/domain/entity"
)

func newTestGeocoder(t *testing.T, body string) *GoogleGeocoder {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "123 Main St", r.URL.Query().Get("address"))
		assert.Equal(t, "AIza-test", r.URL.Query().Get("key"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	g, err := NewGoogleGeocoder("AIza-test", maps.WithBaseURL(server.URL))
	require.NoError(t, err)
	return g
}

func TestGeocode_FirstResult(t *testing.T) {
	g := newTestGeocoder(t, `{"status":"OK","results":[{"geometry":{"location":{"lat":40.0,"lng":-75.0}}}]}`)

	loc, ok, err := g.Geocode(context.Background(), "123 Main St")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, entity.GeoLocation{Lat: 40.0, Lng: -75.0}, loc)
}

func TestGeocode_NoResults(t *testing.T) {
	g := newTestGeocoder(t, `{"status":"ZERO_RESULTS","results":[]}`)

	loc, ok, err := g.Geocode(context.Background(), "123 Main St")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, entity.GeoLocation{}, loc)
}

func TestGeocode_ProviderError(t *testing.T) {
	g := newTestGeocoder(t, `{"status":"REQUEST_DENIED","error_message":"bad key","results":[]}`)

	_, _, err := g.Geocode(context.Background(), "123 Main St")
	assert.Error(t, err)
}
