package repository

import (
	"context"
	"os"
	"testing"

	"cloud.google.com/go/firestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MichaelVenturi/House-marketplace/internal/domain/entity"
	"github.com/MichaelVenturi/House-marketplace/internal/domain/repository"
)

func TestListingDocument_LegacyGeolocationFallback(t *testing.T) {
	legacy := &entity.GeoLocation{Lat: 1.5, Lng: 2.5}

	doc := listingDocument{Name: "Old listing", LegacyGeolocation: legacy}
	assert.Equal(t, *legacy, doc.toEntity("id").GeoLocation)

	current := &entity.GeoLocation{Lat: 40, Lng: -75}
	doc.Geolocation = current
	assert.Equal(t, *current, doc.toEntity("id").GeoLocation)
}

func TestListingDocument_RoundTripOmitsDiscountWithoutOffer(t *testing.T) {
	listing := &entity.Listing{
		Name:         "Sunny flat downtown",
		Type:         entity.ListingTypeRent,
		RegularPrice: 1200,
		GeoLocation:  entity.GeoLocation{Lat: 40, Lng: -75},
	}

	doc := newListingDocument(listing)
	assert.Nil(t, doc.DiscountedPrice)
	assert.Nil(t, doc.LegacyGeolocation)
	require.NotNil(t, doc.Geolocation)

	back := doc.toEntity("abc")
	assert.Equal(t, "abc", back.ID)
	assert.Equal(t, listing.GeoLocation, back.GeoLocation)
	assert.NotNil(t, back.ImageUrls)
}

func newEmulatorClient(t *testing.T) *firestore.Client {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}

	client, err := firestore.NewClient(context.Background(), "house-marketplace-test")
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func TestFirestoreListingRepository_CreateQueryUpdate(t *testing.T) {
	client := newEmulatorClient(t)
	repo := NewFirestoreListingRepository(client)
	ctx := context.Background()

	discount := int64(900)
	listing := &entity.Listing{
		Name:            "Emulator listing",
		Location:        "1 Main St",
		Type:            entity.ListingTypeSale,
		Offer:           true,
		RegularPrice:    1000,
		DiscountedPrice: &discount,
		ImageUrls:       []string{"https://example.com/a.jpg"},
		Bedrooms:        2,
		Bathrooms:       1,
		UserRef:         "emulator-owner",
	}
	require.NoError(t, repo.Create(ctx, listing))
	require.NotEmpty(t, listing.ID)
	t.Cleanup(func() { repo.Delete(ctx, listing.ID) })

	owned, err := repo.Query(ctx, repository.ListingQuery{
		Filter: repository.ListingFilter{Field: repository.ListingFieldUserRef, Value: "emulator-owner"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, owned)

	listing.Offer = false
	listing.DiscountedPrice = nil
	require.NoError(t, repo.Update(ctx, listing))

	got, err := repo.GetByID(ctx, listing.ID)
	require.NoError(t, err)
	assert.False(t, got.Offer)
	assert.Nil(t, got.DiscountedPrice)
	assert.Equal(t, "emulator-owner", got.UserRef)
}
