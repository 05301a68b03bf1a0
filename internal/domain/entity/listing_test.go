package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToListingDropsDiscountWithoutOffer(t *testing.T) {
	form := ListingForm{
		Name:            "Beautiful Stratford Condo",
		Location:        "123 Main St",
		Offer:           false,
		RegularPrice:    2000,
		DiscountedPrice: 1500,
		Type:            ListingTypeRent,
		Bedrooms:        2,
		Bathrooms:       1,
	}

	listing := form.ToListing("user-1", GeoLocation{Lat: 1, Lng: 2}, []string{"a", "b"})

	assert.Nil(t, listing.DiscountedPrice)
	assert.Equal(t, "user-1", listing.UserRef)
	assert.Equal(t, []string{"a", "b"}, listing.ImageUrls)
	assert.Equal(t, int64(2000), listing.Price())
	assert.Zero(t, listing.Savings())
}

func TestToListingKeepsDiscountForOffer(t *testing.T) {
	form := ListingForm{Offer: true, RegularPrice: 2000, DiscountedPrice: 1500, Type: ListingTypeSale}

	listing := form.ToListing("user-1", GeoLocation{}, []string{"a"})

	require.NotNil(t, listing.DiscountedPrice)
	assert.Equal(t, int64(1500), *listing.DiscountedPrice)
	assert.Equal(t, int64(1500), listing.Price())
	assert.Equal(t, int64(500), listing.Savings())
}

func TestListingTypeValid(t *testing.T) {
	assert.True(t, ListingTypeRent.Valid())
	assert.True(t, ListingTypeSale.Valid())
	assert.False(t, ListingType("lease").Valid())
}
