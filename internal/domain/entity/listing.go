package entity

import (
	"io"
	"time"
)

type ListingType string

const (
	ListingTypeRent ListingType = "rent"
	ListingTypeSale ListingType = "sale"
)

const (
	MinListingImages = 1
	MaxListingImages = 6

	MinListingPrice = 50
	MaxListingPrice = 750000000
)

func (t ListingType) Valid() bool {
	return t == ListingTypeRent || t == ListingTypeSale
}

type GeoLocation struct {
	Lat float64 `json:"lat" firestore:"lat"`
	Lng float64 `json:"lng" firestore:"lng"`
}

type Listing struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Location        string      `json:"location"`
	GeoLocation     GeoLocation `json:"geolocation"`
	Offer           bool        `json:"offer"`
	RegularPrice    int64       `json:"regularPrice"`
	DiscountedPrice *int64      `json:"discountedPrice,omitempty"`
	ImageUrls       []string    `json:"imageUrls"`
	Bedrooms        int         `json:"bedrooms"`
	Bathrooms       int         `json:"bathrooms"`
	Furnished       bool        `json:"furnished"`
	Parking         bool        `json:"parking"`
	Type            ListingType `json:"type"`
	UserRef         string      `json:"userRef"`
	Timestamp       time.Time   `json:"timestamp"`
}

// Price is what a buyer pays: the discounted price for offers, else the regular one.
func (l *Listing) Price() int64 {
	if l.Offer && l.DiscountedPrice != nil {
		return *l.DiscountedPrice
	}
	return l.RegularPrice
}

// Savings is the offer discount, zero for listings without an offer.
func (l *Listing) Savings() int64 {
	if l.Offer && l.DiscountedPrice != nil {
		return l.RegularPrice - *l.DiscountedPrice
	}
	return 0
}

// ListingImage is an uploaded file waiting to be stored. Only the form carries
// images; the persisted listing only knows the resulting URLs.
type ListingImage struct {
	Filename    string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

// ListingForm is the submitted create/edit form. Lat and Lng are only used when
// geocoding is disabled.
type ListingForm struct {
	Name            string
	Location        string
	Offer           bool
	RegularPrice    int64
	DiscountedPrice int64
	Images          []ListingImage
	Bedrooms        int
	Bathrooms       int
	Furnished       bool
	Parking         bool
	Lat             float64
	Lng             float64
	Type            ListingType
}

// ToListing maps the form onto the persisted shape. The discounted price is
// dropped entirely unless the listing is an offer; images and manual
// coordinates never reach the document.
func (f ListingForm) ToListing(userRef string, geo GeoLocation, imageUrls []string) *Listing {
	listing := &Listing{
		Name:         f.Name,
		Location:     f.Location,
		GeoLocation:  geo,
		Offer:        f.Offer,
		RegularPrice: f.RegularPrice,
		ImageUrls:    imageUrls,
		Bedrooms:     f.Bedrooms,
		Bathrooms:    f.Bathrooms,
		Furnished:    f.Furnished,
		Parking:      f.Parking,
		Type:         f.Type,
		UserRef:      userRef,
	}

	if f.Offer {
		discounted := f.DiscountedPrice
		listing.DiscountedPrice = &discounted
	}

	return listing
}
