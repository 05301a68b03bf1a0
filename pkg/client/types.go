package client

import "time"

type GeoLocation struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
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
	Type            string      `json:"type"`
	UserRef         string      `json:"userRef"`
	Timestamp       time.Time   `json:"timestamp"`
}

type ListingDetail struct {
	Listing
	Price           int64 `json:"price"`
	Savings         int64 `json:"savings"`
	ContactLandlord bool  `json:"contactLandlord"`
}

// Page is one page of a listing collection. An empty Cursor means there is
// nothing more to load.
type Page struct {
	Items  []Listing `json:"items"`
	Cursor string    `json:"cursor"`
}

type Profile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type AuthSession struct {
	UID          string   `json:"uid"`
	IDToken      string   `json:"idToken"`
	RefreshToken string   `json:"refreshToken"`
	ExpiresIn    int64    `json:"expiresIn"`
	Profile      *Profile `json:"profile"`
}

type LandlordContact struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	MailTo string `json:"mailto"`
}

type Image struct {
	Filename string
	Data     []byte
}

// ListingInput is the create/edit form. Latitude and Longitude are only used
// when the server has geocoding disabled.
type ListingInput struct {
	Type            string
	Name            string
	Bedrooms        int
	Bathrooms       int
	Parking         bool
	Furnished       bool
	Location        string
	Offer           bool
	RegularPrice    int64
	DiscountedPrice int64
	Latitude        float64
	Longitude       float64
	Images          []Image
}
