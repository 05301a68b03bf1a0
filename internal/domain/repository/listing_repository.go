package repository

import (
	"context"

	"github.com/MichaelVenturi/House-marketplace/internal/domain/entity"
)

// Listing document field names used as query predicates.
const (
	ListingFieldType    = "type"
	ListingFieldOffer   = "offer"
	ListingFieldUserRef = "userRef"
)

// ListingFilter is a single equality predicate. The zero value matches every listing.
type ListingFilter struct {
	Field string
	Value interface{}
}

// ListingQuery always orders by creation timestamp, newest first.
// A Limit of zero means unbounded. StartAfterID resumes after that listing.
type ListingQuery struct {
	Filter       ListingFilter
	Limit        int
	StartAfterID string
}

type ListingRepository interface {
	Create(ctx context.Context, listing *entity.Listing) error
	GetByID(ctx context.Context, id string) (*entity.Listing, error)
	Update(ctx context.Context, listing *entity.Listing) error
	Delete(ctx context.Context, id string) error
	Query(ctx context.Context, q ListingQuery) ([]*entity.Listing, error)
}
