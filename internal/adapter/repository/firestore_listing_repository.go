package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/MichaelVenturi/House-marketplace/internal/domain/entity"
	"github.com/MichaelVenturi/House-marketplace/internal/domain/repository"
	"github.com/MichaelVenturi/House-marketplace/pkg/errors"
	"github.com/MichaelVenturi/House-marketplace/pkg/logger"
)

const (
	listingsCollection = "listings"

	fieldGeolocation       = "geolocation"
	fieldLegacyGeolocation = "geoLocation"
)

// listingDocument is the stored shape of a listing. Older documents carry the
// coordinates under geoLocation.
type listingDocument struct {
	Name              string              `firestore:"name"`
	Location          string              `firestore:"location"`
	Geolocation       *entity.GeoLocation `firestore:"geolocation,omitempty"`
	LegacyGeolocation *entity.GeoLocation `firestore:"geoLocation,omitempty"`
	Offer             bool                `firestore:"offer"`
	RegularPrice      int64               `firestore:"regularPrice"`
	DiscountedPrice   *int64              `firestore:"discountedPrice,omitempty"`
	ImageUrls         []string            `firestore:"ImageUrls"`
	Bedrooms          int                 `firestore:"bedrooms"`
	Bathrooms         int                 `firestore:"bathrooms"`
	Furnished         bool                `firestore:"furnished"`
	Parking           bool                `firestore:"parking"`
	Type              string              `firestore:"type"`
	UserRef           string              `firestore:"userRef"`
	Timestamp         time.Time           `firestore:"timestamp,serverTimestamp"`
}

func newListingDocument(l *entity.Listing) *listingDocument {
	geo := l.GeoLocation
	return &listingDocument{
		Name:            l.Name,
		Location:        l.Location,
		Geolocation:     &geo,
		Offer:           l.Offer,
		RegularPrice:    l.RegularPrice,
		DiscountedPrice: l.DiscountedPrice,
		ImageUrls:       l.ImageUrls,
		Bedrooms:        l.Bedrooms,
		Bathrooms:       l.Bathrooms,
		Furnished:       l.Furnished,
		Parking:         l.Parking,
		Type:            string(l.Type),
		UserRef:         l.UserRef,
	}
}

func (d *listingDocument) toEntity(id string) *entity.Listing {
	listing := &entity.Listing{
		ID:              id,
		Name:            d.Name,
		Location:        d.Location,
		Offer:           d.Offer,
		RegularPrice:    d.RegularPrice,
		DiscountedPrice: d.DiscountedPrice,
		ImageUrls:       d.ImageUrls,
		Bedrooms:        d.Bedrooms,
		Bathrooms:       d.Bathrooms,
		Furnished:       d.Furnished,
		Parking:         d.Parking,
		Type:            entity.ListingType(d.Type),
		UserRef:         d.UserRef,
		Timestamp:       d.Timestamp,
	}

	switch {
	case d.Geolocation != nil:
		listing.GeoLocation = *d.Geolocation
	case d.LegacyGeolocation != nil:
		listing.GeoLocation = *d.LegacyGeolocation
	}
	if listing.ImageUrls == nil {
		listing.ImageUrls = []string{}
	}

	return listing
}

type firestoreListingRepository struct {
	client *firestore.Client
}

func NewFirestoreListingRepository(client *firestore.Client) repository.ListingRepository {
	return &firestoreListingRepository{
		client: client,
	}
}

func (r *firestoreListingRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(listingsCollection)
}

func (r *firestoreListingRepository) Create(ctx context.Context, listing *entity.Listing) error {
	ref := r.collection().NewDoc()

	result, err := ref.Create(ctx, newListingDocument(listing))
	if err != nil {
		return errors.Internal("Failed to create listing", err)
	}

	listing.ID = ref.ID
	listing.Timestamp = result.UpdateTime
	return nil
}

func (r *firestoreListingRepository) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	snap, err := r.collection().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Listing", err)
		}
		return nil, errors.Internal("Failed to get listing", err)
	}

	return decodeListing(snap)
}

// Update merges the editable fields. The timestamp and owner are never
// written; a dropped offer removes discountedPrice and any legacy
// geoLocation field is removed.
func (r *firestoreListingRepository) Update(ctx context.Context, listing *entity.Listing) error {
	updates := []firestore.Update{
		{Path: "name", Value: listing.Name},
		{Path: "location", Value: listing.Location},
		{Path: fieldGeolocation, Value: listing.GeoLocation},
		{Path: fieldLegacyGeolocation, Value: firestore.Delete},
		{Path: "offer", Value: listing.Offer},
		{Path: "regularPrice", Value: listing.RegularPrice},
		{Path: "ImageUrls", Value: listing.ImageUrls},
		{Path: "bedrooms", Value: listing.Bedrooms},
		{Path: "bathrooms", Value: listing.Bathrooms},
		{Path: "furnished", Value: listing.Furnished},
		{Path: "parking", Value: listing.Parking},
		{Path: "type", Value: string(listing.Type)},
	}
	if listing.DiscountedPrice != nil {
		updates = append(updates, firestore.Update{Path: "discountedPrice", Value: *listing.DiscountedPrice})
	} else {
		updates = append(updates, firestore.Update{Path: "discountedPrice", Value: firestore.Delete})
	}

	_, err := r.collection().Doc(listing.ID).Update(ctx, updates)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Listing", err)
		}
		return errors.Internal("Failed to update listing", err)
	}

	return nil
}

func (r *firestoreListingRepository) Delete(ctx context.Context, id string) error {
	_, err := r.collection().Doc(id).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to delete listing", err)
	}

	return nil
}

func (r *firestoreListingRepository) Query(ctx context.Context, q repository.ListingQuery) ([]*entity.Listing, error) {
	query := r.collection().Query
	if q.Filter.Field != "" {
		query = query.Where(q.Filter.Field, "==", q.Filter.Value)
	}
	query = query.OrderBy("timestamp", firestore.Desc)

	if q.StartAfterID != "" {
		last, err := r.collection().Doc(q.StartAfterID).Get(ctx)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return nil, errors.NotFound("Listing", err)
			}
			return nil, errors.Internal("Failed to resolve cursor", err)
		}
		query = query.StartAfter(last)
	}

	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	listings := []*entity.Listing{}
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate listings", err)
		}

		listing, err := decodeListing(snap)
		if err != nil {
			return nil, err
		}
		listings = append(listings, listing)
	}

	return listings, nil
}

// MigrateGeolocation moves every legacy geoLocation field to geolocation.
// It returns the number of documents rewritten.
func (r *firestoreListingRepository) MigrateGeolocation(ctx context.Context) (int, error) {
	iter := r.collection().Documents(ctx)
	defer iter.Stop()

	bw := r.client.BulkWriter(ctx)
	migrated := 0
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return migrated, errors.Internal("Failed to iterate listings", err)
		}

		var doc listingDocument
		if err := snap.DataTo(&doc); err != nil {
			logger.Warn("Skipping listing %s: %v", snap.Ref.ID, err)
			continue
		}
		if doc.LegacyGeolocation == nil {
			continue
		}

		geo := *doc.LegacyGeolocation
		if doc.Geolocation != nil {
			geo = *doc.Geolocation
		}
		if _, err := bw.Update(snap.Ref, []firestore.Update{
			{Path: fieldGeolocation, Value: geo},
			{Path: fieldLegacyGeolocation, Value: firestore.Delete},
		}); err != nil {
			return migrated, errors.Internal("Failed to queue listing migration", err)
		}
		migrated++
	}

	bw.End()
	return migrated, nil
}

func decodeListing(snap *firestore.DocumentSnapshot) (*entity.Listing, error) {
	var doc listingDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, errors.Internal("Failed to parse listing data", err)
	}
	return doc.toEntity(snap.Ref.ID), nil
}

// ListingMigrator rewrites stored listings into the current document shape.
type ListingMigrator interface {
	MigrateGeolocation(ctx context.Context) (int, error)
}

func NewFirestoreListingMigrator(client *firestore.Client) ListingMigrator {
	return &firestoreListingRepository{
		client: client,
	}
}
