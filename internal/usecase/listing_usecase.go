package usecase

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/MichaelVenturi/House-marketplace/internal/domain/entity"
	"github.com/MichaelVenturi/House-marketplace/internal/domain/repository"
	"github.com/MichaelVenturi/House-marketplace/internal/domain/service"
	"github.com/MichaelVenturi/House-marketplace/pkg/errors"
	"github.com/MichaelVenturi/House-marketplace/pkg/logger"
)

type ListingOptions struct {
	PageSize           int
	RecommendedLimit   int
	GeolocationEnabled bool
}

type ListingUseCase struct {
	listingRepo repository.ListingRepository
	imageStore  service.ImageStore
	geocoder    service.Geocoder
	opts        ListingOptions
	imageKey    func(uid, filename string) string
}

func NewListingUseCase(
	listingRepo repository.ListingRepository,
	imageStore service.ImageStore,
	geocoder service.Geocoder,
	opts ListingOptions,
) *ListingUseCase {
	if opts.PageSize <= 0 {
		opts.PageSize = 10
	}
	if opts.RecommendedLimit <= 0 {
		opts.RecommendedLimit = 5
	}
	return &ListingUseCase{
		listingRepo: listingRepo,
		imageStore:  imageStore,
		geocoder:    geocoder,
		opts:        opts,
		imageKey:    imageKey,
	}
}

// imageKey builds the blob key images/<uid>-<filename>-<uuid>.
func imageKey(uid, filename string) string {
	return fmt.Sprintf("images/%s-%s-%s", uid, filepath.Base(filename), uuid.New().String())
}

// ListingPage is one page of listings. Cursor is empty once the collection is exhausted.
type ListingPage struct {
	Listings []*entity.Listing `json:"items"`
	Cursor   string            `json:"cursor,omitempty"`
}

// ListingDetail is a listing as shown on its own page.
type ListingDetail struct {
	*entity.Listing
	Price           int64 `json:"price"`
	Savings         int64 `json:"savings,omitempty"`
	ContactLandlord bool  `json:"contactLandlord"`
}

func (uc *ListingUseCase) ListByCategory(ctx context.Context, listingType entity.ListingType, cursor string) (*ListingPage, error) {
	if !listingType.Valid() {
		return nil, errors.BadRequest(fmt.Sprintf("Unknown category %q", listingType), nil)
	}
	return uc.page(ctx, repository.ListingFilter{Field: repository.ListingFieldType, Value: string(listingType)}, cursor)
}

func (uc *ListingUseCase) ListOffers(ctx context.Context, cursor string) (*ListingPage, error) {
	return uc.page(ctx, repository.ListingFilter{Field: repository.ListingFieldOffer, Value: true}, cursor)
}

// ListRecommended returns the most recent listings for the home slider.
func (uc *ListingUseCase) ListRecommended(ctx context.Context) ([]*entity.Listing, error) {
	listings, err := uc.listingRepo.Query(ctx, repository.ListingQuery{Limit: uc.opts.RecommendedLimit})
	if err != nil {
		return nil, errors.Internal("Could not fetch listings", err)
	}
	return listings, nil
}

// ListByOwner returns every listing of uid. It has no limit and no cursor.
func (uc *ListingUseCase) ListByOwner(ctx context.Context, uid string) ([]*entity.Listing, error) {
	listings, err := uc.listingRepo.Query(ctx, repository.ListingQuery{
		Filter: repository.ListingFilter{Field: repository.ListingFieldUserRef, Value: uid},
	})
	if err != nil {
		return nil, errors.Internal("Could not fetch listings", err)
	}
	return listings, nil
}

func (uc *ListingUseCase) GetListing(ctx context.Context, id, viewerUID string) (*ListingDetail, error) {
	listing, err := uc.listingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &ListingDetail{
		Listing:         listing,
		Price:           listing.Price(),
		Savings:         listing.Savings(),
		ContactLandlord: viewerUID != listing.UserRef,
	}, nil
}

func (uc *ListingUseCase) page(ctx context.Context, filter repository.ListingFilter, cursor string) (*ListingPage, error) {
	key := filterKey(filter)
	q := repository.ListingQuery{Filter: filter, Limit: uc.opts.PageSize}

	if cursor != "" {
		token, err := decodeCursor(cursor)
		if err != nil {
			return nil, errors.BadRequest("Invalid cursor", err)
		}
		// A cursor minted for another predicate is meaningless here; start over.
		if token.Key == key {
			q.StartAfterID = token.ID
		} else {
			logger.Debug("Ignoring cursor for %q on query %q", token.Key, key)
		}
	}

	listings, err := uc.listingRepo.Query(ctx, q)
	if err != nil {
		if errors.Is(err, "NOT_FOUND") {
			return nil, errors.BadRequest("Cursor no longer valid", err)
		}
		return nil, errors.Internal("Could not fetch listings", err)
	}

	page := &ListingPage{Listings: listings}
	if len(listings) == uc.opts.PageSize {
		page.Cursor = encodeCursor(listings[len(listings)-1].ID, key)
	}
	return page, nil
}
