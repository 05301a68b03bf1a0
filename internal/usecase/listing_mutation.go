package usecase

import (
	"context"
	"io"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/MichaelVenturi/House-marketplace/internal/domain/entity"
	"github.com/MichaelVenturi/House-marketplace/pkg/errors"
	"github.com/MichaelVenturi/House-marketplace/pkg/logger"
)

// ValidateListingForm runs every check that needs no network round trip and
// returns the first failure only.
func ValidateListingForm(form entity.ListingForm) error {
	if !form.Type.Valid() {
		return errors.Validation("Listing type must be rent or sale")
	}

	if form.Offer && form.DiscountedPrice < entity.MinListingPrice {
		return errors.Validation("Offers need a discounted price of at least 50")
	}

	if (form.Offer || form.DiscountedPrice > 0) && form.DiscountedPrice >= form.RegularPrice {
		return errors.Validation("Discounted price needs to be less than regular price")
	}

	if form.Bedrooms < 1 || form.Bathrooms < 1 {
		return errors.Validation("Bedrooms and bathrooms must be at least 1")
	}

	if len(form.Images) < entity.MinListingImages {
		return errors.Validation("At least one image is required")
	}
	if len(form.Images) > entity.MaxListingImages {
		return errors.Validation("Max 6 images")
	}

	location := strings.TrimSpace(form.Location)
	if location == "" || strings.Contains(location, "undefined") {
		return errors.Validation("Please enter a correct address")
	}

	return nil
}

func (uc *ListingUseCase) CreateListing(ctx context.Context, uid string, form entity.ListingForm) (*entity.Listing, error) {
	if err := ValidateListingForm(form); err != nil {
		return nil, err
	}

	listing, err := uc.prepare(ctx, uid, form)
	if err != nil {
		return nil, err
	}

	if err := uc.listingRepo.Create(ctx, listing); err != nil {
		return nil, errors.Internal("Could not save listing", err)
	}

	logger.Info("Listing %s created by %s", listing.ID, uid)
	return listing, nil
}

// UpdateListing edits a listing owned by uid. Ownership is checked before any
// upload or write happens; owner and creation time never change.
func (uc *ListingUseCase) UpdateListing(ctx context.Context, uid, id string, form entity.ListingForm) (*entity.Listing, error) {
	if err := ValidateListingForm(form); err != nil {
		return nil, err
	}

	existing, err := uc.ownedListing(ctx, uid, id, "You cannot edit this listing")
	if err != nil {
		return nil, err
	}

	listing, err := uc.prepare(ctx, uid, form)
	if err != nil {
		return nil, err
	}
	listing.ID = existing.ID
	listing.UserRef = existing.UserRef
	listing.Timestamp = existing.Timestamp

	if err := uc.listingRepo.Update(ctx, listing); err != nil {
		return nil, errors.Internal("Could not save listing", err)
	}

	logger.Info("Listing %s updated by %s", listing.ID, uid)
	return listing, nil
}

func (uc *ListingUseCase) DeleteListing(ctx context.Context, uid, id string) error {
	if _, err := uc.ownedListing(ctx, uid, id, "You cannot delete this listing"); err != nil {
		return err
	}

	if err := uc.listingRepo.Delete(ctx, id); err != nil {
		return errors.Internal("Could not delete listing", err)
	}

	logger.Info("Listing %s deleted by %s", id, uid)
	return nil
}

func (uc *ListingUseCase) ownedListing(ctx context.Context, uid, id, denied string) (*entity.Listing, error) {
	listing, err := uc.listingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, "NOT_FOUND") {
			return nil, errors.NotFound("Listing", err).WithRedirect("/")
		}
		return nil, err
	}

	if listing.UserRef != uid {
		logger.Warn("User %s attempted to modify listing %s owned by %s", uid, id, listing.UserRef)
		return nil, errors.Forbidden(denied, nil).WithRedirect("/")
	}

	return listing, nil
}

// prepare resolves the geolocation and uploads the images, then maps the form
// onto the listing to persist.
func (uc *ListingUseCase) prepare(ctx context.Context, uid string, form entity.ListingForm) (*entity.Listing, error) {
	geo, err := uc.resolveGeolocation(ctx, form)
	if err != nil {
		return nil, err
	}

	imageUrls, err := uc.uploadImages(ctx, uid, form.Images)
	if err != nil {
		return nil, err
	}

	return form.ToListing(uid, geo, imageUrls), nil
}

// resolveGeolocation defaults to {0,0} when the geocoder finds no match.
// Transport and provider errors abort the submit.
func (uc *ListingUseCase) resolveGeolocation(ctx context.Context, form entity.ListingForm) (entity.GeoLocation, error) {
	if !uc.opts.GeolocationEnabled || uc.geocoder == nil {
		return entity.GeoLocation{Lat: form.Lat, Lng: form.Lng}, nil
	}

	loc, ok, err := uc.geocoder.Geocode(ctx, form.Location)
	if err != nil {
		return entity.GeoLocation{}, errors.Internal("Could not resolve address", err)
	}
	if !ok {
		logger.Warn("No geocoding result for %q, defaulting to 0,0", form.Location)
		return entity.GeoLocation{}, nil
	}
	return loc, nil
}

// uploadImages stores every image concurrently. The first failure cancels the
// rest; blobs that already landed are left in place. URLs keep form order so
// index 0 stays the cover image.
func (uc *ListingUseCase) uploadImages(ctx context.Context, uid string, images []entity.ListingImage) ([]string, error) {
	urls := make([]string, len(images))

	g, gctx := errgroup.WithContext(ctx)
	for i, img := range images {
		i, img := i, img
		g.Go(func() error {
			file, err := img.Open()
			if err != nil {
				return err
			}
			defer file.Close()

			key := uc.imageKey(uid, img.Filename)
			var body io.Reader = newProgressReader(file, img.Size, key)

			url, err := uc.imageStore.UploadImage(gctx, key, img.ContentType, img.Size, body)
			if err != nil {
				return err
			}
			urls[i] = url
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("Image upload failed for %s: %v", uid, err)
		return nil, errors.Internal("Images not uploaded", err)
	}

	return urls, nil
}
