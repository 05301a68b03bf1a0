package usecase

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	adapterrepo "github.com/MichaelVenturi/House-marketplace/internal/adapter/repository"
	"github.com/MichaelVenturi/House-marketplace/internal/domain/entity"
	"github.com/MichaelVenturi/House-marketplace/internal/domain/repository"
	"github.com/MichaelVenturi/House-marketplace/pkg/errors"
)

// countingRepo records store writes on top of the in-memory repository.
type countingRepo struct {
	repository.ListingRepository
	creates, updates, deletes int32
}

func (r *countingRepo) Create(ctx context.Context, l *entity.Listing) error {
	atomic.AddInt32(&r.creates, 1)
	return r.ListingRepository.Create(ctx, l)
}

func (r *countingRepo) Update(ctx context.Context, l *entity.Listing) error {
	atomic.AddInt32(&r.updates, 1)
	return r.ListingRepository.Update(ctx, l)
}

func (r *countingRepo) Delete(ctx context.Context, id string) error {
	atomic.AddInt32(&r.deletes, 1)
	return r.ListingRepository.Delete(ctx, id)
}

func (r *countingRepo) writes() int32 {
	return atomic.LoadInt32(&r.creates) + atomic.LoadInt32(&r.updates) + atomic.LoadInt32(&r.deletes)
}

type listingFixture struct {
	uc       *ListingUseCase
	repo     *countingRepo
	store    *mockImageStore
	geocoder *mockGeocoder
}

func newListingFixture(pageSize int) *listingFixture {
	repo := &countingRepo{ListingRepository: adapterrepo.NewMemoryListingRepository()}
	store := &mockImageStore{}
	geocoder := &mockGeocoder{}

	uc := NewListingUseCase(repo, store, geocoder, ListingOptions{
		PageSize:           pageSize,
		RecommendedLimit:   3,
		GeolocationEnabled: true,
	})

	return &listingFixture{uc: uc, repo: repo, store: store, geocoder: geocoder}
}

func validForm(images ...entity.ListingImage) entity.ListingForm {
	if len(images) == 0 {
		images = []entity.ListingImage{testImage("front.jpg")}
	}
	return entity.ListingForm{
		Name:         "Cozy family house",
		Location:     "123 Main St",
		RegularPrice: 250000,
		Images:       images,
		Bedrooms:     3,
		Bathrooms:    2,
		Type:         entity.ListingTypeSale,
	}
}

func (f *listingFixture) seed(t *testing.T, n int, lt entity.ListingType, owner string) []*entity.Listing {
	t.Helper()
	out := make([]*entity.Listing, 0, n)
	for i := 0; i < n; i++ {
		l := &entity.Listing{
			Name:         fmt.Sprintf("Listing number %d", i),
			Type:         lt,
			Offer:        i%2 == 0,
			RegularPrice: 1000,
			UserRef:      owner,
		}
		require.NoError(t, f.repo.ListingRepository.Create(context.Background(), l))
		out = append(out, l)
		time.Sleep(time.Millisecond)
	}
	return out
}

func TestListByCategory_Pagination(t *testing.T) {
	f := newListingFixture(2)
	f.seed(t, 3, entity.ListingTypeRent, "owner")
	f.seed(t, 2, entity.ListingTypeSale, "owner")

	page1, err := f.uc.ListByCategory(context.Background(), entity.ListingTypeRent, "")
	require.NoError(t, err)
	require.Len(t, page1.Listings, 2)
	assert.NotEmpty(t, page1.Cursor)
	assert.False(t, page1.Listings[0].Timestamp.Before(page1.Listings[1].Timestamp))

	page2, err := f.uc.ListByCategory(context.Background(), entity.ListingTypeRent, page1.Cursor)
	require.NoError(t, err)
	require.Len(t, page2.Listings, 1)
	assert.Empty(t, page2.Cursor)

	last := page1.Listings[len(page1.Listings)-1]
	seen := map[string]bool{}
	for _, l := range append(page1.Listings, page2.Listings...) {
		assert.False(t, seen[l.ID], "duplicate id %s", l.ID)
		seen[l.ID] = true
		assert.Equal(t, entity.ListingTypeRent, l.Type)
	}
	for _, l := range page2.Listings {
		assert.False(t, l.Timestamp.After(last.Timestamp))
	}
}

func TestListByCategory_InvalidType(t *testing.T) {
	f := newListingFixture(2)

	_, err := f.uc.ListByCategory(context.Background(), entity.ListingType("lease"), "")
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestListOffers_CursorFromOtherQueryRestarts(t *testing.T) {
	f := newListingFixture(1)
	f.seed(t, 3, entity.ListingTypeRent, "owner")

	rent, err := f.uc.ListByCategory(context.Background(), entity.ListingTypeRent, "")
	require.NoError(t, err)
	require.NotEmpty(t, rent.Cursor)

	offers, err := f.uc.ListOffers(context.Background(), rent.Cursor)
	require.NoError(t, err)

	first, err := f.uc.ListOffers(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, first.Listings, offers.Listings)
	for _, l := range offers.Listings {
		assert.True(t, l.Offer)
	}
}

func TestPage_BadCursor(t *testing.T) {
	f := newListingFixture(2)

	_, err := f.uc.ListOffers(context.Background(), "%%%not-a-cursor")
	assert.True(t, errors.Is(err, "BAD_REQUEST"))

	_, err = f.uc.ListOffers(context.Background(), encodeCursor("deleted", "offer=true"))
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestListRecommended_UsesLimit(t *testing.T) {
	f := newListingFixture(10)
	f.seed(t, 5, entity.ListingTypeSale, "owner")

	listings, err := f.uc.ListRecommended(context.Background())
	require.NoError(t, err)
	assert.Len(t, listings, 3)
}

func TestListByOwner_Unbounded(t *testing.T) {
	f := newListingFixture(2)
	f.seed(t, 5, entity.ListingTypeSale, "me")
	f.seed(t, 1, entity.ListingTypeSale, "them")

	listings, err := f.uc.ListByOwner(context.Background(), "me")
	require.NoError(t, err)
	assert.Len(t, listings, 5)
}

func TestGetListing_ContactLandlordOnlyForOthers(t *testing.T) {
	f := newListingFixture(2)
	l := f.seed(t, 1, entity.ListingTypeSale, "owner")[0]

	own, err := f.uc.GetListing(context.Background(), l.ID, "owner")
	require.NoError(t, err)
	assert.False(t, own.ContactLandlord)

	other, err := f.uc.GetListing(context.Background(), l.ID, "")
	require.NoError(t, err)
	assert.True(t, other.ContactLandlord)

	_, err = f.uc.GetListing(context.Background(), "missing", "")
	assert.True(t, errors.Is(err, "NOT_FOUND"))
}

func TestCreateListing_GeocodedLocation(t *testing.T) {
	f := newListingFixture(10)
	f.geocoder.On("Geocode", mock.Anything, "123 Main St").Return(entity.GeoLocation{Lat: 40.0, Lng: -75.0}, true, nil)
	f.store.On("UploadImage", mock.Anything, mock.Anything, "image/jpeg", mock.Anything, mock.Anything).
		Return("https://storage.example.com/front.jpg", nil)

	listing, err := f.uc.CreateListing(context.Background(), "owner", validForm())
	require.NoError(t, err)
	assert.Equal(t, entity.GeoLocation{Lat: 40.0, Lng: -75.0}, listing.GeoLocation)
	assert.Equal(t, []string{"https://storage.example.com/front.jpg"}, listing.ImageUrls)
	assert.Equal(t, "owner", listing.UserRef)
	assert.Nil(t, listing.DiscountedPrice)
	assert.EqualValues(t, 1, f.repo.creates)
}

func TestCreateListing_NoGeocodingResultDefaultsToOrigin(t *testing.T) {
	f := newListingFixture(10)
	f.geocoder.On("Geocode", mock.Anything, "123 Main St").Return(entity.GeoLocation{}, false, nil)
	f.store.On("UploadImage", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("https://storage.example.com/x.jpg", nil)

	listing, err := f.uc.CreateListing(context.Background(), "owner", validForm())
	require.NoError(t, err)
	assert.Equal(t, entity.GeoLocation{Lat: 0, Lng: 0}, listing.GeoLocation)
}

func TestCreateListing_GeocoderFailureAborts(t *testing.T) {
	f := newListingFixture(10)
	f.geocoder.On("Geocode", mock.Anything, mock.Anything).Return(entity.GeoLocation{}, false, stderrors.New("REQUEST_DENIED"))

	_, err := f.uc.CreateListing(context.Background(), "owner", validForm())
	assert.True(t, errors.Is(err, "INTERNAL_ERROR"))
	assert.Zero(t, f.repo.writes())
	f.store.AssertNotCalled(t, "UploadImage", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateListing_ManualCoordinatesWhenGeocodingDisabled(t *testing.T) {
	f := newListingFixture(10)
	f.uc.opts.GeolocationEnabled = false
	f.store.On("UploadImage", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("https://storage.example.com/x.jpg", nil)

	form := validForm()
	form.Lat, form.Lng = 51.5, -0.12

	listing, err := f.uc.CreateListing(context.Background(), "owner", form)
	require.NoError(t, err)
	assert.Equal(t, entity.GeoLocation{Lat: 51.5, Lng: -0.12}, listing.GeoLocation)
	f.geocoder.AssertNotCalled(t, "Geocode", mock.Anything, mock.Anything)
}

func TestCreateListing_ValidationPerformsNoNetworkCalls(t *testing.T) {
	tooMany := make([]entity.ListingImage, 7)
	for i := range tooMany {
		tooMany[i] = testImage(fmt.Sprintf("%d.jpg", i))
	}

	tests := []struct {
		name    string
		mutate  func(*entity.ListingForm)
		message string
	}{
		{
			name: "discount equals regular price",
			mutate: func(f *entity.ListingForm) {
				f.Offer = true
				f.DiscountedPrice = f.RegularPrice
			},
			message: "Discounted price needs to be less than regular price",
		},
		{
			name:    "offer without discount",
			mutate:  func(f *entity.ListingForm) { f.Offer = true },
			message: "Offers need a discounted price of at least 50",
		},
		{
			name: "offer with discount below minimum",
			mutate: func(f *entity.ListingForm) {
				f.Offer = true
				f.DiscountedPrice = 49
			},
			message: "Offers need a discounted price of at least 50",
		},
		{
			name: "discount above regular price without offer flag",
			mutate: func(f *entity.ListingForm) {
				f.DiscountedPrice = f.RegularPrice + 1
			},
			message: "Discounted price needs to be less than regular price",
		},
		{
			name:    "no images",
			mutate:  func(f *entity.ListingForm) { f.Images = nil },
			message: "At least one image is required",
		},
		{
			name:    "seven images",
			mutate:  func(f *entity.ListingForm) { f.Images = tooMany },
			message: "Max 6 images",
		},
		{
			name:    "undefined address",
			mutate:  func(f *entity.ListingForm) { f.Location = "undefined, undefined" },
			message: "Please enter a correct address",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newListingFixture(10)
			form := validForm()
			tt.mutate(&form)

			_, err := f.uc.CreateListing(context.Background(), "owner", form)

			var appErr *errors.AppError
			require.True(t, stderrors.As(err, &appErr))
			assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
			assert.Equal(t, tt.message, appErr.Message)
			assert.Zero(t, f.repo.writes())
			f.geocoder.AssertNotCalled(t, "Geocode", mock.Anything, mock.Anything)
			f.store.AssertNotCalled(t, "UploadImage", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestCreateListing_OfferKeepsDiscount(t *testing.T) {
	f := newListingFixture(10)
	f.geocoder.On("Geocode", mock.Anything, mock.Anything).Return(entity.GeoLocation{Lat: 1, Lng: 2}, true, nil)
	f.store.On("UploadImage", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("https://storage.example.com/x.jpg", nil)

	form := validForm()
	form.Offer = true
	form.DiscountedPrice = 200000

	listing, err := f.uc.CreateListing(context.Background(), "owner", form)
	require.NoError(t, err)
	require.NotNil(t, listing.DiscountedPrice)
	assert.EqualValues(t, 200000, *listing.DiscountedPrice)
	assert.Less(t, *listing.DiscountedPrice, listing.RegularPrice)
}

func TestCreateListing_UploadsKeepFormOrder(t *testing.T) {
	f := newListingFixture(10)
	f.uc.imageKey = func(uid, filename string) string { return "images/" + uid + "-" + filename }
	f.geocoder.On("Geocode", mock.Anything, mock.Anything).Return(entity.GeoLocation{}, true, nil)
	for _, name := range []string{"a.jpg", "b.jpg", "c.jpg"} {
		f.store.On("UploadImage", mock.Anything, "images/owner-"+name, mock.Anything, mock.Anything, mock.Anything).
			Return("https://storage.example.com/"+name, nil)
	}

	listing, err := f.uc.CreateListing(context.Background(), "owner",
		validForm(testImage("a.jpg"), testImage("b.jpg"), testImage("c.jpg")))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://storage.example.com/a.jpg",
		"https://storage.example.com/b.jpg",
		"https://storage.example.com/c.jpg",
	}, listing.ImageUrls)
}

func TestCreateListing_UploadFailureAbortsWithoutWrite(t *testing.T) {
	f := newListingFixture(10)
	f.uc.imageKey = func(uid, filename string) string { return filename }
	f.geocoder.On("Geocode", mock.Anything, mock.Anything).Return(entity.GeoLocation{}, true, nil)
	f.store.On("UploadImage", mock.Anything, "a.jpg", mock.Anything, mock.Anything, mock.Anything).Return("https://x/a.jpg", nil)
	f.store.On("UploadImage", mock.Anything, "b.jpg", mock.Anything, mock.Anything, mock.Anything).Return("", stderrors.New("quota exceeded"))

	_, err := f.uc.CreateListing(context.Background(), "owner", validForm(testImage("a.jpg"), testImage("b.jpg")))

	var appErr *errors.AppError
	require.True(t, stderrors.As(err, &appErr))
	assert.Equal(t, "Images not uploaded", appErr.Message)
	assert.Zero(t, f.repo.writes())
}

func TestUpdateListing_NotOwnerWritesNothing(t *testing.T) {
	f := newListingFixture(10)
	existing := f.seed(t, 1, entity.ListingTypeSale, "owner")[0]

	_, err := f.uc.UpdateListing(context.Background(), "intruder", existing.ID, validForm())

	var appErr *errors.AppError
	require.True(t, stderrors.As(err, &appErr))
	assert.Equal(t, "FORBIDDEN", appErr.Code)
	assert.Equal(t, "/", appErr.Redirect)
	assert.Zero(t, f.repo.writes())
	f.geocoder.AssertNotCalled(t, "Geocode", mock.Anything, mock.Anything)
	f.store.AssertNotCalled(t, "UploadImage", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateListing_KeepsOwnerAndTimestamp(t *testing.T) {
	f := newListingFixture(10)
	existing := f.seed(t, 1, entity.ListingTypeSale, "owner")[0]
	f.geocoder.On("Geocode", mock.Anything, mock.Anything).Return(entity.GeoLocation{Lat: 3, Lng: 4}, true, nil)
	f.store.On("UploadImage", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("https://storage.example.com/new.jpg", nil)

	form := validForm()
	form.Name = "Renovated family house"
	form.Type = entity.ListingTypeRent

	updated, err := f.uc.UpdateListing(context.Background(), "owner", existing.ID, form)
	require.NoError(t, err)
	assert.Equal(t, existing.ID, updated.ID)
	assert.True(t, existing.Timestamp.Equal(updated.Timestamp))

	stored, err := f.repo.GetByID(context.Background(), existing.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renovated family house", stored.Name)
	assert.Equal(t, entity.ListingTypeRent, stored.Type)
	assert.Equal(t, "owner", stored.UserRef)
	assert.True(t, existing.Timestamp.Equal(stored.Timestamp))
	assert.EqualValues(t, 1, f.repo.updates)
}

func TestUpdateListing_MissingListingRedirects(t *testing.T) {
	f := newListingFixture(10)

	_, err := f.uc.UpdateListing(context.Background(), "owner", "missing", validForm())

	var appErr *errors.AppError
	require.True(t, stderrors.As(err, &appErr))
	assert.Equal(t, "NOT_FOUND", appErr.Code)
	assert.Equal(t, "/", appErr.Redirect)
}

func TestDeleteListing(t *testing.T) {
	f := newListingFixture(10)
	listings := f.seed(t, 3, entity.ListingTypeSale, "owner")

	require.NoError(t, f.uc.DeleteListing(context.Background(), "owner", listings[1].ID))
	assert.EqualValues(t, 1, f.repo.deletes)

	remaining, err := f.uc.ListByOwner(context.Background(), "owner")
	require.NoError(t, err)
	require.Len(t, remaining, 2)
	for _, l := range remaining {
		assert.NotEqual(t, listings[1].ID, l.ID)
	}

	err = f.uc.DeleteListing(context.Background(), "intruder", listings[0].ID)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
	assert.EqualValues(t, 1, f.repo.deletes)
}

func TestCursor_RoundTrip(t *testing.T) {
	token, err := decodeCursor(encodeCursor("abc", "type=rent"))
	require.NoError(t, err)
	assert.Equal(t, "abc", token.ID)
	assert.Equal(t, "type=rent", token.Key)

	_, err = decodeCursor(encodeCursor("", "*"))
	assert.Error(t, err)
}
