package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MichaelVenturi/House-marketplace/internal/domain/entity"
	"github.com/MichaelVenturi/House-marketplace/internal/domain/repository"
	"github.com/MichaelVenturi/House-marketplace/pkg/errors"
)

type storedListing struct {
	listing entity.Listing
	seq     int64
}

// memoryListingRepository backs DATA_BACKEND=memory and the tests. Ordering
// matches Firestore: newest timestamp first, later inserts first on ties.
type memoryListingRepository struct {
	mu       sync.RWMutex
	listings map[string]*storedListing
	seq      int64
	now      func() time.Time
}

func NewMemoryListingRepository() repository.ListingRepository {
	return &memoryListingRepository{
		listings: make(map[string]*storedListing),
		now:      time.Now,
	}
}

func (r *memoryListingRepository) Create(ctx context.Context, listing *entity.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	listing.ID = uuid.New().String()
	listing.Timestamp = r.now().UTC()

	r.seq++
	r.listings[listing.ID] = &storedListing{listing: cloneListing(listing), seq: r.seq}
	return nil
}

func (r *memoryListingRepository) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.listings[id]
	if !ok {
		return nil, errors.NotFound("Listing", nil)
	}
	listing := cloneListing(&stored.listing)
	return &listing, nil
}

func (r *memoryListingRepository) Update(ctx context.Context, listing *entity.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.listings[listing.ID]
	if !ok {
		return errors.NotFound("Listing", nil)
	}

	updated := cloneListing(listing)
	updated.UserRef = stored.listing.UserRef
	updated.Timestamp = stored.listing.Timestamp
	stored.listing = updated
	return nil
}

func (r *memoryListingRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.listings, id)
	return nil
}

func (r *memoryListingRepository) Query(ctx context.Context, q repository.ListingQuery) ([]*entity.Listing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var after *storedListing
	if q.StartAfterID != "" {
		stored, ok := r.listings[q.StartAfterID]
		if !ok {
			return nil, errors.NotFound("Listing", nil)
		}
		after = stored
	}

	matched := make([]*storedListing, 0, len(r.listings))
	for _, stored := range r.listings {
		if matchesFilter(&stored.listing, q.Filter) {
			matched = append(matched, stored)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return before(matched[i], matched[j])
	})

	listings := []*entity.Listing{}
	for _, stored := range matched {
		if after != nil && !before(after, stored) {
			continue
		}
		if q.Limit > 0 && len(listings) == q.Limit {
			break
		}
		listing := cloneListing(&stored.listing)
		listings = append(listings, &listing)
	}

	return listings, nil
}

// before reports whether a sorts ahead of b in descending timestamp order.
func before(a, b *storedListing) bool {
	if !a.listing.Timestamp.Equal(b.listing.Timestamp) {
		return a.listing.Timestamp.After(b.listing.Timestamp)
	}
	return a.seq > b.seq
}

func matchesFilter(l *entity.Listing, f repository.ListingFilter) bool {
	switch f.Field {
	case "":
		return true
	case repository.ListingFieldType:
		return string(l.Type) == toString(f.Value)
	case repository.ListingFieldOffer:
		offer, ok := f.Value.(bool)
		return ok && l.Offer == offer
	case repository.ListingFieldUserRef:
		return l.UserRef == toString(f.Value)
	default:
		return false
	}
}

func toString(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case entity.ListingType:
		return string(s)
	default:
		return ""
	}
}

func cloneListing(l *entity.Listing) entity.Listing {
	c := *l
	c.ImageUrls = append([]string{}, l.ImageUrls...)
	if l.DiscountedPrice != nil {
		d := *l.DiscountedPrice
		c.DiscountedPrice = &d
	}
	return c
}
