package client

import (
	"context"
	"errors"
	"sync"
)

var ErrLoading = errors.New("a page is already loading")

// PageFunc fetches one page starting after cursor, or the first page when
// cursor is empty.
type PageFunc func(ctx context.Context, cursor string) (*Page, error)

// ListingFeed accumulates pages of one listing collection. LoadMore appends
// and never replaces; a failed load keeps what was already shown.
type ListingFeed struct {
	fetch PageFunc

	mu      sync.RWMutex
	items   []Listing
	cursor  string
	loaded  bool
	loading bool
	err     error
}

func NewListingFeed(fetch PageFunc) *ListingFeed {
	return &ListingFeed{fetch: fetch}
}

func (c *Client) OffersFeed() *ListingFeed {
	return NewListingFeed(c.Offers)
}

func (c *Client) CategoryFeed(listingType string) *ListingFeed {
	return NewListingFeed(func(ctx context.Context, cursor string) (*Page, error) {
		return c.Category(ctx, listingType, cursor)
	})
}

func (f *ListingFeed) Items() []Listing {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]Listing, len(f.items))
	copy(out, f.items)
	return out
}

func (f *ListingFeed) Loading() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.loading
}

// Err is the error of the most recent load, nil after a successful one.
func (f *ListingFeed) Err() error {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.err
}

// HasMore reports whether LoadMore would fetch another page.
func (f *ListingFeed) HasMore() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.loaded && f.cursor != ""
}

// Load fetches the first page and replaces the sequence.
func (f *ListingFeed) Load(ctx context.Context) error {
	return f.load(ctx, "", true)
}

// LoadMore appends the next page. It is a no-op when the collection is exhausted.
func (f *ListingFeed) LoadMore(ctx context.Context) error {
	f.mu.RLock()
	cursor, more := f.cursor, f.loaded && f.cursor != ""
	f.mu.RUnlock()

	if !more {
		return nil
	}
	return f.load(ctx, cursor, false)
}

func (f *ListingFeed) load(ctx context.Context, cursor string, reset bool) error {
	f.mu.Lock()
	if f.loading {
		f.mu.Unlock()
		return ErrLoading
	}
	f.loading = true
	f.mu.Unlock()

	page, err := f.fetch(ctx, cursor)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.loading = false

	// Results that arrive after the caller gave up are dropped.
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		f.err = err
		return err
	}

	f.err = nil
	f.loaded = true
	f.cursor = page.Cursor
	if reset {
		f.items = append([]Listing(nil), page.Items...)
	} else {
		f.items = append(f.items, page.Items...)
	}
	return nil
}
