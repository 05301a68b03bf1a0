package client

import (
	"context"
	"errors"
	"sync"
)

var ErrNotConfirmed = errors.New("deletion was not confirmed")

// ProfileListings is the signed-in user's own listings as shown on the
// profile page.
type ProfileListings struct {
	client *Client

	mu    sync.RWMutex
	items []Listing
}

func (c *Client) ProfileListings() *ProfileListings {
	return &ProfileListings{client: c}
}

func (p *ProfileListings) Items() []Listing {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]Listing, len(p.items))
	copy(out, p.items)
	return out
}

func (p *ProfileListings) Load(ctx context.Context) error {
	listings, err := p.client.MyListings(ctx)
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	p.mu.Lock()
	p.items = listings
	p.mu.Unlock()
	return nil
}

// Delete removes the listing on the server and then drops exactly that id
// from the local sequence. Nothing is sent unless confirm is true.
func (p *ProfileListings) Delete(ctx context.Context, id string, confirm bool) error {
	if !confirm {
		return ErrNotConfirmed
	}
	if err := p.client.DeleteListing(ctx, id); err != nil {
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	kept := p.items[:0:0]
	for _, l := range p.items {
		if l.ID != id {
			kept = append(kept, l)
		}
	}
	p.items = kept
	return nil
}
