package catalog

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/angelmondragon/packfinderz-configurator/pkg/enums"
	pkgerrors "github.com/angelmondragon/packfinderz-configurator/pkg/errors"
)

const discountsFlightKey = "discounts"

// SessionCache memoizes lookups for the lifetime of one editing session.
// Concurrent misses for the same list share a single backend call.
type SessionCache struct {
	next  Fetcher
	group singleflight.Group

	mu        sync.RWMutex
	options   map[enums.OptionKind][]Option
	discounts []Discount
	hasDisc   bool
}

// NewSessionCache wraps fetcher with an in-memory memo.
func NewSessionCache(fetcher Fetcher) (*SessionCache, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("catalog fetcher required")
	}
	return &SessionCache{
		next:    fetcher,
		options: make(map[enums.OptionKind][]Option),
	}, nil
}

// FetchOptions returns the cached list for kind, loading it on first use.
func (c *SessionCache) FetchOptions(ctx context.Context, kind enums.OptionKind) ([]Option, error) {
	if !kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid option kind %q", kind))
	}
	c.mu.RLock()
	cached, ok := c.options[kind]
	c.mu.RUnlock()
	if ok {
		return append([]Option(nil), cached...), nil
	}

	value, err, _ := c.group.Do(kind.String(), func() (any, error) {
		opts, err := c.next.FetchOptions(ctx, kind)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.options[kind] = opts
		c.mu.Unlock()
		return opts, nil
	})
	if err != nil {
		return nil, err
	}
	return append([]Option(nil), value.([]Option)...), nil
}

// FetchDiscounts returns the cached discount list, loading it on first use.
func (c *SessionCache) FetchDiscounts(ctx context.Context) ([]Discount, error) {
	c.mu.RLock()
	cached, ok := c.discounts, c.hasDisc
	c.mu.RUnlock()
	if ok {
		return append([]Discount(nil), cached...), nil
	}

	value, err, _ := c.group.Do(discountsFlightKey, func() (any, error) {
		discounts, err := c.next.FetchDiscounts(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.discounts = discounts
		c.hasDisc = true
		c.mu.Unlock()
		return discounts, nil
	})
	if err != nil {
		return nil, err
	}
	return append([]Discount(nil), value.([]Discount)...), nil
}

// Invalidate drops every memoized list.
func (c *SessionCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.options = make(map[enums.OptionKind][]Option)
	c.discounts = nil
	c.hasDisc = false
}
