package exchange

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

type cachedRate struct {
	rate      decimal.Decimal
	asOf      time.Time
	expiresAt time.Time
}

type pendingFetch struct {
	done chan struct{}
	rate decimal.Decimal
	asOf time.Time
	err  error
}

// Cache wraps a Converter with in-memory TTL caching of rates, keyed by
// currency pair. Concurrent misses for the same pair share one upstream
// fetch.
type Cache struct {
	inner Converter
	ttl   time.Duration

	mu      sync.Mutex
	rates   map[string]cachedRate
	pending map[string]*pendingFetch
}

// NewCache returns a caching converter. A non-positive ttl defaults to
// twelve hours; display rates do not need to be fresher than that.
func NewCache(inner Converter, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Cache{
		inner:   inner,
		ttl:     ttl,
		rates:   make(map[string]cachedRate),
		pending: make(map[string]*pendingFetch),
	}
}

func pairKey(from, to string) string {
	return strings.ToUpper(strings.TrimSpace(from)) + "/" + strings.ToUpper(strings.TrimSpace(to))
}

// Convert returns the converted amount, refreshing the pair's rate when
// the cached one has expired.
func (c *Cache) Convert(ctx context.Context, amount decimal.Decimal, from, to string) (Conversion, error) {
	if c.inner == nil {
		return Conversion{}, errors.New("inner converter is required")
	}

	key := pairKey(from, to)
	now := time.Now()

	c.mu.Lock()
	if entry, ok := c.rates[key]; ok {
		if now.Before(entry.expiresAt) {
			c.mu.Unlock()
			return Conversion{Amount: amount.Mul(entry.rate).Round(2), Rate: entry.rate, AsOf: entry.asOf}, nil
		}
		delete(c.rates, key)
	}

	fetch, inFlight := c.pending[key]
	if !inFlight {
		fetch = &pendingFetch{done: make(chan struct{})}
		c.pending[key] = fetch
		// The fetch is detached from this caller's deadline so one
		// impatient caller cannot fail every waiter.
		go c.refresh(context.WithoutCancel(ctx), key, from, to, fetch)
	}
	c.mu.Unlock()

	select {
	case <-ctx.Done():
		return Conversion{}, ctx.Err()
	case <-fetch.done:
	}
	if fetch.err != nil {
		return Conversion{}, fetch.err
	}
	return Conversion{Amount: amount.Mul(fetch.rate).Round(2), Rate: fetch.rate, AsOf: fetch.asOf}, nil
}

func (c *Cache) refresh(ctx context.Context, key, from, to string, fetch *pendingFetch) {
	// Probe with 1 so the cached rate is amount-independent.
	result, err := c.inner.Convert(ctx, decimal.New(1, 0), from, to)
	if err == nil && !result.Rate.IsPositive() {
		err = errors.New("rate must be positive")
	}

	c.mu.Lock()
	if err == nil {
		c.rates[key] = cachedRate{
			rate:      result.Rate,
			asOf:      result.AsOf,
			expiresAt: time.Now().Add(c.ttl),
		}
		c.evictExpiredLocked(time.Now())
	}
	fetch.rate = result.Rate
	fetch.asOf = result.AsOf
	fetch.err = err
	delete(c.pending, key)
	close(fetch.done)
	c.mu.Unlock()
}

func (c *Cache) evictExpiredLocked(now time.Time) {
	for key, entry := range c.rates {
		if !now.Before(entry.expiresAt) {
			delete(c.rates, key)
		}
	}
}
