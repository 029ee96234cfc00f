// Package pricing resolves unit prices for OCI catalog parts through a
// tiered chain: in-process cache, live price list, static catalog
// fallback. A failing tier is logged and skipped, never fatal.
package pricing

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/satoshitrading/oci-calculator-backend/internal/sku"
)

// Source yields a unit price for an OCI part in a currency. The bool
// reports whether the source had a price at all; err is reserved for
// lookup failures (network, decode), not for absence.
type Source interface {
	Price(ctx context.Context, part, currency string) (float64, bool, error)
}

// cache is a concurrent-safe in-process price cache. Entries are
// immutable once stored; prices do not change within a process run.
type cache struct {
	mu      sync.RWMutex
	entries map[string]float64
}

func newCache() *cache {
	return &cache{entries: map[string]float64{}}
}

func (c *cache) get(part, currency string) (float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[part+"/"+currency]
	return v, ok
}

func (c *cache) put(part, currency string, price float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[part+"/"+currency] = price
}

// Chain consults its sources in priority order and caches the first
// hit. Safe for concurrent use.
type Chain struct {
	cache   *cache
	sources []Source
}

// NewChain builds a chain over the given sources, most preferred first.
func NewChain(sources ...Source) *Chain {
	return &Chain{cache: newCache(), sources: sources}
}

// Price walks the tiers. A tier error cascades to the next tier with a
// warning; (0, false, nil) means no tier had the part.
func (c *Chain) Price(ctx context.Context, part, currency string) (float64, bool, error) {
	if v, ok := c.cache.get(part, currency); ok {
		return v, true, nil
	}

	for _, src := range c.sources {
		v, ok, err := src.Price(ctx, part, currency)
		if err != nil {
			zap.L().Warn("pricing: tier failed, falling through",
				zap.String("part", part),
				zap.String("currency", currency),
				zap.Error(err),
			)
			continue
		}
		if ok {
			c.cache.put(part, currency, v)
			return v, true, nil
		}
	}
	return 0, false, nil
}

// CatalogFallback serves the static USD list prices bundled with the
// application. It is the terminal tier and never errors.
type CatalogFallback struct{}

func (CatalogFallback) Price(_ context.Context, part, _ string) (float64, bool, error) {
	d, ok := sku.ByPart(part)
	if !ok {
		return 0, false, nil
	}
	return d.FallbackPriceUSD, true, nil
}
