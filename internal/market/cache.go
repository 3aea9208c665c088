package market

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/moznion/go-optional"
	"github.com/papertrade-lab/stratler/internal/types"
)

// CachingProvider wraps a Provider with a TTL cache so repeated
// requests within the window hit the upstream once. Errors are never
// cached.
type CachingProvider struct {
	upstream Provider
	ttl      time.Duration
	now      func() time.Time

	mu     sync.RWMutex
	bars   map[string]barsEntry
	quotes map[string]quoteEntry
}

type barsEntry struct {
	bars      []types.Bar
	fetchedAt time.Time
}

type quoteEntry struct {
	quote     optional.Option[types.Quote]
	fetchedAt time.Time
}

// NewCachingProvider wraps upstream with a TTL cache.
func NewCachingProvider(upstream Provider, ttl time.Duration) *CachingProvider {
	return &CachingProvider{
		upstream: upstream,
		ttl:      ttl,
		now:      time.Now,
		bars:     make(map[string]barsEntry),
		quotes:   make(map[string]quoteEntry),
	}
}

// HistoricalBars implements Provider.
func (c *CachingProvider) HistoricalBars(ctx context.Context, symbol, period, interval string) ([]types.Bar, error) {
	key := fmt.Sprintf("%s|%s|%s", NormalizeSymbol(symbol), period, interval)

	c.mu.RLock()
	entry, ok := c.bars[key]
	c.mu.RUnlock()

	if ok && c.now().Sub(entry.fetchedAt) < c.ttl {
		return entry.bars, nil
	}

	bars, err := c.upstream.HistoricalBars(ctx, symbol, period, interval)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.bars[key] = barsEntry{bars: bars, fetchedAt: c.now()}
	c.mu.Unlock()

	return bars, nil
}

// LatestPrice implements Provider.
func (c *CachingProvider) LatestPrice(ctx context.Context, symbol string) (types.Quote, error) {
	key := NormalizeSymbol(symbol)

	c.mu.RLock()
	entry, ok := c.quotes[key]
	c.mu.RUnlock()

	if ok && entry.quote.IsSome() && c.now().Sub(entry.fetchedAt) < c.ttl {
		return entry.quote.Unwrap(), nil
	}

	quote, err := c.upstream.LatestPrice(ctx, symbol)
	if err != nil {
		return types.Quote{}, err
	}

	c.mu.Lock()
	c.quotes[key] = quoteEntry{quote: optional.Some(quote), fetchedAt: c.now()}
	c.mu.Unlock()

	return quote, nil
}
