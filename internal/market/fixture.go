package market

import (
	"context"
	"sync"

	"github.com/papertrade-lab/stratler/internal/types"
	"github.com/papertrade-lab/stratler/pkg/errors"
)

// FixtureProvider serves canned data keyed by normalized symbol. It is
// the injectable stand-in for tests and offline runs.
type FixtureProvider struct {
	mu     sync.RWMutex
	bars   map[string][]types.Bar
	quotes map[string]types.Quote
}

// NewFixtureProvider creates an empty fixture provider.
func NewFixtureProvider() *FixtureProvider {
	return &FixtureProvider{
		bars:   make(map[string][]types.Bar),
		quotes: make(map[string]types.Quote),
	}
}

// SetBars registers the bar sequence served for a symbol.
func (f *FixtureProvider) SetBars(symbol string, bars []types.Bar) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.bars[NormalizeSymbol(symbol)] = bars
}

// SetQuote registers the quote served for a symbol.
func (f *FixtureProvider) SetQuote(symbol string, quote types.Quote) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.quotes[NormalizeSymbol(symbol)] = quote
}

// HistoricalBars implements Provider. Period and interval are accepted
// but ignored; the fixture serves whatever was registered.
func (f *FixtureProvider) HistoricalBars(_ context.Context, symbol, _, _ string) ([]types.Bar, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	bars, ok := f.bars[NormalizeSymbol(symbol)]
	if !ok || len(bars) == 0 {
		return nil, errors.Newf(errors.ErrCodeNoData, "no historical data found for %s", symbol)
	}

	return bars, nil
}

// LatestPrice implements Provider.
func (f *FixtureProvider) LatestPrice(_ context.Context, symbol string) (types.Quote, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	quote, ok := f.quotes[NormalizeSymbol(symbol)]
	if !ok {
		return types.Quote{}, errors.Newf(errors.ErrCodeNoData, "no price data available for %s", symbol)
	}

	return quote, nil
}
