// Package market fetches OHLCV bars and live quotes. Consumers receive
// a Provider explicitly; nothing in the repo reaches for a global feed.
package market

import (
	"context"
	"strings"
	"time"

	"github.com/papertrade-lab/stratler/internal/types"
	"github.com/papertrade-lab/stratler/pkg/errors"
)

// Provider fetches historical bars and the latest traded price for a
// symbol. Implementations must be safe for concurrent use.
type Provider interface {
	// HistoricalBars returns bars in ascending timestamp order for the
	// lookback period ("1mo", "3mo", "6mo", "1y", ...) at the given
	// candle interval ("1m", "1h", "1d", ...).
	HistoricalBars(ctx context.Context, symbol, period, interval string) ([]types.Bar, error)
	// LatestPrice returns the most recent traded price.
	LatestPrice(ctx context.Context, symbol string) (types.Quote, error)
}

// symbolAliases maps common spot-market spellings to the exchange
// symbol.
var symbolAliases = map[string]string{
	"BTCUSD":   "BTCUSDT",
	"BTC-USD":  "BTCUSDT",
	"ETHUSD":   "ETHUSDT",
	"ETH-USD":  "ETHUSDT",
	"DOGEUSD":  "DOGEUSDT",
	"DOGE-USD": "DOGEUSDT",
}

// NormalizeSymbol uppercases a symbol and rewrites common aliases to
// the exchange form.
func NormalizeSymbol(symbol string) string {
	upper := strings.ToUpper(strings.TrimSpace(symbol))
	if mapped, ok := symbolAliases[upper]; ok {
		return mapped
	}

	return upper
}

// periodDurations maps lookback period names to wall-clock spans.
var periodDurations = map[string]time.Duration{
	"1d":  24 * time.Hour,
	"5d":  5 * 24 * time.Hour,
	"1mo": 30 * 24 * time.Hour,
	"3mo": 90 * 24 * time.Hour,
	"6mo": 180 * 24 * time.Hour,
	"1y":  365 * 24 * time.Hour,
	"2y":  2 * 365 * 24 * time.Hour,
}

// PeriodDuration resolves a lookback period name to a duration.
func PeriodDuration(period string) (time.Duration, error) {
	d, ok := periodDurations[strings.ToLower(period)]
	if !ok {
		return 0, errors.Newf(errors.ErrCodeInvalidParameter, "unknown lookback period %q", period)
	}

	return d, nil
}
