package market

import (
	"context"
	"strconv"
	"strings"
	"time"

	binance "github.com/adshao/go-binance/v2"
	"github.com/papertrade-lab/stratler/internal/logger"
	"github.com/papertrade-lab/stratler/internal/types"
	"github.com/papertrade-lab/stratler/pkg/errors"
	"go.uber.org/zap"
)

// Binance API caps klines responses at 1000 rows per request.
const klinesPageLimit = 1000

var validIntervals = map[string]bool{
	"1m": true, "3m": true, "5m": true, "15m": true, "30m": true,
	"1h": true, "2h": true, "4h": true, "6h": true, "8h": true, "12h": true,
	"1d": true, "3d": true, "1w": true, "1M": true,
}

// BinanceProvider fetches spot-market data from the public Binance
// API. No credentials are needed for read-only market endpoints.
type BinanceProvider struct {
	client *binance.Client
	log    *logger.Logger
}

// NewBinanceProvider creates a provider backed by the public Binance
// REST API.
func NewBinanceProvider(log *logger.Logger) *BinanceProvider {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &BinanceProvider{
		client: binance.NewClient("", ""),
		log:    log,
	}
}

// HistoricalBars implements Provider. Pagination follows the close
// time of the last kline so pages never overlap.
func (p *BinanceProvider) HistoricalBars(ctx context.Context, symbol, period, interval string) ([]types.Bar, error) {
	symbol = NormalizeSymbol(symbol)

	if !validIntervals[normalizeInterval(interval)] {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "unsupported candle interval %q", interval)
	}

	lookback, err := PeriodDuration(period)
	if err != nil {
		return nil, err
	}

	endTime := time.Now().UnixMilli()
	startTime := time.Now().Add(-lookback).UnixMilli()

	bars := []types.Bar{}

	for {
		klines, err := p.client.NewKlinesService().
			Symbol(symbol).
			Interval(normalizeInterval(interval)).
			StartTime(startTime).
			EndTime(endTime).
			Limit(klinesPageLimit).
			Do(ctx)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "failed to fetch klines for %s", symbol)
		}

		for _, k := range klines {
			bar, err := klineToBar(k)
			if err != nil {
				return nil, err
			}

			bars = append(bars, bar)
		}

		if len(klines) < klinesPageLimit {
			break
		}

		startTime = klines[len(klines)-1].CloseTime + 1
		if startTime >= endTime {
			break
		}
	}

	if len(bars) == 0 {
		return nil, errors.Newf(errors.ErrCodeNoData, "no historical data found for %s", symbol)
	}

	p.log.Debug("Fetched historical bars",
		zap.String("symbol", symbol),
		zap.String("period", period),
		zap.String("interval", interval),
		zap.Int("bars", len(bars)),
	)

	return bars, nil
}

// LatestPrice implements Provider.
func (p *BinanceProvider) LatestPrice(ctx context.Context, symbol string) (types.Quote, error) {
	symbol = NormalizeSymbol(symbol)

	prices, err := p.client.NewListPricesService().Symbol(symbol).Do(ctx)
	if err != nil {
		return types.Quote{}, errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "failed to fetch price for %s", symbol)
	}

	if len(prices) == 0 {
		return types.Quote{}, errors.Newf(errors.ErrCodeNoData, "no price data available for %s", symbol)
	}

	price, err := strconv.ParseFloat(prices[0].Price, 64)
	if err != nil {
		return types.Quote{}, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "unparseable price %q for %s", prices[0].Price, symbol)
	}

	return types.Quote{
		Symbol: symbol,
		Price:  price,
		Time:   time.Now().UTC(),
	}, nil
}

func klineToBar(k *binance.Kline) (types.Bar, error) {
	open, err := strconv.ParseFloat(k.Open, 64)
	if err != nil {
		return types.Bar{}, errors.Wrap(errors.ErrCodeMarketDataParseFailed, "unparseable open price", err)
	}

	high, err := strconv.ParseFloat(k.High, 64)
	if err != nil {
		return types.Bar{}, errors.Wrap(errors.ErrCodeMarketDataParseFailed, "unparseable high price", err)
	}

	low, err := strconv.ParseFloat(k.Low, 64)
	if err != nil {
		return types.Bar{}, errors.Wrap(errors.ErrCodeMarketDataParseFailed, "unparseable low price", err)
	}

	closePrice, err := strconv.ParseFloat(k.Close, 64)
	if err != nil {
		return types.Bar{}, errors.Wrap(errors.ErrCodeMarketDataParseFailed, "unparseable close price", err)
	}

	volume, err := strconv.ParseFloat(k.Volume, 64)
	if err != nil {
		return types.Bar{}, errors.Wrap(errors.ErrCodeMarketDataParseFailed, "unparseable volume", err)
	}

	return types.Bar{
		Time:   time.UnixMilli(k.OpenTime).UTC(),
		Open:   open,
		High:   high,
		Low:    low,
		Close:  closePrice,
		Volume: volume,
	}, nil
}

// normalizeInterval lowercases everything except the monthly interval,
// which Binance spells "1M".
func normalizeInterval(interval string) string {
	if interval == "1M" {
		return interval
	}

	return strings.ToLower(interval)
}
