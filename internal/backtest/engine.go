// Package backtest replays a signal-annotated bar sequence against a
// simulated single-instrument account and derives performance metrics.
package backtest

import (
	"github.com/moznion/go-optional"
	"github.com/papertrade-lab/stratler/internal/backtest/commission"
	"github.com/papertrade-lab/stratler/internal/logger"
	"github.com/papertrade-lab/stratler/internal/strategy"
	"github.com/papertrade-lab/stratler/internal/types"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// backtestSymbol is the synthetic instrument every run trades. The
// simulator supports exactly one instrument per run.
const backtestSymbol = "STOCK"

// allocationFraction is the share of current cash committed on each
// entry.
const allocationFraction = 0.9

// OnBarCallback reports replay progress: the number of processed bars
// and the total.
type OnBarCallback func(current, total int)

// Engine replays bars in strict timestamp order. Each step depends on
// the cash/position state of the previous one, so a run is strictly
// sequential; independent runs are safe to execute in parallel.
type Engine struct {
	strategy       strategy.Strategy
	initialCapital float64
	commission     commission.Commission
	log            *logger.Logger
}

// NewEngine creates a backtest engine for one strategy and capital
// configuration.
func NewEngine(s strategy.Strategy, initialCapital float64, comm commission.Commission, log *logger.Logger) *Engine {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Engine{
		strategy:       s,
		initialCapital: initialCapital,
		commission:     comm,
		log:            log,
	}
}

// Run replays the bar sequence and returns the full result. An empty
// sequence is defined behavior: empty trade log and equity curve, all
// metrics zero. The result is fully reproducible from the same
// (bars, strategy, capital, commission) tuple.
func (e *Engine) Run(bars []types.Bar, onBar optional.Option[OnBarCallback]) (types.BacktestResult, error) {
	if len(bars) == 0 {
		return types.BacktestResult{
			StrategyName:        e.strategy.Name(),
			InitialCapital:      e.initialCapital,
			FinalPortfolioValue: e.initialCapital,
			Trades:              []types.Trade{},
			EquityCurve:         []types.EquityPoint{},
		}, nil
	}

	annotated, err := e.strategy.GenerateSignals(bars)
	if err != nil {
		return types.BacktestResult{}, err
	}

	cash := e.initialCapital

	var positionQty float64

	trades := []types.Trade{}
	equityCurve := make([]types.EquityPoint, 0, len(annotated))

	for i, row := range annotated {
		price := row.Close

		switch {
		case row.Crossover == 1 && positionQty == 0:
			if trade, ok := e.enterLong(row, cash); ok {
				cash = trade.CashAfter
				positionQty = trade.Quantity
				trades = append(trades, trade)
			}
		case row.Crossover == -1 && positionQty > 0:
			trade := e.exitLong(row, cash, positionQty, trades)
			cash = trade.CashAfter
			positionQty = 0
			trades = append(trades, trade)
		}

		value := cash + positionQty*price
		equityCurve = append(equityCurve, types.EquityPoint{
			Timestamp:      row.Time,
			PortfolioValue: value,
			Cash:           cash,
			ReturnPercent:  (value - e.initialCapital) / e.initialCapital * 100,
		})

		if onBar.IsSome() {
			onBar.Unwrap()(i+1, len(annotated))
		}
	}

	finalValue := equityCurve[len(equityCurve)-1].PortfolioValue
	metrics := calculateMetrics(trades, equityCurve, e.initialCapital, finalValue)

	result := types.BacktestResult{
		StrategyName:        e.strategy.Name(),
		InitialCapital:      e.initialCapital,
		FinalPortfolioValue: finalValue,
		TotalReturn:         metrics.TotalReturn,
		TotalReturnPercent:  metrics.TotalReturnPercent,
		Trades:              trades,
		TotalTrades:         len(trades),
		WinningTrades:       metrics.WinningTrades,
		LosingTrades:        metrics.LosingTrades,
		WinRate:             metrics.WinRate,
		MaxDrawdown:         metrics.MaxDrawdown,
		SharpeRatio:         metrics.SharpeRatio,
		EquityCurve:         equityCurve,
		Metrics:             metrics,
	}

	if positionQty > 0 {
		result.OpenPosition = optional.Some(types.OpenPosition{
			Quantity:   positionQty,
			EntryPrice: lastBuyPrice(trades, backtestSymbol),
		})
	}

	e.log.Debug("Backtest run complete",
		zap.String("strategy", e.strategy.Name()),
		zap.Int("bars", len(bars)),
		zap.Int("trades", len(trades)),
		zap.Float64("final_value", finalValue),
	)

	return result, nil
}

// enterLong invests a fixed fraction of current cash at the bar's close.
// Returns false when the resulting quantity would not be positive.
func (e *Engine) enterLong(row types.AnnotatedBar, cash float64) (types.Trade, bool) {
	investment := cash * allocationFraction
	fee := e.commission.Calculate(investment)

	quantity := (investment - fee) / row.Close
	if quantity <= 0 {
		return types.Trade{}, false
	}

	totalCost := row.Close*quantity + fee
	if cash < totalCost {
		return types.Trade{}, false
	}

	return types.Trade{
		Timestamp:    row.Time,
		Symbol:       backtestSymbol,
		StrategyName: e.strategy.Name(),
		Side:         types.SideBuy,
		Quantity:     quantity,
		Price:        row.Close,
		Commission:   fee,
		Total:        totalCost,
		CashAfter:    cash - totalCost,
		PnL:          0,
	}, true
}

// exitLong liquidates the entire position at the bar's close. PnL is
// computed against the most recent BUY in the trade log.
func (e *Engine) exitLong(row types.AnnotatedBar, cash, quantity float64, trades []types.Trade) types.Trade {
	proceeds := row.Close * quantity
	fee := e.commission.Calculate(proceeds)
	netProceeds := proceeds - fee

	entryPrice := lastBuyPrice(trades, backtestSymbol)
	if entryPrice == 0 {
		entryPrice = row.Close
	}

	// (sellPrice - entryPrice) * quantity - fee
	pnlDec := decimal.NewFromFloat(row.Close).
		Sub(decimal.NewFromFloat(entryPrice)).
		Mul(decimal.NewFromFloat(quantity)).
		Sub(decimal.NewFromFloat(fee))
	pnl, _ := pnlDec.Float64()

	return types.Trade{
		Timestamp:    row.Time,
		Symbol:       backtestSymbol,
		StrategyName: e.strategy.Name(),
		Side:         types.SideSell,
		Quantity:     quantity,
		Price:        row.Close,
		Commission:   fee,
		Total:        netProceeds,
		CashAfter:    cash + netProceeds,
		PnL:          pnl,
	}
}

// lastBuyPrice finds the price of the most recent BUY trade for a
// symbol, 0 when none exists.
func lastBuyPrice(trades []types.Trade, symbol string) float64 {
	for i := len(trades) - 1; i >= 0; i-- {
		if trades[i].Symbol == symbol && trades[i].Side == types.SideBuy {
			return trades[i].Price
		}
	}

	return 0
}
