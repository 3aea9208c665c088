package backtest

import (
	"math"

	"github.com/papertrade-lab/stratler/internal/types"
)

// annualizationFactor scales per-bar Sharpe to an annual figure
// assuming daily bars.
var annualizationFactor = math.Sqrt(252)

// calculateMetrics derives the summary statistics for a finished run.
// Win/loss counts consider closing (SELL) trades only; a BUY carries no
// realized pnl.
func calculateMetrics(trades []types.Trade, equityCurve []types.EquityPoint, initialCapital, finalValue float64) types.Metrics {
	m := types.Metrics{
		TotalReturn:        finalValue - initialCapital,
		TotalReturnPercent: (finalValue - initialCapital) / initialCapital * 100,
	}

	var (
		closing   int
		grossWin  float64
		grossLoss float64
		totalPnL  float64
	)

	for _, t := range trades {
		if t.Side != types.SideSell {
			continue
		}

		closing++
		totalPnL += t.PnL

		switch {
		case t.PnL > 0:
			m.WinningTrades++
			grossWin += t.PnL
		case t.PnL < 0:
			m.LosingTrades++
			grossLoss += -t.PnL
		}
	}

	if closing > 0 {
		m.WinRate = float64(m.WinningTrades) / float64(closing) * 100
		m.AvgTradePnL = totalPnL / float64(closing)
	}

	if m.WinningTrades > 0 {
		m.AvgWin = grossWin / float64(m.WinningTrades)
	}

	if m.LosingTrades > 0 {
		m.AvgLoss = -grossLoss / float64(m.LosingTrades)
	}

	// A run with no losing trades still yields a finite factor.
	lossDenominator := 1.0
	if m.LosingTrades > 0 {
		lossDenominator = grossLoss
	}

	m.ProfitFactor = grossWin / lossDenominator

	m.SharpeRatio = sharpeRatio(equityCurve)
	m.MaxDrawdown = maxDrawdown(equityCurve)

	return m
}

// sharpeRatio computes the annualized Sharpe ratio of per-bar simple
// returns. Fewer than two equity points, or zero return variance,
// yields 0.
func sharpeRatio(equityCurve []types.EquityPoint) float64 {
	if len(equityCurve) < 2 {
		return 0
	}

	returns := make([]float64, 0, len(equityCurve)-1)

	for i := 1; i < len(equityCurve); i++ {
		prev := equityCurve[i-1].PortfolioValue
		if prev == 0 {
			continue
		}

		returns = append(returns, (equityCurve[i].PortfolioValue-prev)/prev)
	}

	if len(returns) < 2 {
		return 0
	}

	var sum float64
	for _, r := range returns {
		sum += r
	}

	mean := sum / float64(len(returns))

	var sq float64
	for _, r := range returns {
		d := r - mean
		sq += d * d
	}

	// Sample standard deviation.
	std := math.Sqrt(sq / float64(len(returns)-1))
	if std == 0 {
		return 0
	}

	return mean / std * annualizationFactor
}

// maxDrawdown returns the largest peak-to-trough decline as a negative
// percentage, 0 when the curve never declines.
func maxDrawdown(equityCurve []types.EquityPoint) float64 {
	if len(equityCurve) == 0 {
		return 0
	}

	peak := equityCurve[0].PortfolioValue
	worst := 0.0

	for _, p := range equityCurve {
		if p.PortfolioValue > peak {
			peak = p.PortfolioValue
		}

		if peak == 0 {
			continue
		}

		dd := (p.PortfolioValue - peak) / peak * 100
		if dd < worst {
			worst = dd
		}
	}

	return worst
}
