package types

import (
	"fmt"
	"os"
	"time"

	"github.com/moznion/go-optional"
	"gopkg.in/yaml.v3"
)

// EquityPoint is one entry of the equity curve. The simulator appends
// exactly one per processed bar.
type EquityPoint struct {
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	// PortfolioValue is cash plus the mark-to-market value of the held
	// position at that bar's close.
	PortfolioValue float64 `json:"portfolio_value" yaml:"portfolio_value"`
	Cash           float64 `json:"cash" yaml:"cash"`
	// ReturnPercent is the percent return versus initial capital.
	ReturnPercent float64 `json:"returns" yaml:"returns"`
}

// OpenPosition describes a position still held when a backtest run ends.
type OpenPosition struct {
	Quantity   float64 `json:"quantity" yaml:"quantity"`
	EntryPrice float64 `json:"entry_price" yaml:"entry_price"`
}

// Metrics is the summary performance bundle of a backtest run.
type Metrics struct {
	TotalReturn        float64 `json:"total_return" yaml:"total_return"`
	TotalReturnPercent float64 `json:"total_return_percent" yaml:"total_return_percent"`
	WinningTrades      int     `json:"winning_trades" yaml:"winning_trades"`
	LosingTrades       int     `json:"losing_trades" yaml:"losing_trades"`
	WinRate            float64 `json:"win_rate" yaml:"win_rate"`
	// SharpeRatio is mean over stddev of equity-curve percent changes,
	// annualized by sqrt(252). Zero when fewer than 2 points or zero
	// variance.
	SharpeRatio float64 `json:"sharpe_ratio" yaml:"sharpe_ratio"`
	// MaxDrawdown is the largest decline from a running equity peak,
	// expressed as a negative percent.
	MaxDrawdown float64 `json:"max_drawdown" yaml:"max_drawdown"`
	AvgTradePnL float64 `json:"avg_trade_pnl" yaml:"avg_trade_pnl"`
	AvgWin      float64 `json:"avg_win" yaml:"avg_win"`
	AvgLoss     float64 `json:"avg_loss" yaml:"avg_loss"`
	// ProfitFactor is total wins over absolute total losses. The loss
	// denominator is floored at 1 when there are no losing trades, so a
	// lossless run reports its total wins here.
	ProfitFactor float64 `json:"profit_factor" yaml:"profit_factor"`
}

// BacktestResult is the full output of one simulator run. Every field is
// reproducible from the same (bars, strategy, capital, commission) tuple.
type BacktestResult struct {
	StrategyName        string        `json:"strategy" yaml:"strategy"`
	InitialCapital      float64       `json:"initial_capital" yaml:"initial_capital"`
	FinalPortfolioValue float64       `json:"final_portfolio_value" yaml:"final_portfolio_value"`
	TotalReturn         float64       `json:"total_return" yaml:"total_return"`
	TotalReturnPercent  float64       `json:"total_return_percent" yaml:"total_return_percent"`
	Trades              []Trade       `json:"trades" yaml:"trades"`
	TotalTrades         int           `json:"total_trades" yaml:"total_trades"`
	WinningTrades       int           `json:"winning_trades" yaml:"winning_trades"`
	LosingTrades        int           `json:"losing_trades" yaml:"losing_trades"`
	WinRate             float64       `json:"win_rate" yaml:"win_rate"`
	MaxDrawdown         float64       `json:"max_drawdown" yaml:"max_drawdown"`
	SharpeRatio         float64       `json:"sharpe_ratio" yaml:"sharpe_ratio"`
	EquityCurve         []EquityPoint `json:"equity_curve" yaml:"equity_curve"`
	Metrics             Metrics       `json:"metrics" yaml:"metrics"`
	// OpenPosition is set when the run ended while still long.
	OpenPosition optional.Option[OpenPosition] `json:"open_position,omitempty" yaml:"open_position,omitempty"`
}

// WriteBacktestResult marshals a result to YAML at the given path.
func WriteBacktestResult(path string, result BacktestResult) error {
	data, err := yaml.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal backtest result to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write backtest result to file: %w", err)
	}

	return nil
}
