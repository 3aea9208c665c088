package types

// Account is the persisted state of one paper-trading portfolio, keyed
// by strategy name. Created lazily with the configured starting cash on
// first reference; mutated only through trade execution.
type Account struct {
	StrategyName string `json:"strategy" yaml:"strategy"`
	// Cash is the current balance. Never negative after a successful
	// operation.
	Cash float64 `json:"cash" yaml:"cash"`
	// Positions maps symbol to held quantity. Quantities are never
	// negative; a symbol is removed once its quantity reaches zero.
	Positions     map[string]float64 `json:"positions" yaml:"positions"`
	TotalPnL      float64            `json:"total_pnl" yaml:"total_pnl"`
	TotalTrades   int                `json:"total_trades" yaml:"total_trades"`
	WinningTrades int                `json:"winning_trades" yaml:"winning_trades"`
	LosingTrades  int                `json:"losing_trades" yaml:"losing_trades"`
}

// WinRate returns winning trades over total trades as a percentage,
// 0 when no trades have been executed.
func (a *Account) WinRate() float64 {
	if a.TotalTrades == 0 {
		return 0
	}

	return float64(a.WinningTrades) / float64(a.TotalTrades) * 100
}

// PortfolioSummary is the caller-facing view of an account, with equity
// and pnl computed against live prices.
type PortfolioSummary struct {
	StrategyName    string             `json:"strategy"`
	Cash            float64            `json:"cash"`
	Equity          float64            `json:"equity"`
	InitialCapital  float64            `json:"initial_capital"`
	TotalPnL        float64            `json:"total_pnl"`
	TotalPnLPercent float64            `json:"total_pnl_percent"`
	Positions       map[string]float64 `json:"positions"`
	TotalTrades     int                `json:"total_trades"`
	WinningTrades   int                `json:"winning_trades"`
	LosingTrades    int                `json:"losing_trades"`
	WinRate         float64            `json:"win_rate"`
}
