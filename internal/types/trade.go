package types

import "time"

// Side is the direction of an executed trade.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Trade is one executed fill, produced by the backtest simulator or the
// portfolio ledger. The trade log is append-only. PnL is 0 on a BUY and
// computed on the closing SELL.
type Trade struct {
	ID           string    `json:"id" csv:"id" yaml:"id"`
	Timestamp    time.Time `json:"timestamp" csv:"timestamp" yaml:"timestamp"`
	Symbol       string    `json:"symbol" csv:"symbol" yaml:"symbol"`
	StrategyName string    `json:"strategy" csv:"strategy" yaml:"strategy"`
	Side         Side      `json:"order_type" csv:"order_type" yaml:"order_type"`
	Quantity     float64   `json:"quantity" csv:"quantity" yaml:"quantity"`
	Price        float64   `json:"price" csv:"price" yaml:"price"`
	// Commission is the proportional fee on the trade notional.
	Commission float64 `json:"commission" csv:"commission" yaml:"commission"`
	// Total is the full cost of a BUY (including commission) or the net
	// proceeds of a SELL (after commission).
	Total     float64 `json:"total" csv:"total" yaml:"total"`
	CashAfter float64 `json:"cash_after" csv:"cash_after" yaml:"cash_after"`
	PnL       float64 `json:"pnl" csv:"pnl" yaml:"pnl"`
}
