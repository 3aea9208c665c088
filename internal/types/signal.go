package types

import "time"

// Direction is the discrete trade decision carried by a signal event.
type Direction string

const (
	DirectionBuy  Direction = "BUY"
	DirectionSell Direction = "SELL"
	DirectionHold Direction = "HOLD"
)

// AnnotatedBar is a bar plus the strategy outputs for that bar. Signal is
// the sustained level in {-1, 0, 1}; Crossover is the edge-triggered
// event marker, non-zero only on the bar where the level transitions.
// Indicators carries the strategy-specific indicator columns; warm-up
// values are NaN.
type AnnotatedBar struct {
	Bar
	Signal     int                `json:"signal"`
	Crossover  int                `json:"crossover"`
	Indicators map[string]float64 `json:"indicators"`
}

// SignalEvent is a row of the signals summary: one entry per bar whose
// event marker fired, with a human-readable reason. Events are derived,
// never persisted; the same bars and parameters always reproduce them.
type SignalEvent struct {
	Timestamp  time.Time          `json:"timestamp"`
	Direction  Direction          `json:"signal"`
	Price      float64            `json:"price"`
	Indicators map[string]float64 `json:"indicators"`
	Reason     string             `json:"reason"`
}
