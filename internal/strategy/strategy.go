// Package strategy implements the trading strategies: a closed set of
// variants behind a single interface. Each variant annotates a bar
// sequence with a sustained signal level in {-1, 0, 1} and an
// edge-triggered event marker that fires only on the bar where the
// level transitions.
package strategy

import (
	"github.com/go-playground/validator/v10"
	"github.com/papertrade-lab/stratler/internal/types"
)

// Strategy is the contract every variant implements. GenerateSignals is
// deterministic: the same bars and parameters always produce the same
// annotated output.
type Strategy interface {
	// Name returns the parameterized strategy name, e.g. "SMA_CROSSOVER_20_50".
	Name() string
	// Parameters returns the strategy's configuration values.
	Parameters() map[string]any
	// GenerateSignals annotates each bar with signal level, event marker
	// and the strategy's indicator values.
	GenerateSignals(bars []types.Bar) ([]types.AnnotatedBar, error)
	// SignalsSummary reduces the annotated sequence to the bars whose
	// event marker fired, each with a human-readable reason.
	SignalsSummary(bars []types.Bar) ([]types.SignalEvent, error)
}

var validate = validator.New()

// closes extracts the close price series from a bar sequence.
func closes(bars []types.Bar) []float64 {
	result := make([]float64, len(bars))
	for i, bar := range bars {
		result[i] = bar.Close
	}

	return result
}

// direction maps an event marker to a trade direction.
func direction(marker int) types.Direction {
	switch {
	case marker > 0:
		return types.DirectionBuy
	case marker < 0:
		return types.DirectionSell
	default:
		return types.DirectionHold
	}
}
