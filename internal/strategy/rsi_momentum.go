package strategy

import (
	"fmt"

	"github.com/papertrade-lab/stratler/internal/indicator"
	"github.com/papertrade-lab/stratler/internal/types"
	"github.com/papertrade-lab/stratler/pkg/errors"
)

// RSIMomentumParams configures the RSI strategy.
type RSIMomentumParams struct {
	Period     int     `validate:"required,min=1"`
	Oversold   float64 `validate:"required,gt=0"`
	Overbought float64 `validate:"required,gtfield=Oversold,lt=100"`
}

// RSIMomentum emits +1 while RSI is below the oversold threshold and -1
// while above the overbought threshold. The entry marker is
// edge-triggered: it fires only on the bar where the level differs from
// the previous bar's level, never while RSI stays past a threshold.
type RSIMomentum struct {
	params RSIMomentumParams
}

// NewRSIMomentum creates the RSI strategy after validating its parameters.
func NewRSIMomentum(params RSIMomentumParams) (*RSIMomentum, error) {
	if err := validate.Struct(params); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidParameter, "invalid RSI parameters", err)
	}

	return &RSIMomentum{params: params}, nil
}

// Name implements Strategy.
func (s *RSIMomentum) Name() string {
	return fmt.Sprintf("RSI_%d_%.0f_%.0f", s.params.Period, s.params.Oversold, s.params.Overbought)
}

// Parameters implements Strategy.
func (s *RSIMomentum) Parameters() map[string]any {
	return map[string]any{
		"period":     s.params.Period,
		"oversold":   s.params.Oversold,
		"overbought": s.params.Overbought,
	}
}

// GenerateSignals implements Strategy.
func (s *RSIMomentum) GenerateSignals(bars []types.Bar) ([]types.AnnotatedBar, error) {
	if err := types.ValidateBars(bars); err != nil {
		return nil, err
	}

	rsi := indicator.RSI(closes(bars), s.params.Period)

	annotated := make([]types.AnnotatedBar, len(bars))
	prevSignal := 0

	for i, bar := range bars {
		signal := 0

		if indicator.Defined(rsi[i]) {
			switch {
			case rsi[i] < s.params.Oversold:
				signal = 1
			case rsi[i] > s.params.Overbought:
				signal = -1
			}
		}

		crossover := 0
		if signal != 0 && signal != prevSignal {
			crossover = signal
		}

		annotated[i] = types.AnnotatedBar{
			Bar:       bar,
			Signal:    signal,
			Crossover: crossover,
			Indicators: map[string]float64{
				"rsi": rsi[i],
			},
		}

		prevSignal = signal
	}

	return annotated, nil
}

// SignalsSummary implements Strategy.
func (s *RSIMomentum) SignalsSummary(bars []types.Bar) ([]types.SignalEvent, error) {
	annotated, err := s.GenerateSignals(bars)
	if err != nil {
		return nil, err
	}

	events := []types.SignalEvent{}

	for _, row := range annotated {
		if row.Crossover == 0 {
			continue
		}

		reason := "RSI crossed oversold level"
		if row.Crossover == -1 {
			reason = "RSI crossed overbought level"
		}

		events = append(events, types.SignalEvent{
			Timestamp:  row.Time,
			Direction:  direction(row.Crossover),
			Price:      row.Close,
			Indicators: row.Indicators,
			Reason:     reason,
		})
	}

	return events, nil
}
