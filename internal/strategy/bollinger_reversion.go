package strategy

import (
	"fmt"

	"github.com/papertrade-lab/stratler/internal/indicator"
	"github.com/papertrade-lab/stratler/internal/types"
	"github.com/papertrade-lab/stratler/pkg/errors"
)

// BollingerMeanReversionParams configures the mean reversion strategy.
type BollingerMeanReversionParams struct {
	Period int     `validate:"required,min=2"`
	StdDev float64 `validate:"required,gt=0"`
}

// BollingerMeanReversion emits +1 when the close touches or breaks the
// lower band and -1 at the upper band. A held state resets to 0 only
// once the close crosses back through the middle band; until then the
// level is carried bar to bar, so the strategy can stay non-flat
// indefinitely if price never returns to the middle. The entry marker
// is edge-triggered like the other variants.
type BollingerMeanReversion struct {
	params BollingerMeanReversionParams
}

// NewBollingerMeanReversion creates the mean reversion strategy after
// validating its parameters.
func NewBollingerMeanReversion(params BollingerMeanReversionParams) (*BollingerMeanReversion, error) {
	if err := validate.Struct(params); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidParameter, "invalid Bollinger parameters", err)
	}

	return &BollingerMeanReversion{params: params}, nil
}

// Name implements Strategy.
func (s *BollingerMeanReversion) Name() string {
	return fmt.Sprintf("BB_%d_%.0f", s.params.Period, s.params.StdDev)
}

// Parameters implements Strategy.
func (s *BollingerMeanReversion) Parameters() map[string]any {
	return map[string]any{
		"period":  s.params.Period,
		"std_dev": s.params.StdDev,
	}
}

// GenerateSignals implements Strategy.
func (s *BollingerMeanReversion) GenerateSignals(bars []types.Bar) ([]types.AnnotatedBar, error) {
	if err := types.ValidateBars(bars); err != nil {
		return nil, err
	}

	bands := indicator.Bollinger(closes(bars), s.params.Period, s.params.StdDev)

	annotated := make([]types.AnnotatedBar, len(bars))
	prevSignal := 0

	for i, bar := range bars {
		// NaN band values compare false everywhere, so the state stays
		// flat through the warm-up window.
		var signal int

		switch {
		case bar.Close <= bands.Lower[i]:
			signal = 1
		case bar.Close >= bands.Upper[i]:
			signal = -1
		case prevSignal == 1 && bar.Close >= bands.Middle[i]:
			signal = 0
		case prevSignal == -1 && bar.Close <= bands.Middle[i]:
			signal = 0
		default:
			signal = prevSignal
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
				"bb_middle": bands.Middle[i],
				"bb_upper":  bands.Upper[i],
				"bb_lower":  bands.Lower[i],
				"bb_width":  (bands.Upper[i] - bands.Lower[i]) / bands.Middle[i],
			},
		}

		prevSignal = signal
	}

	return annotated, nil
}

// SignalsSummary implements Strategy.
func (s *BollingerMeanReversion) SignalsSummary(bars []types.Bar) ([]types.SignalEvent, error) {
	annotated, err := s.GenerateSignals(bars)
	if err != nil {
		return nil, err
	}

	events := []types.SignalEvent{}

	for _, row := range annotated {
		if row.Crossover == 0 {
			continue
		}

		var reason string
		if row.Crossover == 1 {
			reason = fmt.Sprintf("Price (%.2f) touched lower band (%.2f)", row.Close, row.Indicators["bb_lower"])
		} else {
			reason = fmt.Sprintf("Price (%.2f) touched upper band (%.2f)", row.Close, row.Indicators["bb_upper"])
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
