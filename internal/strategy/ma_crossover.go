package strategy

import (
	"fmt"

	"github.com/papertrade-lab/stratler/internal/indicator"
	"github.com/papertrade-lab/stratler/internal/types"
	"github.com/papertrade-lab/stratler/pkg/errors"
)

// MAType selects the moving average flavor used by the crossover.
type MAType string

const (
	MATypeSMA MAType = "SMA"
	MATypeEMA MAType = "EMA"
)

// MovingAverageCrossoverParams configures the crossover strategy.
type MovingAverageCrossoverParams struct {
	ShortWindow int    `validate:"required,min=1"`
	LongWindow  int    `validate:"required,min=1,gtfield=ShortWindow"`
	MAType      MAType `validate:"required,oneof=SMA EMA"`
}

// MovingAverageCrossover emits +1 while the short MA is strictly above
// the long MA and -1 while strictly below. The crossover marker fires
// only on the bar where the level jumps by exactly +/-2, i.e. the short
// MA actually crossed the long MA; a sustained state never re-fires.
type MovingAverageCrossover struct {
	params MovingAverageCrossoverParams
}

// NewMovingAverageCrossover creates the crossover strategy after
// validating its parameters.
func NewMovingAverageCrossover(params MovingAverageCrossoverParams) (*MovingAverageCrossover, error) {
	if err := validate.Struct(params); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidParameter, "invalid crossover parameters", err)
	}

	return &MovingAverageCrossover{params: params}, nil
}

// Name implements Strategy.
func (s *MovingAverageCrossover) Name() string {
	return fmt.Sprintf("%s_CROSSOVER_%d_%d", s.params.MAType, s.params.ShortWindow, s.params.LongWindow)
}

// Parameters implements Strategy.
func (s *MovingAverageCrossover) Parameters() map[string]any {
	return map[string]any{
		"short_window": s.params.ShortWindow,
		"long_window":  s.params.LongWindow,
		"ma_type":      string(s.params.MAType),
	}
}

// GenerateSignals implements Strategy.
func (s *MovingAverageCrossover) GenerateSignals(bars []types.Bar) ([]types.AnnotatedBar, error) {
	if err := types.ValidateBars(bars); err != nil {
		return nil, err
	}

	close := closes(bars)

	var shortMA, longMA []float64

	if s.params.MAType == MATypeSMA {
		shortMA = indicator.SMA(close, s.params.ShortWindow)
		longMA = indicator.SMA(close, s.params.LongWindow)
	} else {
		shortMA = indicator.EMA(close, s.params.ShortWindow)
		longMA = indicator.EMA(close, s.params.LongWindow)
	}

	annotated := make([]types.AnnotatedBar, len(bars))
	prevSignal := 0

	for i, bar := range bars {
		signal := 0

		if indicator.Defined(shortMA[i]) && indicator.Defined(longMA[i]) {
			switch {
			case shortMA[i] > longMA[i]:
				signal = 1
			case shortMA[i] < longMA[i]:
				signal = -1
			}
		}

		crossover := 0

		switch signal - prevSignal {
		case 2:
			crossover = 1
		case -2:
			crossover = -1
		}

		annotated[i] = types.AnnotatedBar{
			Bar:       bar,
			Signal:    signal,
			Crossover: crossover,
			Indicators: map[string]float64{
				"short_ma": shortMA[i],
				"long_ma":  longMA[i],
			},
		}

		prevSignal = signal
	}

	return annotated, nil
}

// SignalsSummary implements Strategy.
func (s *MovingAverageCrossover) SignalsSummary(bars []types.Bar) ([]types.SignalEvent, error) {
	annotated, err := s.GenerateSignals(bars)
	if err != nil {
		return nil, err
	}

	events := []types.SignalEvent{}

	for _, row := range annotated {
		if row.Crossover == 0 {
			continue
		}

		reason := "Short MA crossed above long MA"
		if row.Crossover == -1 {
			reason = "Short MA crossed below long MA"
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
