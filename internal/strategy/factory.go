package strategy

import (
	"strings"

	"github.com/papertrade-lab/stratler/pkg/errors"
)

// Strategy names accepted by the factory.
const (
	NameMACrossover    = "MA_CROSSOVER"
	NameRSI            = "RSI"
	NameBollingerBands = "BOLLINGER_BANDS"
)

// Info describes an available strategy for listing purposes.
type Info struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// List returns the available strategies with their default parameters.
func List() []Info {
	return []Info{
		{
			Name:        NameMACrossover,
			Description: "Moving Average Crossover - Buy when short MA crosses above long MA, sell when it crosses below",
			Parameters:  map[string]any{"short_window": 20, "long_window": 50, "ma_type": "SMA"},
		},
		{
			Name:        NameRSI,
			Description: "RSI Momentum - Buy when RSI drops below oversold, sell when it rises above overbought",
			Parameters:  map[string]any{"period": 14, "oversold": 30, "overbought": 70},
		},
		{
			Name:        NameBollingerBands,
			Description: "Bollinger Bands Mean Reversion - Buy at the lower band, sell at the upper band",
			Parameters:  map[string]any{"period": 20, "std_dev": 2},
		},
	}
}

// New builds a strategy by name. Missing parameters fall back to the
// defaults of the variant; an unrecognized name is an UnknownStrategy
// error.
func New(name string, params map[string]any) (Strategy, error) {
	switch strings.ToUpper(name) {
	case NameMACrossover:
		return NewMovingAverageCrossover(MovingAverageCrossoverParams{
			ShortWindow: intParam(params, "short_window", 20),
			LongWindow:  intParam(params, "long_window", 50),
			MAType:      MAType(strings.ToUpper(stringParam(params, "ma_type", "SMA"))),
		})
	case NameRSI:
		return NewRSIMomentum(RSIMomentumParams{
			Period:     intParam(params, "period", 14),
			Oversold:   floatParam(params, "oversold", 30),
			Overbought: floatParam(params, "overbought", 70),
		})
	case NameBollingerBands:
		return NewBollingerMeanReversion(BollingerMeanReversionParams{
			Period: intParam(params, "period", 20),
			StdDev: floatParam(params, "std_dev", 2),
		})
	default:
		return nil, errors.Newf(errors.ErrCodeUnknownStrategy, "unknown strategy: %s", name)
	}
}

// intParam reads an integer parameter, accepting float64 since JSON
// payloads decode numbers that way.
func intParam(params map[string]any, key string, fallback int) int {
	if v, ok := params[key]; ok {
		switch value := v.(type) {
		case int:
			return value
		case float64:
			return int(value)
		}
	}

	return fallback
}

func floatParam(params map[string]any, key string, fallback float64) float64 {
	if v, ok := params[key]; ok {
		switch value := v.(type) {
		case float64:
			return value
		case int:
			return float64(value)
		}
	}

	return fallback
}

func stringParam(params map[string]any, key string, fallback string) string {
	if v, ok := params[key]; ok {
		if value, ok := v.(string); ok {
			return value
		}
	}

	return fallback
}
