package strategy

import (
	"math"
	"testing"
	"time"

	"github.com/papertrade-lab/stratler/internal/types"
	"github.com/papertrade-lab/stratler/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type StrategyTestSuite struct {
	suite.Suite
}

func TestStrategySuite(t *testing.T) {
	suite.Run(t, new(StrategyTestSuite))
}

// barsFromCloses builds a bar sequence with one-day spacing where open,
// high, low and close all sit at the given close price.
func barsFromCloses(closes []float64) []types.Bar {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]types.Bar, len(closes))

	for i, c := range closes {
		bars[i] = types.Bar{
			Time:   start.AddDate(0, 0, i),
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Volume: 1000,
		}
	}

	return bars
}

func (suite *StrategyTestSuite) TestCrossoverConstantPriceNeverFires() {
	// Constant price keeps short MA == long MA: no strict comparison
	// ever holds, so no crossover fires.
	closes := make([]float64, 50)
	for i := range closes {
		closes[i] = 100
	}

	s, err := NewMovingAverageCrossover(MovingAverageCrossoverParams{
		ShortWindow: 5,
		LongWindow:  20,
		MAType:      MATypeSMA,
	})
	suite.NoError(err)

	annotated, err := s.GenerateSignals(barsFromCloses(closes))
	suite.NoError(err)
	suite.Len(annotated, 50)

	for i, row := range annotated {
		suite.Equal(0, row.Signal, "bar %d", i)
		suite.Equal(0, row.Crossover, "bar %d", i)
	}
}

func (suite *StrategyTestSuite) TestCrossoverEdgeTriggerLaw() {
	// Down trend then up trend: one bearish state, then one bullish
	// crossover. The marker may only fire where the level jumps by 2.
	closes := []float64{}
	for i := 0; i < 20; i++ {
		closes = append(closes, 100-float64(i))
	}

	for i := 0; i < 30; i++ {
		closes = append(closes, 81+float64(i)*2)
	}

	s, err := NewMovingAverageCrossover(MovingAverageCrossoverParams{
		ShortWindow: 3,
		LongWindow:  10,
		MAType:      MATypeSMA,
	})
	suite.NoError(err)

	annotated, err := s.GenerateSignals(barsFromCloses(closes))
	suite.NoError(err)

	prev := 0
	for i, row := range annotated {
		if row.Crossover != 0 {
			suite.Equal(row.Signal-prev, 2*row.Crossover, "bar %d fired without a +/-2 transition", i)
		}

		prev = row.Signal
	}

	// Exactly one bullish crossover on the way back up.
	bullish := 0

	for _, row := range annotated {
		if row.Crossover == 1 {
			bullish++
		}
	}

	suite.Equal(1, bullish)
}

func (suite *StrategyTestSuite) TestCrossoverDeterminism() {
	closes := []float64{10, 11, 9, 12, 8, 13, 14, 12, 15, 16, 14, 17}

	s, err := NewMovingAverageCrossover(MovingAverageCrossoverParams{
		ShortWindow: 2,
		LongWindow:  5,
		MAType:      MATypeEMA,
	})
	suite.NoError(err)

	bars := barsFromCloses(closes)

	first, err := s.GenerateSignals(bars)
	suite.NoError(err)

	second, err := s.GenerateSignals(bars)
	suite.NoError(err)

	suite.Equal(first, second)
}

func (suite *StrategyTestSuite) TestCrossoverRejectsMalformedBars() {
	bars := barsFromCloses([]float64{10, 11, 12})
	bars[1].Close = math.NaN()

	s, err := NewMovingAverageCrossover(MovingAverageCrossoverParams{
		ShortWindow: 2,
		LongWindow:  3,
		MAType:      MATypeSMA,
	})
	suite.NoError(err)

	_, err = s.GenerateSignals(bars)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidData))
}

func (suite *StrategyTestSuite) TestCrossoverEmptyBarsIsNoData() {
	s, err := NewMovingAverageCrossover(MovingAverageCrossoverParams{
		ShortWindow: 2,
		LongWindow:  3,
		MAType:      MATypeSMA,
	})
	suite.NoError(err)

	_, err = s.GenerateSignals(nil)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeNoData))
}

func (suite *StrategyTestSuite) TestRSIRiseThenFallFiresTwice() {
	// A long rise saturates RSI above the overbought threshold (one SELL
	// event), the fall drives it below oversold (one BUY event). Staying
	// past a threshold never re-fires.
	closes := []float64{}
	for i := 0; i < 25; i++ {
		closes = append(closes, 100+float64(i))
	}

	for i := 0; i < 25; i++ {
		closes = append(closes, 124-float64(i+1))
	}

	s, err := NewRSIMomentum(RSIMomentumParams{Period: 14, Oversold: 30, Overbought: 70})
	suite.NoError(err)

	events, err := s.SignalsSummary(barsFromCloses(closes))
	suite.NoError(err)

	suite.Len(events, 2)
	suite.Equal(types.DirectionSell, events[0].Direction)
	suite.Equal("RSI crossed overbought level", events[0].Reason)
	suite.Equal(types.DirectionBuy, events[1].Direction)
	suite.Equal("RSI crossed oversold level", events[1].Reason)
}

func (suite *StrategyTestSuite) TestRSISignalLevelIsSustained() {
	closes := []float64{}
	for i := 0; i < 30; i++ {
		closes = append(closes, 100+float64(i))
	}

	s, err := NewRSIMomentum(RSIMomentumParams{Period: 14, Oversold: 30, Overbought: 70})
	suite.NoError(err)

	annotated, err := s.GenerateSignals(barsFromCloses(closes))
	suite.NoError(err)

	// Level stays -1 once overbought, but only one marker fires.
	markers := 0
	for _, row := range annotated {
		if row.Crossover != 0 {
			markers++
		}
	}

	suite.Equal(1, markers)
	suite.Equal(-1, annotated[len(annotated)-1].Signal)
	suite.Equal(0, annotated[len(annotated)-1].Crossover)
}

func (suite *StrategyTestSuite) TestBollingerLowerBandTouch() {
	// Oscillate mildly so the bands stay tight, then dip hard below the
	// lower band at one known bar.
	closes := []float64{}
	for i := 0; i < 25; i++ {
		if i%2 == 0 {
			closes = append(closes, 101)
		} else {
			closes = append(closes, 99)
		}
	}

	dipIndex := len(closes)
	closes = append(closes, 90) // below the lower band
	closes = append(closes, 99) // between lower band and middle: hold
	closes = append(closes, 101)

	s, err := NewBollingerMeanReversion(BollingerMeanReversionParams{Period: 20, StdDev: 2})
	suite.NoError(err)

	annotated, err := s.GenerateSignals(barsFromCloses(closes))
	suite.NoError(err)

	for i := 0; i < dipIndex; i++ {
		suite.Equal(0, annotated[i].Crossover, "no event expected before the dip (bar %d)", i)
	}

	suite.Equal(1, annotated[dipIndex].Crossover)
	suite.Equal(1, annotated[dipIndex].Signal)

	// Held state between lower band and middle, no re-fire.
	suite.Equal(1, annotated[dipIndex+1].Signal)
	suite.Equal(0, annotated[dipIndex+1].Crossover)
}

func (suite *StrategyTestSuite) TestBollingerMiddleBandExit() {
	closes := []float64{}
	for i := 0; i < 25; i++ {
		if i%2 == 0 {
			closes = append(closes, 101)
		} else {
			closes = append(closes, 99)
		}
	}

	closes = append(closes, 90)  // entry: below lower band
	closes = append(closes, 102) // above middle: state resets to flat

	s, err := NewBollingerMeanReversion(BollingerMeanReversionParams{Period: 20, StdDev: 2})
	suite.NoError(err)

	annotated, err := s.GenerateSignals(barsFromCloses(closes))
	suite.NoError(err)

	last := annotated[len(annotated)-1]
	suite.Equal(0, last.Signal)
	suite.Equal(0, last.Crossover)
}

func (suite *StrategyTestSuite) TestBollingerSummaryReason() {
	closes := []float64{}
	for i := 0; i < 25; i++ {
		if i%2 == 0 {
			closes = append(closes, 101)
		} else {
			closes = append(closes, 99)
		}
	}

	closes = append(closes, 90)

	s, err := NewBollingerMeanReversion(BollingerMeanReversionParams{Period: 20, StdDev: 2})
	suite.NoError(err)

	events, err := s.SignalsSummary(barsFromCloses(closes))
	suite.NoError(err)

	suite.Len(events, 1)
	suite.Equal(types.DirectionBuy, events[0].Direction)
	suite.Contains(events[0].Reason, "touched lower band")
}

func (suite *StrategyTestSuite) TestAnnotatedOutputShape() {
	closes := []float64{100, 101, 102, 103, 104, 105}
	bars := barsFromCloses(closes)

	strategies := []Strategy{}

	crossover, err := NewMovingAverageCrossover(MovingAverageCrossoverParams{ShortWindow: 2, LongWindow: 3, MAType: MATypeSMA})
	suite.NoError(err)
	strategies = append(strategies, crossover)

	rsi, err := NewRSIMomentum(RSIMomentumParams{Period: 3, Oversold: 30, Overbought: 70})
	suite.NoError(err)
	strategies = append(strategies, rsi)

	bollinger, err := NewBollingerMeanReversion(BollingerMeanReversionParams{Period: 3, StdDev: 2})
	suite.NoError(err)
	strategies = append(strategies, bollinger)

	for _, s := range strategies {
		suite.Run(s.Name(), func() {
			annotated, err := s.GenerateSignals(bars)
			suite.NoError(err)
			suite.Len(annotated, len(bars))

			for i, row := range annotated {
				suite.Equal(bars[i].Time, row.Time)
				suite.Equal(bars[i].Close, row.Close)
				suite.NotEmpty(row.Indicators)
			}
		})
	}
}
