package indicator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/suite"
)

type IndicatorTestSuite struct {
	suite.Suite
}

func TestIndicatorSuite(t *testing.T) {
	suite.Run(t, new(IndicatorTestSuite))
}

func (suite *IndicatorTestSuite) TestSMA() {
	values := []float64{1, 2, 3, 4, 5}
	result := SMA(values, 3)

	suite.Len(result, len(values))
	suite.True(math.IsNaN(result[0]))
	suite.True(math.IsNaN(result[1]))
	suite.InDelta(2.0, result[2], 1e-9)
	suite.InDelta(3.0, result[3], 1e-9)
	suite.InDelta(4.0, result[4], 1e-9)
}

func (suite *IndicatorTestSuite) TestSMADoesNotMutateInput() {
	values := []float64{10, 20, 30}
	SMA(values, 2)
	suite.Equal([]float64{10, 20, 30}, values)
}

func (suite *IndicatorTestSuite) TestEMASeededWithFirstValue() {
	values := []float64{10, 20, 30}
	result := EMA(values, 3)

	// alpha = 2/(3+1) = 0.5
	suite.InDelta(10.0, result[0], 1e-9)
	suite.InDelta(15.0, result[1], 1e-9)
	suite.InDelta(22.5, result[2], 1e-9)
}

func (suite *IndicatorTestSuite) TestEMAEmptyInput() {
	suite.Empty(EMA(nil, 5))
}

func (suite *IndicatorTestSuite) TestRSIWarmup() {
	values := []float64{1, 2, 3, 4, 5, 6}
	result := RSI(values, 3)

	suite.Len(result, len(values))
	for i := 0; i < 3; i++ {
		suite.True(math.IsNaN(result[i]), "index %d should be warm-up", i)
	}
}

func (suite *IndicatorTestSuite) TestRSISaturatesAt100OnPureGains() {
	values := []float64{1, 2, 3, 4, 5, 6}
	result := RSI(values, 3)

	suite.InDelta(100.0, result[3], 1e-9)
	suite.InDelta(100.0, result[5], 1e-9)
}

func (suite *IndicatorTestSuite) TestRSIFlatSeriesUndefined() {
	values := []float64{5, 5, 5, 5, 5, 5}
	result := RSI(values, 3)

	for i, v := range result {
		suite.True(math.IsNaN(v), "index %d should be NaN on a flat series", i)
	}
}

func (suite *IndicatorTestSuite) TestRSIBalancedMoves() {
	// Alternating +1/-1 gives avgGain == avgLoss, RS = 1, RSI = 50.
	values := []float64{10, 11, 10, 11, 10, 11}
	result := RSI(values, 4)

	suite.InDelta(50.0, result[5], 1e-9)
}

func (suite *IndicatorTestSuite) TestBollingerConstantSeries() {
	values := []float64{100, 100, 100, 100, 100}
	bands := Bollinger(values, 3, 2)

	suite.InDelta(100.0, bands.Middle[4], 1e-9)
	suite.InDelta(100.0, bands.Upper[4], 1e-9)
	suite.InDelta(100.0, bands.Lower[4], 1e-9)
	suite.True(math.IsNaN(bands.Middle[0]))
	suite.True(math.IsNaN(bands.Upper[1]))
}

func (suite *IndicatorTestSuite) TestBollingerSampleStd() {
	// Window {1, 2, 3}: mean 2, sample std 1.
	values := []float64{1, 2, 3}
	bands := Bollinger(values, 3, 2)

	suite.InDelta(2.0, bands.Middle[2], 1e-9)
	suite.InDelta(4.0, bands.Upper[2], 1e-9)
	suite.InDelta(0.0, bands.Lower[2], 1e-9)
}

func (suite *IndicatorTestSuite) TestMACDShape() {
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	result := MACD(values, 3, 6, 4)

	suite.Len(result.MACD, len(values))
	suite.Len(result.Signal, len(values))
	suite.Len(result.Histogram, len(values))

	for i := range values {
		suite.InDelta(result.MACD[i]-result.Signal[i], result.Histogram[i], 1e-9)
	}

	// Identical fast and slow periods cancel out.
	flat := MACD(values, 3, 3, 4)
	for i := range values {
		suite.InDelta(0.0, flat.MACD[i], 1e-9)
	}
}

func (suite *IndicatorTestSuite) TestATR() {
	high := []float64{12, 13, 14}
	low := []float64{10, 11, 12}
	close := []float64{11, 12, 13}

	result := ATR(high, low, close, 2)

	suite.True(math.IsNaN(result[0]))
	// TR[0] = 12-10 = 2; TR[1] = max(2, |13-11|, |11-11|) = 2;
	// TR[2] = max(2, |14-12|, |12-12|) = 2.
	suite.InDelta(2.0, result[1], 1e-9)
	suite.InDelta(2.0, result[2], 1e-9)
}

func (suite *IndicatorTestSuite) TestATRGapUp() {
	// A gap above the previous close makes |high-prevClose| the widest range.
	high := []float64{10, 20}
	low := []float64{9, 19}
	close := []float64{9.5, 19.5}

	result := ATR(high, low, close, 1)

	suite.InDelta(1.0, result[0], 1e-9)
	suite.InDelta(10.5, result[1], 1e-9)
}
