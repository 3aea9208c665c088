package indicator

// MACDResult holds the MACD line, its signal line and the histogram.
type MACDResult struct {
	MACD      []float64
	Signal    []float64
	Histogram []float64
}

// MACD calculates Moving Average Convergence Divergence: EMA(fast) -
// EMA(slow), with an EMA(signalPeriod) of that difference as the signal
// line and the histogram as their difference. Because the EMAs are
// seeded with the first raw value, all three series are defined from
// index 0.
func MACD(values []float64, fast, slow, signalPeriod int) MACDResult {
	emaFast := EMA(values, fast)
	emaSlow := EMA(values, slow)

	macdLine := make([]float64, len(values))
	for i := range values {
		macdLine[i] = emaFast[i] - emaSlow[i]
	}

	signalLine := EMA(macdLine, signalPeriod)

	histogram := make([]float64, len(values))
	for i := range values {
		histogram[i] = macdLine[i] - signalLine[i]
	}

	return MACDResult{
		MACD:      macdLine,
		Signal:    signalLine,
		Histogram: histogram,
	}
}
