package indicator

import "math"

// ATR calculates the Average True Range as an SMA of the true range:
// max(high-low, |high-prevClose|, |low-prevClose|). The first bar has no
// previous close, so its true range is just high-low. The first period-1
// values are NaN.
func ATR(high, low, close []float64, period int) []float64 {
	trueRange := make([]float64, len(close))

	for i := range close {
		if i == 0 {
			trueRange[i] = high[i] - low[i]
			continue
		}

		prevClose := close[i-1]
		trueRange[i] = math.Max(high[i]-low[i],
			math.Max(math.Abs(high[i]-prevClose), math.Abs(low[i]-prevClose)))
	}

	return SMA(trueRange, period)
}
