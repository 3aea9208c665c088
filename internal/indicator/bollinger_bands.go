package indicator

// BollingerBands holds the three band series. Middle is SMA(period);
// Upper and Lower are Middle +/- stdDev multiples of the trailing sample
// standard deviation over the same period.
type BollingerBands struct {
	Middle []float64
	Upper  []float64
	Lower  []float64
}

// Bollinger calculates Bollinger Bands. The band and the middle line
// share the same warm-up window; sample standard deviation (N-1) is used
// throughout.
func Bollinger(values []float64, period int, stdDev float64) BollingerBands {
	middle := SMA(values, period)
	std := rollingStd(values, period)

	upper := make([]float64, len(values))
	lower := make([]float64, len(values))

	for i := range values {
		upper[i] = middle[i] + std[i]*stdDev
		lower[i] = middle[i] - std[i]*stdDev
	}

	return BollingerBands{
		Middle: middle,
		Upper:  upper,
		Lower:  lower,
	}
}
