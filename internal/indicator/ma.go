package indicator

// SMA calculates the Simple Moving Average over a trailing window of
// the given period. The first period-1 values are NaN.
func SMA(values []float64, period int) []float64 {
	return rollingMean(values, period)
}
