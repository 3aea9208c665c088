package indicator

// EMA calculates the Exponential Moving Average with smoothing factor
// alpha = 2/(period+1). The series is seeded with the first raw value,
// so it is defined from index 0 with no warm-up window.
func EMA(values []float64, period int) []float64 {
	result := make([]float64, len(values))
	if len(values) == 0 {
		return result
	}

	alpha := 2.0 / (float64(period) + 1.0)

	result[0] = values[0]
	for i := 1; i < len(values); i++ {
		result[i] = alpha*values[i] + (1-alpha)*result[i-1]
	}

	return result
}
