// Package indicator provides technical indicator calculations over
// ordered price series. Every function returns a series of the same
// length as its input, with math.NaN() marking the warm-up window where
// the indicator is not yet defined, and never mutates its input.
//
// Periods are assumed to be >= 1; parameter validation happens at
// strategy construction time.
package indicator

import "math"

// Defined reports whether an indicator value is past its warm-up window.
func Defined(v float64) bool {
	return !math.IsNaN(v)
}

// rollingMean computes the trailing arithmetic mean of the given window
// size. Values at indices < period-1 are NaN.
func rollingMean(values []float64, period int) []float64 {
	result := make([]float64, len(values))

	var sum float64

	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}

		if i >= period-1 {
			result[i] = sum / float64(period)
		} else {
			result[i] = math.NaN()
		}
	}

	return result
}

// rollingStd computes the trailing sample standard deviation (N-1
// denominator) of the given window size. Values at indices < period-1
// are NaN; a period of 1 has no sample variance and yields NaN.
func rollingStd(values []float64, period int) []float64 {
	result := make([]float64, len(values))

	for i := range values {
		if i < period-1 || period < 2 {
			result[i] = math.NaN()
			continue
		}

		window := values[i-period+1 : i+1]

		var mean float64
		for _, v := range window {
			mean += v
		}

		mean /= float64(period)

		var variance float64
		for _, v := range window {
			variance += (v - mean) * (v - mean)
		}

		variance /= float64(period - 1)

		result[i] = math.Sqrt(variance)
	}

	return result
}
