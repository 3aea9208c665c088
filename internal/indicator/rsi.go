package indicator

import "math"

// RSI calculates the Relative Strength Index: 100 - 100/(1+RS) where RS
// is the trailing mean of gains over the trailing mean of losses, both
// over `period` price deltas. The first `period` values are NaN since
// the delta at index 0 is undefined.
//
// When the loss average is zero the quotient is guarded: RSI saturates
// at 100, or stays NaN when the gain average is also zero (a flat
// window has no momentum to measure).
func RSI(values []float64, period int) []float64 {
	result := make([]float64, len(values))
	for i := range result {
		result[i] = math.NaN()
	}

	if len(values) < period+1 {
		return result
	}

	gains := make([]float64, len(values))
	losses := make([]float64, len(values))

	for i := 1; i < len(values); i++ {
		change := values[i] - values[i-1]
		if change > 0 {
			gains[i] = change
		} else {
			losses[i] = -change
		}
	}

	var gainSum, lossSum float64

	for i := 1; i < len(values); i++ {
		gainSum += gains[i]
		lossSum += losses[i]

		if i > period {
			gainSum -= gains[i-period]
			lossSum -= losses[i-period]
		}

		if i < period {
			continue
		}

		avgGain := gainSum / float64(period)
		avgLoss := lossSum / float64(period)

		switch {
		case avgLoss == 0 && avgGain == 0:
			// flat window, leave NaN
		case avgLoss == 0:
			result[i] = 100
		default:
			rs := avgGain / avgLoss
			result[i] = 100 - 100/(1+rs)
		}
	}

	return result
}
