// Package commission implements proportional trade fees.
package commission

// Commission calculates the fee charged on a trade amount in account
// currency.
type Commission interface {
	Calculate(amount float64) float64
}

// RateCommission charges a fixed proportional rate on the trade amount.
type RateCommission struct {
	rate float64
}

// NewRateCommission creates a proportional commission, e.g. 0.001 for
// 0.1% per trade.
func NewRateCommission(rate float64) Commission {
	return &RateCommission{rate: rate}
}

// Calculate implements Commission.
func (c *RateCommission) Calculate(amount float64) float64 {
	return amount * c.rate
}

// ZeroCommission charges nothing. Used for frictionless simulations.
type ZeroCommission struct{}

// NewZeroCommission creates a zero commission.
func NewZeroCommission() Commission {
	return &ZeroCommission{}
}

// Calculate implements Commission.
func (c *ZeroCommission) Calculate(amount float64) float64 {
	return 0
}
