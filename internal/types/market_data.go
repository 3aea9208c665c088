package types

import (
	"math"
	"time"

	"github.com/papertrade-lab/stratler/pkg/errors"
)

// Bar is a single OHLCV record. Bars are immutable once produced by the
// market data layer and are ordered by timestamp with no duplicates.
type Bar struct {
	Time   time.Time `csv:"time" json:"timestamp" yaml:"timestamp"`
	Open   float64   `csv:"open" json:"open" yaml:"open"`
	High   float64   `csv:"high" json:"high" yaml:"high"`
	Low    float64   `csv:"low" json:"low" yaml:"low"`
	Close  float64   `csv:"close" json:"close" yaml:"close"`
	Volume float64   `csv:"volume" json:"volume" yaml:"volume"`
}

// Validate checks the bar against the input contract: a parseable
// timestamp, finite non-NaN prices and a non-negative volume.
func (b Bar) Validate() error {
	if b.Time.IsZero() {
		return errors.New(errors.ErrCodeInvalidData, "bar has no timestamp")
	}

	for _, v := range []float64{b.Open, b.High, b.Low, b.Close} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.Newf(errors.ErrCodeInvalidData, "bar at %s has non-finite price", b.Time)
		}
	}

	if math.IsNaN(b.Volume) || b.Volume < 0 {
		return errors.Newf(errors.ErrCodeInvalidData, "bar at %s has negative volume", b.Time)
	}

	return nil
}

// ValidateBars validates a whole sequence. An empty sequence is reported
// as a NoData error so callers can distinguish it from malformed input.
func ValidateBars(bars []Bar) error {
	if len(bars) == 0 {
		return errors.New(errors.ErrCodeNoData, "empty bar sequence")
	}

	for _, bar := range bars {
		if err := bar.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// Quote is a single live price observation for a symbol.
type Quote struct {
	Symbol string    `json:"symbol"`
	Price  float64   `json:"price"`
	Time   time.Time `json:"timestamp"`
}
