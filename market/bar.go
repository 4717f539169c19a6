package market

import (
	"math"
	"time"
)

// Bar is one daily OHLC record for a single instrument.
//
// MA60 is the trailing simple moving average of the close. It is NaN
// until enough prior closes exist; callers must check HasMA60 before
// making trading decisions off it.
type Bar struct {
	Date      time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
	ChangePct float64
	MA60      float64
}

// HasMA60 reports whether the moving average is defined for this bar.
func (b Bar) HasMA60() bool {
	return !math.IsNaN(b.MA60)
}
