package grid

import "math"

// Trend describes where the moving average sits relative to the
// previous close.
type Trend string

const (
	// TrendUp means the moving average leads the previous close.
	TrendUp Trend = "up"
	// TrendDown means the previous close leads the moving average.
	TrendDown Trend = "down"
)

// Thresholds configures the signal bands for a run.
type Thresholds struct {
	// BuyBand is how far the previous close must diverge from the
	// moving average (oversold below it in an up trend, overheated
	// above it in a down trend) before a buy burst fires.
	BuyBand float64

	// SellUp and SellDown gate the sell sweep: a filled account is
	// liquidated when its cost basis exceeds the day's open by the
	// trend-appropriate rate.
	SellUp   float64
	SellDown float64
}

// DefaultThresholds is the grid preset: buy on a 5% divergence, demand a
// 9% cushion before selling in an up trend and 6% in a down trend.
var DefaultThresholds = Thresholds{
	BuyBand:  0.05,
	SellUp:   0.09,
	SellDown: 0.06,
}

// Signal is one day's trading decision derived from the previous close
// and the current moving average.
type Signal struct {
	Step          float64
	Trend         Trend
	BuyTriggered  bool
	SellThreshold float64
}

// Evaluate computes the day's signal. ma60 must be defined; the driver
// skips decision-making for bars without it.
func Evaluate(prevClose, ma60 float64, th Thresholds) Signal {
	sig := Signal{
		Step: roundToTenth(prevClose * 0.01),
	}

	if ma60 > prevClose {
		sig.Trend = TrendUp
		sig.BuyTriggered = prevClose < ma60*(1-th.BuyBand)
		sig.SellThreshold = th.SellUp
	} else {
		sig.Trend = TrendDown
		sig.BuyTriggered = prevClose > ma60*(1+th.BuyBand)
		sig.SellThreshold = th.SellDown
	}
	return sig
}

func roundToTenth(x float64) float64 {
	return math.Round(x*10) / 10
}
