// Package report turns simulation output into run summaries and
// human-readable reports.
package report

import (
	"time"

	"github.com/soxlab/gridsim/grid"
	"github.com/soxlab/gridsim/single"
)

// Summary condenses one run into headline figures.
type Summary struct {
	InitialCapital float64
	FinalValue     float64
	NetPL          float64
	TotalReturnPct float64
	MaxDrawdownPct float64

	Trades int
	Buys   int
	Sells  int

	Start time.Time
	End   time.Time
}

// FromGrid summarizes a grid run.
func FromGrid(initialCapital float64, res *grid.Result) Summary {
	s := Summary{
		InitialCapital: initialCapital,
		FinalValue:     res.FinalValue,
		Start:          res.Start,
		End:            res.End,
	}

	values := make([]float64, len(res.Daily))
	for i, d := range res.Daily {
		values[i] = d.TotalValue
	}
	s.MaxDrawdownPct = maxDrawdownPct(initialCapital, values)

	for _, t := range res.Trades {
		s.Trades++
		if t.Action == grid.Buy {
			s.Buys++
		} else {
			s.Sells++
		}
	}

	s.NetPL = s.FinalValue - initialCapital
	s.TotalReturnPct = s.NetPL / initialCapital * 100
	return s
}

// FromSingle summarizes a single-position run.
func FromSingle(initialCapital float64, res *single.Result) Summary {
	s := Summary{
		InitialCapital: initialCapital,
		FinalValue:     res.FinalValue,
	}
	if n := len(res.Portfolio); n > 0 {
		s.Start = res.Portfolio[0].Date
		s.End = res.Portfolio[n-1].Date
	}

	values := make([]float64, len(res.Portfolio))
	for i, p := range res.Portfolio {
		values[i] = p.Value
	}
	s.MaxDrawdownPct = maxDrawdownPct(initialCapital, values)

	for _, t := range res.Trades {
		s.Trades++
		if t.Action == single.Buy {
			s.Buys++
		} else {
			s.Sells++
		}
	}

	s.NetPL = s.FinalValue - initialCapital
	s.TotalReturnPct = s.NetPL / initialCapital * 100
	return s
}

// maxDrawdownPct is the largest peak-to-trough decline of the value
// series, as a percentage of the running peak. The peak starts at the
// initial capital.
func maxDrawdownPct(initialCapital float64, values []float64) float64 {
	peak := initialCapital
	maxDD := 0.0
	for _, v := range values {
		if v > peak {
			peak = v
		}
		if peak <= 0 {
			continue
		}
		dd := (peak - v) / peak * 100
		if dd > maxDD {
			maxDD = dd
		}
	}
	return maxDD
}
