package market

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/soxlab/gridsim/indicators"
)

// Series is a chronologically ascending sequence of daily bars.
type Series struct {
	Bars []Bar
}

// NewSeries copies bars and sorts them into ascending date order.
// Duplicate dates keep first occurrence.
func NewSeries(bars []Bar) *Series {
	out := make([]Bar, len(bars))
	copy(out, bars)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})

	dedup := out[:0]
	var prev time.Time
	for i, b := range out {
		if i > 0 && b.Date.Equal(prev) {
			continue
		}
		dedup = append(dedup, b)
		prev = b.Date
	}

	return &Series{Bars: dedup}
}

func (s *Series) Len() int { return len(s.Bars) }

// AttachMA60 computes the trailing simple moving average of the close
// in-place. Bars before the warmup is complete get MA60 = NaN.
func (s *Series) AttachMA60(period int) error {
	if period <= 0 {
		return fmt.Errorf("ma period must be positive, got %d", period)
	}

	ma := indicators.NewMA(period)
	for i := range s.Bars {
		ma.Update(s.Bars[i].Close)
		if ma.Ready() {
			s.Bars[i].MA60 = ma.Value()
		} else {
			s.Bars[i].MA60 = math.NaN()
		}
	}
	return nil
}

// Window returns the half-open index range [lo, hi) of bars whose date
// falls within [from, to]. A zero from or to leaves that side unbounded.
func (s *Series) Window(from, to time.Time) (lo, hi int) {
	lo = 0
	if !from.IsZero() {
		lo = sort.Search(len(s.Bars), func(i int) bool {
			return !s.Bars[i].Date.Before(from)
		})
	}
	hi = len(s.Bars)
	if !to.IsZero() {
		hi = sort.Search(len(s.Bars), func(i int) bool {
			return s.Bars[i].Date.After(to)
		})
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

// PrevClose returns the close of the bar preceding index i, if any.
func (s *Series) PrevClose(i int) (float64, bool) {
	if i <= 0 || i > len(s.Bars) {
		return 0, false
	}
	return s.Bars[i-1].Close, true
}
