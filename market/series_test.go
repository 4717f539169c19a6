package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func d(n int) time.Time {
	return time.Date(2024, 2, n, 0, 0, 0, 0, time.UTC)
}

func TestNewSeriesSortsAndDedups(t *testing.T) {
	t.Parallel()

	s := NewSeries([]Bar{
		{Date: d(3), Close: 3},
		{Date: d(1), Close: 1},
		{Date: d(3), Close: 99}, // duplicate date, first occurrence wins
		{Date: d(2), Close: 2},
	})

	assert.Equal(t, 3, s.Len())
	assert.Equal(t, d(1), s.Bars[0].Date)
	assert.Equal(t, d(2), s.Bars[1].Date)
	assert.Equal(t, d(3), s.Bars[2].Date)
	assert.InDelta(t, 3.0, s.Bars[2].Close, 1e-9)
}

func TestWindow(t *testing.T) {
	t.Parallel()

	s := NewSeries([]Bar{
		{Date: d(1)}, {Date: d(2)}, {Date: d(3)}, {Date: d(4)}, {Date: d(5)},
	})

	lo, hi := s.Window(time.Time{}, time.Time{})
	assert.Equal(t, 0, lo)
	assert.Equal(t, 5, hi)

	lo, hi = s.Window(d(2), d(4))
	assert.Equal(t, 1, lo)
	assert.Equal(t, 4, hi)

	// Bounds between bar dates snap inward.
	lo, hi = s.Window(d(2).Add(time.Hour), time.Time{})
	assert.Equal(t, 2, lo)
	assert.Equal(t, 5, hi)

	// Window past the end is empty.
	lo, hi = s.Window(d(9), time.Time{})
	assert.Equal(t, lo, hi)

	// Inverted bounds collapse rather than cross.
	lo, hi = s.Window(d(4), d(2))
	assert.GreaterOrEqual(t, hi, lo)
}

func TestPrevClose(t *testing.T) {
	t.Parallel()

	s := NewSeries([]Bar{
		{Date: d(1), Close: 10},
		{Date: d(2), Close: 20},
	})

	_, ok := s.PrevClose(0)
	assert.False(t, ok)

	v, ok := s.PrevClose(1)
	assert.True(t, ok)
	assert.InDelta(t, 10.0, v, 1e-9)
}

func TestAttachMA60(t *testing.T) {
	t.Parallel()

	bars := make([]Bar, 5)
	for i := range bars {
		bars[i] = Bar{Date: d(i + 1), Close: float64(i + 1)}
	}
	s := NewSeries(bars)

	assert.NoError(t, s.AttachMA60(3))

	// Warmup bars have no average.
	assert.False(t, s.Bars[0].HasMA60())
	assert.False(t, s.Bars[1].HasMA60())

	assert.True(t, s.Bars[2].HasMA60())
	assert.InDelta(t, 2.0, s.Bars[2].MA60, 1e-9) // (1+2+3)/3
	assert.InDelta(t, 3.0, s.Bars[3].MA60, 1e-9) // (2+3+4)/3
	assert.InDelta(t, 4.0, s.Bars[4].MA60, 1e-9) // (3+4+5)/3

	assert.Error(t, s.AttachMA60(0))
}
