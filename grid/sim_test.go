package grid

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/soxlab/gridsim/market"
)

func day(n int) time.Time {
	return time.Date(2024, 1, n, 0, 0, 0, 0, time.UTC)
}

func newTestSim(t *testing.T, cfg RunConfig) *Simulator {
	t.Helper()

	s, err := NewSimulator(cfg)
	assert.NoError(t, err)
	return s
}

func TestNewSimulatorDefaultsAndValidation(t *testing.T) {
	t.Parallel()

	s := newTestSim(t, RunConfig{InitialCapital: 10_000, Accounts: 20})
	assert.Equal(t, DefaultThresholds, s.cfg.Thresholds)
	assert.Equal(t, StateInitialized, s.State())

	_, err := NewSimulator(RunConfig{InitialCapital: 0, Accounts: 20})
	assert.Error(t, err)

	_, err = NewSimulator(RunConfig{
		InitialCapital: 10_000,
		Accounts:       20,
		Thresholds:     Thresholds{BuyBand: -1, SellUp: 0.09, SellDown: 0.06},
	})
	assert.Error(t, err)
}

func TestRunNoTriggerDay(t *testing.T) {
	t.Parallel()

	// Up trend, previous close inside the buy band: nothing happens,
	// but the day is still valued.
	series := market.NewSeries([]market.Bar{
		{Date: day(2), Open: 31.00, Close: 31.00, MA60: 33.00},
	})

	s := newTestSim(t, RunConfig{
		InitialCapital: 10_000,
		Accounts:       20,
		SeedPrevClose:  31.40,
	})

	res, err := s.Run(series)
	assert.NoError(t, err)
	assert.Equal(t, StateComplete, s.State())

	assert.Empty(t, res.Trades)
	assert.Len(t, res.Daily, 1)
	assert.InDelta(t, 10_000.0, res.Daily[0].TotalValue, 1e-6)
	assert.Equal(t, 0, res.Daily[0].FilledAccounts)
	assert.Equal(t, 20, res.Daily[0].EmptyAccounts)
	assert.InDelta(t, 10_000.0, res.FinalValue, 1e-6)
}

func TestRunBuyBurstFillsEveryEmptyAccount(t *testing.T) {
	t.Parallel()

	// Previous close 5%+ above the average: burst fires, 20 staggered
	// fills at base open*1.02 minus step per slot.
	series := market.NewSeries([]market.Bar{
		{Date: day(2), Open: 36.50, Close: 37.00, MA60: 33.00},
	})

	s := newTestSim(t, RunConfig{
		InitialCapital: 10_000,
		Accounts:       20,
		SeedPrevClose:  36.00,
	})

	res, err := s.Run(series)
	assert.NoError(t, err)
	assert.Len(t, res.Trades, 20)

	base := 36.50 * 1.02 // 37.23
	step := 0.4          // round(36.00*0.01, 1)
	totalCommitted := 0.0

	for i, tr := range res.Trades {
		assert.Equal(t, Buy, tr.Action)
		assert.Equal(t, i, tr.Account)
		assert.InDelta(t, base-step*float64(i), tr.Price, 1e-9)
		assert.InDelta(t, 500.0, tr.Amount, 1e-9)
		assert.InDelta(t, 500.0/tr.Price, tr.Shares, 1e-9)
		totalCommitted += tr.Amount
	}
	assert.InDelta(t, 10_000.0, totalCommitted, 1e-6)

	assert.Len(t, res.Daily, 1)
	assert.Equal(t, 20, res.Daily[0].FilledAccounts)
	assert.Equal(t, 0, res.Daily[0].EmptyAccounts)

	// Every account holds shares and no cash.
	for _, a := range res.Accounts {
		assert.Equal(t, Filled, a.Status())
		assert.Zero(t, a.Cash)
		assert.Greater(t, a.Shares, 0.0)
	}
}

func TestRunSellSweepNeedsCushion(t *testing.T) {
	t.Parallel()

	// Day 1 fills at prices up to 37.23; day 2 opens at 40 in an up
	// trend. The 9% cushion requires avg > 43.60, so nothing sells.
	series := market.NewSeries([]market.Bar{
		{Date: day(2), Open: 36.50, Close: 37.00, MA60: 33.00},
		{Date: day(3), Open: 40.00, Close: 40.00, MA60: 41.00},
	})

	s := newTestSim(t, RunConfig{
		InitialCapital: 10_000,
		Accounts:       20,
		SeedPrevClose:  36.00,
	})

	res, err := s.Run(series)
	assert.NoError(t, err)

	sells := 0
	for _, tr := range res.Trades {
		if tr.Action == Sell {
			sells++
		}
	}
	assert.Equal(t, 0, sells)
	assert.Len(t, res.Trades, 20)
	assert.Equal(t, 20, res.Daily[1].FilledAccounts)
}

func TestRunSellSweepLiquidatesAndRecycles(t *testing.T) {
	t.Parallel()

	// Day 1: burst fills all 20. Day 2: low open in an up trend, every
	// cost basis clears the 9% cushion and sells at open*0.99. Day 3:
	// the emptied accounts refill on a fresh trigger.
	series := market.NewSeries([]market.Bar{
		{Date: day(2), Open: 36.50, Close: 36.00, MA60: 33.00},
		{Date: day(3), Open: 20.00, Close: 22.00, MA60: 37.00},
		{Date: day(4), Open: 22.00, Close: 22.50, MA60: 20.00},
	})

	s := newTestSim(t, RunConfig{
		InitialCapital: 10_000,
		Accounts:       20,
		SeedPrevClose:  36.00,
	})

	res, err := s.Run(series)
	assert.NoError(t, err)

	var buys, sells int
	for _, tr := range res.Trades {
		switch tr.Action {
		case Buy:
			buys++
		case Sell:
			sells++
			assert.InDelta(t, 20.00*0.99, tr.Price, 1e-9)
		}
	}
	assert.Equal(t, 40, buys)
	assert.Equal(t, 20, sells)

	assert.Equal(t, 20, res.Daily[0].FilledAccounts)
	assert.Equal(t, 0, res.Daily[1].FilledAccounts)
	assert.Equal(t, 20, res.Daily[2].FilledAccounts)

	// Ledger is date-ordered and never books a BUY against a filled
	// account or a SELL against an empty one.
	filled := make(map[int]bool)
	var prev time.Time
	for _, tr := range res.Trades {
		assert.False(t, tr.Date.Before(prev))
		prev = tr.Date

		switch tr.Action {
		case Buy:
			assert.False(t, filled[tr.Account], "BUY on filled account %d", tr.Account)
			filled[tr.Account] = true
		case Sell:
			assert.True(t, filled[tr.Account], "SELL on empty account %d", tr.Account)
			filled[tr.Account] = false
		}
	}
}

func TestRunSkipsDecisionsWithoutMovingAverage(t *testing.T) {
	t.Parallel()

	// Would trigger a burst if the average were defined. It is not, so
	// the day passes untraded but still valued.
	series := market.NewSeries([]market.Bar{
		{Date: day(2), Open: 36.50, Close: 37.00, MA60: math.NaN()},
		{Date: day(3), Open: 36.50, Close: 37.00, MA60: 33.00},
	})

	s := newTestSim(t, RunConfig{
		InitialCapital: 10_000,
		Accounts:       20,
		SeedPrevClose:  36.00,
	})

	res, err := s.Run(series)
	assert.NoError(t, err)

	assert.Len(t, res.Daily, 2)
	assert.InDelta(t, 10_000.0, res.Daily[0].TotalValue, 1e-6)
	assert.Equal(t, 0, res.Daily[0].FilledAccounts)

	// Day 2 triggers off day 1's close.
	assert.Len(t, res.Trades, 20)
	for _, tr := range res.Trades {
		assert.Equal(t, day(3), tr.Date)
	}
}

func TestRunRequiresSeedAtSeriesHead(t *testing.T) {
	t.Parallel()

	series := market.NewSeries([]market.Bar{
		{Date: day(2), Open: 36.50, Close: 37.00, MA60: 33.00},
	})

	s := newTestSim(t, RunConfig{InitialCapital: 10_000, Accounts: 20})
	_, err := s.Run(series)
	assert.ErrorIs(t, err, ErrInsufficientSeed)
}

func TestRunUsesPriorBarInsteadOfSeed(t *testing.T) {
	t.Parallel()

	// The window starts at day 3; day 2's close supplies prevClose, no
	// seed needed.
	series := market.NewSeries([]market.Bar{
		{Date: day(2), Open: 35.00, Close: 36.00, MA60: 33.00},
		{Date: day(3), Open: 36.50, Close: 37.00, MA60: 33.00},
	})

	s := newTestSim(t, RunConfig{
		InitialCapital: 10_000,
		Accounts:       20,
		From:           day(3),
	})

	res, err := s.Run(series)
	assert.NoError(t, err)
	assert.Len(t, res.Trades, 20)
	assert.Equal(t, day(3), res.Start)
	assert.Equal(t, day(3), res.End)
}

func TestRunIsSingleUse(t *testing.T) {
	t.Parallel()

	series := market.NewSeries([]market.Bar{
		{Date: day(2), Open: 31.00, Close: 31.00, MA60: 33.00},
	})

	s := newTestSim(t, RunConfig{
		InitialCapital: 10_000,
		Accounts:       20,
		SeedPrevClose:  31.40,
	})

	_, err := s.Run(series)
	assert.NoError(t, err)

	_, err = s.Run(series)
	assert.Error(t, err)
}

func TestRunEmptyWindow(t *testing.T) {
	t.Parallel()

	series := market.NewSeries([]market.Bar{
		{Date: day(2), Open: 31.00, Close: 31.00, MA60: 33.00},
	})

	s := newTestSim(t, RunConfig{
		InitialCapital: 10_000,
		Accounts:       20,
		From:           day(10),
	})

	_, err := s.Run(series)
	assert.Error(t, err)
}

func TestValuationIsReadOnly(t *testing.T) {
	t.Parallel()

	p, err := NewPool(10_000, 4)
	assert.NoError(t, err)
	p.accounts[1].fill(25.0)
	p.accounts[3].fill(30.0)

	first := p.Valuation(day(5), 28.0, 10_000)
	second := p.Valuation(day(5), 28.0, 10_000)
	assert.Equal(t, first, second)

	// Marked value equals cash of empty accounts plus shares at close.
	want := 2500.0 + 2500.0 + (2500.0/25.0)*28.0 + (2500.0/30.0)*28.0
	assert.InDelta(t, want, first.TotalValue, 1e-6)
	assert.Equal(t, 2, first.FilledAccounts)
	assert.Equal(t, 2, first.EmptyAccounts)
	assert.InDelta(t, (want-10_000)/10_000*100, first.TotalReturnPct, 1e-9)
}

func TestBuyBurstSkipsNonPositivePrices(t *testing.T) {
	t.Parallel()

	// A penny stock with a giant seed close yields a step so large the
	// price ladder goes negative partway down; those slots stay empty.
	series := market.NewSeries([]market.Bar{
		{Date: day(2), Open: 1.00, Close: 1.00, MA60: 30.00},
	})

	s := newTestSim(t, RunConfig{
		InitialCapital: 10_000,
		Accounts:       20,
		SeedPrevClose:  50.00, // step 0.5; down trend, 50 > 30*1.05 triggers
	})

	res, err := s.Run(series)
	assert.NoError(t, err)

	// base = 1.02; prices 1.02, 0.52, 0.02, then -0.48 and below.
	assert.Len(t, res.Trades, 3)
	for i, tr := range res.Trades {
		assert.Equal(t, i, tr.Account)
		assert.Greater(t, tr.Price, 0.0)
	}

	assert.Equal(t, 3, res.Daily[0].FilledAccounts)
	assert.Equal(t, 17, res.Daily[0].EmptyAccounts)
}
