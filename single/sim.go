// Package single implements the single-position strategy preset: one
// shared position bought in equal slices when the close breaks above the
// moving average and dumped entirely when it falls below. Its +1%/-2%
// bands are preset-local and independent of the grid preset's
// thresholds.
package single

import (
	"fmt"
	"time"

	"github.com/soxlab/gridsim/market"
)

// Action is the side of a trade.
type Action string

const (
	Buy  Action = "BUY"
	Sell Action = "SELL"
)

// Config parameterizes one run.
type Config struct {
	InitialCapital float64
	// Slices is how many equal buy tranches the capital is split into.
	Slices int

	// BuyBand: buy one slice when the close sits at least this fraction
	// above the moving average. SellBand: sell the whole position when
	// it sits at least this fraction below.
	BuyBand  float64
	SellBand float64

	// From/To bound the window by bar date (inclusive); zero values
	// leave that side unbounded.
	From time.Time
	To   time.Time
}

// DefaultConfig is the preset with its stock tuning.
func DefaultConfig() Config {
	return Config{
		InitialCapital: 20000,
		Slices:         20,
		BuyBand:        0.01,
		SellBand:       0.02,
	}
}

// Trade is one executed buy or sell at the day's close.
type Trade struct {
	Date          time.Time
	Action        Action
	Price         float64
	Shares        float64
	Amount        float64
	CashRemaining float64
	TotalShares   float64
}

// PortfolioPoint is the mark-to-market value of cash plus position for
// one bar.
type PortfolioPoint struct {
	Date  time.Time
	Value float64
}

// Result is the output of a completed run.
type Result struct {
	Trades    []Trade
	Portfolio []PortfolioPoint

	FinalCash   float64
	FinalShares float64
	FinalValue  float64
}

// Simulator drives one run. Like the grid driver it is single-use and
// strictly sequential.
type Simulator struct {
	cfg Config

	cash         float64
	totalShares  float64
	cashPerTrade float64
	done         bool
}

// NewSimulator validates cfg, applying the preset bands where zero.
func NewSimulator(cfg Config) (*Simulator, error) {
	if cfg.InitialCapital <= 0 {
		return nil, fmt.Errorf("single: initial capital must be positive, got %v", cfg.InitialCapital)
	}
	if cfg.Slices <= 0 {
		return nil, fmt.Errorf("single: slices must be positive, got %d", cfg.Slices)
	}
	if cfg.BuyBand == 0 {
		cfg.BuyBand = 0.01
	}
	if cfg.SellBand == 0 {
		cfg.SellBand = 0.02
	}
	if cfg.BuyBand < 0 || cfg.SellBand < 0 {
		return nil, fmt.Errorf("single: bands must be positive, got buy=%v sell=%v", cfg.BuyBand, cfg.SellBand)
	}

	return &Simulator{
		cfg:          cfg,
		cash:         cfg.InitialCapital,
		cashPerTrade: cfg.InitialCapital / float64(cfg.Slices),
	}, nil
}

// Run executes the strategy over the configured window. Bars without a
// defined moving average generate no signal but are still marked to
// market. A buy signal one day suppresses another buy signal the next
// day (and likewise for sells); the day after, the signal may fire
// again.
func (s *Simulator) Run(series *market.Series) (*Result, error) {
	if s.done {
		return nil, fmt.Errorf("single: run already complete")
	}

	lo, hi := series.Window(s.cfg.From, s.cfg.To)
	if lo >= hi {
		return nil, fmt.Errorf("single: window contains no bars")
	}

	res := &Result{}
	prevSignal := 0

	for i := lo; i < hi; i++ {
		bar := series.Bars[i]

		signal := 0
		if bar.HasMA60() {
			ratio := (bar.Close - bar.MA60) / bar.MA60
			switch {
			case ratio >= s.cfg.BuyBand && prevSignal != 1:
				signal = 1
			case ratio <= -s.cfg.SellBand && prevSignal != -1:
				signal = -1
			}
		}

		switch {
		case signal == 1 && s.cash >= s.cashPerTrade:
			shares := s.cashPerTrade / bar.Close
			s.totalShares += shares
			s.cash -= s.cashPerTrade
			res.Trades = append(res.Trades, Trade{
				Date:          bar.Date,
				Action:        Buy,
				Price:         bar.Close,
				Shares:        shares,
				Amount:        s.cashPerTrade,
				CashRemaining: s.cash,
				TotalShares:   s.totalShares,
			})

		case signal == -1 && s.totalShares > 0:
			amount := s.totalShares * bar.Close
			shares := s.totalShares
			s.cash += amount
			s.totalShares = 0
			res.Trades = append(res.Trades, Trade{
				Date:          bar.Date,
				Action:        Sell,
				Price:         bar.Close,
				Shares:        shares,
				Amount:        amount,
				CashRemaining: s.cash,
				TotalShares:   0,
			})
		}

		res.Portfolio = append(res.Portfolio, PortfolioPoint{
			Date:  bar.Date,
			Value: s.cash + s.totalShares*bar.Close,
		})

		prevSignal = signal
	}

	s.done = true
	res.FinalCash = s.cash
	res.FinalShares = s.totalShares
	if n := len(res.Portfolio); n > 0 {
		res.FinalValue = res.Portfolio[n-1].Value
	}
	return res, nil
}
