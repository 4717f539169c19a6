package grid

import (
	"errors"
	"fmt"
	"time"

	"github.com/soxlab/gridsim/market"
)

// ErrInsufficientSeed is returned when the run window starts at the head
// of the series and no seed previous close was configured. Substituting
// an arbitrary seed would change results materially, so this is surfaced
// instead of defaulted.
var ErrInsufficientSeed = errors.New("grid: no previous close before window start and no seed configured")

// State of the simulation driver.
type State int

const (
	StateInitialized State = iota
	StateRunning
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateInitialized:
		return "initialized"
	case StateRunning:
		return "running"
	case StateComplete:
		return "complete"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// RunConfig parameterizes one simulation run.
type RunConfig struct {
	InitialCapital float64
	Accounts       int
	Thresholds     Thresholds

	// From/To bound the evaluation window by bar date (inclusive).
	// Zero values leave that side unbounded.
	From time.Time
	To   time.Time

	// SeedPrevClose supplies the previous close for the window's first
	// bar when the series has no bar before it. Ignored otherwise.
	// Zero or negative means "not configured".
	SeedPrevClose float64
}

// Result is the output contract of a completed run.
type Result struct {
	Trades   []Trade
	Daily    []DailyResult
	Accounts []Account

	Start, End time.Time
	FinalValue float64
}

// Simulator drives one run over a bar series. It owns its pool
// exclusively; it is single-use and strictly sequential, since each
// day's outcome depends on the pool state left by the previous day.
// Parameter sweeps should construct one Simulator per run.
type Simulator struct {
	cfg   RunConfig
	pool  *Pool
	state State

	trades []Trade
	daily  []DailyResult
}

// NewSimulator validates cfg and builds the account pool.
func NewSimulator(cfg RunConfig) (*Simulator, error) {
	if cfg.Thresholds.BuyBand == 0 {
		cfg.Thresholds.BuyBand = DefaultThresholds.BuyBand
	}
	if cfg.Thresholds.SellUp == 0 {
		cfg.Thresholds.SellUp = DefaultThresholds.SellUp
	}
	if cfg.Thresholds.SellDown == 0 {
		cfg.Thresholds.SellDown = DefaultThresholds.SellDown
	}
	if cfg.Thresholds.BuyBand < 0 || cfg.Thresholds.SellUp < 0 || cfg.Thresholds.SellDown < 0 {
		return nil, fmt.Errorf("grid: thresholds must be positive, got %+v", cfg.Thresholds)
	}

	pool, err := NewPool(cfg.InitialCapital, cfg.Accounts)
	if err != nil {
		return nil, fmt.Errorf("grid: %w", err)
	}

	return &Simulator{
		cfg:   cfg,
		pool:  pool,
		state: StateInitialized,
	}, nil
}

// State reports the driver state.
func (s *Simulator) State() State { return s.state }

// Run folds the configured window of the series through the strategy,
// one bar per day in chronological order, and returns the final ledger,
// daily valuations, and account snapshot.
//
// Per bar, in order: skip decisions if the moving average is undefined;
// evaluate the signal; run the buy burst if triggered; always run the
// sell sweep (accounts filled earlier the same day are eligible); record
// the day's valuation. Valuation is recorded even on skipped days.
func (s *Simulator) Run(series *market.Series) (*Result, error) {
	if s.state != StateInitialized {
		return nil, fmt.Errorf("grid: run already %s", s.state)
	}

	lo, hi := series.Window(s.cfg.From, s.cfg.To)
	if lo >= hi {
		return nil, fmt.Errorf("grid: window contains no bars")
	}

	prevClose, ok := series.PrevClose(lo)
	if !ok {
		if s.cfg.SeedPrevClose <= 0 {
			return nil, ErrInsufficientSeed
		}
		prevClose = s.cfg.SeedPrevClose
	}

	s.state = StateRunning
	for i := lo; i < hi; i++ {
		bar := series.Bars[i]
		s.processBar(bar, prevClose)
		prevClose = bar.Close
	}
	s.state = StateComplete

	res := &Result{
		Trades:   s.trades,
		Daily:    s.daily,
		Accounts: s.pool.Snapshot(),
		Start:    series.Bars[lo].Date,
		End:      series.Bars[hi-1].Date,
	}
	if n := len(s.daily); n > 0 {
		res.FinalValue = s.daily[n-1].TotalValue
	}
	return res, nil
}

func (s *Simulator) processBar(bar market.Bar, prevClose float64) {
	if bar.HasMA60() {
		sig := Evaluate(prevClose, bar.MA60, s.cfg.Thresholds)

		if sig.BuyTriggered {
			s.buyBurst(bar.Date, bar.Open, sig.Step)
		}
		// The sweep runs every day, buy or not, and sees accounts
		// filled by the same day's burst.
		s.sellSweep(bar.Date, bar.Open, sig.SellThreshold)
	}

	s.daily = append(s.daily, s.pool.Valuation(bar.Date, bar.Close, s.cfg.InitialCapital))
}

// buyBurst assigns staggered entry prices across every currently empty
// account in one pass: the i-th empty account is offered
// open*1.02 - step*i and fills only if that price is positive.
func (s *Simulator) buyBurst(date time.Time, open, step float64) {
	base := open * 1.02

	for i, id := range s.pool.EmptyIDs() {
		price := base - step*float64(i)
		if price <= 0 {
			// Non-positive fill price: refuse this account, keep going.
			continue
		}

		acct := &s.pool.accounts[id]
		amount := acct.fill(price)
		s.trades = append(s.trades, Trade{
			Date:    date,
			Account: id,
			Action:  Buy,
			Price:   price,
			Shares:  acct.Shares,
			Amount:  amount,
		})
	}
}

// sellSweep liquidates, at open*0.99, every filled account whose cost
// basis exceeds the day's open by the threshold rate.
func (s *Simulator) sellSweep(date time.Time, open, threshold float64) {
	sellPrice := open * 0.99

	for _, id := range s.pool.FilledIDs() {
		acct := &s.pool.accounts[id]
		if acct.AvgPrice <= open*(1+threshold) {
			continue
		}

		shares := acct.Shares
		amount := acct.liquidate(sellPrice)
		s.trades = append(s.trades, Trade{
			Date:    date,
			Account: id,
			Action:  Sell,
			Price:   sellPrice,
			Shares:  shares,
			Amount:  amount,
		})
	}
}
