// Package grid implements a rule-based multi-account grid trading
// simulation over daily bars. Capital is split into N equal slices, one
// per sub-account; accounts fill at staggered prices on buy days and are
// liquidated individually when their cost basis diverges far enough from
// the day's open.
package grid

import "fmt"

// Status of a sub-account, derived from its holdings: an empty account
// holds cash and no shares, a filled account holds shares and no cash.
// There are no partial fills.
type Status string

const (
	Empty  Status = "empty"
	Filled Status = "filled"
)

// Account is one equal slice of the pool's capital.
//
// TargetPrice and StopLossPrice are reference levels recorded at fill
// time for reporting; the sell decision is threshold-driven and never
// reads them.
type Account struct {
	ID       int
	Cash     float64
	Shares   float64
	AvgPrice float64

	TargetPrice   float64
	StopLossPrice float64
}

// Reference rates attached to an account at fill time.
const (
	targetProfitRate = 0.05
	stopLossRate     = 0.03
)

// Status derives the account state from its holdings.
func (a *Account) Status() Status {
	if a.Shares > 0 {
		return Filled
	}
	return Empty
}

// fill converts the account's cash into shares at price. All fields
// mutate together so the cash/shares invariant holds at every return.
// Returns the cash amount committed.
func (a *Account) fill(price float64) float64 {
	amount := a.Cash
	a.Shares = a.Cash / price
	a.AvgPrice = price
	a.Cash = 0
	a.TargetPrice = price * (1 + targetProfitRate)
	a.StopLossPrice = price * (1 - stopLossRate)
	return amount
}

// liquidate converts the account's shares back into cash at price.
// Returns the proceeds.
func (a *Account) liquidate(price float64) float64 {
	amount := a.Shares * price
	a.Cash = amount
	a.Shares = 0
	a.AvgPrice = 0
	a.TargetPrice = 0
	a.StopLossPrice = 0
	return amount
}

// Pool owns a fixed set of sub-accounts for the duration of one run.
// Accounts are created once and never destroyed; ids are 0..N-1 in
// insertion order.
type Pool struct {
	accounts     []Account
	cashPerTrade float64
}

// NewPool splits initialCapital into n equally funded empty accounts.
func NewPool(initialCapital float64, n int) (*Pool, error) {
	if initialCapital <= 0 {
		return nil, fmt.Errorf("initial capital must be positive, got %v", initialCapital)
	}
	if n <= 0 {
		return nil, fmt.Errorf("account count must be positive, got %d", n)
	}

	per := initialCapital / float64(n)
	p := &Pool{
		accounts:     make([]Account, n),
		cashPerTrade: per,
	}
	for i := range p.accounts {
		p.accounts[i] = Account{ID: i, Cash: per}
	}
	return p, nil
}

func (p *Pool) Size() int             { return len(p.accounts) }
func (p *Pool) CashPerTrade() float64 { return p.cashPerTrade }

// EmptyIDs returns the ids of all empty accounts in ascending order.
func (p *Pool) EmptyIDs() []int {
	var ids []int
	for i := range p.accounts {
		if p.accounts[i].Status() == Empty {
			ids = append(ids, i)
		}
	}
	return ids
}

// FilledIDs returns the ids of all filled accounts in ascending order.
func (p *Pool) FilledIDs() []int {
	var ids []int
	for i := range p.accounts {
		if p.accounts[i].Status() == Filled {
			ids = append(ids, i)
		}
	}
	return ids
}

// Snapshot returns a copy of every account.
func (p *Pool) Snapshot() []Account {
	out := make([]Account, len(p.accounts))
	copy(out, p.accounts)
	return out
}
