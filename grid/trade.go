package grid

import "time"

// Action is the side of a ledger entry.
type Action string

const (
	Buy  Action = "BUY"
	Sell Action = "SELL"
)

// Trade is one append-only ledger entry. For buys Amount is the cash
// committed; for sells it is the proceeds.
type Trade struct {
	Date    time.Time
	Account int
	Action  Action
	Price   float64
	Shares  float64
	Amount  float64
}

// DailyResult marks the whole pool to the day's close: filled accounts
// at shares * close, empty accounts at their cash.
type DailyResult struct {
	Date           time.Time
	ClosePrice     float64
	TotalValue     float64
	FilledAccounts int
	EmptyAccounts  int
	TotalReturnPct float64
}

// Valuation computes the DailyResult for the pool's current state. It is
// read-only: calling it twice without an intervening mutation yields
// identical results.
func (p *Pool) Valuation(date time.Time, closePrice, initialCapital float64) DailyResult {
	total := 0.0
	filled := 0
	for i := range p.accounts {
		if p.accounts[i].Status() == Filled {
			total += p.accounts[i].Shares * closePrice
			filled++
		} else {
			total += p.accounts[i].Cash
		}
	}

	return DailyResult{
		Date:           date,
		ClosePrice:     closePrice,
		TotalValue:     total,
		FilledAccounts: filled,
		EmptyAccounts:  len(p.accounts) - filled,
		TotalReturnPct: (total - initialCapital) / initialCapital * 100,
	}
}
