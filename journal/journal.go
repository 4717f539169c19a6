// Package journal persists simulation output: the trade ledger, the
// daily valuation sequence, and per-run metadata.
package journal

import (
	"time"

	"github.com/soxlab/gridsim/grid"
)

// Journal receives ledger entries and daily valuations as the driver
// produces them. Both sequences are append-only.
type Journal interface {
	RecordTrade(grid.Trade) error
	RecordDaily(grid.DailyResult) error
	Close() error
}

// RunRow mirrors the runs table.
type RunRow struct {
	RunID   string
	Created time.Time
	Dataset string
	Preset  string

	InitialCapital float64
	Accounts       int

	Start time.Time
	End   time.Time

	FinalValue float64
	ReturnPct  float64
	Trades     int
}
