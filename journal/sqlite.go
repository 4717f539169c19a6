package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"

	"github.com/soxlab/gridsim/grid"
)

// SQLite journals one run into a SQLite database. Every row carries the
// run id so many runs can share one file.
type SQLite struct {
	db    *sql.DB
	runID string
}

func NewSQLite(path, runID string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db, runID: runID}, nil
}

func (j *SQLite) RunID() string { return j.runID }

func (j *SQLite) RecordTrade(t grid.Trade) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(run_id, date, account, action, price, shares, amount)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		j.runID, t.Date, t.Account, string(t.Action), t.Price, t.Shares, t.Amount,
	)
	return err
}

func (j *SQLite) RecordDaily(d grid.DailyResult) error {
	_, err := j.db.Exec(`
		INSERT INTO daily
		(run_id, date, close_price, total_value, filled_accounts, empty_accounts, total_return_pct)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		j.runID, d.Date, d.ClosePrice, d.TotalValue,
		d.FilledAccounts, d.EmptyAccounts, d.TotalReturnPct,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}

// RecordRun upserts the run's metadata row. Call it once after the run
// completes, when the summary figures are known.
func (j *SQLite) RecordRun(r RunRow) error {
	_, err := j.db.Exec(`
		INSERT OR REPLACE INTO runs
		(run_id, created, dataset, preset, initial_capital, accounts, start_date, end_date, final_value, return_pct, trades)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Created, r.Dataset, r.Preset, r.InitialCapital,
		r.Accounts, r.Start, r.End, r.FinalValue, r.ReturnPct, r.Trades,
	)
	return err
}
