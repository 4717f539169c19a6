package journal

import (
	"database/sql"
	"fmt"

	"github.com/soxlab/gridsim/grid"
)

// GetRun returns the metadata row for a run id.
func (j *SQLite) GetRun(runID string) (RunRow, error) {
	var r RunRow

	row := j.db.QueryRow(`
		SELECT run_id, created, dataset, preset, initial_capital, accounts, start_date, end_date, final_value, return_pct, trades
		FROM runs
		WHERE run_id = ?`, runID)

	err := row.Scan(
		&r.RunID,
		&r.Created,
		&r.Dataset,
		&r.Preset,
		&r.InitialCapital,
		&r.Accounts,
		&r.Start,
		&r.End,
		&r.FinalValue,
		&r.ReturnPct,
		&r.Trades,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return RunRow{}, fmt.Errorf("run %q not found", runID)
		}
		return RunRow{}, err
	}
	return r, nil
}

// ListTrades returns a run's ledger in chronological order.
func (j *SQLite) ListTrades(runID string) ([]grid.Trade, error) {
	rows, err := j.db.Query(`
		SELECT date, account, action, price, shares, amount
		FROM trades
		WHERE run_id = ?
		ORDER BY date ASC, account ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []grid.Trade
	for rows.Next() {
		var t grid.Trade
		var action string
		if err := rows.Scan(
			&t.Date,
			&t.Account,
			&action,
			&t.Price,
			&t.Shares,
			&t.Amount,
		); err != nil {
			return nil, err
		}
		t.Action = grid.Action(action)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListDaily returns a run's daily valuations in chronological order.
func (j *SQLite) ListDaily(runID string) ([]grid.DailyResult, error) {
	rows, err := j.db.Query(`
		SELECT date, close_price, total_value, filled_accounts, empty_accounts, total_return_pct
		FROM daily
		WHERE run_id = ?
		ORDER BY date ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []grid.DailyResult
	for rows.Next() {
		var d grid.DailyResult
		if err := rows.Scan(
			&d.Date,
			&d.ClosePrice,
			&d.TotalValue,
			&d.FilledAccounts,
			&d.EmptyAccounts,
			&d.TotalReturnPct,
		); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
