package journal

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/soxlab/gridsim/grid"
)

const dateLayout = "2006-01-02"

// CSVJournal writes the trade ledger and daily results to two CSV files
// as records arrive.
type CSVJournal struct {
	trades *csv.Writer
	daily  *csv.Writer
	tf, df *os.File
}

func NewCSV(tradesPath, dailyPath string) (*CSVJournal, error) {
	tf, err := os.Create(tradesPath)
	if err != nil {
		return nil, err
	}
	df, err := os.Create(dailyPath)
	if err != nil {
		tf.Close()
		return nil, err
	}

	tw := csv.NewWriter(tf)
	dw := csv.NewWriter(df)

	if err := tw.Write([]string{"date", "account", "action", "price", "shares", "amount"}); err != nil {
		return nil, err
	}
	if err := dw.Write([]string{"date", "close_price", "total_value", "filled_accounts", "empty_accounts", "total_return_pct"}); err != nil {
		return nil, err
	}

	tw.Flush()
	if err := tw.Error(); err != nil {
		return nil, err
	}
	dw.Flush()
	if err := dw.Error(); err != nil {
		return nil, err
	}

	return &CSVJournal{trades: tw, daily: dw, tf: tf, df: df}, nil
}

func (j *CSVJournal) RecordTrade(t grid.Trade) error {
	if err := j.trades.Write([]string{
		t.Date.Format(dateLayout),
		strconv.Itoa(t.Account),
		string(t.Action),
		f(t.Price),
		f(t.Shares),
		f(t.Amount),
	}); err != nil {
		return err
	}
	j.trades.Flush()
	return j.trades.Error()
}

func (j *CSVJournal) RecordDaily(d grid.DailyResult) error {
	if err := j.daily.Write([]string{
		d.Date.Format(dateLayout),
		f(d.ClosePrice),
		f(d.TotalValue),
		strconv.Itoa(d.FilledAccounts),
		strconv.Itoa(d.EmptyAccounts),
		f(d.TotalReturnPct),
	}); err != nil {
		return err
	}
	j.daily.Flush()
	return j.daily.Error()
}

func (j *CSVJournal) Close() error {
	j.trades.Flush()
	if err := j.trades.Error(); err != nil {
		return err
	}
	j.daily.Flush()
	if err := j.daily.Error(); err != nil {
		return err
	}

	if err := j.tf.Close(); err != nil {
		return err
	}
	return j.df.Close()
}

// WriteAccountsCSV dumps the final per-account snapshot, each account
// valued at the last close.
func WriteAccountsCSV(path string, accounts []grid.Account, lastClose float64) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()

	w := csv.NewWriter(out)
	defer w.Flush()

	if err := w.Write([]string{"account", "status", "cash", "shares", "avg_price", "current_value"}); err != nil {
		return err
	}

	for _, a := range accounts {
		value := a.Cash + a.Shares*lastClose
		if err := w.Write([]string{
			strconv.Itoa(a.ID),
			string(a.Status()),
			f(a.Cash),
			f(a.Shares),
			f(a.AvgPrice),
			f(value),
		}); err != nil {
			return err
		}
	}
	return w.Error()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
