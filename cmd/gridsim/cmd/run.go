package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/soxlab/gridsim/config"
	"github.com/soxlab/gridsim/grid"
	"github.com/soxlab/gridsim/journal"
	"github.com/soxlab/gridsim/market"
	"github.com/soxlab/gridsim/pkg/id"
	"github.com/soxlab/gridsim/report"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a grid backtest from a config file",
	Long: `Run the multi-account grid backtest using settings from a
configuration file.

The config file locates the bar data, sets the capital split and signal
bands, bounds the evaluation window and selects where results are
journaled.

Example:
  gridsim run -f examples/configs/soxl.yaml`,
	RunE: runRun,
}

var (
	runConfigPath string
	runReportPath string
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "f", "", "path to config file (YAML or JSON) (required)")
	runCmd.Flags().StringVarP(&runReportPath, "report", "r", "", "write an org-mode run report to this path")
	runCmd.MarkFlagRequired("config")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(runConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.Strategy.Preset != "grid" {
		return fmt.Errorf("config preset is %q; use `gridsim single` for the single-position preset", cfg.Strategy.Preset)
	}

	series, err := market.LoadCSV(cfg.Data.File)
	if err != nil {
		return fmt.Errorf("load data: %w", err)
	}
	if err := series.AttachMA60(cfg.Data.MAPeriod); err != nil {
		return fmt.Errorf("attach moving average: %w", err)
	}

	from, err := cfg.Window.StartTime()
	if err != nil {
		return fmt.Errorf("window start: %w", err)
	}
	to, err := cfg.Window.EndTime()
	if err != nil {
		return fmt.Errorf("window end: %w", err)
	}

	sim, err := grid.NewSimulator(grid.RunConfig{
		InitialCapital: cfg.Strategy.InitialCapital,
		Accounts:       cfg.Strategy.Accounts,
		Thresholds: grid.Thresholds{
			BuyBand:  cfg.Strategy.BuyBand,
			SellUp:   cfg.Strategy.SellUp,
			SellDown: cfg.Strategy.SellDown,
		},
		From:          from,
		To:            to,
		SeedPrevClose: cfg.Window.SeedPrevClose,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Running grid backtest with config: %s\n", runConfigPath)
	fmt.Printf("  Data: %s (%d bars, MA period %d)\n", cfg.Data.File, series.Len(), cfg.Data.MAPeriod)
	fmt.Printf("  Capital: $%.2f across %d accounts\n\n", cfg.Strategy.InitialCapital, cfg.Strategy.Accounts)

	res, err := sim.Run(series)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	runID := id.New()
	summary := report.FromGrid(cfg.Strategy.InitialCapital, res)

	if err := journalGridRun(cfg, runID, res, summary); err != nil {
		return err
	}

	if runReportPath != "" {
		rpt := report.RunReport{
			RunID:       runID,
			Created:     time.Now(),
			Preset:      "grid",
			Dataset:     cfg.Data.File,
			Accounts:    cfg.Strategy.Accounts,
			FilledAtEnd: countFilled(res.Accounts),
			Summary:     summary,
		}
		if err := rpt.WriteOrg(runReportPath); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Printf("Report written to %s\n", runReportPath)
	}

	printSummary(runID, summary)
	return nil
}

// journalGridRun persists the ledger and daily valuations per the
// config's journal section.
func journalGridRun(cfg *config.Config, runID string, res *grid.Result, summary report.Summary) error {
	var j journal.Journal
	var sq *journal.SQLite

	switch cfg.Journal.Type {
	case "csv":
		cj, err := journal.NewCSV(cfg.Journal.TradesFile, cfg.Journal.DailyFile)
		if err != nil {
			return fmt.Errorf("create journal: %w", err)
		}
		j = cj
	case "sqlite":
		var err error
		sq, err = journal.NewSQLite(cfg.Journal.DBPath, runID)
		if err != nil {
			return fmt.Errorf("open db: %w", err)
		}
		j = sq
	case "none", "":
		return nil
	default:
		return fmt.Errorf("unknown journal type %q", cfg.Journal.Type)
	}
	defer j.Close()

	for _, t := range res.Trades {
		if err := j.RecordTrade(t); err != nil {
			return fmt.Errorf("record trade: %w", err)
		}
	}
	for _, d := range res.Daily {
		if err := j.RecordDaily(d); err != nil {
			return fmt.Errorf("record daily: %w", err)
		}
	}

	if sq != nil {
		err := sq.RecordRun(journal.RunRow{
			RunID:          runID,
			Created:        time.Now(),
			Dataset:        cfg.Data.File,
			Preset:         "grid",
			InitialCapital: cfg.Strategy.InitialCapital,
			Accounts:       cfg.Strategy.Accounts,
			Start:          res.Start,
			End:            res.End,
			FinalValue:     res.FinalValue,
			ReturnPct:      summary.TotalReturnPct,
			Trades:         len(res.Trades),
		})
		if err != nil {
			return fmt.Errorf("record run: %w", err)
		}
	}

	if cfg.Journal.AccountsFile != "" {
		lastClose := 0.0
		if n := len(res.Daily); n > 0 {
			lastClose = res.Daily[n-1].ClosePrice
		}
		if err := journal.WriteAccountsCSV(cfg.Journal.AccountsFile, res.Accounts, lastClose); err != nil {
			return fmt.Errorf("write accounts: %w", err)
		}
	}

	switch cfg.Journal.Type {
	case "csv":
		fmt.Printf("Results saved to:\n  - %s\n  - %s\n", cfg.Journal.TradesFile, cfg.Journal.DailyFile)
	case "sqlite":
		fmt.Printf("Results saved to: %s (run %s)\n", cfg.Journal.DBPath, runID)
	}
	return nil
}

func countFilled(accounts []grid.Account) int {
	n := 0
	for i := range accounts {
		if accounts[i].Status() == grid.Filled {
			n++
		}
	}
	return n
}

func printSummary(runID string, s report.Summary) {
	fmt.Printf("\nBacktest Complete! (run %s)\n", runID)
	fmt.Printf("  Window: %s to %s\n", s.Start.Format("2006-01-02"), s.End.Format("2006-01-02"))
	fmt.Printf("  Initial Capital: $%.2f\n", s.InitialCapital)
	fmt.Printf("  Final Value: $%.2f\n", s.FinalValue)
	fmt.Printf("  Profit/Loss: $%.2f (%.2f%%)\n", s.NetPL, s.TotalReturnPct)
	fmt.Printf("  Max Drawdown: %.2f%%\n", s.MaxDrawdownPct)
	fmt.Printf("  Trades: %d (%d buys, %d sells)\n", s.Trades, s.Buys, s.Sells)
}
