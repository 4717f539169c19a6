package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soxlab/gridsim/journal"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query journaled runs",
	Long: `Query and display run records from a SQLite journal.

Subcommands:
  run    - Show the summary row of a run
  trades - List the trade ledger of a run
  daily  - List the daily valuations of a run

Examples:
  gridsim journal run <run-id>
  gridsim journal trades <run-id>
  gridsim journal daily <run-id>`,
}

var journalRunCmd = &cobra.Command{
	Use:   "run <run-id>",
	Short: "Show the summary row of a run",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalRun,
}

var journalTradesCmd = &cobra.Command{
	Use:   "trades <run-id>",
	Short: "List the trade ledger of a run",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalTrades,
}

var journalDailyCmd = &cobra.Command{
	Use:   "daily <run-id>",
	Short: "List the daily valuations of a run",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalDaily,
}

var journalDBPath string

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalRunCmd)
	journalCmd.AddCommand(journalTradesCmd)
	journalCmd.AddCommand(journalDailyCmd)

	journalCmd.PersistentFlags().StringVarP(&journalDBPath, "db", "d", "./gridsim.sqlite", "path to SQLite journal DB")
}

func openJournalDB(runID string) (*journal.SQLite, error) {
	j, err := journal.NewSQLite(journalDBPath, runID)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return j, nil
}

func runJournalRun(cmd *cobra.Command, args []string) error {
	j, err := openJournalDB(args[0])
	if err != nil {
		return err
	}
	defer j.Close()

	row, err := j.GetRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Run %s (%s)\n", row.RunID, row.Created.Format("2006-01-02 15:04"))
	fmt.Printf("  Preset: %s\n", row.Preset)
	fmt.Printf("  Dataset: %s\n", row.Dataset)
	fmt.Printf("  Window: %s to %s\n", row.Start.Format("2006-01-02"), row.End.Format("2006-01-02"))
	fmt.Printf("  Capital: $%.2f across %d accounts\n", row.InitialCapital, row.Accounts)
	fmt.Printf("  Final Value: $%.2f (%.2f%%)\n", row.FinalValue, row.ReturnPct)
	fmt.Printf("  Trades: %d\n", row.Trades)
	return nil
}

func runJournalTrades(cmd *cobra.Command, args []string) error {
	j, err := openJournalDB(args[0])
	if err != nil {
		return err
	}
	defer j.Close()

	trades, err := j.ListTrades(args[0])
	if err != nil {
		return err
	}

	for _, t := range trades {
		fmt.Printf("%s  acct %2d  %-4s %8.2f x %.4f ($%.2f)\n",
			t.Date.Format("2006-01-02"), t.Account, t.Action, t.Price, t.Shares, t.Amount)
	}
	fmt.Printf("%d trades\n", len(trades))
	return nil
}

func runJournalDaily(cmd *cobra.Command, args []string) error {
	j, err := openJournalDB(args[0])
	if err != nil {
		return err
	}
	defer j.Close()

	daily, err := j.ListDaily(args[0])
	if err != nil {
		return err
	}

	for _, d := range daily {
		fmt.Printf("%s  close %8.2f  value %10.2f  filled %2d  empty %2d  %+.2f%%\n",
			d.Date.Format("2006-01-02"), d.ClosePrice, d.TotalValue,
			d.FilledAccounts, d.EmptyAccounts, d.TotalReturnPct)
	}
	fmt.Printf("%d days\n", len(daily))
	return nil
}
