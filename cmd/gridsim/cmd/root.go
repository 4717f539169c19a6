package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gridsim",
	Short: "A deterministic grid-trading backtester for daily bars",
	Long: `Gridsim replays a grid trading strategy over daily OHLC bars.

It provides tools for:
  - Backtesting the multi-account grid preset against historical data
  - Running the simpler single-position preset for comparison
  - Persisting trade ledgers and daily valuations to CSV or SQLite
  - Generating per-run org-mode research reports
  - Serving backtests over an HTTP API

Complete documentation is available at https://github.com/soxlab/gridsim`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
