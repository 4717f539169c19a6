package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/soxlab/gridsim/market"
	"github.com/soxlab/gridsim/pkg/id"
	"github.com/soxlab/gridsim/report"
	"github.com/soxlab/gridsim/single"
)

var singleCmd = &cobra.Command{
	Use:   "single",
	Short: "Run the single-position preset",
	Long: `Run the single-position preset: buy one capital slice at the close
when the close sits far enough above the moving average, sell the whole
position when it falls far enough below. Consecutive identical signals
are suppressed.

Example:
  gridsim single -d SOXL_2y.csv -c 20000 --slices 20`,
	RunE: runSingle,
}

var (
	sgDataPath   string
	sgCapital    float64
	sgSlices     int
	sgBuyBand    float64
	sgSellBand   float64
	sgMAPeriod   int
	sgStart      string
	sgEnd        string
	sgReportPath string
	sgVerbose    bool
)

func init() {
	rootCmd.AddCommand(singleCmd)

	singleCmd.Flags().StringVarP(&sgDataPath, "data", "d", "", "path to daily bar CSV (required)")
	singleCmd.Flags().Float64VarP(&sgCapital, "capital", "c", 20_000, "initial capital")
	singleCmd.Flags().IntVar(&sgSlices, "slices", 20, "number of equal capital slices")
	singleCmd.Flags().Float64Var(&sgBuyBand, "buy-band", 0.01, "buy when (close-ma)/ma exceeds this")
	singleCmd.Flags().Float64Var(&sgSellBand, "sell-band", 0.02, "sell when (close-ma)/ma falls below the negative of this")
	singleCmd.Flags().IntVar(&sgMAPeriod, "ma", 60, "moving average period")
	singleCmd.Flags().StringVar(&sgStart, "start", "", "window start (YYYY-MM-DD)")
	singleCmd.Flags().StringVar(&sgEnd, "end", "", "window end (YYYY-MM-DD)")
	singleCmd.Flags().StringVarP(&sgReportPath, "report", "r", "", "write an org-mode run report to this path")
	singleCmd.Flags().BoolVarP(&sgVerbose, "verbose", "v", false, "print every trade")

	singleCmd.MarkFlagRequired("data")
}

func runSingle(cmd *cobra.Command, args []string) error {
	series, err := market.LoadCSV(sgDataPath)
	if err != nil {
		return fmt.Errorf("load data: %w", err)
	}
	if err := series.AttachMA60(sgMAPeriod); err != nil {
		return fmt.Errorf("attach moving average: %w", err)
	}

	from, to, err := parseWindow(sgStart, sgEnd)
	if err != nil {
		return err
	}

	sim, err := single.NewSimulator(single.Config{
		InitialCapital: sgCapital,
		Slices:         sgSlices,
		BuyBand:        sgBuyBand,
		SellBand:       sgSellBand,
		From:           from,
		To:             to,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Running single-position backtest\n")
	fmt.Printf("  Data: %s (%d bars, MA period %d)\n", sgDataPath, series.Len(), sgMAPeriod)
	fmt.Printf("  Capital: $%.2f in %d slices\n\n", sgCapital, sgSlices)

	res, err := sim.Run(series)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	if sgVerbose {
		for _, t := range res.Trades {
			fmt.Printf("  %s %-4s %8.2f x %.4f ($%.2f)\n",
				t.Date.Format("2006-01-02"), t.Action, t.Price, t.Shares, t.Amount)
		}
		fmt.Println()
	}

	runID := id.New()
	summary := report.FromSingle(sgCapital, res)

	if sgReportPath != "" {
		rpt := report.RunReport{
			RunID:   runID,
			Created: time.Now(),
			Preset:  "single",
			Dataset: sgDataPath,
			Summary: summary,
		}
		if err := rpt.WriteOrg(sgReportPath); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Printf("Report written to %s\n", sgReportPath)
	}

	printSummary(runID, summary)
	fmt.Printf("  Final Position: %.4f shares, $%.2f cash\n", res.FinalShares, res.FinalCash)
	return nil
}

func parseWindow(start, end string) (time.Time, time.Time, error) {
	var from, to time.Time
	var err error
	if start != "" {
		from, err = time.Parse("2006-01-02", start)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("bad start date %q: %w", start, err)
		}
	}
	if end != "" {
		to, err = time.Parse("2006-01-02", end)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("bad end date %q: %w", end, err)
		}
	}
	return from, to, nil
}
