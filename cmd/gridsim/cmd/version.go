package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "1.0.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the current version of the gridsim CLI.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("gridsim version %s\n", version)
		fmt.Println("A deterministic grid-trading backtester for daily bars")
		fmt.Println("https://github.com/soxlab/gridsim")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
