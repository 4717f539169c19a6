package cmd

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/soxlab/gridsim/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve backtests over an HTTP API",
	Long: `Start an HTTP server exposing backtest runs as a JSON API.

Endpoints:
  GET  /health
  POST /api/v1/backtest
  GET  /api/v1/presets

Settings come from flags, overridable via a .env file or the
environment (API_PORT, API_ENV, DATA_DIR).

Example:
  gridsim serve -p 8080 --data-dir ./data`,
	RunE: runServe,
}

var (
	servePort    string
	serveDataDir string
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&servePort, "port", "p", "8080", "port to listen on")
	serveCmd.Flags().StringVar(&serveDataDir, "data-dir", ".", "directory containing bar data CSVs")
}

func runServe(cmd *cobra.Command, args []string) error {
	// A missing .env is fine; the flags carry defaults.
	_ = godotenv.Load()

	port := servePort
	if v := os.Getenv("API_PORT"); v != "" {
		port = v
	}
	dataDir := serveDataDir
	if v := os.Getenv("DATA_DIR"); v != "" {
		dataDir = v
	}
	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	h := api.NewHandler(dataDir)
	log.Printf("serving backtests on :%s (data dir %s)", port, dataDir)
	return h.Router().Run(":" + port)
}
