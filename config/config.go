// Package config loads run configuration from YAML or JSON files.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const dateLayout = "2006-01-02"

// Config represents a complete simulation configuration.
type Config struct {
	Data     DataConfig     `json:"data" yaml:"data"`
	Strategy StrategyConfig `json:"strategy" yaml:"strategy"`
	Window   WindowConfig   `json:"window" yaml:"window"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
}

// DataConfig locates the bar data and the moving-average setup.
type DataConfig struct {
	File     string `json:"file" yaml:"file"`
	MAPeriod int    `json:"ma_period" yaml:"ma_period"`
}

// StrategyConfig selects a preset and its capital split. Band fields
// left at zero fall back to the preset defaults.
type StrategyConfig struct {
	Preset         string  `json:"preset" yaml:"preset"` // "grid" or "single"
	InitialCapital float64 `json:"initial_capital" yaml:"initial_capital"`
	Accounts       int     `json:"accounts" yaml:"accounts"`

	// Grid preset bands.
	BuyBand  float64 `json:"buy_band,omitempty" yaml:"buy_band,omitempty"`
	SellUp   float64 `json:"sell_up,omitempty" yaml:"sell_up,omitempty"`
	SellDown float64 `json:"sell_down,omitempty" yaml:"sell_down,omitempty"`

	// Single preset bands.
	SingleBuyBand  float64 `json:"single_buy_band,omitempty" yaml:"single_buy_band,omitempty"`
	SingleSellBand float64 `json:"single_sell_band,omitempty" yaml:"single_sell_band,omitempty"`
}

// WindowConfig bounds the evaluation window. SeedPrevClose supplies the
// previous close for the first bar when the window starts at the head of
// the series; leaving it unset there is a configuration error surfaced
// by the driver, never silently defaulted.
type WindowConfig struct {
	Start         string  `json:"start,omitempty" yaml:"start,omitempty"`
	End           string  `json:"end,omitempty" yaml:"end,omitempty"`
	SeedPrevClose float64 `json:"seed_prev_close,omitempty" yaml:"seed_prev_close,omitempty"`
}

// JournalConfig selects where run output is persisted.
type JournalConfig struct {
	Type         string `json:"type" yaml:"type"` // "csv", "sqlite" or "none"
	TradesFile   string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	DailyFile    string `json:"daily_file,omitempty" yaml:"daily_file,omitempty"`
	AccountsFile string `json:"accounts_file,omitempty" yaml:"accounts_file,omitempty"`
	DBPath       string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// StartTime parses the window start; zero when unset.
func (w WindowConfig) StartTime() (time.Time, error) {
	return parseDate(w.Start)
}

// EndTime parses the window end; zero when unset.
func (w WindowConfig) EndTime() (time.Time, error) {
	return parseDate(w.End)
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad date %q (want YYYY-MM-DD)", s)
	}
	return t.UTC(), nil
}

// LoadFromFile loads configuration from a file, trying YAML first and
// falling back to JSON.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile saves the configuration, picking the format by extension.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks the configuration for problems detectable without the
// data file in hand.
func (c *Config) Validate() error {
	if c.Data.File == "" {
		return fmt.Errorf("data.file is required")
	}
	if c.Data.MAPeriod <= 0 {
		return fmt.Errorf("data.ma_period must be positive")
	}

	switch c.Strategy.Preset {
	case "grid", "single":
	default:
		return fmt.Errorf("strategy.preset must be 'grid' or 'single', got %q", c.Strategy.Preset)
	}
	if c.Strategy.InitialCapital <= 0 {
		return fmt.Errorf("strategy.initial_capital must be positive")
	}
	if c.Strategy.Accounts <= 0 {
		return fmt.Errorf("strategy.accounts must be positive")
	}
	if c.Strategy.BuyBand < 0 || c.Strategy.SellUp < 0 || c.Strategy.SellDown < 0 ||
		c.Strategy.SingleBuyBand < 0 || c.Strategy.SingleSellBand < 0 {
		return fmt.Errorf("strategy bands must not be negative")
	}

	start, err := c.Window.StartTime()
	if err != nil {
		return fmt.Errorf("window.start: %w", err)
	}
	end, err := c.Window.EndTime()
	if err != nil {
		return fmt.Errorf("window.end: %w", err)
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return fmt.Errorf("window.end is before window.start")
	}
	if c.Window.SeedPrevClose < 0 {
		return fmt.Errorf("window.seed_prev_close must not be negative")
	}

	switch c.Journal.Type {
	case "csv":
		if c.Journal.TradesFile == "" || c.Journal.DailyFile == "" {
			return fmt.Errorf("journal trades_file and daily_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	case "none", "":
	default:
		return fmt.Errorf("journal.type must be 'csv', 'sqlite' or 'none'")
	}

	return nil
}

// Default returns a configuration with sensible defaults for the grid
// preset.
func Default() *Config {
	return &Config{
		Data: DataConfig{
			File:     "./SOXL_2y.csv",
			MAPeriod: 60,
		},
		Strategy: StrategyConfig{
			Preset:         "grid",
			InitialCapital: 10000,
			Accounts:       20,
		},
		Journal: JournalConfig{
			Type:         "csv",
			TradesFile:   "./trades.csv",
			DailyFile:    "./daily.csv",
			AccountsFile: "./accounts.csv",
		},
	}
}
