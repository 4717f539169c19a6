package api

// BacktestRequest selects a dataset from the server's data directory
// and the preset parameters to run against it. Zero-valued fields fall
// back to the preset defaults.
type BacktestRequest struct {
	Dataset string `json:"dataset" binding:"required"`
	Preset  string `json:"preset"`

	InitialCapital float64 `json:"initial_capital"`
	Accounts       int     `json:"accounts"`
	MAPeriod       int     `json:"ma_period"`

	Start         string  `json:"start,omitempty"`
	End           string  `json:"end,omitempty"`
	SeedPrevClose float64 `json:"seed_prev_close,omitempty"`

	IncludeLedger   bool `json:"include_ledger,omitempty"`
	IncludeDaily    bool `json:"include_daily,omitempty"`
	IncludeAccounts bool `json:"include_accounts,omitempty"`
}

// BacktestResponse is the run output.
type BacktestResponse struct {
	Preset  string  `json:"preset"`
	Summary Summary `json:"summary"`

	Ledger   []TradeRow   `json:"ledger,omitempty"`
	Daily    []DailyRow   `json:"daily,omitempty"`
	Accounts []AccountRow `json:"accounts,omitempty"`
}

type Summary struct {
	InitialCapital float64 `json:"initial_capital"`
	FinalValue     float64 `json:"final_value"`
	NetPL          float64 `json:"net_pl"`
	TotalReturnPct float64 `json:"total_return_pct"`
	MaxDrawdownPct float64 `json:"max_drawdown_pct"`
	Trades         int     `json:"trades"`
	Buys           int     `json:"buys"`
	Sells          int     `json:"sells"`
	Start          string  `json:"start"`
	End            string  `json:"end"`
}

type TradeRow struct {
	Date    string  `json:"date"`
	Account int     `json:"account"`
	Action  string  `json:"action"`
	Price   float64 `json:"price"`
	Shares  float64 `json:"shares"`
	Amount  float64 `json:"amount"`
}

type DailyRow struct {
	Date           string  `json:"date"`
	ClosePrice     float64 `json:"close_price"`
	TotalValue     float64 `json:"total_value"`
	FilledAccounts int     `json:"filled_accounts"`
	EmptyAccounts  int     `json:"empty_accounts"`
	TotalReturnPct float64 `json:"total_return_pct"`
}

type AccountRow struct {
	Account  int     `json:"account"`
	Status   string  `json:"status"`
	Cash     float64 `json:"cash"`
	Shares   float64 `json:"shares"`
	AvgPrice float64 `json:"avg_price"`
}

// PresetInfo describes one strategy preset for GET /api/v1/presets.
type PresetInfo struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Defaults    map[string]float64 `json:"defaults"`
}

// ErrorResponse is the uniform error shape.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
