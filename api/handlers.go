// Package api exposes the simulator over HTTP for research dashboards.
package api

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/soxlab/gridsim/grid"
	"github.com/soxlab/gridsim/market"
	"github.com/soxlab/gridsim/report"
	"github.com/soxlab/gridsim/single"
)

const dateLayout = "2006-01-02"

// Handler serves backtest requests over datasets found in DataDir.
type Handler struct {
	DataDir string
}

func NewHandler(dataDir string) *Handler {
	return &Handler{DataDir: dataDir}
}

// Router assembles the gin engine with all routes and middleware.
func (h *Handler) Router() *gin.Engine {
	r := gin.Default()
	r.Use(CORS())
	r.Use(ErrorHandler())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	v1.POST("/backtest", h.RunBacktest)
	v1.GET("/presets", h.ListPresets)

	return r
}

// RunBacktest handles POST /api/v1/backtest.
func (h *Handler) RunBacktest(c *gin.Context) {
	var req BacktestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err.Error())
		return
	}

	series, err := h.loadDataset(req)
	if err != nil {
		badRequest(c, "DATASET_ERROR", err.Error())
		return
	}

	from, err := parseDate(req.Start)
	if err != nil {
		badRequest(c, "INVALID_WINDOW", err.Error())
		return
	}
	to, err := parseDate(req.End)
	if err != nil {
		badRequest(c, "INVALID_WINDOW", err.Error())
		return
	}

	capital := req.InitialCapital
	if capital == 0 {
		capital = 10000
	}
	accounts := req.Accounts
	if accounts == 0 {
		accounts = 20
	}

	switch req.Preset {
	case "", "grid":
		h.runGrid(c, req, series, capital, accounts, from, to)
	case "single":
		h.runSingle(c, req, series, capital, accounts, from, to)
	default:
		badRequest(c, "INVALID_PRESET", "preset must be 'grid' or 'single'")
	}
}

func (h *Handler) runGrid(c *gin.Context, req BacktestRequest, series *market.Series, capital float64, accounts int, from, to time.Time) {
	sim, err := grid.NewSimulator(grid.RunConfig{
		InitialCapital: capital,
		Accounts:       accounts,
		From:           from,
		To:             to,
		SeedPrevClose:  req.SeedPrevClose,
	})
	if err != nil {
		badRequest(c, "INVALID_CONFIG", err.Error())
		return
	}

	res, err := sim.Run(series)
	if err != nil {
		if errors.Is(err, grid.ErrInsufficientSeed) {
			badRequest(c, "INSUFFICIENT_SEED", err.Error())
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: ErrorDetail{Code: "BACKTEST_ERROR", Message: err.Error()},
		})
		return
	}

	resp := BacktestResponse{
		Preset:  "grid",
		Summary: toSummary(report.FromGrid(capital, res)),
	}
	if req.IncludeLedger {
		for _, t := range res.Trades {
			resp.Ledger = append(resp.Ledger, TradeRow{
				Date:    t.Date.Format(dateLayout),
				Account: t.Account,
				Action:  string(t.Action),
				Price:   t.Price,
				Shares:  t.Shares,
				Amount:  t.Amount,
			})
		}
	}
	if req.IncludeDaily {
		for _, d := range res.Daily {
			resp.Daily = append(resp.Daily, DailyRow{
				Date:           d.Date.Format(dateLayout),
				ClosePrice:     d.ClosePrice,
				TotalValue:     d.TotalValue,
				FilledAccounts: d.FilledAccounts,
				EmptyAccounts:  d.EmptyAccounts,
				TotalReturnPct: d.TotalReturnPct,
			})
		}
	}
	if req.IncludeAccounts {
		for _, a := range res.Accounts {
			resp.Accounts = append(resp.Accounts, AccountRow{
				Account:  a.ID,
				Status:   string(a.Status()),
				Cash:     a.Cash,
				Shares:   a.Shares,
				AvgPrice: a.AvgPrice,
			})
		}
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) runSingle(c *gin.Context, req BacktestRequest, series *market.Series, capital float64, accounts int, from, to time.Time) {
	sim, err := single.NewSimulator(single.Config{
		InitialCapital: capital,
		Slices:         accounts,
		From:           from,
		To:             to,
	})
	if err != nil {
		badRequest(c, "INVALID_CONFIG", err.Error())
		return
	}

	res, err := sim.Run(series)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: ErrorDetail{Code: "BACKTEST_ERROR", Message: err.Error()},
		})
		return
	}

	resp := BacktestResponse{
		Preset:  "single",
		Summary: toSummary(report.FromSingle(capital, res)),
	}
	if req.IncludeLedger {
		for _, t := range res.Trades {
			resp.Ledger = append(resp.Ledger, TradeRow{
				Date:   t.Date.Format(dateLayout),
				Action: string(t.Action),
				Price:  t.Price,
				Shares: t.Shares,
				Amount: t.Amount,
			})
		}
	}

	c.JSON(http.StatusOK, resp)
}

// ListPresets handles GET /api/v1/presets.
func (h *Handler) ListPresets(c *gin.Context) {
	c.JSON(http.StatusOK, []PresetInfo{
		{
			Name:        "grid",
			Description: "N-account grid: staggered buy bursts on a 5% divergence from the 60-day average, per-account sell sweep at a 9%/6% trend-dependent cushion.",
			Defaults: map[string]float64{
				"buy_band":  grid.DefaultThresholds.BuyBand,
				"sell_up":   grid.DefaultThresholds.SellUp,
				"sell_down": grid.DefaultThresholds.SellDown,
			},
		},
		{
			Name:        "single",
			Description: "Single position bought in equal slices when the close breaks 1% above the 60-day average, liquidated entirely 2% below it.",
			Defaults: map[string]float64{
				"buy_band":  0.01,
				"sell_band": 0.02,
			},
		},
	})
}

// loadDataset resolves the dataset inside the data dir and attaches the
// moving average. The base-name restriction prevents path traversal.
func (h *Handler) loadDataset(req BacktestRequest) (*market.Series, error) {
	name := filepath.Base(req.Dataset)
	path := filepath.Join(h.DataDir, name)
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	series, err := market.LoadCSV(path)
	if err != nil {
		return nil, err
	}

	period := req.MAPeriod
	if period == 0 {
		period = 60
	}
	if err := series.AttachMA60(period); err != nil {
		return nil, err
	}
	return series, nil
}

func toSummary(s report.Summary) Summary {
	return Summary{
		InitialCapital: s.InitialCapital,
		FinalValue:     s.FinalValue,
		NetPL:          s.NetPL,
		TotalReturnPct: s.TotalReturnPct,
		MaxDrawdownPct: s.MaxDrawdownPct,
		Trades:         s.Trades,
		Buys:           s.Buys,
		Sells:          s.Sells,
		Start:          s.Start.Format(dateLayout),
		End:            s.End.Format(dateLayout),
	}
}

func badRequest(c *gin.Context, code, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error: ErrorDetail{Code: code, Message: msg},
	})
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
