package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// Five flat bars, then a spike. With ma_period=3 the average is defined
// from the third bar on, and the spike bar triggers a grid buy burst at
// open 10.
const testBars = `2024-01-01,10,10,10,10,1K,0%
2024-01-02,10,10,10,10,1K,0%
2024-01-03,10,10,10,10,1K,0%
2024-01-04,30,10,30,10,1K,200%
2024-01-05,30,30,30,30,1K,0%
`

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	dir := t.TempDir()
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "bars.csv"), []byte(testBars), 0o644))

	return NewHandler(dir).Router()
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		assert.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	t.Parallel()

	w := doJSON(t, newTestRouter(t), http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestListPresets(t *testing.T) {
	t.Parallel()

	w := doJSON(t, newTestRouter(t), http.MethodGet, "/api/v1/presets", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var presets []PresetInfo
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &presets))
	assert.Len(t, presets, 2)
	assert.Equal(t, "grid", presets[0].Name)
	assert.InDelta(t, 0.09, presets[0].Defaults["sell_up"], 1e-9)
	assert.Equal(t, "single", presets[1].Name)
}

func TestRunBacktestGrid(t *testing.T) {
	t.Parallel()

	w := doJSON(t, newTestRouter(t), http.MethodPost, "/api/v1/backtest", BacktestRequest{
		Dataset:         "bars.csv",
		MAPeriod:        3,
		SeedPrevClose:   10,
		IncludeLedger:   true,
		IncludeDaily:    true,
		IncludeAccounts: true,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp BacktestResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "grid", resp.Preset)
	assert.Equal(t, 20, resp.Summary.Buys)
	assert.Equal(t, 0, resp.Summary.Sells)
	assert.Equal(t, "2024-01-01", resp.Summary.Start)
	assert.Equal(t, "2024-01-05", resp.Summary.End)
	assert.InDelta(t, 10_000.0, resp.Summary.InitialCapital, 1e-9)
	assert.Greater(t, resp.Summary.FinalValue, 10_000.0)

	assert.Len(t, resp.Ledger, 20)
	assert.Equal(t, "2024-01-04", resp.Ledger[0].Date)
	assert.Equal(t, "BUY", resp.Ledger[0].Action)
	assert.InDelta(t, 10.0*1.02, resp.Ledger[0].Price, 1e-9)

	assert.Len(t, resp.Daily, 5)
	assert.Len(t, resp.Accounts, 20)
	assert.Equal(t, "filled", resp.Accounts[0].Status)
}

func TestRunBacktestSingle(t *testing.T) {
	t.Parallel()

	w := doJSON(t, newTestRouter(t), http.MethodPost, "/api/v1/backtest", BacktestRequest{
		Dataset:       "bars.csv",
		Preset:        "single",
		MAPeriod:      3,
		IncludeLedger: true,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp BacktestResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "single", resp.Preset)
	assert.Equal(t, 1, resp.Summary.Buys)
	assert.Len(t, resp.Ledger, 1)
	assert.Equal(t, "2024-01-04", resp.Ledger[0].Date)
}

func TestRunBacktestErrors(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t)

	errCode := func(w *httptest.ResponseRecorder) string {
		var resp ErrorResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		return resp.Error.Code
	}

	// Missing required dataset field.
	w := doJSON(t, r, http.MethodPost, "/api/v1/backtest", map[string]any{"preset": "grid"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_REQUEST", errCode(w))

	// Unknown dataset.
	w = doJSON(t, r, http.MethodPost, "/api/v1/backtest", BacktestRequest{Dataset: "nope.csv"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "DATASET_ERROR", errCode(w))

	// Unknown preset.
	w = doJSON(t, r, http.MethodPost, "/api/v1/backtest", BacktestRequest{
		Dataset: "bars.csv", Preset: "martingale",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_PRESET", errCode(w))

	// Bad window date.
	w = doJSON(t, r, http.MethodPost, "/api/v1/backtest", BacktestRequest{
		Dataset: "bars.csv", Start: "01/02/2024",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_WINDOW", errCode(w))

	// Window starts at the series head with no seed close.
	w = doJSON(t, r, http.MethodPost, "/api/v1/backtest", BacktestRequest{
		Dataset: "bars.csv", MAPeriod: 3,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INSUFFICIENT_SEED", errCode(w))
}

func TestLoadDatasetBlocksTraversal(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "bars.csv"), []byte(testBars), 0o644))

	h := NewHandler(dir)

	// The path collapses to its base name inside the data dir.
	s, err := h.loadDataset(BacktestRequest{Dataset: "../../etc/bars.csv", MAPeriod: 3})
	assert.NoError(t, err)
	assert.Equal(t, 5, s.Len())

	_, err = h.loadDataset(BacktestRequest{Dataset: "../../etc/passwd"})
	assert.Error(t, err)
}

func TestCORSPreflight(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/backtest", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
