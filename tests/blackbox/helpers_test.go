//go:build blackbox

package blackbox

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func contains(s, sub string) bool { return strings.Contains(s, sub) }

// Three flat bars warm up a 3-period average, then a spike triggers a
// grid buy burst on the fourth bar.
const dataset = `2024-01-01,10,10,10,10,1K,0%
2024-01-02,10,10,10,10,1K,0%
2024-01-03,10,10,10,10,1K,0%
2024-01-04,30,10,30,10,1K,200%
2024-01-05,30,30,30,30,1K,0%
`

const runConfig = `data:
  file: ./bars.csv
  ma_period: 3
strategy:
  preset: grid
  initial_capital: 10000
  accounts: 20
window:
  seed_prev_close: 10
journal:
  type: csv
  trades_file: ./trades.csv
  daily_file: ./daily.csv
  accounts_file: ./accounts.csv
`

func writeDataset(t *testing.T, dir string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "bars.csv"), []byte(dataset), 0o644); err != nil {
		t.Fatal(err)
	}
}

func writeRunConfig(t *testing.T, dir string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "sim.yaml"), []byte(runConfig), 0o644); err != nil {
		t.Fatal(err)
	}
}

func assertLineCount(t *testing.T, path string, want int) {
	t.Helper()

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	got := len(strings.Split(strings.TrimRight(string(raw), "\n"), "\n"))
	if got != want {
		t.Fatalf("%s: want %d lines, got %d", path, want, got)
	}
}
