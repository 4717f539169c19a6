package report

import (
	"bytes"
	"os"
	"text/template"
	"time"
)

// RunReport mirrors the runs table plus the summary, rendered as an
// org-mode research note.
type RunReport struct {
	RunID   string
	Created time.Time
	Preset  string
	Dataset string

	Accounts    int
	FilledAtEnd int

	Summary Summary

	Notes []string
}

var orgFuncs = template.FuncMap{
	"orTime": func(t time.Time) time.Time {
		if t.IsZero() {
			return time.Now()
		}
		return t
	},
}

// WriteOrg renders the report to path.
func (r *RunReport) WriteOrg(path string) error {
	t, err := template.New("run").Funcs(orgFuncs).Parse(orgTemplate)
	if err != nil {
		return err
	}

	buf := new(bytes.Buffer)
	if err := t.Execute(buf, r); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

const orgTemplate = `
* BACKTEST: {{.Preset}} {{if .Dataset}}{{.Dataset}}{{else}}(dataset?){{end}}
:PROPERTIES:
:RUN_ID:      {{if .RunID}}{{.RunID}}{{else}}(run-id?){{end}}
:PRESET:      {{.Preset}}
:DATASET:     {{if .Dataset}}{{.Dataset}}{{else}}(dataset?){{end}}
:START_DATE:  {{.Summary.Start.Format "2006-01-02"}}
:END_DATE:    {{.Summary.End.Format "2006-01-02"}}
:CAPITAL:     {{printf "%.2f" .Summary.InitialCapital}}
:FINAL_VALUE: {{printf "%.2f" .Summary.FinalValue}}
:NET_PL:      {{printf "%.2f" .Summary.NetPL}}
:RETURN_PCT:  {{printf "%.2f" .Summary.TotalReturnPct}}
:MAX_DD_PCT:  {{printf "%.2f" .Summary.MaxDrawdownPct}}
:TRADES:      {{.Summary.Trades}}
:ACCOUNTS:    {{.Accounts}}
:CREATED:     [{{(orTime .Created).Format "2006-01-02 Mon 15:04"}}]
:END:

** Performance Summary
- Net P/L:       *{{printf "%.2f" .Summary.NetPL}}*
- Return:        *{{printf "%.2f" .Summary.TotalReturnPct}}%*
- Max Drawdown:  *{{printf "%.2f" .Summary.MaxDrawdownPct}}%*

** Trade Distribution
| Side  | Count |
|-------+-------|
| Buys  | {{.Summary.Buys}} |
| Sells | {{.Summary.Sells}} |
| Total | {{.Summary.Trades}} |

** Accounts
- Pool size:       {{.Accounts}}
- Filled at end:   {{.FilledAtEnd}}

{{- if .Notes }}

** Observations
{{- range .Notes }}
- {{.}}
{{- end }}
{{- end }}
`
