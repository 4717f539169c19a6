package market

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Investing.com daily exports carry columns in this positional order:
// date, close, open, high, low, volume, change_pct. Numbers may be
// comma-grouped, change carries a % suffix and volume a K/M/B suffix.
// Rows usually arrive newest-first; LoadCSV returns them ascending.

var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"Jan 02, 2006",
}

// LoadCSV reads an investing.com-style daily export into a Series.
// UTF-16 files (with BOM) and UTF-8 BOMs are handled transparently.
func LoadCSV(path string) (*Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	s, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// ReadCSV parses bar rows from r. See LoadCSV for the expected shape.
func ReadCSV(r io.Reader) (*Series, error) {
	br := bufio.NewReader(r)

	// Detect a UTF-16 BOM; if present, decode to UTF-8.
	if b, _ := br.Peek(2); len(b) >= 2 &&
		((b[0] == 0xFF && b[1] == 0xFE) || (b[0] == 0xFE && b[1] == 0xFF)) {
		dec := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder()
		br = bufio.NewReader(transform.NewReader(br, dec))
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var bars []Bar
	line := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		if len(rec) < 7 {
			return nil, fmt.Errorf("row %d: need 7 columns (date,close,open,high,low,volume,change), got %d", line, len(rec))
		}

		date, err := parseDate(rec[0])
		if err != nil {
			if line == 1 {
				// header row
				continue
			}
			return nil, fmt.Errorf("row %d: %w", line, err)
		}

		b := Bar{Date: date}
		if b.Close, err = parseNumber(rec[1]); err != nil {
			return nil, fmt.Errorf("row %d close: %w", line, err)
		}
		if b.Open, err = parseNumber(rec[2]); err != nil {
			return nil, fmt.Errorf("row %d open: %w", line, err)
		}
		if b.High, err = parseNumber(rec[3]); err != nil {
			return nil, fmt.Errorf("row %d high: %w", line, err)
		}
		if b.Low, err = parseNumber(rec[4]); err != nil {
			return nil, fmt.Errorf("row %d low: %w", line, err)
		}
		if b.Volume, err = parseVolume(rec[5]); err != nil {
			return nil, fmt.Errorf("row %d volume: %w", line, err)
		}
		if b.ChangePct, err = parseNumber(rec[6]); err != nil {
			return nil, fmt.Errorf("row %d change: %w", line, err)
		}
		bars = append(bars, b)
	}

	if len(bars) == 0 {
		return nil, fmt.Errorf("no bar rows parsed")
	}
	return NewSeries(bars), nil
}

func parseDate(s string) (time.Time, error) {
	s = clean(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// parseNumber handles comma grouping and a trailing % sign.
func parseNumber(s string) (float64, error) {
	s = clean(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSuffix(s, "%")
	if s == "" || s == "-" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

// parseVolume handles K/M/B suffixes used by export tools.
func parseVolume(s string) (float64, error) {
	s = clean(s)
	s = strings.ReplaceAll(s, ",", "")
	if s == "" || s == "-" {
		return 0, nil
	}

	mult := 1.0
	switch {
	case strings.HasSuffix(s, "K"):
		mult, s = 1e3, strings.TrimSuffix(s, "K")
	case strings.HasSuffix(s, "M"):
		mult, s = 1e6, strings.TrimSuffix(s, "M")
	case strings.HasSuffix(s, "B"):
		mult, s = 1e9, strings.TrimSuffix(s, "B")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return v * mult, nil
}

func clean(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "\uFEFF")
	s = strings.Trim(s, `"`)
	return strings.TrimSpace(s)
}
