// Package writer renders cleaned record sets back to delimited text.
package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"salesclean/internal/records"
)

// Options configures output formatting. The zero value writes standard CSV.
type Options struct {
	// Comma is the field delimiter. When zero, ',' is used.
	Comma rune

	// Decimals fixes the count of fraction digits for a column, e.g. 2 for
	// money. Columns not listed print numbers in the shortest form that
	// round-trips ("2", "2.5").
	Decimals map[string]int
}

// Write renders the records under the given column order to w, header row
// first. Cells holding the absence marker print as empty.
func Write(w io.Writer, columns []string, recs []records.Record, opt Options) error {
	cw := csv.NewWriter(w)
	if opt.Comma != 0 {
		cw.Comma = opt.Comma
	}

	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	row := make([]string, len(columns))
	for i, rec := range recs {
		for j, col := range columns {
			row[j] = formatValue(rec[col], decimalsFor(opt, col))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes the record set to path, creating parent directories as
// needed. The destination is replaced wholesale, never appended to.
func WriteFile(path string, columns []string, recs []records.Record, opt Options) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(f, columns, recs, opt); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// formatValue renders one cell. Floats honor the fixed decimal count when
// one is configured; -1 selects the shortest round-trip form.
func formatValue(v any, decimals int) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', decimals, 64)
	default:
		return fmt.Sprint(t)
	}
}

func decimalsFor(opt Options, col string) int {
	if d, ok := opt.Decimals[col]; ok {
		return d
	}
	return -1
}
