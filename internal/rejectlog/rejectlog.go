// Package rejectlog writes rows dropped by validation to a side CSV, so a
// run's rejections can be audited without rerunning the pipeline.
package rejectlog

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"salesclean/internal/records"
)

// Log appends rejected rows to one CSV file. Not safe for concurrent use.
type Log struct {
	f       *os.File
	w       *csv.Writer
	columns []string
	reasons map[string]int
}

// New creates (or truncates) the rejects file at path, making parent
// directories as needed, and writes a header of row, field, reason plus the
// given record columns.
func New(path string, columns []string) (*Log, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create rejects dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(append([]string{"row", "field", "reason"}, columns...)); err != nil {
		f.Close()
		return nil, fmt.Errorf("write rejects header: %w", err)
	}
	return &Log{f: f, w: w, columns: columns, reasons: make(map[string]int)}, nil
}

// Add records one rejected row: its 1-based data row number, the field the
// rule fired on, the reason, and the record's cells. Write errors surface on
// Close.
func (l *Log) Add(row int, field, reason string, rec records.Record) {
	l.reasons[reason]++
	cells := make([]string, 0, 3+len(l.columns))
	cells = append(cells, strconv.Itoa(row), field, reason)
	for _, col := range l.columns {
		cells = append(cells, formatCell(rec[col]))
	}
	_ = l.w.Write(cells)
}

// Reasons returns the tally of rejections per reason so far.
func (l *Log) Reasons() map[string]int { return l.reasons }

// Close flushes and closes the file, reporting the first error seen.
func (l *Log) Close() error {
	l.w.Flush()
	werr := l.w.Error()
	cerr := l.f.Close()
	if werr != nil {
		return fmt.Errorf("flush rejects: %w", werr)
	}
	if cerr != nil {
		return fmt.Errorf("close rejects: %w", cerr)
	}
	return nil
}

// formatCell renders one record value. Absent cells print empty; numbers
// print in their shortest round-trip form.
func formatCell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}
