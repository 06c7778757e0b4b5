// Package probe samples the first N bytes of a raw sales CSV file and reports
// how its headers map onto the cleaned schema, with inferred SQL-like types
// and missing-value counts per column.
//
// The probe is read-only and best-effort: it never fails on malformed rows,
// it just skips them, so it is safe to point at files of unknown quality
// before running the pipeline proper.
package probe

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"salesclean/internal/cleaner"
	"salesclean/internal/datasource/file"
	"salesclean/internal/datasource/httpds"
)

// Options controls a probe run.
type Options struct {
	// Path is the CSV file to sample: a local path or an http(s) URL.
	Path string
	// MaxBytes caps how much of the file is read. Defaults to 64 KiB.
	MaxBytes int64
	// Delimiter is the field separator ("," when empty; "\t" or "tab" for tabs).
	Delimiter string
}

// Column describes one header found in the sample: its raw text, the
// normalized identifier form, the cleaned-schema column it resolves to
// (empty when unresolved), the inferred SQL-like type, and how many cells
// were empty in the sample.
type Column struct {
	Header    string `json:"header"`
	Canonical string `json:"canonical"`
	MapsTo    string `json:"maps_to,omitempty"`
	Type      string `json:"type"`
	Missing   int    `json:"missing"`
}

// Report is the result of probing a file.
type Report struct {
	Path        string   `json:"path"`
	SampledRows int      `json:"sampled_rows"`
	Columns     []Column `json:"columns"`
	Unresolved  []string `json:"unresolved,omitempty"`
}

// peekFn reads up to n bytes from the input location. Tests may replace it.
var peekFn = peekFile

// Run samples the file and builds a Report.
func Run(ctx context.Context, opt Options) (*Report, error) {
	if opt.MaxBytes <= 0 {
		opt.MaxBytes = 64 * 1024
	}
	delim, err := decodeDelimiter(opt.Delimiter)
	if err != nil {
		return nil, err
	}

	data, err := peekFn(ctx, opt.Path, opt.MaxBytes)
	if err != nil {
		return nil, err
	}

	headers, rows, err := readCSVSample(data, delim)
	if err != nil {
		return nil, err
	}

	types := inferTypes(headers, rows)

	rep := &Report{Path: opt.Path, SampledRows: len(rows)}
	for i, h := range headers {
		col := Column{
			Header:    h,
			Canonical: cleaner.CanonicalFieldName(h),
			Type:      types[i],
			Missing:   countMissing(rows, i),
		}
		if mapped, ok := cleaner.ResolveHeader(h); ok {
			col.MapsTo = mapped
		} else {
			rep.Unresolved = append(rep.Unresolved, h)
		}
		rep.Columns = append(rep.Columns, col)
	}
	return rep, nil
}

// Render formats the report as human-readable text.
func (r *Report) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "path: %s\n", r.Path)
	fmt.Fprintf(&b, "sampled rows: %d\n", r.SampledRows)
	for _, c := range r.Columns {
		target := c.MapsTo
		if target == "" {
			target = "(dropped)"
		}
		fmt.Fprintf(&b, "  %-24q -> %-12s type=%-9s missing=%d\n", c.Header, target, c.Type, c.Missing)
	}
	if len(r.Unresolved) > 0 {
		fmt.Fprintf(&b, "unresolved headers: %s\n", strings.Join(r.Unresolved, ", "))
	}
	return b.String()
}

// peekFile retrieves up to n bytes from a local file or an HTTP(S)
// location. Either way the read is capped client-side, so a huge file costs
// at most n bytes of IO.
func peekFile(ctx context.Context, loc string, n int64) ([]byte, error) {
	l := strings.ToLower(loc)
	if strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://") {
		return httpds.NewClient(httpds.Config{MaxRetries: 2}).FetchFirstBytes(ctx, loc, int(n))
	}

	rc, err := file.NewLocal(loc).Open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	lr := &io.LimitedReader{R: rc, N: n}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(lr); err != nil && err != io.EOF {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeDelimiter maps a flag-style delimiter string onto a rune.
func decodeDelimiter(s string) (rune, error) {
	switch {
	case s == "" || s == ",":
		return ',', nil
	case s == `\t` || strings.EqualFold(s, "tab"):
		return '\t', nil
	}
	rs := []rune(s)
	if len(rs) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", s)
	}
	return rs[0], nil
}

// readCSVSample parses CSV data using delim and returns headers and up to a
// capped number of data rows. It is tolerant of trimmed samples and malformed
// lines. Data rows with a different column count than the header are skipped.
//
// BEST-EFFORT MODE:
//   - Allows variable field counts (FieldsPerRecord = -1).
//   - Skips records that cause parse errors instead of failing the whole read.
//   - Skips misaligned rows so type inference stays accurate.
func readCSVSample(data []byte, delim rune) ([]string, [][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = delim
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	// Read header: skip malformed/empty lines until a usable one or EOF.
	var headers []string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			return []string{}, [][]string{}, nil
		}
		if err != nil || len(rec) == 0 {
			continue
		}
		headers = stripUTF8BOM(rec)
		break
	}
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}

	const maxRows = 10000
	rows := make([][]string, 0, 64)
	want := len(headers)

	for len(rows) < maxRows {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil || len(rec) == 0 {
			continue
		}
		if len(rec) != want {
			continue
		}
		rows = append(rows, rec)
	}

	return headers, rows, nil
}

// stripUTF8BOM removes a UTF-8 BOM from the first header field if present.
func stripUTF8BOM(headers []string) []string {
	if len(headers) == 0 {
		return headers
	}
	if strings.HasPrefix(headers[0], "\uFEFF") {
		headers[0] = strings.TrimPrefix(headers[0], "\uFEFF")
	}
	return headers
}

// countMissing counts empty (after trimming) cells at colIdx.
func countMissing(rows [][]string, colIdx int) int {
	n := 0
	for _, r := range rows {
		if colIdx >= len(r) || strings.TrimSpace(r[colIdx]) == "" {
			n++
		}
	}
	return n
}

// inferTypes returns one inferred SQL-like type per header based on the sampled rows.
func inferTypes(headers []string, rows [][]string) []string {
	n := len(headers)
	cols := make([][]string, n)
	for _, row := range rows {
		for i := 0; i < n && i < len(row); i++ {
			cols[i] = append(cols[i], row[i])
		}
	}
	types := make([]string, n)
	for i := 0; i < n; i++ {
		types[i] = inferTypeForColumn(cols[i])
	}
	return types
}

// inferTypeForColumn guesses a SQL-friendly type among:
// boolean, integer, real, date, timestamp, text.
// Heuristic: require all non-empty values to satisfy a narrower type.
func inferTypeForColumn(values []string) string {
	nonEmpty := nonEmptyTrimmed(values)
	if len(nonEmpty) == 0 {
		return "text"
	}
	if allMatch(nonEmpty, isInt) {
		return "integer"
	}
	if allMatch(nonEmpty, isBool) {
		return "boolean"
	}
	// Distinguish float from int to keep ints as integer.
	if allMatch(nonEmpty, isFloat) {
		return "real"
	}
	// Dates and timestamps (prefer timestamp when any time component exists).
	allDate := true
	anyTime := false
	for _, v := range nonEmpty {
		ok, hasTime := parseDateOrTimestamp(v)
		if !ok {
			allDate = false
			break
		}
		if hasTime {
			anyTime = true
		}
	}
	if allDate {
		if anyTime {
			return "timestamp"
		}
		return "date"
	}
	return "text"
}

// nonEmptyTrimmed returns the non-empty, trimmed values.
func nonEmptyTrimmed(vals []string) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// allMatch reports whether every value satisfies fn.
func allMatch(vals []string, fn func(string) bool) bool {
	for _, v := range vals {
		if !fn(v) {
			return false
		}
	}
	return true
}

// isBool accepts common textual booleans and 1/0.
func isBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "false", "t", "f", "yes", "no", "y", "n", "1", "0":
		return true
	default:
		return false
	}
}

// isInt requires a signed base-10 integer that fits in int64.
func isInt(s string) bool {
	_, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return err == nil
}

// isFloat accepts decimal or scientific notation floats.
// If s parses as int, we treat it as NOT float (to keep ints as integer).
func isFloat(s string) bool {
	if isInt(s) {
		return false
	}
	_, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return err == nil
}

// parseDateOrTimestamp tries to parse s as a timestamp first, then a date.
// It returns ok=true when one of the layouts matched and hasTime whether time
// components were present.
func parseDateOrTimestamp(s string) (ok bool, hasTime bool) {
	st := strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if _, err := time.Parse(layout, st); err == nil {
			return true, true
		}
	}
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, st); err == nil {
			return true, false
		}
	}
	return false, false
}

// dateLayouts are common date formats (no time component).
var dateLayouts = []string{
	"2006-01-02",  // ISO
	"02.01.2006",  // DMY dot
	"02/01/2006",  // DMY slash
	"01/02/2006",  // MDY slash
	"2 Jan 2006",  // DMY textual day
	"02-Jan-2006", // DMY dash textual month
	"2006/01/02",  // ISO slashy
	"20060102",    // basic ISO
}

// timestampLayouts are common timestamp formats (with time component).
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006/01/02 15:04:05",
	"02/01/2006 15:04:05", // DMY
	"01/02/2006 15:04:05", // MDY
	"2006-01-02T15:04:05Z0700",
	"2006-01-02 15:04:05 -0700",
}
