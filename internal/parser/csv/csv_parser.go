// Package csv reads delimited sales exports into records. It runs
// encoding/csv in a lenient mode and enforces row width itself, so one
// mangled row is skipped and counted instead of aborting the whole parse.
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strings"

	"salesclean/internal/records"
)

// Options configures the CSV parser behavior. All fields are optional; sensible
// defaults are applied when a field is zero.
type Options struct {
	// Comma specifies the field delimiter. When zero, ',' is used.
	Comma rune

	// TrimSpace trims leading/trailing spaces from each field value before the
	// empty-cell check, so a whitespace-only cell reads as absent.
	TrimSpace bool
}

// Parser parses CSV input according to Options. It is safe to reuse across
// inputs, but Parser itself is not concurrency-safe.
type Parser struct{ opt Options }

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) *Parser { return &Parser{opt: opt} }

// utf8BOM is stripped from the first header cell if present.
const utf8BOM = "\uFEFF"

// Parse consumes CSV records from r and returns the header row, the parsed
// records keyed by raw header text, and the number of body rows skipped due
// to parse errors or field-count mismatches. A header row is required; an
// input without one (empty input) is an error.
//
// Header cells are trimmed but otherwise preserved as written; mapping raw
// headers onto the canonical schema is a later stage's job.
func (p *Parser) Parse(r io.Reader) ([]string, []records.Record, int, error) {
	cr := csv.NewReader(r)
	if p.opt.Comma != 0 {
		cr.Comma = p.opt.Comma
	}

	// Relax csv.Reader so residual quoting oddities don't abort early; width
	// is still enforced against the header after reading each row.
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	h, err := cr.Read()
	if err != nil {
		return nil, nil, 0, fmt.Errorf("read csv header: %w", err)
	}
	headers := cleanHeaders(h)

	var out []records.Record
	var skipped int

	limit := 400
	// Read body rows. Line numbers are reported as file lines; the header is
	// line 1.
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if skipped < limit {
				// Soft-fail this row and continue.
				log.Printf("Skipping row %d: %v", line, err)
			}
			skipped++
			continue
		}

		if len(row) != len(headers) {
			if skipped < limit {
				log.Printf("Skipping row %d: incorrect number of fields (expected %d, got %d)", line, len(headers), len(row))
			}
			skipped++
			continue
		}

		rec := make(records.Record, len(row))
		for i, val := range row {
			if p.opt.TrimSpace {
				val = strings.TrimSpace(val)
			}
			key := keyFor(i, headers)
			rec[key] = emptyToNil(val)
		}
		out = append(out, rec)
	}

	return headers, out, skipped, nil
}

// keyFor returns the column key for index idx, using headers when available,
// otherwise synthesizing a "col_N" name.
func keyFor(idx int, headers []string) string {
	if idx < len(headers) && headers[idx] != "" {
		return headers[idx]
	}
	return fmt.Sprintf("col_%d", idx)
}

// emptyToNil converts an empty string to nil; all other values are returned as-is.
func emptyToNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// cleanHeaders trims surrounding whitespace from each header cell and strips
// a UTF-8 BOM from the first one.
func cleanHeaders(h []string) []string {
	res := make([]string, len(h))
	for i, col := range h {
		c := strings.TrimSpace(col)
		if i == 0 {
			c = strings.TrimPrefix(c, utf8BOM)
		}
		res[i] = c
	}
	return res
}
