package cleaner

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"salesclean/internal/records"
)

// Rejection describes one row removed by FilterInvalid.
type Rejection struct {
	// Row is the position of the record in the input slice, 0-based.
	Row    int
	Field  string
	Reason string
}

// FilterInvalid removes records that violate the row rules and reports each
// removal. Rules run in a fixed order per record and the first violation
// wins: missing product, missing category, invalid price, invalid quantity.
// Quantity is held to the same rules as price (a non-negative finite
// decimal); fractional quantities such as 2.5 are accepted.
//
// Retained records keep their relative input order and are shared with the
// input slice, not copied. Full-row duplicates are not a violation; repeat
// purchases legitimately produce identical rows.
func FilterInvalid(in []records.Record) ([]records.Record, []Rejection) {
	out := make([]records.Record, 0, len(in))
	var rejects []Rejection
	for i, rec := range in {
		if field, reason, ok := checkRecord(rec); !ok {
			rejects = append(rejects, Rejection{Row: i, Field: field, Reason: reason})
			continue
		}
		out = append(out, rec)
	}
	return out, rejects
}

// checkRecord applies the row rules in order and returns the first violation.
func checkRecord(rec records.Record) (field, reason string, ok bool) {
	for _, col := range []string{ColProduct, ColCategory} {
		if isBlank(rec[col]) {
			return col, fmt.Sprintf("required field %q missing", col), false
		}
	}
	for _, col := range NumericColumns {
		f, isNum := rec[col].(float64)
		if !isNum {
			return col, fmt.Sprintf("field %q is not numeric", col), false
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return col, fmt.Sprintf("field %q has a non-finite value", col), false
		}
		if f < 0 {
			return col, fmt.Sprintf("field %q is negative (%s)", col, strconv.FormatFloat(f, 'f', -1, 64)), false
		}
	}
	return "", "", true
}

// isBlank reports whether a text value is absent or whitespace-only.
func isBlank(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	if !ok {
		return false
	}
	return strings.TrimSpace(s) == ""
}
