package cleaner

import (
	"strings"

	"salesclean/internal/records"
)

// NormalizeResult carries the header mapping outcome alongside the rewritten
// records.
type NormalizeResult struct {
	Records []records.Record

	// Mapping records which raw header supplied each canonical column.
	Mapping map[string]string

	// Dropped lists raw headers that resolved to no canonical column and
	// whose cells were discarded.
	Dropped []string
}

// NormalizeColumns maps the raw header row onto the canonical schema and
// rewrites every record under the canonical keys. Headers are matched after
// canonicalization (case, whitespace, separators, accents), so
// "Product Name", "product_name", and " PRODUCT-NAME " all resolve to
// product.
//
// Each canonical column must be claimed by exactly one raw header; a missing
// or multiply-claimed column returns a *SchemaError and no records. Raw
// columns outside the schema are dropped and reported in the result. Text
// cells are scrubbed (whitespace collapsed) here, so a cell of spaces reads
// as absent from this stage on.
//
// Normalizing an already canonical record set is a no-op apart from the
// fresh allocation.
func NormalizeColumns(headers []string, in []records.Record) (NormalizeResult, error) {
	res := NormalizeResult{Mapping: make(map[string]string, len(Columns))}

	// canonical column -> raw headers claiming it
	claims := make(map[string][]string, len(Columns))
	for _, raw := range headers {
		canon, ok := ResolveHeader(raw)
		if !ok {
			res.Dropped = append(res.Dropped, raw)
			continue
		}
		claims[canon] = append(claims[canon], raw)
	}

	var missing []string
	ambiguous := make(map[string][]string)
	for _, canon := range Columns {
		raws := claims[canon]
		switch {
		case len(raws) == 0:
			missing = append(missing, canon)
		case len(raws) > 1:
			ambiguous[canon] = raws
		default:
			res.Mapping[canon] = raws[0]
		}
	}
	if len(missing) > 0 || len(ambiguous) > 0 {
		return NormalizeResult{}, &SchemaError{Missing: missing, Ambiguous: ambiguous}
	}

	out := make([]records.Record, len(in))
	for i, rec := range in {
		nr := make(records.Record, len(Columns))
		for _, canon := range Columns {
			nr[canon] = rec[res.Mapping[canon]]
		}
		nr[ColProduct] = scrubText(nr[ColProduct])
		nr[ColCategory] = scrubText(nr[ColCategory])
		out[i] = nr
	}
	res.Records = out
	return res, nil
}

// scrubText collapses interior whitespace runs in a text value to single
// spaces and trims the edges. A value that scrubs down to nothing becomes
// absent. Non-string values pass through untouched.
func scrubText(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return nil
	}
	return s
}
