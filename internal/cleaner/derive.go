package cleaner

import "salesclean/internal/records"

// DeriveTotals appends total_sales = price * quantity to every record. The
// product is kept at full float64 precision; rounding for display belongs to
// the writer. Inputs are expected to be validated, so both factors are
// finite non-negative numbers. Records are cloned; the input is untouched.
func DeriveTotals(in []records.Record) []records.Record {
	out := make([]records.Record, len(in))
	for i, rec := range in {
		nr := rec.Clone()
		p, _ := nr[ColPrice].(float64)
		q, _ := nr[ColQuantity].(float64)
		nr[ColTotal] = p * q
		out[i] = nr
	}
	return out
}
