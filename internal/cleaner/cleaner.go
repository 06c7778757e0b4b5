// Package cleaner implements the fixed cleaning pipeline for sales records:
// header normalization onto the canonical schema, median repair of missing
// numeric values, row validation, a duplicate audit, and derivation of the
// total_sales column.
//
// Each stage is a plain function from one record slice to another. Stages
// never mutate their input; they return fresh records or an order-preserving
// subset, so intermediate results stay inspectable and each stage can be
// tested in isolation.
package cleaner

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Canonical column names, in output order.
const (
	ColProduct  = "product"
	ColCategory = "category"
	ColPrice    = "price"
	ColQuantity = "quantity"
	ColTotal    = "total_sales"
)

// Columns lists the canonical input columns every cleaned record carries.
var Columns = []string{ColProduct, ColCategory, ColPrice, ColQuantity}

// NumericColumns lists the columns subject to coercion and median repair.
var NumericColumns = []string{ColPrice, ColQuantity}

// OutputColumns is Columns plus the derived total_sales column.
var OutputColumns = []string{ColProduct, ColCategory, ColPrice, ColQuantity, ColTotal}

// synonyms maps each canonical column to the canonicalized header spellings
// that resolve to it. Every canonical name maps to itself, so an already
// clean header passes through unchanged.
var synonyms = map[string][]string{
	ColProduct:  {"product", "product_name", "name"},
	ColCategory: {"category", "cat", "product_category"},
	ColPrice:    {"price", "unit_price", "price_usd"},
	ColQuantity: {"quantity", "qty", "amount", "units"},
}

// headerIndex is the inverted synonym table: canonicalized spelling to
// canonical column name.
var headerIndex = func() map[string]string {
	idx := make(map[string]string)
	for canon, alts := range synonyms {
		for _, a := range alts {
			idx[a] = canon
		}
	}
	return idx
}()

// CanonicalFieldName reduces a raw header cell to a snake_case identifier:
// lowercased, accents folded to ASCII, separator runs collapsed to a single
// underscore, everything else dropped. An empty result becomes "col".
func CanonicalFieldName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	// Decompose, remove nonspacing marks (accents), recompose.
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	)
	ascii, _, _ := transform.String(t, s)

	var b strings.Builder
	prevUnderscore := false
	for _, r := range ascii {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
			prevUnderscore = false
		case r >= '0' && r <= '9':
			b.WriteRune(r)
			prevUnderscore = false
		case r == '_' || r == ' ' || r == '-' || r == '.':
			if !prevUnderscore {
				b.WriteRune('_')
				prevUnderscore = true
			}
		default:
			// drop anything else
		}
	}
	name := strings.Trim(b.String(), "_")
	if name == "" {
		return "col"
	}
	return name
}

// ResolveHeader maps a raw header cell onto its canonical column. The second
// return is false when the header matches no known spelling.
func ResolveHeader(raw string) (string, bool) {
	canon, ok := headerIndex[CanonicalFieldName(raw)]
	return canon, ok
}
