package cleaner

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zeebo/xxh3"

	"salesclean/internal/records"
)

// DuplicateStats summarizes exact full-row duplicates in a record set.
// Duplicates are never removed; the counts exist for run reporting only.
type DuplicateStats struct {
	// Groups is the number of distinct rows occurring more than once.
	Groups int

	// Extra is the count of rows beyond the first occurrence of each group.
	Extra int
}

// CountDuplicates digests every record over the canonical columns and
// tallies rows sharing a digest. Category comparison ignores case; display
// values are untouched.
func CountDuplicates(in []records.Record) DuplicateStats {
	seen := make(map[uint64]int, len(in))
	for _, rec := range in {
		seen[rowDigest(rec)]++
	}
	var st DuplicateStats
	for _, n := range seen {
		if n > 1 {
			st.Groups++
			st.Extra += n - 1
		}
	}
	return st
}

// rowDigest hashes the canonical fields joined by a unit separator. Absent
// encodes as \x00 so it can never collide with a real value, and floats
// render in their shortest round-trip form so 10 and 10.0 digest equally.
func rowDigest(rec records.Record) uint64 {
	var b strings.Builder
	for i, col := range Columns {
		if i > 0 {
			b.WriteByte('\x1f')
		}
		switch t := rec[col].(type) {
		case nil:
			b.WriteByte('\x00')
		case string:
			if col == ColCategory {
				t = strings.ToLower(t)
			}
			b.WriteString(t)
		case float64:
			b.WriteString(strconv.FormatFloat(t, 'f', -1, 64))
		default:
			fmt.Fprint(&b, t)
		}
	}
	return xxh3.HashString(b.String())
}
