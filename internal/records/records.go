// Package records defines the in-memory row representation shared by the
// parser, the cleaning stages, and the storage loader.
package records

// Record is a single row keyed by column name. A nil value is the absence
// marker: empty cells are never stored as "", so "no value" has exactly one
// representation and can never be confused with a legitimate empty string.
type Record map[string]any

// Clone returns a copy of r that shares no map storage with the original.
// Cell values are copied as-is; the pipeline only stores immutable value
// types (string, float64, nil), so the copy is a safe snapshot.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// CloneAll clones every record in the slice. The result can be mutated
// freely without affecting the input.
func CloneAll(in []Record) []Record {
	out := make([]Record, len(in))
	for i, r := range in {
		out[i] = r.Clone()
	}
	return out
}
