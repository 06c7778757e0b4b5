package cleaner

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"salesclean/internal/records"
)

// RepairStats summarizes what RepairMissing changed, for run reporting.
type RepairStats struct {
	// Medians holds the per-column fill value. A column appears only when it
	// needed at least one fill.
	Medians map[string]float64

	// Filled counts absent cells replaced by the column median.
	Filled map[string]int

	// Unparsed counts cells whose text could not be read as a number and
	// were therefore treated as absent.
	Unparsed map[string]int
}

// RepairMissing coerces the numeric columns to float64 and fills absent
// cells with the per-column median. The median for a column is computed once
// over the values observed before any fill, restricted to valid ones (finite
// and non-negative), so repaired cells and garbage values never feed the
// statistic. Invalid observed values keep their cells; rejecting those rows
// is the validator's job.
//
// A column that needs at least one fill but has zero valid observed values
// yields an *InsufficientDataError. The input records are never modified.
func RepairMissing(in []records.Record) ([]records.Record, RepairStats, error) {
	stats := RepairStats{
		Medians:  make(map[string]float64, len(NumericColumns)),
		Filled:   make(map[string]int, len(NumericColumns)),
		Unparsed: make(map[string]int, len(NumericColumns)),
	}

	out := records.CloneAll(in)

	for _, rec := range out {
		for _, col := range NumericColumns {
			switch t := rec[col].(type) {
			case nil, float64:
				// absent or already numeric
			case string:
				f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
				if err != nil {
					rec[col] = nil
					stats.Unparsed[col]++
					continue
				}
				rec[col] = f
			default:
				rec[col] = nil
				stats.Unparsed[col]++
			}
		}
	}

	for _, col := range NumericColumns {
		var valid []float64
		absent := 0
		for _, rec := range out {
			switch t := rec[col].(type) {
			case nil:
				absent++
			case float64:
				if isValidStat(t) {
					valid = append(valid, t)
				}
			}
		}
		if absent == 0 {
			continue
		}
		if len(valid) == 0 {
			return nil, RepairStats{}, &InsufficientDataError{Field: col}
		}

		m := median(valid)
		stats.Medians[col] = m
		for _, rec := range out {
			if rec[col] == nil {
				rec[col] = m
				stats.Filled[col]++
			}
		}
	}

	return out, stats, nil
}

// isValidStat reports whether f may participate in a median: finite and not
// negative.
func isValidStat(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0) && f >= 0
}

// median returns the middle value of vals, averaging the two middle values
// for even counts. vals must be non-empty and is not modified.
func median(vals []float64) float64 {
	s := make([]float64, len(vals))
	copy(s, vals)
	sort.Float64s(s)
	n := len(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}
