package storage

import "salesclean/internal/records"

// RowsFromRecords projects records onto column-ordered value slices suitable
// for Repository.CopyFrom. A key missing from a record yields a nil cell,
// which backends store as NULL.
func RowsFromRecords(columns []string, recs []records.Record) [][]any {
	rows := make([][]any, len(recs))
	for i, rec := range recs {
		row := make([]any, len(columns))
		for j, col := range columns {
			row[j] = rec[col]
		}
		rows[i] = row
	}
	return rows
}
