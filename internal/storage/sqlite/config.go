package sqlite

// Config holds SQLite-specific connection settings.
type Config struct {
	// DSN is passed directly to database/sql, e.g. "file:sales.db" or
	// ":memory:".
	DSN string
	// Table is the destination table for cleaned rows.
	Table string
	// Columns is the ordered list of destination columns.
	Columns []string
}
