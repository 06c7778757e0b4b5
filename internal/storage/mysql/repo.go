// Package mysql implements a MySQL-backed storage.Repository on database/sql
// with the go-sql-driver driver. MySQL has no COPY protocol, so CopyFrom
// issues one multi-row INSERT per call. Batch sizes are bounded upstream,
// which keeps statements under max_allowed_packet.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Config holds MySQL repository configuration.
type Config struct {
	DSN     string   // go-sql-driver DSN, e.g. "user:pass@tcp(127.0.0.1:3306)/db"
	Table   string   // target table, possibly db-qualified, e.g. "warehouse.sales_clean"
	Columns []string // ordered columns for inserts
}

// Repository is a MySQL-backed implementation of storage.Repository.
type Repository struct {
	db  *sql.DB
	cfg Config
}

// NewRepository opens a connection pool, verifies it with a short ping, and
// returns the repository plus a close function for the pool.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if cfg.DSN == "" {
		return nil, nil, fmt.Errorf("mysql: DSN must not be empty")
	}
	db, err := sql.Open("mysql", cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("mysql: open: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("mysql: ping: %w", err)
	}
	closeFn := func() { _ = db.Close() }
	return &Repository{db: db, cfg: cfg}, closeFn, nil
}

// CopyFrom inserts rows with a single multi-row INSERT and returns the
// affected count reported by the server.
func (r *Repository) CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	if len(columns) == 0 {
		return 0, fmt.Errorf("mysql: CopyFrom: no columns provided")
	}

	args := make([]any, 0, len(rows)*len(columns))
	for _, row := range rows {
		if len(row) != len(columns) {
			return 0, fmt.Errorf("mysql: CopyFrom: row length %d != columns length %d", len(row), len(columns))
		}
		args = append(args, row...)
	}

	res, err := r.db.ExecContext(ctx, insertSQL(r.cfg.Table, columns, len(rows)), args...)
	if err != nil {
		return 0, fmt.Errorf("mysql: insert: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("mysql: rows affected: %w", err)
	}
	return n, nil
}

// Exec implements storage.Repository.Exec for MySQL. Blank statements are a
// no-op so callers can pass through optional DDL unconditionally.
func (r *Repository) Exec(ctx context.Context, stmt string) error {
	if strings.TrimSpace(stmt) == "" {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("mysql: exec: %w", err)
	}
	return nil
}

// insertSQL builds a multi-row INSERT statement with one placeholder group
// per row.
func insertSQL(table string, columns []string, nRows int) string {
	quoted := make([]string, len(columns))
	marks := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = myIdent(c)
		marks[i] = "?"
	}
	group := "(" + strings.Join(marks, ", ") + ")"
	groups := make([]string, nRows)
	for i := range groups {
		groups[i] = group
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		myFQN(table), strings.Join(quoted, ", "), strings.Join(groups, ", "))
}

// myIdent quotes a single identifier segment with backticks for MySQL.
func myIdent(id string) string { return "`" + strings.ReplaceAll(id, "`", "``") + "`" }

// myFQN quotes a possibly db-qualified name like "warehouse.sales_clean" to
// `warehouse`.`sales_clean`.
func myFQN(name string) string {
	parts := strings.Split(name, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, myIdent(p))
		}
	}
	return strings.Join(out, ".")
}
