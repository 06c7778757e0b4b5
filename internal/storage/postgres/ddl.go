package postgres

import (
	"fmt"
	"strings"
)

// CreateTableSQL returns the DDL for the cleaned sales table. The schema is
// fixed: text dimensions are NOT NULL, measures are DOUBLE PRECISION NOT NULL.
// No primary key is declared; duplicate rows are legitimate sales and must
// all load.
func CreateTableSQL(table string) (string, error) {
	if strings.TrimSpace(table) == "" {
		return "", fmt.Errorf("postgres ddl: table name must not be empty")
	}
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", pgFQN(table))
	b.WriteString("  " + pgIdent("product") + " TEXT NOT NULL,\n")
	b.WriteString("  " + pgIdent("category") + " TEXT NOT NULL,\n")
	b.WriteString("  " + pgIdent("price") + " DOUBLE PRECISION NOT NULL,\n")
	b.WriteString("  " + pgIdent("quantity") + " DOUBLE PRECISION NOT NULL,\n")
	b.WriteString("  " + pgIdent("total_sales") + " DOUBLE PRECISION NOT NULL\n")
	b.WriteString(");")
	return b.String(), nil
}
