package mysql

import (
	"fmt"
	"strings"
)

// CreateTableSQL returns the DDL for the cleaned sales table. Text dimensions
// are TEXT NOT NULL, measures are DOUBLE NOT NULL. No primary key is declared;
// duplicate rows are legitimate sales and must all load.
func CreateTableSQL(table string) (string, error) {
	if strings.TrimSpace(table) == "" {
		return "", fmt.Errorf("mysql ddl: table name must not be empty")
	}
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", myFQN(table))
	b.WriteString("  " + myIdent("product") + " TEXT NOT NULL,\n")
	b.WriteString("  " + myIdent("category") + " TEXT NOT NULL,\n")
	b.WriteString("  " + myIdent("price") + " DOUBLE NOT NULL,\n")
	b.WriteString("  " + myIdent("quantity") + " DOUBLE NOT NULL,\n")
	b.WriteString("  " + myIdent("total_sales") + " DOUBLE NOT NULL\n")
	b.WriteString(");")
	return b.String(), nil
}
