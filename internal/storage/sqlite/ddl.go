package sqlite

import (
	"fmt"
	"strings"
)

// CreateTableSQL returns the CREATE TABLE IF NOT EXISTS statement for the
// cleaned-sales table. Text columns get TEXT affinity; price, quantity, and
// total_sales are REAL. There is no primary key: exact duplicate rows are
// legitimate sales and must all load.
func CreateTableSQL(table string) (string, error) {
	fqn := strings.TrimSpace(table)
	if fqn == "" {
		return "", fmt.Errorf("sqlite ddl: table name must not be empty")
	}
	return fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (\n"+
			"  %s TEXT NOT NULL,\n"+
			"  %s TEXT NOT NULL,\n"+
			"  %s REAL NOT NULL,\n"+
			"  %s REAL NOT NULL,\n"+
			"  %s REAL NOT NULL\n"+
			");",
		sqlFQN(fqn),
		sqlIdent("product"),
		sqlIdent("category"),
		sqlIdent("price"),
		sqlIdent("quantity"),
		sqlIdent("total_sales"),
	), nil
}

// sqlIdent quotes a single identifier segment, escaping embedded quotes:
//
//	sqlIdent(`sales`)       => `"sales"`
//	sqlIdent(`weird"name`)  => `"weird""name"`
func sqlIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}

// sqlFQN quotes a possibly schema-qualified name like "main.sales" to
// `"main"."sales"`. Empty segments are ignored.
func sqlFQN(f string) string {
	parts := strings.Split(f, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		out = append(out, sqlIdent(p))
	}
	return strings.Join(out, ".")
}
