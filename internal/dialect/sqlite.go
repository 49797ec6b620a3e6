package dialect

import (
	"context"
	"fmt"
)

// SQLiteDialect defers foreign key enforcement to commit for the drop
// transaction. PRAGMA foreign_keys is a no-op inside a transaction, but
// defer_foreign_keys applies to the open one and resets when it ends, so
// there is nothing to restore afterwards.
type SQLiteDialect struct{}

func (d *SQLiteDialect) Name() string { return SQLite }

func (d *SQLiteDialect) ListTablesQuery() string {
	return "SELECT name FROM sqlite_master WHERE type='table';"
}

func (d *SQLiteDialect) Unwrap(env Envelope) ([]Row, error) {
	return unwrapResultSet(SQLite, env)
}

func (d *SQLiteDialect) CountQuery(table string) string {
	return fmt.Sprintf(`SELECT count(*) AS "count" FROM %s`, d.QuoteIdent(table))
}

func (d *SQLiteDialect) CountField() string {
	return "count"
}

func (d *SQLiteDialect) DropTables(ctx context.Context, c Client, tables []string) error {
	return dropInTx(ctx, c, txDropPlan{
		dialect: SQLite,
		prelude: "PRAGMA defer_foreign_keys = ON",
		drop: execDrop(SQLite, func(table string) string {
			return "DROP TABLE " + d.QuoteIdent(table)
		}),
	}, tables)
}

func (d *SQLiteDialect) QuoteIdent(name string) string {
	return quoteWith(name, `"`, `"`)
}

func (d *SQLiteDialect) sealed() {}
