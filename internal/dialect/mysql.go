package dialect

import (
	"context"
	"fmt"
)

type MysqlDialect struct{}

func (d *MysqlDialect) Name() string { return MySQL }

func (d *MysqlDialect) ListTablesQuery() string {
	return "SHOW TABLES"
}

// Unwrap returns the rows directly; the MySQL envelope is the row array itself.
func (d *MysqlDialect) Unwrap(env Envelope) ([]Row, error) {
	return unwrapRowList(MySQL, env)
}

// CountQuery leaves count(*) unaliased, MySQL names the column after the expression.
func (d *MysqlDialect) CountQuery(table string) string {
	return fmt.Sprintf("SELECT count(*) FROM %s", d.QuoteIdent(table))
}

func (d *MysqlDialect) CountField() string {
	return "count(*)"
}

// DropTables disables FOREIGN_KEY_CHECKS for the session, drops every table in
// order inside a transaction and re-enables the checks whatever the outcome.
func (d *MysqlDialect) DropTables(ctx context.Context, c Client, tables []string) error {
	return dropInTx(ctx, c, txDropPlan{
		dialect: MySQL,
		disable: "SET FOREIGN_KEY_CHECKS = 0",
		restore: "SET FOREIGN_KEY_CHECKS = 1",
		drop:    execDrop(MySQL, d.dropQuery),
	}, tables)
}

func (d *MysqlDialect) dropQuery(table string) string {
	return "DROP TABLE " + d.QuoteIdent(table)
}

func (d *MysqlDialect) QuoteIdent(name string) string {
	return quoteWith(name, "`", "`")
}

func (d *MysqlDialect) sealed() {}

// execDrop runs the single statement built by query inside tx.
func execDrop(dialect string, query func(string) string) func(context.Context, Tx, string) error {
	return func(ctx context.Context, tx Tx, table string) error {
		q := query(table)
		if err := tx.Exec(ctx, q); err != nil {
			return &QueryExecutionError{Dialect: dialect, Op: "drop tables", Query: q, Err: err}
		}
		return nil
	}
}
