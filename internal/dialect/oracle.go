package dialect

import (
	"context"
	"fmt"

	"db-tables/internal/logging"
)

// OracleDialect drops with CASCADE CONSTRAINTS. Oracle DDL commits implicitly,
// so there is no transaction to open and nothing to roll back.
type OracleDialect struct{}

func (d *OracleDialect) Name() string { return Oracle }

// ListTablesQuery lists the tables owned by the current user.
func (d *OracleDialect) ListTablesQuery() string {
	return "SELECT TABLE_NAME FROM USER_TABLES"
}

func (d *OracleDialect) Unwrap(env Envelope) ([]Row, error) {
	return unwrapResultSet(Oracle, env)
}

func (d *OracleDialect) CountQuery(table string) string {
	return fmt.Sprintf(`SELECT COUNT(*) AS "count" FROM %s`, d.QuoteIdent(table))
}

func (d *OracleDialect) CountField() string {
	return "count"
}

func (d *OracleDialect) DropTables(ctx context.Context, c Client, tables []string) error {
	logger := logging.FromContext(ctx).With("dialect", Oracle)
	dropped := make([]string, 0, len(tables))
	for _, table := range tables {
		q := fmt.Sprintf("DROP TABLE %s CASCADE CONSTRAINTS PURGE", d.QuoteIdent(table))
		logger.Debug("dropping table", "table", table)
		if err := c.Exec(ctx, q); err != nil {
			return &DropExecutionError{
				Dialect:  Oracle,
				Table:    table,
				Dropped:  dropped,
				Restored: true,
				Err:      &QueryExecutionError{Dialect: Oracle, Op: "drop tables", Query: q, Err: err},
			}
		}
		dropped = append(dropped, table)
	}
	return nil
}

// QuoteIdent quotes as-is; catalog names are already upper case.
func (d *OracleDialect) QuoteIdent(name string) string {
	return quoteWith(name, `"`, `"`)
}

func (d *OracleDialect) sealed() {}
