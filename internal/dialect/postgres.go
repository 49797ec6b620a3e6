package dialect

import (
	"context"
	"fmt"
	"strings"

	"db-tables/internal/logging"
)

type PostgresDialect struct{}

func (d *PostgresDialect) Name() string { return Postgres }

func (d *PostgresDialect) ListTablesQuery() string {
	return "SELECT tablename FROM pg_catalog.pg_tables WHERE schemaname='public';"
}

func (d *PostgresDialect) Unwrap(env Envelope) ([]Row, error) {
	return unwrapResultSet(Postgres, env)
}

// CountQuery relies on Postgres naming an unaliased count(*) column "count".
func (d *PostgresDialect) CountQuery(table string) string {
	return fmt.Sprintf("SELECT count(*) FROM %s", d.QuoteIdent(table))
}

func (d *PostgresDialect) CountField() string {
	return "count"
}

// DropTables issues one cascading statement outside an explicit transaction.
// Names are quoted whole, so a schema-qualified "public.users" would name a
// table that does not exist and IF EXISTS would hide it; such names are rejected.
func (d *PostgresDialect) DropTables(ctx context.Context, c Client, tables []string) error {
	for _, t := range tables {
		if strings.Contains(t, ".") {
			return &InvalidArgumentError{
				Op:     "drop tables",
				Reason: fmt.Sprintf("schema-qualified table name %q is not supported, use the bare name from schema public", t),
			}
		}
	}
	q := d.dropQuery(tables)
	logging.FromContext(ctx).Debug("dropping tables", "dialect", Postgres, "tables", tables)
	if err := c.Exec(ctx, q); err != nil {
		return &DropExecutionError{
			Dialect:  Postgres,
			Restored: true,
			Err:      &QueryExecutionError{Dialect: Postgres, Op: "drop tables", Query: q, Err: err},
		}
	}
	return nil
}

func (d *PostgresDialect) dropQuery(tables []string) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", JoinQuoted(tables, d.QuoteIdent, ","))
}

func (d *PostgresDialect) QuoteIdent(name string) string {
	return quoteWith(name, `"`, `"`)
}

func (d *PostgresDialect) sealed() {}
