package dialect

import (
	"context"
	"fmt"
)

// MSSQLDialect targets SQL Server. SQL Server refuses to drop a table that is
// still referenced by a foreign key even with NOCHECK, so the drop strategy
// removes referencing constraints first, inside the same transaction.
type MSSQLDialect struct{}

func (d *MSSQLDialect) Name() string { return MSSQL }

func (d *MSSQLDialect) ListTablesQuery() string {
	return "SELECT TABLE_NAME FROM INFORMATION_SCHEMA.TABLES WHERE TABLE_TYPE = 'BASE TABLE'"
}

func (d *MSSQLDialect) Unwrap(env Envelope) ([]Row, error) {
	return unwrapResultSet(MSSQL, env)
}

// CountQuery needs the alias: an unaliased COUNT(*) comes back with an empty column name.
func (d *MSSQLDialect) CountQuery(table string) string {
	return fmt.Sprintf("SELECT COUNT(*) AS [count] FROM %s", d.QuoteIdent(table))
}

func (d *MSSQLDialect) CountField() string {
	return "count"
}

func (d *MSSQLDialect) DropTables(ctx context.Context, c Client, tables []string) error {
	return dropInTx(ctx, c, txDropPlan{
		dialect: MSSQL,
		drop:    d.dropWithReferences,
	}, tables)
}

// referencingKeysQuery lists ALTER statements for the foreign keys pointing at table.
func (d *MSSQLDialect) referencingKeysQuery(table string) string {
	return `SELECT 'ALTER TABLE ' + QUOTENAME(OBJECT_SCHEMA_NAME(fk.parent_object_id)) + '.' + QUOTENAME(OBJECT_NAME(fk.parent_object_id))` +
		` + ' DROP CONSTRAINT ' + QUOTENAME(fk.name) AS stmt` +
		` FROM sys.foreign_keys fk WHERE fk.referenced_object_id = OBJECT_ID(N` + stringLiteral(d.QuoteIdent(table)) + `)`
}

func (d *MSSQLDialect) dropWithReferences(ctx context.Context, tx Tx, table string) error {
	q := d.referencingKeysQuery(table)
	env, err := tx.Query(ctx, q)
	if err != nil {
		return &QueryExecutionError{Dialect: MSSQL, Op: "drop tables", Query: q, Err: err}
	}
	rows, err := d.Unwrap(env)
	if err != nil {
		return err
	}
	for i, row := range rows {
		v, ok := row.Get("stmt")
		stmt, isString := v.(string)
		if !ok || !isString || stmt == "" {
			return &MalformedRowError{Dialect: MSSQL, Op: "drop tables", Index: i, Reason: "missing foreign key statement"}
		}
		if err := tx.Exec(ctx, stmt); err != nil {
			return &QueryExecutionError{Dialect: MSSQL, Op: "drop tables", Query: stmt, Err: err}
		}
	}
	return execDrop(MSSQL, func(t string) string {
		return "DROP TABLE " + d.QuoteIdent(t)
	})(ctx, tx, table)
}

func (d *MSSQLDialect) QuoteIdent(name string) string {
	return quoteWith(name, "[", "]")
}

func (d *MSSQLDialect) sealed() {}
