package sqlexec

import (
	"context"
	"database/sql"

	"db-tables/internal/dialect"
	"db-tables/internal/logging"
)

func runExec(ctx context.Context, ex ExecQuerier, query string) error {
	logging.FromContext(ctx).Debug("exec", "sql", query)
	_, err := ex.ExecContext(ctx, query)
	return err
}

func runQuery(ctx context.Context, ex ExecQuerier, tag, query string) (dialect.Envelope, error) {
	logging.FromContext(ctx).Debug("query", "sql", query)
	rows, err := ex.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	out, err := scanRows(rows, columns)
	if err != nil {
		return nil, err
	}
	return shape(tag, columns, out), nil
}

// scanRows keeps the column order of the result, which is what lets callers
// take "the first field" of a row without knowing its name.
func scanRows(rows *sql.Rows, columns []string) ([]dialect.Row, error) {
	var out []dialect.Row
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(dialect.Row, len(columns))
		for i, name := range columns {
			row[i] = dialect.Field{Name: name, Value: normalizeValue(values[i])}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// normalizeValue copies driver-owned byte slices into strings.
func normalizeValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

// shape builds the dialect's native envelope: MySQL hands back the row array
// itself, the other engines wrap it in a result set.
func shape(tag string, columns []string, rows []dialect.Row) dialect.Envelope {
	if tag == dialect.MySQL {
		return dialect.RowList(rows)
	}
	return &dialect.ResultSet{Rows: rows, Columns: columns}
}
