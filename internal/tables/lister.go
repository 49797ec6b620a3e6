package tables

import (
	"context"
	"errors"
	"fmt"

	"db-tables/internal/dialect"
	"db-tables/internal/logging"
)

// Options tunes GetTableNames.
type Options struct {
	// IgnoreTables are omitted from the listing.
	IgnoreTables []string
}

// GetTableNames lists the user tables in the order the engine returns them,
// minus opts.IgnoreTables. A nil opts means no exclusions.
func GetTableNames(ctx context.Context, c dialect.Client, opts *Options) ([]string, error) {
	const op = "list tables"
	d, err := resolve(c, op)
	if err != nil {
		return nil, err
	}
	if opts == nil {
		opts = &Options{}
	}

	query := d.ListTablesQuery()
	env, err := c.Query(ctx, query)
	if err != nil {
		return nil, &dialect.QueryExecutionError{Dialect: d.Name(), Op: op, Query: query, Err: err}
	}
	rows, err := d.Unwrap(env)
	if err != nil {
		return nil, err
	}

	ignore := make(map[string]struct{}, len(opts.IgnoreTables))
	for _, t := range opts.IgnoreTables {
		ignore[t] = struct{}{}
	}

	names := make([]string, 0, len(rows))
	for i, row := range rows {
		if len(row) == 0 {
			return nil, &dialect.MalformedRowError{Dialect: d.Name(), Op: op, Index: i, Reason: "row has no fields"}
		}
		name, err := tableName(row[0].Value)
		if err != nil {
			return nil, &dialect.MalformedRowError{Dialect: d.Name(), Op: op, Index: i, Reason: err.Error()}
		}
		if _, skip := ignore[name]; skip {
			continue
		}
		names = append(names, name)
	}

	logging.FromContext(ctx).Debug("listed tables", "dialect", d.Name(), "count", len(names), "ignored", len(rows)-len(names))
	return names, nil
}

func tableName(v any) (string, error) {
	switch v := v.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case nil:
		return "", fmt.Errorf("table name is NULL")
	default:
		return "", fmt.Errorf("table name has unexpected type %T", v)
	}
}

func resolve(c dialect.Client, op string) (dialect.Dialect, error) {
	d, err := dialect.For(c)
	if err != nil {
		var ue *dialect.UnsupportedDialectError
		if errors.As(err, &ue) {
			ue.Op = op
		}
		return nil, err
	}
	return d, nil
}
