package tables

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"db-tables/internal/dialect"

	"github.com/spf13/cast"
)

// GetTableRowCount returns the number of rows in table.
func GetTableRowCount(ctx context.Context, c dialect.Client, table string) (int64, error) {
	const op = "count rows"
	d, err := resolve(c, op)
	if err != nil {
		return 0, err
	}
	if table == "" {
		return 0, &dialect.InvalidArgumentError{Op: op, Reason: "table name is empty"}
	}

	query := d.CountQuery(table)
	env, err := c.Query(ctx, query)
	if err != nil {
		return 0, &dialect.QueryExecutionError{Dialect: d.Name(), Op: op, Query: query, Err: err}
	}
	rows, err := d.Unwrap(env)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, &dialect.MalformedRowError{Dialect: d.Name(), Op: op, Reason: "count returned no rows"}
	}

	field := d.CountField()
	v, ok := rows[0].Get(field)
	if !ok {
		return 0, &dialect.CountFieldMissingError{Dialect: d.Name(), Table: table, Field: field, Got: rows[0].Names()}
	}
	n, err := toCount(v)
	if err != nil {
		return 0, &dialect.MalformedRowError{Dialect: d.Name(), Op: op, Reason: err.Error(), Err: err}
	}
	return n, nil
}

// ErrCountOverflow is wrapped by the MalformedRowError returned for a count
// that does not fit in int64.
var ErrCountOverflow = errors.New("count overflows int64")

// toCount coerces the engine's count value (string, []byte, integer or float) to int64.
// Strings are read as base-10 only.
func toCount(v any) (int64, error) {
	if b, ok := v.([]byte); ok {
		v = string(b)
	}
	var n int64
	switch x := v.(type) {
	case nil:
		return 0, fmt.Errorf("count is NULL")
	case string:
		p, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		if errors.Is(err, strconv.ErrRange) {
			return 0, fmt.Errorf("count %s: %w", x, ErrCountOverflow)
		}
		if err != nil {
			return 0, fmt.Errorf("count %q is not an integer: %w", x, err)
		}
		n = p
	case uint:
		if uint64(x) > math.MaxInt64 {
			return 0, fmt.Errorf("count %d: %w", x, ErrCountOverflow)
		}
		n = int64(x)
	case uint64:
		if x > math.MaxInt64 {
			return 0, fmt.Errorf("count %d: %w", x, ErrCountOverflow)
		}
		n = int64(x)
	case float64:
		if x >= math.MaxInt64 {
			return 0, fmt.Errorf("count %v: %w", x, ErrCountOverflow)
		}
		n = int64(x)
	default:
		c, err := cast.ToInt64E(v)
		if err != nil {
			return 0, fmt.Errorf("count %v is not an integer: %w", v, err)
		}
		n = c
	}
	if n < 0 {
		return 0, fmt.Errorf("count %d is negative", n)
	}
	return n, nil
}
