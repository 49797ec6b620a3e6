package tables

import (
	"context"
	"fmt"

	"db-tables/internal/dialect"
	"db-tables/internal/logging"
)

// DropTables drops names with the dialect's safest mechanism. names must be
// non-empty; an empty list fails with dialect.ErrInvalidArgument and issues
// no SQL. Failures are *dialect.DropExecutionError.
func DropTables(ctx context.Context, c dialect.Client, names []string) error {
	const op = "drop tables"
	d, err := resolve(c, op)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return &dialect.InvalidArgumentError{Op: op, Reason: "no tables given"}
	}
	for i, n := range names {
		if n == "" {
			return &dialect.InvalidArgumentError{Op: op, Reason: fmt.Sprintf("table name at index %d is empty", i)}
		}
	}

	logger := logging.FromContext(ctx)
	logger.Info("dropping tables", "dialect", d.Name(), "count", len(names))
	if err := d.DropTables(ctx, c, names); err != nil {
		return err
	}
	logger.Info("tables dropped", "dialect", d.Name(), "count", len(names))
	return nil
}
