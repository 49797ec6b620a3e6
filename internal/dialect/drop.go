package dialect

import (
	"context"
	"errors"
	"fmt"

	"db-tables/internal/logging"
)

// checkGuard owns a suspended integrity check on one session and restores it
// exactly once. Restore runs detached from the caller's cancellation so a
// cancelled drop cannot leave the session with checks disabled.
type checkGuard struct {
	exec    Executor
	restore string
	done    bool
	err     error
}

func suspendChecks(ctx context.Context, exec Executor, disable, restore string) (*checkGuard, error) {
	if err := exec.Exec(ctx, disable); err != nil {
		return nil, err
	}
	return &checkGuard{exec: exec, restore: restore}, nil
}

// Restore is idempotent; only the first call reaches the engine.
func (g *checkGuard) Restore(ctx context.Context) error {
	if g == nil {
		return nil
	}
	if !g.done {
		g.done = true
		g.err = g.exec.Exec(context.WithoutCancel(ctx), g.restore)
	}
	return g.err
}

// txDropPlan describes a sequential drop inside one transaction on a pinned session.
type txDropPlan struct {
	dialect string
	// disable/restore toggle integrity checks around the transaction; empty
	// when the engine has no such toggle.
	disable string
	restore string
	// prelude runs first inside the transaction, for per-transaction settings
	// that reset on their own at commit or rollback.
	prelude string
	drop    func(ctx context.Context, tx Tx, table string) error
}

// dropInTx walks Idle -> ChecksDisabled -> Dropping -> Committed|RolledBack
// -> ChecksRestored. Dropped lists the statements that succeeded; on engines
// where DDL commits implicitly (MySQL) those tables are gone even after a rollback.
func dropInTx(ctx context.Context, c Client, plan txDropPlan, tables []string) error {
	logger := logging.FromContext(ctx).With("dialect", plan.dialect)

	sess, err := c.Session(ctx)
	if err != nil {
		return &DropExecutionError{Dialect: plan.dialect, Restored: true, Err: fmt.Errorf("open session: %w", err)}
	}
	defer func() {
		if err := sess.Close(); err != nil {
			logger.Warn("failed to release session", "error", err)
		}
	}()

	var guard *checkGuard
	if plan.disable != "" {
		logger.Debug("disabling foreign key checks")
		guard, err = suspendChecks(ctx, sess, plan.disable, plan.restore)
		if err != nil {
			// Checks were never disabled.
			return &DropExecutionError{Dialect: plan.dialect, Restored: true, Err: fmt.Errorf("suspend foreign key checks: %w", err)}
		}
		// Restored explicitly below; the deferred call only matters on panic.
		defer func() { _ = guard.Restore(ctx) }()
	}

	fail := func(table string, dropped []string, rolledBack bool, cause error) error {
		restoreErr := guard.Restore(ctx)
		if restoreErr != nil {
			logger.Error("failed to restore foreign key checks", "error", restoreErr)
		}
		return &DropExecutionError{
			Dialect:    plan.dialect,
			Table:      table,
			Dropped:    dropped,
			RolledBack: rolledBack,
			Restored:   restoreErr == nil,
			RestoreErr: restoreErr,
			Err:        cause,
		}
	}

	tx, err := sess.Begin(ctx)
	if err != nil {
		return fail("", nil, false, fmt.Errorf("begin transaction: %w", err))
	}

	if plan.prelude != "" {
		if err := tx.Exec(ctx, plan.prelude); err != nil {
			err = &QueryExecutionError{Dialect: plan.dialect, Op: "drop tables", Query: plan.prelude, Err: err}
			rbErr := tx.Rollback()
			if rbErr != nil {
				err = errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
			}
			return fail("", nil, rbErr == nil, err)
		}
	}

	dropped := make([]string, 0, len(tables))
	for _, table := range tables {
		logger.Debug("dropping table", "table", table)
		if err := plan.drop(ctx, tx, table); err != nil {
			rbErr := tx.Rollback()
			if rbErr != nil {
				err = errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
			}
			return fail(table, dropped, rbErr == nil, err)
		}
		dropped = append(dropped, table)
	}

	if err := tx.Commit(); err != nil {
		return fail("", dropped, false, fmt.Errorf("commit: %w", err))
	}

	if guard != nil {
		logger.Debug("enabling foreign key checks")
		if err := guard.Restore(ctx); err != nil {
			return &DropExecutionError{
				Dialect:    plan.dialect,
				Dropped:    dropped,
				RestoreErr: err,
				Err:        errors.New("tables dropped but foreign key checks could not be restored"),
			}
		}
	}
	return nil
}
