package dialect_test

import (
	"context"
	"errors"
	"testing"

	"db-tables/internal/dialect"
	"db-tables/internal/dialect/dialecttest"
	"db-tables/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMysqlDropTables_Success(t *testing.T) {
	c := dialecttest.New(dialect.MySQL)
	d, _ := dialect.For(c)

	require.NoError(t, d.DropTables(testutil.Context(t), c, []string{"orders", "users"}))
	assert.Equal(t, []string{
		"session",
		"exec: SET FOREIGN_KEY_CHECKS = 0",
		"begin",
		"exec: DROP TABLE `orders`",
		"exec: DROP TABLE `users`",
		"commit",
		"exec: SET FOREIGN_KEY_CHECKS = 1",
		"close",
	}, c.Calls())
}

func TestMysqlDropTables_FailureRestoresChecks(t *testing.T) {
	boom := errors.New("table is locked")
	c := dialecttest.New(dialect.MySQL).FailOn("DROP TABLE `users`", boom)
	d, _ := dialect.For(c)

	err := d.DropTables(testutil.Context(t), c, []string{"orders", "users", "logs"})
	require.Error(t, err)
	assert.ErrorIs(t, err, dialect.ErrDropExecution)
	assert.ErrorIs(t, err, dialect.ErrQueryExecution)
	assert.ErrorIs(t, err, boom)

	var de *dialect.DropExecutionError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "users", de.Table)
	assert.Equal(t, []string{"orders"}, de.Dropped)
	assert.True(t, de.RolledBack)
	assert.True(t, de.Restored)
	assert.NoError(t, de.RestoreErr)

	assert.Equal(t, []string{
		"session",
		"exec: SET FOREIGN_KEY_CHECKS = 0",
		"begin",
		"exec: DROP TABLE `orders`",
		"exec: DROP TABLE `users`",
		"rollback",
		"exec: SET FOREIGN_KEY_CHECKS = 1",
		"close",
	}, c.Calls())
}

func TestMysqlDropTables_RestoreFailureIsReported(t *testing.T) {
	c := dialecttest.New(dialect.MySQL).
		FailOn("DROP TABLE `a`", errors.New("drop failed")).
		FailOn("SET FOREIGN_KEY_CHECKS = 1", errors.New("connection lost"))
	d, _ := dialect.For(c)

	err := d.DropTables(testutil.Context(t), c, []string{"a"})
	var de *dialect.DropExecutionError
	require.ErrorAs(t, err, &de)
	assert.False(t, de.Restored)
	require.Error(t, de.RestoreErr)
	assert.Contains(t, err.Error(), "NOT restored")

	// the restore statement is attempted once, not retried by the deferred guard
	n := 0
	for _, call := range c.Calls() {
		if call == "exec: SET FOREIGN_KEY_CHECKS = 1" {
			n++
		}
	}
	assert.Equal(t, 1, n)
}

func TestMysqlDropTables_CommitFailure(t *testing.T) {
	c := dialecttest.New(dialect.MySQL).FailOn("commit", errors.New("deadlock"))
	d, _ := dialect.For(c)

	err := d.DropTables(testutil.Context(t), c, []string{"a", "b"})
	var de *dialect.DropExecutionError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, []string{"a", "b"}, de.Dropped)
	assert.True(t, de.Restored)
	assert.Contains(t, c.Calls(), "exec: SET FOREIGN_KEY_CHECKS = 1")
}

func TestMysqlDropTables_SuspendFailure(t *testing.T) {
	c := dialecttest.New(dialect.MySQL).FailOn("SET FOREIGN_KEY_CHECKS = 0", errors.New("denied"))
	d, _ := dialect.For(c)

	err := d.DropTables(testutil.Context(t), c, []string{"a"})
	var de *dialect.DropExecutionError
	require.ErrorAs(t, err, &de)
	assert.True(t, de.Restored)
	assert.Equal(t, []string{"session", "exec: SET FOREIGN_KEY_CHECKS = 0", "close"}, c.Calls())
}

func TestMysqlDropTables_CancelledContextStillRestores(t *testing.T) {
	ctx, cancel := context.WithCancel(testutil.Context(t))
	defer cancel()

	c := dialecttest.New(dialect.MySQL)
	c.OnExec = func(query string) {
		if query == "DROP TABLE `a`" {
			cancel()
		}
	}
	d, _ := dialect.For(c)

	err := d.DropTables(ctx, c, []string{"a", "b"})
	var de *dialect.DropExecutionError
	require.ErrorAs(t, err, &de)
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, de.Restored)
	assert.Equal(t, "exec: SET FOREIGN_KEY_CHECKS = 1", c.Calls()[len(c.Calls())-2])
}

func TestPostgresDropTables(t *testing.T) {
	c := dialecttest.New(dialect.Postgres)
	d, _ := dialect.For(c)

	require.NoError(t, d.DropTables(testutil.Context(t), c, []string{"a", "b"}))
	assert.Equal(t, []string{`exec: DROP TABLE IF EXISTS "a","b" CASCADE`}, c.Calls())
}

func TestPostgresDropTables_Failure(t *testing.T) {
	q := `DROP TABLE IF EXISTS "a" CASCADE`
	c := dialecttest.New(dialect.Postgres).FailOn(q, errors.New("permission denied"))
	d, _ := dialect.For(c)

	err := d.DropTables(testutil.Context(t), c, []string{"a"})
	var de *dialect.DropExecutionError
	require.ErrorAs(t, err, &de)
	assert.True(t, de.Restored)
	assert.ErrorIs(t, err, dialect.ErrQueryExecution)
}

func TestPostgresDropTables_RejectsQualifiedNames(t *testing.T) {
	c := dialecttest.New(dialect.Postgres)
	d, _ := dialect.For(c)

	err := d.DropTables(testutil.Context(t), c, []string{"users", "public.orders"})
	assert.ErrorIs(t, err, dialect.ErrInvalidArgument)
	assert.ErrorContains(t, err, "public.orders")
	assert.Empty(t, c.Calls())
}

func TestSQLiteDropTables(t *testing.T) {
	c := dialecttest.New(dialect.SQLite)
	d, _ := dialect.For(c)

	require.NoError(t, d.DropTables(testutil.Context(t), c, []string{"a", "b"}))
	assert.Equal(t, []string{
		"session",
		"begin",
		"exec: PRAGMA defer_foreign_keys = ON",
		`exec: DROP TABLE "a"`,
		`exec: DROP TABLE "b"`,
		"commit",
		"close",
	}, c.Calls())
}

func TestSQLiteDropTables_DeferKeysFailure(t *testing.T) {
	c := dialecttest.New(dialect.SQLite).FailOn("PRAGMA defer_foreign_keys = ON", errors.New("database is locked"))
	d, _ := dialect.For(c)

	err := d.DropTables(testutil.Context(t), c, []string{"a"})
	var de *dialect.DropExecutionError
	require.ErrorAs(t, err, &de)
	assert.ErrorIs(t, err, dialect.ErrQueryExecution)
	assert.Empty(t, de.Dropped)
	assert.True(t, de.RolledBack)
	assert.Equal(t, []string{
		"session",
		"begin",
		"exec: PRAGMA defer_foreign_keys = ON",
		"rollback",
		"close",
	}, c.Calls())
}

func TestSQLiteDropTables_RollsBack(t *testing.T) {
	c := dialecttest.New(dialect.SQLite).FailOn(`DROP TABLE "b"`, errors.New("no such table: b"))
	d, _ := dialect.For(c)

	err := d.DropTables(testutil.Context(t), c, []string{"a", "b"})
	var de *dialect.DropExecutionError
	require.ErrorAs(t, err, &de)
	assert.True(t, de.RolledBack)
	assert.True(t, de.Restored)
	assert.Equal(t, "rollback", c.Calls()[len(c.Calls())-2])
}

func TestMSSQLDropTables_DropsReferencingKeys(t *testing.T) {
	c := dialecttest.New(dialect.MSSQL)
	d, _ := dialect.For(c)
	fkQuery := `SELECT 'ALTER TABLE ' + QUOTENAME(OBJECT_SCHEMA_NAME(fk.parent_object_id)) + '.' + QUOTENAME(OBJECT_NAME(fk.parent_object_id))` +
		` + ' DROP CONSTRAINT ' + QUOTENAME(fk.name) AS stmt` +
		` FROM sys.foreign_keys fk WHERE fk.referenced_object_id = OBJECT_ID(N'[users]')`
	c.Returns(fkQuery, &dialect.ResultSet{Rows: []dialect.Row{
		{{Name: "stmt", Value: "ALTER TABLE [dbo].[orders] DROP CONSTRAINT [fk_orders_users]"}},
	}})

	require.NoError(t, d.DropTables(testutil.Context(t), c, []string{"users"}))
	assert.Equal(t, []string{
		"session",
		"begin",
		"query: " + fkQuery,
		"exec: ALTER TABLE [dbo].[orders] DROP CONSTRAINT [fk_orders_users]",
		"exec: DROP TABLE [users]",
		"commit",
		"close",
	}, c.Calls())
}

func TestOracleDropTables(t *testing.T) {
	c := dialecttest.New(dialect.Oracle).FailOn(`DROP TABLE "B" CASCADE CONSTRAINTS PURGE`, errors.New("ORA-00942"))
	d, _ := dialect.For(c)

	err := d.DropTables(testutil.Context(t), c, []string{"A", "B", "C"})
	var de *dialect.DropExecutionError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, []string{"A"}, de.Dropped)
	assert.Equal(t, "B", de.Table)
	assert.Equal(t, []string{
		`exec: DROP TABLE "A" CASCADE CONSTRAINTS PURGE`,
		`exec: DROP TABLE "B" CASCADE CONSTRAINTS PURGE`,
	}, c.Calls())
}
