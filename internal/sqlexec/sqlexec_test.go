package sqlexec

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"slices"
	"testing"

	"db-tables/internal/dialect"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T, tag string) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return OpenDB(tag, db), mock
}

func TestOpenDB_NormalizesDialect(t *testing.T) {
	tests := map[string]string{
		"mysql":     dialect.MySQL,
		"pgx":       dialect.Postgres,
		"postgres":  dialect.Postgres,
		"sqlite":    dialect.SQLite,
		"sqlite3":   dialect.SQLite,
		"mssql":     dialect.MSSQL,
		"oracle":    dialect.Oracle,
		"something": "something",
	}
	for tag, want := range tests {
		assert.Equal(t, want, OpenDB(tag, nil).Dialect(), tag)
	}
}

func TestQuery_MySQLEnvelopeIsRowList(t *testing.T) {
	d, mock := newMock(t, dialect.MySQL)
	mock.ExpectQuery("SHOW TABLES").WillReturnRows(
		sqlmock.NewRows([]string{"Tables_in_app"}).AddRow([]byte("users")).AddRow("logs"),
	)

	env, err := d.Query(context.Background(), "SHOW TABLES")
	require.NoError(t, err)

	rows, ok := env.(dialect.RowList)
	require.True(t, ok, "expected RowList, got %T", env)
	require.Len(t, rows, 2)
	assert.Equal(t, dialect.Row{{Name: "Tables_in_app", Value: "users"}}, rows[0])
	assert.Equal(t, dialect.Row{{Name: "Tables_in_app", Value: "logs"}}, rows[1])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQuery_PostgresEnvelopeIsResultSet(t *testing.T) {
	d, mock := newMock(t, dialect.Postgres)
	q := `SELECT count(*), 'x' AS other FROM "users"`
	mock.ExpectQuery(q).WillReturnRows(
		sqlmock.NewRows([]string{"count", "other"}).AddRow(int64(3), "x"),
	)

	env, err := d.Query(context.Background(), q)
	require.NoError(t, err)

	rs, ok := env.(*dialect.ResultSet)
	require.True(t, ok, "expected *ResultSet, got %T", env)
	assert.Equal(t, []string{"count", "other"}, rs.Columns)
	require.Len(t, rs.Rows, 1)
	assert.Equal(t, []string{"count", "other"}, rs.Rows[0].Names())
	v, _ := rs.Rows[0].Get("count")
	assert.Equal(t, int64(3), v)
}

func TestQuery_Error(t *testing.T) {
	d, mock := newMock(t, dialect.SQLite)
	boom := errors.New("no such table: nope")
	mock.ExpectQuery(`SELECT count(*) AS "count" FROM "nope"`).WillReturnError(boom)

	_, err := d.Query(context.Background(), `SELECT count(*) AS "count" FROM "nope"`)
	assert.ErrorIs(t, err, boom)
}

func TestExec(t *testing.T) {
	d, mock := newMock(t, dialect.Postgres)
	mock.ExpectExec(`DROP TABLE IF EXISTS "a" CASCADE`).WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, d.Exec(context.Background(), `DROP TABLE IF EXISTS "a" CASCADE`))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSession_TransactionOnPinnedConnection(t *testing.T) {
	d, mock := newMock(t, dialect.MySQL)
	mock.ExpectExec("SET FOREIGN_KEY_CHECKS = 0").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectBegin()
	mock.ExpectExec("DROP TABLE `a`").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	mock.ExpectExec("SET FOREIGN_KEY_CHECKS = 1").WillReturnResult(sqlmock.NewResult(0, 0))

	ctx := context.Background()
	sess, err := d.Session(ctx)
	require.NoError(t, err)
	require.NoError(t, sess.Exec(ctx, "SET FOREIGN_KEY_CHECKS = 0"))
	tx, err := sess.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.Exec(ctx, "DROP TABLE `a`"))
	require.NoError(t, tx.Commit())
	require.NoError(t, sess.Exec(ctx, "SET FOREIGN_KEY_CHECKS = 1"))
	require.NoError(t, sess.Close())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNormalizeValue(t *testing.T) {
	assert.Equal(t, "42", normalizeValue([]byte("42")))
	assert.Equal(t, int64(42), normalizeValue(int64(42)))
	assert.Nil(t, normalizeValue(nil))
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open("no-such-driver", "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open db")
}

func TestOpen_TagOverridesDriver(t *testing.T) {
	if !slices.Contains(sql.Drivers(), "sqlexec-test-driver") {
		sql.Register("sqlexec-test-driver", stubDriver{})
	}

	d, err := Open("sqlexec-test-driver", "", dialect.Postgres)
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	assert.Equal(t, dialect.Postgres, d.Dialect())

	d, err = Open("sqlexec-test-driver", "", "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	assert.Equal(t, "sqlexec-test-driver", d.Dialect())
}

type stubDriver struct{}

func (stubDriver) Open(string) (driver.Conn, error) { return nil, errors.New("not connected") }
