// Package sqlexec implements dialect.Client on top of database/sql.
package sqlexec

import (
	"context"
	"database/sql"
	"fmt"

	"db-tables/internal/dialect"
)

// ExecQuerier wraps the standard Exec and Query methods shared by
// *sql.DB, *sql.Conn and *sql.Tx.
type ExecQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// DB is a dialect.Client backed by a *sql.DB.
type DB struct {
	db      *sql.DB
	dialect string
}

// Open wraps sql.Open. The driver picks the database/sql implementation, tag
// picks the dialect; an empty tag falls back to the driver name.
func Open(driver, dsn, tag string) (*DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	if tag == "" {
		tag = driver
	}
	return OpenDB(tag, db), nil
}

// OpenDB wraps an existing *sql.DB for the given dialect tag.
func OpenDB(tag string, db *sql.DB) *DB {
	return &DB{db: db, dialect: dialect.Normalize(tag)}
}

// Dialect implements dialect.Client.
func (d *DB) Dialect() string { return d.dialect }

// Ping verifies the connection.
func (d *DB) Ping(ctx context.Context) error {
	if err := d.db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to connect to db: %w", err)
	}
	return nil
}

// Close closes the underlying connection pool.
func (d *DB) Close() error { return d.db.Close() }

func (d *DB) Query(ctx context.Context, query string) (dialect.Envelope, error) {
	return runQuery(ctx, d.db, d.dialect, query)
}

func (d *DB) Exec(ctx context.Context, query string) error {
	return runExec(ctx, d.db, query)
}

// Session pins one connection from the pool.
func (d *DB) Session(ctx context.Context) (dialect.Session, error) {
	conn, err := d.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	return &Conn{conn: conn, dialect: d.dialect}, nil
}

// Conn implements dialect.Session over a *sql.Conn.
type Conn struct {
	conn    *sql.Conn
	dialect string
}

func (c *Conn) Query(ctx context.Context, query string) (dialect.Envelope, error) {
	return runQuery(ctx, c.conn, c.dialect, query)
}

func (c *Conn) Exec(ctx context.Context, query string) error {
	return runExec(ctx, c.conn, query)
}

// Begin starts a transaction on the pinned connection.
func (c *Conn) Begin(ctx context.Context) (dialect.Tx, error) {
	tx, err := c.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &Tx{tx: tx, dialect: c.dialect}, nil
}

// Close returns the connection to the pool.
func (c *Conn) Close() error { return c.conn.Close() }

// Tx implements dialect.Tx.
type Tx struct {
	tx      *sql.Tx
	dialect string
}

func (t *Tx) Query(ctx context.Context, query string) (dialect.Envelope, error) {
	return runQuery(ctx, t.tx, t.dialect, query)
}

func (t *Tx) Exec(ctx context.Context, query string) error {
	return runExec(ctx, t.tx, query)
}

func (t *Tx) Commit() error   { return t.tx.Commit() }
func (t *Tx) Rollback() error { return t.tx.Rollback() }

var (
	_ dialect.Client  = (*DB)(nil)
	_ dialect.Session = (*Conn)(nil)
	_ dialect.Tx      = (*Tx)(nil)
)
