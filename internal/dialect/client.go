package dialect

import "context"

// Executor runs raw SQL text. Query returns the engine-native envelope,
// Exec is for statements that produce no rows.
type Executor interface {
	Query(ctx context.Context, query string) (Envelope, error)
	Exec(ctx context.Context, query string) error
}

// Client is the execution client a caller binds to exactly one dialect.
type Client interface {
	Executor
	// Dialect returns the dialect tag of the backing engine.
	Dialect() string
	// Session pins a single connection. Session-scoped flags such as
	// FOREIGN_KEY_CHECKS only hold on the connection that set them.
	Session(ctx context.Context) (Session, error)
}

// Session is one pinned connection.
type Session interface {
	Executor
	Begin(ctx context.Context) (Tx, error)
	Close() error
}

// Tx is a transaction opened on a Session.
type Tx interface {
	Executor
	Commit() error
	Rollback() error
}
