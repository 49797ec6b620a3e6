package dialect

import "context"

// Dialect abstracts engine-specific catalog, counting and drop operations.
// The set of implementations is closed: only this package can satisfy it.
type Dialect interface {
	// Name returns the canonical dialect tag.
	Name() string

	// Catalog
	ListTablesQuery() string
	Unwrap(env Envelope) ([]Row, error)

	// Row counting
	CountQuery(table string) string
	CountField() string

	// DropTables removes tables using the engine's safest mechanism.
	DropTables(ctx context.Context, c Client, tables []string) error

	// QuoteIdent quotes a table identifier for this engine.
	QuoteIdent(name string) string

	sealed()
}
