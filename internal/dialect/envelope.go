package dialect

import "fmt"

// Field is a single column value of a result row.
type Field struct {
	Name  string
	Value any
}

// Row keeps the fields in the order the engine returned them.
type Row []Field

// Get returns the value of the named field.
func (r Row) Get(name string) (any, bool) {
	for _, f := range r {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Names returns the field names in order.
func (r Row) Names() []string {
	names := make([]string, len(r))
	for i, f := range r {
		names[i] = f.Name
	}
	return names
}

// Envelope is the dialect-shaped container returned by Executor.Query.
// Each Dialect knows how to unwrap its own shape.
type Envelope interface {
	envelope()
}

// RowList is an envelope that is the row array itself (MySQL).
type RowList []Row

// ResultSet is an envelope carrying rows under a field (Postgres, SQLite, ...).
type ResultSet struct {
	Rows    []Row
	Columns []string
}

func (RowList) envelope()    {}
func (*ResultSet) envelope() {}

// unwrapRowList and unwrapResultSet are shared by the dialect implementations.
func unwrapRowList(dialect string, env Envelope) ([]Row, error) {
	rows, ok := env.(RowList)
	if !ok {
		return nil, &MalformedRowError{Dialect: dialect, Reason: fmt.Sprintf("expected row list envelope, got %T", env)}
	}
	return rows, nil
}

func unwrapResultSet(dialect string, env Envelope) ([]Row, error) {
	rs, ok := env.(*ResultSet)
	if !ok || rs == nil {
		return nil, &MalformedRowError{Dialect: dialect, Reason: fmt.Sprintf("expected result set envelope, got %T", env)}
	}
	return rs.Rows, nil
}
