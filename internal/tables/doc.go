// Package tables lists, counts and drops user tables through a dialect.Client.
//
// Each operation resolves the client's dialect first, so an unknown dialect
// tag fails with dialect.ErrUnsupportedDialect before any SQL is issued.
// Nothing is retried.
package tables
