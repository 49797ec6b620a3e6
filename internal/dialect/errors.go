package dialect

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	mssql "github.com/denisenkom/go-mssqldb"
	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/sijms/go-ora/v2/network"
	"modernc.org/sqlite"
)

// Sentinel errors. Every typed error below matches its sentinel with errors.Is.
var (
	ErrUnsupportedDialect = errors.New("dialect: unsupported dialect")
	ErrQueryExecution     = errors.New("dialect: query execution failed")
	ErrMalformedRow       = errors.New("dialect: malformed row")
	ErrCountFieldMissing  = errors.New("dialect: count field missing")
	ErrInvalidArgument    = errors.New("dialect: invalid argument")
	ErrDropExecution      = errors.New("dialect: drop execution failed")
)

// UnsupportedDialectError is returned for a dialect tag that has no strategy.
// It is a configuration error and is never retried.
type UnsupportedDialectError struct {
	Tag string
	Op  string
}

func (e *UnsupportedDialectError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("dialect: unsupported dialect %q", e.Tag)
	}
	return fmt.Sprintf("dialect: %s: unsupported dialect %q", e.Op, e.Tag)
}

func (e *UnsupportedDialectError) Is(target error) bool { return target == ErrUnsupportedDialect }

// QueryExecutionError wraps a failure reported by the execution client.
type QueryExecutionError struct {
	Dialect string
	Op      string
	Query   string
	Err     error
}

func (e *QueryExecutionError) Error() string {
	msg := fmt.Sprintf("dialect: %s: %s: query %q failed", e.Dialect, e.Op, e.Query)
	if code := e.Code(); code != "" {
		msg += " (code " + code + ")"
	}
	return msg + ": " + e.Err.Error()
}

func (e *QueryExecutionError) Unwrap() error { return e.Err }

func (e *QueryExecutionError) Is(target error) bool { return target == ErrQueryExecution }

// Code returns the engine error code of the underlying driver error, if any.
func (e *QueryExecutionError) Code() string {
	return driverCode(e.Err)
}

// MalformedRowError reports a response whose shape does not match the dialect's contract.
type MalformedRowError struct {
	Dialect string
	Op      string
	Index   int
	Reason  string
	Err     error // underlying cause, if any
}

func (e *MalformedRowError) Error() string {
	var b strings.Builder
	b.WriteString("dialect: ")
	if e.Dialect != "" {
		b.WriteString(e.Dialect + ": ")
	}
	if e.Op != "" {
		b.WriteString(e.Op + ": ")
	}
	fmt.Fprintf(&b, "malformed row %d: %s", e.Index, e.Reason)
	return b.String()
}

func (e *MalformedRowError) Unwrap() error { return e.Err }

func (e *MalformedRowError) Is(target error) bool { return target == ErrMalformedRow }

// CountFieldMissingError means the count result lacks the dialect's count field,
// which points at a dialect/engine mismatch.
type CountFieldMissingError struct {
	Dialect string
	Table   string
	Field   string
	Got     []string
}

func (e *CountFieldMissingError) Error() string {
	return fmt.Sprintf("dialect: %s: count rows of %q: field %q missing from result (got %s)",
		e.Dialect, e.Table, e.Field, strings.Join(e.Got, ", "))
}

func (e *CountFieldMissingError) Is(target error) bool { return target == ErrCountFieldMissing }

// InvalidArgumentError is returned before any SQL is issued.
type InvalidArgumentError struct {
	Op     string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("dialect: %s: invalid argument: %s", e.Op, e.Reason)
}

func (e *InvalidArgumentError) Is(target error) bool { return target == ErrInvalidArgument }

// DropExecutionError reports a failed drop sequence. Restored tells whether the
// integrity checks are back in their original state; it is true for strategies
// that never suspend them.
type DropExecutionError struct {
	Dialect    string
	Table      string   // table being dropped when the failure happened, if any
	Dropped    []string // tables dropped before the failure
	RolledBack bool
	Restored   bool
	RestoreErr error
	Err        error
}

func (e *DropExecutionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "dialect: %s: drop tables", e.Dialect)
	if e.Table != "" {
		fmt.Fprintf(&b, ": table %q", e.Table)
	}
	b.WriteString(": " + e.Err.Error())
	if e.RolledBack {
		b.WriteString(" (rolled back)")
	}
	if !e.Restored {
		b.WriteString(" (foreign key checks NOT restored")
		if e.RestoreErr != nil {
			b.WriteString(": " + e.RestoreErr.Error())
		}
		b.WriteString(")")
	}
	return b.String()
}

func (e *DropExecutionError) Unwrap() []error {
	if e.RestoreErr != nil {
		return []error{e.Err, e.RestoreErr}
	}
	return []error{e.Err}
}

func (e *DropExecutionError) Is(target error) bool { return target == ErrDropExecution }

// IsUnsupportedDialect reports whether err is, or wraps, an UnsupportedDialectError.
func IsUnsupportedDialect(err error) bool {
	return errors.Is(err, ErrUnsupportedDialect)
}

// driverCode extracts the engine error code from the drivers we ship with.
func driverCode(err error) string {
	if err == nil {
		return ""
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return strconv.Itoa(int(myErr.Number))
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return strconv.Itoa(liteErr.Code())
	}
	var msErr mssql.Error
	if errors.As(err, &msErr) {
		return strconv.Itoa(int(msErr.Number))
	}
	var oraErr *network.OracleError
	if errors.As(err, &oraErr) {
		return strconv.Itoa(oraErr.ErrCode)
	}
	return ""
}
