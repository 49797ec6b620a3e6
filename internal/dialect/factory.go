package dialect

import "strings"

// Dialect tags.
const (
	MySQL    = "mysql"
	Postgres = "postgres"
	SQLite   = "sqlite"
	MSSQL    = "sqlserver"
	Oracle   = "oracle"
)

var aliases = map[string]string{
	"postgresql": Postgres,
	"pgx":        Postgres,
	"sqlite3":    SQLite,
	"mssql":      MSSQL,
}

// Normalize maps driver names and aliases to a dialect tag.
// Unknown tags are returned lower-cased and unchanged.
func Normalize(tag string) string {
	t := strings.ToLower(strings.TrimSpace(tag))
	if canonical, ok := aliases[t]; ok {
		return canonical
	}
	return t
}

// GetDialect returns the Dialect for tag. There is no fallback: an unknown tag
// is a configuration error.
func GetDialect(tag string) (Dialect, error) {
	switch Normalize(tag) {
	case MySQL:
		return &MysqlDialect{}, nil
	case Postgres:
		return &PostgresDialect{}, nil
	case SQLite:
		return &SQLiteDialect{}, nil
	case MSSQL:
		return &MSSQLDialect{}, nil
	case Oracle:
		return &OracleDialect{}, nil
	default:
		return nil, &UnsupportedDialectError{Tag: tag}
	}
}

// For resolves the Dialect of the client.
func For(c Client) (Dialect, error) {
	return GetDialect(c.Dialect())
}

// Ensure interface implementation
var _ Dialect = (*MysqlDialect)(nil)
var _ Dialect = (*PostgresDialect)(nil)
var _ Dialect = (*SQLiteDialect)(nil)
var _ Dialect = (*MSSQLDialect)(nil)
var _ Dialect = (*OracleDialect)(nil)
