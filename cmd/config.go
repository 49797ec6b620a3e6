package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "DB_TABLES"

type DBConfig struct {
	Name    string `mapstructure:"name"`
	Driver  string `mapstructure:"driver"`
	Dialect string `mapstructure:"dialect"`
	DSN     string `mapstructure:"dsn"`
	Active  bool   `mapstructure:"active"`
}

// GetActiveDBConfig returns the currently active database configuration.
func GetActiveDBConfig() (*DBConfig, error) {
	var configs []DBConfig

	if err := viper.UnmarshalKey("databases", &configs); err != nil {
		return nil, fmt.Errorf("failed to parse databases config: %w", err)
	}

	var activeConfig *DBConfig
	count := 0

	for i := range configs {
		if configs[i].Active {
			activeConfig = &configs[i]
			count++
		}
	}

	if count == 0 {
		return nil, fmt.Errorf("no active database found in config (set active: true)")
	}
	if count > 1 {
		return nil, fmt.Errorf("multiple active databases found (only one can be active)")
	}

	return activeConfig, nil
}

// resolveDBConfig picks the connection, highest precedence first:
//
//  1. a DSN from --dsn or DB_TABLES_DATABASE_DSN: the database.* keys are used
//     and the "databases" list is ignored;
//  2. the active entry of "databases", with --driver/--dialect (or
//     DB_TABLES_DATABASE_DRIVER/_DIALECT) replacing its driver and dialect;
//  3. the database.* keys of the config file.
//
// Driver and dialect are filled in last when still empty.
func resolveDBConfig() (*DBConfig, error) {
	var config DBConfig
	active, activeErr := GetActiveDBConfig()
	if activeErr == nil && override(dsn, "dsn") == "" {
		config = *active
		if v := override(driverName, "driver"); v != "" {
			config.Driver = v
		}
		if v := override(dialectTag, "dialect"); v != "" {
			config.Dialect = v
		}
	} else {
		config = DBConfig{
			Name:    "CLI",
			DSN:     firstNonEmpty(override(dsn, "dsn"), viper.GetString("database.dsn")),
			Driver:  firstNonEmpty(override(driverName, "driver"), viper.GetString("database.driver")),
			Dialect: firstNonEmpty(override(dialectTag, "dialect"), viper.GetString("database.dialect")),
		}
	}

	if config.DSN == "" {
		return nil, fmt.Errorf("database.dsn is required (via flag, config or DB_TABLES_DATABASE_DSN)")
	}
	if config.Driver == "" {
		config.Driver = detectDriver(config.DSN)
	}
	if config.Dialect == "" {
		config.Dialect = config.Driver
	}
	if config.Name == "" {
		config.Name = config.Driver
	}
	return &config, nil
}

// override returns the flag value, else the DB_TABLES_DATABASE_<KEY> variable.
func override(flagValue, key string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv(envPrefix + "_DATABASE_" + strings.ToUpper(key))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// detectDriver guesses the database/sql driver from the DSN.
func detectDriver(connStr string) string {
	lower := strings.ToLower(connStr)
	switch {
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"),
		strings.Contains(lower, "sslmode"):
		return "postgres"
	case strings.HasPrefix(lower, "sqlserver://"):
		return "sqlserver"
	case strings.HasPrefix(lower, "oracle://"):
		return "oracle"
	case strings.HasPrefix(lower, "file:"), strings.HasSuffix(lower, ".db"),
		strings.HasSuffix(lower, ".sqlite"), strings.HasSuffix(lower, ".sqlite3"),
		lower == ":memory:":
		return "sqlite"
	default:
		return "mysql"
	}
}

// ignoreTables follows the precedence Flag > Config.
func ignoreTables(flagValues []string) []string {
	if len(flagValues) > 0 {
		return flagValues
	}
	return viper.GetStringSlice("settings.ignore_tables")
}
