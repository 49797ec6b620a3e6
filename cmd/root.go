package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"db-tables/internal/dialect"
	"db-tables/internal/logging"
	"db-tables/internal/sqlexec"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	dsn        string
	driverName string
	dialectTag string
	cfgFile    string
	verbose    bool

	// Client is the execution client opened by RootCmd.PersistentPreRunE.
	Client *sqlexec.DB
)

var RootCmd = &cobra.Command{
	Use:   "db-tables",
	Short: "List, count and drop database tables across MySQL, Postgres and SQLite",
	Long: `
  ____  ____    _____  _    ____  _     _____ ____
 |  _ \| __ )  |_   _|/ \  | __ )| |   | ____/ ___|
 | | | |  _ \    | | / _ \ |  _ \| |   |  _| \___ \
 | |_| | |_) |   | |/ ___ \| |_) | |___| |___ ___) |
 |____/|____/    |_/_/   \_\____/|_____|_____|____/

DB TABLES - table listing, row counts and safe bulk drops
`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger := logging.New(os.Stderr, verbose)
		cmd.SetContext(logging.WithLogger(cmd.Context(), logger))

		config, err := resolveDBConfig()
		if err != nil {
			return err
		}

		// Resolve the dialect before touching the network: an unknown tag is a
		// configuration error.
		d, err := dialect.GetDialect(config.Dialect)
		if err != nil {
			return err
		}

		Client, err = sqlexec.Open(config.Driver, config.DSN, d.Name())
		if err != nil {
			return err
		}
		if err := Client.Ping(cmd.Context()); err != nil {
			_ = Client.Close()
			return err
		}

		logger.Debug("connected", "name", config.Name, "driver", config.Driver, "dialect", d.Name())
		fmt.Printf("🦅 Connected to %s (%s)\n", config.Name, d.Name())
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if Client != nil {
			return Client.Close()
		}
		return nil
	},
}

func Execute() {
	if err := RootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./db-tables.yaml)")
	RootCmd.PersistentFlags().StringVar(&dsn, "dsn", "", "Database Source Name (DSN)")
	RootCmd.PersistentFlags().StringVar(&driverName, "driver", "", "database/sql driver (mysql, postgres, pgx, sqlite, sqlserver, oracle)")
	RootCmd.PersistentFlags().StringVar(&dialectTag, "dialect", "", "dialect tag (defaults to the driver's dialect)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every statement")

	viper.BindPFlag("database.dsn", RootCmd.PersistentFlags().Lookup("dsn"))
	viper.BindPFlag("database.driver", RootCmd.PersistentFlags().Lookup("driver"))
	viper.BindPFlag("database.dialect", RootCmd.PersistentFlags().Lookup("dialect"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// 1. Executable Directory (Priority 1)
		ex, err := os.Executable()
		if err == nil {
			viper.AddConfigPath(filepath.Dir(ex))
		}

		// 2. Current Directory (Priority 2)
		viper.AddConfigPath(".")

		viper.SetConfigName("db-tables")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
