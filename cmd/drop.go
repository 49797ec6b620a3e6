package cmd

import (
	"errors"
	"fmt"
	"log"

	"db-tables/internal/dialect"
	"db-tables/internal/tables"

	"github.com/spf13/cobra"
)

var (
	dropAll    bool
	dropDryRun bool
	dropYes    bool
	dropIgnore []string
)

var dropCmd = &cobra.Command{
	Use:   "drop [table...]",
	Short: "Drop tables, suspending foreign key checks where the engine needs it",
	Long: `Drop the named tables, or every listed table with --all.

Table names are bare names as printed by "db-tables tables". On Postgres they
refer to the public schema; schema-qualified names such as public.users are
rejected.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		targets := args
		if dropAll {
			if len(args) > 0 {
				return fmt.Errorf("--all cannot be combined with table names")
			}
			names, err := tables.GetTableNames(ctx, Client, &tables.Options{IgnoreTables: ignoreTables(dropIgnore)})
			if err != nil {
				return err
			}
			targets = names
		}
		if len(targets) == 0 {
			return fmt.Errorf("no tables to drop: pass table names or --all")
		}

		if dropDryRun {
			log.Println("[SIMULATION] Dry-Run Mode Active: No table will be dropped.")
			for i, t := range targets {
				fmt.Printf("[%02d] %s\n", i+1, t)
			}
			return nil
		}
		if !dropYes {
			return fmt.Errorf("refusing to drop %d tables without --yes", len(targets))
		}

		log.Printf("Dropping %d tables...", len(targets))
		if err := tables.DropTables(ctx, Client, targets); err != nil {
			var de *dialect.DropExecutionError
			if errors.As(err, &de) {
				if len(de.Dropped) > 0 {
					log.Printf("Dropped before failure: %v", de.Dropped)
				}
				if !de.Restored {
					log.Println("Warning: foreign key checks were NOT restored on the failed session")
				}
			}
			return err
		}

		log.Println("Tables Dropped Successfully!")
		return nil
	},
}

func init() {
	RootCmd.AddCommand(dropCmd)

	dropCmd.Flags().BoolVar(&dropAll, "all", false, "Drop every listed table (respects --ignore and settings.ignore_tables)")
	dropCmd.Flags().BoolVar(&dropDryRun, "dry-run", false, "Print the tables that would be dropped")
	dropCmd.Flags().BoolVarP(&dropYes, "yes", "y", false, "Confirm the drop")
	dropCmd.Flags().StringSliceVar(&dropIgnore, "ignore", []string{}, "Tables to keep when using --all")
}
