package cmd

import (
	"fmt"

	"db-tables/internal/tables"

	"github.com/spf13/cobra"
)

var listIgnore []string

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List user tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := tables.GetTableNames(cmd.Context(), Client, &tables.Options{
			IgnoreTables: ignoreTables(listIgnore),
		})
		if err != nil {
			return err
		}
		for _, n := range names {
			fmt.Println(n)
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(tablesCmd)
	tablesCmd.Flags().StringSliceVar(&listIgnore, "ignore", []string{}, "Tables to leave out (overrides settings.ignore_tables)")
}
