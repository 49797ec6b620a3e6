package cmd

import (
	"fmt"
	"os"
	"time"

	"db-tables/internal/logging"
	"db-tables/internal/tables"

	"github.com/gosuri/uiprogress"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	countIgnore     []string
	countNoProgress bool
)

// CountResult is one line of the count report.
type CountResult struct {
	TableName string
	Rows      int64
	ErrorMsg  string
}

var countCmd = &cobra.Command{
	Use:   "count [table...]",
	Short: "Count rows per table (all tables when none are given)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := logging.FromContext(ctx)

		targets := args
		if len(targets) == 0 {
			names, err := tables.GetTableNames(ctx, Client, &tables.Options{IgnoreTables: ignoreTables(countIgnore)})
			if err != nil {
				return err
			}
			targets = names
		}
		if len(targets) == 0 {
			fmt.Println("No tables found.")
			return nil
		}

		start := time.Now()
		var bar *uiprogress.Bar
		if !countNoProgress {
			uiprogress.Start()
			bar = uiprogress.AddBar(len(targets)).AppendCompleted().PrependElapsed()
			bar.PrependFunc(func(b *uiprogress.Bar) string {
				return "Counting: "
			})
		}

		results := make([]CountResult, 0, len(targets))
		failed := 0
		for _, name := range targets {
			n, err := tables.GetTableRowCount(ctx, Client, name)
			r := CountResult{TableName: name, Rows: n}
			if err != nil {
				r.ErrorMsg = err.Error()
				failed++
				logger.Debug("count failed", "table", name, "error", err)
			}
			results = append(results, r)
			if bar != nil {
				bar.Incr()
			}
		}
		if bar != nil {
			uiprogress.Stop()
		}

		renderCountReport(results)
		logger.Info("count done", "tables", len(results), "elapsed", time.Since(start))

		if failed > 0 {
			return fmt.Errorf("%d of %d tables could not be counted", failed, len(results))
		}
		return nil
	},
}

func renderCountReport(results []CountResult) {
	fmt.Println("\n📊 Row Count Report:")
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Table", "Rows", "Status"})

	var total int64
	for i, r := range results {
		status := "OK"
		if r.ErrorMsg != "" {
			status = r.ErrorMsg
		}
		t.AppendRow(table.Row{i + 1, r.TableName, r.Rows, status})
		total += r.Rows
	}
	t.AppendFooter(table.Row{"", "Total", total, ""})
	t.Render()
}

func init() {
	RootCmd.AddCommand(countCmd)
	countCmd.Flags().StringSliceVar(&countIgnore, "ignore", []string{}, "Tables to leave out when counting all tables")
	countCmd.Flags().BoolVar(&countNoProgress, "no-progress", false, "Do not show the progress bar")
}
