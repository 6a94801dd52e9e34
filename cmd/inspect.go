package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/shandysiswandi/godash/internal/dashboard/dataset"
	"github.com/shandysiswandi/godash/internal/dashboard/entity"
	"github.com/shandysiswandi/godash/internal/pkg/pkgroutine"
)

var inspectWorkers int

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.csv>...",
	Short: "Print inferred column kinds and a numeric summary of CSV files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInspect(cmd.Context(), cmd.OutOrStdout(), args, inspectWorkers)
	},
}

func init() {
	inspectCmd.Flags().IntVar(&inspectWorkers, "workers", 4, "files parsed in parallel")
}

type inspection struct {
	path  string
	table *entity.Table
}

// runInspect parses every file, then prints the reports in argument order.
func runInspect(ctx context.Context, w io.Writer, paths []string, workers int) error {
	if ctx == nil {
		ctx = context.Background()
	}

	results := make([]inspection, len(paths))
	mgr := pkgroutine.NewManager(workers)

	for i, path := range paths {
		mgr.Go(ctx, func(ctx context.Context) error {
			tbl, err := dataset.Load(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = inspection{path: path, table: tbl}
			return nil
		})
	}

	err := mgr.Wait()

	for _, r := range results {
		if r.table != nil {
			writeReport(w, r.path, r.table)
		}
	}

	return err
}

func writeReport(w io.Writer, path string, tbl *entity.Table) {
	fmt.Fprintf(w, "## %s\n\n", path)
	fmt.Fprintf(w, "rows: %d\n\n", tbl.Len())

	fmt.Fprintln(w, "| column | kind |")
	fmt.Fprintln(w, "|---|---|")
	for _, c := range tbl.Columns {
		fmt.Fprintf(w, "| %s | %s |\n", c.Name, c.Kind)
	}

	summary := dataset.Describe(tbl)
	if len(summary) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "| column | count | mean | std | min | median | max |")
		fmt.Fprintln(w, "|---|---|---|---|---|---|---|")
		for _, s := range summary {
			fmt.Fprintf(w, "| %s | %d | %s | %s | %s | %s | %s |\n",
				s.Column, s.Count, num(s.Mean), num(s.Std), num(s.Min), num(s.Median), num(s.Max))
		}
	}

	fmt.Fprintln(w)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
