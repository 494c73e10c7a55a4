package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/calburn/internal/export"
	"github.com/theirongolddev/calburn/internal/pipeline"
)

var (
	flagExportStart  string
	flagExportEnd    string
	flagExportDaily  bool
	flagExportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export meals or daily totals as CSV",
	Long:  "Export meals (or dense daily totals with --daily) as CSV. The range defaults to the last general.default_days days.",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&flagExportStart, "start", "", "Range start (YYYY-MM-DD)")
	exportCmd.Flags().StringVar(&flagExportEnd, "end", "", "Range end (YYYY-MM-DD), inclusive")
	exportCmd.Flags().BoolVar(&flagExportDaily, "daily", false, "Export one row per day instead of per meal")
	exportCmd.Flags().StringVarP(&flagExportOutput, "output", "o", "", "Output file (default stdout)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(_ *cobra.Command, _ []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	tr, closeFn, err := openTracker(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	defStart, defEnd, err := pipeline.LastNDays(cfg.General.DefaultDays, tr.Today())
	if err != nil {
		return err
	}
	start, err := parseDateFlag("start", flagExportStart, defStart, tr)
	if err != nil {
		return err
	}
	end, err := parseDateFlag("end", flagExportEnd, defEnd, tr)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if flagExportOutput != "" {
		f, err := os.Create(flagExportOutput)
		if err != nil {
			return fmt.Errorf("creating %s: %w", flagExportOutput, err)
		}
		defer f.Close()
		w = f
	}

	if flagExportDaily {
		totals, s, err := tr.RangeTotals(ctx, start, end)
		if err != nil {
			return err
		}
		if err := export.WriteDailyCSV(w, totals, s.Goal, s.HasGoal); err != nil {
			return err
		}
	} else {
		meals, err := tr.Ledger.ListByDateRange(ctx, start, end)
		if err != nil {
			return err
		}
		if err := export.WriteMealsCSV(w, meals, tr.Ledger.Location()); err != nil {
			return err
		}
	}

	if flagExportOutput != "" {
		fmt.Fprintf(os.Stderr, "  Wrote %s\n", flagExportOutput)
	}
	return nil
}
