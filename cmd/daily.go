package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/calburn/internal/cli"
	"github.com/theirongolddev/calburn/internal/pipeline"
)

var flagDays int

var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Daily calorie totals for the last N days",
	RunE:  runDaily,
}

func init() {
	dailyCmd.Flags().IntVarP(&flagDays, "days", "n", 0, "Number of days ending today (default general.default_days)")
	rootCmd.AddCommand(dailyCmd)
}

func runDaily(_ *cobra.Command, _ []string) error {
	days := flagDays
	if days == 0 {
		days = cfg.General.DefaultDays
	}

	ctx, cancel := commandContext()
	defer cancel()

	tr, closeFn, err := openTracker(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	start, end, err := pipeline.LastNDays(days, tr.Today())
	if err != nil {
		return err
	}
	totals, summary, err := tr.RangeTotals(ctx, start, end)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("DAILY CALORIES  Last %dd", days)))
	fmt.Println()

	rows := make([][]string, 0, len(totals)+2)
	for _, d := range totals {
		status := ""
		if summary.HasGoal && d.Calories > 0 {
			status = cli.FormatRemaining(summary.Goal - d.Calories)
		}
		rows = append(rows, []string{
			cli.FormatDayLabel(d.Date),
			cli.FormatNumber(int64(d.Calories)),
			status,
		})
	}
	rows = append(rows, cli.SeparatorRow, []string{
		"Total",
		cli.FormatNumber(int64(summary.TotalCalories)),
		"avg " + cli.FormatAverage(summary.AvgPerDay) + "/day",
	})

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Day", "Calories", "Goal"},
		Rows:    rows,
	}))
	fmt.Printf("\n  %s\n", cli.RenderSparkline(totals))
	return nil
}
