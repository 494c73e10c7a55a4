package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/calburn/internal/cli"
	"github.com/theirongolddev/calburn/internal/model"
)

var flagPeriod string

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Calorie summary for today, the last week or the last month",
	RunE:  runSummary,
}

func init() {
	summaryCmd.Flags().StringVarP(&flagPeriod, "period", "p", model.PeriodWeek, "day, week or month")
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(_ *cobra.Command, _ []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	tr, closeFn, err := openTracker(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	period := strings.ToLower(flagPeriod)
	totals, s, err := tr.PeriodTotals(ctx, period)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("CALORIES  %s to %s", model.DayKey(s.Start), model.DayKey(s.End))))
	fmt.Println()

	if s.ActiveDays == 0 {
		fmt.Println("  No meals logged in this period.")
		return nil
	}

	rows := [][]string{
		{"Total", cli.FormatCalories(s.TotalCalories)},
		{"Days logged", fmt.Sprintf("%d of %d", s.ActiveDays, s.Days)},
		{"Avg per day", cli.FormatAverage(s.AvgPerDay) + " kcal"},
		{"Avg per logged day", cli.FormatAverage(s.AvgPerActiveDay) + " kcal"},
		cli.SeparatorRow,
		{"Peak day", cli.FormatDayLabel(s.PeakDay.Date) + "  " + cli.FormatCalories(s.PeakDay.Calories)},
		{"Lowest logged day", cli.FormatDayLabel(s.LowestActiveDay.Date) + "  " + cli.FormatCalories(s.LowestActiveDay.Calories)},
	}
	if s.HasGoal {
		rows = append(rows,
			cli.SeparatorRow,
			[]string{"Goal", cli.FormatCalories(s.Goal)},
			[]string{"Days over goal", cli.FormatNumber(int64(s.DaysOverGoal))},
			[]string{"Days within goal", cli.FormatNumber(int64(s.DaysWithinGoal))},
		)
	}
	if len(totals) > 1 {
		rows = append(rows, cli.SeparatorRow, []string{"Trend", cli.RenderSparkline(totals)})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))
	return nil
}
