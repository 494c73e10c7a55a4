package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/calburn/internal/cli"
	"github.com/theirongolddev/calburn/internal/model"
)

var flagChartPeriod string

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Bar chart of daily calories against the goal",
	RunE:  runChart,
}

func init() {
	chartCmd.Flags().StringVarP(&flagChartPeriod, "period", "p", model.PeriodWeek, "week or month")
	rootCmd.AddCommand(chartCmd)
}

func runChart(_ *cobra.Command, _ []string) error {
	period := strings.ToLower(flagChartPeriod)
	if period != model.PeriodWeek && period != model.PeriodMonth {
		return fmt.Errorf("%w: --period must be week or month, got %q", model.ErrValidation, flagChartPeriod)
	}

	ctx, cancel := commandContext()
	defer cancel()

	tr, closeFn, err := openTracker(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	totals, s, err := tr.PeriodTotals(ctx, period)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("CALORIES  %s to %s", model.DayKey(s.Start), model.DayKey(s.End))))
	fmt.Println()
	fmt.Print(cli.RenderBarChart(totals, s.Goal, s.HasGoal, 40))
	fmt.Println()
	fmt.Printf("  Total %s · avg %s/day", cli.FormatCalories(s.TotalCalories), cli.FormatAverage(s.AvgPerDay))
	if s.HasGoal {
		fmt.Printf(" · %d day(s) over %s", s.DaysOverGoal, cli.FormatCalories(s.Goal))
	}
	fmt.Println()
	return nil
}
