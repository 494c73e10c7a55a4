package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/calburn/internal/cli"
	"github.com/theirongolddev/calburn/internal/model"
	"github.com/theirongolddev/calburn/internal/pipeline"
)

var (
	flagListDate  string
	flagListStart string
	flagListEnd   string
)

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show today's meals and goal progress",
	RunE:  runToday,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List meals for a date or date range",
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&flagListDate, "date", "", "Date (YYYY-MM-DD), default today")
	listCmd.Flags().StringVar(&flagListStart, "start", "", "Range start (YYYY-MM-DD)")
	listCmd.Flags().StringVar(&flagListEnd, "end", "", "Range end (YYYY-MM-DD), inclusive")
	listCmd.MarkFlagsMutuallyExclusive("date", "start")
	listCmd.MarkFlagsMutuallyExclusive("date", "end")

	rootCmd.AddCommand(todayCmd)
	rootCmd.AddCommand(listCmd)
}

func runToday(_ *cobra.Command, _ []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	tr, closeFn, err := openTracker(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	meals, gs, err := tr.TodayStatus(ctx)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("TODAY  " + cli.FormatDayLabel(gs.Date)))
	fmt.Println()

	if len(meals) == 0 {
		fmt.Println("  No meals logged today.")
		fmt.Println("  Add one with: calburn add \"oatmeal\" 350")
	} else {
		fmt.Print(mealTable(meals, tr.Ledger.Location(), false))
	}

	fmt.Println()
	fmt.Println("  " + cli.RenderGoalBar(gs, 30))
	if gs.Exceeded {
		fmt.Println("  " + cli.RenderGoalExceeded(gs))
	}
	return nil
}

func runList(_ *cobra.Command, _ []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	tr, closeFn, err := openTracker(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	today := tr.Today()
	var start, end time.Time
	if flagListStart != "" || flagListEnd != "" {
		if start, err = parseDateFlag("start", flagListStart, today, tr); err != nil {
			return err
		}
		if end, err = parseDateFlag("end", flagListEnd, today, tr); err != nil {
			return err
		}
	} else {
		if start, err = parseDateFlag("date", flagListDate, today, tr); err != nil {
			return err
		}
		end = start
	}

	meals, err := tr.Ledger.ListByDateRange(ctx, start, end)
	if err != nil {
		return err
	}

	title := cli.FormatDayLabel(start)
	if !end.Equal(start) {
		title = model.DayKey(start) + " to " + model.DayKey(end)
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("MEALS  " + title))
	fmt.Println()

	if len(meals) == 0 {
		fmt.Println("  No meals in this range.")
		return nil
	}
	fmt.Print(mealTable(meals, tr.Ledger.Location(), !end.Equal(start)))
	return nil
}

// mealTable renders meals with a total row. Multi-day listings get a date column.
func mealTable(meals []model.MealRecord, loc *time.Location, withDate bool) string {
	headers := []string{"ID", "Time", "Meal", "Calories"}
	if withDate {
		headers = []string{"ID", "Date", "Time", "Meal", "Calories"}
	}

	rows := make([][]string, 0, len(meals)+2)
	for _, m := range meals {
		ts := m.Timestamp.In(loc)
		row := []string{fmt.Sprintf("#%d", m.ID)}
		if withDate {
			row = append(row, model.DayKey(m.Day(loc)))
		}
		row = append(row, cli.FormatMealTime(ts), cli.Truncate(m.Description, 40), cli.FormatNumber(int64(m.Calories)))
		rows = append(rows, row)
	}

	total := make([]string, len(headers))
	total[0] = "Total"
	total[len(total)-1] = cli.FormatNumber(int64(pipeline.SumCalories(meals)))
	rows = append(rows, cli.SeparatorRow, total)

	return cli.RenderTable(cli.Table{Headers: headers, Rows: rows})
}
