package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/calburn/internal/cli"
	"github.com/theirongolddev/calburn/internal/ledger"
	"github.com/theirongolddev/calburn/internal/model"
)

var flagAddAt string

var addCmd = &cobra.Command{
	Use:   "add [description] [calories]",
	Short: "Log a meal",
	Long: "Log a meal. Without arguments an interactive form asks for the details.\n" +
		"--at accepts HH:MM (today), YYYY-MM-DD HH:MM or RFC 3339; default is now.",
	Example: `  calburn add "chicken salad" 450
  calburn add "pizza" 900 --at "2025-06-09 19:30"`,
	Args: cobra.RangeArgs(0, 2),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVar(&flagAddAt, "at", "", "When the meal was eaten")
	rootCmd.AddCommand(addCmd)
}

func runAdd(_ *cobra.Command, args []string) error {
	var description, calories string
	if len(args) > 0 {
		description = args[0]
	}
	if len(args) > 1 {
		calories = args[1]
	}

	if len(args) < 2 {
		if err := promptMeal(&description, &calories); err != nil {
			return err
		}
	}

	kcal, err := ledger.ParseCalories(calories)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	tr, closeFn, err := openTracker(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	at, err := ledger.ParseTimestamp(flagAddAt, tr.Now(), tr.Ledger.Location())
	if err != nil {
		return err
	}

	res, err := tr.AddMeal(ctx, description, kcal, at)
	if err != nil {
		return err
	}

	loc := tr.Ledger.Location()
	fmt.Printf("  Added #%d  %s  %s  (%s %s)\n",
		res.Meal.ID, res.Meal.Description, cli.FormatCalories(res.Meal.Calories),
		model.DayKey(res.Meal.Day(loc)), cli.FormatMealTime(res.Meal.Timestamp.In(loc)))

	switch {
	case res.GoalExceeded:
		fmt.Println()
		fmt.Println("  " + cli.RenderGoalExceeded(res.Status))
	case res.Checked && res.IsToday:
		fmt.Println("  " + cli.RenderGoalBar(res.Status, 30))
	}
	return nil
}

func promptMeal(description, calories *string) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("What did you eat?").
				Value(description).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("description is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Calories").
				Placeholder("450").
				Value(calories).
				Validate(func(s string) error {
					_, err := ledger.ParseCalories(s)
					return err
				}),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("add form: %w", err)
	}
	return nil
}
