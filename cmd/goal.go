package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/calburn/internal/cli"
	"github.com/theirongolddev/calburn/internal/ledger"
)

var goalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Show the daily calorie goal and today's progress",
	Args:  cobra.NoArgs,
	RunE:  runGoal,
}

var goalSetCmd = &cobra.Command{
	Use:   "set <kcal>",
	Short: "Set the daily calorie goal",
	Args:  cobra.ExactArgs(1),
	RunE:  runGoalSet,
}

func init() {
	goalCmd.AddCommand(goalSetCmd)
	rootCmd.AddCommand(goalCmd)
}

func runGoal(_ *cobra.Command, _ []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	tr, closeFn, err := openTracker(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	_, gs, err := tr.TodayStatus(ctx)
	if err != nil {
		return err
	}

	if !gs.HasGoal {
		fmt.Println("  No daily goal set.")
		fmt.Println("  Set one with: calburn goal set 2000")
		return nil
	}
	fmt.Printf("  Daily goal: %s\n", cli.FormatCalories(gs.Goal))
	fmt.Println("  Today:      " + cli.RenderGoalBar(gs, 30))
	return nil
}

func runGoalSet(_ *cobra.Command, args []string) error {
	goal, err := ledger.ParseCalories(args[0])
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

	if err := tr.SetGoal(ctx, goal); err != nil {
		return err
	}
	fmt.Printf("  Daily goal set to %s\n", cli.FormatCalories(goal))
	return nil
}
