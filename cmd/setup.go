package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/calburn/internal/config"
	"github.com/theirongolddev/calburn/internal/tui"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	tr, closeFn, err := openTracker(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	goal, hasGoal := tr.Aggregator.Goal()
	vals := tui.NewSetupValues(cfg, goal, hasGoal)
	if err := tui.NewSetupForm(vals).Run(); err != nil {
		return fmt.Errorf("setup form: %w", err)
	}

	newGoal, setGoal, err := saveSetup(*vals)
	if err != nil {
		return err
	}
	if setGoal {
		if err := tr.SetGoal(ctx, newGoal); err != nil {
			return err
		}
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	if setGoal {
		fmt.Printf("  Daily goal: %d kcal\n", newGoal)
	}
	fmt.Println("  Run `calburn setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}

// saveSetup writes the form answers to the config file. The goal lives in
// the database, so it is returned for the caller to store.
func saveSetup(vals tui.SetupValues) (int, bool, error) {
	// Start from the file, not the flag-adjusted cfg, so --db and --tz
	// are not persisted by accident.
	fileCfg, err := config.Load()
	if err != nil {
		return 0, false, err
	}
	goal, hasGoal, err := vals.Apply(&fileCfg)
	if err != nil {
		return 0, false, err
	}
	if err := fileCfg.Validate(); err != nil {
		return 0, false, err
	}
	if err := config.Save(fileCfg); err != nil {
		return 0, false, fmt.Errorf("saving config: %w", err)
	}
	return goal, hasGoal, nil
}
