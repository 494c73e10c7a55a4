package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/calburn/internal/config"
	"github.com/theirongolddev/calburn/internal/tui"
	"github.com/theirongolddev/calburn/internal/tui/theme"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	theme.SetActive(cfg.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	ctx, cancel := commandContext()
	tr, closeFn, err := openTracker(ctx)
	cancel()
	if err != nil {
		return err
	}
	defer closeFn()

	var opts tui.Options
	if !config.Exists() {
		goal, hasGoal := tr.Aggregator.Goal()
		opts.Setup = tui.NewSetupValues(cfg, goal, hasGoal)
		opts.OnSetup = func(v tui.SetupValues) (int, bool, error) {
			goal, hasGoal, err := saveSetup(v)
			if err == nil {
				theme.SetActive(v.Theme)
			}
			return goal, hasGoal, err
		}
	}

	p := tea.NewProgram(tui.NewApp(tr, opts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
