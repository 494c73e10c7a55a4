package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/calburn/internal/cli"
	"github.com/theirongolddev/calburn/internal/model"
	"github.com/theirongolddev/calburn/internal/tui/theme"
)

// GoalBar renders consumed-vs-goal as a solid bar with the percentage and
// the calories left or over. Without a goal it renders the total alone.
func GoalBar(gs model.GoalStatus, barWidth int) string {
	t := theme.Active

	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	if !gs.HasGoal {
		return valueStyle.Render(cli.FormatCalories(gs.Consumed)) +
			spaceStyle.Render("  ") +
			mutedStyle.Render("no goal set, press g to set one")
	}

	pct := gs.Percent()
	color := t.GoalColor(pct, gs.Exceeded)

	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	pctStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)

	return bar.ViewAs(min(pct, 1)) +
		spaceStyle.Render(" ") +
		pctStyle.Render(fmt.Sprintf("%3.0f%%", pct*100)) +
		spaceStyle.Render("  ") +
		valueStyle.Render(cli.FormatNumber(int64(gs.Consumed))) +
		mutedStyle.Render(" / "+cli.FormatCalories(gs.Goal)+"  ") +
		pctStyle.Render(cli.FormatRemaining(gs.Remaining))
}

// GoalBanner is the line shown after an add pushes today over the goal.
func GoalBanner(gs model.GoalStatus, width int) string {
	t := theme.Active
	return lipgloss.NewStyle().
		Foreground(t.Background).
		Background(t.Red).
		Bold(true).
		Width(width).
		Padding(0, 1).
		Render(fmt.Sprintf("Daily goal exceeded: %s of %s (%s)",
			cli.FormatNumber(int64(gs.Consumed)), cli.FormatCalories(gs.Goal), cli.FormatRemaining(gs.Remaining)))
}
