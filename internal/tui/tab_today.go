package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/calburn/internal/cli"
	"github.com/theirongolddev/calburn/internal/tui/components"
	"github.com/theirongolddev/calburn/internal/tui/theme"
)

func (a App) renderTodayTab(cw int) string {
	t := theme.Active
	gs := a.data.Status

	goalValue, goalColor := "none", t.TextDim
	leftValue := "—"
	if gs.HasGoal {
		goalValue, goalColor = cli.FormatCalories(gs.Goal), t.TextPrimary
		leftValue = cli.FormatRemaining(gs.Remaining)
	}

	metrics := []components.Metric{
		{Label: "Consumed", Value: cli.FormatCalories(gs.Consumed), Note: cli.FormatDayLabel(gs.Date)},
		{Label: "Goal", Value: goalValue, Color: goalColor},
		{Label: "Remaining", Value: leftValue, Color: t.GoalColor(gs.Percent(), gs.Exceeded)},
		{Label: "Meals", Value: fmt.Sprintf("%d", len(a.data.Meals))},
	}

	var b strings.Builder
	b.WriteString(components.MetricCardRow(metrics, cw))
	b.WriteString("\n")

	inner := components.CardInnerWidth(cw)
	b.WriteString(components.ContentCard("Daily goal", components.GoalBar(gs, max(10, inner/2)), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("Today's meals", a.renderMealList(inner), cw))
	return b.String()
}

func (a App) renderMealList(width int) string {
	t := theme.Active

	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceHover).Bold(true)

	if len(a.data.Meals) == 0 {
		return mutedStyle.Render("No meals logged today. Press a to add one.")
	}

	// id, time and calories are fixed width; the description takes the rest.
	const fixed = 6 + 2 + 5 + 2 + 10
	descW := max(8, width-fixed)

	lines := make([]string, 0, len(a.data.Meals)+1)
	lines = append(lines, mutedStyle.Render(fmt.Sprintf("%-6s  %-5s  %-*s%10s", "ID", "Time", descW, "Meal", "kcal")))
	for i, m := range a.data.Meals {
		row := fmt.Sprintf("%-6s  %-5s  %-*s%10s",
			fmt.Sprintf("#%d", m.ID),
			cli.FormatMealTime(m.Timestamp.In(a.loc)),
			descW, cli.Truncate(m.Description, descW-1),
			cli.FormatNumber(int64(m.Calories)))
		style := rowStyle
		if i == a.cursor {
			style = selStyle
		}
		lines = append(lines, style.Width(width).Render(row))
	}
	return strings.Join(lines, "\n")
}
