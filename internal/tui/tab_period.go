package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/calburn/internal/cli"
	"github.com/theirongolddev/calburn/internal/model"
	"github.com/theirongolddev/calburn/internal/tui/components"
	"github.com/theirongolddev/calburn/internal/tui/theme"
)

const chartHeight = 10

func (a App) renderPeriodTab(title string, days []model.DailyTotal, s model.PeriodSummary, cw int) string {
	t := theme.Active

	peakNote := ""
	if s.PeakDay.Calories > 0 {
		peakNote = cli.FormatDayLabel(s.PeakDay.Date)
	}

	metrics := []components.Metric{
		{Label: "Total", Value: cli.FormatCalories(s.TotalCalories), Note: components.Sparkline(days, t.Accent)},
		{Label: "Avg / day", Value: cli.FormatAverage(s.AvgPerDay), Note: "active: " + cli.FormatAverage(s.AvgPerActiveDay)},
		{Label: "Peak day", Value: cli.FormatCalories(s.PeakDay.Calories), Note: peakNote},
	}
	if s.HasGoal {
		overColor := t.Green
		if s.DaysOverGoal > 0 {
			overColor = t.Red
		}
		metrics = append(metrics, components.Metric{
			Label: "Over goal",
			Value: cli.FormatNumber(int64(s.DaysOverGoal)) + " / " + cli.FormatNumber(int64(s.ActiveDays)),
			Note:  cli.FormatNumber(int64(s.DaysWithinGoal)) + " within " + cli.FormatCalories(s.Goal),
			Color: overColor,
		})
	}

	inner := components.CardInnerWidth(cw)
	chart := components.BarChart(days, s.Goal, s.HasGoal, inner, chartHeight)
	if chart == "" {
		chart = lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Render("No data")
	}

	var b strings.Builder
	b.WriteString(components.MetricCardRow(metrics, cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard(title+" · "+model.DayKey(s.Start)+" to "+model.DayKey(s.End), chart, cw))
	return b.String()
}
