package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/calburn/internal/model"
)

// Theme colors (Flexoki Dark)
var (
	ColorBorder    = lipgloss.Color("#282726")
	ColorTextDim   = lipgloss.Color("#575653")
	ColorTextMuted = lipgloss.Color("#6F6E69")
	ColorText      = lipgloss.Color("#FFFCF0")
	ColorAccent    = lipgloss.Color("#3AA99F")
	ColorGreen     = lipgloss.Color("#879A39")
	ColorOrange    = lipgloss.Color("#DA702C")
	ColorRed       = lipgloss.Color("#D14D41")
	ColorBlue      = lipgloss.Color("#4385BE")
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	valueStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	okStyle = lipgloss.NewStyle().
		Foreground(ColorGreen)

	barStyle = lipgloss.NewStyle().
			Foreground(ColorBlue)

	warnStyle = lipgloss.NewStyle().
			Foreground(ColorOrange)

	overStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorRed)

	dimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)
)

// Table represents a bordered text table for CLI output. The first column
// is left-aligned and the rest are right-aligned.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Widths  []int // optional column widths, auto-calculated if nil
}

// SeparatorRow renders as a horizontal rule when used as a table row.
var SeparatorRow = []string{"---"}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(55).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(titleStyle.Render(title))
}

// RenderTable renders a bordered table with headers and rows.
func RenderTable(t Table) string {
	if len(t.Rows) == 0 && len(t.Headers) == 0 {
		return ""
	}

	numCols := len(t.Headers)
	if numCols == 0 {
		numCols = len(t.Rows[0])
	}
	widths := columnWidths(t, numCols)

	var b strings.Builder
	if t.Title != "" {
		b.WriteString("  ")
		b.WriteString(headerStyle.Render(t.Title))
		b.WriteString("\n")
	}

	b.WriteString(rule(widths, "╭", "┬", "╮"))
	if len(t.Headers) > 0 {
		b.WriteString(dimStyle.Render("│"))
		for i, h := range t.Headers {
			b.WriteString(headerStyle.Render(pad(h, widths[i], i > 0)))
			b.WriteString(dimStyle.Render("│"))
		}
		b.WriteString("\n")
		b.WriteString(rule(widths, "├", "┼", "┤"))
	}

	for _, row := range t.Rows {
		if len(row) == 1 && row[0] == SeparatorRow[0] {
			b.WriteString(rule(widths, "├", "┼", "┤"))
			continue
		}

		b.WriteString(dimStyle.Render("│"))
		for i := 0; i < numCols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			b.WriteString(valueStyle.Render(pad(cell, widths[i], i > 0)))
			b.WriteString(dimStyle.Render("│"))
		}
		b.WriteString("\n")
	}

	b.WriteString(rule(widths, "╰", "┴", "╯"))
	return b.String()
}

func columnWidths(t Table, numCols int) []int {
	widths := make([]int, numCols)
	if t.Widths != nil {
		copy(widths, t.Widths)
		return widths
	}
	for i, h := range t.Headers {
		widths[i] = max(widths[i], lipgloss.Width(h))
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < numCols {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}
	return widths
}

func pad(cell string, width int, right bool) string {
	gap := width - lipgloss.Width(cell)
	if gap < 0 {
		gap = 0
	}
	if right {
		return " " + strings.Repeat(" ", gap) + cell + " "
	}
	return " " + cell + strings.Repeat(" ", gap) + " "
}

func rule(widths []int, left, mid, right string) string {
	var b strings.Builder
	b.WriteString(left)
	for i, w := range widths {
		b.WriteString(strings.Repeat("─", w+2))
		if i < len(widths)-1 {
			b.WriteString(mid)
		}
	}
	b.WriteString(right)
	return dimStyle.Render(b.String()) + "\n"
}

// RenderGoalBar renders consumed-vs-goal as a bar that turns orange past
// 90% and red once the goal is exceeded. Without a goal it prints the
// total alone.
func RenderGoalBar(gs model.GoalStatus, width int) string {
	if !gs.HasGoal {
		return fmt.Sprintf("%s  %s", valueStyle.Render(FormatCalories(gs.Consumed)), mutedStyle.Render("(no goal set)"))
	}

	pct := gs.Percent()
	filled := int(min(pct, 1) * float64(width))

	style := okStyle
	switch {
	case gs.Exceeded:
		style = overStyle
	case pct >= 0.9:
		style = warnStyle
	}

	bar := style.Render(strings.Repeat("█", filled)) + dimStyle.Render(strings.Repeat("░", width-filled))
	return fmt.Sprintf("[%s] %s / %s  %s  %s",
		bar,
		FormatNumber(int64(gs.Consumed)),
		FormatCalories(gs.Goal),
		FormatPercent(pct),
		style.Render(FormatRemaining(gs.Remaining)),
	)
}

// RenderGoalExceeded is the warning line shown after an add pushes today
// over the goal.
func RenderGoalExceeded(gs model.GoalStatus) string {
	return overStyle.Render(fmt.Sprintf("! Daily goal exceeded: %s of %s (%s)",
		FormatNumber(int64(gs.Consumed)), FormatCalories(gs.Goal), FormatRemaining(gs.Remaining)))
}

// RenderSparkline generates a unicode block sparkline from daily totals.
func RenderSparkline(days []model.DailyTotal) string {
	if len(days) == 0 {
		return ""
	}

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	peak := 0
	for _, d := range days {
		peak = max(peak, d.Calories)
	}
	if peak == 0 {
		peak = 1
	}

	var b strings.Builder
	for _, d := range days {
		idx := d.Calories * (len(blocks) - 1) / peak
		b.WriteRune(blocks[max(0, min(idx, len(blocks)-1))])
	}
	return b.String()
}

// RenderBarChart draws one horizontal bar per day, scaled to the larger of
// the peak day and the goal. Days over the goal are drawn red and a goal
// marker column is shown when a goal is set.
func RenderBarChart(days []model.DailyTotal, goal int, hasGoal bool, maxWidth int) string {
	if len(days) == 0 || maxWidth <= 0 {
		return ""
	}

	scale := 0
	for _, d := range days {
		scale = max(scale, d.Calories)
	}
	if hasGoal {
		scale = max(scale, goal)
	}
	if scale == 0 {
		scale = 1
	}

	goalCol := -1
	if hasGoal {
		goalCol = goal * maxWidth / scale
	}

	var b strings.Builder
	for _, d := range days {
		barLen := d.Calories * maxWidth / scale

		style := barStyle
		if hasGoal && d.Calories > goal {
			style = overStyle
		}

		var bar strings.Builder
		bar.WriteString(style.Render(strings.Repeat("█", barLen)))
		if goalCol >= barLen && goalCol <= maxWidth {
			bar.WriteString(strings.Repeat(" ", goalCol-barLen))
			bar.WriteString(dimStyle.Render("│"))
			barLen = goalCol + 1
		}
		bar.WriteString(strings.Repeat(" ", max(0, maxWidth+1-barLen)))

		fmt.Fprintf(&b, "  %s %s %s\n",
			mutedStyle.Render(FormatDayLabel(d.Date)),
			bar.String(),
			valueStyle.Render(FormatNumber(int64(d.Calories))),
		)
	}

	if hasGoal {
		fmt.Fprintf(&b, "  %s\n", dimStyle.Render("│ goal "+FormatCalories(goal)))
	}
	return b.String()
}
