package components

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/calburn/internal/model"
	"github.com/theirongolddev/calburn/internal/tui/theme"
)

// Sparkline renders a unicode sparkline from daily totals.
func Sparkline(days []model.DailyTotal, color lipgloss.Color) string {
	if len(days) == 0 {
		return ""
	}
	t := theme.Active

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	peak := 0
	for _, d := range days {
		peak = max(peak, d.Calories)
	}
	if peak == 0 {
		peak = 1
	}

	var buf strings.Builder
	for _, d := range days {
		idx := d.Calories * (len(blocks) - 1) / peak
		buf.WriteRune(blocks[max(0, min(idx, len(blocks)-1))])
	}
	return lipgloss.NewStyle().Foreground(color).Background(t.Surface).Render(buf.String())
}

// BarChart renders one vertical bar per day with a y-axis in calories.
// Bars over the goal are drawn in the theme's red and the goal itself is
// a dotted line across the empty cells of its row.
func BarChart(days []model.DailyTotal, goal int, hasGoal bool, width, height int) string {
	if len(days) == 0 {
		return ""
	}
	t := theme.Active
	if width < 15 || height < 3 {
		return Sparkline(days, t.Accent)
	}

	maxVal := 0.0
	for _, d := range days {
		maxVal = math.Max(maxVal, float64(d.Calories))
	}
	if hasGoal {
		maxVal = math.Max(maxVal, float64(goal))
	}
	if maxVal == 0 {
		maxVal = 1
	}

	tickStep := chartTickStep(maxVal)
	maxIntervals := max(2, height/2)
	for int(math.Ceil(maxVal/tickStep)) > maxIntervals {
		tickStep *= 2
	}
	ceiling := math.Ceil(maxVal/tickStep) * tickStep
	numIntervals := max(1, int(math.Round(ceiling/tickStep)))

	rowsPerTick := max(2, height/numIntervals)
	chartH := rowsPerTick * numIntervals

	yLabelW := max(4, len(formatChartLabel(ceiling))+1)
	tickLabels := make(map[int]string, numIntervals)
	for i := 1; i <= numIntervals; i++ {
		tickLabels[i*rowsPerTick] = formatChartLabel(tickStep * float64(i))
	}

	chartW := max(5, width-yLabelW-1)
	n := len(days)
	gap := 1
	if n == 1 {
		gap = 0
	}
	barW := chartW
	if n > 1 {
		barW = (chartW - (n - 1)) / n
	}
	if barW < 2 && n > 1 {
		days = sampleDays(days, max(2, (chartW+1)/3))
		n = len(days)
		barW = 2
	}
	barW = min(barW, 6)
	axisLen := n*barW + max(0, n-1)*gap

	goalRow := -1
	if hasGoal {
		goalRow = int(math.Ceil(float64(goal) / ceiling * float64(chartH)))
	}

	blocks := []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	surface := lipgloss.NewStyle().Background(t.Surface)
	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	goalStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
	underStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	overStyle := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface)

	var b strings.Builder
	for row := chartH; row >= 1; row-- {
		rowTop := ceiling * float64(row) / float64(chartH)
		rowBottom := ceiling * float64(row-1) / float64(chartH)

		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, tickLabels[row])))
		b.WriteString(axisStyle.Render("│"))

		for i, d := range days {
			if i > 0 && gap > 0 {
				filler := " "
				if row == goalRow {
					filler = goalStyle.Render("┄")
				}
				b.WriteString(surface.Render(filler))
			}

			style := underStyle
			if hasGoal && d.Calories > goal {
				style = overStyle
			}

			v := float64(d.Calories)
			switch {
			case v >= rowTop:
				b.WriteString(style.Render(strings.Repeat("█", barW)))
			case v > rowBottom:
				idx := max(1, min(8, int((v-rowBottom)/(rowTop-rowBottom)*8)))
				b.WriteString(style.Render(strings.Repeat(string(blocks[idx]), barW)))
			case row == goalRow:
				b.WriteString(goalStyle.Render(strings.Repeat("┄", barW)))
			default:
				b.WriteString(surface.Render(strings.Repeat(" ", barW)))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, "0")))
	b.WriteString(axisStyle.Render("└" + strings.Repeat("─", axisLen)))
	b.WriteString("\n")
	b.WriteString(surface.Render(strings.Repeat(" ", yLabelW+1)))
	b.WriteString(axisStyle.Render(xAxisLabels(dayLabels(days), barW, gap, axisLen)))

	return b.String()
}

// dayLabels returns compact x-axis labels: the month on the first day and
// on month boundaries, otherwise the day of month.
func dayLabels(days []model.DailyTotal) []string {
	labels := make([]string, len(days))
	prev := time.Month(0)
	for i, d := range days {
		if i == 0 || d.Date.Month() != prev {
			labels[i] = d.Date.Format("Jan 2")
		} else {
			labels[i] = strconv.Itoa(d.Date.Day())
		}
		prev = d.Date.Month()
	}
	return labels
}

// xAxisLabels places labels under their bars, skipping any that would
// overlap the previous one.
func xAxisLabels(labels []string, barW, gap, axisLen int) string {
	buf := []byte(strings.Repeat(" ", axisLen))
	lastEnd := -1
	for i, lbl := range labels {
		pos := i * (barW + gap)
		if pos <= lastEnd || pos+len(lbl) > axisLen {
			continue
		}
		copy(buf[pos:], lbl)
		lastEnd = pos + len(lbl)
	}
	return strings.TrimRight(string(buf), " ")
}

// sampleDays picks n evenly spaced days, always keeping the first and last.
func sampleDays(days []model.DailyTotal, n int) []model.DailyTotal {
	if n >= len(days) {
		return days
	}
	out := make([]model.DailyTotal, n)
	for i := range out {
		out[i] = days[i*(len(days)-1)/(n-1)]
	}
	return out
}

// chartTickStep computes a nice tick interval targeting ~5 ticks.
func chartTickStep(maxVal float64) float64 {
	if maxVal <= 0 {
		return 1
	}
	rough := maxVal / 5
	exp := math.Floor(math.Log10(rough))
	base := math.Pow(10, exp)
	frac := rough / base

	switch {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}

func formatChartLabel(v float64) string {
	switch {
	case v >= 1e3:
		if v == math.Trunc(v/1e3)*1e3 {
			return fmt.Sprintf("%.0fk", v/1e3)
		}
		return fmt.Sprintf("%.1fk", v/1e3)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}
