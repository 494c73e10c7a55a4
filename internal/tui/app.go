// Package tui provides the interactive Bubble Tea dashboard for calburn.
package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/calburn/internal/cli"
	"github.com/theirongolddev/calburn/internal/ledger"
	"github.com/theirongolddev/calburn/internal/model"
	"github.com/theirongolddev/calburn/internal/pipeline"
	"github.com/theirongolddev/calburn/internal/tui/components"
	"github.com/theirongolddev/calburn/internal/tui/theme"
)

type mode int

const (
	modeNormal mode = iota
	modeAdd
	modeGoal
	modeConfirmDelete
	modeSetup
)

const (
	tabToday = iota
	tabWeek
	tabMonth
)

const (
	minTerminalWidth = 60
	maxContentWidth  = 140
	minContentHeight = 5
)

// Options configures the dashboard.
type Options struct {
	// Setup, when non-nil, runs the first-run form and hands the answers
	// to OnSetup.
	Setup   *SetupValues
	OnSetup func(SetupValues) (goal int, hasGoal bool, err error)
}

// App is the root Bubble Tea model.
type App struct {
	sess *session
	loc  *time.Location
	now  func() time.Time

	// Data
	loaded bool
	data   DataLoadedMsg

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	mode      mode
	cursor    int

	// Feedback line and goal-exceeded banner
	flash      string
	flashErr   bool
	exceededAt *model.GoalStatus

	addForm   *huh.Form
	addVals   *addValues
	goalInput textinput.Model

	setupForm *huh.Form
	setupVals *SetupValues
	onSetup   func(SetupValues) (int, bool, error)

	spinner spinner.Model
}

// NewApp creates the dashboard over tracker.
func NewApp(tracker *pipeline.Tracker, opts Options) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	a := App{
		sess:    &session{tracker: tracker},
		loc:     tracker.Ledger.Location(),
		now:     tracker.Now,
		spinner: sp,
		onSetup: opts.OnSetup,
	}
	if opts.Setup != nil {
		a.setupVals = opts.Setup
		a.setupForm = NewSetupForm(a.setupVals)
		a.mode = modeSetup
	}
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnableMouseCellMotion,
		loadDataCmd(a.sess),
		a.spinner.Tick,
	}
	if a.setupForm != nil {
		cmds = append(cmds, a.setupForm.Init())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if a.mode != modeNormal || a.showHelp {
			return a, nil
		}
		if msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress && msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.activeTab = tab
			}
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		switch a.mode {
		case modeSetup:
			return a.updateSetupForm(msg)
		case modeAdd:
			return a.updateAddForm(msg)
		case modeGoal:
			return a.updateGoalInput(msg)
		case modeConfirmDelete:
			return a.updateConfirmDelete(msg)
		}
		return a.updateNormal(msg)

	case DataLoadedMsg:
		a.loaded = true
		if msg.Err != nil {
			a.setFlash(msg.Err)
			return a, nil
		}
		a.data = msg
		a.cursor = clamp(a.cursor, 0, len(a.data.Meals)-1)
		return a, nil

	case MealAddedMsg:
		if msg.Err != nil {
			a.setFlash(msg.Err)
			return a, nil
		}
		r := msg.Result
		a.flash = fmt.Sprintf("Added #%d %s (%s)", r.Meal.ID, r.Meal.Description, cli.FormatCalories(r.Meal.Calories))
		a.flashErr = false
		a.exceededAt = nil
		if r.GoalExceeded {
			st := r.Status
			a.exceededAt = &st
		}
		return a, loadDataCmd(a.sess)

	case MealDeletedMsg:
		if msg.Err != nil {
			a.setFlash(msg.Err)
			return a, nil
		}
		a.flash = fmt.Sprintf("Deleted #%d", msg.ID)
		a.flashErr = false
		a.exceededAt = nil
		return a, loadDataCmd(a.sess)

	case GoalSetMsg:
		if msg.Err != nil {
			a.setFlash(msg.Err)
			return a, nil
		}
		a.flash = "Goal set to " + cli.FormatCalories(msg.Goal)
		a.flashErr = false
		a.exceededAt = nil
		return a, loadDataCmd(a.sess)

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	// Forward cursor blinks and the like to whichever form is open.
	switch a.mode {
	case modeSetup:
		return a.updateSetupForm(msg)
	case modeAdd:
		return a.updateAddForm(msg)
	case modeGoal:
		var cmd tea.Cmd
		a.goalInput, cmd = a.goalInput.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "left", "shift+tab":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		return a, nil
	case "right", "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	case "r":
		return a, loadDataCmd(a.sess)
	case "a":
		a.addVals = &addValues{}
		a.addForm = newAddForm(a.addVals, a.now, a.loc)
		if a.width > 0 {
			a.addForm = a.addForm.WithWidth(min(a.width, 60))
		}
		a.mode = modeAdd
		return a, a.addForm.Init()
	case "g":
		goal, ok := a.data.Status.Goal, a.data.Status.HasGoal
		a.goalInput = newGoalInput(goal, ok)
		a.mode = modeGoal
		return a, textinput.Blink
	case "esc":
		a.flash = ""
		a.exceededAt = nil
		return a, nil
	}

	if len(key) == 1 {
		if idx := components.TabIdxByKey(rune(key[0])); idx >= 0 {
			a.activeTab = idx
			return a, nil
		}
	}

	if a.activeTab == tabToday {
		switch key {
		case "j", "down":
			a.cursor = clamp(a.cursor+1, 0, len(a.data.Meals)-1)
		case "k", "up":
			a.cursor = clamp(a.cursor-1, 0, len(a.data.Meals)-1)
		case "d", "x", "delete":
			if len(a.data.Meals) > 0 {
				a.mode = modeConfirmDelete
			}
		}
	}
	return a, nil
}

func (a App) updateAddForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		a.mode = modeNormal
		a.addForm = nil
		return a, nil
	}

	form, cmd := a.addForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.addForm = f
	}

	switch a.addForm.State {
	case huh.StateCompleted:
		a.mode = modeNormal
		a.addForm = nil
		return a, a.submitAdd(*a.addVals)
	case huh.StateAborted:
		a.mode = modeNormal
		a.addForm = nil
		return a, nil
	}
	return a, cmd
}

// submitAdd parses the form values. The form validates them already, so a
// failure here only happens if the clock moved across a date boundary.
func (a App) submitAdd(v addValues) tea.Cmd {
	kcal, err := ledger.ParseCalories(v.Calories)
	if err != nil {
		return func() tea.Msg { return MealAddedMsg{Err: err} }
	}
	at, err := parseWhen(v.When, a.now(), a.loc)
	if err != nil {
		return func() tea.Msg { return MealAddedMsg{Err: err} }
	}
	return addMealCmd(a.sess, v.Description, kcal, at)
}

func (a App) updateGoalInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.mode = modeNormal
		return a, nil
	case "enter":
		a.mode = modeNormal
		goal, err := ledger.ParseCalories(a.goalInput.Value())
		if err != nil {
			a.setFlash(err)
			return a, nil
		}
		return a, setGoalCmd(a.sess, goal)
	}

	var cmd tea.Cmd
	a.goalInput, cmd = a.goalInput.Update(msg)
	return a, cmd
}

func (a App) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a.mode = modeNormal
	switch msg.String() {
	case "y", "Y", "enter":
		if a.cursor >= 0 && a.cursor < len(a.data.Meals) {
			return a, deleteMealCmd(a.sess, a.data.Meals[a.cursor].ID)
		}
	}
	return a, nil
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		a.mode = modeNormal
		a.setupForm = nil
		if a.onSetup == nil {
			return a, nil
		}
		goal, hasGoal, err := a.onSetup(*a.setupVals)
		if err != nil {
			a.setFlash(fmt.Errorf("saving setup: %w", err))
			return a, nil
		}
		a.flash = "Setup saved"
		if hasGoal {
			return a, setGoalCmd(a.sess, goal)
		}
		return a, nil
	case huh.StateAborted:
		a.mode = modeNormal
		a.setupForm = nil
		return a, nil
	}
	return a, cmd
}

func (a *App) setFlash(err error) {
	a.flashErr = true
	switch {
	case errors.Is(err, model.ErrValidation), errors.Is(err, model.ErrNotFound):
		a.flash = err.Error()
	case errors.Is(err, model.ErrStorage):
		a.flash = "Storage error: " + err.Error()
	default:
		a.flash = "Error: " + err.Error()
	}
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if a.mode == modeSetup && a.setupForm != nil {
		return a.setupForm.View()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	msg := fmt.Sprintf("\n  Terminal too narrow (%d cols)\n\n  calburn needs at least %d columns.\n",
		a.width, minTerminalWidth)
	h := max(a.height, 5)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)
	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	body := logoStyle.Render("◈ calburn") + subtitleStyle.Render(" · calorie tracker") + "\n\n" +
		a.spinner.View() + subtitleStyle.Render(" Loading meals...")

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(body),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	bindings := []struct{ key, desc string }{
		{"t w m", "Today / Week / Month"},
		{"← →", "Previous / Next tab"},
		{"j k", "Select meal"},
		{"a", "Add meal"},
		{"d", "Delete selected meal"},
		{"g", "Set daily goal"},
		{"r", "Reload"},
		{"Esc", "Dismiss message"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")
	for _, bind := range bindings {
		fmt.Fprintf(&b, "  %s  %s\n",
			keyStyle.Render(fmt.Sprintf("%-8s", bind.key)),
			descStyle.Render(bind.desc))
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()

	header := components.RenderTabBar(a.activeTab, w)
	statusBar := components.RenderStatusBar(w, a.statusHints(), a.statusInfo())

	var top []string
	if a.exceededAt != nil {
		top = append(top, components.GoalBanner(*a.exceededAt, cw))
	}
	if line := a.promptLine(cw); line != "" {
		top = append(top, line)
	}

	contentH := max(minContentHeight, a.height-lipgloss.Height(header)-lipgloss.Height(statusBar))

	var content string
	switch a.activeTab {
	case tabToday:
		content = a.renderTodayTab(cw)
	case tabWeek:
		content = a.renderPeriodTab("Last 7 days", a.data.Week, a.data.WeekSummary, cw)
	case tabMonth:
		content = a.renderPeriodTab("Last 30 days", a.data.Month, a.data.MonthSummary, cw)
	}
	if a.mode == modeAdd && a.addForm != nil {
		content = components.ContentCard("Add meal", a.addForm.View(), cw)
	}
	if len(top) > 0 {
		content = strings.Join(top, "\n") + "\n" + content
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, a.height, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// promptLine renders the goal editor, delete confirmation or flash message.
func (a App) promptLine(width int) string {
	t := theme.Active
	style := lipgloss.NewStyle().Background(t.Surface).Width(width).Padding(0, 1)

	switch a.mode {
	case modeGoal:
		return style.Foreground(t.TextPrimary).Render(a.goalInput.View() + "  (enter to save, esc to cancel)")
	case modeConfirmDelete:
		m := a.data.Meals[a.cursor]
		return style.Foreground(t.Orange).Render(fmt.Sprintf("Delete #%d %s (%s)? [y/N]",
			m.ID, m.Description, cli.FormatCalories(m.Calories)))
	}

	if a.flash == "" {
		return ""
	}
	color := t.Green
	if a.flashErr {
		color = t.Red
	}
	return style.Foreground(color).Render(a.flash)
}

func (a App) statusHints() string {
	switch a.mode {
	case modeAdd:
		return "[enter]next  [esc]cancel"
	case modeGoal, modeConfirmDelete:
		return "[enter]confirm  [esc]cancel"
	}
	return "[a]dd  [d]elete  [g]oal  [?]help  [q]uit"
}

func (a App) statusInfo() string {
	return fmt.Sprintf("%s · %s · %.0fms",
		model.DayKey(a.data.Status.Date), a.loc.String(), float64(a.data.LoadTime.Microseconds())/1000)
}

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes use the same widths as RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW + 1 // separator
	}
	return -1
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return max(lo, min(v, hi))
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(w, lipgloss.Left, line, lipgloss.WithWhitespaceBackground(bg))
	}
	return strings.Join(lines, "\n")
}
