package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/theirongolddev/calburn/internal/config"
	"github.com/theirongolddev/calburn/internal/ledger"
	"github.com/theirongolddev/calburn/internal/tui/theme"
)

// SetupValues holds the answers from the setup form.
type SetupValues struct {
	Goal        string
	Timezone    string
	DefaultDays int
	Theme       string
}

// NewSetupValues seeds the form from the current config and goal.
func NewSetupValues(cfg config.Config, goal int, hasGoal bool) *SetupValues {
	v := &SetupValues{
		Timezone:    cfg.General.Timezone,
		DefaultDays: cfg.General.DefaultDays,
		Theme:       cfg.Appearance.Theme,
	}
	if hasGoal {
		v.Goal = strconv.Itoa(goal)
	}
	return v
}

// NewSetupForm builds the first-run form. It is shared by `calburn setup`
// and the dashboard's first launch.
func NewSetupForm(vals *SetupValues) *huh.Form {
	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themeOpts = append(themeOpts, huh.NewOption(t.Name, t.Name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to calburn").
				Description("Log meals, watch your daily calories, and keep an eye on your goal.\nEverything stays in a local database."),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Daily calorie goal").
				Description("Leave empty to set it later with `calburn goal set`.").
				Placeholder("2000").
				Value(&vals.Goal).
				Validate(validateOptionalGoal),
			huh.NewInput().
				Title("Timezone").
				Description("IANA name such as Europe/Berlin. Empty uses the system timezone.").
				Value(&vals.Timezone).
				Validate(validateTimezone),
		),
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Default range for `calburn daily`").
				Options(
					huh.NewOption("7 days", 7),
					huh.NewOption("14 days", 14),
					huh.NewOption("30 days", 30),
				).
				Value(&vals.DefaultDays),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&vals.Theme),
		),
	).WithShowHelp(false)
}

// Apply copies the answers into cfg and returns the parsed goal, if any.
func (v SetupValues) Apply(cfg *config.Config) (goal int, hasGoal bool, err error) {
	cfg.General.Timezone = strings.TrimSpace(v.Timezone)
	if v.DefaultDays > 0 {
		cfg.General.DefaultDays = v.DefaultDays
	}
	if v.Theme != "" {
		cfg.Appearance.Theme = v.Theme
	}

	if strings.TrimSpace(v.Goal) == "" {
		return 0, false, nil
	}
	goal, err = ledger.ParseCalories(v.Goal)
	if err != nil {
		return 0, false, err
	}
	return goal, true, nil
}

func validateOptionalGoal(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	_, err := ledger.ParseCalories(s)
	return err
}

func validateTimezone(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := time.LoadLocation(s); err != nil {
		return fmt.Errorf("unknown timezone %q", s)
	}
	return nil
}
