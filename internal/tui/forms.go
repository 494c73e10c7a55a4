package tui

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/huh"

	"github.com/theirongolddev/calburn/internal/ledger"
	"github.com/theirongolddev/calburn/internal/model"
)

// addValues backs the add-meal form.
type addValues struct {
	Description string
	Calories    string
	When        string
}

func newAddForm(v *addValues, now func() time.Time, loc *time.Location) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("What did you eat?").
				Value(&v.Description).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return model.ErrValidation
					}
					return nil
				}),
			huh.NewInput().
				Title("Calories").
				Placeholder("450").
				Value(&v.Calories).
				Validate(func(s string) error {
					_, err := ledger.ParseCalories(s)
					return err
				}),
			huh.NewInput().
				Title("When").
				Placeholder("now, 12:30 or 2025-06-09 19:00").
				Value(&v.When).
				Validate(func(s string) error {
					_, err := parseWhen(s, now(), loc)
					return err
				}),
		),
	).WithShowHelp(false)
}

// parseWhen accepts "now" in addition to the ledger's timestamp forms.
func parseWhen(s string, now time.Time, loc *time.Location) (time.Time, error) {
	if strings.EqualFold(strings.TrimSpace(s), "now") {
		s = ""
	}
	return ledger.ParseTimestamp(s, now, loc)
}

func newGoalInput(current int, hasGoal bool) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "2000"
	ti.Prompt = "Daily goal (kcal): "
	ti.CharLimit = 6
	ti.Width = 10
	if hasGoal {
		ti.SetValue(strconv.Itoa(current))
	}
	ti.Focus()
	return ti
}
