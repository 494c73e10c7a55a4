// Package export writes meal records and daily totals as CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/theirongolddev/calburn/internal/model"
)

var (
	mealsHeader = []string{"id", "date", "time", "description", "calories"}
	dailyHeader = []string{"date", "calories", "goal", "over_goal"}
)

// WriteMealsCSV writes one row per meal with date and time in loc.
func WriteMealsCSV(w io.Writer, meals []model.MealRecord, loc *time.Location) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(mealsHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, m := range meals {
		ts := m.Timestamp.In(loc)
		row := []string{
			strconv.FormatInt(m.ID, 10),
			ts.Format(model.DayLayout),
			ts.Format("15:04:05"),
			m.Description,
			strconv.Itoa(m.Calories),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing meal %d: %w", m.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteDailyCSV writes one row per day. goal and over_goal are empty when
// no goal is set.
func WriteDailyCSV(w io.Writer, days []model.DailyTotal, goal int, hasGoal bool) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(dailyHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, d := range days {
		row := []string{d.Key(), strconv.Itoa(d.Calories), "", ""}
		if hasGoal {
			row[2] = strconv.Itoa(goal)
			row[3] = strconv.FormatBool(d.Calories > goal)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing %s: %w", d.Key(), err)
		}
	}

	cw.Flush()
	return cw.Error()
}
