package usecase

import (
	"math"
	"time"

	"officehub-backend/internal/model"
)

// Cutoff is the time of day after which a login counts as late.
type Cutoff struct {
	Hour   int
	Minute int
}

var DefaultCutoff = Cutoff{Hour: 9}

// DeriveStatus compares loginTime with the cutoff on loginTime's own day, in its own location.
// A login exactly at the cutoff is on time.
func DeriveStatus(loginTime time.Time, cutoff Cutoff) model.Status {
	limit := time.Date(loginTime.Year(), loginTime.Month(), loginTime.Day(), cutoff.Hour, cutoff.Minute, 0, 0, loginTime.Location())
	if loginTime.After(limit) {
		return model.StatusLate
	}
	return model.StatusPresent
}

// DeriveWorkedHours returns whole hours plus the minute remainder rounded to the nearest minute,
// as a fraction of an hour. Anything past 24h wraps around.
func DeriveWorkedHours(loginTime, logoutTime time.Time) float64 {
	diff := logoutTime.Sub(loginTime)
	if diff <= 0 {
		return 0
	}
	diff %= 24 * time.Hour
	hours := diff / time.Hour
	minutes := math.Round(float64(diff%time.Hour) / float64(time.Minute))
	return float64(hours) + minutes/60
}

// DayOf is the ledger key for t's calendar day.
func DayOf(t time.Time) string {
	return t.Format(model.DateLayout)
}

// WeekStart is the Sunday that opens t's week.
func WeekStart(t time.Time) string {
	return DayOf(t.AddDate(0, 0, -int(t.Weekday())))
}

func MonthBounds(year int, month time.Month) (string, string) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return DayOf(first), DayOf(last)
}

func parseDay(field, value string) (string, error) {
	if value == "" {
		return "", nil
	}
	day, err := time.Parse(model.DateLayout, value)
	if err != nil {
		return "", invalid(field, "expected YYYY-MM-DD")
	}
	return DayOf(day), nil
}
