package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/terraincognita07/cycletrack/internal/apperr"
)

const dayLayout = "2006-01-02"

// NormalizeDate keeps the calendar day of value and drops the time of day.
// The day is read in value's own location; instants from a clock go through
// DateInLocation first. The result is always at UTC midnight.
func NormalizeDate(value time.Time) time.Time {
	year, month, day := value.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DateInLocation resolves the calendar day of value as seen from location.
func DateInLocation(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	return NormalizeDate(value.In(location))
}

// DaysBetween counts whole calendar days from a to b using UTC calendar components.
func DaysBetween(a time.Time, b time.Time) int {
	from := NormalizeDate(a)
	to := NormalizeDate(b)
	return int(to.Sub(from).Hours() / 24)
}

func IsSameDay(a time.Time, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func AddDays(value time.Time, days int) time.Time {
	return NormalizeDate(value).AddDate(0, 0, days)
}

func betweenDaysInclusive(day time.Time, start time.Time, end time.Time) bool {
	if start.IsZero() || end.IsZero() {
		return false
	}
	return !day.Before(start) && !day.After(end)
}

func ParseDay(raw string) (time.Time, error) {
	parsed, err := time.ParseInLocation(dayLayout, strings.TrimSpace(raw), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", apperr.ErrInvalidDate, raw)
	}
	return parsed, nil
}

func FormatDay(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.Format(dayLayout)
}
