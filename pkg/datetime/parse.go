// Package datetime provides date and time utility functions.
package datetime

import (
	"time"

	"github.com/iwvelando/debt-payoff/pkg/constants"
)

const (
	// DateLayout is the ISO calendar date format used for payoff dates.
	DateLayout = constants.DateLayout
)

// MustParseTime parses a date string using the given layout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseDate parses an ISO date. An empty string yields the given fallback.
func ParseDate(date string, fallback time.Time) (time.Time, error) {
	if date == "" {
		return Truncate(fallback), nil
	}
	return time.Parse(DateLayout, date)
}

// Truncate drops the clock portion of t, keeping its calendar date.
func Truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// AddMonths returns t moved by the given number of calendar months. The day of
// month is clamped to the last day of the target month, so Jan 31 + 1 month is
// Feb 28 (or 29) rather than early March.
func AddMonths(t time.Time, months int) time.Time {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, months, 0)
	day := t.Day()
	if last := DaysInMonth(first); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
}

// DaysInMonth returns the number of days in t's month.
func DaysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// OffsetDate returns the ISO-formatted date that lies the given number of
// months after today.
func OffsetDate(today time.Time, months int) string {
	return AddMonths(today, months).Format(DateLayout)
}
