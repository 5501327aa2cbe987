// Package datetime provides date and time utility functions.
package datetime

import (
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/emi-planner/pkg/constants"
)

const (
	// DateTimeLayout is the calendar-month format used for ledger keys and
	// output dates.
	DateTimeLayout = constants.DateTimeLayout
)

// inputLayouts are tried in order by ParseDate.
var inputLayouts = []string{
	constants.InputDateLayout,
	constants.ISODateLayout,
	constants.DateTimeLayout,
}

// MonthKey identifies one calendar month.
type MonthKey struct {
	Year  int
	Month time.Month
}

// KeyOf returns the calendar month containing t.
func KeyOf(t time.Time) MonthKey {
	return MonthKey{Year: t.Year(), Month: t.Month()}
}

// Time returns the first day of the month at midnight UTC.
func (k MonthKey) Time() time.Time {
	return time.Date(k.Year, k.Month, 1, 0, 0, 0, 0, time.UTC)
}

// AddMonths returns the key offset by the given number of months.
func (k MonthKey) AddMonths(months int) MonthKey {
	return KeyOf(k.Time().AddDate(0, months, 0))
}

// Before reports whether k is an earlier month than other.
func (k MonthKey) Before(other MonthKey) bool {
	if k.Year != other.Year {
		return k.Year < other.Year
	}
	return k.Month < other.Month
}

// String formats the key using DateTimeLayout.
func (k MonthKey) String() string {
	return k.Time().Format(DateTimeLayout)
}

// MarshalText implements encoding.TextMarshaler so keys can index JSON maps.
func (k MonthKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *MonthKey) UnmarshalText(text []byte) error {
	t, err := time.Parse(DateTimeLayout, string(text))
	if err != nil {
		return err
	}
	*k = KeyOf(t)
	return nil
}

// MustParseTime parses a date string using the given layout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseDate parses a user-entered date in DD-MM-YYYY, YYYY-MM-DD or YYYY-MM
// form.
func ParseDate(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range inputLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q: expected DD-MM-YYYY, YYYY-MM-DD or YYYY-MM", value)
}

// StartOfMonth truncates t to the first day of its month at midnight UTC.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// OffsetMonths returns the first of the month that lies the given number of
// months after t's month. Working on month starts avoids AddDate overflow on
// the 29th-31st.
func OffsetMonths(t time.Time, months int) time.Time {
	return StartOfMonth(t).AddDate(0, months, 0)
}

// MonthsBetween returns the number of whole calendar months from a to b.
func MonthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*constants.MonthsPerYear + int(b.Month()) - int(a.Month())
}
