// Package parse converts the formatted strings used at the edges of the
// planner ("₹1,23,456", "18%", "15 yrs", "15-08-2025") into typed values.
// Nothing formatted travels past this package into the calculation core.
package parse

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/emi-planner/pkg/datetime"
	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidNumber is returned when a numeric field cannot be parsed.
	ErrInvalidNumber = errors.New("invalid number")

	// ErrInvalidDate is returned when a date field cannot be parsed.
	ErrInvalidDate = errors.New("invalid date")
)

var currencyReplacer = strings.NewReplacer("₹", "", "$", "", "€", "", "£", "", "Rs.", "", "Rs", "", "INR", "", ",", "", "_", "", " ", "")

var tenureReplacer = strings.NewReplacer("years", "", "year", "", "yrs", "", "yr", "", "y", "", " ", "")

// Currency parses an amount such as "₹14,54,615", "$1,234.50" or "5000".
func Currency(value string) (float64, error) {
	return number(currencyReplacer.Replace(strings.TrimSpace(value)), value)
}

// Percent parses a rate such as "18%" or "8.5".
func Percent(value string) (float64, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(value), "%", "")
	return number(strings.TrimSpace(cleaned), value)
}

// Tenure parses a duration in years such as "15 yrs", "1 yr" or "2.5".
func Tenure(value string) (float64, error) {
	cleaned := tenureReplacer.Replace(strings.ToLower(strings.TrimSpace(value)))
	return number(cleaned, value)
}

// OptionalTenure is Tenure with an empty value meaning zero, as used for
// moratorium periods.
func OptionalTenure(value string) (float64, error) {
	if strings.TrimSpace(value) == "" {
		return 0, nil
	}
	return Tenure(value)
}

// Date parses DD-MM-YYYY, YYYY-MM-DD or YYYY-MM.
func Date(value string) (time.Time, error) {
	t, err := datetime.ParseDate(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	return t, nil
}

// OptionalDate is Date with an empty value resolving to fallback.
func OptionalDate(value string, fallback time.Time) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return fallback, nil
	}
	return Date(value)
}

func number(cleaned, original string) (float64, error) {
	if cleaned == "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, original)
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, original)
	}
	return d.InexactFloat64(), nil
}
