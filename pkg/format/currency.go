// Package format renders amounts and durations for people to read.
package format

import (
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/emi-planner/pkg/constants"
)

// Symbol prefixes amounts rendered by Currency.
var Symbol = "₹"

// Currency returns a currency string with a symbol and thousands separators (e.g., "-₹1,234.56").
func Currency(amount float64) string {
	formatted := formatPositiveCurrency(math.Abs(amount))
	if amount < 0 {
		return "-" + Symbol + formatted
	}
	return Symbol + formatted
}

// NumericCurrency returns a currency string without a currency symbol but with separators (e.g., "-1,234.56").
func NumericCurrency(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
	}
	formatted := formatPositiveCurrency(math.Abs(amount))
	return sign + formatted
}

// Duration renders a month count as "2 years & 3 months". Zero or negative
// counts render as "0 months".
func Duration(months int) string {
	if months <= 0 {
		return "0 months"
	}
	years := months / constants.MonthsPerYear
	rest := months % constants.MonthsPerYear

	var parts []string
	if years > 0 {
		parts = append(parts, plural(years, "year"))
	}
	if rest > 0 {
		parts = append(parts, plural(rest, "month"))
	}
	return strings.Join(parts, " & ")
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

func formatPositiveCurrency(value float64) string {
	formatted := fmt.Sprintf("%.2f", value)
	parts := strings.SplitN(formatted, ".", 2)
	intPart := parts[0]
	decPart := "00"
	if len(parts) == 2 {
		decPart = parts[1]
	}

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte(',')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	return intPart + "." + decPart
}
