package loans

import (
	"fmt"
	"sort"
	"strings"
)

// Loan is one loan of a multi-loan plan.
type Loan struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	LoanTerms
	// PrepaymentDelayMonths holds prepayments back for the first months of
	// the loan.
	PrepaymentDelayMonths int `json:"prepaymentDelayMonths"`
}

// Label returns the name if set, else the ID.
func (l Loan) Label() string {
	if l.Name != "" {
		return l.Name
	}
	return l.ID
}

// Strategy orders loans for prepayment allocation.
type Strategy string

const (
	// Snowball pays the smallest principal first.
	Snowball Strategy = "snowball"
	// Avalanche pays the highest interest rate first.
	Avalanche Strategy = "avalanche"
)

// ParseStrategy accepts a strategy name case-insensitively.
func ParseStrategy(name string) (Strategy, error) {
	switch s := Strategy(strings.ToLower(strings.TrimSpace(name))); s {
	case Snowball, Avalanche:
		return s, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

// Prioritize returns a new slice ordered by strategy. Ties keep their input
// order and loans is left untouched.
func Prioritize(loans []Loan, strategy Strategy) ([]Loan, error) {
	var less func(a, b Loan) bool
	switch strategy {
	case Snowball:
		less = func(a, b Loan) bool { return a.Principal < b.Principal }
	case Avalanche:
		less = func(a, b Loan) bool { return a.AnnualRatePercent > b.AnnualRatePercent }
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}

	ordered := make([]Loan, len(loans))
	copy(ordered, loans)
	sort.SliceStable(ordered, func(i, j int) bool { return less(ordered[i], ordered[j]) })
	return ordered, nil
}
