// Package loans provides the amortization and prepayment engine: EMI
// computation, month-by-month schedules with moratorium handling, prepayment
// application against a shared ledger, loan prioritization and savings
// summaries.
package loans

import (
	"errors"
	"fmt"
	"math"

	"github.com/iwvelando/emi-planner/pkg/constants"
	"github.com/iwvelando/emi-planner/pkg/mathutil"
)

var (
	// ErrInvalidLoanTerms is returned for non-finite or non-positive
	// principal, rate or tenure, or a negative moratorium.
	ErrInvalidLoanTerms = errors.New("invalid loan terms")

	// ErrInvalidPrepaymentRow is returned for a row with a non-positive
	// amount, a missing date or an end before its start.
	ErrInvalidPrepaymentRow = errors.New("invalid prepayment row")

	// ErrUnknownStrategy is returned for a prioritization strategy other
	// than snowball or avalanche.
	ErrUnknownStrategy = errors.New("unknown prioritization strategy")
)

// LoanTerms holds the immutable inputs of one loan.
type LoanTerms struct {
	Principal         float64 `json:"principal"`
	AnnualRatePercent float64 `json:"annualRatePercent"`
	TenureYears       float64 `json:"tenureYears"`
	MoratoriumYears   float64 `json:"moratoriumYears"`
}

// Validate checks that the terms can be amortized.
func (t LoanTerms) Validate() error {
	switch {
	case !mathutil.IsFinite(t.Principal) || t.Principal <= 0:
		return fmt.Errorf("%w: principal must be positive, got %v", ErrInvalidLoanTerms, t.Principal)
	case !mathutil.IsFinite(t.AnnualRatePercent) || t.AnnualRatePercent <= 0:
		return fmt.Errorf("%w: interest rate must be positive, got %v", ErrInvalidLoanTerms, t.AnnualRatePercent)
	case !mathutil.IsFinite(t.TenureYears) || t.TenureYears <= 0 || t.TenureMonths() < 1:
		return fmt.Errorf("%w: tenure must be at least one month, got %v years", ErrInvalidLoanTerms, t.TenureYears)
	case !mathutil.IsFinite(t.MoratoriumYears) || t.MoratoriumYears < 0:
		return fmt.Errorf("%w: moratorium cannot be negative, got %v", ErrInvalidLoanTerms, t.MoratoriumYears)
	}
	return nil
}

// TenureMonths is the nominal amortizing tenure in whole months.
func (t LoanTerms) TenureMonths() int {
	return int(math.Round(t.TenureYears * constants.MonthsPerYear))
}

// MoratoriumMonths is the interest-only accrual period in whole months.
func (t LoanTerms) MoratoriumMonths() int {
	return int(math.Round(t.MoratoriumYears * constants.MonthsPerYear))
}

// MonthlyRate is the periodic rate as a fraction.
func (t LoanTerms) MonthlyRate() float64 {
	return MonthlyRate(t.AnnualRatePercent)
}

// EffectivePrincipal is the principal plus the simple interest accrued over
// the moratorium, i.e. the base that is amortized once payments start.
func (t LoanTerms) EffectivePrincipal() float64 {
	return t.Principal + MoratoriumInterest(t.Principal, t.MonthlyRate(), t.MoratoriumMonths())
}

// EMI is the installment for these terms, computed on the effective
// principal.
func (t LoanTerms) EMI() float64 {
	return EMIForMonths(t.EffectivePrincipal(), t.MonthlyRate(), t.TenureMonths())
}

// MonthlyRate converts an annual percentage rate to a monthly fraction.
func MonthlyRate(annualRatePercent float64) float64 {
	return annualRatePercent / constants.MonthsPerYear / constants.PercentageMultiplier
}

// MoratoriumInterest is the non-compounding interest accrued on principal
// over the given number of months.
func MoratoriumInterest(principal, monthlyRate float64, months int) float64 {
	if months <= 0 {
		return 0
	}
	return principal * monthlyRate * float64(months)
}

// ComputeEMI calculates the equated monthly installment for a loan using the
// standard amortization formula. Degenerate inputs fall back to an even split
// of the principal instead of producing NaN or Inf.
func ComputeEMI(principal, annualRatePercent, tenureYears float64) float64 {
	months := int(math.Round(tenureYears * constants.MonthsPerYear))
	return EMIForMonths(principal, MonthlyRate(annualRatePercent), months)
}

// EMIForMonths is ComputeEMI expressed with a monthly rate and a tenure in
// months.
func EMIForMonths(principal, monthlyRate float64, months int) float64 {
	if !mathutil.IsFinite(principal) || principal <= 0 {
		return 0
	}
	if monthlyRate > 0 && months > 0 {
		power := math.Pow(1+monthlyRate, float64(months))
		if mathutil.IsFinite(power) && power-1 != 0 {
			emi := principal * monthlyRate * power / (power - 1)
			if mathutil.IsFinite(emi) {
				return emi
			}
		}
	}
	return principal / math.Max(1, float64(months))
}
