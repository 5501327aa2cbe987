// Package validation provides configuration validation utilities.
package validation

import (
	"fmt"
	"time"

	"github.com/iwvelando/emi-planner/pkg/constants"
	"github.com/iwvelando/emi-planner/pkg/datetime"
)

// ValidateMoratorium checks that a moratorium does not outlast the repayment
// tenure that follows it.
func ValidateMoratorium(loanName string, tenureMonths, moratoriumMonths int) string {
	if moratoriumMonths > tenureMonths {
		return fmt.Sprintf("Loan '%s' has a moratorium of %d months, longer than its %d month repayment tenure",
			loanName, moratoriumMonths, tenureMonths)
	}
	return ""
}

// ValidatePrepaymentDelay checks that a loan is not held back from
// prepayments for its whole life.
func ValidatePrepaymentDelay(loanName string, delayMonths, lifeMonths int) string {
	if delayMonths > 0 && delayMonths >= lifeMonths {
		return fmt.Sprintf("Loan '%s' delays prepayments for %d months but matures after %d - it will never be prepaid",
			loanName, delayMonths, lifeMonths)
	}
	return ""
}

// ValidateRowDates checks that a prepayment row overlaps the planning window
// [planStart, planEnd].
func ValidateRowDates(rowName string, start, end, planStart, planEnd time.Time) []string {
	var warnings []string

	rowStart, rowEnd := datetime.KeyOf(start), datetime.KeyOf(end)
	first, last := datetime.KeyOf(planStart), datetime.KeyOf(planEnd)

	if rowEnd.Before(first) {
		warnings = append(warnings, fmt.Sprintf("Prepayment %s ends before the plan starts (%s < %s) and will never apply",
			rowName, rowEnd, first))
	}

	if last.Before(rowStart) {
		warnings = append(warnings, fmt.Sprintf("Prepayment %s starts after every loan has matured (%s > %s)",
			rowName, rowStart, last))
	}

	return warnings
}

// ValidateMode checks that rows are given exactly when the mode uses them.
func ValidateMode(mode string, rowCount int) string {
	switch {
	case mode == constants.PrepaymentModeCustom && rowCount == 0:
		return "Custom prepayment mode has no rows - loans will follow their baseline schedules"
	case mode != constants.PrepaymentModeCustom && rowCount > 0:
		return fmt.Sprintf("%d prepayment rows are ignored in %s mode", rowCount, mode)
	}
	return ""
}

// ValidateUniqueIDs reports loan IDs used more than once.
func ValidateUniqueIDs(ids []string) []string {
	var warnings []string
	seen := make(map[string]int, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		seen[id]++
		if seen[id] == 2 {
			warnings = append(warnings, fmt.Sprintf("Loan ID '%s' is used more than once", id))
		}
	}
	return warnings
}

// ConfigValidator holds the parsed parts of a configuration that warnings are
// raised against.
type ConfigValidator struct {
	Start time.Time
	Mode  string
	Loans []LoanConfig
	Rows  []RowConfig
}

// LoanConfig is the part of a loan checked by ValidateAll.
type LoanConfig struct {
	ID                    string
	Name                  string
	TenureMonths          int
	MoratoriumMonths      int
	PrepaymentDelayMonths int
}

// RowConfig is the part of a prepayment row checked by ValidateAll.
type RowConfig struct {
	StartDate time.Time
	EndDate   time.Time
}

// ValidateAll validates the entire configuration and returns warnings
func (cv *ConfigValidator) ValidateAll() []string {
	var warnings []string

	if len(cv.Loans) == 0 {
		warnings = append(warnings, "No loans are configured")
	}

	if warning := ValidateMode(cv.Mode, len(cv.Rows)); warning != "" {
		warnings = append(warnings, warning)
	}

	ids := make([]string, 0, len(cv.Loans))
	longest := 0
	for _, loan := range cv.Loans {
		ids = append(ids, loan.ID)
		life := loan.TenureMonths + loan.MoratoriumMonths
		if life > longest {
			longest = life
		}

		if warning := ValidateMoratorium(loan.Name, loan.TenureMonths, loan.MoratoriumMonths); warning != "" {
			warnings = append(warnings, warning)
		}
		if warning := ValidatePrepaymentDelay(loan.Name, loan.PrepaymentDelayMonths, life); warning != "" {
			warnings = append(warnings, warning)
		}
	}
	warnings = append(warnings, ValidateUniqueIDs(ids)...)

	if cv.Mode != constants.PrepaymentModeCustom || len(cv.Loans) == 0 {
		return warnings
	}

	planEnd := datetime.OffsetMonths(cv.Start, longest-1)
	for i, row := range cv.Rows {
		warnings = append(warnings, ValidateRowDates(fmt.Sprintf("row %d", i+1), row.StartDate, row.EndDate, cv.Start, planEnd)...)
	}

	return warnings
}
