package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/emi-planner/pkg/constants"
	"github.com/iwvelando/emi-planner/pkg/parse"
	"github.com/iwvelando/emi-planner/pkg/validation"
)

// ValidateConfiguration performs general validation of the configuration and
// returns warnings. Fields that fail to parse are skipped here; Session
// reports them as errors.
func (c *Configuration) ValidateConfiguration() []string {
	start, err := parse.OptionalDate(c.StartDate, time.Now().UTC())
	if err != nil {
		start = time.Now().UTC()
	}

	mode := strings.ToLower(strings.TrimSpace(c.Prepayment.Mode))
	if mode == "" {
		mode = constants.PrepaymentModeNone
	}

	validator := validation.ConfigValidator{Start: start, Mode: mode}
	for i, l := range c.Loans {
		loan, err := l.ToLoan()
		if err != nil {
			continue
		}
		name := loan.Name
		if name == "" {
			name = fmt.Sprintf("#%d", i+1)
		}
		validator.Loans = append(validator.Loans, validation.LoanConfig{
			ID:                    loan.ID,
			Name:                  name,
			TenureMonths:          loan.TenureMonths(),
			MoratoriumMonths:      loan.MoratoriumMonths(),
			PrepaymentDelayMonths: loan.PrepaymentDelayMonths,
		})
	}
	for _, r := range c.Prepayment.Rows {
		row, err := r.ToRow()
		if err != nil {
			continue
		}
		validator.Rows = append(validator.Rows, validation.RowConfig{StartDate: row.StartDate, EndDate: row.EndDate})
	}

	warnings := validator.ValidateAll()
	if c.Output.Format != "" {
		if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
			warnings = append(warnings, err.Error())
		}
	}
	return warnings
}
