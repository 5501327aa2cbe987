package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/emi-planner/internal/planner"
	"github.com/iwvelando/emi-planner/pkg/constants"
	"github.com/iwvelando/emi-planner/pkg/datetime"
	"github.com/iwvelando/emi-planner/pkg/loans"
	"github.com/iwvelando/emi-planner/pkg/parse"
	"github.com/shopspring/decimal"
)

// Session parses the configuration into a planning session. An empty start
// date resolves to now.
func (c *Configuration) Session(now time.Time) (*planner.Session, error) {
	start, err := parse.OptionalDate(c.StartDate, now)
	if err != nil {
		return nil, fmt.Errorf("startDate: %w", err)
	}

	strategy, err := loans.ParseStrategy(c.Strategy)
	if err != nil {
		return nil, err
	}

	mode, err := planner.ParseMode(c.Prepayment.Mode)
	if err != nil {
		return nil, err
	}

	session := planner.NewSession(start, strategy)
	for i, l := range c.Loans {
		loan, err := l.ToLoan()
		if err != nil {
			return nil, fmt.Errorf("loan %d: %w", i+1, err)
		}
		session.AddLoan(loan)
	}

	switch mode {
	case planner.ModeCustom:
		rows, err := c.Prepayment.ToRows()
		if err != nil {
			return nil, err
		}
		session.UseCustomRows(rows)
	case planner.ModeSixteenEMI:
		session.UseSixteenEMIRule()
	}
	return session, nil
}

// ToLoan parses a loan entry.
func (l Loan) ToLoan() (loans.Loan, error) {
	principal, err := parse.Currency(l.Principal)
	if err != nil {
		return loans.Loan{}, fmt.Errorf("%w: principal: %w", loans.ErrInvalidLoanTerms, err)
	}
	rate, err := parse.Percent(l.InterestRate)
	if err != nil {
		return loans.Loan{}, fmt.Errorf("%w: interestRate: %w", loans.ErrInvalidLoanTerms, err)
	}
	tenure, err := parse.Tenure(l.Tenure)
	if err != nil {
		return loans.Loan{}, fmt.Errorf("%w: tenure: %w", loans.ErrInvalidLoanTerms, err)
	}
	moratorium, err := parse.OptionalTenure(l.Moratorium)
	if err != nil {
		return loans.Loan{}, fmt.Errorf("%w: moratorium: %w", loans.ErrInvalidLoanTerms, err)
	}

	return loans.Loan{
		ID:   strings.TrimSpace(l.ID),
		Name: strings.TrimSpace(l.Name),
		LoanTerms: loans.LoanTerms{
			Principal:         principal,
			AnnualRatePercent: rate,
			TenureYears:       tenure,
			MoratoriumYears:   moratorium,
		},
		PrepaymentDelayMonths: l.PrepaymentDelayMonths,
	}, nil
}

// ToRows parses the custom prepayment rows. Range checks are left to the
// planner.
func (p Prepayment) ToRows() ([]loans.PrepaymentRow, error) {
	rows := make([]loans.PrepaymentRow, 0, len(p.Rows))
	for i, r := range p.Rows {
		row, err := r.ToRow()
		if err != nil {
			return nil, fmt.Errorf("prepayment row %d: %w", i+1, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ToRow parses one prepayment row.
func (r PrepaymentRow) ToRow() (loans.PrepaymentRow, error) {
	start, err := parse.Date(r.StartDate)
	if err != nil {
		return loans.PrepaymentRow{}, fmt.Errorf("%w: startDate: %w", loans.ErrInvalidPrepaymentRow, err)
	}
	end, err := parse.Date(r.EndDate)
	if err != nil {
		return loans.PrepaymentRow{}, fmt.Errorf("%w: endDate: %w", loans.ErrInvalidPrepaymentRow, err)
	}
	amount, err := parse.Currency(r.Amount)
	if err != nil {
		return loans.PrepaymentRow{}, fmt.Errorf("%w: amount: %w", loans.ErrInvalidPrepaymentRow, err)
	}
	return loans.PrepaymentRow{StartDate: start, EndDate: end, Amount: amount}, nil
}

// FromSession renders a session back into its configuration form, as used
// when saving an edited plan.
func FromSession(s *planner.Session) Configuration {
	conf := Configuration{
		StartDate:  s.Start.Format(constants.InputDateLayout),
		Strategy:   string(s.Strategy),
		Prepayment: Prepayment{Mode: string(s.Prepayment.Mode)},
	}
	for _, l := range s.Loans {
		conf.Loans = append(conf.Loans, Loan{
			ID:                    l.ID,
			Name:                  l.Name,
			Principal:             formatNumber(l.Principal),
			InterestRate:          formatNumber(l.AnnualRatePercent) + "%",
			Tenure:                formatNumber(l.TenureYears),
			Moratorium:            formatNumber(l.MoratoriumYears),
			PrepaymentDelayMonths: l.PrepaymentDelayMonths,
		})
	}
	for _, r := range s.Prepayment.Rows {
		conf.Prepayment.Rows = append(conf.Prepayment.Rows, PrepaymentRow{
			StartDate: datetime.KeyOf(r.StartDate).Time().Format(constants.InputDateLayout),
			EndDate:   datetime.KeyOf(r.EndDate).Time().Format(constants.InputDateLayout),
			Amount:    formatNumber(r.Amount),
		})
	}
	return conf
}

func formatNumber(v float64) string {
	return decimal.NewFromFloat(v).String()
}
