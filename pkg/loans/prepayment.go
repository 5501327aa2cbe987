package loans

import (
	"fmt"

	"go.uber.org/zap"
)

// PrepaymentParams carries the loan figures the applicator re-derives each
// month from. SkipMonths delays the first month a prepayment may land.
type PrepaymentParams struct {
	Principal        float64
	EMI              float64
	MonthlyRate      float64
	MoratoriumMonths int
	SkipMonths       int
}

// PrepaymentParams derives applicator inputs from the terms.
func (t LoanTerms) PrepaymentParams(skipMonths int) PrepaymentParams {
	return PrepaymentParams{
		Principal:        t.Principal,
		EMI:              t.EMI(),
		MonthlyRate:      t.MonthlyRate(),
		MoratoriumMonths: t.MoratoriumMonths(),
		SkipMonths:       skipMonths,
	}
}

// ApplyPrepayments re-derives base month by month with the extra payments in
// ledger. Every amount applied is consumed from ledger; whatever the loan
// does not need stays there for the next loan. The result ends in the month
// the balance reaches zero.
func ApplyPrepayments(base Schedule, ledger Ledger, params PrepaymentParams) Schedule {
	return NewScheduleGenerator(nil).Apply(base, ledger, params)
}

// Apply is ApplyPrepayments with logging.
func (g *ScheduleGenerator) Apply(base Schedule, ledger Ledger, params PrepaymentParams) Schedule {
	if len(base) == 0 {
		return Schedule{}
	}
	if ledger == nil {
		ledger = Ledger{}
	}

	p := ScheduleParams{
		Principal:        params.Principal,
		EMI:              params.EMI,
		MonthlyRate:      params.MonthlyRate,
		TenureMonths:     len(base) - params.MoratoriumMonths,
		MoratoriumMonths: params.MoratoriumMonths,
		Start:            base[0].Date,
	}
	schedule := amortize(p, ledger, params.SkipMonths)

	if applied := schedule.TotalPrepayment(); applied > 0 {
		g.logger.Debug(fmt.Sprintf("applied %.2f in prepayments, schedule shortened from %d to %d months",
			applied, len(base), len(schedule)),
			zap.String("op", "loans.Apply"),
			zap.Int("skip_months", params.SkipMonths),
		)
	}
	return schedule
}
