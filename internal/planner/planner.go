// Package planner runs multi-loan prepayment plans: it orders the loans of a
// session by strategy and lets them draw, one after another, from a single
// prepayment pool.
package planner

import (
	"errors"
	"fmt"
	"time"

	"github.com/iwvelando/emi-planner/pkg/constants"
	"github.com/iwvelando/emi-planner/pkg/datetime"
	"github.com/iwvelando/emi-planner/pkg/loans"
	"go.uber.org/zap"
)

var (
	// ErrNoLoans is returned when a session has nothing to plan.
	ErrNoLoans = errors.New("no loans to plan")

	// ErrUnknownMode is returned for a prepayment mode other than none,
	// custom or 16-emi-rule.
	ErrUnknownMode = errors.New("unknown prepayment mode")
)

// Result holds the outcome of one run. Loans are in priority order.
type Result struct {
	Start    time.Time            `json:"start"`
	Strategy loans.Strategy       `json:"strategy"`
	Mode     Mode                 `json:"mode"`
	Loans    []loans.LoanResult   `json:"loans"`
	Overall  loans.OverallSavings `json:"overall"`
	// Pool is the custom prepayment pool before any loan drew from it.
	Pool loans.Ledger `json:"pool,omitempty"`
	// Residual is what is left of the custom pool after every loan has
	// drawn from it.
	Residual loans.Ledger `json:"residual,omitempty"`
}

// Planner runs sessions.
type Planner struct {
	logger    *zap.Logger
	generator *loans.ScheduleGenerator
}

// New creates a planner.
func New(logger *zap.Logger) *Planner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Planner{
		logger:    logger,
		generator: loans.NewScheduleGenerator(logger),
	}
}

// Run plans every loan of the session from the session start date. Loans run
// in parallel from that date; their order only decides who draws from the
// pool first.
func (p *Planner) Run(s *Session) (*Result, error) {
	if s == nil || len(s.Loans) == 0 {
		return nil, ErrNoLoans
	}

	mode, err := ParseMode(string(s.Prepayment.Mode))
	if err != nil {
		return nil, err
	}

	for _, loan := range s.Loans {
		if err := loan.Validate(); err != nil {
			return nil, fmt.Errorf("loan %s: %w", loan.Label(), err)
		}
		if loan.PrepaymentDelayMonths < 0 {
			return nil, fmt.Errorf("loan %s: %w: prepayment delay cannot be negative", loan.Label(), loans.ErrInvalidLoanTerms)
		}
	}

	ordered, err := loans.Prioritize(s.Loans, s.Strategy)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Start:    datetime.StartOfMonth(s.Start),
		Strategy: s.Strategy,
		Mode:     mode,
	}

	switch mode {
	case ModeCustom:
		ledger, err := loans.BuildLedger(s.Prepayment.Rows)
		if err != nil {
			return nil, err
		}
		p.logger.Debug(fmt.Sprintf("custom pool of %.2f over %d months", ledger.Total(), len(ledger)),
			zap.String("op", "planner.Run"),
		)
		result.Pool = ledger.Clone()
		result.Loans = p.runCustom(ordered, result.Start, ledger)
		result.Residual = ledger
	case ModeSixteenEMI:
		result.Loans = p.runSixteenEMI(ordered, result.Start)
	default:
		result.Loans = p.runBaseline(ordered, result.Start)
	}

	result.Overall = loans.Overall(result.Loans)
	p.logger.Info(fmt.Sprintf("planned %d loans with %s strategy, %s prepayments: saved %.2f in interest (%d%%)",
		len(result.Loans), result.Strategy, result.Mode, result.Overall.InterestSaved, result.Overall.InterestSavedPercent),
		zap.String("op", "planner.Run"),
	)
	return result, nil
}

func (p *Planner) runBaseline(ordered []loans.Loan, start time.Time) []loans.LoanResult {
	results := make([]loans.LoanResult, 0, len(ordered))
	for _, loan := range ordered {
		base := p.generator.Generate(loan.ScheduleParams(start))
		results = append(results, loans.Summarize(loan, base))
	}
	return results
}

// runCustom lets each loan draw from the same ledger in turn.
func (p *Planner) runCustom(ordered []loans.Loan, start time.Time, ledger loans.Ledger) []loans.LoanResult {
	results := make([]loans.LoanResult, 0, len(ordered))
	for _, loan := range ordered {
		base := p.generator.Generate(loan.ScheduleParams(start))
		before := ledger.Total()
		schedule := p.generator.Apply(base, ledger, loan.PrepaymentParams(loan.PrepaymentDelayMonths))
		p.logger.Debug(fmt.Sprintf("loan %s drew %.2f, %.2f left in the pool", loan.Label(), before-ledger.Total(), ledger.Total()),
			zap.String("op", "planner.runCustom"),
		)
		results = append(results, loans.Summarize(loan, schedule))
	}
	return results
}

// runSixteenEMI gives each loan its own EMI every third month from a shared
// cursor. After a loan is planned the cursor moves to three months past the
// last prepayment that loan actually took. A loan that took none leaves the
// cursor where it was.
func (p *Planner) runSixteenEMI(ordered []loans.Loan, start time.Time) []loans.LoanResult {
	results := make([]loans.LoanResult, 0, len(ordered))
	cursor := start
	for _, loan := range ordered {
		base := p.generator.Generate(loan.ScheduleParams(start))
		ledger := TemplateLedger(loan, start, cursor)
		schedule := p.generator.Apply(base, ledger, loan.PrepaymentParams(loan.PrepaymentDelayMonths))

		if last, ok := schedule.LastPrepaymentDate(); ok {
			cursor = datetime.OffsetMonths(last, constants.TemplateIntervalMonths)
		}
		p.logger.Debug(fmt.Sprintf("loan %s took %.2f in template prepayments, next due %s",
			loan.Label(), schedule.TotalPrepayment(), cursor.Format(datetime.DateTimeLayout)),
			zap.String("op", "planner.runSixteenEMI"),
		)
		results = append(results, loans.Summarize(loan, schedule))
	}
	return results
}

// TemplateLedger credits the loan's EMI at cursor and every third month
// after it, up to the loan's nominal end plus the template horizon.
func TemplateLedger(loan loans.Loan, start, cursor time.Time) loans.Ledger {
	ledger := make(loans.Ledger)
	emi := loan.EMI()
	horizon := datetime.OffsetMonths(start, loan.TenureMonths()+loan.MoratoriumMonths()+constants.TemplateHorizonMonths)
	for date := datetime.StartOfMonth(cursor); !date.After(horizon); date = datetime.OffsetMonths(date, constants.TemplateIntervalMonths) {
		ledger.Add(datetime.KeyOf(date), emi)
	}
	return ledger
}
