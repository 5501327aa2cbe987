package loans

import (
	"fmt"
	"math"
	"time"

	"github.com/iwvelando/emi-planner/pkg/datetime"
	"github.com/iwvelando/emi-planner/pkg/mathutil"
	"go.uber.org/zap"
)

// ScheduleEntry is one calendar month of a loan.
type ScheduleEntry struct {
	Index      int        `json:"index"`
	Date       time.Time  `json:"date"`
	Year       int        `json:"year"`
	Month      time.Month `json:"month"`
	Principal  float64    `json:"principal"`
	Interest   float64    `json:"interest"`
	Prepayment float64    `json:"prepayment"`
	EMI        float64    `json:"emi"`
	Total      float64    `json:"total"`
	Balance    float64    `json:"balance"`
	Moratorium bool       `json:"moratorium"`
}

// Key returns the calendar month of the entry.
func (e ScheduleEntry) Key() datetime.MonthKey {
	return datetime.MonthKey{Year: e.Year, Month: e.Month}
}

// Schedule is a chronological sequence of entries for one loan.
type Schedule []ScheduleEntry

// TotalInterest sums interest over all months, moratorium accrual included.
func (s Schedule) TotalInterest() float64 {
	total := 0.0
	for _, e := range s {
		total += e.Interest
	}
	return total
}

// TotalPrincipal sums the EMI-sourced principal. With a moratorium this
// includes the capitalized interest.
func (s Schedule) TotalPrincipal() float64 {
	total := 0.0
	for _, e := range s {
		total += e.Principal
	}
	return total
}

// TotalPrepayment sums the extra payments applied.
func (s Schedule) TotalPrepayment() float64 {
	total := 0.0
	for _, e := range s {
		total += e.Prepayment
	}
	return total
}

// TotalPaid sums everything paid out, EMIs and prepayments.
func (s Schedule) TotalPaid() float64 {
	total := 0.0
	for _, e := range s {
		total += e.Total
	}
	return total
}

// PaidOff reports whether the last entry closes the loan.
func (s Schedule) PaidOff() bool {
	return len(s) > 0 && mathutil.IsZero(s[len(s)-1].Balance)
}

// AmortizingMonths counts the months in which an EMI was due.
func (s Schedule) AmortizingMonths() int {
	count := 0
	for _, e := range s {
		if !e.Moratorium {
			count++
		}
	}
	return count
}

// LastPrepaymentDate returns the month of the last applied prepayment.
func (s Schedule) LastPrepaymentDate() (time.Time, bool) {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i].Prepayment > 0 {
			return s[i].Date, true
		}
	}
	return time.Time{}, false
}

// ScheduleParams describes one loan to the generator.
type ScheduleParams struct {
	Principal        float64
	EMI              float64
	MonthlyRate      float64
	TenureMonths     int
	MoratoriumMonths int
	Start            time.Time
}

// ScheduleParams derives generator inputs from the terms.
func (t LoanTerms) ScheduleParams(start time.Time) ScheduleParams {
	return ScheduleParams{
		Principal:        t.Principal,
		EMI:              t.EMI(),
		MonthlyRate:      t.MonthlyRate(),
		TenureMonths:     t.TenureMonths(),
		MoratoriumMonths: t.MoratoriumMonths(),
		Start:            start,
	}
}

// ScheduleGenerator produces baseline and prepaid schedules.
type ScheduleGenerator struct {
	logger *zap.Logger
}

// NewScheduleGenerator creates a new generator instance.
func NewScheduleGenerator(logger *zap.Logger) *ScheduleGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleGenerator{logger: logger}
}

// GenerateSchedule creates the month-by-month amortization for a loan
// without prepayments.
func GenerateSchedule(p ScheduleParams) Schedule {
	return NewScheduleGenerator(nil).Generate(p)
}

// Generate creates the baseline schedule and warns when it does not close
// the loan within its nominal tenure.
func (g *ScheduleGenerator) Generate(p ScheduleParams) Schedule {
	schedule := amortize(p, nil, 0)
	if !schedule.PaidOff() {
		balance := 0.0
		if len(schedule) > 0 {
			balance = schedule[len(schedule)-1].Balance
		}
		g.logger.Warn(fmt.Sprintf("schedule leaves %.2f outstanding after %d months", balance, len(schedule)),
			zap.String("op", "loans.Generate"),
			zap.Float64("emi", p.EMI),
		)
	}
	return schedule
}

// amortize steps through the nominal months of a loan, drawing extra
// payments from ledger once skip months have passed. A nil ledger yields the
// baseline schedule; both paths share this loop so an empty ledger
// reproduces the baseline exactly.
func amortize(p ScheduleParams, ledger Ledger, skip int) Schedule {
	months := p.TenureMonths + p.MoratoriumMonths
	if months <= 0 {
		return Schedule{}
	}

	schedule := make(Schedule, 0, months)
	start := datetime.StartOfMonth(p.Start)
	base := p.Principal
	accrued := 0.0
	outstanding := base

	for i := 0; i < months; i++ {
		date := datetime.OffsetMonths(start, i)
		key := datetime.KeyOf(date)
		entry := ScheduleEntry{
			Index: i,
			Date:  date,
			Year:  key.Year,
			Month: key.Month,
		}

		extra := 0.0
		if ledger != nil && i >= skip {
			extra = ledger.Available(key)
		}

		if i < p.MoratoriumMonths {
			// Interest accrues on the base before this month's prepayment
			// reduces it.
			interest := base * p.MonthlyRate
			accrued += interest
			applied := mathutil.Min(extra, base)
			base -= applied
			outstanding = base + accrued

			entry.Interest = interest
			entry.Prepayment = applied
			entry.Total = applied
			entry.Balance = outstanding
			entry.Moratorium = true
			if ledger != nil {
				ledger.Consume(key, applied)
			}
			schedule = append(schedule, entry)
			continue
		}

		if i == p.MoratoriumMonths && p.MoratoriumMonths > 0 {
			outstanding = base + accrued
			accrued = 0
		}

		interest := outstanding * p.MonthlyRate
		principal := math.Max(0, p.EMI-interest)
		entry.Interest = interest

		if principal+extra >= outstanding || mathutil.IsZero(outstanding-principal-extra) {
			// Close the loan this month. A residue of up to a cent is folded
			// into principal rather than prepayment.
			paid := mathutil.Min(outstanding, principal)
			applied := mathutil.Max(0, mathutil.Min(extra, outstanding-paid))
			paid = outstanding - applied

			entry.Principal = paid
			entry.Prepayment = applied
			entry.EMI = paid + interest
			entry.Total = paid + interest + applied
			entry.Balance = 0
			if ledger != nil {
				ledger.Consume(key, applied)
			}
			schedule = append(schedule, entry)
			break
		}

		outstanding -= principal + extra
		entry.Principal = principal
		entry.Prepayment = extra
		entry.EMI = p.EMI
		entry.Total = p.EMI + extra
		entry.Balance = outstanding
		if ledger != nil {
			ledger.Consume(key, extra)
		}
		schedule = append(schedule, entry)
	}

	return schedule
}
