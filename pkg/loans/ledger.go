package loans

import (
	"fmt"
	"sort"
	"time"

	"github.com/iwvelando/emi-planner/pkg/datetime"
	"github.com/iwvelando/emi-planner/pkg/mathutil"
)

// PrepaymentRow is a recurring monthly extra payment applied to every
// calendar month in [StartDate, EndDate].
type PrepaymentRow struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Amount    float64   `json:"amount"`
}

// Validate checks a single row.
func (r PrepaymentRow) Validate() error {
	switch {
	case !mathutil.IsFinite(r.Amount) || r.Amount <= 0:
		return fmt.Errorf("%w: amount must be positive, got %v", ErrInvalidPrepaymentRow, r.Amount)
	case r.StartDate.IsZero() || r.EndDate.IsZero():
		return fmt.Errorf("%w: start and end dates are required", ErrInvalidPrepaymentRow)
	case datetime.KeyOf(r.EndDate).Before(datetime.KeyOf(r.StartDate)):
		return fmt.Errorf("%w: end date %s is before start date %s", ErrInvalidPrepaymentRow,
			r.EndDate.Format(datetime.DateTimeLayout), r.StartDate.Format(datetime.DateTimeLayout))
	}
	return nil
}

// Months lists the calendar months the row covers.
func (r PrepaymentRow) Months() []datetime.MonthKey {
	count := datetime.MonthsBetween(r.StartDate, r.EndDate) + 1
	if count <= 0 {
		return nil
	}
	months := make([]datetime.MonthKey, 0, count)
	first := datetime.KeyOf(r.StartDate)
	for i := 0; i < count; i++ {
		months = append(months, first.AddMonths(i))
	}
	return months
}

// ValidateRows validates every row and reports the first failure with its
// position.
func ValidateRows(rows []PrepaymentRow) error {
	for i, row := range rows {
		if err := row.Validate(); err != nil {
			return fmt.Errorf("prepayment row %d: %w", i+1, err)
		}
	}
	return nil
}

// Ledger maps calendar months to the extra payment still available in that
// month. Loans applied in sequence consume from the same ledger, so whatever
// one loan leaves behind is available to the next.
type Ledger map[datetime.MonthKey]float64

// BuildLedger sums all rows into a ledger, overlapping ranges adding up.
func BuildLedger(rows []PrepaymentRow) (Ledger, error) {
	if err := ValidateRows(rows); err != nil {
		return nil, err
	}
	ledger := make(Ledger)
	for _, row := range rows {
		for _, key := range row.Months() {
			ledger.Add(key, row.Amount)
		}
	}
	return ledger, nil
}

// Add credits amount to the month.
func (l Ledger) Add(key datetime.MonthKey, amount float64) {
	if amount <= 0 {
		return
	}
	l[key] += amount
}

// Available returns the unspent amount for the month.
func (l Ledger) Available(key datetime.MonthKey) float64 {
	return l[key]
}

// Consume debits amount from the month. Balances never go negative and a
// month drained to a cent or less is dropped.
func (l Ledger) Consume(key datetime.MonthKey, amount float64) {
	if amount <= 0 {
		return
	}
	remaining := l[key] - amount
	if remaining <= 0 || mathutil.IsZero(remaining) {
		delete(l, key)
		return
	}
	l[key] = remaining
}

// Clone returns an independent copy.
func (l Ledger) Clone() Ledger {
	clone := make(Ledger, len(l))
	for key, amount := range l {
		clone[key] = amount
	}
	return clone
}

// Total is the sum over all months.
func (l Ledger) Total() float64 {
	total := 0.0
	for _, amount := range l {
		total += amount
	}
	return total
}

// Months returns the funded months in chronological order.
func (l Ledger) Months() []datetime.MonthKey {
	keys := make([]datetime.MonthKey, 0, len(l))
	for key := range l {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })
	return keys
}
