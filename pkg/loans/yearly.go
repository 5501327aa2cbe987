package loans

import (
	"github.com/iwvelando/emi-planner/pkg/constants"
	"github.com/iwvelando/emi-planner/pkg/mathutil"
)

// YearSummary aggregates one calendar year of a schedule.
type YearSummary struct {
	Year       int     `json:"year"`
	Principal  float64 `json:"principal"`
	Interest   float64 `json:"interest"`
	Prepayment float64 `json:"prepayment"`
	Total      float64 `json:"total"`
	Balance    float64 `json:"balance"`
}

// YearlyBreakdown groups a schedule by calendar year. Balance is the
// balance after the year's last month.
func YearlyBreakdown(schedule Schedule) []YearSummary {
	var years []YearSummary
	for _, e := range schedule {
		if len(years) == 0 || years[len(years)-1].Year != e.Year {
			years = append(years, YearSummary{Year: e.Year})
		}
		y := &years[len(years)-1]
		y.Principal += e.Principal
		y.Interest += e.Interest
		y.Prepayment += e.Prepayment
		y.Total += e.Total
		y.Balance = e.Balance
	}
	return years
}

// RowsFromPrepayments turns the prepayments applied in a schedule back into
// editable rows, ignoring the first skipMonths months. Prepayments landing
// exactly every third month become one single-month row each; otherwise
// consecutive months whose amounts match to the cent are merged into one row.
func RowsFromPrepayments(schedule Schedule, skipMonths int) []PrepaymentRow {
	var applied []ScheduleEntry
	for _, e := range schedule {
		if e.Index >= skipMonths && mathutil.IsPositive(e.Prepayment) {
			applied = append(applied, e)
		}
	}
	if len(applied) == 0 {
		return nil
	}

	if everyThirdMonth(applied) {
		rows := make([]PrepaymentRow, 0, len(applied))
		for _, e := range applied {
			rows = append(rows, PrepaymentRow{StartDate: e.Date, EndDate: e.Date, Amount: mathutil.RoundCurrency(e.Prepayment)})
		}
		return rows
	}

	var rows []PrepaymentRow
	for i, e := range applied {
		amount := mathutil.RoundCurrency(e.Prepayment)
		if i > 0 {
			last := &rows[len(rows)-1]
			if e.Index == applied[i-1].Index+1 && mathutil.WithinTolerance(last.Amount, amount, constants.CurrencyTolerance/2) {
				last.EndDate = e.Date
				continue
			}
		}
		rows = append(rows, PrepaymentRow{StartDate: e.Date, EndDate: e.Date, Amount: amount})
	}
	return rows
}

func everyThirdMonth(entries []ScheduleEntry) bool {
	if len(entries) < 2 {
		return false
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].Index != entries[i-1].Index+constants.TemplateIntervalMonths {
			return false
		}
	}
	return true
}
