// Package output provides utilities for formatting and displaying plan results.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/iwvelando/emi-planner/internal/planner"
	"github.com/iwvelando/emi-planner/pkg/constants"
	"github.com/iwvelando/emi-planner/pkg/datetime"
	"github.com/iwvelando/emi-planner/pkg/format"
	"github.com/iwvelando/emi-planner/pkg/loans"
	"github.com/iwvelando/emi-planner/pkg/mathutil"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Write renders result in the named output format.
func Write(w io.Writer, outputFormat string, result *planner.Result) error {
	switch outputFormat {
	case constants.OutputFormatPretty:
		return PrettyFormat(w, result)
	case constants.OutputFormatCSV:
		return CsvFormat(w, result)
	case constants.OutputFormatJSON:
		return JSONFormat(w, result)
	}
	return fmt.Errorf("unsupported output format %q", outputFormat)
}

// PrettyFormat outputs a human-readable rather than machine-readable report:
// a summary and yearly table per loan followed by the overall savings.
func PrettyFormat(w io.Writer, result *planner.Result) error {
	p := message.NewPrinter(language.English)
	ew := &errWriter{w: w}

	ew.printf("--- Plan from %s: %s strategy, %s prepayments ---\n",
		result.Start.Format(datetime.DateTimeLayout), result.Strategy, result.Mode)

	for _, r := range result.Loans {
		ew.printf("\n--- Results for loan %s ---\n", r.Loan.Label())
		ew.printf("EMI: %s | Tenure: %s", format.Currency(r.EMI), format.Duration(r.TenureMonths))
		if r.MoratoriumMonths > 0 {
			ew.printf(" | Moratorium: %s", format.Duration(r.MoratoriumMonths))
		}
		ew.printf("\n")
		ew.printf("Interest: %s -> %s | Prepaid: %s\n",
			format.Currency(r.OriginalInterest), format.Currency(r.NewInterest), format.Currency(r.TotalPrepayments))
		if r.TenureSavedMonths > 0 {
			ew.printf("Saved %s in interest and closes %s early\n",
				format.Currency(r.InterestSaved), format.Duration(r.TenureSavedMonths))
		}

		ew.printf("Year | Principal      | Interest       | Prepayment     | Balance\n")
		ew.printf("____ | ______________ | ______________ | ______________ | ______________\n")
		for _, y := range loans.YearlyBreakdown(r.Schedule) {
			ew.write(p.Sprintf("%d | %14.2f | %14.2f | %14.2f | %14.2f\n", y.Year, y.Principal, y.Interest, y.Prepayment, y.Balance))
		}
	}

	o := result.Overall
	ew.printf("\n--- Overall ---\n")
	ew.printf("Interest: %s -> %s, saved %s (%d%%)\n",
		format.Currency(o.OriginalInterest), format.Currency(o.NewInterest), format.Currency(o.InterestSaved), o.InterestSavedPercent)
	ew.printf("Total: %s -> %s, saved %s (%d%%)\n",
		format.Currency(o.OriginalTotal), format.Currency(o.NewTotal), format.Currency(o.TotalSaved), o.TotalSavedPercent)
	ew.printf("Prepaid: %s | Tenure saved: %s\n", format.Currency(o.TotalPrepayments), format.Duration(o.TenureSavedMonths))
	if pool := result.Pool.Total(); mathutil.IsPositive(pool) {
		ew.printf("Prepayment pool: %s\n", format.Currency(pool))
	}
	if left := result.Residual.Total(); mathutil.IsPositive(left) {
		ew.printf("Unused prepayments: %s\n", format.Currency(left))
	}
	return ew.err
}

// CsvFormat outputs every schedule month of every loan in comma-separated
// value format.
func CsvFormat(w io.Writer, result *planner.Result) error {
	cw := csv.NewWriter(w)
	header := []string{"loan", "date", "principal", "interest", "prepayment", "emi", "total", "balance", "moratorium"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range result.Loans {
		for _, e := range r.Schedule {
			record := []string{
				r.Loan.ID,
				e.Date.Format(datetime.DateTimeLayout),
				fmt.Sprintf("%.2f", e.Principal),
				fmt.Sprintf("%.2f", e.Interest),
				fmt.Sprintf("%.2f", e.Prepayment),
				fmt.Sprintf("%.2f", e.EMI),
				fmt.Sprintf("%.2f", e.Total),
				fmt.Sprintf("%.2f", e.Balance),
				fmt.Sprintf("%t", e.Moratorium),
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// JSONFormat outputs the result as indented JSON.
func JSONFormat(w io.Writer, result *planner.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(f string, args ...any) {
	ew.write(fmt.Sprintf(f, args...))
}

func (ew *errWriter) write(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = io.WriteString(ew.w, s)
}
