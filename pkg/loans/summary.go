package loans

import (
	"time"

	"github.com/iwvelando/emi-planner/pkg/constants"
	"github.com/iwvelando/emi-planner/pkg/mathutil"
)

// LoanResult compares one loan's nominal repayment with its actual schedule.
type LoanResult struct {
	Loan              Loan     `json:"loan"`
	EMI               float64  `json:"emi"`
	TenureMonths      int      `json:"tenureMonths"`
	MoratoriumMonths  int      `json:"moratoriumMonths"`
	OriginalInterest  float64  `json:"originalInterest"`
	OriginalTotal     float64  `json:"originalTotal"`
	NewInterest       float64  `json:"newInterest"`
	NewTotal          float64  `json:"newTotal"`
	NewTenureMonths   int      `json:"newTenureMonths"`
	NewTenureYears    float64  `json:"newTenureYears"`
	TotalPrepayments  float64  `json:"totalPrepayments"`
	InterestSaved     float64  `json:"interestSaved"`
	TotalSaved        float64  `json:"totalSaved"`
	TenureSavedMonths int      `json:"tenureSavedMonths"`
	Schedule          Schedule `json:"schedule"`
}

// Summarize reduces a loan's actual schedule against its nominal figures.
// The nominal interest is EMI times tenure less principal, which already
// carries any capitalized moratorium interest.
func Summarize(loan Loan, schedule Schedule) LoanResult {
	emi := loan.EMI()
	n := loan.TenureMonths()
	m := loan.MoratoriumMonths()

	originalInterest := emi*float64(n) - loan.Principal
	newInterest := schedule.TotalInterest()

	result := LoanResult{
		Loan:              loan,
		EMI:               emi,
		TenureMonths:      n,
		MoratoriumMonths:  m,
		OriginalInterest:  originalInterest,
		OriginalTotal:     loan.Principal + originalInterest,
		NewInterest:       newInterest,
		NewTotal:          loan.Principal + newInterest,
		NewTenureMonths:   len(schedule),
		NewTenureYears:    float64(len(schedule)) / constants.MonthsPerYear,
		TotalPrepayments:  schedule.TotalPrepayment(),
		TenureSavedMonths: n + m - len(schedule),
		Schedule:          schedule,
	}
	result.InterestSaved = result.OriginalInterest - result.NewInterest
	result.TotalSaved = result.OriginalTotal - result.NewTotal
	return result
}

// OverallSavings totals a set of loan results.
type OverallSavings struct {
	OriginalInterest     float64 `json:"originalInterest"`
	NewInterest          float64 `json:"newInterest"`
	InterestSaved        float64 `json:"interestSaved"`
	OriginalTotal        float64 `json:"originalTotal"`
	NewTotal             float64 `json:"newTotal"`
	TotalSaved           float64 `json:"totalSaved"`
	TotalPrepayments     float64 `json:"totalPrepayments"`
	TenureSavedMonths    int     `json:"tenureSavedMonths"`
	InterestSavedPercent int     `json:"interestSavedPercent"`
	TotalSavedPercent    int     `json:"totalSavedPercent"`
}

// Overall sums per-loan results. Percentages are whole numbers and are 0
// when the original amount is 0.
func Overall(results []LoanResult) OverallSavings {
	var o OverallSavings
	for _, r := range results {
		o.OriginalInterest += r.OriginalInterest
		o.NewInterest += r.NewInterest
		o.OriginalTotal += r.OriginalTotal
		o.NewTotal += r.NewTotal
		o.TotalPrepayments += r.TotalPrepayments
		o.TenureSavedMonths += r.TenureSavedMonths
	}
	o.InterestSaved = o.OriginalInterest - o.NewInterest
	o.TotalSaved = o.OriginalTotal - o.NewTotal
	o.InterestSavedPercent = mathutil.RoundedPercentage(o.InterestSaved, o.OriginalInterest)
	o.TotalSavedPercent = mathutil.RoundedPercentage(o.TotalSaved, o.OriginalTotal)
	return o
}

// InflationLoss is the extra a loan would cost at its rate less the fixed
// inflation rate, over the given number of amortizing months. It is
// informational only.
func InflationLoss(terms LoanTerms, months int) float64 {
	adjusted := mathutil.Max(0, terms.AnnualRatePercent-constants.InflationRate)
	if adjusted == 0 || months <= 0 {
		return 0
	}
	rate := MonthlyRate(adjusted)
	effective := terms.Principal + MoratoriumInterest(terms.Principal, rate, terms.MoratoriumMonths())
	emi := EMIForMonths(effective, rate, months)
	return mathutil.Max(0, emi*float64(months)-terms.Principal)
}

// LoanAnalysis is the single-loan view: installment, schedule and totals.
type LoanAnalysis struct {
	Terms            LoanTerms `json:"terms"`
	Start            time.Time `json:"start"`
	EMI              float64   `json:"emi"`
	TenureMonths     int       `json:"tenureMonths"`
	MoratoriumMonths int       `json:"moratoriumMonths"`
	TotalInterest    float64   `json:"totalInterest"`
	TotalAmount      float64   `json:"totalAmount"`
	InflationLoss    float64   `json:"inflationLoss"`
	Schedule         Schedule  `json:"schedule"`
}

// AnalyzeLoan computes the baseline analysis of a loan starting at start.
func AnalyzeLoan(terms LoanTerms, start time.Time) (LoanAnalysis, error) {
	if err := terms.Validate(); err != nil {
		return LoanAnalysis{}, err
	}
	return analysis(terms, start, GenerateSchedule(terms.ScheduleParams(start))), nil
}

func analysis(terms LoanTerms, start time.Time, schedule Schedule) LoanAnalysis {
	interest := schedule.TotalInterest()
	return LoanAnalysis{
		Terms:            terms,
		Start:            start,
		EMI:              terms.EMI(),
		TenureMonths:     terms.TenureMonths(),
		MoratoriumMonths: terms.MoratoriumMonths(),
		TotalInterest:    interest,
		TotalAmount:      terms.Principal + interest,
		InflationLoss:    InflationLoss(terms, schedule.AmortizingMonths()),
		Schedule:         schedule,
	}
}

// Comparison contrasts a loan with and without a set of prepayment rows.
type Comparison struct {
	Original              LoanAnalysis    `json:"original"`
	Prepaid               LoanAnalysis    `json:"prepaid"`
	TotalPrepayments      float64         `json:"totalPrepayments"`
	InterestSaved         float64         `json:"interestSaved"`
	InterestSavedPercent  int             `json:"interestSavedPercent"`
	TotalSaved            float64         `json:"totalSaved"`
	TotalSavedPercent     int             `json:"totalSavedPercent"`
	InflationSaved        float64         `json:"inflationSaved"`
	InflationSavedPercent int             `json:"inflationSavedPercent"`
	TenureReductionMonths int             `json:"tenureReductionMonths"`
	TenureReductionYears  int             `json:"tenureReductionYears"`
	TenureReductionRest   int             `json:"tenureReductionRemainderMonths"`
	Rows                  []PrepaymentRow `json:"rows"`
}

// CompareWithPrepayments applies rows to a single loan, holding them back
// for the first skipMonths months, and reports what they save.
func CompareWithPrepayments(terms LoanTerms, start time.Time, rows []PrepaymentRow, skipMonths int) (Comparison, error) {
	if err := terms.Validate(); err != nil {
		return Comparison{}, err
	}
	ledger, err := BuildLedger(rows)
	if err != nil {
		return Comparison{}, err
	}

	base := GenerateSchedule(terms.ScheduleParams(start))
	prepaid := ApplyPrepayments(base, ledger, terms.PrepaymentParams(skipMonths))

	c := Comparison{
		Original:         analysis(terms, start, base),
		Prepaid:          analysis(terms, start, prepaid),
		TotalPrepayments: prepaid.TotalPrepayment(),
		Rows:             rows,
	}
	c.InterestSaved = c.Original.TotalInterest - c.Prepaid.TotalInterest
	c.InterestSavedPercent = mathutil.RoundedPercentage(c.InterestSaved, c.Original.TotalInterest)
	c.TotalSaved = c.Original.TotalAmount - c.Prepaid.TotalAmount
	c.TotalSavedPercent = mathutil.RoundedPercentage(c.TotalSaved, c.Original.TotalAmount)
	c.InflationSaved = c.Original.InflationLoss - c.Prepaid.InflationLoss
	c.InflationSavedPercent = mathutil.RoundedPercentage(c.InflationSaved, c.Original.InflationLoss)
	c.TenureReductionMonths = len(base) - len(prepaid)
	c.TenureReductionYears = c.TenureReductionMonths / constants.MonthsPerYear
	c.TenureReductionRest = c.TenureReductionMonths % constants.MonthsPerYear
	return c, nil
}
