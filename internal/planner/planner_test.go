package planner

import (
	"testing"
	"time"

	"github.com/iwvelando/emi-planner/pkg/datetime"
	"github.com/iwvelando/emi-planner/pkg/loans"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var start = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

func month(year int, m time.Month) time.Time {
	return time.Date(year, m, 1, 0, 0, 0, 0, time.UTC)
}

func twoLoanSession(strategy loans.Strategy) *Session {
	s := NewSession(start, strategy)
	s.AddLoan(loans.Loan{ID: "car", Name: "Car", LoanTerms: loans.LoanTerms{Principal: 200000, AnnualRatePercent: 10, TenureYears: 5}})
	s.AddLoan(loans.Loan{ID: "home", Name: "Home", LoanTerms: loans.LoanTerms{Principal: 500000, AnnualRatePercent: 9, TenureYears: 10}})
	return s
}

func TestRunValidation(t *testing.T) {
	p := New(zap.NewNop())

	t.Run("no loans", func(t *testing.T) {
		_, err := p.Run(NewSession(start, loans.Snowball))
		assert.ErrorIs(t, err, ErrNoLoans)

		_, err = p.Run(nil)
		assert.ErrorIs(t, err, ErrNoLoans)
	})

	t.Run("invalid loan names the loan", func(t *testing.T) {
		s := twoLoanSession(loans.Snowball)
		s.AddLoan(loans.Loan{Name: "Broken", LoanTerms: loans.LoanTerms{Principal: 1000, AnnualRatePercent: 0, TenureYears: 1}})
		_, err := p.Run(s)
		assert.ErrorIs(t, err, loans.ErrInvalidLoanTerms)
		assert.Contains(t, err.Error(), "Broken")
	})

	t.Run("negative delay", func(t *testing.T) {
		s := twoLoanSession(loans.Snowball)
		s.Loans[0].PrepaymentDelayMonths = -1
		_, err := p.Run(s)
		assert.ErrorIs(t, err, loans.ErrInvalidLoanTerms)
	})

	t.Run("invalid row rejects the run", func(t *testing.T) {
		s := twoLoanSession(loans.Snowball)
		s.UseCustomRows([]loans.PrepaymentRow{
			{StartDate: month(2025, 1), EndDate: month(2025, 6), Amount: 1000},
			{StartDate: month(2025, 6), EndDate: month(2025, 1), Amount: 1000},
		})
		result, err := p.Run(s)
		assert.ErrorIs(t, err, loans.ErrInvalidPrepaymentRow)
		assert.Nil(t, result)
	})

	t.Run("unknown mode", func(t *testing.T) {
		s := twoLoanSession(loans.Snowball)
		s.Prepayment.Mode = "weekly"
		_, err := p.Run(s)
		assert.ErrorIs(t, err, ErrUnknownMode)
	})

	t.Run("unknown strategy", func(t *testing.T) {
		s := twoLoanSession("largest-first")
		_, err := p.Run(s)
		assert.ErrorIs(t, err, loans.ErrUnknownStrategy)
	})
}

func TestRunBaseline(t *testing.T) {
	result, err := New(nil).Run(twoLoanSession(loans.Avalanche))
	require.NoError(t, err)

	require.Len(t, result.Loans, 2)
	assert.Equal(t, ModeNone, result.Mode)
	assert.Equal(t, "car", result.Loans[0].Loan.ID, "avalanche puts the higher rate first")
	assert.Len(t, result.Loans[0].Schedule, 60)
	assert.Len(t, result.Loans[1].Schedule, 120)
	assert.InDelta(t, 0, result.Overall.InterestSaved, 0.01)
	assert.Equal(t, 0, result.Overall.TenureSavedMonths)
	assert.Nil(t, result.Residual)
	assert.Nil(t, result.Pool)
}

func TestRunCustomSharedPool(t *testing.T) {
	const pool = 20000.0
	s := twoLoanSession(loans.Snowball)
	s.UseCustomRows([]loans.PrepaymentRow{{StartDate: month(2025, 1), EndDate: month(2027, 12), Amount: pool}})

	result, err := New(zap.NewNop()).Run(s)
	require.NoError(t, err)
	require.Len(t, result.Loans, 2)

	first, second := result.Loans[0], result.Loans[1]
	assert.Equal(t, "car", first.Loan.ID, "snowball puts the smaller principal first")

	perMonth := map[datetime.MonthKey]float64{}
	for _, r := range result.Loans {
		for _, e := range r.Schedule {
			perMonth[e.Key()] += e.Prepayment
		}
	}
	for key, applied := range perMonth {
		assert.LessOrEqualf(t, applied, pool+1e-6, "month %s spent more than the pool", key)
	}

	// The car loan closes early and what it leaves over flows to the home loan.
	require.Less(t, len(first.Schedule), 60)
	payoff := first.Schedule[len(first.Schedule)-1]
	assert.Equal(t, 0.0, payoff.Balance)
	for _, e := range second.Schedule {
		if e.Key() == payoff.Key() {
			assert.InDelta(t, pool-payoff.Prepayment, e.Prepayment, 1e-6)
		}
		if payoff.Key().Before(e.Key()) && e.Date.Before(month(2028, 1)) && e.Balance > 0 {
			assert.InDelta(t, pool, e.Prepayment, 1e-6, "month %s", e.Key())
		}
	}

	assert.InDelta(t, 36*pool, result.Overall.TotalPrepayments+result.Residual.Total(), 1)
	require.Len(t, result.Pool, 36, "the starting pool is reported untouched")
	assert.InDelta(t, 36*pool, result.Pool.Total(), 1e-6)
	assert.InDelta(t, pool, result.Pool.Available(datetime.KeyOf(month(2025, 1))), 1e-6)
	assert.Zero(t, result.Residual.Available(datetime.KeyOf(month(2025, 1))), "January 2025 was fully drawn")
	assert.Greater(t, result.Overall.InterestSaved, 0.0)
	assert.Greater(t, result.Overall.InterestSavedPercent, 0)
	assert.Greater(t, second.TenureSavedMonths, 0)
}

func TestRunCustomDelay(t *testing.T) {
	s := twoLoanSession(loans.Snowball)
	s.Loans[0].PrepaymentDelayMonths = 6
	s.UseCustomRows([]loans.PrepaymentRow{{StartDate: month(2025, 1), EndDate: month(2025, 12), Amount: 5000}})

	result, err := New(zap.NewNop()).Run(s)
	require.NoError(t, err)

	car, home := result.Loans[0], result.Loans[1]
	for i := 0; i < 6; i++ {
		assert.Zero(t, car.Schedule[i].Prepayment)
		assert.InDelta(t, 5000, home.Schedule[i].Prepayment, 1e-6, "the next loan picks up skipped months")
	}
	for i := 6; i < 12; i++ {
		assert.InDelta(t, 5000, car.Schedule[i].Prepayment, 1e-6)
		assert.Zero(t, home.Schedule[i].Prepayment)
	}
}

func TestRunSixteenEMI(t *testing.T) {
	s := twoLoanSession(loans.Snowball)
	s.UseSixteenEMIRule()

	result, err := New(zap.NewNop()).Run(s)
	require.NoError(t, err)
	require.Len(t, result.Loans, 2)

	car, home := result.Loans[0], result.Loans[1]
	carEMI := car.EMI

	var carMonths []int
	for _, e := range car.Schedule {
		if e.Prepayment > 0 {
			carMonths = append(carMonths, e.Index)
		}
	}
	require.NotEmpty(t, carMonths)
	for i, idx := range carMonths {
		assert.Equal(t, 3*i, idx, "template prepayments land every third month")
		if i < len(carMonths)-1 {
			assert.InDelta(t, carEMI, car.Schedule[idx].Prepayment, 1e-6)
		}
	}

	last, ok := car.Schedule.LastPrepaymentDate()
	require.True(t, ok)
	next := datetime.OffsetMonths(last, 3)
	for _, e := range home.Schedule {
		switch {
		case e.Date.Before(next):
			assert.Zero(t, e.Prepayment, "home loan got a prepayment at %s before the cursor", e.Key())
		case e.Date.Equal(next):
			assert.InDelta(t, home.EMI, e.Prepayment, 1e-6)
		}
	}
	assert.Nil(t, result.Residual)
	assert.Nil(t, result.Pool)
	assert.Greater(t, home.InterestSaved, 0.0)
}

func TestRunSixteenEMICursorUnchangedWithoutPrepayment(t *testing.T) {
	s := NewSession(start, loans.Avalanche)
	s.AddLoan(loans.Loan{ID: "held", LoanTerms: loans.LoanTerms{Principal: 100000, AnnualRatePercent: 14, TenureYears: 2}, PrepaymentDelayMonths: 1000})
	s.AddLoan(loans.Loan{ID: "open", LoanTerms: loans.LoanTerms{Principal: 300000, AnnualRatePercent: 8, TenureYears: 5}})
	s.UseSixteenEMIRule()

	result, err := New(zap.NewNop()).Run(s)
	require.NoError(t, err)

	assert.Zero(t, result.Loans[0].TotalPrepayments)
	assert.Greater(t, result.Loans[1].Schedule[0].Prepayment, 0.0, "cursor stays at the start date")
}

func TestTemplateLedger(t *testing.T) {
	loan := loans.Loan{LoanTerms: loans.LoanTerms{Principal: 120000, AnnualRatePercent: 12, TenureYears: 1}}
	ledger := TemplateLedger(loan, start, month(2025, 2))

	months := ledger.Months()
	require.NotEmpty(t, months)
	assert.Equal(t, "2025-02", months[0].String())
	// 12 months of tenure plus the horizon, counted from the start date.
	assert.Equal(t, "2030-11", months[len(months)-1].String())
	for _, key := range months {
		assert.InDelta(t, loan.EMI(), ledger.Available(key), 1e-9)
	}
}

func TestSessionLifecycle(t *testing.T) {
	s := NewSession(time.Time{}, loans.Snowball)
	assert.False(t, s.Start.IsZero())
	assert.Equal(t, ModeNone, s.Prepayment.Mode)

	s.AddLoan(loans.Loan{LoanTerms: loans.LoanTerms{Principal: 1}})
	s.AddLoan(loans.Loan{ID: "named", LoanTerms: loans.LoanTerms{Principal: 2}})
	assert.Equal(t, "loan-1", s.Loans[0].ID)
	assert.Equal(t, "named", s.Loans[1].ID)

	s.UseCustomRows([]loans.PrepaymentRow{{Amount: 1}})
	assert.Equal(t, ModeCustom, s.Prepayment.Mode)

	s.Reset()
	assert.Empty(t, s.Loans)
	assert.Equal(t, ModeNone, s.Prepayment.Mode)
	assert.Empty(t, s.Prepayment.Rows)
	assert.Equal(t, loans.Snowball, s.Strategy)
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input    string
		expected Mode
		wantErr  bool
	}{
		{"", ModeNone, false},
		{"none", ModeNone, false},
		{"Custom", ModeCustom, false},
		{"16-emi-rule", ModeSixteenEMI, false},
		{"monthly", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			mode, err := ParseMode(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownMode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, mode)
		})
	}
}
