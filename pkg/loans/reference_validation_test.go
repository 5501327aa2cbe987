package loans

import (
	"fmt"
	"math"
	"testing"
	"time"

	"go.uber.org/zap"
)

// ReferencePayment represents a single payment from the reference schedule
type ReferencePayment struct {
	Month            int
	Payment          float64
	PrincipalPayment float64
	Interest         float64
	LoanBalance      float64
}

// getReferenceSchedule returns the authoritative amortization schedule data
// Based on: Loan amount 175,000, Interest rate 4.5%, Term 360 months
// Calculator: https://www.fidelitygroup.com/amortizing-loan-calculator
func getReferenceSchedule() []ReferencePayment {
	return []ReferencePayment{
		{1, 886.70, 230.45, 656.25, 174769.55},
		{2, 886.70, 231.31, 655.39, 174538.24},
		{3, 886.70, 232.18, 654.52, 174306.06},
		{4, 886.70, 233.05, 653.65, 174073.00},
		{5, 886.70, 233.93, 652.77, 173839.08},
		{6, 886.70, 234.80, 651.90, 173604.28},
		{7, 886.70, 235.68, 651.02, 173368.59},
		{8, 886.70, 236.57, 650.13, 173132.03},
		{9, 886.70, 237.45, 649.25, 172894.57},
		{10, 886.70, 238.34, 648.35, 172656.23},
		{11, 886.70, 239.24, 647.46, 172416.99},
		{12, 886.70, 240.14, 646.56, 172176.85},
		// Adding key milestone months for validation
		{24, 886.70, 251.17, 635.53, 169224.01},
		{36, 886.70, 262.71, 623.99, 166135.52},
		{60, 886.70, 287.40, 599.30, 159526.36},
		{120, 886.70, 359.76, 526.94, 140156.51},
		{180, 886.70, 450.35, 436.35, 115909.42},
		{240, 886.70, 563.75, 322.95, 85557.02},
		{300, 886.70, 705.70, 181.00, 47562.00},
		{359, 886.70, 880.09, 6.61, 883.39},
		{360, 886.70, 883.39, 3.31, 0.00},
	}
}

func referenceTerms() LoanTerms {
	return LoanTerms{Principal: 175000, AnnualRatePercent: 4.5, TenureYears: 30}
}

func TestLoanCalculationsAgainstReferenceSchedule(t *testing.T) {
	generator := NewScheduleGenerator(zap.NewNop())
	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	schedule := generator.Generate(referenceTerms().ScheduleParams(start))

	if len(schedule) != 360 {
		t.Fatalf("Schedule should have 360 payments, got %d", len(schedule))
	}

	tolerance := 0.50 // Allow 0.50 difference due to rounding

	for _, ref := range getReferenceSchedule() {
		payment := schedule[ref.Month-1]

		t.Run(fmt.Sprintf("Month_%d", ref.Month), func(t *testing.T) {
			if math.Abs(payment.Total-ref.Payment) > tolerance {
				t.Errorf("Payment amount mismatch: got %.2f, expected %.2f (diff: %.2f)",
					payment.Total, ref.Payment, math.Abs(payment.Total-ref.Payment))
			}

			if math.Abs(payment.Principal-ref.PrincipalPayment) > tolerance {
				t.Errorf("Principal payment mismatch: got %.2f, expected %.2f (diff: %.2f)",
					payment.Principal, ref.PrincipalPayment, math.Abs(payment.Principal-ref.PrincipalPayment))
			}

			if math.Abs(payment.Interest-ref.Interest) > tolerance {
				t.Errorf("Interest payment mismatch: got %.2f, expected %.2f (diff: %.2f)",
					payment.Interest, ref.Interest, math.Abs(payment.Interest-ref.Interest))
			}

			if math.Abs(payment.Balance-ref.LoanBalance) > tolerance {
				t.Errorf("Remaining balance mismatch: got %.2f, expected %.2f (diff: %.2f)",
					payment.Balance, ref.LoanBalance, math.Abs(payment.Balance-ref.LoanBalance))
			}

			calculatedPayment := payment.Principal + payment.Interest
			if math.Abs(calculatedPayment-payment.EMI) > 0.01 {
				t.Errorf("Payment components don't add up: Principal(%.2f) + Interest(%.2f) = %.2f, but EMI = %.2f",
					payment.Principal, payment.Interest, calculatedPayment, payment.EMI)
			}
		})
	}
}

func TestMonthlyPaymentCalculationAgainstReference(t *testing.T) {
	monthlyPayment := ComputeEMI(175000, 4.5, 30)
	expectedPayment := 886.70
	tolerance := 0.01

	if math.Abs(monthlyPayment-expectedPayment) > tolerance {
		t.Errorf("ComputeEMI() = %.2f, expected %.2f (diff: %.2f)",
			monthlyPayment, expectedPayment, math.Abs(monthlyPayment-expectedPayment))
	}
}

func TestInterestCalculationAgainstReference(t *testing.T) {
	terms := referenceTerms()
	schedule := GenerateSchedule(terms.ScheduleParams(time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)))

	// Each month's interest is the monthly rate on the reference balance
	// left by the month before.
	balances := map[int]float64{0: terms.Principal}
	for _, ref := range getReferenceSchedule() {
		balances[ref.Month] = ref.LoanBalance
	}

	tolerance := 0.01

	for _, ref := range getReferenceSchedule() {
		opening, ok := balances[ref.Month-1]
		if !ok {
			continue
		}
		expected := opening * terms.MonthlyRate()
		if diff := math.Abs(expected - ref.Interest); diff > tolerance {
			t.Errorf("Reference interest for month %d = %.2f, rate on opening balance gives %.2f", ref.Month, ref.Interest, expected)
		}
		if diff := math.Abs(schedule[ref.Month-1].Interest - ref.Interest); diff > tolerance {
			t.Errorf("Interest for month %d = %.2f, expected %.2f (diff: %.2f)",
				ref.Month, schedule[ref.Month-1].Interest, ref.Interest, diff)
		}
	}
}

func TestFullScheduleConsistency(t *testing.T) {
	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	schedule := GenerateSchedule(referenceTerms().ScheduleParams(start))

	final := schedule[len(schedule)-1]
	if final.Balance != 0 {
		t.Errorf("Final balance should be zero, got %.2f", final.Balance)
	}
	if final.Year != 2054 || final.Month != time.December {
		t.Errorf("Final payment should land in 2054-12, got %d-%02d", final.Year, final.Month)
	}

	if math.Abs(schedule.TotalPrincipal()-175000) > 0.01 {
		t.Errorf("Principal payments should sum to 175000, got %.2f", schedule.TotalPrincipal())
	}

	for i := 1; i < len(schedule); i++ {
		if schedule[i].Balance > schedule[i-1].Balance {
			t.Fatalf("Balance increased at month %d: %.2f > %.2f", i+1, schedule[i].Balance, schedule[i-1].Balance)
		}
		if schedule[i].Principal < schedule[i-1].Principal-0.01 {
			t.Errorf("Principal portion should grow over time, month %d has %.2f after %.2f",
				i+1, schedule[i].Principal, schedule[i-1].Principal)
		}
	}
}
