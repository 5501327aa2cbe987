package mathutil

import (
	"math"
	"testing"
)

func TestRound(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"Round up at midpoint", 1.235, 1.24},
		{"Round down below midpoint", 1.234, 1.23},
		{"No rounding needed", 1.23, 1.23},
		{"Large number", 12345.678, 12345.68},
		{"Negative number round up", -1.235, -1.24},
		{"Negative number round down", -1.234, -1.23},
		{"Zero", 0.0, 0.0},
		{"Very small positive", 0.001, 0.00},
		{"Very small negative", -0.001, 0.00},
		{"Exactly one cent", 0.01, 0.01},
		{"Nearly two cents", 0.019, 0.02},
		{"Large negative", -12345.678, -12345.68},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Round(tt.input)
			if math.Abs(result-tt.expected) > 0.001 {
				t.Errorf("Round(%v) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestIsZero(t *testing.T) {
	tests := []struct {
		name     string
		balance  float64
		expected bool
	}{
		{"Closed loan", 0.0, true},
		{"Float residue after final EMI", 3.2e-10, true},
		{"Overpaid by a fraction of a paisa", -0.004, true},
		{"One paisa left", 0.01, true},
		{"One paisa overpaid", -0.01, true},
		{"Two paise left", 0.02, false},
		{"Just past a paisa", 0.011, false},
		{"Just past a paisa overpaid", -0.011, false},
		{"Last EMI outstanding", 8997.26, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsZero(tt.balance)
			if result != tt.expected {
				t.Errorf("IsZero(%v) = %v, expected %v", tt.balance, result, tt.expected)
			}
		})
	}
}

func TestIsPositive(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		expected bool
	}{
		{"Monthly prepayment", 5000.0, true},
		{"Two paise", 0.02, true},
		{"Just past a paisa", 0.011, true},
		{"One paisa", 0.01, false},
		{"Rounding dust", 0.004, false},
		{"Nothing", 0.0, false},
		{"Refund", -250.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsPositive(tt.amount)
			if result != tt.expected {
				t.Errorf("IsPositive(%v) = %v, expected %v", tt.amount, result, tt.expected)
			}
		})
	}
}

func TestWithinTolerance(t *testing.T) {
	tests := []struct {
		name      string
		a         float64
		b         float64
		tolerance float64
		expected  bool
	}{
		{"Same prepayment", 10000.0, 10000.0, 0.01, true},
		{"EMI rounded to the paisa", 8997.2615, 8997.26, 0.01, true},
		{"Amounts under a paisa apart", 5000.0, 5000.005, 0.01, true},
		{"Amounts two paise apart", 5000.0, 5000.02, 0.01, false},
		{"Rupee tolerance", 20000.0, 20000.75, 1.0, true},
		{"Exact match required", 2500.0, 2500.001, 0.0, false},
		{"Negative deltas", -150.0, -150.005, 0.01, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := WithinTolerance(tt.a, tt.b, tt.tolerance)
			if result != tt.expected {
				t.Errorf("WithinTolerance(%v, %v, %v) = %v, expected %v",
					tt.a, tt.b, tt.tolerance, result, tt.expected)
			}
		})
	}
}

func TestMin(t *testing.T) {
	tests := []struct {
		name     string
		a        float64
		b        float64
		expected float64
	}{
		{"Prepayment capped by balance", 50000.0, 12345.67, 12345.67},
		{"Prepayment below balance", 5000.0, 100000.0, 5000.0},
		{"Equal amounts", 8997.26, 8997.26, 8997.26},
		{"Nothing available", 0.0, 5000.0, 0.0},
		{"Overdrawn", -10.0, 0.0, -10.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Min(tt.a, tt.b)
			if result != tt.expected {
				t.Errorf("Min(%v, %v) = %v, expected %v", tt.a, tt.b, result, tt.expected)
			}
		})
	}
}

func TestMax(t *testing.T) {
	tests := []struct {
		name     string
		a        float64
		b        float64
		expected float64
	}{
		{"First larger", 2.0, 1.0, 2.0},
		{"Second larger", 1.0, 2.0, 2.0},
		{"Equal values", 1.0, 1.0, 1.0},
		{"Negative numbers", -2.0, -1.0, -1.0},
		{"Mixed signs", -1.0, 1.0, 1.0},
		{"Zero and positive", 0.0, 1.0, 1.0},
		{"Zero and negative", 0.0, -1.0, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Max(tt.a, tt.b)
			if result != tt.expected {
				t.Errorf("Max(%v, %v) = %v, expected %v", tt.a, tt.b, result, tt.expected)
			}
		})
	}
}

func TestCalculatePercentage(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		total    float64
		expected float64
	}{
		{"50% of 100", 50.0, 100.0, 50.0},
		{"25% of 200", 50.0, 200.0, 25.0},
		{"100% of value", 100.0, 100.0, 100.0},
		{"More than 100%", 150.0, 100.0, 150.0},
		{"Zero value", 0.0, 100.0, 0.0},
		{"Zero total", 50.0, 0.0, 0.0},
		{"Both zero", 0.0, 0.0, 0.0},
		{"Negative value", -50.0, 100.0, -50.0},
		{"Negative total", 50.0, -100.0, -50.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculatePercentage(tt.value, tt.total)
			if math.Abs(result-tt.expected) > 0.001 {
				t.Errorf("CalculatePercentage(%v, %v) = %v, expected %v",
					tt.value, tt.total, result, tt.expected)
			}
		})
	}
}

func TestRoundedPercentage(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		total    float64
		expected int
	}{
		{"Half", 50.0, 100.0, 50},
		{"Rounds up", 2.0, 3.0, 67},
		{"Rounds down", 1.0, 3.0, 33},
		{"Zero total", 50.0, 0.0, 0},
		{"Negative total", 50.0, -100.0, 0},
		{"Nothing saved", 0.0, 1316052.0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := RoundedPercentage(tt.value, tt.total)
			if result != tt.expected {
				t.Errorf("RoundedPercentage(%v, %v) = %v, expected %v",
					tt.value, tt.total, result, tt.expected)
			}
		})
	}
}

func TestRoundCurrency(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"Half cent rounds up", 1.005, 1.01},
		{"Large EMI", 9650.216, 9650.22},
		{"Negative", -2.345, -2.35},
		{"Whole", 100.0, 100.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := RoundCurrency(tt.input)
			if math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("RoundCurrency(%v) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}

	if !math.IsNaN(RoundCurrency(math.NaN())) {
		t.Errorf("RoundCurrency(NaN) should stay NaN")
	}
}

func TestIsFinite(t *testing.T) {
	if !IsFinite(1.5) {
		t.Errorf("IsFinite(1.5) = false, expected true")
	}
	if IsFinite(math.Inf(1)) || IsFinite(math.Inf(-1)) {
		t.Errorf("IsFinite(Inf) = true, expected false")
	}
	if IsFinite(math.NaN()) {
		t.Errorf("IsFinite(NaN) = true, expected false")
	}
}

func TestRoundingEdgeCases(t *testing.T) {
	// Test very large numbers
	largeNum := 999999999.999
	result := Round(largeNum)
	expected := 1000000000.00
	if math.Abs(result-expected) > 0.001 {
		t.Errorf("Round of large number failed: got %v, expected %v", result, expected)
	}

	// Test very small numbers
	smallNum := 0.0001
	result = Round(smallNum)
	expected = 0.00
	if math.Abs(result-expected) > 0.001 {
		t.Errorf("Round of small number failed: got %v, expected %v", result, expected)
	}
}
