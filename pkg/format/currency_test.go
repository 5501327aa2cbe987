package format

import "testing"

func TestCurrency(t *testing.T) {
	tests := []struct {
		amount   float64
		expected string
	}{
		{0, "₹0.00"},
		{999.5, "₹999.50"},
		{1454615, "₹1,454,615.00"},
		{-1234.567, "-₹1,234.57"},
	}

	for _, tt := range tests {
		if got := Currency(tt.amount); got != tt.expected {
			t.Errorf("Currency(%v) = %s, expected %s", tt.amount, got, tt.expected)
		}
	}
}

func TestNumericCurrency(t *testing.T) {
	if got := NumericCurrency(-9650.216); got != "-9,650.22" {
		t.Errorf("NumericCurrency() = %s", got)
	}
}

func TestDuration(t *testing.T) {
	tests := []struct {
		months   int
		expected string
	}{
		{-3, "0 months"},
		{0, "0 months"},
		{1, "1 month"},
		{11, "11 months"},
		{12, "1 year"},
		{13, "1 year & 1 month"},
		{38, "3 years & 2 months"},
		{240, "20 years"},
	}

	for _, tt := range tests {
		if got := Duration(tt.months); got != tt.expected {
			t.Errorf("Duration(%d) = %s, expected %s", tt.months, got, tt.expected)
		}
	}
}
