package ledger_test

import (
	"testing"

	"github.com/FestivalLedger/FL-Backend/internal/ledger"
)

// TestFormatINR verifies Indian digit grouping and whole-rupee rounding.
func TestFormatINR(t *testing.T) {
	cases := []struct {
		amount float64
		want   string
	}{
		{0, "₹0"},
		{500, "₹500"},
		{1500, "₹1,500"},
		{150000, "₹1,50,000"},
		{12345678, "₹1,23,45,678"},
	}

	for _, tc := range cases {
		if got := ledger.FormatINR(tc.amount); got != tc.want {
			t.Errorf("FormatINR(%v) = %q, want %q", tc.amount, got, tc.want)
		}
	}
}
