package ledger

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var inr = message.NewPrinter(language.MustParse("en-IN"))

// FormatINR renders an amount in rupees with Indian digit grouping and no
// fraction digits, e.g. 150000 -> "₹1,50,000".
func FormatINR(amount float64) string {
	return inr.Sprintf("₹%v", number.Decimal(amount, number.MaxFractionDigits(0)))
}
