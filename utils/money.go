package utils

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var inrPrinter = message.NewPrinter(language.MustParse("en-IN"))

// FormatINR formats an amount with two decimals and Indian digit grouping.
func FormatINR(amount float64) string {
	return inrPrinter.Sprint(number.Decimal(amount, number.Scale(2)))
}

// FormatQuantity drops the fraction for whole quantities.
func FormatQuantity(q float64) string {
	if q == float64(int64(q)) {
		return inrPrinter.Sprint(number.Decimal(q, number.MaxFractionDigits(0)))
	}
	return inrPrinter.Sprint(number.Decimal(q, number.MaxFractionDigits(3)))
}
