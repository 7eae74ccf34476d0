package utils

import (
	"math"
	"strings"
)

var ones = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen",
	"Sixteen", "Seventeen", "Eighteen", "Nineteen",
}

var tens = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}

// indianScales are the place names of the Indian numbering system, largest first.
var indianScales = []struct {
	value int64
	name  string
}{
	{10000000, "Crore"},
	{100000, "Lakh"},
	{1000, "Thousand"},
	{100, "Hundred"},
}

// NumberToWords spells n using lakh and crore, e.g. 123456 is
// "One Lakh Twenty Three Thousand Four Hundred Fifty Six". Zero is "".
func NumberToWords(n int64) string {
	if n < 0 {
		return strings.TrimSpace("Minus " + NumberToWords(-n))
	}
	var words []string
	for _, sc := range indianScales {
		if n >= sc.value {
			words = append(words, NumberToWords(n/sc.value), sc.name)
			n %= sc.value
		}
	}
	switch {
	case n >= 20:
		words = append(words, tens[n/10])
		if n%10 != 0 {
			words = append(words, ones[n%10])
		}
	case n > 0:
		words = append(words, ones[n])
	}
	return strings.Join(words, " ")
}

// NumberToCurrencyWords spells a rupee amount for the "amount in words" line.
func NumberToCurrencyWords(amount float64) string {
	amount = math.Abs(amount)
	paiseTotal := int64(math.Round(amount * 100))
	rupees, paise := paiseTotal/100, paiseTotal%100

	var parts []string
	if rupees > 0 {
		parts = append(parts, NumberToWords(rupees)+" Rupees")
	}
	if paise > 0 {
		parts = append(parts, NumberToWords(paise)+" Paise")
	}
	if len(parts) == 0 {
		return "Zero Rupees Only"
	}
	return strings.Join(parts, " and ") + " Only"
}
