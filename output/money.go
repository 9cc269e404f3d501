package output

import (
	"strconv"
	"strings"
)

// moneyString renders an amount with comma-grouped thousands and two
// decimals, e.g. 12345.5 becomes "12,345.50".
func moneyString(amount float64) string {
	text := strconv.FormatFloat(amount, 'f', 2, 64)
	sign := ""
	if strings.HasPrefix(text, "-") {
		sign, text = "-", text[1:]
	}
	whole, frac, _ := strings.Cut(text, ".")
	return sign + groupThousands(whole) + "." + frac
}

// signedMoneyString is moneyString with an explicit leading sign.
func signedMoneyString(amount float64) string {
	text := moneyString(amount)
	if strings.HasPrefix(text, "-") {
		return text
	}
	return "+" + text
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	return groupThousands(digits[:len(digits)-3]) + "," + digits[len(digits)-3:]
}
