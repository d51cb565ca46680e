package money

import "fmt"

// FormatCents renders an integer cent amount as a decimal string, e.g.
// 123456 -> "1234.56", -5 -> "-0.05".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}

	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
