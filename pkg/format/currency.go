// Package format renders amounts and durations for human-readable output.
package format

import (
	"strings"

	"github.com/iwvelando/debt-payoff/pkg/constants"
	"github.com/shopspring/decimal"
)

// Currency returns a currency string with a dollar sign and thousands separators (e.g., "-$1,234.56").
func Currency(amount float64) string {
	sign, formatted := formatCurrency(amount)
	return sign + "$" + formatted
}

// NumericCurrency returns a currency string without a currency symbol but with separators (e.g., "-1,234.56").
func NumericCurrency(amount float64) string {
	sign, formatted := formatCurrency(amount)
	return sign + formatted
}

func formatCurrency(amount float64) (string, string) {
	d := decimal.NewFromFloat(amount).Round(constants.CurrencyDecimals)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}

	formatted := d.StringFixed(constants.CurrencyDecimals)
	parts := strings.SplitN(formatted, ".", 2)
	intPart := parts[0]
	decPart := "00"
	if len(parts) == 2 {
		decPart = parts[1]
	}

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte(',')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	return sign, intPart + "." + decPart
}
