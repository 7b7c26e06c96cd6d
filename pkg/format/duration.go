package format

import (
	"fmt"
	"strings"

	"github.com/iwvelando/debt-payoff/pkg/constants"
)

// Months spells out a month count as years and months, e.g. "2 years 7 months".
func Months(months int) string {
	sign := ""
	if months < 0 {
		sign = "-"
		months = -months
	}
	if months == 0 {
		return "0 months"
	}

	years, rest := months/constants.MonthsPerYear, months%constants.MonthsPerYear
	var parts []string
	if years > 0 {
		parts = append(parts, plural(years, "year"))
	}
	if rest > 0 {
		parts = append(parts, plural(rest, "month"))
	}
	return sign + strings.Join(parts, " ")
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
