package validation

import (
	"fmt"
	"strings"

	"github.com/iwvelando/debt-payoff/pkg/constants"
)

// LoanConfig is the subset of a configured loan that warnings look at.
type LoanConfig struct {
	ID             int64
	Name           string
	CurrentDebt    float64
	AnnualRate     float64
	MonthlyPayment float64
	Status         string
}

// ConfigValidator collects non-fatal configuration warnings.
type ConfigValidator struct {
	Loans           []LoanConfig
	SafetyCapMonths int
}

// ValidateInterestCoverage warns when a loan's payment can never retire it.
func ValidateInterestCoverage(loan LoanConfig) string {
	if loan.CurrentDebt <= constants.BalanceEpsilon {
		return ""
	}
	interest := loan.CurrentDebt * loan.AnnualRate / (constants.PercentageMultiplier * constants.MonthsPerYear)
	if loan.MonthlyPayment <= interest {
		return fmt.Sprintf("Loan '%s' payment %.2f does not cover its monthly interest %.2f - it will be reported at the safety cap",
			loan.Name, loan.MonthlyPayment, interest)
	}
	return ""
}

// ValidateAll validates the loan list and returns warnings
func (cv *ConfigValidator) ValidateAll() []string {
	var warnings []string

	if cv.SafetyCapMonths < 0 {
		warnings = append(warnings, fmt.Sprintf("Safety cap %d is negative - the default of %d months applies",
			cv.SafetyCapMonths, constants.DefaultSafetyCapMonths))
	}

	seen := make(map[int64]string, len(cv.Loans))
	for _, loan := range cv.Loans {
		if other, dup := seen[loan.ID]; dup {
			warnings = append(warnings, fmt.Sprintf("Loan '%s' reuses id %d of loan '%s'", loan.Name, loan.ID, other))
		}
		seen[loan.ID] = loan.Name

		if !strings.EqualFold(loan.Status, constants.LoanStatusActive) {
			warnings = append(warnings, fmt.Sprintf("Loan '%s' has status '%s' and is excluded from simulations",
				loan.Name, loan.Status))
			continue
		}

		if err := ValidateLoan(loan.Name, loan.CurrentDebt, loan.AnnualRate, loan.MonthlyPayment); err != nil {
			warnings = append(warnings, err.Error())
			continue
		}

		if warning := ValidateInterestCoverage(loan); warning != "" {
			warnings = append(warnings, warning)
		}
	}

	return warnings
}
