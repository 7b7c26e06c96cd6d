// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/debt-payoff/pkg/payoff"
)

// FindLoanResult finds a loan's comparison by id in a result.
// Returns a pointer to the loan result if found, nil otherwise.
func FindLoanResult(result payoff.Result, id int64) *payoff.LoanResult {
	for i := range result.Loans {
		if result.Loans[i].LoanID == id {
			return &result.Loans[i]
		}
	}
	return nil
}

// Portfolio builds n active loans with spread-out balances, rates and
// payments that all amortize.
func Portfolio(n int) []payoff.Loan {
	loans := make([]payoff.Loan, 0, n)
	for i := 0; i < n; i++ {
		balance := 1000 + float64(i%17)*750
		rate := 3 + float64(i%11)*2.5
		loans = append(loans, payoff.Loan{
			ID:             int64(i + 1),
			Name:           "Loan",
			CurrentDebt:    balance,
			AnnualRate:     rate,
			MonthlyPayment: balance*rate/1200 + 25 + float64(i%5)*10,
			Status:         "active",
		})
	}
	return loans
}
