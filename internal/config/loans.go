package config

import (
	"strings"

	"github.com/iwvelando/debt-payoff/pkg/constants"
	"github.com/iwvelando/debt-payoff/pkg/payoff"
)

// ActiveLoans returns the configured loans whose status is active, in file
// order.
func (conf *Configuration) ActiveLoans() []payoff.Loan {
	active := make([]payoff.Loan, 0, len(conf.Loans))
	for _, loan := range conf.Loans {
		if IsActive(loan) {
			active = append(active, loan)
		}
	}
	return active
}

// LoanByID looks up a configured loan regardless of its status.
func (conf *Configuration) LoanByID(id int64) (payoff.Loan, bool) {
	for _, loan := range conf.Loans {
		if loan.ID == id {
			return loan, true
		}
	}
	return payoff.Loan{}, false
}

// IsActive reports whether a loan takes part in simulations.
func IsActive(loan payoff.Loan) bool {
	return strings.EqualFold(loan.Status, constants.LoanStatusActive)
}
