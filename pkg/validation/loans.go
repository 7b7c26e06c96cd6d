// Package validation provides input validation utilities.
package validation

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput is wrapped by every validation failure so callers can map
// it to a client error with errors.Is.
var ErrInvalidInput = errors.New("invalid input")

// ValidateLoan checks the numeric terms of a loan before simulation.
func ValidateLoan(name string, currentDebt, annualRate, monthlyPayment float64) error {
	if !isFinite(currentDebt) || !isFinite(annualRate) || !isFinite(monthlyPayment) {
		return fmt.Errorf("%w: loan '%s' has a non-numeric amount", ErrInvalidInput, name)
	}
	if currentDebt < 0 {
		return fmt.Errorf("%w: loan '%s' has negative current debt %.2f", ErrInvalidInput, name, currentDebt)
	}
	if annualRate < 0 {
		return fmt.Errorf("%w: loan '%s' has negative annual rate %.2f", ErrInvalidInput, name, annualRate)
	}
	if monthlyPayment <= 0 {
		return fmt.Errorf("%w: loan '%s' needs a positive monthly payment, got %.2f", ErrInvalidInput, name, monthlyPayment)
	}
	return nil
}

// ValidateExtraPayment checks an optional extra payment. A zero amount means no
// extra payment; a zero start month means the first month.
func ValidateExtraPayment(amount float64, startMonth int) error {
	if !isFinite(amount) || amount < 0 {
		return fmt.Errorf("%w: extra payment amount must be a non-negative number, got %v", ErrInvalidInput, amount)
	}
	if startMonth < 0 {
		return fmt.Errorf("%w: extra payment start month must be at least 1, got %d", ErrInvalidInput, startMonth)
	}
	return nil
}

// ValidateLoanSelection checks that a request names at least one loan unless
// it asks for all of them, and that no id repeats.
func ValidateLoanSelection(includeAll bool, ids []int64) error {
	if includeAll {
		return nil
	}
	if len(ids) == 0 {
		return fmt.Errorf("%w: loan_ids must not be empty", ErrInvalidInput)
	}
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: loan id %d listed more than once", ErrInvalidInput, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
