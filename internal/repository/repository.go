// Package repository provides the loan sources the simulation service reads
// from.
package repository

import (
	"context"
	"sort"

	"github.com/iwvelando/debt-payoff/internal/config"
	"github.com/iwvelando/debt-payoff/pkg/payoff"
)

// LoanRepository lists the loans that take part in simulations.
type LoanRepository interface {
	ActiveLoans(ctx context.Context) ([]payoff.Loan, error)
}

// MemoryRepository serves a fixed loan list, typically read from a config file.
type MemoryRepository struct {
	loans []payoff.Loan
}

// NewMemoryRepository copies the given loans. Inactive loans are kept but
// never listed.
func NewMemoryRepository(loans []payoff.Loan) *MemoryRepository {
	copied := append([]payoff.Loan(nil), loans...)
	sort.SliceStable(copied, func(i, j int) bool {
		return copied[i].ID < copied[j].ID
	})
	return &MemoryRepository{loans: copied}
}

// ActiveLoans returns the active loans ordered by id.
func (r *MemoryRepository) ActiveLoans(ctx context.Context) ([]payoff.Loan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	active := make([]payoff.Loan, 0, len(r.loans))
	for _, loan := range r.loans {
		if config.IsActive(loan) {
			active = append(active, loan)
		}
	}
	return active, nil
}
