package config

import (
	"testing"

	"github.com/iwvelando/debt-payoff/pkg/payoff"
)

func TestActiveLoans(t *testing.T) {
	conf := &Configuration{
		Loans: []payoff.Loan{
			{ID: 1, Name: "Card", Status: "active"},
			{ID: 2, Name: "Car", Status: "closed"},
			{ID: 3, Name: "Student", Status: "ACTIVE"},
		},
	}

	active := conf.ActiveLoans()
	if len(active) != 2 {
		t.Fatalf("ActiveLoans() returned %d loans, expected 2", len(active))
	}
	if active[0].ID != 1 || active[1].ID != 3 {
		t.Errorf("ActiveLoans() = %v, expected ids 1 and 3 in file order", active)
	}
}

func TestLoanByID(t *testing.T) {
	conf := &Configuration{
		Loans: []payoff.Loan{
			{ID: 7, Name: "Car", Status: "closed"},
		},
	}

	tests := []struct {
		name  string
		id    int64
		found bool
	}{
		{"Known inactive loan", 7, true},
		{"Unknown loan", 8, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loan, ok := conf.LoanByID(tt.id)
			if ok != tt.found {
				t.Fatalf("LoanByID(%d) found = %v, expected %v", tt.id, ok, tt.found)
			}
			if ok && loan.Name != "Car" {
				t.Errorf("LoanByID(%d) = %+v", tt.id, loan)
			}
		})
	}
}
