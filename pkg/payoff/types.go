// Package payoff simulates repaying a set of loans under the avalanche or
// snowball strategy and compares it with paying each loan on its own.
package payoff

import (
	"github.com/iwvelando/debt-payoff/pkg/loans"
	"github.com/iwvelando/debt-payoff/pkg/validation"
)

// ErrInvalidInput is wrapped by every validation failure.
var ErrInvalidInput = validation.ErrInvalidInput

// Loan is a single debt as provided by the loan repository.
type Loan struct {
	ID             int64   `json:"id" mapstructure:"id"`
	Name           string  `json:"name" mapstructure:"name"`
	Entity         string  `json:"entity" mapstructure:"entity"`
	CurrentDebt    float64 `json:"current_debt" mapstructure:"current_debt"`
	AnnualRate     float64 `json:"annual_rate" mapstructure:"annual_rate"`
	MonthlyPayment float64 `json:"monthly_payment" mapstructure:"monthly_payment"`
	Status         string  `json:"status" mapstructure:"status"`
}

// ExtraPayment is a flat amount added every month from StartMonth onward.
type ExtraPayment struct {
	Amount     float64 `json:"amount"`
	StartMonth int     `json:"start_month"`
}

// Request selects loans and the strategy for one simulation.
type Request struct {
	Strategy        string        `json:"strategy"`
	ExtraPayment    *ExtraPayment `json:"extra_payment"`
	IncludeAllLoans bool          `json:"include_all_loans"`
	LoanIDs         []int64       `json:"loan_ids"`
	IncludeSchedule bool          `json:"include_schedule,omitempty"`
}

// LoanResult compares one loan across both scenarios.
type LoanResult struct {
	LoanID                   int64            `json:"loan_id"`
	LoanName                 string           `json:"loan_name"`
	CurrentMonthsRemaining   int              `json:"current_months_remaining"`
	SimulatedMonthsRemaining int              `json:"simulated_months_remaining"`
	MonthsSaved              int              `json:"months_saved"`
	CurrentTotalInterest     float64          `json:"current_total_interest"`
	SimulatedTotalInterest   float64          `json:"simulated_total_interest"`
	InterestSaved            float64          `json:"interest_saved"`
	PayoffDate               string           `json:"payoff_date"`
	NonAmortizing            bool             `json:"non_amortizing,omitempty"`
	SafetyCapReached         bool             `json:"safety_cap_reached,omitempty"`
	CurrentSchedule          []loans.Snapshot `json:"current_schedule,omitempty"`
	SimulatedSchedule        []loans.Snapshot `json:"simulated_schedule,omitempty"`
}

// Result is the aggregate comparison returned to callers.
type Result struct {
	Strategy               string       `json:"strategy"`
	TotalMonthsSaved       int          `json:"total_months_saved"`
	TotalInterestSaved     float64      `json:"total_interest_saved"`
	TotalDebtPayoffDate    string       `json:"total_debt_payoff_date"`
	CurrentTotalInterest   float64      `json:"current_total_interest"`
	SimulatedTotalInterest float64      `json:"simulated_total_interest"`
	Loans                  []LoanResult `json:"loans"`
	Warnings               []string     `json:"warnings,omitempty"`
}
