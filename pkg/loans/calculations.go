// Package loans provides single-loan amortization utilities.
package loans

import (
	"fmt"

	"github.com/iwvelando/debt-payoff/pkg/constants"
	"github.com/iwvelando/debt-payoff/pkg/mathutil"
	"go.uber.org/zap"
)

// Snapshot holds the values for a given month of a loan's schedule.
type Snapshot struct {
	Month     int     `json:"month"`
	Interest  float64 `json:"interest_charged"`
	Principal float64 `json:"principal_paid"`
	Balance   float64 `json:"remaining_balance"`
}

// Terms describes one loan to amortize.
type Terms struct {
	Balance         float64
	AnnualRate      float64 // percent, e.g. 18.5
	MonthlyPayment  float64
	ExtraPayment    float64
	ExtraStartMonth int
	SafetyCapMonths int
}

// Schedule is the outcome of amortizing a loan until payoff or the safety cap.
type Schedule struct {
	Months        int
	TotalInterest float64
	NonAmortizing bool
	CapReached    bool
	Trace         []Snapshot
}

// MonthlyRate converts a nominal annual percentage rate into the periodic
// monthly rate.
func MonthlyRate(annualRate float64) float64 {
	return annualRate / constants.PercentageMultiplier / constants.MonthsPerYear
}

// CalculateInterestPayment calculates the interest charged on a balance for one month.
func CalculateInterestPayment(remainingPrincipal, annualInterestRate float64) float64 {
	return remainingPrincipal * MonthlyRate(annualInterestRate)
}

// PaymentForMonth returns the base payment plus the extra payment when the
// extra has started by the given month.
func PaymentForMonth(monthlyPayment, extraPayment float64, extraStartMonth, month int) float64 {
	if extraPayment > 0 && month >= extraStartMonth {
		return monthlyPayment + extraPayment
	}
	return monthlyPayment
}

// Amortizes reports whether monthlyPayment exceeds the first month's interest
// on balance. Loans that do not amortize never reach a zero balance.
func Amortizes(balance, annualRate, monthlyPayment float64) bool {
	if balance <= constants.BalanceEpsilon {
		return true
	}
	return monthlyPayment > CalculateInterestPayment(balance, annualRate)
}

// AmortizationCalculator produces month-by-month schedules for single loans.
type AmortizationCalculator struct {
	logger *zap.Logger
}

// NewAmortizationCalculator creates a new calculator instance
func NewAmortizationCalculator(logger *zap.Logger) *AmortizationCalculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AmortizationCalculator{logger: logger}
}

// Simulate amortizes a loan with a fixed payment, adding the extra payment from
// ExtraStartMonth onward. A payment that cannot cover the month's interest ends
// the run with Months set to the safety cap.
func (c *AmortizationCalculator) Simulate(name string, terms Terms) Schedule {
	safetyCap := terms.SafetyCapMonths
	if safetyCap <= 0 {
		safetyCap = constants.DefaultSafetyCapMonths
	}
	extraStart := terms.ExtraStartMonth
	if extraStart < 1 {
		extraStart = 1
	}

	var schedule Schedule
	balance := terms.Balance
	month := 0
	for mathutil.IsPositive(balance) && month < safetyCap {
		month++
		interest := CalculateInterestPayment(balance, terms.AnnualRate)
		payment := PaymentForMonth(terms.MonthlyPayment, terms.ExtraPayment, extraStart, month)

		if payment <= interest {
			c.logger.Debug(fmt.Sprintf("loan %s does not amortize: payment %.2f covers no more than interest %.2f in month %d",
				name, payment, interest, month),
				zap.String("op", "loans.Simulate"),
			)
			schedule.NonAmortizing = true
			schedule.Months = safetyCap
			return schedule
		}

		principal := mathutil.Min(payment-interest, balance)
		balance -= principal
		if balance < 0 {
			balance = 0
		}
		schedule.TotalInterest += interest
		schedule.Trace = append(schedule.Trace, Snapshot{
			Month:     month,
			Interest:  interest,
			Principal: principal,
			Balance:   balance,
		})
	}

	schedule.Months = month
	if mathutil.IsPositive(balance) {
		c.logger.Debug(fmt.Sprintf("loan %s still owes %.2f after the %d month safety cap", name, balance, safetyCap),
			zap.String("op", "loans.Simulate"),
		)
		schedule.CapReached = true
		schedule.Months = safetyCap
	}

	return schedule
}
