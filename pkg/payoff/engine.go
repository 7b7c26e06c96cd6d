package payoff

import (
	"fmt"

	"github.com/iwvelando/debt-payoff/pkg/constants"
	"github.com/iwvelando/debt-payoff/pkg/loans"
	"github.com/iwvelando/debt-payoff/pkg/mathutil"
	"go.uber.org/zap"
)

// LoanOutcome is one loan's trajectory within a coupled strategy run.
type LoanOutcome struct {
	Loan          Loan
	Months        int
	TotalInterest float64
	NonAmortizing bool
	CapReached    bool
	Trace         []loans.Snapshot
}

// StrategyOutcome holds every loan's outcome in priority order.
type StrategyOutcome struct {
	Strategy Strategy
	Loans    []LoanOutcome
}

// Engine runs payoff simulations bounded by a safety cap.
type Engine struct {
	logger     *zap.Logger
	calculator *loans.AmortizationCalculator
	safetyCap  int
}

// NewEngine creates an engine. A non-positive safetyCapMonths selects the
// default of 600 months.
func NewEngine(logger *zap.Logger, safetyCapMonths int) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if safetyCapMonths <= 0 {
		safetyCapMonths = constants.DefaultSafetyCapMonths
	}
	return &Engine{
		logger:     logger,
		calculator: loans.NewAmortizationCalculator(logger),
		safetyCap:  safetyCapMonths,
	}
}

// SafetyCapMonths returns the iteration ceiling applied to every run.
func (e *Engine) SafetyCapMonths() int {
	return e.safetyCap
}

type workingLoan struct {
	outcome *LoanOutcome
	balance float64
	active  bool
}

// Run simulates all loans together. Each month the configured extra payment
// (once started) plus the payments of loans retired in earlier months go to the
// highest-priority loan still owing; every other loan pays only its own amount.
// Loans whose own payment cannot cover their first month of interest are left
// out of the run and reported at the safety cap.
func (e *Engine) Run(input []Loan, strategy Strategy, extra *ExtraPayment) StrategyOutcome {
	ordered := strategy.Order(input)
	outcome := StrategyOutcome{
		Strategy: strategy,
		Loans:    make([]LoanOutcome, len(ordered)),
	}

	extraAmount, extraStart := 0.0, 1
	if extra != nil && extra.Amount > 0 {
		extraAmount = extra.Amount
		if extra.StartMonth > 1 {
			extraStart = extra.StartMonth
		}
	}

	working := make([]workingLoan, len(ordered))
	rollover := 0.0
	remaining := 0
	for i, loan := range ordered {
		outcome.Loans[i] = LoanOutcome{Loan: loan}
		w := workingLoan{outcome: &outcome.Loans[i], balance: loan.CurrentDebt}
		switch {
		case loan.CurrentDebt <= constants.BalanceEpsilon:
			// Already retired, so its payment is free from the first month.
			rollover += loan.MonthlyPayment
		case !loans.Amortizes(loan.CurrentDebt, loan.AnnualRate, loan.MonthlyPayment):
			e.logger.Debug(fmt.Sprintf("excluding non-amortizing loan %s from %s run", loan.Name, strategy),
				zap.String("op", "payoff.Run"),
				zap.Int64("loan_id", loan.ID),
			)
			w.outcome.NonAmortizing = true
			w.outcome.Months = e.safetyCap
		default:
			w.active = true
			remaining++
		}
		working[i] = w
	}

	for month := 1; month <= e.safetyCap && remaining > 0; month++ {
		available := rollover
		if extraAmount > 0 && month >= extraStart {
			available += extraAmount
		}

		freed := 0.0
		targeted := false
		for i := range working {
			w := &working[i]
			if !w.active {
				continue
			}

			loan := w.outcome.Loan
			interest := loans.CalculateInterestPayment(w.balance, loan.AnnualRate)
			payment := loan.MonthlyPayment
			if !targeted {
				payment += available
				targeted = true
			}

			principal := mathutil.Min(payment-interest, w.balance)
			w.balance -= principal
			if w.balance < 0 {
				w.balance = 0
			}
			w.outcome.TotalInterest += interest
			w.outcome.Trace = append(w.outcome.Trace, loans.Snapshot{
				Month:     month,
				Interest:  interest,
				Principal: principal,
				Balance:   w.balance,
			})

			if mathutil.IsZero(w.balance) {
				w.active = false
				w.outcome.Months = month
				freed += loan.MonthlyPayment
				remaining--
			}
		}
		// Payments freed this month join the pool from next month on.
		rollover += freed
	}

	for i := range working {
		w := &working[i]
		if w.active {
			e.logger.Debug(fmt.Sprintf("loan %s still owes %.2f after the %d month safety cap",
				w.outcome.Loan.Name, w.balance, e.safetyCap),
				zap.String("op", "payoff.Run"),
			)
			w.outcome.CapReached = true
			w.outcome.Months = e.safetyCap
		}
	}

	return outcome
}

// RunIndependently amortizes every loan with its own payment only, without
// extra payments or rollover. Results are in input order.
func (e *Engine) RunIndependently(input []Loan) []loans.Schedule {
	schedules := make([]loans.Schedule, len(input))
	for i, loan := range input {
		schedules[i] = e.calculator.Simulate(loan.Name, loans.Terms{
			Balance:         loan.CurrentDebt,
			AnnualRate:      loan.AnnualRate,
			MonthlyPayment:  loan.MonthlyPayment,
			SafetyCapMonths: e.safetyCap,
		})
	}
	return schedules
}
