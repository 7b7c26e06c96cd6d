package payoff

import (
	"fmt"
	"time"

	"github.com/iwvelando/debt-payoff/pkg/datetime"
	"github.com/iwvelando/debt-payoff/pkg/loans"
	"github.com/iwvelando/debt-payoff/pkg/mathutil"
	"github.com/iwvelando/debt-payoff/pkg/validation"
	"go.uber.org/zap"
)

// ValidateRequest checks the strategy and extra payment of a request. Loan
// selection is checked separately because direct callers pass loans in hand.
func ValidateRequest(req Request) (Strategy, error) {
	strategy, err := ParseStrategy(req.Strategy)
	if err != nil {
		return Strategy{}, err
	}
	if req.ExtraPayment != nil {
		if err := validation.ValidateExtraPayment(req.ExtraPayment.Amount, req.ExtraPayment.StartMonth); err != nil {
			return Strategy{}, err
		}
	}
	return strategy, nil
}

// ValidateLoans rejects loans that cannot be simulated at all.
func ValidateLoans(input []Loan) error {
	seen := make(map[int64]struct{}, len(input))
	for _, loan := range input {
		if _, dup := seen[loan.ID]; dup {
			return fmt.Errorf("%w: loan id %d appears more than once", ErrInvalidInput, loan.ID)
		}
		seen[loan.ID] = struct{}{}
		if err := validation.ValidateLoan(loan.Name, loan.CurrentDebt, loan.AnnualRate, loan.MonthlyPayment); err != nil {
			return err
		}
	}
	return nil
}

// Compare runs the current plan (each loan on its own payment) and the
// strategy plan (rollover plus extra payment) and reports what the strategy
// saves. Loans are reported in strategy priority order. Deltas are signed and
// never clamped. today only dates the payoff.
func (e *Engine) Compare(input []Loan, req Request, today time.Time) (Result, error) {
	strategy, err := ValidateRequest(req)
	if err != nil {
		return Result{}, err
	}
	if err := ValidateLoans(input); err != nil {
		return Result{}, err
	}

	today = datetime.Truncate(today)
	result := Result{
		Strategy:            strategy.String(),
		TotalDebtPayoffDate: datetime.OffsetDate(today, 0),
		Loans:               []LoanResult{},
	}
	if len(input) == 0 {
		return result, nil
	}

	current := e.RunIndependently(input)
	currentByID := make(map[int64]loans.Schedule, len(input))
	for i, loan := range input {
		currentByID[loan.ID] = current[i]
	}
	simulated := e.Run(input, strategy, req.ExtraPayment)

	var currentInterest, simulatedInterest, interestSaved float64
	maxCurrent, maxSimulated := 0, 0
	for _, outcome := range simulated.Loans {
		loan := outcome.Loan
		base := currentByID[loan.ID]

		saved := base.TotalInterest - outcome.TotalInterest
		lr := LoanResult{
			LoanID:                   loan.ID,
			LoanName:                 loan.Name,
			CurrentMonthsRemaining:   base.Months,
			SimulatedMonthsRemaining: outcome.Months,
			MonthsSaved:              base.Months - outcome.Months,
			CurrentTotalInterest:     mathutil.Round(base.TotalInterest),
			SimulatedTotalInterest:   mathutil.Round(outcome.TotalInterest),
			InterestSaved:            mathutil.Round(saved),
			PayoffDate:               datetime.OffsetDate(today, outcome.Months),
			NonAmortizing:            base.NonAmortizing || outcome.NonAmortizing,
			SafetyCapReached:         base.CapReached || outcome.CapReached,
		}
		if req.IncludeSchedule {
			lr.CurrentSchedule = roundTrace(base.Trace)
			lr.SimulatedSchedule = roundTrace(outcome.Trace)
		}
		result.Loans = append(result.Loans, lr)
		result.Warnings = append(result.Warnings, e.warningsFor(loan, lr)...)

		currentInterest += base.TotalInterest
		simulatedInterest += outcome.TotalInterest
		interestSaved += saved
		maxCurrent = mathutil.MaxInt(maxCurrent, base.Months)
		maxSimulated = mathutil.MaxInt(maxSimulated, outcome.Months)
	}

	// Loans pay off in parallel, so the overall saving is the shift of the
	// debt-free date rather than the sum of per-loan savings.
	result.TotalMonthsSaved = maxCurrent - maxSimulated
	result.TotalInterestSaved = mathutil.Round(interestSaved)
	result.CurrentTotalInterest = mathutil.Round(currentInterest)
	result.SimulatedTotalInterest = mathutil.Round(simulatedInterest)
	result.TotalDebtPayoffDate = datetime.OffsetDate(today, maxSimulated)

	e.logger.Debug("payoff comparison computed",
		zap.String("op", "payoff.Compare"),
		zap.String("strategy", result.Strategy),
		zap.Int("loans", len(result.Loans)),
		zap.Int("total_months_saved", result.TotalMonthsSaved),
		zap.Float64("total_interest_saved", result.TotalInterestSaved),
	)

	return result, nil
}

func (e *Engine) warningsFor(loan Loan, lr LoanResult) []string {
	var warnings []string
	if lr.NonAmortizing {
		warnings = append(warnings, fmt.Sprintf("loan '%s' payment %.2f does not cover its monthly interest %.2f; reported at the %d month safety cap",
			loan.Name, loan.MonthlyPayment, mathutil.Round(loans.CalculateInterestPayment(loan.CurrentDebt, loan.AnnualRate)), e.safetyCap))
	} else if lr.SafetyCapReached {
		warnings = append(warnings, fmt.Sprintf("loan '%s' is not repaid within the %d month safety cap", loan.Name, e.safetyCap))
	}
	return warnings
}

func roundTrace(trace []loans.Snapshot) []loans.Snapshot {
	if len(trace) == 0 {
		return nil
	}
	rounded := make([]loans.Snapshot, len(trace))
	for i, snap := range trace {
		rounded[i] = loans.Snapshot{
			Month:     snap.Month,
			Interest:  mathutil.Round(snap.Interest),
			Principal: mathutil.Round(snap.Principal),
			Balance:   mathutil.Round(snap.Balance),
		}
	}
	return rounded
}
