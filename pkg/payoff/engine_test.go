package payoff

import (
	"math"
	"testing"

	"github.com/iwvelando/debt-payoff/pkg/loans"
	"go.uber.org/zap"
)

func findOutcome(t *testing.T, outcome StrategyOutcome, id int64) LoanOutcome {
	t.Helper()
	for _, lo := range outcome.Loans {
		if lo.Loan.ID == id {
			return lo
		}
	}
	t.Fatalf("loan %d missing from outcome", id)
	return LoanOutcome{}
}

func TestRunFirstPriorityMatchesIndependentAmortization(t *testing.T) {
	engine := NewEngine(zap.NewNop(), 0)
	input := []Loan{
		{ID: 1, Name: "A", CurrentDebt: 10000, AnnualRate: 36, MonthlyPayment: 400},
		{ID: 2, Name: "B", CurrentDebt: 5000, AnnualRate: 12, MonthlyPayment: 200},
		{ID: 3, Name: "C", CurrentDebt: 7000, AnnualRate: 8, MonthlyPayment: 150},
	}

	outcome := engine.Run(input, Avalanche, nil)
	first := outcome.Loans[0]
	if first.Loan.ID != 1 {
		t.Fatalf("expected loan 1 first under avalanche, got %d", first.Loan.ID)
	}

	independent := loans.NewAmortizationCalculator(nil).Simulate("A", loans.Terms{
		Balance:        10000,
		AnnualRate:     36,
		MonthlyPayment: 400,
	})
	if first.Months != independent.Months {
		t.Errorf("first priority months = %d, independent = %d", first.Months, independent.Months)
	}
	if math.Abs(first.TotalInterest-independent.TotalInterest) > 1e-6 {
		t.Errorf("first priority interest = %.6f, independent = %.6f", first.TotalInterest, independent.TotalInterest)
	}
}

func TestRunRolloverFeedsNextPriorityLoan(t *testing.T) {
	tests := []struct {
		name  string
		extra *ExtraPayment
	}{
		{"Without extra payment", nil},
		{"With extra payment", &ExtraPayment{Amount: 50, StartMonth: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := NewEngine(nil, 600)
			input := []Loan{
				{ID: 1, Name: "A", CurrentDebt: 2000, AnnualRate: 36, MonthlyPayment: 400},
				{ID: 2, Name: "B", CurrentDebt: 5000, AnnualRate: 12, MonthlyPayment: 200},
			}
			extraAmount := 0.0
			if tt.extra != nil {
				extraAmount = tt.extra.Amount
			}

			outcome := engine.Run(input, Avalanche, tt.extra)
			a := findOutcome(t, outcome, 1)
			b := findOutcome(t, outcome, 2)

			if a.Months >= b.Months {
				t.Fatalf("expected A (%d months) to finish before B (%d months)", a.Months, b.Months)
			}

			for _, snap := range b.Trace {
				paid := snap.Interest + snap.Principal
				final := snap.Balance == 0
				switch {
				case snap.Month <= a.Months:
					if math.Abs(paid-200) > 1e-9 {
						t.Errorf("month %d: B paid %.6f before A finished, expected 200", snap.Month, paid)
					}
				case !final:
					expected := 200 + 400 + extraAmount
					if math.Abs(paid-expected) > 1e-9 {
						t.Errorf("month %d: B paid %.6f after rollover, expected %.2f", snap.Month, paid, expected)
					}
				}
			}

			independentB := loans.NewAmortizationCalculator(nil).Simulate("B", loans.Terms{
				Balance: 5000, AnnualRate: 12, MonthlyPayment: 200,
			})
			if b.Months >= independentB.Months {
				t.Errorf("rollover did not accelerate B: %d vs %d months", b.Months, independentB.Months)
			}
		})
	}
}

func TestRunExtraPaymentTargetsTopPriorityOnly(t *testing.T) {
	engine := NewEngine(nil, 0)
	input := []Loan{
		{ID: 1, Name: "A", CurrentDebt: 10000, AnnualRate: 36, MonthlyPayment: 400},
		{ID: 2, Name: "B", CurrentDebt: 5000, AnnualRate: 12, MonthlyPayment: 200},
	}

	outcome := engine.Run(input, Avalanche, &ExtraPayment{Amount: 100, StartMonth: 3})
	a := findOutcome(t, outcome, 1)
	b := findOutcome(t, outcome, 2)

	for _, snap := range a.Trace[:4] {
		expected := 400.0
		if snap.Month >= 3 {
			expected = 500
		}
		if paid := snap.Interest + snap.Principal; math.Abs(paid-expected) > 1e-9 {
			t.Errorf("month %d: A paid %.6f, expected %.2f", snap.Month, paid, expected)
		}
	}
	for _, snap := range b.Trace[:4] {
		if paid := snap.Interest + snap.Principal; math.Abs(paid-200) > 1e-9 {
			t.Errorf("month %d: B paid %.6f, expected its own 200", snap.Month, paid)
		}
	}
}

func TestRunPayoffMonthOverflowIsNotCarried(t *testing.T) {
	engine := NewEngine(nil, 0)
	input := []Loan{
		{ID: 1, Name: "A", CurrentDebt: 2000, AnnualRate: 36, MonthlyPayment: 400},
		{ID: 2, Name: "B", CurrentDebt: 5000, AnnualRate: 12, MonthlyPayment: 200},
	}

	outcome := engine.Run(input, Avalanche, nil)
	a := findOutcome(t, outcome, 1)
	b := findOutcome(t, outcome, 2)

	last := a.Trace[len(a.Trace)-1]
	if last.Interest+last.Principal >= 400 {
		t.Fatalf("expected A's final payment to be partial, got %.2f", last.Interest+last.Principal)
	}
	// B still only pays its own amount in the month A finishes.
	payoffMonth := b.Trace[a.Months-1]
	if paid := payoffMonth.Interest + payoffMonth.Principal; math.Abs(paid-200) > 1e-9 {
		t.Errorf("B paid %.6f in A's payoff month, expected 200", paid)
	}
}

func TestRunPaidOffLoanFreesPaymentImmediately(t *testing.T) {
	engine := NewEngine(nil, 0)
	input := []Loan{
		{ID: 1, Name: "settled", CurrentDebt: 0, AnnualRate: 20, MonthlyPayment: 150},
		{ID: 2, Name: "B", CurrentDebt: 5000, AnnualRate: 12, MonthlyPayment: 200},
	}

	outcome := engine.Run(input, Snowball, nil)
	settled := findOutcome(t, outcome, 1)
	b := findOutcome(t, outcome, 2)

	if settled.Months != 0 || settled.TotalInterest != 0 {
		t.Errorf("settled loan = %+v, expected zero months and interest", settled)
	}
	first := b.Trace[0]
	if paid := first.Interest + first.Principal; math.Abs(paid-350) > 1e-9 {
		t.Errorf("B paid %.6f in month 1, expected 350", paid)
	}
}

func TestRunExcludesNonAmortizingLoans(t *testing.T) {
	engine := NewEngine(nil, 600)
	input := []Loan{
		{ID: 1, Name: "underwater", CurrentDebt: 10000, AnnualRate: 36, MonthlyPayment: 300},
		{ID: 2, Name: "B", CurrentDebt: 5000, AnnualRate: 12, MonthlyPayment: 200},
	}

	outcome := engine.Run(input, Avalanche, &ExtraPayment{Amount: 100, StartMonth: 1})
	underwater := findOutcome(t, outcome, 1)
	b := findOutcome(t, outcome, 2)

	if !underwater.NonAmortizing || underwater.Months != 600 {
		t.Errorf("underwater loan = %+v, expected non-amortizing at 600 months", underwater)
	}
	if len(underwater.Trace) != 0 {
		t.Errorf("underwater loan should not be simulated, got %d months of trace", len(underwater.Trace))
	}
	// The extra payment falls through to the next loan that can use it.
	if paid := b.Trace[0].Interest + b.Trace[0].Principal; math.Abs(paid-300) > 1e-9 {
		t.Errorf("B paid %.6f in month 1, expected 300", paid)
	}
}

func TestRunSafetyCap(t *testing.T) {
	engine := NewEngine(nil, 12)
	input := []Loan{
		{ID: 1, Name: "A", CurrentDebt: 10000, AnnualRate: 36, MonthlyPayment: 400},
	}

	outcome := engine.Run(input, Avalanche, nil)
	a := outcome.Loans[0]
	if !a.CapReached || a.Months != 12 {
		t.Errorf("outcome = %+v, expected cap reached at 12 months", a)
	}
	if len(a.Trace) != 12 {
		t.Errorf("expected 12 months of trace, got %d", len(a.Trace))
	}
	if engine.SafetyCapMonths() != 12 {
		t.Errorf("SafetyCapMonths() = %d, expected 12", engine.SafetyCapMonths())
	}
}

func TestRunDoesNotMutateInput(t *testing.T) {
	engine := NewEngine(nil, 0)
	input := []Loan{
		{ID: 1, Name: "A", CurrentDebt: 2000, AnnualRate: 36, MonthlyPayment: 400},
		{ID: 2, Name: "B", CurrentDebt: 5000, AnnualRate: 12, MonthlyPayment: 200},
	}
	original := append([]Loan(nil), input...)

	_ = engine.Run(input, Snowball, &ExtraPayment{Amount: 25, StartMonth: 2})

	for i := range input {
		if input[i] != original[i] {
			t.Errorf("loan %d mutated: %+v -> %+v", i, original[i], input[i])
		}
	}
}
