package integration

import (
	"context"
	"testing"
	"time"

	"github.com/iwvelando/debt-payoff/internal/repository"
	"github.com/iwvelando/debt-payoff/internal/simulation"
	"github.com/iwvelando/debt-payoff/pkg/payoff"
	"github.com/iwvelando/debt-payoff/pkg/testutil"
	"go.uber.org/zap"
)

var benchToday = time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

// TestLargePortfolioPerformance checks that a large portfolio stays well within
// interactive response times.
func TestLargePortfolioPerformance(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping performance test in short mode")
	}

	engine := payoff.NewEngine(zap.NewNop(), 0)
	portfolio := testutil.Portfolio(200)

	start := time.Now()
	result, err := engine.Compare(portfolio, payoff.Request{
		Strategy:        "avalanche",
		IncludeAllLoans: true,
		ExtraPayment:    &payoff.ExtraPayment{Amount: 500, StartMonth: 1},
	}, benchToday)
	elapsed := time.Since(start)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}

	if len(result.Loans) != len(portfolio) {
		t.Fatalf("expected %d loan results, got %d", len(portfolio), len(result.Loans))
	}
	for _, lr := range result.Loans {
		if lr.SafetyCapReached {
			t.Errorf("loan %d hit the safety cap", lr.LoanID)
		}
	}

	t.Logf("Compared %d loans in %v", len(portfolio), elapsed)
	if elapsed > 2*time.Second {
		t.Errorf("comparison took %v, expected well under 2s", elapsed)
	}
}

func BenchmarkCompareTwoLoans(b *testing.B) {
	engine := payoff.NewEngine(zap.NewNop(), 0)
	portfolio := []payoff.Loan{
		{ID: 1, Name: "A", CurrentDebt: 10000, AnnualRate: 36, MonthlyPayment: 400, Status: "active"},
		{ID: 2, Name: "B", CurrentDebt: 5000, AnnualRate: 12, MonthlyPayment: 200, Status: "active"},
	}
	req := payoff.Request{Strategy: "avalanche", IncludeAllLoans: true}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := engine.Compare(portfolio, req, benchToday); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkServiceSimulate(b *testing.B) {
	repo := repository.NewMemoryRepository(testutil.Portfolio(25))
	svc := simulation.NewService(repo, nil, zap.NewNop(),
		simulation.WithClock(func() time.Time { return benchToday }))
	req := payoff.Request{
		Strategy:        "snowball",
		IncludeAllLoans: true,
		ExtraPayment:    &payoff.ExtraPayment{Amount: 150, StartMonth: 2},
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := svc.Simulate(context.Background(), req); err != nil {
			b.Fatal(err)
		}
	}
}
