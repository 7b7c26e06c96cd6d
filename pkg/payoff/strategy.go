package payoff

import (
	"fmt"
	"sort"
	"strings"

	"github.com/iwvelando/debt-payoff/pkg/constants"
)

// Strategy orders loans by repayment priority. Each strategy carries its own
// comparator so the simulation loop never branches on the strategy name.
type Strategy struct {
	name string
	less func(a, b Loan) bool
}

var (
	// Avalanche pays the highest rate first; equal rates go smallest balance first.
	Avalanche = Strategy{
		name: constants.StrategyAvalanche,
		less: func(a, b Loan) bool {
			if a.AnnualRate != b.AnnualRate {
				return a.AnnualRate > b.AnnualRate
			}
			return a.CurrentDebt < b.CurrentDebt
		},
	}

	// Snowball pays the smallest balance first; equal balances go highest rate first.
	Snowball = Strategy{
		name: constants.StrategySnowball,
		less: func(a, b Loan) bool {
			if a.CurrentDebt != b.CurrentDebt {
				return a.CurrentDebt < b.CurrentDebt
			}
			return a.AnnualRate > b.AnnualRate
		},
	}
)

// ParseStrategy resolves a strategy by name, case-insensitively.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case constants.StrategyAvalanche:
		return Avalanche, nil
	case constants.StrategySnowball:
		return Snowball, nil
	default:
		return Strategy{}, fmt.Errorf("%w: unknown strategy %q, expected %s or %s",
			ErrInvalidInput, name, constants.StrategyAvalanche, constants.StrategySnowball)
	}
}

// String returns the strategy name.
func (s Strategy) String() string {
	return s.name
}

// Order returns a priority-ordered copy of loans. Loans the comparator cannot
// tell apart keep ascending id order.
func (s Strategy) Order(loans []Loan) []Loan {
	ordered := make([]Loan, len(loans))
	copy(ordered, loans)
	sort.SliceStable(ordered, func(i, j int) bool {
		if s.less(ordered[i], ordered[j]) {
			return true
		}
		if s.less(ordered[j], ordered[i]) {
			return false
		}
		return ordered[i].ID < ordered[j].ID
	})
	return ordered
}
