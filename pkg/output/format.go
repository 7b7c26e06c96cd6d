// Package output provides utilities for formatting and displaying payoff results.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/iwvelando/debt-payoff/pkg/format"
	"github.com/iwvelando/debt-payoff/pkg/loans"
	"github.com/iwvelando/debt-payoff/pkg/payoff"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyFormat writes a human-readable summary followed by one table row per loan.
func PrettyFormat(w io.Writer, result payoff.Result) error {
	p := message.NewPrinter(language.English)

	_, _ = p.Fprintf(w, "--- Payoff plan (%s) ---\n", result.Strategy)
	if len(result.Loans) == 0 {
		_, _ = p.Fprintf(w, "No active loans.\n")
		return nil
	}
	_, _ = p.Fprintf(w, "Debt free by:   %s\n", result.TotalDebtPayoffDate)
	_, _ = p.Fprintf(w, "Time saved:     %s\n", format.Months(result.TotalMonthsSaved))
	_, _ = p.Fprintf(w, "Interest saved: %s (%s -> %s)\n\n",
		format.Currency(result.TotalInterestSaved),
		format.Currency(result.CurrentTotalInterest),
		format.Currency(result.SimulatedTotalInterest))

	_, _ = p.Fprintf(w, "Loan                 | Months now | Months plan | Saved | Interest now  | Interest plan | Interest saved | Payoff date\n")
	_, _ = p.Fprintf(w, "____                 | __________ | ___________ | _____ | ____________  | _____________ | ______________ | ___________\n")
	for _, lr := range result.Loans {
		_, _ = p.Fprintf(w, "%-20s | %10d | %11d | %5d | %13s | %13s | %14s | %s%s\n",
			lr.LoanName,
			lr.CurrentMonthsRemaining,
			lr.SimulatedMonthsRemaining,
			lr.MonthsSaved,
			format.Currency(lr.CurrentTotalInterest),
			format.Currency(lr.SimulatedTotalInterest),
			format.Currency(lr.InterestSaved),
			lr.PayoffDate,
			flags(lr),
		)
	}

	for _, lr := range result.Loans {
		if len(lr.SimulatedSchedule) == 0 {
			continue
		}
		_, _ = p.Fprintf(w, "\n--- Schedule for %s ---\n", lr.LoanName)
		writePrettySchedule(w, p, lr.SimulatedSchedule)
	}

	if len(result.Warnings) > 0 {
		_, _ = p.Fprintf(w, "\nWarnings:\n")
		for _, warning := range result.Warnings {
			_, _ = p.Fprintf(w, "  - %s\n", warning)
		}
	}
	return nil
}

func writePrettySchedule(w io.Writer, p *message.Printer, schedule []loans.Snapshot) {
	_, _ = p.Fprintf(w, "Month | Interest     | Principal    | Balance\n")
	_, _ = p.Fprintf(w, "_____ | ____________ | ____________ | ____________\n")
	for _, snap := range schedule {
		_, _ = p.Fprintf(w, "%5d | %12s | %12s | %12s\n", snap.Month,
			format.NumericCurrency(snap.Interest), format.NumericCurrency(snap.Principal), format.NumericCurrency(snap.Balance))
	}
}

func flags(lr payoff.LoanResult) string {
	switch {
	case lr.NonAmortizing:
		return " (payment below interest)"
	case lr.SafetyCapReached:
		return " (safety cap reached)"
	default:
		return ""
	}
}

// CsvFormat writes one CSV record per loan.
func CsvFormat(w io.Writer, result payoff.Result) error {
	cw := csv.NewWriter(w)
	header := []string{
		"loan_id", "loan_name", "current_months_remaining", "simulated_months_remaining", "months_saved",
		"current_total_interest", "simulated_total_interest", "interest_saved", "payoff_date",
		"non_amortizing", "safety_cap_reached",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, lr := range result.Loans {
		record := []string{
			strconv.FormatInt(lr.LoanID, 10),
			lr.LoanName,
			strconv.Itoa(lr.CurrentMonthsRemaining),
			strconv.Itoa(lr.SimulatedMonthsRemaining),
			strconv.Itoa(lr.MonthsSaved),
			strconv.FormatFloat(lr.CurrentTotalInterest, 'f', 2, 64),
			strconv.FormatFloat(lr.SimulatedTotalInterest, 'f', 2, 64),
			strconv.FormatFloat(lr.InterestSaved, 'f', 2, 64),
			lr.PayoffDate,
			strconv.FormatBool(lr.NonAmortizing),
			strconv.FormatBool(lr.SafetyCapReached),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record for loan %d: %w", lr.LoanID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// JSONFormat writes the result exactly as the HTTP API returns it.
func JSONFormat(w io.Writer, result payoff.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return nil
}
