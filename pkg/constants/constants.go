// Package constants provides shared constants for the debt-payoff application.
package constants

// DateLayout is the ISO calendar date format used for payoff dates and the
// CLI's reference date.
const DateLayout = "2006-01-02"

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// CurrencyDecimals is the number of decimal places kept on reported amounts
	CurrencyDecimals = 2

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// BalanceEpsilon is the balance at or below which a loan counts as paid off
	BalanceEpsilon = 0.01

	// DefaultSafetyCapMonths bounds every simulation (50 years)
	DefaultSafetyCapMonths = 600
)

// Loan status values.
const (
	// LoanStatusActive marks loans that take part in simulations
	LoanStatusActive = "active"
)

// Strategy names.
const (
	StrategyAvalanche = "avalanche"
	StrategySnowball  = "snowball"
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON mirrors the HTTP response body
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum simulate request body (64 KB)
	DefaultMaxBodySizeBytes int64 = 64 * 1024

	// DefaultServiceName identifies the service in traces
	DefaultServiceName = "debt-payoff"
)
