// Package config defines the data structures related to configuration and
// includes functions for loading and parsing the config.
package config

import (
	"fmt"
	"io"
	"time"

	"github.com/iwvelando/debt-payoff/pkg/constants"
	"github.com/iwvelando/debt-payoff/pkg/datetime"
	"github.com/iwvelando/debt-payoff/pkg/payoff"
	"github.com/iwvelando/debt-payoff/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for debt-payoff.
type Configuration struct {
	Simulation SimulationConfig `yaml:"simulation,omitempty"`
	Loans      []payoff.Loan    `yaml:"loans,omitempty"`
	Logging    LoggingConfig    `yaml:"logging,omitempty"`
	Output     OutputConfig     `yaml:"output,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv, json
}

// SimulationConfig holds the default simulation request.
type SimulationConfig struct {
	Strategy        string  `yaml:"strategy,omitempty"`
	ExtraPayment    float64 `yaml:"extraPayment,omitempty"`
	ExtraStartMonth int     `yaml:"extraStartMonth,omitempty"`
	SafetyCapMonths int     `yaml:"safetyCapMonths,omitempty"`
	Today           string  `yaml:"today,omitempty"` // YYYY-MM-DD, defaults to the current date
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yml")
	v.SetEnvPrefix("PAYOFF")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}
	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yml")

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	configuration.applyDefaults()
	return &configuration, nil
}

func (conf *Configuration) applyDefaults() {
	if conf.Simulation.Strategy == "" {
		conf.Simulation.Strategy = constants.StrategyAvalanche
	}
	if conf.Simulation.SafetyCapMonths == 0 {
		conf.Simulation.SafetyCapMonths = constants.DefaultSafetyCapMonths
	}
	for i := range conf.Loans {
		if conf.Loans[i].Status == "" {
			conf.Loans[i].Status = constants.LoanStatusActive
		}
	}
}

// ReferenceDate returns the configured "today", falling back to now.
func (conf *Configuration) ReferenceDate(now time.Time) (time.Time, error) {
	today, err := datetime.ParseDate(conf.Simulation.Today, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid simulation date %q: %w", conf.Simulation.Today, err)
	}
	return today, nil
}

// Request builds the simulation request described by the configuration.
func (conf *Configuration) Request() payoff.Request {
	req := payoff.Request{
		Strategy:        conf.Simulation.Strategy,
		IncludeAllLoans: true,
	}
	if conf.Simulation.ExtraPayment > 0 {
		req.ExtraPayment = &payoff.ExtraPayment{
			Amount:     conf.Simulation.ExtraPayment,
			StartMonth: conf.Simulation.ExtraStartMonth,
		}
	}
	return req
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (conf *Configuration) ValidateConfiguration() []string {
	validator := validation.ConfigValidator{
		SafetyCapMonths: conf.Simulation.SafetyCapMonths,
	}
	for _, loan := range conf.Loans {
		validator.Loans = append(validator.Loans, validation.LoanConfig{
			ID:             loan.ID,
			Name:           loan.Name,
			CurrentDebt:    loan.CurrentDebt,
			AnnualRate:     loan.AnnualRate,
			MonthlyPayment: loan.MonthlyPayment,
			Status:         loan.Status,
		})
	}
	return validator.ValidateAll()
}
