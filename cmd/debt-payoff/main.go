package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/iwvelando/debt-payoff/internal/config"
	"github.com/iwvelando/debt-payoff/internal/logging"
	"github.com/iwvelando/debt-payoff/internal/repository"
	"github.com/iwvelando/debt-payoff/internal/simulation"
	"github.com/iwvelando/debt-payoff/pkg/constants"
	"github.com/iwvelando/debt-payoff/pkg/output"
	"github.com/iwvelando/debt-payoff/pkg/payoff"
	"github.com/iwvelando/debt-payoff/pkg/validation"
	"go.uber.org/zap"
)

type options struct {
	configLocation string
	strategy       string
	extra          float64
	extraStart     int
	loanIDs        string
	today          string
	schedule       bool
	outputFormat   string
	logLevel       string
	set            map[string]bool
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("debt-payoff", flag.ContinueOnError)
	fs.StringVar(&opts.configLocation, "config", constants.DefaultConfigFile, "path to configuration file")
	fs.StringVar(&opts.strategy, "strategy", "", "payoff strategy override: avalanche, snowball")
	fs.Float64Var(&opts.extra, "extra", 0, "extra monthly payment override")
	fs.IntVar(&opts.extraStart, "extra-start", 0, "first month (1-based) the extra payment applies")
	fs.StringVar(&opts.loanIDs, "loans", "", "comma-separated loan ids to include (default: all active loans)")
	fs.StringVar(&opts.today, "today", "", "reference date YYYY-MM-DD for payoff dates (default: today)")
	fs.BoolVar(&opts.schedule, "schedule", false, "include month-by-month schedules")
	fs.StringVar(&opts.outputFormat, "output-format", "", "type of output override: pretty, csv, json")
	fs.StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	opts.set = map[string]bool{}
	fs.Visit(func(f *flag.Flag) {
		opts.set[f.Name] = true
	})
	return opts, nil
}

// buildRequest merges CLI overrides into the configured request.
func buildRequest(conf *config.Configuration, opts options) (payoff.Request, error) {
	req := conf.Request()
	req.IncludeSchedule = opts.schedule
	if opts.strategy != "" {
		req.Strategy = opts.strategy
	}

	if opts.set["extra"] || opts.set["extra-start"] {
		extra := payoff.ExtraPayment{}
		if req.ExtraPayment != nil {
			extra = *req.ExtraPayment
		}
		if opts.set["extra"] {
			extra.Amount = opts.extra
		}
		if opts.set["extra-start"] {
			extra.StartMonth = opts.extraStart
		}
		req.ExtraPayment = &extra
	}

	if strings.TrimSpace(opts.loanIDs) != "" {
		ids, err := parseLoanIDs(opts.loanIDs)
		if err != nil {
			return payoff.Request{}, err
		}
		req.IncludeAllLoans = false
		req.LoanIDs = ids
	}
	return req, nil
}

func parseLoanIDs(value string) ([]int64, error) {
	var ids []int64
	for _, field := range strings.Split(value, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		id, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid loan id %q", payoff.ErrInvalidInput, field)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func render(w io.Writer, outputFormat string, result payoff.Result) error {
	switch outputFormat {
	case constants.OutputFormatCSV:
		return output.CsvFormat(w, result)
	case constants.OutputFormatJSON:
		return output.JSONFormat(w, result)
	default:
		return output.PrettyFormat(w, result)
	}
}

func main() {
	// Process command line flags first to get config location
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	// Load the config file to get logging configuration
	conf, err := config.LoadConfiguration(opts.configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", opts.configLocation, err)
		os.Exit(1)
	}

	// Initialize logging based on config and CLI override
	logger, err := logging.NewLogger(conf.Logging, opts.logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Determine output format (CLI override takes precedence over config)
	outputFormat := conf.Output.Format
	if opts.outputFormat != "" {
		outputFormat = opts.outputFormat
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	// Validate configuration and display any warnings
	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	if opts.today != "" {
		conf.Simulation.Today = opts.today
	}
	today, err := conf.ReferenceDate(time.Now())
	if err != nil {
		logger.Fatal("failed to parse reference date",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	req, err := buildRequest(conf, opts)
	if err != nil {
		logger.Fatal("failed to build simulation request",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	engine := payoff.NewEngine(logger, conf.Simulation.SafetyCapMonths)
	svc := simulation.NewService(
		repository.NewMemoryRepository(conf.Loans),
		engine,
		logger,
		simulation.WithClock(func() time.Time { return today }),
	)

	result, err := svc.Simulate(context.Background(), req)
	if err != nil {
		logger.Fatal("failed to simulate payoff",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	if err := render(os.Stdout, outputFormat, result); err != nil {
		logger.Fatal("failed to write output",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}
