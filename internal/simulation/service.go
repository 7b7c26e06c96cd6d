// Package simulation serves payoff comparisons for loans held in a
// repository, caching results and recording metrics and traces.
package simulation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/iwvelando/debt-payoff/internal/cache"
	"github.com/iwvelando/debt-payoff/internal/metrics"
	"github.com/iwvelando/debt-payoff/internal/repository"
	"github.com/iwvelando/debt-payoff/pkg/constants"
	"github.com/iwvelando/debt-payoff/pkg/datetime"
	"github.com/iwvelando/debt-payoff/pkg/payoff"
	"github.com/iwvelando/debt-payoff/pkg/validation"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "github.com/iwvelando/debt-payoff/internal/simulation"

// Service runs simulations against the active loans of a repository.
type Service struct {
	repo   repository.LoanRepository
	cache  cache.Cache
	engine *payoff.Engine
	logger *zap.Logger
	tracer trace.Tracer
	now    func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithCache stores results in c. Without it every request is computed.
func WithCache(c cache.Cache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

// WithClock overrides the source of "today" used to date payoffs.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a Service reading loans from repo.
func NewService(repo repository.LoanRepository, engine *payoff.Engine, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if engine == nil {
		engine = payoff.NewEngine(logger, constants.DefaultSafetyCapMonths)
	}
	s := &Service{
		repo:   repo,
		engine: engine,
		logger: logger,
		tracer: otel.Tracer(tracerName),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ActiveLoans lists the loans a request may select.
func (s *Service) ActiveLoans(ctx context.Context) ([]payoff.Loan, error) {
	loans, err := s.repo.ActiveLoans(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active loans: %w", err)
	}
	return loans, nil
}

// Simulate validates req, selects its loans and compares the current plan
// with the requested strategy. Errors wrapping payoff.ErrInvalidInput are the
// caller's fault; anything else is an infrastructure failure.
func (s *Service) Simulate(ctx context.Context, req payoff.Request) (result payoff.Result, err error) {
	ctx, span := s.tracer.Start(ctx, "simulation.Simulate")
	defer span.End()

	start := time.Now()
	strategyLabel := req.Strategy
	defer func() {
		status := "ok"
		if err != nil {
			status = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		metrics.Simulations.WithLabelValues(strategyLabel, status).Inc()
	}()

	strategy, err := payoff.ValidateRequest(req)
	if err != nil {
		strategyLabel = "unknown"
		return payoff.Result{}, err
	}
	strategyLabel = strategy.String()
	if err := validation.ValidateLoanSelection(req.IncludeAllLoans, req.LoanIDs); err != nil {
		return payoff.Result{}, err
	}

	active, err := s.ActiveLoans(ctx)
	if err != nil {
		return payoff.Result{}, err
	}
	selected, err := SelectLoans(active, req)
	if err != nil {
		return payoff.Result{}, err
	}

	today := datetime.Truncate(s.now())
	span.SetAttributes(
		attribute.String("payoff.strategy", strategyLabel),
		attribute.Int("payoff.loans", len(selected)),
	)

	key, keyErr := cache.Key(req, selected, today.Format(constants.DateLayout))
	if keyErr != nil {
		s.logger.Warn("unable to build cache key",
			zap.String("op", "simulation.Simulate"),
			zap.Error(keyErr),
		)
	}
	if cached, ok := s.lookup(ctx, key); ok {
		span.SetAttributes(attribute.Bool("payoff.cache_hit", true))
		return cached, nil
	}

	result, err = s.engine.Compare(selected, req, today)
	if err != nil {
		return payoff.Result{}, err
	}
	metrics.SimulationDuration.WithLabelValues(strategyLabel).Observe(time.Since(start).Seconds())
	s.store(ctx, key, result)

	s.logger.Info("simulation complete",
		zap.String("op", "simulation.Simulate"),
		zap.String("strategy", result.Strategy),
		zap.Int("loans", len(result.Loans)),
		zap.Int("total_months_saved", result.TotalMonthsSaved),
		zap.Float64("total_interest_saved", result.TotalInterestSaved),
		zap.String("payoff_date", result.TotalDebtPayoffDate),
	)
	return result, nil
}

func (s *Service) lookup(ctx context.Context, key string) (payoff.Result, bool) {
	if s.cache == nil || key == "" {
		return payoff.Result{}, false
	}
	raw, ok := s.cache.Get(ctx, key)
	if !ok {
		metrics.CacheLookups.WithLabelValues(metrics.CacheMiss).Inc()
		return payoff.Result{}, false
	}
	var result payoff.Result
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		s.logger.Warn("discarding unreadable cache entry",
			zap.String("op", "simulation.lookup"),
			zap.String("key", key),
			zap.Error(err),
		)
		metrics.CacheLookups.WithLabelValues(metrics.CacheMiss).Inc()
		return payoff.Result{}, false
	}
	metrics.CacheLookups.WithLabelValues(metrics.CacheHit).Inc()
	return result, true
}

func (s *Service) store(ctx context.Context, key string, result payoff.Result) {
	if s.cache == nil || key == "" {
		return
	}
	data, err := json.Marshal(result)
	if err == nil {
		err = s.cache.Set(ctx, key, string(data))
	}
	if err != nil {
		s.logger.Warn("unable to cache simulation result",
			zap.String("op", "simulation.store"),
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

// SelectLoans picks the loans a request names from the active set. Unknown or
// inactive ids are rejected.
func SelectLoans(active []payoff.Loan, req payoff.Request) ([]payoff.Loan, error) {
	if req.IncludeAllLoans {
		return active, nil
	}
	byID := make(map[int64]payoff.Loan, len(active))
	for _, loan := range active {
		byID[loan.ID] = loan
	}
	selected := make([]payoff.Loan, 0, len(req.LoanIDs))
	for _, id := range req.LoanIDs {
		loan, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: loan id %d is unknown or not active", payoff.ErrInvalidInput, id)
		}
		selected = append(selected, loan)
	}
	return selected, nil
}
