package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iwvelando/debt-payoff/internal/cache"
	"github.com/iwvelando/debt-payoff/internal/config"
	"github.com/iwvelando/debt-payoff/internal/logging"
	"github.com/iwvelando/debt-payoff/internal/repository"
	"github.com/iwvelando/debt-payoff/internal/server"
	"github.com/iwvelando/debt-payoff/internal/simulation"
	"github.com/iwvelando/debt-payoff/internal/tracing"
	"github.com/iwvelando/debt-payoff/pkg/constants"
	"github.com/iwvelando/debt-payoff/pkg/payoff"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	configLocation := flag.String("config", constants.DefaultServerConfigFile, "path to server configuration file")
	envFile := flag.String("env-file", ".env", "dotenv file with connection overrides")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	maxBodySize := flag.String("max-body-size", "", "request body limit override, e.g. 256K or 1M")
	flag.Parse()

	cfg, err := server.LoadConfig(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}
	lookup, err := server.EnvLookup(*envFile)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to read environment\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	cfg.ApplyEnv(lookup)
	if *maxBodySize != "" {
		size, err := server.ParseSize(*maxBodySize)
		if err != nil {
			fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"invalid max-body-size\", \"error\": \"%v\"}\n", err)
			os.Exit(1)
		}
		cfg.SetBodySizeBytes(size)
	}

	logger, err := logging.NewLogger(cfg.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server stopped with error",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}

func run(ctx context.Context, cfg *server.Config, logger *zap.Logger) error {
	shutdownTracing, err := tracing.InitTracing(ctx, cfg.Tracing, version, logger)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Warn("failed to flush traces",
				zap.String("op", "main.run"),
				zap.Error(err),
			)
		}
	}()

	repo, closeRepo, err := openRepository(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeRepo()

	opts := []simulation.Option{}
	if cfg.Redis.Address != "" {
		rc := cache.NewRedisCache(cfg.Redis.Address, cfg.RedisTTL())
		defer func() {
			_ = rc.Close()
		}()
		if err := rc.Ping(ctx); err != nil {
			logger.Warn("redis unavailable, results are computed on every request",
				zap.String("op", "main.run"),
				zap.String("address", cfg.Redis.Address),
				zap.Error(err),
			)
		}
		opts = append(opts, simulation.WithCache(rc))
	}

	engine := payoff.NewEngine(logger, cfg.Simulation.SafetyCapMonths)
	svc := simulation.NewService(repo, engine, logger, opts...)

	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           server.NewHandler(logger, svc, cfg.BodySizeBytes(), version),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting debt-payoff server",
			zap.String("op", "main.run"),
			zap.String("address", cfg.Address),
			zap.String("version", version),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down",
		zap.String("op", "main.run"),
	)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openRepository picks PostgreSQL when a DSN is configured and the loans file
// otherwise.
func openRepository(ctx context.Context, cfg *server.Config, logger *zap.Logger) (repository.LoanRepository, func(), error) {
	if cfg.Database.DSN != "" {
		db, err := repository.OpenPostgres(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, nil, err
		}
		repo := repository.NewPostgresRepository(db, logger)
		if cfg.Database.EnsureSchema {
			if err := repo.EnsureSchema(ctx); err != nil {
				_ = db.Close()
				return nil, nil, err
			}
		}
		return repo, func() { _ = db.Close() }, nil
	}

	var loans []payoff.Loan
	if cfg.LoansFile != "" {
		conf, err := config.LoadConfiguration(cfg.LoansFile)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load loans from %s: %w", cfg.LoansFile, err)
		}
		for _, warning := range conf.ValidateConfiguration() {
			logger.Warn("Configuration warning: "+warning,
				zap.String("op", "main.openRepository"),
			)
		}
		loans = conf.Loans
	} else {
		logger.Warn("no database or loans file configured, serving an empty loan set",
			zap.String("op", "main.openRepository"),
		)
	}
	return repository.NewMemoryRepository(loans), func() {}, nil
}
