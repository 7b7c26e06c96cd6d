package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iwvelando/debt-payoff/pkg/constants"
	"github.com/iwvelando/debt-payoff/pkg/payoff"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

const schema = `
CREATE TABLE IF NOT EXISTS loans (
  id BIGSERIAL PRIMARY KEY,
  name TEXT NOT NULL,
  entity TEXT NOT NULL DEFAULT '',
  current_debt NUMERIC(14,2) NOT NULL,
  annual_rate NUMERIC(7,4) NOT NULL,
  monthly_payment NUMERIC(14,2) NOT NULL,
  status TEXT NOT NULL DEFAULT 'active'
);`

// PostgresRepository reads loans from a PostgreSQL "loans" table.
type PostgresRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// OpenPostgres opens and pings a PostgreSQL database with the given DSN.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// NewPostgresRepository wraps an open database handle.
func NewPostgresRepository(db *sql.DB, logger *zap.Logger) *PostgresRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostgresRepository{db: db, logger: logger}
}

// EnsureSchema creates the loans table when it does not exist yet.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create loans table: %w", err)
	}
	return nil
}

// ActiveLoans returns the active loans ordered by id.
func (r *PostgresRepository) ActiveLoans(ctx context.Context) ([]payoff.Loan, error) {
	query := `
		SELECT id, name, entity, current_debt, annual_rate, monthly_payment, status
		FROM loans
		WHERE status = $1
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, constants.LoanStatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to query loans: %w", err)
	}
	defer rows.Close()

	var result []payoff.Loan
	for rows.Next() {
		var loan payoff.Loan
		if err := rows.Scan(&loan.ID, &loan.Name, &loan.Entity, &loan.CurrentDebt,
			&loan.AnnualRate, &loan.MonthlyPayment, &loan.Status); err != nil {
			return nil, fmt.Errorf("failed to scan loan: %w", err)
		}
		result = append(result, loan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read loans: %w", err)
	}

	r.logger.Debug("loaded active loans",
		zap.String("op", "repository.PostgresRepository.ActiveLoans"),
		zap.Int("count", len(result)),
	)
	return result, nil
}
