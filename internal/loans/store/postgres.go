// internal/loans/store/postgres.go
package store

import (
	"context"
	"database/sql"

	cerrors "loans-service/internal/common/errors"
	"loans-service/internal/common/logger"
	"loans-service/internal/loans/domain"

	"github.com/shopspring/decimal"
)

// PostgresStore persists loan applications with applicant_id as the
// primary key. Create relies on ON CONFLICT DO NOTHING for idempotency;
// Upsert replaces the mutable columns atomically per record.
type PostgresStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewPostgresStore(db *sql.DB, log logger.Logger) *PostgresStore {
	return &PostgresStore{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "postgres-store"}),
	}
}

// EnsureSchema creates the loan_applications table when it does not
// exist. Full migration tooling stays outside this service.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS loan_applications (
			applicant_id VARCHAR(255) PRIMARY KEY,
			amount       NUMERIC(12,2) NOT NULL CHECK (amount > 0),
			term_months  INTEGER NOT NULL CHECK (term_months > 0),
			status       VARCHAR(32) NOT NULL,
			created_at   TIMESTAMPTZ NOT NULL,
			updated_at   TIMESTAMPTZ NOT NULL
		)`)
	if err != nil {
		return cerrors.NewStoreUnavailableError(err)
	}
	return nil
}

func (s *PostgresStore) Create(ctx context.Context, application domain.Application) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO loan_applications (
			applicant_id, amount, term_months, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (applicant_id) DO NOTHING`,
		application.ApplicantID,
		application.Amount.String(),
		application.TermMonths,
		string(application.Status),
		application.CreatedAt,
		application.UpdatedAt,
	)
	if err != nil {
		return cerrors.NewStoreUnavailableError(err)
	}
	return nil
}

func (s *PostgresStore) Upsert(ctx context.Context, application domain.Application) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO loan_applications (
			applicant_id, amount, term_months, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (applicant_id) DO UPDATE SET
			amount      = EXCLUDED.amount,
			term_months = EXCLUDED.term_months,
			status      = EXCLUDED.status,
			updated_at  = EXCLUDED.updated_at`,
		application.ApplicantID,
		application.Amount.String(),
		application.TermMonths,
		string(application.Status),
		application.CreatedAt,
		application.UpdatedAt,
	)
	if err != nil {
		return cerrors.NewStoreUnavailableError(err)
	}
	return nil
}

func (s *PostgresStore) GetLatest(ctx context.Context, applicantID string) (*domain.Application, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT applicant_id, amount, term_months, status, created_at, updated_at
		FROM loan_applications
		WHERE applicant_id = $1`, applicantID)

	application, err := scanApplication(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, cerrors.NewStoreUnavailableError(err)
	}
	return application, nil
}

// List returns every stored application. Used by the cache warmer, not
// part of the Store contract.
func (s *PostgresStore) List(ctx context.Context) ([]domain.Application, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT applicant_id, amount, term_months, status, created_at, updated_at
		FROM loan_applications`)
	if err != nil {
		return nil, cerrors.NewStoreUnavailableError(err)
	}
	defer rows.Close()

	var applications []domain.Application
	for rows.Next() {
		application, err := scanApplication(rows.Scan)
		if err != nil {
			return nil, cerrors.NewStoreUnavailableError(err)
		}
		applications = append(applications, *application)
	}
	if err := rows.Err(); err != nil {
		return nil, cerrors.NewStoreUnavailableError(err)
	}
	return applications, nil
}

func scanApplication(scan func(...interface{}) error) (*domain.Application, error) {
	var application domain.Application
	var amount string
	var status string

	err := scan(
		&application.ApplicantID,
		&amount,
		&application.TermMonths,
		&status,
		&application.CreatedAt,
		&application.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	application.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return nil, err
	}
	application.Status = domain.Status(status)
	return &application, nil
}
