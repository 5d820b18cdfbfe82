// internal/loans/store/store.go

// Package store provides durable keyed storage for the latest loan
// application per applicant, plus the cache-aside decorator that keeps the
// status cache loosely synchronized with it.
package store

import (
	"context"

	"loans-service/internal/loans/domain"
)

// Store is the persistence gateway for loan applications. The record
// store is a latest-state projection: one current record per applicant,
// not an event log.
type Store interface {
	// Create inserts the record if absent. A duplicate create is a no-op:
	// it must not error and must not overwrite.
	Create(ctx context.Context, application domain.Application) error

	// Upsert inserts or replaces the full record. Last write wins; no
	// field-level merge.
	Upsert(ctx context.Context, application domain.Application) error

	// GetLatest returns the current record for the applicant, or nil when
	// none exists.
	GetLatest(ctx context.Context, applicantID string) (*domain.Application, error)
}
