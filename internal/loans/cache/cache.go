// internal/loans/cache/cache.go

// Package cache provides the TTL-bounded status cache for loan
// application snapshots. The cache never originates state; it mirrors the
// record store with a staleness bound.
package cache

import (
	"context"
	"time"

	"loans-service/internal/loans/domain"
)

// StatusCache stores the most recent full application snapshot per
// applicant. Entries expire after their TTL; expired entries behave as
// not-found. Implementations must store whole snapshots only, never
// partial or derived fields.
type StatusCache interface {
	// Set stores a snapshot with the given TTL, replacing any prior entry.
	Set(ctx context.Context, application domain.Application, ttl time.Duration) error

	// Get returns the snapshot for the applicant, or nil when absent or
	// expired.
	Get(ctx context.Context, applicantID string) (*domain.Application, error)
}
