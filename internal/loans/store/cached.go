// internal/loans/store/cached.go
package store

import (
	"context"
	"time"

	"loans-service/internal/common/logger"
	"loans-service/internal/common/metrics"
	"loans-service/internal/loans/cache"
	"loans-service/internal/loans/domain"
)

// CachedStore is a cache-aside decorator over a backing Store. Writes go
// to the durable store first and refresh the cache only after the durable
// write succeeds. Reads prefer the cache and repair it from the store on
// a miss. No transaction spans the two tiers; the cache may lag the store
// by up to the configured TTL.
type CachedStore struct {
	backing Store
	cache   cache.StatusCache
	ttl     time.Duration
	logger  logger.Logger
}

func NewCachedStore(backing Store, statusCache cache.StatusCache, ttl time.Duration, log logger.Logger) *CachedStore {
	return &CachedStore{
		backing: backing,
		cache:   statusCache,
		ttl:     ttl,
		logger:  log.WithFields(map[string]interface{}{"component": "cached-store"}),
	}
}

func (s *CachedStore) Create(ctx context.Context, application domain.Application) error {
	if err := s.backing.Create(ctx, application); err != nil {
		return err
	}
	// A duplicate create is a no-op in the store, so the cache must be
	// refreshed from what the store actually holds, not from the input.
	stored, err := s.backing.GetLatest(ctx, application.ApplicantID)
	if err != nil {
		s.logger.Warn("cache refresh read failed after create", map[string]interface{}{
			"applicantId": application.ApplicantID,
			"error":       err,
		})
		return nil
	}
	if stored != nil {
		s.refreshCache(ctx, *stored)
	}
	return nil
}

func (s *CachedStore) Upsert(ctx context.Context, application domain.Application) error {
	if err := s.backing.Upsert(ctx, application); err != nil {
		return err
	}
	s.refreshCache(ctx, application)
	return nil
}

func (s *CachedStore) GetLatest(ctx context.Context, applicantID string) (*domain.Application, error) {
	cached, err := s.cache.Get(ctx, applicantID)
	if err != nil {
		return nil, err
	}
	if cached != nil {
		metrics.CacheReads.WithLabelValues("hit").Inc()
		return cached, nil
	}
	metrics.CacheReads.WithLabelValues("miss").Inc()

	record, err := s.backing.GetLatest(ctx, applicantID)
	if err != nil {
		return nil, err
	}
	if record != nil {
		// Self-healing read repair.
		s.refreshCache(ctx, *record)
	}
	return record, nil
}

// refreshCache updates the cache after the source of truth has already
// been read or written durably. Failures here are downgraded to warnings:
// the record is safe in the store and the next read repairs the entry.
func (s *CachedStore) refreshCache(ctx context.Context, application domain.Application) {
	if err := s.cache.Set(ctx, application, s.ttl); err != nil {
		s.logger.Warn("cache refresh failed after durable write", map[string]interface{}{
			"applicantId": application.ApplicantID,
			"status":      application.Status,
			"error":       err,
		})
	}
}
