// internal/loans/cache/memory.go
package cache

import (
	"context"
	"sync"
	"time"

	"loans-service/internal/loans/domain"
)

type memoryEntry struct {
	application domain.Application
	expiresAt   time.Time
}

// MemoryCache is a map-backed StatusCache with lazy expiry. Used for
// tests and local development.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (c *MemoryCache) Set(_ context.Context, application domain.Application, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[application.ApplicantID] = memoryEntry{
		application: application,
		expiresAt:   c.now().Add(ttl),
	}
	return nil
}

func (c *MemoryCache) Get(_ context.Context, applicantID string) (*domain.Application, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[applicantID]
	if !ok {
		return nil, nil
	}
	if entry.expiresAt.Before(c.now()) {
		// Lazy eviction on read; no background sweep.
		delete(c.entries, applicantID)
		return nil, nil
	}

	application := entry.application
	return &application, nil
}
