// internal/loans/store/memory.go
package store

import (
	"context"
	"sync"

	"loans-service/internal/loans/domain"
)

// MemoryStore is a map-backed Store used for tests and local development.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]domain.Application
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]domain.Application)}
}

func (s *MemoryStore) Create(_ context.Context, application domain.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[application.ApplicantID]; exists {
		return nil
	}
	s.items[application.ApplicantID] = application
	return nil
}

func (s *MemoryStore) Upsert(_ context.Context, application domain.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[application.ApplicantID] = application
	return nil
}

func (s *MemoryStore) GetLatest(_ context.Context, applicantID string) (*domain.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	application, ok := s.items[applicantID]
	if !ok {
		return nil, nil
	}
	return &application, nil
}
