// internal/loans/cache/memory_test.go
package cache

import (
	"context"
	"testing"
	"time"

	"loans-service/internal/loans/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMemoryCache_SetGet(t *testing.T) {
	ctx := context.Background()
	memCache := NewMemoryCache()

	application := domain.NewApplication("applicant-1", decimal.NewFromInt(4500), 24)
	assert.NoError(t, memCache.Set(ctx, application, time.Hour))

	got, err := memCache.Get(ctx, "applicant-1")
	assert.NoError(t, err)
	assert.NotNil(t, got)
	assert.Equal(t, domain.StatusPending, got.Status)
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(4500)))
}

func TestMemoryCache_MissReturnsNil(t *testing.T) {
	memCache := NewMemoryCache()

	got, err := memCache.Get(context.Background(), "nobody")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryCache_EntryExpires(t *testing.T) {
	ctx := context.Background()
	memCache := NewMemoryCache()

	current := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	memCache.now = func() time.Time { return current }

	application := domain.NewApplication("applicant-1", decimal.NewFromInt(4500), 24)
	assert.NoError(t, memCache.Set(ctx, application, time.Hour))

	// Still fresh just inside the TTL.
	current = current.Add(59 * time.Minute)
	got, err := memCache.Get(ctx, "applicant-1")
	assert.NoError(t, err)
	assert.NotNil(t, got)

	// Gone once the TTL has elapsed.
	current = current.Add(2 * time.Minute)
	got, err = memCache.Get(ctx, "applicant-1")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryCache_SetOverwrites(t *testing.T) {
	ctx := context.Background()
	memCache := NewMemoryCache()

	application := domain.NewApplication("applicant-1", decimal.NewFromInt(4500), 24)
	assert.NoError(t, memCache.Set(ctx, application, time.Hour))
	assert.NoError(t, memCache.Set(ctx, application.WithStatus(domain.StatusApproved), time.Hour))

	got, err := memCache.Get(ctx, "applicant-1")
	assert.NoError(t, err)
	assert.NotNil(t, got)
	assert.Equal(t, domain.StatusApproved, got.Status)
}
