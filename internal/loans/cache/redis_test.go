// internal/loans/cache/redis_test.go
package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	cerrors "loans-service/internal/common/errors"
	"loans-service/internal/common/logger"
	"loans-service/internal/loans/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// ==========================
// Test Helper Functions
// ==========================

func setupRedisCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	return NewRedisCache(client, logger.NewTestLogger(t)), server
}

// ==========================
// Round Trip Tests
// ==========================

func TestRedisCache_SetGet(t *testing.T) {
	ctx := context.Background()
	redisCache, _ := setupRedisCache(t)

	application := domain.Application{
		ApplicantID: "applicant-1",
		Amount:      decimal.NewFromFloat(4500.50),
		TermMonths:  24,
		Status:      domain.StatusApproved,
		CreatedAt:   time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC),
		UpdatedAt:   time.Date(2026, 3, 15, 10, 5, 0, 0, time.UTC),
	}
	assert.NoError(t, redisCache.Set(ctx, application, time.Hour))

	got, err := redisCache.Get(ctx, "applicant-1")
	assert.NoError(t, err)
	assert.NotNil(t, got)
	assert.Equal(t, "applicant-1", got.ApplicantID)
	assert.True(t, got.Amount.Equal(decimal.NewFromFloat(4500.50)))
	assert.Equal(t, 24, got.TermMonths)
	assert.Equal(t, domain.StatusApproved, got.Status)
	assert.True(t, got.CreatedAt.Equal(application.CreatedAt))
	assert.True(t, got.UpdatedAt.Equal(application.UpdatedAt))
}

func TestRedisCache_MissReturnsNil(t *testing.T) {
	redisCache, _ := setupRedisCache(t)

	got, err := redisCache.Get(context.Background(), "nobody")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisCache_EntryExpires(t *testing.T) {
	ctx := context.Background()
	redisCache, server := setupRedisCache(t)

	application := domain.NewApplication("applicant-1", decimal.NewFromInt(4500), 24)
	assert.NoError(t, redisCache.Set(ctx, application, time.Hour))

	server.FastForward(2 * time.Hour)

	got, err := redisCache.Get(ctx, "applicant-1")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

// ==========================
// Failure Tests
// ==========================

func TestRedisCache_GetConnectionError(t *testing.T) {
	client, mock := redismock.NewClientMock()
	mock.ExpectGet(redisKeyPrefix + "applicant-1").SetErr(errors.New("connection refused"))

	redisCache := NewRedisCache(client, logger.NewTestLogger(t))

	got, err := redisCache.Get(context.Background(), "applicant-1")
	assert.Error(t, err)
	assert.Nil(t, got)
	assert.Equal(t, cerrors.ErrCodeCacheUnavailable, cerrors.CodeOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCache_SetConnectionError(t *testing.T) {
	client, mock := redismock.NewClientMock()
	mock.Regexp().ExpectSet(redisKeyPrefix+"applicant-1", `.*`, time.Hour).
		SetErr(errors.New("connection refused"))

	redisCache := NewRedisCache(client, logger.NewTestLogger(t))

	application := domain.NewApplication("applicant-1", decimal.NewFromInt(4500), 24)
	err := redisCache.Set(context.Background(), application, time.Hour)
	assert.Error(t, err)
	assert.Equal(t, cerrors.ErrCodeCacheUnavailable, cerrors.CodeOf(err))
}

func TestRedisCache_CorruptPayloadTreatedAsMiss(t *testing.T) {
	ctx := context.Background()
	redisCache, server := setupRedisCache(t)

	server.Set(redisKeyPrefix+"applicant-1", "not json")

	got, err := redisCache.Get(ctx, "applicant-1")
	assert.NoError(t, err)
	assert.Nil(t, got)
}
