// internal/loans/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"time"

	cerrors "loans-service/internal/common/errors"
	"loans-service/internal/common/logger"
	"loans-service/internal/loans/domain"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const redisKeyPrefix = "loans:application:"

// RedisCache stores application snapshots as JSON values with a Redis
// server-side TTL.
type RedisCache struct {
	client *redis.Client
	logger logger.Logger
}

func NewRedisCache(client *redis.Client, log logger.Logger) *RedisCache {
	return &RedisCache{
		client: client,
		logger: log.WithFields(map[string]interface{}{"component": "redis-cache"}),
	}
}

// snapshot is the wire form of a cached application. Amount travels as a
// decimal string to avoid float rounding.
type snapshot struct {
	ApplicantID string    `json:"applicant_id"`
	Amount      string    `json:"amount"`
	TermMonths  int       `json:"term_months"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (c *RedisCache) Set(ctx context.Context, application domain.Application, ttl time.Duration) error {
	payload, err := json.Marshal(snapshot{
		ApplicantID: application.ApplicantID,
		Amount:      application.Amount.String(),
		TermMonths:  application.TermMonths,
		Status:      string(application.Status),
		CreatedAt:   application.CreatedAt,
		UpdatedAt:   application.UpdatedAt,
	})
	if err != nil {
		return cerrors.NewCacheUnavailableError(err)
	}

	if err := c.client.Set(ctx, redisKeyPrefix+application.ApplicantID, payload, ttl).Err(); err != nil {
		return cerrors.NewCacheUnavailableError(err)
	}
	return nil
}

func (c *RedisCache) Get(ctx context.Context, applicantID string) (*domain.Application, error) {
	payload, err := c.client.Get(ctx, redisKeyPrefix+applicantID).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, cerrors.NewCacheUnavailableError(err)
	}

	application, err := decodeSnapshot([]byte(payload))
	if err != nil {
		// A corrupt entry is treated as a miss; the next read repairs it
		// from the store.
		c.logger.Warn("failed to decode cached application", map[string]interface{}{
			"applicantId": applicantID,
			"error":       err,
		})
		return nil, nil
	}
	return application, nil
}

func decodeSnapshot(payload []byte) (*domain.Application, error) {
	var snap snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, err
	}

	amount, err := decimal.NewFromString(snap.Amount)
	if err != nil {
		return nil, err
	}

	return &domain.Application{
		ApplicantID: snap.ApplicantID,
		Amount:      amount,
		TermMonths:  snap.TermMonths,
		Status:      domain.Status(snap.Status),
		CreatedAt:   snap.CreatedAt,
		UpdatedAt:   snap.UpdatedAt,
	}, nil
}
