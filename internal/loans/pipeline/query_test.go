// internal/loans/pipeline/query_test.go
package pipeline

import (
	"context"
	"testing"

	cerrors "loans-service/internal/common/errors"
	"loans-service/internal/common/logger"
	"loans-service/internal/loans/domain"
	"loans-service/internal/loans/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestStatusQuery_Get(t *testing.T) {
	ctx := context.Background()
	recordStore := store.NewMemoryStore()
	query := NewStatusQuery(recordStore, logger.NewTestLogger(t))

	application := domain.NewApplication("applicant-1", decimal.NewFromInt(4500), 24).
		WithStatus(domain.StatusApproved)
	assert.NoError(t, recordStore.Upsert(ctx, application))

	result, err := query.Get(ctx, "applicant-1")
	assert.NoError(t, err)
	assert.Equal(t, "applicant-1", result.ApplicantID)
	assert.Equal(t, "approved", result.Status)
	assert.Equal(t, "4500", result.Amount)
	assert.Equal(t, 24, result.TermMonths)
	assert.Equal(t, application.UpdatedAt, result.UpdatedAt)
}

func TestStatusQuery_GetPendingIsVisible(t *testing.T) {
	ctx := context.Background()
	recordStore := store.NewMemoryStore()
	query := NewStatusQuery(recordStore, logger.NewTestLogger(t))

	// Submitted but not decided yet: a real state, not an error.
	assert.NoError(t, recordStore.Create(ctx, domain.NewApplication("applicant-1", decimal.NewFromInt(4500), 24)))

	result, err := query.Get(ctx, "applicant-1")
	assert.NoError(t, err)
	assert.Equal(t, "pending", result.Status)
}

func TestStatusQuery_GetNotFound(t *testing.T) {
	query := NewStatusQuery(store.NewMemoryStore(), logger.NewTestLogger(t))

	_, err := query.Get(context.Background(), "nobody")
	assert.Error(t, err)
	assert.True(t, cerrors.IsNotFound(err))
}

func TestStatusQuery_GetEmptyApplicantID(t *testing.T) {
	query := NewStatusQuery(store.NewMemoryStore(), logger.NewTestLogger(t))

	_, err := query.Get(context.Background(), "")
	assert.Error(t, err)
	assert.True(t, cerrors.IsValidation(err))
}
