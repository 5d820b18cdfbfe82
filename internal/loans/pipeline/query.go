// internal/loans/pipeline/query.go
package pipeline

import (
	"context"
	"time"

	cerrors "loans-service/internal/common/errors"
	"loans-service/internal/common/logger"
	"loans-service/internal/loans/store"
)

// StatusResult is the read model returned to status queries.
type StatusResult struct {
	ApplicantID string    `json:"applicant_id"`
	Status      string    `json:"status"`
	Amount      string    `json:"amount"`
	TermMonths  int       `json:"term_months"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// StatusQuery looks up the current status of an applicant's loan
// application. Reads go through the cache-aside store, so a result may
// trail the durable record by up to the cache TTL.
type StatusQuery struct {
	store  store.Store
	logger logger.Logger
}

func NewStatusQuery(recordStore store.Store, log logger.Logger) *StatusQuery {
	return &StatusQuery{
		store:  recordStore,
		logger: log.WithFields(map[string]interface{}{"component": "status-query"}),
	}
}

func (q *StatusQuery) Get(ctx context.Context, applicantID string) (StatusResult, error) {
	if applicantID == "" {
		return StatusResult{}, cerrors.NewValidationError("applicant_id must not be empty")
	}

	application, err := q.store.GetLatest(ctx, applicantID)
	if err != nil {
		return StatusResult{}, err
	}
	if application == nil {
		return StatusResult{}, cerrors.NewApplicationNotFoundError(applicantID)
	}

	return StatusResult{
		ApplicantID: application.ApplicantID,
		Status:      string(application.Status),
		Amount:      application.Amount.String(),
		TermMonths:  application.TermMonths,
		UpdatedAt:   application.UpdatedAt,
	}, nil
}
