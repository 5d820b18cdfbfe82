// internal/loans/pipeline/submit.go

// Package pipeline implements the three operations of the loan
// application lifecycle: synchronous submit, asynchronous decision
// processing, and status query.
package pipeline

import (
	"context"

	cerrors "loans-service/internal/common/errors"
	"loans-service/internal/common/logger"
	"loans-service/internal/common/metrics"
	"loans-service/internal/loans/domain"
	"loans-service/internal/loans/messaging"
	"loans-service/internal/loans/store"

	"github.com/shopspring/decimal"
)

// SubmitCommand carries the fields of a loan application request.
type SubmitCommand struct {
	ApplicantID string
	Amount      decimal.Decimal
	TermMonths  int
}

// Submitter accepts loan applications: validate, record as pending,
// then hand off to the decision processor over the message channel.
type Submitter struct {
	store     store.Store
	publisher messaging.Publisher
	logger    logger.Logger
}

func NewSubmitter(recordStore store.Store, publisher messaging.Publisher, log logger.Logger) *Submitter {
	return &Submitter{
		store:     recordStore,
		publisher: publisher,
		logger:    log.WithFields(map[string]interface{}{"component": "submitter"}),
	}
}

// Submit validates the command, durably records a pending application,
// and publishes a decision request. Validation failures leave no trace
// in the store. A publish failure after a successful create is reported
// to the caller; the record stays pending.
func (s *Submitter) Submit(ctx context.Context, cmd SubmitCommand) (domain.Application, error) {
	if cmd.ApplicantID == "" {
		return domain.Application{}, cerrors.NewValidationError("applicant_id must not be empty")
	}
	if err := domain.ValidateTerms(cmd.Amount, cmd.TermMonths); err != nil {
		return domain.Application{}, cerrors.NewValidationError(err.Error())
	}

	application := domain.NewApplication(cmd.ApplicantID, cmd.Amount, cmd.TermMonths)

	if err := s.store.Create(ctx, application); err != nil {
		return domain.Application{}, err
	}

	request := messaging.DecisionRequest{
		ApplicantID: application.ApplicantID,
		Amount:      application.Amount.String(),
		TermMonths:  application.TermMonths,
	}
	if err := s.publisher.Publish(ctx, request); err != nil {
		metrics.PublishFailures.Inc()
		s.logger.Error("decision request publish failed, record remains pending", map[string]interface{}{
			"applicantId": application.ApplicantID,
			"error":       err,
		})
		if cerrors.IsPublishFailure(err) {
			return domain.Application{}, err
		}
		return domain.Application{}, cerrors.NewPublishFailedError(application.ApplicantID, err)
	}

	metrics.ApplicationsSubmitted.Inc()
	s.logger.Info("application accepted", map[string]interface{}{
		"applicantId": application.ApplicantID,
		"amount":      application.Amount.String(),
		"termMonths":  application.TermMonths,
	})

	return application, nil
}
