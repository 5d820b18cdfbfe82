// internal/loans/pipeline/process.go
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	cerrors "loans-service/internal/common/errors"
	"loans-service/internal/common/logger"
	"loans-service/internal/common/metrics"
	"loans-service/internal/loans/domain"
	"loans-service/internal/loans/messaging"
	"loans-service/internal/loans/store"

	"github.com/shopspring/decimal"
	"github.com/xeipuuv/gojsonschema"
)

// decisionRequestSchema validates channel payloads before decoding.
// Amounts travel as decimal strings to avoid float drift on the wire.
const decisionRequestSchema = `{
	"type": "object",
	"required": ["applicant_id", "amount", "term_months"],
	"properties": {
		"applicant_id": {"type": "string", "minLength": 1},
		"amount": {"type": "string", "minLength": 1},
		"term_months": {"type": "integer"}
	}
}`

// Processor applies the decision rule to incoming requests and records
// the terminal status. Processing is deterministic and idempotent, so a
// redelivered message converges on the same stored state.
type Processor struct {
	store     store.Store
	threshold decimal.Decimal
	schema    *gojsonschema.Schema
	logger    logger.Logger
}

func NewProcessor(recordStore store.Store, approvalThreshold decimal.Decimal, log logger.Logger) (*Processor, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(decisionRequestSchema))
	if err != nil {
		return nil, fmt.Errorf("failed to compile decision request schema: %w", err)
	}

	return &Processor{
		store:     recordStore,
		threshold: approvalThreshold,
		schema:    schema,
		logger:    log.WithFields(map[string]interface{}{"component": "processor"}),
	}, nil
}

// Decide applies the decision rule to an amount. The rule depends only
// on the amount, never on prior state or the clock.
func (p *Processor) Decide(amount decimal.Decimal) domain.Status {
	if amount.LessThanOrEqual(p.threshold) {
		return domain.StatusApproved
	}
	return domain.StatusRejected
}

// HandleMessage is the channel-facing entry point. It wraps Execute
// with validation, timing, and failure accounting.
func (p *Processor) HandleMessage(ctx context.Context, payload []byte) error {
	start := time.Now()
	request, err := p.decode(payload)
	if err != nil {
		metrics.ProcessingFailures.Inc()
		p.logger.Error("discarding malformed decision request", map[string]interface{}{
			"payload": string(payload),
			"error":   err,
		})
		return err
	}

	application, err := p.Execute(ctx, request)
	if err != nil {
		metrics.ProcessingFailures.Inc()
		p.logger.Error("decision processing failed", map[string]interface{}{
			"applicantId": request.ApplicantID,
			"error":       err,
		})
		return err
	}

	metrics.ApplicationsProcessed.WithLabelValues(string(application.Status)).Inc()
	metrics.ProcessingDuration.Observe(time.Since(start).Seconds())
	p.logger.Info("application decided", map[string]interface{}{
		"applicantId": application.ApplicantID,
		"status":      string(application.Status),
	})
	return nil
}

// Execute decides a single request and records the terminal status.
// When a record already exists for the applicant, its stored fields are
// kept and only status and updated_at change; when none exists, the
// request fields seed a new terminal record.
func (p *Processor) Execute(ctx context.Context, request messaging.DecisionRequest) (domain.Application, error) {
	amount, err := decimal.NewFromString(request.Amount)
	if err != nil {
		return domain.Application{}, cerrors.NewMessageMalformedError(fmt.Sprintf("amount %q is not a decimal", request.Amount))
	}
	if err := domain.ValidateTerms(amount, request.TermMonths); err != nil {
		return domain.Application{}, cerrors.NewValidationError(err.Error())
	}

	status := p.Decide(amount)

	existing, err := p.store.GetLatest(ctx, request.ApplicantID)
	if err != nil {
		return domain.Application{}, err
	}

	var application domain.Application
	if existing != nil {
		if !existing.Amount.Equal(amount) {
			p.logger.Warn("message amount differs from stored amount, keeping stored fields", map[string]interface{}{
				"applicantId":   request.ApplicantID,
				"storedAmount":  existing.Amount.String(),
				"messageAmount": amount.String(),
			})
		}
		application = existing.WithStatus(status)
	} else {
		application = domain.NewApplication(request.ApplicantID, amount, request.TermMonths).WithStatus(status)
	}

	if err := p.store.Upsert(ctx, application); err != nil {
		return domain.Application{}, err
	}

	return application, nil
}

func (p *Processor) decode(payload []byte) (messaging.DecisionRequest, error) {
	result, err := p.schema.Validate(gojsonschema.NewBytesLoader(payload))
	if err != nil {
		return messaging.DecisionRequest{}, cerrors.NewMessageMalformedError(err.Error())
	}
	if !result.Valid() {
		details := ""
		for _, desc := range result.Errors() {
			if details != "" {
				details += "; "
			}
			details += desc.String()
		}
		return messaging.DecisionRequest{}, cerrors.NewMessageMalformedError(details)
	}

	var request messaging.DecisionRequest
	if err := json.Unmarshal(payload, &request); err != nil {
		return messaging.DecisionRequest{}, cerrors.NewMessageMalformedError(err.Error())
	}
	return request, nil
}
