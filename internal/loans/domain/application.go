// internal/loans/domain/application.go
package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Status represents the lifecycle state of a loan application.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

const (
	MinTermMonths = 1
	MaxTermMonths = 60
)

var (
	ErrAmountNotPositive = errors.New("amount must be greater than zero")
	ErrTermOutOfRange    = fmt.Errorf("term must be between %d and %d months", MinTermMonths, MaxTermMonths)
)

// IsTerminal reports whether no further transition is defined for the status.
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Valid reports whether the status is one of the known lifecycle states.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Application is the latest-state projection of a loan application.
// Exactly one record exists per applicant; resubmission overwrites.
type Application struct {
	ApplicantID string          `json:"applicant_id"`
	Amount      decimal.Decimal `json:"amount"`
	TermMonths  int             `json:"term_months"`
	Status      Status          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// NewApplication builds a pending application with fresh timestamps.
// The caller validates amount/term before persisting.
func NewApplication(applicantID string, amount decimal.Decimal, termMonths int) Application {
	now := time.Now().UTC()
	return Application{
		ApplicantID: applicantID,
		Amount:      amount,
		TermMonths:  termMonths,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// WithStatus returns a copy of the application with the status replaced and
// updated_at stamped at mutation time. Identity fields and created_at are
// carried over unchanged.
func (a Application) WithStatus(status Status) Application {
	return Application{
		ApplicantID: a.ApplicantID,
		Amount:      a.Amount,
		TermMonths:  a.TermMonths,
		Status:      status,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   time.Now().UTC(),
	}
}

// ValidateTerms checks the business invariants on amount and term. It is
// enforced at the submit boundary and again by the decision processor,
// which cannot trust the channel payload.
func ValidateTerms(amount decimal.Decimal, termMonths int) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrAmountNotPositive
	}
	if termMonths < MinTermMonths || termMonths > MaxTermMonths {
		return ErrTermOutOfRange
	}
	return nil
}
