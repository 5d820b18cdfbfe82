// internal/loans/domain/application_test.go
package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// ==========================
// Validation Tests
// ==========================

func TestValidateTerms_AcceptsBoundaryValues(t *testing.T) {
	cases := []struct {
		name       string
		amount     string
		termMonths int
	}{
		{"smallest positive amount", "0.01", 12},
		{"minimum term", "1000", 1},
		{"maximum term", "1000", 60},
		{"large amount", "999999.99", 36},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			amount, err := decimal.NewFromString(tc.amount)
			assert.NoError(t, err)
			assert.NoError(t, ValidateTerms(amount, tc.termMonths))
		})
	}
}

func TestValidateTerms_RejectsInvalidInput(t *testing.T) {
	cases := []struct {
		name       string
		amount     string
		termMonths int
		wantErr    error
	}{
		{"zero amount", "0", 12, ErrAmountNotPositive},
		{"negative amount", "-100", 12, ErrAmountNotPositive},
		{"zero term", "1000", 0, ErrTermOutOfRange},
		{"negative term", "1000", -5, ErrTermOutOfRange},
		{"term above maximum", "1000", 61, ErrTermOutOfRange},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			amount, err := decimal.NewFromString(tc.amount)
			assert.NoError(t, err)
			assert.ErrorIs(t, ValidateTerms(amount, tc.termMonths), tc.wantErr)
		})
	}
}

// ==========================
// Lifecycle Tests
// ==========================

func TestNewApplication_StartsPending(t *testing.T) {
	before := time.Now().UTC()
	application := NewApplication("applicant-1", decimal.NewFromInt(4500), 24)
	after := time.Now().UTC()

	assert.Equal(t, "applicant-1", application.ApplicantID)
	assert.Equal(t, StatusPending, application.Status)
	assert.Equal(t, 24, application.TermMonths)
	assert.True(t, application.Amount.Equal(decimal.NewFromInt(4500)))
	assert.False(t, application.CreatedAt.Before(before))
	assert.False(t, application.CreatedAt.After(after))
	assert.Equal(t, application.CreatedAt, application.UpdatedAt)
}

func TestWithStatus_KeepsIdentityAndCreatedAt(t *testing.T) {
	application := NewApplication("applicant-1", decimal.NewFromInt(4500), 24)

	decided := application.WithStatus(StatusApproved)

	assert.Equal(t, StatusApproved, decided.Status)
	assert.Equal(t, application.ApplicantID, decided.ApplicantID)
	assert.True(t, application.Amount.Equal(decided.Amount))
	assert.Equal(t, application.TermMonths, decided.TermMonths)
	assert.Equal(t, application.CreatedAt, decided.CreatedAt)
	assert.False(t, decided.UpdatedAt.Before(application.UpdatedAt))

	// The original value is untouched.
	assert.Equal(t, StatusPending, application.Status)
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.False(t, StatusPending.IsTerminal())
	assert.True(t, StatusApproved.IsTerminal())
	assert.True(t, StatusRejected.IsTerminal())
}

func TestStatus_Valid(t *testing.T) {
	assert.True(t, StatusPending.Valid())
	assert.True(t, StatusApproved.Valid())
	assert.True(t, StatusRejected.Valid())
	assert.False(t, Status("cancelled").Valid())
	assert.False(t, Status("").Valid())
}
