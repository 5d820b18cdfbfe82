// internal/loans/messaging/messaging.go

// Package messaging defines the asynchronous decision-request channel
// between the submit pipeline and the decision processor.
package messaging

import "context"

// DecisionRequest is the payload published for asynchronous decisioning.
// All fields are simple text-safe scalars; the message is keyed only by
// content. Amount travels as a decimal string.
type DecisionRequest struct {
	ApplicantID string `json:"applicant_id"`
	Amount      string `json:"amount"`
	TermMonths  int    `json:"term_months"`
}

// Publisher sends decision requests to the message channel. The topic is
// fixed at construction.
type Publisher interface {
	Publish(ctx context.Context, message DecisionRequest) error
}

// Handler consumes one raw channel payload. Errors are reported for
// operational visibility only; redelivery, if any, belongs to the channel.
type Handler func(ctx context.Context, payload []byte) error
