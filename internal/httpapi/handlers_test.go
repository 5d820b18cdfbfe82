// internal/httpapi/handlers_test.go
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"loans-service/internal/common/logger"
	"loans-service/internal/loans/domain"
	"loans-service/internal/loans/messaging"
	"loans-service/internal/loans/pipeline"
	"loans-service/internal/loans/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// ==========================
// Test Helper Functions
// ==========================

func setupServer(t *testing.T) (*Server, *store.MemoryStore, *messaging.MemoryPublisher) {
	recordStore := store.NewMemoryStore()
	publisher := messaging.NewMemoryPublisher()
	log := logger.NewTestLogger(t)

	submitter := pipeline.NewSubmitter(recordStore, publisher, log)
	query := pipeline.NewStatusQuery(recordStore, log)

	return NewServer(submitter, query, log), recordStore, publisher
}

func postJSON(t *testing.T, server *Server, path string, body interface{}) *http.Response {
	payload, err := json.Marshal(body)
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := server.App().Test(req)
	assert.NoError(t, err)
	return resp
}

func getPath(t *testing.T, server *Server, path string) *http.Response {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	resp, err := server.App().Test(req)
	assert.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	defer resp.Body.Close()
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

// ==========================
// Submit Endpoint Tests
// ==========================

func TestHandleSubmit_Accepted(t *testing.T) {
	server, recordStore, publisher := setupServer(t)

	resp := postJSON(t, server, "/application", map[string]interface{}{
		"applicant_id": "applicant-1",
		"amount":       4500,
		"term_months":  24,
	})
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	var body submitResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, "applicant-1", body.ApplicantID)
	assert.Equal(t, "pending", body.Status)

	stored, err := recordStore.GetLatest(context.Background(), "applicant-1")
	assert.NoError(t, err)
	assert.NotNil(t, stored)
	assert.Len(t, publisher.Messages(), 1)
}

func TestHandleSubmit_ValidationFailure(t *testing.T) {
	server, recordStore, publisher := setupServer(t)

	resp := postJSON(t, server, "/application", map[string]interface{}{
		"applicant_id": "applicant-1",
		"amount":       -100,
		"term_months":  24,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	stored, err := recordStore.GetLatest(context.Background(), "applicant-1")
	assert.NoError(t, err)
	assert.Nil(t, stored)
	assert.Empty(t, publisher.Messages())
}

func TestHandleSubmit_MalformedBody(t *testing.T) {
	server, _, _ := setupServer(t)

	req := httptest.NewRequest(http.MethodPost, "/application", bytes.NewReader([]byte("not json")))
	req.Header.Set("Content-Type", "application/json")

	resp, err := server.App().Test(req)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// ==========================
// Status Endpoint Tests
// ==========================

func TestHandleStatus_Found(t *testing.T) {
	server, recordStore, _ := setupServer(t)

	application := domain.NewApplication("applicant-1", decimal.NewFromInt(4500), 24).
		WithStatus(domain.StatusApproved)
	assert.NoError(t, recordStore.Upsert(context.Background(), application))

	resp := getPath(t, server, "/application/applicant-1")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body pipeline.StatusResult
	decodeBody(t, resp, &body)
	assert.Equal(t, "applicant-1", body.ApplicantID)
	assert.Equal(t, "approved", body.Status)
	assert.Equal(t, "4500", body.Amount)
}

func TestHandleStatus_NotFound(t *testing.T) {
	server, _, _ := setupServer(t)

	resp := getPath(t, server, "/application/nobody")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// ==========================
// Infrastructure Tests
// ==========================

func TestHandleHealth(t *testing.T) {
	server, _, _ := setupServer(t)

	resp := getPath(t, server, "/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequestIDHeader(t *testing.T) {
	server, _, _ := setupServer(t)

	resp := getPath(t, server, "/health")
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	// A caller-supplied id is echoed back unchanged.
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-123")
	resp, err := server.App().Test(req)
	assert.NoError(t, err)
	assert.Equal(t, "req-123", resp.Header.Get("X-Request-ID"))
}
