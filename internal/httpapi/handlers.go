// internal/httpapi/handlers.go
package httpapi

import (
	"errors"

	cerrors "loans-service/internal/common/errors"
	"loans-service/internal/loans/pipeline"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type submitRequest struct {
	ApplicantID string          `json:"applicant_id"`
	Amount      decimal.Decimal `json:"amount"`
	TermMonths  int             `json:"term_months"`
}

type submitResponse struct {
	ApplicantID string `json:"applicant_id"`
	Status      string `json:"status"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "healthy", "service": "loans-service"})
}

// handleSubmit accepts a loan application. The decision happens
// asynchronously, so acceptance is acknowledged with 202 and the record
// starts out pending.
func (s *Server) handleSubmit(c *fiber.Ctx) error {
	var req submitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{
			Error:   "invalid request body",
			Details: err.Error(),
		})
	}

	application, err := s.submitter.Submit(c.UserContext(), pipeline.SubmitCommand{
		ApplicantID: req.ApplicantID,
		Amount:      req.Amount,
		TermMonths:  req.TermMonths,
	})
	if err != nil {
		return s.writeError(c, err)
	}

	return c.Status(fiber.StatusAccepted).JSON(submitResponse{
		ApplicantID: application.ApplicantID,
		Status:      string(application.Status),
	})
}

func (s *Server) handleStatus(c *fiber.Ctx) error {
	applicantID := c.Params("applicant_id")

	result, err := s.query.Get(c.UserContext(), applicantID)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(result)
}

func (s *Server) writeError(c *fiber.Ctx, err error) error {
	var stdErr *cerrors.StandardError
	if !errors.As(err, &stdErr) {
		s.logger.Error("unhandled error", map[string]interface{}{
			"requestId": c.Locals("requestId"),
			"path":      c.Path(),
			"error":     err,
		})
		return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{Error: "internal server error"})
	}

	status := fiber.StatusInternalServerError
	switch {
	case cerrors.IsValidation(err):
		status = fiber.StatusBadRequest
	case cerrors.IsNotFound(err):
		status = fiber.StatusNotFound
	case cerrors.IsPublishFailure(err):
		status = fiber.StatusServiceUnavailable
	}

	if status >= fiber.StatusInternalServerError {
		s.logger.Error("request failed", map[string]interface{}{
			"requestId": c.Locals("requestId"),
			"path":      c.Path(),
			"code":      string(stdErr.Code),
			"error":     err,
		})
	}

	return c.Status(status).JSON(errorResponse{
		Error:   stdErr.Message,
		Details: stdErr.Details,
	})
}
