// internal/httpapi/server.go

// Package httpapi exposes the loan application pipeline over HTTP.
package httpapi

import (
	"time"

	"loans-service/internal/common/logger"
	"loans-service/internal/loans/pipeline"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Server hosts the REST surface of the loans service.
type Server struct {
	app       *fiber.App
	submitter *pipeline.Submitter
	query     *pipeline.StatusQuery
	logger    logger.Logger
}

func NewServer(submitter *pipeline.Submitter, query *pipeline.StatusQuery, log logger.Logger) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "loans-service",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

	server := &Server{
		app:       app,
		submitter: submitter,
		query:     query,
		logger:    log.WithFields(map[string]interface{}{"component": "http"}),
	}
	server.registerRoutes()
	return server
}

func (s *Server) registerRoutes() {
	s.app.Use(s.requestID)

	s.app.Get("/health", s.handleHealth)
	s.app.Post("/application", s.handleSubmit)
	s.app.Get("/application/:applicant_id", s.handleStatus)
}

// requestID tags every request with an id for log correlation.
func (s *Server) requestID(c *fiber.Ctx) error {
	id := c.Get("X-Request-ID")
	if id == "" {
		id = uuid.NewString()
	}
	c.Locals("requestId", id)
	c.Set("X-Request-ID", id)
	return c.Next()
}

// Listen blocks serving HTTP on the given address.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the server, draining in-flight requests.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App exposes the fiber application for tests.
func (s *Server) App() *fiber.App {
	return s.app
}
