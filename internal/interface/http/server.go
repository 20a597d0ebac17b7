// Package http implements the dashboard REST API on Fiber: record CRUD, the
// dashboard view, spreadsheet connection state and report downloads.
package http

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/learnhub/learnhub-dashboard/config"
	"github.com/learnhub/learnhub-dashboard/internal/application/command"
	"github.com/learnhub/learnhub-dashboard/internal/application/query"
	"github.com/learnhub/learnhub-dashboard/internal/domain/assignment"
	"github.com/learnhub/learnhub-dashboard/internal/domain/course"
	"github.com/learnhub/learnhub-dashboard/internal/domain/performance"
	"github.com/learnhub/learnhub-dashboard/internal/domain/shared"
	"github.com/learnhub/learnhub-dashboard/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// SERVER CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// Config contains HTTP server configuration.
type Config struct {
	// Addr to listen on, e.g. ":8080".
	Addr string

	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// CORSOrigins is a comma-separated origin list, "*" for any.
	CORSOrigins string

	Name    string
	Version string
}

// DefaultConfig returns default server configuration.
func DefaultConfig() Config {
	return Config{
		Addr:         ":8080",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		CORSOrigins:  "*",
		Name:         "learnhub-dashboard",
		Version:      "v1",
	}
}

// FromAppConfig maps the loaded application config.
func FromAppConfig(cfg *config.Config) Config {
	return Config{
		Addr:         cfg.HTTP.Addr,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		CORSOrigins:  cfg.HTTP.CORSOrigins,
		Name:         cfg.App.Name,
		Version:      cfg.App.Version,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// DEPENDENCIES
// ══════════════════════════════════════════════════════════════════════════════

// Dependencies contains everything the handlers call into.
type Dependencies struct {
	Courses     course.Repository
	Assignments assignment.Repository
	Performance performance.Repository

	Dashboard  *query.GetDashboardHandler
	Exports    *command.ExportCoordinator
	Connection *command.ConnectionTracker

	// Features may be nil, in which case everything is enabled.
	Features *config.Features
	Health   *HealthChecker
	Logger   *logger.Logger
}

// ══════════════════════════════════════════════════════════════════════════════
// SERVER
// ══════════════════════════════════════════════════════════════════════════════

// Server is the Fiber application plus its lifecycle state.
type Server struct {
	config Config
	deps   Dependencies
	app    *fiber.App
	logger *logger.Logger

	mu      sync.RWMutex
	running bool
}

// NewServer creates a server with every route registered.
func NewServer(cfg Config, deps Dependencies) *Server {
	if deps.Logger == nil {
		deps.Logger = logger.Nop()
	}
	if deps.Health == nil {
		deps.Health = NewHealthChecker(cfg.Version)
	}

	s := &Server{
		config: cfg,
		deps:   deps,
		logger: deps.Logger.With(logger.Component("http")),
	}

	s.app = fiber.New(fiber.Config{
		AppName:               cfg.Name,
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})

	s.app.Use(fiberrecover.New(fiberrecover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e any) {
			s.logger.Error("panic recovered",
				logger.Any("panic", e),
				logger.String("path", c.Path()),
				logger.String("request_id", requestID(c)),
			)
		},
	}))
	s.app.Use(requestid.New())
	s.app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.CORSOrigins,
		AllowMethods:  "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:  "Origin, Content-Type, Accept, X-Request-ID",
		ExposeHeaders: "Content-Disposition, X-Request-ID, X-Export-ID",
	}))
	s.app.Use(s.logRequests)

	s.setupRoutes()
	return s
}

// App exposes the Fiber app, mainly for app.Test in tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// ══════════════════════════════════════════════════════════════════════════════
// ROUTING
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) setupRoutes() {
	s.app.Get("/health", s.handleHealth)

	api := s.app.Group("/api")

	mountRecords[course.Course](api.Group("/courses"), "course", s.deps.Courses, nil)
	mountRecords[assignment.Assignment](api.Group("/assignments"), "assignment", s.deps.Assignments, s.listAssignments)
	mountRecords[performance.Sample](api.Group("/performance"), "performance", s.deps.Performance, s.listPerformance)

	api.Get("/dashboard", s.handleDashboard)

	api.Get("/connection", s.handleConnectionState)
	api.Post("/connect", s.handleConnect)
	api.Post("/sync", s.handleSync)

	api.Get("/exports/status", s.handleExportStatus)
	api.Post("/exports/:kind/:format", s.handleExport)
}

// logRequests logs every request after the error handler has set the status.
func (s *Server) logRequests(c *fiber.Ctx) error {
	start := time.Now()
	reqLog := s.logger.WithRequestID(requestID(c))
	c.SetUserContext(logger.WithContext(c.UserContext(), reqLog))

	if err := c.Next(); err != nil {
		if herr := c.App().ErrorHandler(c, err); herr != nil {
			_ = c.SendStatus(fiber.StatusInternalServerError)
		}
	}

	reqLog.Info("http request",
		logger.String("method", c.Method()),
		logger.String("path", c.Path()),
		logger.Int("status", c.Response().StatusCode()),
		logger.Latency(time.Since(start)),
		logger.String("ip", c.IP()),
	)
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// SERVER LIFECYCLE
// ══════════════════════════════════════════════════════════════════════════════

// Start listens until Shutdown is called.
func (s *Server) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("server already running")
	}
	s.running = true
	s.mu.Unlock()

	s.logger.Info("starting HTTP server", logger.String("address", s.config.Addr))
	if err := s.app.Listen(s.config.Addr); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// StartAsync starts the server in a goroutine.
func (s *Server) StartAsync() <-chan error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.Start(); err != nil {
			errCh <- err
		}
		close(errCh)
	}()
	return errCh
}

// Shutdown waits for in-flight requests (including downloads) up to ctx.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.mu.Unlock()

	s.logger.Info("shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// ══════════════════════════════════════════════════════════════════════════════
// RESPONSE HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// JSONResponse is the envelope around every JSON body.
type JSONResponse struct {
	Success   bool          `json:"success"`
	Data      any           `json:"data,omitempty"`
	Error     *APIError     `json:"error,omitempty"`
	Meta      *ResponseMeta `json:"meta,omitempty"`
	RequestID string        `json:"request_id,omitempty"`
}

// APIError represents an API error.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ResponseMeta contains response metadata.
type ResponseMeta struct {
	Timestamp  time.Time `json:"timestamp"`
	TotalCount int       `json:"total_count,omitempty"`
}

func writeJSON(c *fiber.Ctx, status int, data any) error {
	return writeJSONWithMeta(c, status, data, nil)
}

func writeJSONWithMeta(c *fiber.Ctx, status int, data any, meta *ResponseMeta) error {
	if meta == nil {
		meta = &ResponseMeta{}
	}
	meta.Timestamp = time.Now().UTC()

	return c.Status(status).JSON(JSONResponse{
		Success:   status >= 200 && status < 300,
		Data:      data,
		Meta:      meta,
		RequestID: requestID(c),
	})
}

func writeJSONError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(JSONResponse{
		Success:   false,
		Error:     &APIError{Code: code, Message: message},
		Meta:      &ResponseMeta{Timestamp: time.Now().UTC()},
		RequestID: requestID(c),
	})
}

// handleError maps domain error kinds onto HTTP statuses.
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	status, code := classify(err)

	message := "An unexpected error occurred"
	var de *shared.DomainError
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		message = fe.Message
	case errors.As(err, &de):
		message = de.Message
	case status != fiber.StatusInternalServerError:
		message = err.Error()
	}

	if status >= fiber.StatusInternalServerError {
		logger.FromContext(c.UserContext()).Error("request failed",
			logger.Err(err),
			logger.String("path", c.Path()),
		)
	}
	return writeJSONError(c, status, code, message)
}

func classify(err error) (int, string) {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code, "http_" + strconv.Itoa(fe.Code)
	case shared.IsNotFound(err):
		return fiber.StatusNotFound, "not_found"
	case shared.IsValidation(err):
		return fiber.StatusBadRequest, "validation_error"
	case shared.IsExportInProgress(err):
		return fiber.StatusConflict, "export_in_progress"
	case shared.IsConnectionFailure(err):
		return fiber.StatusServiceUnavailable, "service_unavailable"
	default:
		return fiber.StatusInternalServerError, "internal_error"
	}
}

func invalidInput(op, message string, err error) error {
	return shared.WrapError("http", op, shared.ErrInvalidInput, message, err)
}

func featureDisabled(name string) error {
	return shared.NewDomainError("http", "Feature", shared.ErrServiceUnavailable, name+" is disabled")
}

// ══════════════════════════════════════════════════════════════════════════════
// REQUEST HELPERS
// ══════════════════════════════════════════════════════════════════════════════

func requestID(c *fiber.Ctx) string {
	return c.GetRespHeader(fiber.HeaderXRequestID)
}

// pathID parses the :id parameter as a positive integer.
func pathID(c *fiber.Ctx) (int, error) {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return 0, shared.WrapError("http", "ParseID", shared.ErrInvalidID, "id must be a positive integer", err)
	}
	return id, nil
}

// queryInt parses an optional integer query parameter. Empty yields 0.
func queryInt(c *fiber.Ctx, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, invalidInput("Query", key+" must be an integer", err)
	}
	return n, nil
}
