// Package server exposes the document analysis pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/medverify/credscan/internal/analysis"
	"github.com/medverify/credscan/internal/common"
	"github.com/medverify/credscan/internal/extract"
)

// TextExtractor is the extraction pipeline, stub-able in handler tests.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (extract.Result, error)
}

// DocumentAnalyzer infers credential fields from extracted text.
type DocumentAnalyzer interface {
	Analyze(text string) analysis.Result
}

type Server struct {
	app       *fiber.App
	cfg       *common.Config
	extractor TextExtractor
	analyzer  DocumentAnalyzer
	logger    *slog.Logger
}

func New(cfg *common.Config, extractor TextExtractor, analyzer DocumentAnalyzer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:       cfg,
		extractor: extractor,
		analyzer:  analyzer,
		logger:    logger,
	}

	app := fiber.New(fiber.Config{
		AppName:               "credscan",
		DisableStartupMessage: true,
		BodyLimit:             cfg.Upload.MaxBytes,
		ErrorHandler:          s.errorHandler,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(s.requestLogger)
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, X-Request-ID",
		AllowMethods: "GET, POST, OPTIONS",
	}))

	app.Get("/healthz", s.handleHealth)
	app.Post("/upload", s.handleUpload)

	s.app = app
	return s
}

// App exposes the underlying fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen blocks serving HTTP until Shutdown is called.
func (s *Server) Listen() error {
	s.logger.Info("http serving", "addr", s.cfg.Server.Addr)
	return s.app.Listen(s.cfg.Server.Addr)
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// requestLogger emits one structured line per request after the handler runs.
func (s *Server) requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	s.logger.Info("http request",
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
		"request_id", c.Locals("requestid"),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return err
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "healthy", "service": "credscan"})
}

// errorHandler maps the error taxonomy to HTTP statuses: client input errors
// to 400, extraction failure to 500, everything else to fiber defaults.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	switch {
	case errors.Is(err, common.ErrNoFile),
		errors.Is(err, common.ErrEmptyFilename),
		errors.Is(err, common.ErrUnsupportedType):
		return c.Status(fiber.StatusBadRequest).JSON(errorBody{Error: errMessage(err)})
	case errors.Is(err, common.ErrNoTextExtracted):
		return c.Status(fiber.StatusInternalServerError).JSON(errorBody{Error: errMessage(err)})
	case errors.As(err, &fe):
		return c.Status(fe.Code).JSON(errorBody{Error: fe.Message})
	default:
		s.logger.Error("unhandled request error", "path", c.Path(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(errorBody{Error: "internal server error"})
	}
}

type errorBody struct {
	Error string `json:"error"`
}

// errMessage renders the user-facing message for a sentinel error.
func errMessage(err error) string {
	switch {
	case errors.Is(err, common.ErrNoFile):
		return "No file uploaded"
	case errors.Is(err, common.ErrEmptyFilename):
		return "No file selected"
	case errors.Is(err, common.ErrUnsupportedType):
		return "Unsupported file type"
	case errors.Is(err, common.ErrNoTextExtracted):
		return "Failed to extract text from document"
	default:
		return err.Error()
	}
}
