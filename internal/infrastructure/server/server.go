package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/flightdeck/rpas-checklist/docs"
	httpHandlers "github.com/flightdeck/rpas-checklist/internal/adapters/http"
	"github.com/flightdeck/rpas-checklist/internal/adapters/repository"
	"github.com/flightdeck/rpas-checklist/internal/application/services"
	"github.com/flightdeck/rpas-checklist/internal/domain/entities"
	"github.com/flightdeck/rpas-checklist/internal/infrastructure/config"
	"github.com/flightdeck/rpas-checklist/internal/infrastructure/database"
	"github.com/flightdeck/rpas-checklist/internal/infrastructure/logger"
	"github.com/flightdeck/rpas-checklist/internal/ports"
	"github.com/flightdeck/rpas-checklist/web"
)

// Server represents the HTTP server
type Server struct {
	echo      *echo.Echo
	config    *config.Config
	logger    *logger.Logger
	db        *database.DB
	store     ports.StateRepository
	registry  *prometheus.Registry
	checklist *services.ChecklistService
}

// CustomValidator wraps the validator
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates structs
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// New creates a server backed by the database slot repository
func New(cfg *config.Config, db *database.DB, appLogger *logger.Logger) (*Server, error) {
	return build(cfg, db, repository.NewStateRepository(db.DB), appLogger)
}

// NewWithRepository creates a server over any state repository. Health
// checks ping the repository when it supports it.
func NewWithRepository(cfg *config.Config, repo ports.StateRepository, appLogger *logger.Logger) (*Server, error) {
	return build(cfg, nil, repo, appLogger)
}

func build(cfg *config.Config, db *database.DB, repo ports.StateRepository, appLogger *logger.Logger) (*Server, error) {
	e := echo.New()

	e.Validator = &CustomValidator{validator: validator.New()}
	e.Debug = cfg.App.IsDevelopment()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout
	e.Server.IdleTimeout = cfg.Server.IdleTimeout
	e.HTTPErrorHandler = customErrorHandler(appLogger)

	renderer, err := httpHandlers.NewTemplateRenderer(web.Templates())
	if err != nil {
		return nil, err
	}
	e.Renderer = renderer

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Initialize services
	catalog := entities.DefaultCatalog()
	metrics := services.NewMetrics(registry)
	notifier := services.NewNotificationService(cfg.Notifications.SavedDuration, cfg.Notifications.InstalledDuration)
	checklistService := services.NewChecklistService(repo, cfg.Storage.Slot, catalog, notifier, metrics, appLogger)
	installService := services.NewInstallService(notifier, metrics, appLogger)
	reportService := services.NewReportService(catalog)

	// Startup: read the slot once
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.RequestTimeout)
	state := checklistService.Hydrate(ctx)
	cancel()
	appLogger.Infow("Checklist hydrated",
		"slot", cfg.Storage.Slot,
		"pilot_name", state.PilotName,
		"completed", catalog.CompletedCount(state.Completed),
	)

	// Initialize handlers
	checklistHandler := httpHandlers.NewChecklistHandler(checklistService, installService, notifier, catalog, reportService, appLogger)
	installHandler := httpHandlers.NewInstallHandler(installService, appLogger)
	pageHandler := httpHandlers.NewPageHandler(checklistService, installService, notifier,
		cfg.Notifications.SavedDuration, cfg.Notifications.InstalledDuration, appLogger)

	server := &Server{
		echo:      e,
		config:    cfg,
		logger:    appLogger.WithComponent("server"),
		db:        db,
		store:     repo,
		registry:  registry,
		checklist: checklistService,
	}

	server.setupMiddleware()
	if cfg.Metrics.Enabled {
		server.setupMetrics()
	}
	server.setupRoutes(checklistHandler, installHandler, pageHandler)

	return server, nil
}

// setupRoutes configures all routes
func (s *Server) setupRoutes(checklistHandler *httpHandlers.ChecklistHandler, installHandler *httpHandlers.InstallHandler, pageHandler *httpHandlers.PageHandler) {
	// Health check routes
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/health/detailed", s.detailedHealthCheck)
	s.echo.GET("/ready", s.readinessCheck)

	// Swagger documentation
	s.echo.GET("/swagger/*", echoSwagger.WrapHandler)

	// Installable-app assets
	public := web.Public()
	s.echo.FileFS("/manifest.json", "manifest.json", public)
	s.echo.FileFS("/sw.js", "sw.js", public)
	s.echo.FileFS("/icon-192x192.png", "icon-192x192.png", public)
	s.echo.FileFS("/icon-512x512.png", "icon-512x512.png", public)
	s.echo.StaticFS("/static", public)

	// Page and form posts
	s.echo.GET("/", pageHandler.Index)
	s.echo.POST("/checklist/toggle", pageHandler.Toggle)
	s.echo.POST("/checklist/session", pageHandler.Session)
	s.echo.POST("/checklist/reset", pageHandler.Reset)
	s.echo.POST("/notifications/:kind/dismiss", pageHandler.Dismiss)

	// API v1 routes
	v1 := s.echo.Group("/api/v1")
	v1.GET("/catalog", checklistHandler.GetCatalog)

	checklistGroup := v1.Group("/checklist")
	checklistGroup.GET("", checklistHandler.GetChecklist)
	checklistGroup.DELETE("", checklistHandler.ResetChecklist)
	checklistGroup.PUT("/session", checklistHandler.UpdateSession)
	checklistGroup.POST("/items/:category/:index/toggle", checklistHandler.ToggleItem)
	checklistGroup.GET("/report", checklistHandler.GetReport)

	installGroup := v1.Group("/install")
	installGroup.POST("/available", installHandler.InstallAvailable)
	installGroup.POST("/outcome", installHandler.InstallOutcome)
	installGroup.DELETE("/prompt", installHandler.DismissPrompt)

	v1.DELETE("/notifications/:kind", checklistHandler.DismissNotification)
}

// Health check handlers
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) detailedHealthCheck(c echo.Context) error {
	status := "ok"
	checks := make(map[string]interface{})

	if s.db == nil {
		store := s.storeHealth(c.Request().Context())
		if store["status"] == "error" {
			status = "error"
		}
		checks["store"] = store
	} else if err := s.db.HealthCheck(); err != nil {
		status = "error"
		checks["database"] = map[string]interface{}{
			"status": "error",
			"error":  err.Error(),
		}
	} else {
		checks["database"] = map[string]interface{}{
			"status": "ok",
			"stats":  s.db.GetConnectionInfo(),
		}
	}

	response := map[string]interface{}{
		"status": status,
		"time":   time.Now().UTC().Format(time.RFC3339),
		"checks": checks,
		"version": map[string]string{
			"app": s.config.App.Version,
			"go":  runtime.Version(),
		},
	}

	if status == "ok" {
		return c.JSON(http.StatusOK, response)
	}
	return c.JSON(http.StatusServiceUnavailable, response)
}

// pinger is implemented by stores that can report reachability
type pinger interface {
	Ping(ctx context.Context) error
}

func (s *Server) storeHealth(ctx context.Context) map[string]interface{} {
	p, ok := s.store.(pinger)
	if !ok {
		return map[string]interface{}{"status": "not_configured"}
	}
	if err := p.Ping(ctx); err != nil {
		return map[string]interface{}{"status": "error", "error": err.Error()}
	}
	return map[string]interface{}{"status": "ok"}
}

func (s *Server) readinessCheck(c echo.Context) error {
	if s.db == nil {
		if s.storeHealth(c.Request().Context())["status"] == "error" {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"status": "not_ready",
				"reason": "store_not_ready",
			})
		}
	} else if err := s.db.Ping(); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "not_ready",
			"reason": "database_not_ready",
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Checklist returns the live checklist service
func (s *Server) Checklist() *services.ChecklistService {
	return s.checklist
}

// Start starts the HTTP server and blocks until it stops. A graceful
// shutdown is not reported as an error.
func (s *Server) Start(address string) error {
	s.logger.Infow("Starting server", "address", address)
	if err := s.echo.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Infow("Shutting down server")
	return s.echo.Shutdown(ctx)
}

// customErrorHandler handles HTTP errors
func customErrorHandler(logger *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		var (
			code = http.StatusInternalServerError
			msg  interface{}
		)

		var he *echo.HTTPError
		var ve validator.ValidationErrors
		switch {
		case errors.As(err, &he):
			code = he.Code
			msg = httpHandlers.ErrorResponse{Error: fmt.Sprint(he.Message)}
			if he.Internal != nil {
				err = fmt.Errorf("%v, %v", err, he.Internal)
			}
		case errors.As(err, &ve):
			code = http.StatusBadRequest
			msg = httpHandlers.ErrorResponse{Error: "validation failed", Details: ve.Error()}
		default:
			msg = httpHandlers.ErrorResponse{Error: http.StatusText(code)}
		}

		if code == http.StatusInternalServerError {
			logger.Errorw("Internal server error", "error", err, "path", c.Request().URL.Path)
		}

		if !c.Response().Committed {
			if c.Request().Method == http.MethodHead {
				err = c.NoContent(code)
			} else {
				err = c.JSON(code, msg)
			}
			if err != nil {
				logger.Errorw("Error sending response", "error", err)
			}
		}
	}
}
