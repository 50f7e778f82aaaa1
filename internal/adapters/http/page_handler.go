package http

import (
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/flightdeck/rpas-checklist/internal/application/services"
	"github.com/flightdeck/rpas-checklist/internal/domain/entities"
	"github.com/flightdeck/rpas-checklist/internal/infrastructure/logger"
	"github.com/flightdeck/rpas-checklist/internal/ports"
)

// TemplateRenderer renders html/template pages for echo
type TemplateRenderer struct {
	templates *template.Template
}

// NewTemplateRenderer parses every *.html template in fsys
func NewTemplateRenderer(fsys fs.FS) (*TemplateRenderer, error) {
	t, err := template.ParseFS(fsys, "*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &TemplateRenderer{templates: t}, nil
}

// Render implements echo.Renderer
func (r *TemplateRenderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}

// PageHandler serves the server-rendered checklist and its form posts.
// Every form post redirects back to the page.
type PageHandler struct {
	checklist ports.ChecklistService
	install   ports.InstallService
	notifier  ports.Notifier
	durations map[entities.NotificationKind]time.Duration
	logger    *logger.Logger
	now       func() time.Time
}

// NewPageHandler creates a new page handler
func NewPageHandler(checklist ports.ChecklistService, install ports.InstallService, notifier ports.Notifier, savedDuration, installedDuration time.Duration, logger *logger.Logger) *PageHandler {
	return &PageHandler{
		checklist: checklist,
		install:   install,
		notifier:  notifier,
		durations: map[entities.NotificationKind]time.Duration{
			entities.NotificationSaved:     savedDuration,
			entities.NotificationInstalled: installedDuration,
		},
		logger: logger,
		now:    time.Now,
	}
}

type indexPage struct {
	View             *ports.ChecklistView
	SavedMessage     string
	InstalledMessage string
	SavedMs          int64
	InstalledMs      int64
}

// Index renders the checklist page
func (h *PageHandler) Index(c echo.Context) error {
	return c.Render(http.StatusOK, "index", indexPage{
		View:             composeView(h.checklist, h.install, h.now()),
		SavedMessage:     services.NotificationMessage(entities.NotificationSaved),
		InstalledMessage: services.NotificationMessage(entities.NotificationInstalled),
		SavedMs:          h.durations[entities.NotificationSaved].Milliseconds(),
		InstalledMs:      h.durations[entities.NotificationInstalled].Milliseconds(),
	})
}

// Toggle handles a checkbox form post
func (h *PageHandler) Toggle(c echo.Context) error {
	var req ports.ToggleItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if _, err := h.checklist.Toggle(c.Request().Context(), req.Category, req.Index); err != nil {
		return mapError(err)
	}
	return h.back(c)
}

// Session handles the pilot name/date form post
func (h *PageHandler) Session(c echo.Context) error {
	name := c.FormValue("pilotName")
	date := c.FormValue("date")

	h.checklist.UpdateSession(c.Request().Context(), ports.UpdateSessionRequest{
		PilotName: &name,
		Date:      &date,
	})
	return h.back(c)
}

// Reset handles the reset button
func (h *PageHandler) Reset(c echo.Context) error {
	h.checklist.Reset(c.Request().Context())
	return h.back(c)
}

// Dismiss closes a toast
func (h *PageHandler) Dismiss(c echo.Context) error {
	if err := h.notifier.Dismiss(entities.NotificationKind(c.Param("kind"))); err != nil {
		return mapError(err)
	}
	return h.back(c)
}

func (h *PageHandler) back(c echo.Context) error {
	return c.Redirect(http.StatusSeeOther, "/")
}
