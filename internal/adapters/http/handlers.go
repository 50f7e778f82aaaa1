package http

import (
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/flightdeck/rpas-checklist/internal/application/services"
	"github.com/flightdeck/rpas-checklist/internal/domain/entities"
	"github.com/flightdeck/rpas-checklist/internal/infrastructure/logger"
	"github.com/flightdeck/rpas-checklist/internal/ports"
)

// ChecklistHandler handles checklist API requests
type ChecklistHandler struct {
	checklist ports.ChecklistService
	install   ports.InstallService
	notifier  ports.Notifier
	catalog   *entities.Catalog
	reports   *services.ReportService
	logger    *logger.Logger
	now       func() time.Time
}

// NewChecklistHandler creates a new checklist handler
func NewChecklistHandler(checklist ports.ChecklistService, install ports.InstallService, notifier ports.Notifier, catalog *entities.Catalog, reports *services.ReportService, logger *logger.Logger) *ChecklistHandler {
	return &ChecklistHandler{
		checklist: checklist,
		install:   install,
		notifier:  notifier,
		catalog:   catalog,
		reports:   reports,
		logger:    logger,
		now:       time.Now,
	}
}

// GetCatalog godoc
// @Summary Get the checklist catalog
// @Tags checklist
// @Produce json
// @Success 200 {object} entities.Catalog
// @Router /catalog [get]
func (h *ChecklistHandler) GetCatalog(c echo.Context) error {
	return c.JSON(http.StatusOK, h.catalog)
}

// GetChecklist godoc
// @Summary Get the current checklist view
// @Tags checklist
// @Produce json
// @Success 200 {object} ports.ChecklistView
// @Router /checklist [get]
func (h *ChecklistHandler) GetChecklist(c echo.Context) error {
	return c.JSON(http.StatusOK, composeView(h.checklist, h.install, h.now()))
}

// ToggleItem godoc
// @Summary Toggle one checklist item
// @Tags checklist
// @Produce json
// @Param category path string true "normal, emergency or site"
// @Param index path int true "Item index"
// @Success 200 {object} ToggleResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /checklist/items/{category}/{index}/toggle [post]
func (h *ChecklistHandler) ToggleItem(c echo.Context) error {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid item index")
	}

	category := entities.CategoryName(c.Param("category"))
	completed, err := h.checklist.Toggle(c.Request().Context(), category, index)
	if err != nil {
		return mapError(err)
	}

	key := entities.NewItemKey(category, index)
	return c.JSON(http.StatusOK, ToggleResponse{
		Key:       key,
		Checked:   completed.Checked(key),
		Completed: completed,
	})
}

// UpdateSession godoc
// @Summary Update pilot name and/or date
// @Tags checklist
// @Accept json
// @Produce json
// @Param request body ports.UpdateSessionRequest true "Session fields"
// @Success 200 {object} entities.ChecklistState
// @Failure 400 {object} ErrorResponse
// @Router /checklist/session [put]
func (h *ChecklistHandler) UpdateSession(c echo.Context) error {
	var req ports.UpdateSessionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	state := h.checklist.UpdateSession(c.Request().Context(), req)
	return c.JSON(http.StatusOK, state)
}

// ResetChecklist godoc
// @Summary Clear the checklist and delete the stored slot
// @Tags checklist
// @Produce json
// @Success 200 {object} entities.ChecklistState
// @Router /checklist [delete]
func (h *ChecklistHandler) ResetChecklist(c echo.Context) error {
	state := h.checklist.Reset(c.Request().Context())
	return c.JSON(http.StatusOK, state)
}

// GetReport godoc
// @Summary Flight report of the current checklist
// @Tags checklist
// @Produce html
// @Produce plain
// @Param format query string false "html (default), markdown, json or yaml"
// @Success 200 {string} string
// @Failure 400 {object} ErrorResponse
// @Router /checklist/report [get]
func (h *ChecklistHandler) GetReport(c echo.Context) error {
	state := h.checklist.Snapshot()
	format := c.QueryParam("format")

	switch format {
	case "", services.FormatHTML:
		body, err := h.reports.HTML(state)
		if err != nil {
			return err
		}
		return c.Render(http.StatusOK, "report", reportPage{
			Title: h.catalog.Title,
			Body:  template.HTML(body),
		})
	case services.FormatMarkdown:
		return c.Blob(http.StatusOK, "text/markdown; charset=utf-8", h.reports.Markdown(state))
	case services.FormatJSON:
		out, err := h.reports.Export(state, format)
		if err != nil {
			return err
		}
		return c.JSONBlob(http.StatusOK, out)
	case services.FormatYAML:
		out, err := h.reports.Export(state, format)
		if err != nil {
			return err
		}
		return c.Blob(http.StatusOK, "application/yaml; charset=utf-8", out)
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "Unsupported report format")
	}
}

// DismissNotification godoc
// @Summary Hide a transient notification
// @Tags notifications
// @Param kind path string true "saved or installed"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /notifications/{kind} [delete]
func (h *ChecklistHandler) DismissNotification(c echo.Context) error {
	if err := h.notifier.Dismiss(entities.NotificationKind(c.Param("kind"))); err != nil {
		return mapError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// composeView merges the checklist view with the install flags.
func composeView(checklist ports.ChecklistService, install ports.InstallService, now time.Time) *ports.ChecklistView {
	view := checklist.View(now)
	view.InstallFlags = install.Flags(now)
	return view
}

// mapError turns domain errors into HTTP errors.
func mapError(err error) error {
	switch {
	case errors.Is(err, entities.ErrUnknownCategory),
		errors.Is(err, entities.ErrUnknownItem),
		errors.Is(err, entities.ErrUnknownNotification):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, entities.ErrNoInstallPrompt):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, entities.ErrInvalidOutcome):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return err
	}
}

// Request/Response types

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type ToggleResponse struct {
	Key       entities.ItemKey       `json:"key"`
	Checked   bool                   `json:"checked"`
	Completed entities.CompletionMap `json:"completed"`
}

type InstallOutcomeResponse struct {
	Outcome entities.InstallOutcome `json:"outcome"`
	ports.InstallFlags
}

type reportPage struct {
	Title string
	Body  template.HTML
}
