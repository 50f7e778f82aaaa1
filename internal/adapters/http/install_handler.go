package http

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/flightdeck/rpas-checklist/internal/domain/entities"
	"github.com/flightdeck/rpas-checklist/internal/infrastructure/logger"
	"github.com/flightdeck/rpas-checklist/internal/ports"
)

// browserPrompt stands in for the deferred beforeinstallprompt event. The
// browser shows the real prompt and reports the user's choice back.
type browserPrompt struct {
	choice chan entities.InstallOutcome
}

func newBrowserPrompt() *browserPrompt {
	return &browserPrompt{choice: make(chan entities.InstallOutcome, 1)}
}

// resolve delivers the reported choice; only the first one counts.
func (p *browserPrompt) resolve(outcome entities.InstallOutcome) bool {
	select {
	case p.choice <- outcome:
		return true
	default:
		return false
	}
}

func (p *browserPrompt) Prompt(ctx context.Context) (entities.InstallOutcome, error) {
	select {
	case outcome := <-p.choice:
		return outcome, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// InstallHandler handles the home-screen install flow
type InstallHandler struct {
	install ports.InstallService
	logger  *logger.Logger
	now     func() time.Time
}

// NewInstallHandler creates a new install handler
func NewInstallHandler(install ports.InstallService, logger *logger.Logger) *InstallHandler {
	return &InstallHandler{
		install: install,
		logger:  logger,
		now:     time.Now,
	}
}

// InstallAvailable godoc
// @Summary Report that the browser offered home-screen installation
// @Tags install
// @Produce json
// @Success 200 {object} ports.InstallFlags
// @Router /install/available [post]
func (h *InstallHandler) InstallAvailable(c echo.Context) error {
	h.install.OnInstallAvailable(newBrowserPrompt())
	return c.JSON(http.StatusOK, h.install.Flags(h.now()))
}

// InstallOutcome godoc
// @Summary Report the user's choice on the install prompt
// @Tags install
// @Accept json
// @Produce json
// @Param request body ports.InstallOutcomeRequest true "Outcome"
// @Success 200 {object} InstallOutcomeResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /install/outcome [post]
func (h *InstallHandler) InstallOutcome(c echo.Context) error {
	var req ports.InstallOutcomeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	prompt, ok := h.install.Pending().(*browserPrompt)
	if !ok {
		return mapError(entities.ErrNoInstallPrompt)
	}
	prompt.resolve(req.Outcome)

	// A handle replaced since Pending is left for the next outcome.
	outcome, err := h.install.TriggerHandle(c.Request().Context(), prompt)
	if err != nil {
		h.logger.Warnw("Install outcome rejected", "error", err)
		return mapError(err)
	}

	return c.JSON(http.StatusOK, InstallOutcomeResponse{
		Outcome:      outcome,
		InstallFlags: h.install.Flags(h.now()),
	})
}

// DismissPrompt godoc
// @Summary Hide the install banner
// @Tags install
// @Success 204
// @Router /install/prompt [delete]
func (h *InstallHandler) DismissPrompt(c echo.Context) error {
	h.install.DismissPrompt()
	return c.NoContent(http.StatusNoContent)
}
