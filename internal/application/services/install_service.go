package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/flightdeck/rpas-checklist/internal/domain/entities"
	"github.com/flightdeck/rpas-checklist/internal/infrastructure/logger"
	"github.com/flightdeck/rpas-checklist/internal/ports"
)

// InstallService keeps the deferred platform install prompt and the
// prompt-visible flag. The success flag lives in the notifier so it
// auto-dismisses.
type InstallService struct {
	mu            sync.Mutex
	handle        ports.InstallHandle
	promptVisible bool
	notifier      ports.Notifier
	metrics       *Metrics
	logger        *logger.Logger
}

// NewInstallService creates a new install service
func NewInstallService(notifier ports.Notifier, metrics *Metrics, logger *logger.Logger) *InstallService {
	return &InstallService{
		notifier: notifier,
		metrics:  metrics,
		logger:   logger.WithComponent("install"),
	}
}

var _ ports.InstallService = (*InstallService)(nil)

// OnInstallAvailable retains the platform handle and shows the prompt.
// A newer handle replaces an older one.
func (s *InstallService) OnInstallAvailable(handle ports.InstallHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.handle = handle
	s.promptVisible = true
	s.logger.Debugw("Install prompt available")
}

// Pending returns the retained handle, or nil.
func (s *InstallService) Pending() ports.InstallHandle {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.handle
}

// TriggerInstall shows the platform prompt once and records the outcome.
func (s *InstallService) TriggerInstall(ctx context.Context) (entities.InstallOutcome, error) {
	s.mu.Lock()
	handle := s.handle
	s.handle = nil
	s.mu.Unlock()

	return s.prompt(ctx, handle)
}

// TriggerHandle is TriggerInstall for a handle the caller already holds. It
// fails with ErrNoInstallPrompt when handle is no longer the retained one,
// leaving a newer handle in place. Handles must be comparable.
func (s *InstallService) TriggerHandle(ctx context.Context, handle ports.InstallHandle) (entities.InstallOutcome, error) {
	s.mu.Lock()
	if handle == nil || s.handle != handle {
		s.mu.Unlock()
		return "", entities.ErrNoInstallPrompt
	}
	s.handle = nil
	s.mu.Unlock()

	return s.prompt(ctx, handle)
}

func (s *InstallService) prompt(ctx context.Context, handle ports.InstallHandle) (entities.InstallOutcome, error) {
	if handle == nil {
		return "", entities.ErrNoInstallPrompt
	}

	outcome, err := handle.Prompt(ctx)

	// The platform prompt can only be shown once, so the banner goes either way.
	s.mu.Lock()
	s.promptVisible = false
	s.mu.Unlock()

	if err == nil && !outcome.Valid() {
		err = fmt.Errorf("%w: %q", entities.ErrInvalidOutcome, string(outcome))
	}
	if err != nil {
		s.logger.Warnw("Install prompt failed", "error", err)
		return "", err
	}

	s.metrics.installed(outcome)
	if outcome == entities.InstallOutcomeAccepted {
		s.notifier.Show(entities.NotificationInstalled)
	}
	s.logger.Infow("Install prompt resolved", "outcome", outcome)

	return outcome, nil
}

// DismissPrompt hides the install banner without invoking the platform.
func (s *InstallService) DismissPrompt() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.promptVisible = false
}

// Flags reports the two install UI flags.
func (s *InstallService) Flags(now time.Time) ports.InstallFlags {
	s.mu.Lock()
	prompt := s.promptVisible
	s.mu.Unlock()

	return ports.InstallFlags{
		PromptVisible:  prompt,
		SuccessVisible: s.notifier.Visible(entities.NotificationInstalled, now),
	}
}
