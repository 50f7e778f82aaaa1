package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flightdeck/rpas-checklist/internal/domain/entities"
	"github.com/flightdeck/rpas-checklist/internal/infrastructure/logger"
)

type stubHandle struct {
	outcome entities.InstallOutcome
	err     error
	calls   int
}

func (h *stubHandle) Prompt(context.Context) (entities.InstallOutcome, error) {
	h.calls++
	return h.outcome, h.err
}

func newInstallFixture() (*InstallService, *fixture) {
	f := newFixture()
	return NewInstallService(f.notifier, f.metrics, logger.NewNop()), f
}

func TestInstallAvailableShowsPrompt(t *testing.T) {
	svc, f := newInstallFixture()
	assert.Equal(t, false, svc.Flags(f.now).PromptVisible)

	svc.OnInstallAvailable(&stubHandle{outcome: entities.InstallOutcomeAccepted})
	flags := svc.Flags(f.now)
	assert.True(t, flags.PromptVisible)
	assert.False(t, flags.SuccessVisible)
	assert.NotNil(t, svc.Pending())
}

func TestTriggerInstallAccepted(t *testing.T) {
	svc, f := newInstallFixture()
	handle := &stubHandle{outcome: entities.InstallOutcomeAccepted}
	svc.OnInstallAvailable(handle)

	outcome, err := svc.TriggerInstall(context.Background())
	require.NoError(t, err)
	assert.Equal(t, entities.InstallOutcomeAccepted, outcome)

	flags := svc.Flags(f.now)
	assert.False(t, flags.PromptVisible)
	assert.True(t, flags.SuccessVisible)
	assert.False(t, svc.Flags(f.now.Add(3*time.Second)).SuccessVisible, "success toast auto-dismisses")
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.installOutcomes.WithLabelValues("accepted")))
}

func TestTriggerInstallDismissed(t *testing.T) {
	svc, f := newInstallFixture()
	svc.OnInstallAvailable(&stubHandle{outcome: entities.InstallOutcomeDismissed})

	outcome, err := svc.TriggerInstall(context.Background())
	require.NoError(t, err)
	assert.Equal(t, entities.InstallOutcomeDismissed, outcome)

	flags := svc.Flags(f.now)
	assert.False(t, flags.PromptVisible)
	assert.False(t, flags.SuccessVisible)
}

func TestTriggerInstallIsOneShot(t *testing.T) {
	svc, _ := newInstallFixture()
	handle := &stubHandle{outcome: entities.InstallOutcomeDismissed}
	svc.OnInstallAvailable(handle)

	_, err := svc.TriggerInstall(context.Background())
	require.NoError(t, err)

	_, err = svc.TriggerInstall(context.Background())
	assert.ErrorIs(t, err, entities.ErrNoInstallPrompt)
	assert.Equal(t, 1, handle.calls)
	assert.Nil(t, svc.Pending())
}

func TestTriggerInstallWithoutHandle(t *testing.T) {
	svc, f := newInstallFixture()

	_, err := svc.TriggerInstall(context.Background())
	assert.ErrorIs(t, err, entities.ErrNoInstallPrompt)
	assert.Equal(t, false, svc.Flags(f.now).SuccessVisible)
}

func TestTriggerInstallPromptErrors(t *testing.T) {
	svc, f := newInstallFixture()
	svc.OnInstallAvailable(&stubHandle{err: context.Canceled})

	_, err := svc.TriggerInstall(context.Background())
	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, svc.Flags(f.now).PromptVisible)

	svc.OnInstallAvailable(&stubHandle{outcome: "maybe"})
	_, err = svc.TriggerInstall(context.Background())
	assert.ErrorIs(t, err, entities.ErrInvalidOutcome)
	assert.False(t, svc.Flags(f.now).SuccessVisible)
}

func TestDismissPrompt(t *testing.T) {
	svc, f := newInstallFixture()
	svc.OnInstallAvailable(&stubHandle{outcome: entities.InstallOutcomeAccepted})

	svc.DismissPrompt()
	assert.False(t, svc.Flags(f.now).PromptVisible)
	assert.NotNil(t, svc.Pending(), "dismissing the banner keeps the handle")
}

func TestTriggerHandleIgnoresReplacedHandle(t *testing.T) {
	svc, f := newInstallFixture()
	older := &stubHandle{outcome: entities.InstallOutcomeAccepted}
	newer := &stubHandle{outcome: entities.InstallOutcomeDismissed}

	svc.OnInstallAvailable(older)
	held := svc.Pending()
	svc.OnInstallAvailable(newer)

	_, err := svc.TriggerHandle(context.Background(), held)
	assert.ErrorIs(t, err, entities.ErrNoInstallPrompt)
	assert.Zero(t, older.calls)
	assert.Zero(t, newer.calls)
	assert.True(t, svc.Flags(f.now).PromptVisible)

	outcome, err := svc.TriggerHandle(context.Background(), newer)
	require.NoError(t, err)
	assert.Equal(t, entities.InstallOutcomeDismissed, outcome)
	assert.Nil(t, svc.Pending())

	_, err = svc.TriggerHandle(context.Background(), nil)
	assert.ErrorIs(t, err, entities.ErrNoInstallPrompt)
}
