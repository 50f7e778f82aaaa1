package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/flightdeck/rpas-checklist/internal/adapters/repository"
	"github.com/flightdeck/rpas-checklist/internal/domain/entities"
	"github.com/flightdeck/rpas-checklist/internal/infrastructure/logger"
)

const testSlot = "rpasChecklist"

// failingRepository fails every call with the same error.
type failingRepository struct{ err error }

func (r failingRepository) Load(context.Context, string) ([]byte, error) { return nil, r.err }
func (r failingRepository) Save(context.Context, string, []byte) error   { return r.err }
func (r failingRepository) Delete(context.Context, string) error         { return r.err }
func (r failingRepository) Exists(context.Context, string) (bool, error) { return false, r.err }

type fixture struct {
	repo     *repository.MemoryStateRepository
	notifier *NotificationService
	metrics  *Metrics
	now      time.Time
}

func newFixture() *fixture {
	f := &fixture{
		repo:    repository.NewMemoryStateRepository(),
		metrics: NewMetrics(prometheus.NewRegistry()),
		now:     time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
	}
	f.notifier = NewNotificationService(2*time.Second, 3*time.Second).WithClock(func() time.Time { return f.now })
	return f
}

func (f *fixture) service() *ChecklistService {
	return NewChecklistService(f.repo, testSlot, entities.DefaultCatalog(), f.notifier, f.metrics, logger.NewNop())
}

func TestHydrateWithoutPriorWriteReturnsDefaults(t *testing.T) {
	svc := newFixture().service()

	state := svc.Hydrate(context.Background())
	assert.Equal(t, entities.ChecklistState{Completed: entities.CompletionMap{}}, state)
}

func TestHydrateAfterPersistRoundTrips(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	want := entities.ChecklistState{
		SessionInfo: entities.SessionInfo{PilotName: "J. Doe", Date: "2024-05-01"},
		Completed:   entities.CompletionMap{"normal-0": true, "emergency-2": false, "site-7": true},
	}

	f.service().Persist(ctx, want)

	got := f.service().Hydrate(ctx)
	assert.Equal(t, want, got)
}

func TestHydrateCorruptedStateFailsOpen(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	require.NoError(t, f.repo.Save(ctx, testSlot, []byte(`{"pilotName":`)))

	state := f.service().Hydrate(ctx)
	assert.Equal(t, entities.DefaultState(), state)
}

func TestHydrateKeepsKeysOutsideCatalog(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	require.NoError(t, f.repo.Save(ctx, testSlot, []byte(`{"completed":{"normal-0":true,"normal-42":true,"landing-1":true}}`)))

	core, logs := observer.New(zapcore.InfoLevel)
	log := &logger.Logger{SugaredLogger: zap.New(core).Sugar()}
	svc := NewChecklistService(f.repo, testSlot, entities.DefaultCatalog(), f.notifier, nil, log)

	state := svc.Hydrate(ctx)
	assert.Len(t, state.Completed, 3)
	assert.Equal(t, 1, svc.Catalog().CompletedCount(state.Completed))

	entries := logs.FilterField(zap.Int("stale_keys", 2)).All()
	require.Len(t, entries, 1)
	assert.Equal(t, testSlot, entries[0].ContextMap()["slot"])
}

func TestHydrateStoreErrorFailsOpen(t *testing.T) {
	svc := NewChecklistService(failingRepository{err: errors.New("storage disabled")}, testSlot,
		entities.DefaultCatalog(), newFixture().notifier, nil, logger.NewNop())

	assert.Equal(t, entities.DefaultState(), svc.Hydrate(context.Background()))
}

func TestSetPilotNameSurvivesReload(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	svc := f.service()
	svc.Hydrate(ctx)
	svc.SetPilotName(ctx, "J. Doe")
	svc.SetDate(ctx, "2024-05-01")

	reloaded := f.service().Hydrate(ctx)
	assert.Equal(t, "J. Doe", reloaded.PilotName)
	assert.Equal(t, "2024-05-01", reloaded.Date)
}

func TestToggleScenario(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	svc := f.service()
	svc.Hydrate(ctx)

	m, err := svc.Toggle(ctx, entities.CategoryNormal, 0)
	require.NoError(t, err)
	assert.Equal(t, entities.CompletionMap{"normal-0": true}, m)

	m, err = svc.Toggle(ctx, entities.CategoryNormal, 0)
	require.NoError(t, err)
	assert.False(t, m.Checked("normal-0"))

	view := svc.View(f.now)
	assert.False(t, view.Categories[0].Items[0].Checked)
	assert.Equal(t, 0, view.Completed)

	assert.Equal(t, 2.0, testutil.ToFloat64(f.metrics.toggles.WithLabelValues("normal")))
}

func TestToggleRejectsUnknownItem(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	svc := f.service()

	_, err := svc.Toggle(ctx, entities.CategoryEmergency, 6)
	assert.ErrorIs(t, err, entities.ErrUnknownItem)

	_, err = svc.Toggle(ctx, "takeoff", 0)
	assert.ErrorIs(t, err, entities.ErrUnknownCategory)

	exists, err := f.repo.Exists(ctx, testSlot)
	require.NoError(t, err)
	assert.False(t, exists, "rejected toggles must not write")
}

func TestToggleShowsSavedNotification(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	svc := f.service()

	svc.SetPilotName(ctx, "Ana")
	assert.False(t, svc.View(f.now).SavedVisible, "empty completion map shows no toast")

	_, err := svc.Toggle(ctx, entities.CategorySite, 1)
	require.NoError(t, err)
	assert.True(t, svc.View(f.now).SavedVisible)
	assert.True(t, svc.View(f.now.Add(1999*time.Millisecond)).SavedVisible)
	assert.False(t, svc.View(f.now.Add(2*time.Second)).SavedVisible)
}

func TestPersistFailureKeepsInMemoryState(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	svc := NewChecklistService(failingRepository{err: errors.New("quota exceeded")}, testSlot,
		entities.DefaultCatalog(), f.notifier, f.metrics, logger.NewNop())

	m, err := svc.Toggle(ctx, entities.CategoryNormal, 3)
	require.NoError(t, err)
	assert.True(t, m.Checked("normal-3"))

	svc.SetPilotName(ctx, "Ana")
	snap := svc.Snapshot()
	assert.Equal(t, "Ana", snap.PilotName)
	assert.True(t, snap.Completed.Checked("normal-3"))

	assert.False(t, f.notifier.Visible(entities.NotificationSaved, f.now))
	assert.Equal(t, 2.0, testutil.ToFloat64(f.metrics.persistFailures))

	svc.Reset(ctx)
	assert.Equal(t, entities.DefaultState(), svc.Snapshot())
	assert.Equal(t, 3.0, testutil.ToFloat64(f.metrics.persistFailures))
}

func TestResetDeletesSlot(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	svc := f.service()

	svc.SetPilotName(ctx, "Ana")
	_, err := svc.Toggle(ctx, entities.CategoryEmergency, 0)
	require.NoError(t, err)

	state := svc.Reset(ctx)
	assert.Equal(t, entities.DefaultState(), state)

	exists, err := f.repo.Exists(ctx, testSlot)
	require.NoError(t, err)
	assert.False(t, exists, "slot key must be removed, not overwritten")

	assert.Equal(t, entities.DefaultState(), f.service().Hydrate(ctx))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.resets))
}

func TestStaleKeysSurviveButAreHidden(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	require.NoError(t, f.repo.Save(ctx, testSlot, []byte(`{"completed":{"normal-40":true,"legacy-1":true,"site-0":true}}`)))

	svc := f.service()
	svc.Hydrate(ctx)

	view := svc.View(f.now)
	assert.Equal(t, 1, view.Completed)
	assert.Equal(t, 25, view.Total)
	for _, cat := range view.Categories {
		for _, item := range cat.Items {
			assert.NotEqual(t, entities.ItemKey("normal-40"), item.Key)
		}
	}

	_, err := svc.Toggle(ctx, entities.CategorySite, 1)
	require.NoError(t, err)

	reloaded := f.service().Hydrate(ctx)
	assert.True(t, reloaded.Completed.Checked("legacy-1"))
	assert.True(t, reloaded.Completed.Checked("site-1"))
}

func TestSnapshotIsIndependent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	svc := f.service()

	_, err := svc.Toggle(ctx, entities.CategoryNormal, 1)
	require.NoError(t, err)

	snap := svc.Snapshot()
	snap.Completed["normal-1"] = false
	snap.PilotName = "changed"

	assert.True(t, svc.Snapshot().Completed.Checked("normal-1"))
	assert.Equal(t, "", svc.Snapshot().PilotName)
}
