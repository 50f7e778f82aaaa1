package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/flightdeck/rpas-checklist/internal/domain/entities"
	"github.com/flightdeck/rpas-checklist/internal/infrastructure/logger"
	"github.com/flightdeck/rpas-checklist/internal/ports"
)

// ChecklistService holds the live checklist and mirrors it into one
// persistence slot. The in-memory state is authoritative: store failures are
// logged and counted, never returned.
type ChecklistService struct {
	mu       sync.Mutex
	repo     ports.StateRepository
	slot     string
	catalog  *entities.Catalog
	notifier ports.Notifier
	metrics  *Metrics
	logger   *logger.Logger
	state    entities.ChecklistState
}

// NewChecklistService creates a new checklist service starting from defaults.
// Call Hydrate once at startup to load the persisted slot.
func NewChecklistService(repo ports.StateRepository, slot string, catalog *entities.Catalog, notifier ports.Notifier, metrics *Metrics, logger *logger.Logger) *ChecklistService {
	return &ChecklistService{
		repo:     repo,
		slot:     slot,
		catalog:  catalog,
		notifier: notifier,
		metrics:  metrics,
		logger:   logger.WithComponent("checklist"),
		state:    entities.DefaultState(),
	}
}

var _ ports.ChecklistService = (*ChecklistService)(nil)

// Catalog returns the checklist the service validates against
func (s *ChecklistService) Catalog() *entities.Catalog {
	return s.catalog
}

// Hydrate loads the slot into memory. Absent or malformed data yields defaults.
func (s *ChecklistService) Hydrate(ctx context.Context) entities.ChecklistState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = s.load(ctx)
	return s.state.Clone()
}

func (s *ChecklistService) load(ctx context.Context) entities.ChecklistState {
	payload, err := s.repo.Load(ctx, s.slot)
	if err != nil {
		if !errors.Is(err, entities.ErrSlotNotFound) {
			s.logger.LogStoreOperation("load", s.slot, err)
		}
		return entities.DefaultState()
	}

	state, err := entities.DecodeState(payload)
	if err != nil {
		s.logger.Warnw("Discarding malformed checklist state", "slot", s.slot, "error", err)
		return entities.DefaultState()
	}

	stale := 0
	for key := range state.Completed {
		if !s.catalog.Contains(key) {
			stale++
		}
	}
	if stale > 0 {
		s.logger.Infow("Keeping completion keys the catalog does not know", "slot", s.slot, "stale_keys", stale)
	}
	return state
}

// Toggle flips one catalog item and persists the result.
func (s *ChecklistService) Toggle(ctx context.Context, category entities.CategoryName, index int) (entities.CompletionMap, error) {
	key, err := s.catalog.Key(category, index)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Completed = entities.Toggle(s.state.Completed, key)
	s.metrics.toggled(category)
	s.persistLocked(ctx, s.state)

	return s.state.Completed.Clone(), nil
}

// SetPilotName replaces the pilot name and persists.
func (s *ChecklistService) SetPilotName(ctx context.Context, name string) {
	s.UpdateSession(ctx, ports.UpdateSessionRequest{PilotName: &name})
}

// SetDate replaces the date and persists.
func (s *ChecklistService) SetDate(ctx context.Context, date string) {
	s.UpdateSession(ctx, ports.UpdateSessionRequest{Date: &date})
}

// UpdateSession applies the provided fields in one mutation and one write.
func (s *ChecklistService) UpdateSession(ctx context.Context, req ports.UpdateSessionRequest) entities.ChecklistState {
	s.mu.Lock()
	defer s.mu.Unlock()

	if req.PilotName != nil {
		s.state.PilotName = *req.PilotName
	}
	if req.Date != nil {
		s.state.Date = *req.Date
	}
	s.persistLocked(ctx, s.state)

	return s.state.Clone()
}

// Persist writes the given state to the slot.
func (s *ChecklistService) Persist(ctx context.Context, state entities.ChecklistState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.persistLocked(ctx, state)
}

func (s *ChecklistService) persistLocked(ctx context.Context, state entities.ChecklistState) {
	payload, err := entities.EncodeState(state)
	if err == nil {
		err = s.repo.Save(ctx, s.slot, payload)
	}
	if err != nil {
		s.metrics.persistFailed()
		s.logger.LogStoreOperation("save", s.slot, err)
		return
	}
	s.logger.LogStoreOperation("save", s.slot, nil)

	if len(state.Completed) > 0 {
		s.notifier.Show(entities.NotificationSaved)
	}
}

// Reset clears the checklist and removes the slot.
func (s *ChecklistService) Reset(ctx context.Context) entities.ChecklistState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = entities.DefaultState()
	s.metrics.reset()

	if err := s.repo.Delete(ctx, s.slot); err != nil {
		s.metrics.persistFailed()
		s.logger.LogStoreOperation("delete", s.slot, err)
	} else {
		s.logger.Infow("Checklist reset", "slot", s.slot)
	}

	return s.state.Clone()
}

// Snapshot returns a copy of the in-memory state.
func (s *ChecklistService) Snapshot() entities.ChecklistState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.Clone()
}

// View renders the catalog against the current state. Keys outside the
// catalog are never shown. Install flags are left for the caller to fill.
func (s *ChecklistService) View(now time.Time) *ports.ChecklistView {
	state := s.Snapshot()

	view := &ports.ChecklistView{
		Title:        s.catalog.Title,
		PilotName:    state.PilotName,
		Date:         state.Date,
		Total:        s.catalog.TotalItems(),
		SavedVisible: s.notifier.Visible(entities.NotificationSaved, now),
	}

	for _, cat := range s.catalog.Categories {
		cv := ports.CategoryView{Name: cat.Name, Title: cat.Title}
		for i, text := range cat.Items {
			key := entities.NewItemKey(cat.Name, i)
			checked := state.Completed.Checked(key)
			if checked {
				cv.Completed++
			}
			cv.Items = append(cv.Items, ports.ItemView{Key: key, Index: i, Text: text, Checked: checked})
		}
		view.Completed += cv.Completed
		view.Categories = append(view.Categories, cv)
	}

	return view
}
