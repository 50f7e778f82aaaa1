package repository

import (
	"context"
	"sync"

	"github.com/flightdeck/rpas-checklist/internal/domain/entities"
	"github.com/flightdeck/rpas-checklist/internal/ports"
)

// MemoryStateRepository keeps slots in a map. Payloads are copied on the way
// in and out so callers cannot alias stored bytes.
type MemoryStateRepository struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

// NewMemoryStateRepository creates an empty in-memory repository
func NewMemoryStateRepository() *MemoryStateRepository {
	return &MemoryStateRepository{slots: make(map[string][]byte)}
}

var _ ports.StateRepository = (*MemoryStateRepository)(nil)

func (r *MemoryStateRepository) Load(_ context.Context, slot string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	payload, ok := r.slots[slot]
	if !ok {
		return nil, entities.ErrSlotNotFound
	}
	return append([]byte(nil), payload...), nil
}

func (r *MemoryStateRepository) Save(_ context.Context, slot string, payload []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.slots[slot] = append([]byte(nil), payload...)
	return nil
}

func (r *MemoryStateRepository) Delete(_ context.Context, slot string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.slots, slot)
	return nil
}

func (r *MemoryStateRepository) Exists(_ context.Context, slot string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.slots[slot]
	return ok, nil
}
