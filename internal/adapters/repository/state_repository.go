package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/flightdeck/rpas-checklist/internal/domain/entities"
	"github.com/flightdeck/rpas-checklist/internal/ports"
)

// StateRepositoryImpl implements the StateRepository interface over sqlx.
// Queries use '?' placeholders and are rebound for the connected driver.
type StateRepositoryImpl struct {
	db *sqlx.DB
}

// NewStateRepository creates a new checklist state repository
func NewStateRepository(db *sqlx.DB) ports.StateRepository {
	return &StateRepositoryImpl{db: db}
}

func (r *StateRepositoryImpl) Load(ctx context.Context, slot string) ([]byte, error) {
	query := r.db.Rebind(`SELECT payload FROM checklist_slots WHERE slot = ?`)

	var payload string
	err := r.db.GetContext(ctx, &payload, query, slot)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrSlotNotFound
		}
		return nil, fmt.Errorf("load slot %s: %w", slot, err)
	}

	return []byte(payload), nil
}

func (r *StateRepositoryImpl) Save(ctx context.Context, slot string, payload []byte) error {
	query := r.db.Rebind(`
		INSERT INTO checklist_slots (slot, payload, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (slot) DO UPDATE
		SET payload = excluded.payload, updated_at = excluded.updated_at`)

	_, err := r.db.ExecContext(ctx, query, slot, string(payload), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save slot %s: %w", slot, err)
	}

	return nil
}

func (r *StateRepositoryImpl) Delete(ctx context.Context, slot string) error {
	query := r.db.Rebind(`DELETE FROM checklist_slots WHERE slot = ?`)

	_, err := r.db.ExecContext(ctx, query, slot)
	if err != nil {
		return fmt.Errorf("delete slot %s: %w", slot, err)
	}

	return nil
}

func (r *StateRepositoryImpl) Exists(ctx context.Context, slot string) (bool, error) {
	query := r.db.Rebind(`SELECT COUNT(*) FROM checklist_slots WHERE slot = ?`)

	var count int
	if err := r.db.GetContext(ctx, &count, query, slot); err != nil {
		return false, fmt.Errorf("check slot %s: %w", slot, err)
	}

	return count > 0, nil
}
