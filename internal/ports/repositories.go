package ports

import "context"

// StateRepository persists serialized checklist state under named slots.
// Load returns entities.ErrSlotNotFound when the slot has never been written
// or has been deleted.
type StateRepository interface {
	Load(ctx context.Context, slot string) ([]byte, error)
	Save(ctx context.Context, slot string, payload []byte) error
	Delete(ctx context.Context, slot string) error
	Exists(ctx context.Context, slot string) (bool, error)
}
