package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/flightdeck/rpas-checklist/internal/domain/entities"
	"github.com/flightdeck/rpas-checklist/internal/ports"
)

// RedisStateRepository keeps each slot as one string key under a prefix
type RedisStateRepository struct {
	client *redis.Client
	prefix string
}

// NewRedisStateRepository creates a new redis-backed state repository
func NewRedisStateRepository(client *redis.Client, prefix string) *RedisStateRepository {
	return &RedisStateRepository{client: client, prefix: prefix}
}

var _ ports.StateRepository = (*RedisStateRepository)(nil)

func (r *RedisStateRepository) key(slot string) string {
	return r.prefix + "slot:" + slot
}

func (r *RedisStateRepository) Load(ctx context.Context, slot string) ([]byte, error) {
	payload, err := r.client.Get(ctx, r.key(slot)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, entities.ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load slot %s: %w", slot, err)
	}
	return payload, nil
}

func (r *RedisStateRepository) Save(ctx context.Context, slot string, payload []byte) error {
	if err := r.client.Set(ctx, r.key(slot), payload, 0).Err(); err != nil {
		return fmt.Errorf("failed to save slot %s: %w", slot, err)
	}
	return nil
}

func (r *RedisStateRepository) Delete(ctx context.Context, slot string) error {
	if err := r.client.Del(ctx, r.key(slot)).Err(); err != nil {
		return fmt.Errorf("failed to delete slot %s: %w", slot, err)
	}
	return nil
}

func (r *RedisStateRepository) Exists(ctx context.Context, slot string) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(slot)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check slot %s: %w", slot, err)
	}
	return n > 0, nil
}

// Ping reports whether redis is reachable
func (r *RedisStateRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the underlying client
func (r *RedisStateRepository) Close() error {
	return r.client.Close()
}
