package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const slotKeyPrefix = "design:slot:" // Key for a design slot: design:slot:{key}

// RedisSlotStore keeps design slots in Redis
type RedisSlotStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSlotStore creates a store; ttl 0 keeps slots forever.
func NewRedisSlotStore(client *redis.Client, ttl time.Duration) *RedisSlotStore {
	return &RedisSlotStore{client: client, ttl: ttl}
}

// Put overwrites the slot
func (r *RedisSlotStore) Put(ctx context.Context, key string, data []byte) error {
	if err := r.client.Set(ctx, r.slotKey(key), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write slot: %w", err)
	}
	return nil
}

// Get reads the slot
func (r *RedisSlotStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.slotKey(key)).Bytes()
	if err == redis.Nil {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read slot: %w", err)
	}
	return data, nil
}

// Delete removes the slot; deleting a missing slot is not an error.
func (r *RedisSlotStore) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.slotKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete slot: %w", err)
	}
	return nil
}

func (r *RedisSlotStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisSlotStore) slotKey(key string) string {
	return fmt.Sprintf("%s%s", slotKeyPrefix, key)
}
