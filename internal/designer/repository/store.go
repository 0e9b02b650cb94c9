package repository

import (
	"context"
	"errors"
)

var ErrSlotNotFound = errors.New("slot not found")

// SlotStore is a durable key-value store holding one value per slot key.
// Writes are last-write-wins; there is no locking or versioning.
type SlotStore interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}
