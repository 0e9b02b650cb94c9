// Package persistence saves and restores design snapshots in a durable key-value slot.
package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/GoSim-25-26J-441/tee-designer/internal/designer/domain"
	"github.com/GoSim-25-26J-441/tee-designer/internal/designer/product"
	"github.com/GoSim-25-26J-441/tee-designer/internal/designer/repository"
)

// DefaultSlot is the well-known slot a designer without a session id writes to.
const DefaultSlot = "tshirtDesign"

// DefaultMaxBytes mirrors the browser storage quota the designer was built against.
const DefaultMaxBytes = 5 << 20

// Service reads and writes snapshots. Last write wins; there is no merge.
type Service struct {
	store    repository.SlotStore
	maxBytes int
}

// NewService creates a service; maxBytes <= 0 uses DefaultMaxBytes.
func NewService(store repository.SlotStore, maxBytes int) *Service {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Service{store: store, maxBytes: maxBytes}
}

// Save writes snap to slot. Any failure to persist wraps domain.ErrStorageUnavailable.
func (s *Service) Save(ctx context.Context, slot string, snap domain.DesignSnapshot) error {
	if len(snap.Canvas) == 0 {
		snap.Canvas = json.RawMessage(`{}`)
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if len(data) > s.maxBytes {
		return fmt.Errorf("%w: snapshot is %d bytes, quota is %d", domain.ErrStorageUnavailable, len(data), s.maxBytes)
	}
	if err := s.store.Put(ctx, slotKey(slot), data); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return nil
}

// Load reads the snapshot in slot. The canvas portion is returned byte for byte as stored.
func (s *Service) Load(ctx context.Context, slot string) (domain.DesignSnapshot, error) {
	data, err := s.store.Get(ctx, slotKey(slot))
	if errors.Is(err, repository.ErrSlotNotFound) {
		return domain.DesignSnapshot{}, domain.ErrSnapshotNotFound
	}
	if err != nil {
		return domain.DesignSnapshot{}, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return Decode(data)
}

// Clear removes the slot.
func (s *Service) Clear(ctx context.Context, slot string) error {
	if err := s.store.Delete(ctx, slotKey(slot)); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return nil
}

// Ping checks the underlying store
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// Decode parses a stored snapshot envelope and validates the product attributes.
// The canvas itself is validated when it is restored into a scene.
func Decode(data []byte) (domain.DesignSnapshot, error) {
	var snap domain.DesignSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return domain.DesignSnapshot{}, fmt.Errorf("%w: %v", domain.ErrMalformedSnapshot, err)
	}
	if len(snap.Canvas) == 0 || string(snap.Canvas) == "null" {
		return domain.DesignSnapshot{}, fmt.Errorf("%w: missing canvas", domain.ErrMalformedSnapshot)
	}
	color, err := product.NormalizeHex(snap.Color)
	if err != nil {
		return domain.DesignSnapshot{}, fmt.Errorf("%w: %v", domain.ErrMalformedSnapshot, err)
	}
	size, err := domain.ParseSize(string(snap.Size))
	if err != nil {
		return domain.DesignSnapshot{}, fmt.Errorf("%w: %v", domain.ErrMalformedSnapshot, err)
	}
	snap.Color = color
	snap.Size = size
	return snap, nil
}

func slotKey(slot string) string {
	if slot == "" {
		return DefaultSlot
	}
	return slot
}
