// Package layers derives the read-only layer list shown next to the canvas.
package layers

import (
	"sync"

	"github.com/GoSim-25-26J-441/tee-designer/internal/designer/domain"
	"github.com/GoSim-25-26J-441/tee-designer/internal/designer/scene"
)

// Source is the part of the scene the registry reads from.
type Source interface {
	Objects() []domain.SceneObject
	Subscribe(l scene.Listener) (unsubscribe func())
}

// Registry rebuilds the layer list on every scene event.
type Registry struct {
	mu      sync.RWMutex
	src     Source
	entries []domain.LayerEntry
	version uint64
	stop    func()
}

// NewRegistry builds the initial list from src and follows its events.
func NewRegistry(src Source) *Registry {
	r := &Registry{src: src}
	r.Rebuild()
	r.stop = src.Subscribe(func(scene.Event) { r.Rebuild() })
	return r
}

// Rebuild recomputes the entries from the source in its z-order.
func (r *Registry) Rebuild() {
	objs := r.src.Objects()
	entries := make([]domain.LayerEntry, 0, len(objs))
	for _, o := range objs {
		entries = append(entries, Entry(o))
	}

	r.mu.Lock()
	r.entries = entries
	r.version++
	r.mu.Unlock()
}

// Entry derives the layer row for one object.
func Entry(o domain.SceneObject) domain.LayerEntry {
	label := string(o.Kind)
	if o.Kind == domain.KindText {
		label = o.Content
	}
	return domain.LayerEntry{ID: o.ID, Kind: o.Kind, Label: label}
}

// Entries returns a copy of the current list
func (r *Registry) Entries() []domain.LayerEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.LayerEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Version counts rebuilds; it only tells observers that a rebuild happened.
func (r *Registry) Version() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.version
}

// Close stops following the scene.
func (r *Registry) Close() {
	if r.stop != nil {
		r.stop()
		r.stop = nil
	}
}
