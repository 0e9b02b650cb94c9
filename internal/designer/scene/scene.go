// Package scene owns the editable design canvas: text and image objects, the current selection,
// serialization and rasterization. Callers see objects only through domain types.
package scene

import (
	"image"

	"github.com/GoSim-25-26J-441/tee-designer/internal/designer/domain"
)

// EventType names a scene change
type EventType string

const (
	EventObjectAdded      EventType = "object:added"
	EventObjectRemoved    EventType = "object:removed"
	EventObjectModified   EventType = "object:modified"
	EventSelectionChanged EventType = "selection:changed"
	EventCleared          EventType = "scene:cleared"
	EventRestored         EventType = "scene:restored"
)

// Event is emitted synchronously after every scene mutation.
type Event struct {
	Type     EventType `json:"type"`
	ObjectID string    `json:"object_id,omitempty"`
}

// Listener receives scene events
type Listener func(Event)

// Scene is the surface the designer needs from the canvas.
type Scene interface {
	AddText(content string, style domain.TextStyle) (string, error)
	AddImage(img image.Image) (string, error)
	RemoveObject(id string) error
	Clear()

	Selected() (string, bool)
	Select(id string) error
	ClearSelection()

	Objects() []domain.SceneObject
	Object(id string) (domain.SceneObject, bool)
	Len() int

	SetTransform(id string, t domain.Transform) error
	UpdateText(id string, content string, style domain.TextStyle) error

	Serialize() ([]byte, error)
	Restore(blob []byte) error
	Rasterize(scale float64) (*image.RGBA, error)

	Subscribe(l Listener) (unsubscribe func())
}
