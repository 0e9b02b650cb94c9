package scene

import (
	"fmt"
	"image"
	"strings"

	"github.com/google/uuid"

	"github.com/GoSim-25-26J-441/tee-designer/internal/designer/domain"
	"github.com/GoSim-25-26J-441/tee-designer/internal/designer/product"
)

// Uploaded images are scaled down to fit this box when added.
const (
	maxImageWidth  = 180
	maxImageHeight = 180
)

type entry struct {
	obj domain.SceneObject
	img image.Image
}

// Canvas is the in-memory Scene. It is not safe for concurrent use.
type Canvas struct {
	fonts     *Fonts
	area      domain.SafeArea
	entries   []*entry
	selected  string
	listeners map[int]Listener
	nextSub   int
	newID     func() string
}

var _ Scene = (*Canvas)(nil)

// NewCanvas creates an empty canvas whose new objects are centered in area.
func NewCanvas(fonts *Fonts, area domain.SafeArea) *Canvas {
	return &Canvas{
		fonts:     fonts,
		area:      area,
		listeners: make(map[int]Listener),
		newID:     func() string { return uuid.New().String() },
	}
}

// Subscribe registers l for every subsequent event.
func (c *Canvas) Subscribe(l Listener) func() {
	id := c.nextSub
	c.nextSub++
	c.listeners[id] = l
	return func() { delete(c.listeners, id) }
}

func (c *Canvas) emit(t EventType, objectID string) {
	ev := Event{Type: t, ObjectID: objectID}
	for i := 0; i < c.nextSub; i++ {
		if l, ok := c.listeners[i]; ok {
			l(ev)
		}
	}
}

func (c *Canvas) centered(scale float64) domain.Transform {
	x, y := c.area.Center()
	return domain.Transform{X: x, Y: y, ScaleX: scale, ScaleY: scale, Origin: domain.OriginCenter}
}

// AddText adds a text object centered in the safe area and selects it.
func (c *Canvas) AddText(content string, style domain.TextStyle) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", domain.ErrEmptyText
	}
	style = style.Normalize()
	if _, err := product.ParseHex(style.Fill); err != nil {
		return "", err
	}
	w, h, err := c.fonts.Measure(content, style)
	if err != nil {
		return "", err
	}

	obj := domain.SceneObject{
		ID:        c.newID(),
		Kind:      domain.KindText,
		Content:   content,
		Style:     &style,
		Transform: c.centered(1),
		Width:     w,
		Height:    h,
	}
	c.insert(&entry{obj: obj})
	return obj.ID, nil
}

// AddImage adds a bitmap centered in the safe area, scaled down to fit 180x180, and selects it.
func (c *Canvas) AddImage(img image.Image) (string, error) {
	if img == nil {
		return "", fmt.Errorf("%w: nil image", domain.ErrDecodeFailure)
	}
	src, err := EncodeDataURL(img)
	if err != nil {
		return "", err
	}
	b := img.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())

	scale := 1.0
	if w > maxImageWidth {
		scale = maxImageWidth / w
	}
	if h*scale > maxImageHeight {
		scale = maxImageHeight / h
	}

	obj := domain.SceneObject{
		ID:        c.newID(),
		Kind:      domain.KindImage,
		Source:    src,
		Transform: c.centered(scale),
		Width:     w,
		Height:    h,
	}
	c.insert(&entry{obj: obj, img: img})
	return obj.ID, nil
}

func (c *Canvas) insert(e *entry) {
	c.entries = append(c.entries, e)
	c.emit(EventObjectAdded, e.obj.ID)
	c.selected = e.obj.ID
	c.emit(EventSelectionChanged, e.obj.ID)
}

func (c *Canvas) index(id string) int {
	for i, e := range c.entries {
		if e.obj.ID == id {
			return i
		}
	}
	return -1
}

// RemoveObject deletes an object; removing the selected object clears the selection.
func (c *Canvas) RemoveObject(id string) error {
	i := c.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", domain.ErrObjectNotFound, id)
	}
	c.entries = append(c.entries[:i], c.entries[i+1:]...)
	c.emit(EventObjectRemoved, id)
	if c.selected == id {
		c.selected = ""
		c.emit(EventSelectionChanged, "")
	}
	return nil
}

// Clear removes every object.
func (c *Canvas) Clear() {
	c.entries = nil
	c.selected = ""
	c.emit(EventCleared, "")
}

func (c *Canvas) Selected() (string, bool) {
	return c.selected, c.selected != ""
}

// Select makes id the active object.
func (c *Canvas) Select(id string) error {
	if c.index(id) < 0 {
		return fmt.Errorf("%w: %s", domain.ErrObjectNotFound, id)
	}
	if c.selected != id {
		c.selected = id
		c.emit(EventSelectionChanged, id)
	}
	return nil
}

func (c *Canvas) ClearSelection() {
	if c.selected == "" {
		return
	}
	c.selected = ""
	c.emit(EventSelectionChanged, "")
}

// Objects returns copies of all objects in z-order (first is bottom-most).
func (c *Canvas) Objects() []domain.SceneObject {
	out := make([]domain.SceneObject, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, copyObject(e.obj))
	}
	return out
}

func (c *Canvas) Object(id string) (domain.SceneObject, bool) {
	i := c.index(id)
	if i < 0 {
		return domain.SceneObject{}, false
	}
	return copyObject(c.entries[i].obj), true
}

func (c *Canvas) Len() int { return len(c.entries) }

func copyObject(o domain.SceneObject) domain.SceneObject {
	if o.Style != nil {
		s := *o.Style
		o.Style = &s
	}
	return o
}

// SetTransform replaces an object's transform as is. Callers apply constraints first.
func (c *Canvas) SetTransform(id string, t domain.Transform) error {
	i := c.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", domain.ErrObjectNotFound, id)
	}
	if t.Origin == "" {
		t.Origin = c.entries[i].obj.Transform.Origin
	}
	if err := validTransform(&t); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidTransform, err)
	}
	c.entries[i].obj.Transform = t
	c.emit(EventObjectModified, id)
	return nil
}

// UpdateText changes the content and style of a text object and re-measures it.
func (c *Canvas) UpdateText(id string, content string, style domain.TextStyle) error {
	i := c.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", domain.ErrObjectNotFound, id)
	}
	obj := &c.entries[i].obj
	if obj.Kind != domain.KindText {
		return domain.ErrNotText
	}
	if strings.TrimSpace(content) == "" {
		return domain.ErrEmptyText
	}
	style = style.Normalize()
	if _, err := product.ParseHex(style.Fill); err != nil {
		return err
	}
	w, h, err := c.fonts.Measure(content, style)
	if err != nil {
		return err
	}
	obj.Content = content
	obj.Style = &style
	obj.Width = w
	obj.Height = h
	c.emit(EventObjectModified, id)
	return nil
}
