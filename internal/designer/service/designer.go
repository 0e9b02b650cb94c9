package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"github.com/GoSim-25-26J-441/tee-designer/internal/designer/compositor"
	"github.com/GoSim-25-26J-441/tee-designer/internal/designer/constraint"
	"github.com/GoSim-25-26J-441/tee-designer/internal/designer/domain"
	"github.com/GoSim-25-26J-441/tee-designer/internal/designer/layers"
	"github.com/GoSim-25-26J-441/tee-designer/internal/designer/persistence"
	"github.com/GoSim-25-26J-441/tee-designer/internal/designer/product"
	"github.com/GoSim-25-26J-441/tee-designer/internal/designer/scene"
	"github.com/GoSim-25-26J-441/tee-designer/internal/designer/transport"
	"github.com/GoSim-25-26J-441/tee-designer/internal/realtime"
)

// SceneFactory builds the scene once its rendering dependencies are available.
// An error means "not ready yet"; the designer retries on the next command.
type SceneFactory func() (scene.Scene, error)

// Deps are the collaborators shared by every designer session.
type Deps struct {
	Persistence      *persistence.Service
	Compositor       *compositor.Compositor
	Transport        transport.Transport
	Area             domain.SafeArea
	ExportMultiplier float64
	NewScene         SceneFactory
}

// State is the UI-visible view of a designer session
type State struct {
	Ready      bool                     `json:"ready"`
	Layers     []domain.LayerEntry      `json:"layers"`
	Objects    []domain.SceneObject     `json:"objects"`
	Selected   string                   `json:"selected,omitempty"`
	Attributes domain.ProductAttributes `json:"attributes"`
	Filter     string                   `json:"filter"`
	SafeArea   domain.SafeArea          `json:"safe_area"`
}

// UploadResult reports the outcome of an asynchronous image upload.
// Dropped means the scene was reset or disposed before the decode finished.
type UploadResult struct {
	ID      string
	Dropped bool
	Err     error
}

// Export is a rendered composite ready for download
type Export struct {
	PNG      []byte
	FileName string
}

// Designer owns one editing session: the scene, its layer list, product attributes and the
// change feed. A mutex serializes every command, standing in for the browser's event queue.
type Designer struct {
	mu       sync.Mutex
	slot     string
	deps     Deps
	scene    scene.Scene
	registry *layers.Registry
	policy   *constraint.Policy
	product  *product.State
	events   *realtime.Broadcaster
	epoch    uint64
	disposed bool
	lastUsed time.Time
	unsub    func()
}

// NewDesigner creates a session writing to slot. The scene is built lazily.
func NewDesigner(slot string, deps Deps) *Designer {
	if deps.ExportMultiplier <= 0 {
		deps.ExportMultiplier = domain.ExportMultiplier
	}
	d := &Designer{
		slot:     slot,
		deps:     deps,
		policy:   constraint.NewPolicy(deps.Area),
		product:  product.NewState(),
		events:   realtime.NewBroadcaster(),
		lastUsed: time.Now(),
	}
	d.product.OnChange(d.publishProduct)
	return d
}

func (d *Designer) Slot() string { return d.slot }

// ensureReady builds the scene on first use. Caller holds d.mu.
func (d *Designer) ensureReady(ctx context.Context, op string) bool {
	d.lastUsed = time.Now()
	if d.disposed {
		NewLogger(ctx).WithSession(d.slot).LogWarnf(op, "message=%q", "designer disposed, command ignored")
		return false
	}
	if d.scene != nil {
		return true
	}
	if d.deps.NewScene == nil {
		return false
	}
	s, err := d.deps.NewScene()
	if err != nil {
		NewLogger(ctx).WithSession(d.slot).LogWarnf(op, "message=%q error=%v", "renderer not ready, command ignored", err)
		return false
	}
	d.scene = s
	d.registry = layers.NewRegistry(s)
	d.unsub = s.Subscribe(d.publishScene)
	return true
}

// Ready reports whether the scene is available, building it if possible.
func (d *Designer) Ready(ctx context.Context) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ensureReady(ctx, "ready")
}

type feedEvent struct {
	Event      string                    `json:"event"`
	ObjectID   string                    `json:"object_id,omitempty"`
	Layers     []domain.LayerEntry       `json:"layers,omitempty"`
	Selected   string                    `json:"selected,omitempty"`
	Attributes *domain.ProductAttributes `json:"attributes,omitempty"`
	Filter     string                    `json:"filter,omitempty"`
}

// publishScene runs synchronously inside scene mutations, after the registry rebuilt.
func (d *Designer) publishScene(ev scene.Event) {
	sel, _ := d.scene.Selected()
	d.publish(feedEvent{
		Event:    string(ev.Type),
		ObjectID: ev.ObjectID,
		Layers:   d.registry.Entries(),
		Selected: sel,
	})
}

func (d *Designer) publishProduct(attrs domain.ProductAttributes, f product.Filter) {
	d.publish(feedEvent{
		Event:      "product:changed",
		Attributes: &attrs,
		Filter:     f.String(),
	})
}

func (d *Designer) publish(ev feedEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	d.events.Publish(data)
}

// Subscribe returns a channel of JSON encoded change events.
func (d *Designer) Subscribe() chan []byte { return d.events.Subscribe() }

func (d *Designer) Unsubscribe(ch chan []byte) { d.events.Unsubscribe(ch) }

// State returns the current session view.
func (d *Designer) State(ctx context.Context) State {
	d.mu.Lock()
	defer d.mu.Unlock()

	st := State{
		Ready:      d.ensureReady(ctx, "state"),
		Layers:     []domain.LayerEntry{},
		Objects:    []domain.SceneObject{},
		Attributes: d.product.Attributes(),
		Filter:     d.product.Filter().String(),
		SafeArea:   d.deps.Area,
	}
	if st.Ready {
		st.Layers = d.registry.Entries()
		st.Objects = d.scene.Objects()
		st.Selected, _ = d.scene.Selected()
	}
	return st
}

// Layers returns the layer list; empty when the scene is not ready.
func (d *Designer) Layers(ctx context.Context) []domain.LayerEntry {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.ensureReady(ctx, "layers") {
		return []domain.LayerEntry{}
	}
	return d.registry.Entries()
}

// AddText adds a text layer centered in the safe area and selects it.
func (d *Designer) AddText(ctx context.Context, content string, style domain.TextStyle) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.ensureReady(ctx, "add_text") {
		return "", nil
	}
	id, err := d.scene.AddText(content, style)
	if err != nil {
		return "", err
	}
	NewLogger(ctx).WithSession(d.slot).LogInfof("add_text", "object_id=%s", id)
	return id, nil
}

// AddImageAsync decodes r off the session lock and adds the image when decoding completes.
// If the scene is reset, restored or disposed meanwhile, the result is dropped.
func (d *Designer) AddImageAsync(ctx context.Context, r io.Reader) <-chan UploadResult {
	out := make(chan UploadResult, 1)

	d.mu.Lock()
	ready := d.ensureReady(ctx, "upload")
	epoch := d.epoch
	d.mu.Unlock()

	if !ready {
		out <- UploadResult{Dropped: true}
		close(out)
		return out
	}

	log := NewLogger(ctx).WithSession(d.slot)
	go func() {
		defer close(out)
		img, decodeErr := scene.DecodeImage(r)

		d.mu.Lock()
		defer d.mu.Unlock()
		if d.disposed || d.scene == nil || d.epoch != epoch {
			log.LogInfof("upload", "message=%q", "scene changed during upload, image dropped")
			out <- UploadResult{Dropped: true}
			return
		}
		if decodeErr != nil {
			log.LogWarnf("upload", "error=%v", decodeErr)
			out <- UploadResult{Err: decodeErr}
			return
		}
		id, err := d.scene.AddImage(img)
		if err == nil {
			log.LogInfof("upload", "object_id=%s", id)
		}
		out <- UploadResult{ID: id, Err: err}
	}()
	return out
}

// AddImage is the blocking form of AddImageAsync.
func (d *Designer) AddImage(ctx context.Context, r io.Reader) (UploadResult, error) {
	select {
	case res := <-d.AddImageAsync(ctx, r):
		return res, res.Err
	case <-ctx.Done():
		return UploadResult{}, ctx.Err()
	}
}

// Remove deletes an object by id.
func (d *Designer) Remove(ctx context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.ensureReady(ctx, "remove") {
		return nil
	}
	return d.scene.RemoveObject(id)
}

// RemoveSelected deletes the active object.
func (d *Designer) RemoveSelected(ctx context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.ensureReady(ctx, "remove_selected") {
		return "", nil
	}
	id, ok := d.scene.Selected()
	if !ok {
		return "", domain.ErrNoSelection
	}
	return id, d.scene.RemoveObject(id)
}

// Clear empties the scene. In-flight uploads started before the clear are dropped.
func (d *Designer) Clear(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.ensureReady(ctx, "clear") {
		return
	}
	d.epoch++
	d.scene.Clear()
}

// Select makes id the active object.
func (d *Designer) Select(ctx context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.ensureReady(ctx, "select") {
		return nil
	}
	if id == "" {
		d.scene.ClearSelection()
		return nil
	}
	return d.scene.Select(id)
}

// Move is one tick of an interactive drag. The result is clamped to the safe area.
func (d *Designer) Move(ctx context.Context, id string, x, y float64) (domain.Transform, error) {
	return d.transform(ctx, "move", id, func(t *domain.Transform) {
		t.X, t.Y = x, y
	})
}

// Scale is one tick of an interactive resize. The size is kept; only the position is clamped.
func (d *Designer) Scale(ctx context.Context, id string, scaleX, scaleY float64) (domain.Transform, error) {
	if !(scaleX > 0 && scaleY > 0) || scaleX > domain.MaxScale || scaleY > domain.MaxScale {
		return domain.Transform{}, fmt.Errorf("%w: scale must be in (0, %d]", domain.ErrInvalidTransform, domain.MaxScale)
	}
	return d.transform(ctx, "scale", id, func(t *domain.Transform) {
		t.ScaleX, t.ScaleY = scaleX, scaleY
	})
}

func (d *Designer) transform(ctx context.Context, op, id string, mutate func(*domain.Transform)) (domain.Transform, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.ensureReady(ctx, op) {
		return domain.Transform{}, nil
	}
	obj, ok := d.scene.Object(id)
	if !ok {
		return domain.Transform{}, fmt.Errorf("%w: %s", domain.ErrObjectNotFound, id)
	}
	next := obj.Transform
	mutate(&next)
	next = d.policy.Apply(obj, next)
	if err := domain.CheckTransform(next, obj.Width, obj.Height); err != nil {
		return domain.Transform{}, err
	}
	if err := d.scene.SetTransform(id, next); err != nil {
		return domain.Transform{}, err
	}
	NewLogger(ctx).WithSession(d.slot).LogDebugf(op, "object_id=%s x=%.2f y=%.2f", id, next.X, next.Y)
	return next, nil
}

// TextEdit carries optional content and style changes for a text object.
type TextEdit struct {
	Content *string
	Style   *domain.TextStyle
}

// EditText applies a text edit and re-clamps the object since its size may have changed.
func (d *Designer) EditText(ctx context.Context, id string, edit TextEdit) (domain.SceneObject, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.ensureReady(ctx, "edit_text") {
		return domain.SceneObject{}, nil
	}
	obj, ok := d.scene.Object(id)
	if !ok {
		return domain.SceneObject{}, fmt.Errorf("%w: %s", domain.ErrObjectNotFound, id)
	}
	if obj.Kind != domain.KindText {
		return domain.SceneObject{}, domain.ErrNotText
	}

	content := obj.Content
	if edit.Content != nil {
		content = *edit.Content
	}
	style := *obj.Style
	if edit.Style != nil {
		style = *edit.Style
	}
	if err := d.scene.UpdateText(id, content, style); err != nil {
		return domain.SceneObject{}, err
	}

	obj, _ = d.scene.Object(id)
	if next := d.policy.Apply(obj, obj.Transform); next != obj.Transform {
		if err := d.scene.SetTransform(id, next); err != nil {
			return domain.SceneObject{}, err
		}
		obj.Transform = next
	}
	return obj, nil
}

// SetColor changes the garment color and recomputes the base image filter.
func (d *Designer) SetColor(ctx context.Context, hex string) (product.Filter, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lastUsed = time.Now()
	if err := d.product.SetColor(hex); err != nil {
		return product.Filter{}, err
	}
	return d.product.Filter(), nil
}

// SetSize changes the garment size.
func (d *Designer) SetSize(ctx context.Context, size domain.Size) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lastUsed = time.Now()
	return d.product.SetSize(size)
}

// Attributes returns the garment selection and its filter.
func (d *Designer) Attributes() (domain.ProductAttributes, product.Filter) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.product.Attributes(), d.product.Filter()
}

// Snapshot captures the scene and product attributes.
func (d *Designer) Snapshot(ctx context.Context) (domain.DesignSnapshot, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.ensureReady(ctx, "snapshot") {
		return domain.DesignSnapshot{}, false, nil
	}
	snap, err := d.snapshot()
	return snap, true, err
}

func (d *Designer) snapshot() (domain.DesignSnapshot, error) {
	canvas, err := d.scene.Serialize()
	if err != nil {
		return domain.DesignSnapshot{}, err
	}
	attrs := d.product.Attributes()
	return domain.DesignSnapshot{Canvas: canvas, Color: attrs.Color, Size: attrs.Size}, nil
}

// Save persists the session to its slot. The scene is not affected by failures.
func (d *Designer) Save(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.ensureReady(ctx, "save") {
		return nil
	}
	log := NewLogger(ctx).WithSession(d.slot)

	snap, err := d.snapshot()
	if err != nil {
		log.LogError("save", err)
		return err
	}
	if err := d.deps.Persistence.Save(ctx, d.slot, snap); err != nil {
		log.LogError("save", err)
		return err
	}
	log.LogInfof("save", "objects=%d bytes=%d", d.scene.Len(), len(snap.Canvas))
	return nil
}

// Load restores the session from its slot. On any failure the scene and attributes are unchanged.
func (d *Designer) Load(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.ensureReady(ctx, "load") {
		return nil
	}
	log := NewLogger(ctx).WithSession(d.slot)

	snap, err := d.deps.Persistence.Load(ctx, d.slot)
	if err != nil {
		if !errors.Is(err, domain.ErrSnapshotNotFound) {
			log.LogError("load", err)
		}
		return err
	}
	if err := d.restore(snap); err != nil {
		log.LogError("load", err)
		return err
	}
	log.LogInfof("load", "objects=%d color=%s size=%s", d.scene.Len(), snap.Color, snap.Size)
	return nil
}

// Restore applies an already decoded snapshot.
func (d *Designer) Restore(ctx context.Context, snap domain.DesignSnapshot) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.ensureReady(ctx, "restore") {
		return nil
	}
	return d.restore(snap)
}

func (d *Designer) restore(snap domain.DesignSnapshot) error {
	attrs := snap.Attributes()
	if _, err := product.NormalizeHex(attrs.Color); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMalformedSnapshot, err)
	}
	if _, err := domain.ParseSize(string(attrs.Size)); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMalformedSnapshot, err)
	}
	if err := d.scene.Restore(snap.Canvas); err != nil {
		return err
	}
	d.epoch++
	return d.product.Replace(attrs)
}

// DeleteDraft removes the saved snapshot for this session.
func (d *Designer) DeleteDraft(ctx context.Context) error {
	return d.deps.Persistence.Clear(ctx, d.slot)
}

func (d *Designer) render(multiplier float64) (Export, error) {
	if multiplier <= 0 {
		multiplier = d.deps.ExportMultiplier
	}
	multiplier = math.Min(multiplier, domain.MaxExportMultiplier)
	img, err := d.deps.Compositor.Render(d.scene, d.product.Filter(), multiplier)
	if err != nil {
		return Export{}, err
	}
	data, err := compositor.EncodePNG(img)
	if err != nil {
		return Export{}, err
	}
	return Export{PNG: data, FileName: d.deps.Compositor.FileName(time.Now())}, nil
}

// Export renders the flattened design. ok is false when the scene is not ready.
func (d *Designer) Export(ctx context.Context, multiplier float64) (Export, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.ensureReady(ctx, "export") {
		return Export{}, false, nil
	}
	exp, err := d.render(multiplier)
	if err != nil {
		NewLogger(ctx).WithSession(d.slot).LogError("export", err)
		return Export{}, true, err
	}
	return exp, true, nil
}

// Submit renders the design exactly like Export and hands it to the transport.
// The transport call happens outside the session lock.
func (d *Designer) Submit(ctx context.Context) (*transport.Ack, error) {
	d.mu.Lock()
	if !d.ensureReady(ctx, "submit") {
		d.mu.Unlock()
		return nil, nil
	}
	exp, err := d.render(0)
	attrs := d.product.Attributes()
	d.mu.Unlock()
	if err != nil {
		return nil, err
	}

	log := NewLogger(ctx).WithSession(d.slot)
	ack, err := d.deps.Transport.Submit(ctx, transport.Submission{
		Image: compositor.DataURL(exp.PNG),
		Color: attrs.Color,
		Size:  attrs.Size,
	})
	if err != nil {
		log.LogError("submit", err)
		return nil, err
	}
	log.LogInfof("submit", "transport=%s ack=%s", ack.Transport, ack.ID)
	return ack, nil
}

// LastUsed is the time of the most recent command
func (d *Designer) LastUsed() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastUsed
}

// Dispose tears the session down. Pending uploads are dropped and later commands no-op.
func (d *Designer) Dispose() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.disposed {
		return
	}
	d.disposed = true
	d.epoch++
	if d.unsub != nil {
		d.unsub()
	}
	if d.registry != nil {
		d.registry.Close()
	}
	d.scene = nil
	d.events.Close()
}
