package scene

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/GoSim-25-26J-441/tee-designer/internal/designer/domain"
	"github.com/GoSim-25-26J-441/tee-designer/internal/designer/product"
)

const documentVersion = 1

type document struct {
	Version int                  `json:"version"`
	Width   int                  `json:"width"`
	Height  int                  `json:"height"`
	Objects []domain.SceneObject `json:"objects"`
}

// Serialize encodes the scene as compact JSON. Output is deterministic for a given scene.
func (c *Canvas) Serialize() ([]byte, error) {
	doc := document{
		Version: documentVersion,
		Width:   domain.CanvasWidth,
		Height:  domain.CanvasHeight,
		Objects: c.Objects(),
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal scene: %w", err)
	}
	return data, nil
}

// Restore replaces the scene with the objects in blob. The blob is fully validated first;
// on error the scene is left untouched and the error wraps domain.ErrMalformedSnapshot.
func (c *Canvas) Restore(blob []byte) error {
	var doc document
	if err := json.Unmarshal(blob, &doc); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMalformedSnapshot, err)
	}
	if doc.Version > documentVersion {
		return fmt.Errorf("%w: unsupported scene version %d", domain.ErrMalformedSnapshot, doc.Version)
	}

	entries := make([]*entry, 0, len(doc.Objects))
	seen := make(map[string]bool, len(doc.Objects))
	for i, obj := range doc.Objects {
		e, err := c.rebuild(obj)
		if err != nil {
			return fmt.Errorf("%w: object %d: %v", domain.ErrMalformedSnapshot, i, err)
		}
		if seen[e.obj.ID] {
			return fmt.Errorf("%w: duplicate object id %s", domain.ErrMalformedSnapshot, e.obj.ID)
		}
		seen[e.obj.ID] = true
		entries = append(entries, e)
	}

	c.entries = entries
	c.selected = ""
	c.emit(EventRestored, "")
	return nil
}

func (c *Canvas) rebuild(obj domain.SceneObject) (*entry, error) {
	if obj.ID == "" {
		obj.ID = c.newID()
	}
	if err := validTransform(&obj.Transform); err != nil {
		return nil, err
	}

	switch obj.Kind {
	case domain.KindText:
		if strings.TrimSpace(obj.Content) == "" {
			return nil, domain.ErrEmptyText
		}
		style := domain.DefaultTextStyle()
		if obj.Style != nil {
			style = obj.Style.Normalize()
		}
		if _, err := product.ParseHex(style.Fill); err != nil {
			return nil, err
		}
		w, h, err := c.fonts.Measure(obj.Content, style)
		if err != nil {
			return nil, err
		}
		obj.Style = &style
		obj.Source = ""
		obj.Width, obj.Height = w, h
		if err := domain.CheckTransform(obj.Transform, w, h); err != nil {
			return nil, err
		}
		return &entry{obj: obj}, nil

	case domain.KindImage:
		img, err := DecodeDataURL(obj.Source)
		if err != nil {
			return nil, err
		}
		b := img.Bounds()
		obj.Style = nil
		obj.Content = ""
		obj.Width, obj.Height = float64(b.Dx()), float64(b.Dy())
		if err := domain.CheckTransform(obj.Transform, obj.Width, obj.Height); err != nil {
			return nil, err
		}
		return &entry{obj: obj, img: img}, nil
	}
	return nil, fmt.Errorf("unknown object kind %q", obj.Kind)
}

func validTransform(t *domain.Transform) error {
	for _, v := range []float64{t.X, t.Y, t.ScaleX, t.ScaleY} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("transform is not finite")
		}
	}
	if t.ScaleX <= 0 || t.ScaleY <= 0 {
		return fmt.Errorf("scale must be positive")
	}
	switch t.Origin {
	case "":
		t.Origin = domain.OriginCenter
	case domain.OriginCenter, domain.OriginTopLeft:
	default:
		return fmt.Errorf("unknown origin %q", t.Origin)
	}
	return nil
}
