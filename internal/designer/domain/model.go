package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Canvas geometry shared by the scene and the compositor.
const (
	CanvasWidth      = 400
	CanvasHeight     = 500
	ExportMultiplier = 2
)

// Limits on interactive scaling and export resolution.
const (
	MaxScale            = 20
	MaxExtent           = 4 // a scaled object spans at most this many canvases per axis
	MaxExportMultiplier = 8
)

// ObjectKind discriminates scene objects
type ObjectKind string

const (
	KindText  ObjectKind = "text"
	KindImage ObjectKind = "image"
)

// OriginMode tells whether Transform.X/Y address the object's center or its top-left corner.
type OriginMode string

const (
	OriginCenter  OriginMode = "center"
	OriginTopLeft OriginMode = "top-left"
)

// Transform positions and scales a scene object on the canvas
type Transform struct {
	X      float64    `json:"x"`
	Y      float64    `json:"y"`
	ScaleX float64    `json:"scale_x"`
	ScaleY float64    `json:"scale_y"`
	Origin OriginMode `json:"origin"`
}

// TextStyle describes how a text object is drawn
type TextStyle struct {
	FontFamily string  `json:"font_family"`
	FontSize   float64 `json:"font_size"`
	Fill       string  `json:"fill"`
	Bold       bool    `json:"bold"`
	Italic     bool    `json:"italic"`
	Align      string  `json:"align"`
}

// Text alignment values
const (
	AlignLeft   = "left"
	AlignCenter = "center"
	AlignRight  = "right"
)

// Font size bounds offered by the designer UI.
const (
	MinFontSize = 10
	MaxFontSize = 72
)

// DefaultTextStyle returns the style the designer starts with.
func DefaultTextStyle() TextStyle {
	return TextStyle{
		FontFamily: "Arial",
		FontSize:   24,
		Fill:       "#000000",
		Align:      AlignCenter,
	}
}

// Normalize fills zero values with defaults and clamps the font size.
func (s TextStyle) Normalize() TextStyle {
	def := DefaultTextStyle()
	if s.FontFamily == "" {
		s.FontFamily = def.FontFamily
	}
	if s.FontSize == 0 {
		s.FontSize = def.FontSize
	}
	if s.FontSize < MinFontSize {
		s.FontSize = MinFontSize
	}
	if s.FontSize > MaxFontSize {
		s.FontSize = MaxFontSize
	}
	if s.Fill == "" {
		s.Fill = def.Fill
	}
	switch s.Align {
	case AlignLeft, AlignCenter, AlignRight:
	default:
		s.Align = def.Align
	}
	return s
}

// SceneObject is a text or image layer on the design canvas.
// Width and Height are the intrinsic, unscaled extent of the object.
type SceneObject struct {
	ID        string     `json:"id"`
	Kind      ObjectKind `json:"kind"`
	Content   string     `json:"content,omitempty"`
	Style     *TextStyle `json:"style,omitempty"`
	Source    string     `json:"source,omitempty"`
	Transform Transform  `json:"transform"`
	Width     float64    `json:"width"`
	Height    float64    `json:"height"`
}

// Bounds returns the object's bounding box on the canvas
func (o SceneObject) Bounds() Rect {
	return BoundsFor(o.Transform, o.Width, o.Height)
}

// BoundsFor computes the bounding box of an object of intrinsic size w x h under t.
func BoundsFor(t Transform, w, h float64) Rect {
	sw := w * t.ScaleX
	sh := h * t.ScaleY
	r := Rect{X: t.X, Y: t.Y, W: sw, H: sh}
	if t.Origin == OriginCenter {
		r.X -= sw / 2
		r.Y -= sh / 2
	}
	return r
}

// CheckTransform validates t for an object of intrinsic size w x h.
// Errors wrap ErrInvalidTransform.
func CheckTransform(t Transform, w, h float64) error {
	for _, v := range []float64{t.X, t.Y, t.ScaleX, t.ScaleY} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: values must be finite", ErrInvalidTransform)
		}
	}
	if t.ScaleX <= 0 || t.ScaleY <= 0 {
		return fmt.Errorf("%w: scale must be positive", ErrInvalidTransform)
	}
	if t.ScaleX > MaxScale || t.ScaleY > MaxScale {
		return fmt.Errorf("%w: scale above %d", ErrInvalidTransform, MaxScale)
	}
	if w*t.ScaleX > MaxExtent*CanvasWidth || h*t.ScaleY > MaxExtent*CanvasHeight {
		return fmt.Errorf("%w: scaled object larger than %dx the canvas", ErrInvalidTransform, MaxExtent)
	}
	if math.Abs(t.X) > MaxExtent*CanvasWidth || math.Abs(t.Y) > MaxExtent*CanvasHeight {
		return fmt.Errorf("%w: position too far outside the canvas", ErrInvalidTransform)
	}
	return nil
}

// Rect is an axis aligned box in canvas pixels
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// SafeArea is the printable region objects must stay within.
type SafeArea struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// DefaultSafeArea is the chest print area of the 400x500 garment canvas.
func DefaultSafeArea() SafeArea {
	return SafeArea{MinX: 50, MinY: 100, MaxX: 350, MaxY: 300}
}

// Center returns the midpoint of the area
func (a SafeArea) Center() (float64, float64) {
	return (a.MinX + a.MaxX) / 2, (a.MinY + a.MaxY) / 2
}

func (a SafeArea) Width() float64  { return a.MaxX - a.MinX }
func (a SafeArea) Height() float64 { return a.MaxY - a.MinY }

// LayerEntry is one row of the UI layer list. Entries are rebuilt, never mutated.
type LayerEntry struct {
	ID    string     `json:"id"`
	Kind  ObjectKind `json:"kind"`
	Label string     `json:"label"`
}

// Size is the garment size
type Size string

const (
	SizeS    Size = "S"
	SizeM    Size = "M"
	SizeL    Size = "L"
	SizeXL   Size = "XL"
	SizeXXL  Size = "XXL"
	SizeXXXL Size = "XXXL"
)

// Sizes lists every supported garment size in display order.
func Sizes() []Size {
	return []Size{SizeS, SizeM, SizeL, SizeXL, SizeXXL, SizeXXXL}
}

// ParseSize validates a size string
func ParseSize(s string) (Size, error) {
	up := Size(strings.ToUpper(strings.TrimSpace(s)))
	for _, v := range Sizes() {
		if v == up {
			return v, nil
		}
	}
	return "", ErrInvalidSize
}

// ProductAttributes is the garment selection the design is printed on
type ProductAttributes struct {
	Color string `json:"color"`
	Size  Size   `json:"size"`
}

// DefaultProductAttributes is a white medium shirt.
func DefaultProductAttributes() ProductAttributes {
	return ProductAttributes{Color: "#FFFFFF", Size: SizeM}
}

// DesignSnapshot is the unit of persistence: the serialized scene plus product attributes.
// Canvas is kept as raw bytes so a loaded snapshot saves back unchanged.
type DesignSnapshot struct {
	Canvas json.RawMessage `json:"canvas"`
	Color  string          `json:"color"`
	Size   Size            `json:"size"`
}

// Attributes returns the product part of the snapshot.
func (s DesignSnapshot) Attributes() ProductAttributes {
	return ProductAttributes{Color: s.Color, Size: s.Size}
}
