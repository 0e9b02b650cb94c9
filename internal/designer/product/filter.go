package product

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/GoSim-25-26J-441/tee-designer/internal/designer/domain"
)

// Adjustment is the empirically chosen brightness/saturation pair for a swatch.
type Adjustment struct {
	Brightness float64 `json:"brightness"`
	Saturation float64 `json:"saturation"`
}

// Swatch is one garment color offered in the designer
type Swatch struct {
	Name  string     `json:"name"`
	Value string     `json:"value"`
	Adj   Adjustment `json:"adjustment"`
}

const (
	White = "#FFFFFF"
	Black = "#000000"
)

var swatches = []Swatch{
	{Name: "white", Value: White, Adj: Adjustment{Brightness: 1, Saturation: 0}},
	{Name: "black", Value: Black, Adj: Adjustment{Brightness: 0, Saturation: 0}},
	{Name: "navy", Value: "#000080", Adj: Adjustment{Brightness: 0.7, Saturation: 2}},
	{Name: "red", Value: "#FF0000", Adj: Adjustment{Brightness: 0.9, Saturation: 2}},
	{Name: "green", Value: "#008000", Adj: Adjustment{Brightness: 0.8, Saturation: 2}},
	{Name: "yellow", Value: "#FFFF00", Adj: Adjustment{Brightness: 1, Saturation: 1.5}},
	{Name: "purple", Value: "#800080", Adj: Adjustment{Brightness: 0.7, Saturation: 2}},
	{Name: "gray", Value: "#808080", Adj: Adjustment{Brightness: 0.7, Saturation: 0.5}},
}

var adjustments = func() map[string]Adjustment {
	m := make(map[string]Adjustment, len(swatches))
	for _, s := range swatches {
		m[s.Value] = s.Adj
	}
	return m
}()

var defaultAdjustment = Adjustment{Brightness: 1, Saturation: 1}

// Swatches returns the supported garment colors in display order.
func Swatches() []Swatch {
	out := make([]Swatch, len(swatches))
	copy(out, swatches)
	return out
}

// AdjustmentFor looks up the swatch pair for hex, falling back to {1, 1}.
func AdjustmentFor(hex string) Adjustment {
	if adj, ok := adjustments[strings.ToUpper(hex)]; ok {
		return adj
	}
	return defaultAdjustment
}

// NormalizeHex validates a #RRGGBB color and returns it uppercased.
func NormalizeHex(hex string) (string, error) {
	hex = strings.TrimSpace(hex)
	if len(hex) != 7 || hex[0] != '#' {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidColor, hex)
	}
	if _, err := strconv.ParseUint(hex[1:], 16, 32); err != nil {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidColor, hex)
	}
	return strings.ToUpper(hex), nil
}

// ParseHex converts #RRGGBB to an opaque color.
func ParseHex(hex string) (color.NRGBA, error) {
	norm, err := NormalizeHex(hex)
	if err != nil {
		return color.NRGBA{}, err
	}
	v, _ := strconv.ParseUint(norm[1:], 16, 32)
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

// HueDegrees returns the HSL hue of hex in [0, 360). Greys have hue 0.
func HueDegrees(hex string) float64 {
	c, err := ParseHex(hex)
	if err != nil {
		return 0
	}
	r := float64(c.R) / 255
	g := float64(c.G) / 255
	b := float64(c.B) / 255

	maxC := math.Max(r, math.Max(g, b))
	minC := math.Min(r, math.Min(g, b))
	d := maxC - minC
	if d == 0 {
		return 0
	}

	var h float64
	switch maxC {
	case r:
		h = (g - b) / d
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	return h * 60
}

// Filter approximates a garment recolor on the white base image. It mirrors the CSS chain
// brightness(b) sepia(1) hue-rotate(h) saturate(s); Identity means no filter at all.
type Filter struct {
	Identity   bool    `json:"identity"`
	Brightness float64 `json:"brightness"`
	Saturation float64 `json:"saturation"`
	HueRotate  float64 `json:"hue_rotate"`
}

// IdentityFilter leaves pixels untouched.
func IdentityFilter() Filter {
	return Filter{Identity: true, Brightness: 1, Saturation: 1}
}

// FilterFor builds the filter for a garment color. White is the identity.
func FilterFor(hex string) Filter {
	norm, err := NormalizeHex(hex)
	if err != nil || norm == White {
		return IdentityFilter()
	}
	adj := AdjustmentFor(norm)
	return Filter{
		Brightness: adj.Brightness,
		Saturation: adj.Saturation,
		HueRotate:  HueDegrees(norm),
	}
}

// String renders the filter as a CSS filter value.
func (f Filter) String() string {
	if f.Identity {
		return "none"
	}
	return fmt.Sprintf("brightness(%s) sepia(1) hue-rotate(%sdeg) saturate(%s)",
		fmtNum(f.Brightness), fmtNum(f.HueRotate), fmtNum(f.Saturation))
}

func fmtNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

type matrix [3][3]float64

func (m matrix) apply(v [3]float64) [3]float64 {
	var out [3]float64
	for i := 0; i < 3; i++ {
		out[i] = clamp01(m[i][0]*v[0] + m[i][1]*v[1] + m[i][2]*v[2])
	}
	return out
}

var sepia = matrix{
	{0.393, 0.769, 0.189},
	{0.349, 0.686, 0.168},
	{0.272, 0.534, 0.131},
}

func hueRotate(deg float64) matrix {
	rad := deg * math.Pi / 180
	c, s := math.Cos(rad), math.Sin(rad)
	return matrix{
		{0.213 + c*0.787 - s*0.213, 0.715 - c*0.715 - s*0.715, 0.072 - c*0.072 + s*0.928},
		{0.213 - c*0.213 + s*0.143, 0.715 + c*0.285 + s*0.140, 0.072 - c*0.072 - s*0.283},
		{0.213 - c*0.213 - s*0.787, 0.715 - c*0.715 + s*0.715, 0.072 + c*0.928 + s*0.072},
	}
}

func saturate(s float64) matrix {
	return matrix{
		{0.213 + 0.787*s, 0.715 - 0.715*s, 0.072 - 0.072*s},
		{0.213 - 0.213*s, 0.715 + 0.285*s, 0.072 - 0.072*s},
		{0.213 - 0.213*s, 0.715 - 0.715*s, 0.072 + 0.928*s},
	}
}

// Pixel returns a per-pixel function for the filter. Alpha is preserved.
func (f Filter) Pixel() func(color.NRGBA) color.NRGBA {
	if f.Identity {
		return func(c color.NRGBA) color.NRGBA { return c }
	}
	hue := hueRotate(f.HueRotate)
	sat := saturate(f.Saturation)
	b := f.Brightness
	return func(c color.NRGBA) color.NRGBA {
		v := [3]float64{float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255}
		for i := range v {
			v[i] = clamp01(v[i] * b)
		}
		v = sepia.apply(v)
		v = hue.apply(v)
		v = sat.apply(v)
		return color.NRGBA{R: to8(v[0]), G: to8(v[1]), B: to8(v[2]), A: c.A}
	}
}

// Apply filters a single color.
func (f Filter) Apply(c color.NRGBA) color.NRGBA {
	return f.Pixel()(c)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func to8(v float64) uint8 {
	return uint8(math.Round(clamp01(v) * 255))
}
