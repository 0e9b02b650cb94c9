package scene

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/GoSim-25-26J-441/tee-designer/internal/designer/domain"
)

// lineHeight matches the browser canvas library's default line spacing.
const lineHeight = 1.16

// Fonts is the parsed font set used to measure and draw text objects.
// Parsed fonts are safe to share; faces are created per call.
type Fonts struct {
	regular    *opentype.Font
	bold       *opentype.Font
	italic     *opentype.Font
	boldItalic *opentype.Font
	mono       *opentype.Font
}

// LoadFonts parses the embedded Go font family.
func LoadFonts() (*Fonts, error) {
	var f Fonts
	for _, src := range []struct {
		name string
		ttf  []byte
		dst  **opentype.Font
	}{
		{"regular", goregular.TTF, &f.regular},
		{"bold", gobold.TTF, &f.bold},
		{"italic", goitalic.TTF, &f.italic},
		{"bold italic", gobolditalic.TTF, &f.boldItalic},
		{"mono", gomono.TTF, &f.mono},
	} {
		parsed, err := opentype.Parse(src.ttf)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s font: %w", src.name, err)
		}
		*src.dst = parsed
	}
	return &f, nil
}

func (f *Fonts) pick(style domain.TextStyle) *opentype.Font {
	family := strings.ToLower(style.FontFamily)
	if strings.Contains(family, "mono") || strings.Contains(family, "courier") {
		return f.mono
	}
	switch {
	case style.Bold && style.Italic:
		return f.boldItalic
	case style.Bold:
		return f.bold
	case style.Italic:
		return f.italic
	}
	return f.regular
}

func (f *Fonts) face(style domain.TextStyle, size float64) (font.Face, error) {
	return opentype.NewFace(f.pick(style), &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}

// Measure returns the intrinsic width and height of content drawn with style.
func (f *Fonts) Measure(content string, style domain.TextStyle) (float64, float64, error) {
	face, err := f.face(style, style.FontSize)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to create font face: %w", err)
	}
	defer face.Close()

	lines := strings.Split(content, "\n")
	var w fixed.Int26_6
	for _, line := range lines {
		if lw := font.MeasureString(face, line); lw > w {
			w = lw
		}
	}
	return float64(w) / 64, float64(len(lines)) * style.FontSize * lineHeight, nil
}

// Render draws content at k times its intrinsic size onto a transparent image.
func (f *Fonts) Render(content string, style domain.TextStyle, fill color.Color, k float64) (*image.RGBA, error) {
	size := style.FontSize * k
	face, err := f.face(style, size)
	if err != nil {
		return nil, fmt.Errorf("failed to create font face: %w", err)
	}
	defer face.Close()

	lines := strings.Split(content, "\n")
	widths := make([]fixed.Int26_6, len(lines))
	var maxW fixed.Int26_6
	for i, line := range lines {
		widths[i] = font.MeasureString(face, line)
		if widths[i] > maxW {
			maxW = widths[i]
		}
	}

	lineH := size * lineHeight
	w := int(math.Ceil(float64(maxW) / 64))
	h := int(math.Ceil(float64(len(lines)) * lineH))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))

	ascent := float64(face.Metrics().Ascent) / 64
	// center the glyph box vertically inside each line box
	pad := (lineH - float64(face.Metrics().Height)/64) / 2
	for i, line := range lines {
		var x fixed.Int26_6
		switch style.Align {
		case domain.AlignCenter:
			x = (maxW - widths[i]) / 2
		case domain.AlignRight:
			x = maxW - widths[i]
		}
		d := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(fill),
			Face: face,
			Dot: fixed.Point26_6{
				X: x,
				Y: fixed.Int26_6((float64(i)*lineH + pad + ascent) * 64),
			},
		}
		d.DrawString(line)
	}
	return img, nil
}
