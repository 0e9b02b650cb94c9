package scene

import (
	"image"
	"math"

	"golang.org/x/image/draw"

	"github.com/GoSim-25-26J-441/tee-designer/internal/designer/domain"
	"github.com/GoSim-25-26J-441/tee-designer/internal/designer/product"
)

// maxTextRender caps the longer side of a rendered text bitmap; larger output is upscaled.
const maxTextRender = 4096

// Rasterize draws every object, bottom to top, onto a transparent canvas scaled by scale.
func (c *Canvas) Rasterize(scale float64) (*image.RGBA, error) {
	if scale <= 0 {
		scale = 1
	}
	scale = math.Min(scale, domain.MaxExportMultiplier)
	dst := image.NewRGBA(image.Rect(0, 0,
		int(math.Round(domain.CanvasWidth*scale)),
		int(math.Round(domain.CanvasHeight*scale))))

	for _, e := range c.entries {
		b := e.obj.Bounds()
		rect := image.Rect(
			int(math.Round(b.X*scale)),
			int(math.Round(b.Y*scale)),
			int(math.Round((b.X+b.W)*scale)),
			int(math.Round((b.Y+b.H)*scale)),
		)
		if rect.Empty() || !rect.Overlaps(dst.Bounds()) {
			continue
		}

		src, err := c.source(e, scale)
		if err != nil {
			return nil, err
		}
		draw.CatmullRom.Scale(dst, rect, src, src.Bounds(), draw.Over, nil)
	}
	return dst, nil
}

func (c *Canvas) source(e *entry, scale float64) (image.Image, error) {
	if e.obj.Kind == domain.KindImage {
		return e.img, nil
	}
	style := *e.obj.Style
	fill, err := product.ParseHex(style.Fill)
	if err != nil {
		return nil, err
	}
	return c.fonts.Render(e.obj.Content, style, fill, textRenderFactor(e.obj, scale))
}

// textRenderFactor draws glyphs at output resolution so scaled-up text stays sharp,
// up to maxTextRender pixels on the longer side.
func textRenderFactor(obj domain.SceneObject, scale float64) float64 {
	k := scale * math.Max(obj.Transform.ScaleX, obj.Transform.ScaleY)
	if side := math.Max(obj.Width, obj.Height); side > 0 {
		k = math.Min(k, maxTextRender/side)
	}
	return k
}
