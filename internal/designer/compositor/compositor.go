// Package compositor flattens the garment base image and the design overlay into one raster.
package compositor

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"time"

	"golang.org/x/image/draw"

	"github.com/GoSim-25-26J-441/tee-designer/internal/designer/domain"
	"github.com/GoSim-25-26J-441/tee-designer/internal/designer/product"
	"github.com/GoSim-25-26J-441/tee-designer/internal/designer/scene"
)

// Rasterizer renders the overlay scene at a scale of the base canvas.
type Rasterizer interface {
	Rasterize(scale float64) (*image.RGBA, error)
}

// Composite draws base scaled to size with filter applied, then overlay on top with alpha.
// A nil or fully transparent overlay yields the filtered base alone.
func Composite(base image.Image, filter product.Filter, overlay image.Image, size image.Point) *image.RGBA {
	out := FilteredBase(base, filter, size)
	if overlay != nil {
		drawScaled(out, overlay, draw.Over)
	}
	return out
}

// FilteredBase draws base into an output surface of size and applies filter.
func FilteredBase(base image.Image, filter product.Filter, size image.Point) *image.RGBA {
	out := image.NewRGBA(image.Rectangle{Max: size})
	if base != nil {
		drawScaled(out, base, draw.Src)
	}
	applyFilter(out, filter)
	return out
}

func drawScaled(dst *image.RGBA, src image.Image, op draw.Op) {
	sb := src.Bounds()
	if sb.Size() == dst.Bounds().Size() {
		draw.Draw(dst, dst.Bounds(), src, sb.Min, op)
		return
	}
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, sb, op, nil)
}

func applyFilter(img *image.RGBA, filter product.Filter) {
	if filter.Identity {
		return
	}
	pixel := filter.Pixel()
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			i := img.PixOffset(x, y)
			a := img.Pix[i+3]
			if a == 0 {
				continue
			}
			c := color.NRGBAModel.Convert(color.RGBA{
				R: img.Pix[i], G: img.Pix[i+1], B: img.Pix[i+2], A: a,
			}).(color.NRGBA)
			f := color.RGBAModel.Convert(pixel(c)).(color.RGBA)
			img.Pix[i], img.Pix[i+1], img.Pix[i+2] = f.R, f.G, f.B
		}
	}
}

// Compositor renders designs onto a fixed garment base image.
type Compositor struct {
	base    image.Image
	product string
}

// New creates a compositor. A nil base uses the built-in placeholder garment.
func New(base image.Image, productName string) *Compositor {
	if base == nil {
		base = PlaceholderBase()
	}
	if productName == "" {
		productName = "tshirt"
	}
	return &Compositor{base: base, product: productName}
}

func (c *Compositor) Base() image.Image { return c.base }

// Render composites the scene over the filtered base at multiplier times the canvas size.
func (c *Compositor) Render(s Rasterizer, filter product.Filter, multiplier float64) (*image.RGBA, error) {
	if multiplier <= 0 {
		multiplier = 1
	}
	overlay, err := s.Rasterize(multiplier)
	if err != nil {
		return nil, fmt.Errorf("failed to rasterize scene: %w", err)
	}
	return Composite(c.base, filter, overlay, overlay.Bounds().Size()), nil
}

// FileName is the download name for a design exported at t.
func (c *Compositor) FileName(t time.Time) string {
	return fmt.Sprintf("%s-design-%d.png", c.product, t.UnixMilli())
}

// EncodePNG encodes img as PNG bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// DataURL wraps PNG bytes as a base64 data URL.
func DataURL(pngData []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngData)
}

// LoadBase reads the garment base image from path; an empty path uses the placeholder.
func LoadBase(path string) (image.Image, error) {
	if path == "" {
		return PlaceholderBase(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open base image: %w", err)
	}
	defer f.Close()

	img, err := scene.DecodeImage(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load base image %s: %w", path, err)
	}
	return img, nil
}

// PlaceholderBase draws a plain white shirt silhouette on a transparent canvas.
func PlaceholderBase() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, domain.CanvasWidth, domain.CanvasHeight))
	white := image.NewUniform(color.White)

	draw.Draw(img, image.Rect(90, 70, 310, 480), white, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(30, 70, 90, 190), white, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(310, 70, 370, 190), white, image.Point{}, draw.Src)

	// neckline
	const cx, cy, r = 200, 70, 36
	for y := cy; y <= cy+r; y++ {
		for x := cx - r; x <= cx+r; x++ {
			if (x-cx)*(x-cx)+(y-cy)*(y-cy) <= r*r {
				img.SetRGBA(x, y, color.RGBA{})
			}
		}
	}
	return img
}
