package scene

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"io"
	"strings"

	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/GoSim-25-26J-441/tee-designer/internal/designer/domain"
)

const pngDataURLPrefix = "data:image/png;base64,"

// maxDecodePixels bounds the decoded bitmap; headers are checked before any pixel allocation.
const maxDecodePixels = 24 << 20

// DecodeImage decodes any registered image format. Failures wrap domain.ErrDecodeFailure.
func DecodeImage(r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDecodeFailure, err)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDecodeFailure, err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxDecodePixels {
		return nil, fmt.Errorf("%w: image is %dx%d, above %d pixels", domain.ErrDecodeFailure, cfg.Width, cfg.Height, maxDecodePixels)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDecodeFailure, err)
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("%w: empty %s image", domain.ErrDecodeFailure, format)
	}
	return img, nil
}

// EncodeDataURL encodes img as a PNG data URL.
func EncodeDataURL(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode png: %w", err)
	}
	return pngDataURLPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// DecodeDataURL decodes a base64 image data URL of any registered format.
func DecodeDataURL(src string) (image.Image, error) {
	if !strings.HasPrefix(src, "data:image/") {
		return nil, fmt.Errorf("%w: not an image data url", domain.ErrDecodeFailure)
	}
	comma := strings.IndexByte(src, ',')
	if comma < 0 || !strings.HasSuffix(src[:comma], ";base64") {
		return nil, fmt.Errorf("%w: data url is not base64", domain.ErrDecodeFailure)
	}
	raw, err := base64.StdEncoding.DecodeString(src[comma+1:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDecodeFailure, err)
	}
	return DecodeImage(bytes.NewReader(raw))
}
