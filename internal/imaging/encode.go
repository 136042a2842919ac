package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"

	"github.com/HugoSmits86/nativewebp"
	"github.com/disintegration/imaging"
)

// Output formats for rendered images.
const (
	FormatPNG  = "png"
	FormatWebP = "webp"
)

// encodeBase64 encodes img in the requested format and returns the base64
// payload and its MIME type. An empty format means PNG.
func encodeBase64(img image.Image, format string) (string, string, error) {
	var buf bytes.Buffer
	var mime string

	switch format {
	case "", FormatPNG:
		if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
			return "", "", fmt.Errorf("failed to encode image: %w", err)
		}
		mime = "image/png"
	case FormatWebP:
		if err := nativewebp.Encode(&buf, img, nil); err != nil {
			return "", "", fmt.Errorf("failed to encode image: %w", err)
		}
		mime = "image/webp"
	default:
		return "", "", fmt.Errorf("unsupported output format %q", format)
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes()), mime, nil
}
