package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ironsheep/wcs-tools-mcp/internal/headers"
	"github.com/ironsheep/wcs-tools-mcp/internal/wcs"
)

var (
	red   = color.RGBA{255, 0, 0, 255}
	green = color.RGBA{0, 255, 0, 255}
	blue  = color.RGBA{0, 0, 255, 255}
	white = color.RGBA{255, 255, 255, 255}
	black = color.RGBA{0, 0, 0, 255}
)

func createInMemoryImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// createQuadrantImage returns red top-left, green top-right, blue bottom-left
// and white bottom-right quadrants, in raster orientation.
func createQuadrantImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var c color.Color
			switch {
			case x < width/2 && y < height/2:
				c = red
			case y < height/2:
				c = green
			case x < width/2:
				c = blue
			default:
				c = white
			}
			img.Set(x, y, c)
		}
	}
	return img
}

// writePNG writes img to a file in a per-test temp dir and returns its path.
func writePNG(t *testing.T, name string, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

// testMapper maps a 200x200 image 2°x2° around (150, 0). The tangent point
// is WCS pixel (100, 100), raster (99, 100); east is left.
func testMapper(t *testing.T) *wcs.Mapper {
	t.Helper()
	return newMapper(t, headers.TAN(150, 0, 100, 100, -0.01, 0.01).WithSize(200, 200).Build())
}

func newMapper(t *testing.T, h wcs.Header) *wcs.Mapper {
	t.Helper()
	m, err := wcs.NewMapper(h)
	if err != nil {
		t.Fatalf("NewMapper failed: %v", err)
	}
	return m
}

func decodePNG(t *testing.T, b64 string) image.Image {
	t.Helper()
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		t.Fatalf("failed to decode base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to decode PNG: %v", err)
	}
	return img
}

func rgbaAt(img image.Image, x, y int) color.RGBA {
	r, g, b, a := img.At(x, y).RGBA()
	return color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)}
}
