package imaging

import (
	"image"

	"github.com/ironsheep/wcs-tools-mcp/internal/wcs"
)

// ToRaster converts a WCS pixel to a raster point in an image of the given
// height.
func ToRaster(p wcs.Pixel, height int) image.Point {
	return image.Point{X: p.X - 1, Y: height - p.Y}
}

// FromRaster converts a raster point to WCS pixel coordinates.
func FromRaster(pt image.Point, height int) (x, y float64) {
	return float64(pt.X + 1), float64(height - pt.Y)
}
