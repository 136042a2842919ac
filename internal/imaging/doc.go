// Package imaging provides WCS-aware operations on decoded sky images: sky
// grid overlays, cutouts around a sky position, colour sampling at a sky
// position, angular measurements between pixels and image footprints.
//
// # Pixel Conventions
//
// Two pixel frames meet in this package:
//   - WCS pixels (wcs.Pixel and float x, y arguments): FITS convention,
//     1-based, (1, 1) is the centre of the bottom-left pixel, y grows upward.
//   - Raster points (image.Point): Go image convention, 0-based, (0, 0) is the
//     top-left pixel, y grows downward.
//
// ToRaster and FromRaster convert between them for an image of a given
// height. All exported functions that take or return WCS pixels say so.
//
// # Formats
//
// ImageCache decodes PNG, JPEG, GIF, TGA and WebP. Rendered results are
// returned base64-encoded as PNG or WebP.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. The operations never modify their
// input image; they draw on copies.
package imaging
