package imaging

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/wcs-tools-mcp/internal/wcs"
)

// maxScaledSide caps either side of a resized cutout, in output pixels.
const maxScaledSide = 8192

// CutoutOptions controls Cutout.
type CutoutOptions struct {
	// HalfSize is the distance in source pixels from the centre pixel to the
	// cutout edge; the requested cutout is 2*HalfSize+1 pixels square.
	HalfSize int
	// Scale resizes the cutout; 1 or 0 keeps the source resolution. Neither
	// output side may exceed 8192 pixels.
	Scale float64
	// MaxSize caps the requested side in source pixels; 0 disables the cap.
	MaxSize int
	Gamma   float64
	Format  string
	// FITSOrientation returns rows bottom-up, matching FITS pixel order.
	FITSOrientation bool
}

// CutoutResult contains the cutout image data.
type CutoutResult struct {
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	ImageBase64 string    `json:"image_base64"`
	MimeType    string    `json:"mime_type"`
	Center      wcs.Pixel `json:"center_pixel"`
	// Region is the raster rectangle that was cut, after clipping.
	Region  Rect `json:"region"`
	Clipped bool `json:"clipped"`
}

// Rect is a raster rectangle; (X1, Y1) inclusive, (X2, Y2) exclusive.
type Rect struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Cutout extracts a square around the pixel of (ra, dec). A square that
// extends past the image edge is clipped and reported as Clipped. A position
// that projects outside the image is an error.
func Cutout(img image.Image, m *wcs.Mapper, ra, dec float64, opts CutoutOptions) (*CutoutResult, error) {
	if opts.HalfSize < 1 {
		return nil, fmt.Errorf("half size must be at least 1, got %d", opts.HalfSize)
	}
	if opts.MaxSize > 0 && opts.HalfSize > (opts.MaxSize-1)/2 {
		return nil, fmt.Errorf("cutout half size %d exceeds limit: the side may be at most %d", opts.HalfSize, opts.MaxSize)
	}
	if math.IsNaN(opts.Scale) || math.IsInf(opts.Scale, 0) || opts.Scale < 0 {
		return nil, fmt.Errorf("scale must be a positive number, got %g", opts.Scale)
	}

	bounds := img.Bounds()
	p, pt, err := locate(m, ra, dec, bounds)
	if err != nil {
		return nil, err
	}

	// any half size past the image extent cuts the same region
	half := opts.HalfSize
	if limit := bounds.Dx() + bounds.Dy(); half > limit {
		half = limit
	}
	want := image.Rect(pt.X-half, pt.Y-half, pt.X+half+1, pt.Y+half+1)
	region := want.Intersect(bounds)

	cut := imaging.Crop(img, region)
	if opts.Scale != 1.0 && opts.Scale > 0 {
		fw := float64(cut.Bounds().Dx()) * opts.Scale
		fh := float64(cut.Bounds().Dy()) * opts.Scale
		if fw > maxScaledSide || fh > maxScaledSide {
			return nil, fmt.Errorf("scaled cutout %.0fx%.0f exceeds limit %d", fw, fh, maxScaledSide)
		}
		w, h := int(fw), int(fh)
		if w < 1 || h < 1 {
			return nil, fmt.Errorf("scale %g reduces the cutout to nothing", opts.Scale)
		}
		cut = imaging.Resize(cut, w, h, imaging.Lanczos)
	}
	if opts.FITSOrientation {
		cut = imaging.FlipV(cut)
	}
	out := Stretch(cut, opts.Gamma)

	encoded, mime, err := encodeBase64(out, opts.Format)
	if err != nil {
		return nil, err
	}

	return &CutoutResult{
		Width:       out.Bounds().Dx(),
		Height:      out.Bounds().Dy(),
		ImageBase64: encoded,
		MimeType:    mime,
		Center:      p,
		Region:      Rect{X1: region.Min.X, Y1: region.Min.Y, X2: region.Max.X, Y2: region.Max.Y},
		Clipped:     region != want,
	}, nil
}

// locate projects (ra, dec) to a WCS pixel and the matching raster point
// inside bounds.
func locate(m *wcs.Mapper, ra, dec float64, bounds image.Rectangle) (wcs.Pixel, image.Point, error) {
	p, err := m.CoordinateToPixel(ra, dec)
	if err != nil {
		return wcs.Pixel{}, image.Point{}, fmt.Errorf("position (%g, %g) cannot be projected: %w", ra, dec, err)
	}
	pt := ToRaster(p, bounds.Dy()).Add(bounds.Min)
	if !pt.In(bounds) {
		return p, pt, fmt.Errorf("position (%g, %g) falls outside the image at pixel (%d, %d)", ra, dec, p.X, p.Y)
	}
	return p, pt, nil
}
