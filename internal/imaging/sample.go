package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/wcs-tools-mcp/internal/wcs"
)

// RGBAColor represents an RGBA color with 8-bit components.
type RGBAColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// HSLColor represents a color in HSL space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees
	S int `json:"s"` // Saturation: 0-100 percent
	L int `json:"l"` // Lightness: 0-100 percent
}

// ColorResult contains a color value in several representations.
type ColorResult struct {
	Hex  string    `json:"hex"` // "#RRGGBB", alpha excluded
	RGBA RGBAColor `json:"rgba"`
	HSL  HSLColor  `json:"hsl"`
	// Luminance is the CIE L* lightness, 0-100.
	Luminance float64 `json:"luminance"`
}

// SkySample is the colour found at a sky position.
type SkySample struct {
	Label string      `json:"label,omitempty"`
	RA    float64     `json:"ra"`
	Dec   float64     `json:"dec"`
	Pixel wcs.Pixel   `json:"pixel"`
	Color ColorResult `json:"color"`
}

// SkyPoint is a sky position with an optional label.
type SkyPoint struct {
	RA    float64
	Dec   float64
	Label string
}

// MultiSampleResult contains samples in input order.
type MultiSampleResult struct {
	Samples []SkySample `json:"samples"`
}

// SampleAtCoordinate returns the colour of the pixel that (ra, dec) maps to.
// Positions outside the image are an error.
func SampleAtCoordinate(img image.Image, m *wcs.Mapper, ra, dec float64) (*SkySample, error) {
	p, pt, err := locate(m, ra, dec, img.Bounds())
	if err != nil {
		return nil, err
	}
	return &SkySample{
		RA:    ra,
		Dec:   dec,
		Pixel: p,
		Color: colorAt(img, pt),
	}, nil
}

// SampleAtCoordinates samples several sky positions. On the first failure no
// partial result is returned.
func SampleAtCoordinates(img image.Image, m *wcs.Mapper, points []SkyPoint) (*MultiSampleResult, error) {
	samples := make([]SkySample, 0, len(points))
	for _, sp := range points {
		s, err := SampleAtCoordinate(img, m, sp.RA, sp.Dec)
		if err != nil {
			return nil, fmt.Errorf("failed to sample (%g, %g): %w", sp.RA, sp.Dec, err)
		}
		s.Label = sp.Label
		samples = append(samples, *s)
	}
	return &MultiSampleResult{Samples: samples}, nil
}

func colorAt(img image.Image, pt image.Point) ColorResult {
	n := color.NRGBAModel.Convert(img.At(pt.X, pt.Y)).(color.NRGBA)
	c := colorful.Color{R: float64(n.R) / 255, G: float64(n.G) / 255, B: float64(n.B) / 255}

	h, s, l := c.Hsl()
	lum, _, _ := c.Lab()
	if math.IsNaN(h) {
		h = 0
	}

	return ColorResult{
		Hex:       strings.ToUpper(c.Hex()),
		RGBA:      RGBAColor{R: n.R, G: n.G, B: n.B, A: n.A},
		HSL:       HSLColor{H: int(h), S: int(s * 100), L: int(l * 100)},
		Luminance: math.Round(lum*1000) / 10,
	}
}
