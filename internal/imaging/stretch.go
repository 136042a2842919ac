package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/disintegration/imaging"
)

// Stretch returns an NRGBA copy of img with a display gamma applied. Gamma
// above 1 lifts faint sky background; 1 (or any non-positive value) copies
// the pixels unchanged.
func Stretch(img image.Image, gamma float64) *image.NRGBA {
	if gamma <= 0 || gamma == 1 {
		return imaging.Clone(img)
	}
	return imaging.Clone(adjust.Gamma(img, gamma))
}
