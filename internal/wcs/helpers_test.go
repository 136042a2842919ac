package wcs

import (
	"math"
	"testing"
)

const tolerance = 1e-9

// tanHeader returns a minimal two-axis TAN header.
func tanHeader(crval1, crval2, crpix1, crpix2, cdelt1, cdelt2 float64) Header {
	return Header{
		"NAXIS":  2,
		"CTYPE1": "RA---TAN",
		"CTYPE2": "DEC--TAN",
		"CRVAL1": crval1,
		"CRVAL2": crval2,
		"CRPIX1": crpix1,
		"CRPIX2": crpix2,
		"CDELT1": cdelt1,
		"CDELT2": cdelt2,
	}
}

func mustMapper(t *testing.T, h Header) *Mapper {
	t.Helper()
	m, err := NewMapper(h)
	if err != nil {
		t.Fatalf("NewMapper failed: %v", err)
	}
	return m
}

func approx(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
