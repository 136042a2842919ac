package wcs

import (
	"errors"
	"fmt"
)

// ErrUnsupportedTransform is returned when the header does not describe a
// two-axis RA---TAN / DEC--TAN projection.
var ErrUnsupportedTransform = errors.New("unsupported transformation")

// ErrDegenerateGeometry is returned when a transform has no finite result,
// for example a sky position 90° from the tangent point or a zero CDELT.
var ErrDegenerateGeometry = errors.New("degenerate geometry")

// DimensionMismatchError reports a pixel coordinate list longer than NAXIS.
type DimensionMismatchError struct {
	Got   int // number of coordinates supplied
	NAXIS int // number of axes declared by the header
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("requires NAXIS to be >= length of pixel coordinate list (NAXIS=%d, got %d)", e.NAXIS, e.Got)
}

// MissingKeywordError reports a keyword a transform needed but the header
// did not carry.
type MissingKeywordError struct {
	Keyword string
}

func (e *MissingKeywordError) Error() string {
	return fmt.Sprintf("missing keyword %s", e.Keyword)
}
