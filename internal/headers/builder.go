package headers

import (
	"strconv"

	"github.com/ironsheep/wcs-tools-mcp/internal/wcs"
)

// Builder assembles a header programmatically.
type Builder struct {
	h wcs.Header
}

// NewBuilder starts an empty header.
func NewBuilder() *Builder {
	return &Builder{h: wcs.Header{}}
}

// TAN starts a two-axis RA---TAN / DEC--TAN header.
func TAN(crval1, crval2, crpix1, crpix2, cdelt1, cdelt2 float64) *Builder {
	return NewBuilder().
		WithNAXIS(2).
		WithAxis(1, string(wcs.RATan), crpix1, crval1, cdelt1).
		WithAxis(2, string(wcs.DecTan), crpix2, crval2, cdelt2)
}

// WithNAXIS sets NAXIS.
func (b *Builder) WithNAXIS(n int) *Builder {
	b.h["NAXIS"] = n
	return b
}

// WithAxis sets CTYPE, CRPIX, CRVAL and CDELT of axis i.
func (b *Builder) WithAxis(i int, ctype string, crpix, crval, cdelt float64) *Builder {
	n := strconv.Itoa(i)
	b.h["CTYPE"+n] = ctype
	b.h["CRPIX"+n] = crpix
	b.h["CRVAL"+n] = crval
	b.h["CDELT"+n] = cdelt
	return b
}

// WithSize sets NAXIS1 and NAXIS2, the image size in pixels.
func (b *Builder) WithSize(width, height int) *Builder {
	b.h["NAXIS1"] = width
	b.h["NAXIS2"] = height
	return b
}

// WithKeyword sets any keyword.
func (b *Builder) WithKeyword(key string, value interface{}) *Builder {
	b.h[key] = value
	return b
}

// Without removes a keyword.
func (b *Builder) Without(key string) *Builder {
	delete(b.h, key)
	return b
}

// Build returns a copy of the assembled header.
func (b *Builder) Build() wcs.Header {
	out := make(wcs.Header, len(b.h))
	for k, v := range b.h {
		out[k] = v
	}
	return out
}
