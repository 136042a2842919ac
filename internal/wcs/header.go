package wcs

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Header is a FITS-style keyword/value mapping supplied by the caller.
//
// Values may be strings or any Go numeric type. Numeric keywords also accept
// numeric strings, since FITS readers differ in how they type card values.
// Header is read-only to this package.
type Header map[string]interface{}

// Projection is a supported CTYPE code.
type Projection string

const (
	// RATan is the longitude axis of a gnomonic RA/Dec projection.
	RATan Projection = "RA---TAN"
	// DecTan is the latitude axis of a gnomonic RA/Dec projection.
	DecTan Projection = "DEC--TAN"
)

// IsLongitude reports whether p is a longitude-axis code.
func (p Projection) IsLongitude() bool {
	return p == RATan
}

// IsLatitude reports whether p is a latitude-axis code.
func (p Projection) IsLatitude() bool {
	return p == DecTan
}

// ParseProjection returns the projection for a CTYPE value. Surrounding blanks
// are ignored because FITS string values are space padded.
func ParseProjection(ctype string) (Projection, bool) {
	switch p := Projection(strings.TrimSpace(ctype)); p {
	case RATan, DecTan:
		return p, true
	}
	return "", false
}

const (
	lonAxis = 1
	latAxis = 2
)

// axisConfig holds the per-axis keywords. A nil pointer means the keyword was
// absent from the header.
type axisConfig struct {
	naxis *int
	ctype *string
	cdelt *float64
	crpix *float64
	crval *float64
	cunit *string
}

// HeaderConfig is the immutable WCS subset of a header needed for a two-axis
// TAN transform. Absent keywords stay absent; the numeric accessors report
// them as *MissingKeywordError.
type HeaderConfig struct {
	naxis   *int
	lonpole *float64
	equinox *float64
	radesys *string
	axes    []axisConfig // axes[0] is axis 1
}

// BuildHeaderConfig validates the projection codes of h and copies the WCS
// keywords for axes 1..NAXIS.
//
// CTYPE1 must be RA---TAN and CTYPE2 must be DEC--TAN, otherwise the error
// wraps ErrUnsupportedTransform. No other keyword is required at this point;
// a missing CRPIX, CRVAL or CDELT is reported by the transform that needs it.
func BuildHeaderConfig(h Header) (*HeaderConfig, error) {
	if err := checkProjection(h); err != nil {
		return nil, err
	}

	cfg := &HeaderConfig{}

	if n, ok, err := intKeyword(h, "NAXIS"); err != nil {
		return nil, err
	} else if ok {
		if n < 0 || n > maxAxes {
			return nil, fmt.Errorf("keyword NAXIS: %d is outside 0..%d", n, maxAxes)
		}
		cfg.naxis = &n
	}

	if cfg.naxis != nil && *cfg.naxis > 0 {
		cfg.axes = make([]axisConfig, *cfg.naxis)
		for i := range cfg.axes {
			ax, err := readAxis(h, i+1)
			if err != nil {
				return nil, err
			}
			cfg.axes[i] = ax
		}
	}

	var err error
	if cfg.lonpole, err = optFloat(h, "LONPOLE"); err != nil {
		return nil, err
	}
	if cfg.equinox, err = optFloat(h, "EQUINOX"); err != nil {
		return nil, err
	}
	cfg.radesys = optString(h, "RADESYS")

	return cfg, nil
}

func checkProjection(h Header) error {
	lon, _ := ParseProjection(stringValue(h["CTYPE1"]))
	lat, _ := ParseProjection(stringValue(h["CTYPE2"]))
	if !lon.IsLongitude() || !lat.IsLatitude() {
		return fmt.Errorf("%w: CTYPE1=%q CTYPE2=%q", ErrUnsupportedTransform, stringValue(h["CTYPE1"]), stringValue(h["CTYPE2"]))
	}
	return nil
}

func readAxis(h Header, i int) (axisConfig, error) {
	var ax axisConfig
	var err error

	if n, ok, err := intKeyword(h, indexed("NAXIS", i)); err != nil {
		return ax, err
	} else if ok {
		ax.naxis = &n
	}
	ax.ctype = optString(h, indexed("CTYPE", i))
	ax.cunit = optString(h, indexed("CUNIT", i))
	if ax.cdelt, err = optFloat(h, indexed("CDELT", i)); err != nil {
		return ax, err
	}
	if ax.crpix, err = optFloat(h, indexed("CRPIX", i)); err != nil {
		return ax, err
	}
	if ax.crval, err = optFloat(h, indexed("CRVAL", i)); err != nil {
		return ax, err
	}
	return ax, nil
}

func indexed(key string, i int) string {
	return key + strconv.Itoa(i)
}

// NAXIS returns the number of axes.
func (c *HeaderConfig) NAXIS() (int, error) {
	if c.naxis == nil {
		return 0, &MissingKeywordError{Keyword: "NAXIS"}
	}
	return *c.naxis, nil
}

func (c *HeaderConfig) axis(i int) *axisConfig {
	if i < 1 || i > len(c.axes) {
		return nil
	}
	return &c.axes[i-1]
}

func (c *HeaderConfig) axisFloat(key string, i int, pick func(*axisConfig) *float64) (float64, error) {
	ax := c.axis(i)
	if ax == nil || pick(ax) == nil {
		return 0, &MissingKeywordError{Keyword: indexed(key, i)}
	}
	return *pick(ax), nil
}

// CRPIX returns the reference pixel of axis i (1-based).
func (c *HeaderConfig) CRPIX(i int) (float64, error) {
	return c.axisFloat("CRPIX", i, func(a *axisConfig) *float64 { return a.crpix })
}

// CRVAL returns the reference world value of axis i in degrees.
func (c *HeaderConfig) CRVAL(i int) (float64, error) {
	return c.axisFloat("CRVAL", i, func(a *axisConfig) *float64 { return a.crval })
}

// CDELT returns the pixel scale of axis i in degrees per pixel.
func (c *HeaderConfig) CDELT(i int) (float64, error) {
	return c.axisFloat("CDELT", i, func(a *axisConfig) *float64 { return a.cdelt })
}

// CTYPE returns the projection code of axis i.
func (c *HeaderConfig) CTYPE(i int) (string, error) {
	ax := c.axis(i)
	if ax == nil || ax.ctype == nil {
		return "", &MissingKeywordError{Keyword: indexed("CTYPE", i)}
	}
	return *ax.ctype, nil
}

// CUNIT returns the unit of axis i. It is carried through unchanged.
func (c *HeaderConfig) CUNIT(i int) (string, bool) {
	ax := c.axis(i)
	if ax == nil || ax.cunit == nil {
		return "", false
	}
	return *ax.cunit, true
}

// AxisLength returns NAXISi, the pixel length of axis i.
func (c *HeaderConfig) AxisLength(i int) (int, bool) {
	ax := c.axis(i)
	if ax == nil || ax.naxis == nil {
		return 0, false
	}
	return *ax.naxis, true
}

// LONPOLE returns the native longitude of the celestial pole when present.
func (c *HeaderConfig) LONPOLE() (float64, bool) {
	if c.lonpole == nil {
		return 0, false
	}
	return *c.lonpole, true
}

// EQUINOX is passed through; the TAN math does not use it.
func (c *HeaderConfig) EQUINOX() (float64, bool) {
	if c.equinox == nil {
		return 0, false
	}
	return *c.equinox, true
}

// RADESYS is passed through; the TAN math does not use it.
func (c *HeaderConfig) RADESYS() (string, bool) {
	if c.radesys == nil {
		return "", false
	}
	return *c.radesys, true
}

// Keywords returns a new Header holding exactly the keywords that were copied
// from the source header.
func (c *HeaderConfig) Keywords() Header {
	out := Header{}
	if c.naxis != nil {
		out["NAXIS"] = *c.naxis
	}
	for i := range c.axes {
		ax := &c.axes[i]
		n := i + 1
		if ax.naxis != nil {
			out[indexed("NAXIS", n)] = *ax.naxis
		}
		if ax.ctype != nil {
			out[indexed("CTYPE", n)] = *ax.ctype
		}
		if ax.cdelt != nil {
			out[indexed("CDELT", n)] = *ax.cdelt
		}
		if ax.crpix != nil {
			out[indexed("CRPIX", n)] = *ax.crpix
		}
		if ax.crval != nil {
			out[indexed("CRVAL", n)] = *ax.crval
		}
		if ax.cunit != nil {
			out[indexed("CUNIT", n)] = *ax.cunit
		}
	}
	if c.lonpole != nil {
		out["LONPOLE"] = *c.lonpole
	}
	if c.equinox != nil {
		out["EQUINOX"] = *c.equinox
	}
	if c.radesys != nil {
		out["RADESYS"] = *c.radesys
	}
	return out
}

// === value conversion ===

// maxAxes is the largest NAXIS a FITS header may declare.
const maxAxes = 999

func optString(h Header, key string) *string {
	v, ok := h[key]
	if !ok || v == nil {
		return nil
	}
	s := strings.TrimSpace(stringValue(v))
	return &s
}

func optFloat(h Header, key string) (*float64, error) {
	v, ok := h[key]
	if !ok || v == nil {
		return nil, nil
	}
	f, err := floatValue(v)
	if err != nil {
		return nil, fmt.Errorf("keyword %s: %w", key, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("keyword %s: %v is not finite", key, f)
	}
	return &f, nil
}

func intKeyword(h Header, key string) (int, bool, error) {
	p, err := optFloat(h, key)
	if err != nil || p == nil {
		return 0, false, err
	}
	if *p != math.Trunc(*p) {
		return 0, false, fmt.Errorf("keyword %s: %v is not an integer", key, *p)
	}
	if math.Abs(*p) > math.MaxInt32 {
		return 0, false, fmt.Errorf("keyword %s: %v is out of range", key, *p)
	}
	return int(*p), true, nil
}

func stringValue(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

func floatValue(v interface{}) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case float32:
		return float64(t), nil
	case int:
		return float64(t), nil
	case int8:
		return float64(t), nil
	case int16:
		return float64(t), nil
	case int32:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case uint:
		return float64(t), nil
	case uint8:
		return float64(t), nil
	case uint16:
		return float64(t), nil
	case uint32:
		return float64(t), nil
	case uint64:
		return float64(t), nil
	case json.Number:
		return t.Float64()
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, fmt.Errorf("not a number: %q", t)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("unsupported value type %T", v)
	}
}
