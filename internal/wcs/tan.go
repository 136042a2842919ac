package wcs

import (
	"math"
)

// defaultLonPole is phi_p when the header carries no LONPOLE.
const defaultLonPole = 180.0

// Celestial is an equatorial position in degrees.
//
// RA is not wrapped into [0, 360) by the transform; use Normalized for display.
type Celestial struct {
	RA  float64 `json:"ra"`
	Dec float64 `json:"dec"`
}

// Normalized returns c with RA wrapped into [0, 360).
func (c Celestial) Normalized() Celestial {
	ra := math.Mod(c.RA, 360)
	if ra < 0 {
		ra += 360
	}
	// -1e-17 + 360 rounds to 360
	if ra == 0 || ra == 360 {
		ra = 0
	}
	return Celestial{RA: ra, Dec: c.Dec}
}

// Native is a position in the projection's native spherical frame, degrees.
type Native struct {
	Phi   float64 `json:"phi"`
	Theta float64 `json:"theta"`
}

// Pixel is an integer pixel position.
type Pixel struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Mapper converts between pixel and celestial coordinates for one header.
type Mapper struct {
	cfg *HeaderConfig
}

// NewMapper builds the configuration from h and returns a Mapper for it.
// The only construction-time failure is an unsupported projection.
func NewMapper(h Header) (*Mapper, error) {
	cfg, err := BuildHeaderConfig(h)
	if err != nil {
		return nil, err
	}
	return NewMapperFromConfig(cfg), nil
}

// NewMapperFromConfig returns a Mapper over an already built configuration.
func NewMapperFromConfig(cfg *HeaderConfig) *Mapper {
	return &Mapper{cfg: cfg}
}

// Config returns the mapper's configuration.
func (m *Mapper) Config() *HeaderConfig {
	return m.cfg
}

// PixelToCoordinate maps pixel (x, y) to (RA, Dec).
func (m *Mapper) PixelToCoordinate(x, y float64) (Celestial, error) {
	iwc, err := m.IntermediateWorldCoords([]float64{x, y})
	if err != nil {
		return Celestial{}, err
	}
	return m.NativeToCelestial(m.IntermediateToNative(iwc[0], iwc[1]))
}

// CoordinateToPixel maps (ra, dec) to the nearest integer pixel.
func (m *Mapper) CoordinateToPixel(ra, dec float64) (Pixel, error) {
	n, err := m.CelestialToNative(Celestial{RA: ra, Dec: dec})
	if err != nil {
		return Pixel{}, err
	}
	// the tangent plane only reaches the hemisphere around the reference point
	if n.Theta <= 0 {
		return Pixel{}, ErrDegenerateGeometry
	}
	x, y := m.NativeToIntermediate(n)
	pix, err := m.IntermediateToPixel([]float64{x, y})
	if err != nil {
		return Pixel{}, err
	}
	return Pixel{X: pix[0], Y: pix[1]}, nil
}

// IntermediateWorldCoords applies the linear part of the transform, assuming
// an identity PC matrix: coord[i] = CDELT(i+1) * (pixel[i] - CRPIX(i+1)).
//
// pixel may be shorter than NAXIS but not longer.
func (m *Mapper) IntermediateWorldCoords(pixel []float64) ([]float64, error) {
	naxis, err := m.cfg.NAXIS()
	if err != nil {
		return nil, err
	}
	if len(pixel) > naxis {
		return nil, &DimensionMismatchError{Got: len(pixel), NAXIS: naxis}
	}

	coord := make([]float64, len(pixel))
	for i, p := range pixel {
		cdelt, err := m.cfg.CDELT(i + 1)
		if err != nil {
			return nil, err
		}
		crpix, err := m.cfg.CRPIX(i + 1)
		if err != nil {
			return nil, err
		}
		coord[i] = cdelt * (p - crpix)
	}
	return coord, nil
}

// IntermediateToNative deprojects tangent-plane coordinates (eq. 14, 55).
//
// At the tangent point R is 0 and theta is 90; phi is whatever atan2 gives for
// two zeros and does not affect the celestial result.
func (m *Mapper) IntermediateToNative(x, y float64) Native {
	r := math.Sqrt(x*x + y*y)
	return Native{
		Phi:   argd(-y, x),
		Theta: atand(rad2deg(1) / r),
	}
}

// NativeToCelestial rotates native coordinates into the celestial frame (eq. 2).
func (m *Mapper) NativeToCelestial(n Native) (Celestial, error) {
	raP, decP, err := m.celestialPole()
	if err != nil {
		return Celestial{}, err
	}
	dphi := n.Phi - m.NativePoleLongitude()

	ra := raP + argd(
		sind(n.Theta)*cosd(decP)-cosd(n.Theta)*sind(decP)*cosd(dphi),
		-cosd(n.Theta)*sind(dphi),
	)
	dec := asind(sind(n.Theta)*sind(decP) + cosd(n.Theta)*cosd(decP)*cosd(dphi))
	return Celestial{RA: ra, Dec: dec}, nil
}

// CelestialToNative rotates a celestial position into the native frame (eq. 5).
func (m *Mapper) CelestialToNative(c Celestial) (Native, error) {
	raP, decP, err := m.celestialPole()
	if err != nil {
		return Native{}, err
	}
	dra := c.RA - raP

	phi := m.NativePoleLongitude() + argd(
		sind(c.Dec)*cosd(decP)-cosd(c.Dec)*sind(decP)*cosd(dra),
		-cosd(c.Dec)*sind(dra),
	)
	theta := asind(sind(c.Dec)*sind(decP) + cosd(c.Dec)*cosd(decP)*cosd(dra))
	return Native{Phi: phi, Theta: theta}, nil
}

// NativeToIntermediate projects native coordinates onto the tangent plane
// (eq. 12, 13, 54).
func (m *Mapper) NativeToIntermediate(n Native) (x, y float64) {
	r := rad2deg(1) / tand(n.Theta)
	return r * sind(n.Phi), -r * cosd(n.Phi)
}

// IntermediateToPixel inverts the linear transform and rounds each axis to
// the nearest pixel, halves away from zero.
func (m *Mapper) IntermediateToPixel(coord []float64) ([]int, error) {
	naxis, err := m.cfg.NAXIS()
	if err != nil {
		return nil, err
	}
	if len(coord) > naxis {
		return nil, &DimensionMismatchError{Got: len(coord), NAXIS: naxis}
	}

	pixel := make([]int, len(coord))
	for i, c := range coord {
		cdelt, err := m.cfg.CDELT(i + 1)
		if err != nil {
			return nil, err
		}
		crpix, err := m.cfg.CRPIX(i + 1)
		if err != nil {
			return nil, err
		}
		if cdelt == 0 {
			return nil, ErrDegenerateGeometry
		}
		p := math.Round(c/cdelt + crpix)
		if math.IsNaN(p) || math.IsInf(p, 0) || math.Abs(p) > math.MaxInt32 {
			return nil, ErrDegenerateGeometry
		}
		pixel[i] = int(p)
	}
	return pixel, nil
}

func (m *Mapper) celestialPole() (ra, dec float64, err error) {
	if ra, err = m.cfg.CRVAL(lonAxis); err != nil {
		return 0, 0, err
	}
	if dec, err = m.cfg.CRVAL(latAxis); err != nil {
		return 0, 0, err
	}
	return ra, dec, nil
}

// NativePoleLongitude returns phi_p, the native longitude of the celestial
// pole: LONPOLE when the header carries it, 180 otherwise.
func (m *Mapper) NativePoleLongitude() float64 {
	if lp, ok := m.cfg.LONPOLE(); ok {
		return lp
	}
	return defaultLonPole
}
