package imaging

import (
	"math"

	"github.com/ironsheep/wcs-tools-mcp/internal/wcs"
)

// SeparationResult contains the angular measurement between two pixels.
type SeparationResult struct {
	From             wcs.Celestial `json:"from"`
	To               wcs.Celestial `json:"to"`
	SeparationDeg    float64       `json:"separation_deg"`
	SeparationArcsec float64       `json:"separation_arcsec"`
	// PositionAngleDeg is measured from north through east, [0, 360).
	PositionAngleDeg float64 `json:"position_angle_deg"`
	DistancePixels   float64 `json:"distance_pixels"`
	// ArcsecPerPixel is 0 when both pixels are the same.
	ArcsecPerPixel float64 `json:"arcsec_per_pixel"`
}

// MeasureSeparation maps two WCS pixels to the sky and measures the angle
// between them.
func MeasureSeparation(m *wcs.Mapper, x1, y1, x2, y2 float64) (*SeparationResult, error) {
	from, err := m.PixelToCoordinate(x1, y1)
	if err != nil {
		return nil, err
	}
	to, err := m.PixelToCoordinate(x2, y2)
	if err != nil {
		return nil, err
	}

	sep := wcs.Separation(from, to)
	dist := math.Hypot(x2-x1, y2-y1)

	r := &SeparationResult{
		From:             from.Normalized(),
		To:               to.Normalized(),
		SeparationDeg:    sep,
		SeparationArcsec: sep * 3600,
		PositionAngleDeg: wcs.PositionAngle(from, to),
		DistancePixels:   dist,
	}
	if dist > 0 {
		r.ArcsecPerPixel = r.SeparationArcsec / dist
	}
	return r, nil
}

// Corner is a labelled sky position of an image corner.
type Corner struct {
	Name  string        `json:"name"`
	X     float64       `json:"x"`
	Y     float64       `json:"y"`
	World wcs.Celestial `json:"world"`
}

// FootprintResult is the sky area covered by an image.
type FootprintResult struct {
	Width   int           `json:"width"`
	Height  int           `json:"height"`
	Corners []Corner      `json:"corners"`
	Center  wcs.Celestial `json:"center"`
	// WidthDeg and HeightDeg are measured through the centre between the
	// outer pixel edges.
	WidthDeg  float64 `json:"width_deg"`
	HeightDeg float64 `json:"height_deg"`
	// RadiusDeg is the largest distance from the centre to a corner edge.
	RadiusDeg float64 `json:"radius_deg"`
}

// Footprint returns the sky positions of the corner pixel centres and the
// centre of a width x height image.
func Footprint(m *wcs.Mapper, width, height int) (*FootprintResult, error) {
	w, h := float64(width), float64(height)
	cx, cy := (w+1)/2, (h+1)/2

	center, err := m.PixelToCoordinate(cx, cy)
	if err != nil {
		return nil, err
	}

	names := []struct {
		name string
		x, y float64
	}{
		{"bottom-left", 1, 1},
		{"bottom-right", w, 1},
		{"top-right", w, h},
		{"top-left", 1, h},
	}

	r := &FootprintResult{Width: width, Height: height, Center: center.Normalized()}
	for _, n := range names {
		c, err := m.PixelToCoordinate(n.x, n.y)
		if err != nil {
			return nil, err
		}
		r.Corners = append(r.Corners, Corner{Name: n.name, X: n.x, Y: n.y, World: c.Normalized()})
	}

	left, err := m.PixelToCoordinate(0.5, cy)
	if err != nil {
		return nil, err
	}
	right, err := m.PixelToCoordinate(w+0.5, cy)
	if err != nil {
		return nil, err
	}
	bottom, err := m.PixelToCoordinate(cx, 0.5)
	if err != nil {
		return nil, err
	}
	top, err := m.PixelToCoordinate(cx, h+0.5)
	if err != nil {
		return nil, err
	}
	r.WidthDeg = wcs.Separation(left, right)
	r.HeightDeg = wcs.Separation(bottom, top)

	for _, p := range [][2]float64{{0.5, 0.5}, {w + 0.5, 0.5}, {w + 0.5, h + 0.5}, {0.5, h + 0.5}} {
		c, err := m.PixelToCoordinate(p[0], p[1])
		if err != nil {
			return nil, err
		}
		r.RadiusDeg = math.Max(r.RadiusDeg, wcs.Separation(center, c))
	}

	return r, nil
}
