package imaging

import (
	"image"

	"github.com/ironsheep/wcs-tools-mcp/internal/detection"
	"github.com/ironsheep/wcs-tools-mcp/internal/wcs"
)

// SkySource is a detected source at its WCS pixel and sky position.
type SkySource struct {
	// X and Y are the centroid as a WCS pixel.
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	RA     float64 `json:"ra"`
	Dec    float64 `json:"dec"`
	RAHMS  string  `json:"ra_hms"`
	DecDMS string  `json:"dec_dms"`
	Flux   float64 `json:"flux"`
	Peak   uint8   `json:"peak"`
	Pixels int     `json:"pixels"`
}

// SourceListResult is the output of FindSources.
type SourceListResult struct {
	Sources    []SkySource `json:"sources"`
	Count      int         `json:"count"`
	Background float64     `json:"background"`
	Threshold  float64     `json:"threshold"`
	Truncated  bool        `json:"truncated"`
}

// FindSources detects point sources in img and maps their centroids to the
// sky through m. RA is wrapped into [0, 360).
func FindSources(img image.Image, m *wcs.Mapper, opts detection.Options) (*SourceListResult, error) {
	found, err := detection.DetectSources(img, opts)
	if err != nil {
		return nil, err
	}

	height := img.Bounds().Dy()
	r := &SourceListResult{
		Sources:    make([]SkySource, 0, len(found.Sources)),
		Count:      found.Count,
		Background: found.Background,
		Threshold:  found.Threshold,
		Truncated:  found.Truncated,
	}
	for _, s := range found.Sources {
		// same offset as FromRaster, for a fractional centroid
		x, y := s.X+1, float64(height)-s.Y
		sky, err := m.PixelToCoordinate(x, y)
		if err != nil {
			return nil, err
		}
		sky = sky.Normalized()
		r.Sources = append(r.Sources, SkySource{
			X:      x,
			Y:      y,
			RA:     sky.RA,
			Dec:    sky.Dec,
			RAHMS:  wcs.FormatRA(sky.RA, 2),
			DecDMS: wcs.FormatDec(sky.Dec, 1),
			Flux:   s.Flux,
			Peak:   s.Peak,
			Pixels: s.Pixels,
		})
	}
	return r, nil
}
