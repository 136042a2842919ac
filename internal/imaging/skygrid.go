package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/wcs-tools-mcp/internal/config"
	"github.com/ironsheep/wcs-tools-mcp/internal/wcs"
)

// maxGridLines bounds the number of lines per family so a tiny step on a
// wide field cannot stall the renderer.
const maxGridLines = 200

// gridSteps are the candidate automatic graticule spacings, in degrees.
var gridSteps = []float64{
	1.0 / 3600, 2.0 / 3600, 5.0 / 3600, 10.0 / 3600, 15.0 / 3600, 30.0 / 3600,
	1.0 / 60, 2.0 / 60, 5.0 / 60, 10.0 / 60, 15.0 / 60, 30.0 / 60,
	1, 2, 5, 10, 15, 30, 45,
}

// GridOptions controls SkyGridOverlay.
type GridOptions struct {
	StepDeg    float64 // graticule spacing; 0 picks one from the field size
	Samples    int     // segments per traced line
	ShowLabels bool
	GridColor  string // "#RRGGBB" or "#RRGGBBAA"
	LabelColor string
	Gamma      float64 // display stretch, 1 for none
	Format     string  // FormatPNG or FormatWebP
}

// SkyGridResult contains the image with the RA/Dec grid drawn on it.
type SkyGridResult struct {
	Width       int           `json:"width"`
	Height      int           `json:"height"`
	ImageBase64 string        `json:"image_base64"`
	MimeType    string        `json:"mime_type"`
	StepDeg     float64       `json:"step_deg"`
	RALines     int           `json:"ra_lines"`
	DecLines    int           `json:"dec_lines"`
	Center      wcs.Celestial `json:"center"`
}

// skyRange is the sky area covered by an image. RA bounds are offsets from
// the centre RA, so fields straddling RA 0 stay contiguous.
type skyRange struct {
	center         wcs.Celestial
	raMin, raMax   float64
	decMin, decMax float64
}

// SkyGridOverlay draws lines of constant RA and constant Dec on a copy of img.
//
// Each line is traced through m.CoordinateToPixel in opts.Samples segments,
// so curvature near the poles and at the field edges is followed. Lines are
// clipped to the image; positions the projection cannot reach are skipped.
func SkyGridOverlay(img image.Image, m *wcs.Mapper, opts GridOptions) (*SkyGridResult, error) {
	defaults := config.Default()
	if opts.Samples < 2 {
		opts.Samples = defaults.GridSamples
	}

	lineColor, lineAlpha, err := config.ParseColor(opts.GridColor)
	if err != nil {
		lineColor, lineAlpha, _ = config.ParseColor(defaults.GridColor)
	}
	labelColor, _, err := config.ParseColor(opts.LabelColor)
	if err != nil {
		labelColor, _, _ = config.ParseColor(defaults.LabelColor)
	}

	canvas := Stretch(img, opts.Gamma)
	width, height := canvas.Bounds().Dx(), canvas.Bounds().Dy()

	field, err := fieldRange(m, width, height)
	if err != nil {
		return nil, err
	}

	step := opts.StepDeg
	if step <= 0 {
		decSpan := field.decMax - field.decMin
		raSpan := (field.raMax - field.raMin) * math.Cos(field.center.Dec*math.Pi/180)
		step = autoStep(math.Max(decSpan, raSpan))
	}

	decFirst := math.Ceil(field.decMin / step)
	decLast := math.Floor(field.decMax / step)
	raFirst := math.Ceil((field.center.RA + field.raMin) / step)
	raLast := math.Floor((field.center.RA + field.raMax) / step)
	if decLast-decFirst > maxGridLines || raLast-raFirst > maxGridLines {
		return nil, fmt.Errorf("grid step %g° is too small for this field", step)
	}

	g := &gridPainter{
		dst:        canvas,
		line:       lineColor,
		lineAlpha:  float64(lineAlpha) / 255,
		label:      labelColor,
		showLabels: opts.ShowLabels,
		m:          m,
		height:     height,
		samples:    opts.Samples,
	}

	result := &SkyGridResult{Width: width, Height: height, StepDeg: step, Center: field.center.Normalized()}

	for k := decFirst; k <= decLast; k++ {
		dec := k * step
		if math.Abs(dec) >= 90 {
			continue
		}
		raFrom, raTo := field.center.RA+field.raMin, field.center.RA+field.raMax
		drawn := g.trace(func(t float64) (float64, float64) {
			return raFrom + t*(raTo-raFrom), dec
		}, wcs.FormatDec(dec, 0))
		if drawn {
			result.DecLines++
		}
	}

	for k := raFirst; k <= raLast; k++ {
		ra := k * step
		drawn := g.trace(func(t float64) (float64, float64) {
			return ra, field.decMin + t*(field.decMax-field.decMin)
		}, wcs.FormatRA(ra, 0))
		if drawn {
			result.RALines++
		}
	}

	encoded, mime, err := encodeBase64(canvas, opts.Format)
	if err != nil {
		return nil, err
	}
	result.ImageBase64 = encoded
	result.MimeType = mime

	return result, nil
}

// fieldRange samples the image border and centre to find the covered sky.
// A celestial pole inside the image widens the RA range to the full circle.
func fieldRange(m *wcs.Mapper, width, height int) (skyRange, error) {
	const edgeSamples = 16

	center, err := m.PixelToCoordinate(float64(width+1)/2, float64(height+1)/2)
	if err != nil {
		return skyRange{}, fmt.Errorf("failed to locate image centre: %w", err)
	}

	r := skyRange{center: center, decMin: center.Dec, decMax: center.Dec}
	for i := 0; i <= edgeSamples; i++ {
		fx := 1 + float64(i)*float64(width-1)/edgeSamples
		fy := 1 + float64(i)*float64(height-1)/edgeSamples
		for _, p := range [][2]float64{{fx, 1}, {fx, float64(height)}, {1, fy}, {float64(width), fy}} {
			c, err := m.PixelToCoordinate(p[0], p[1])
			if err != nil {
				return skyRange{}, err
			}
			off := wrap180(c.RA - center.RA)
			r.raMin = math.Min(r.raMin, off)
			r.raMax = math.Max(r.raMax, off)
			r.decMin = math.Min(r.decMin, c.Dec)
			r.decMax = math.Max(r.decMax, c.Dec)
		}
	}

	bounds := image.Rect(0, 0, width, height)
	for _, pole := range []float64{90, -90} {
		p, err := m.CoordinateToPixel(center.RA, pole)
		if err != nil || !ToRaster(p, height).In(bounds) {
			continue
		}
		r.raMin, r.raMax = -180, 180
		if pole > 0 {
			r.decMax = 90
		} else {
			r.decMin = -90
		}
	}

	return r, nil
}

// autoStep picks the smallest candidate spacing giving at most six lines
// across span degrees.
func autoStep(span float64) float64 {
	for _, s := range gridSteps {
		if span/s <= 6 {
			return s
		}
	}
	return gridSteps[len(gridSteps)-1]
}

func wrap180(deg float64) float64 {
	d := math.Mod(deg+180, 360)
	if d < 0 {
		d += 360
	}
	return d - 180
}

type gridPainter struct {
	dst        *image.NRGBA
	line       colorful.Color
	lineAlpha  float64
	label      colorful.Color
	showLabels bool
	m          *wcs.Mapper
	height     int
	samples    int
}

// trace draws the polyline sky(t), t in [0, 1], and labels its first visible
// point. It reports whether any part of the line landed on the image.
func (g *gridPainter) trace(sky func(t float64) (ra, dec float64), text string) bool {
	bounds := g.dst.Bounds()
	var prev *image.Point
	var labelAt *image.Point
	drawn := false

	for i := 0; i <= g.samples; i++ {
		ra, dec := sky(float64(i) / float64(g.samples))
		p, err := g.m.CoordinateToPixel(ra, dec)
		if err != nil {
			prev = nil
			continue
		}
		pt := ToRaster(p, g.height)

		if prev != nil && image.Rect(prev.X, prev.Y, pt.X+1, pt.Y+1).Canon().Overlaps(bounds) {
			drawLine(g.dst, *prev, pt, g.line, g.lineAlpha)
			drawn = true
		}
		if labelAt == nil && pt.In(bounds) {
			p := pt
			labelAt = &p
		}
		prev = &pt
	}

	if drawn && g.showLabels && labelAt != nil {
		drawLabel(g.dst, labelAt.X+2, labelAt.Y+2, text, g.label, color.NRGBA{A: 160})
	}
	return drawn
}

// drawLine blends a Bresenham line from a to b into dst.
func drawLine(dst *image.NRGBA, a, b image.Point, c colorful.Color, alpha float64) {
	// segments longer than the image diagonal come from wrap-around jumps
	limit := 2 * (dst.Bounds().Dx() + dst.Bounds().Dy())
	dx, dy := abs(b.X-a.X), -abs(b.Y-a.Y)
	if dx-dy > limit {
		return
	}
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}

	e := dx + dy
	x, y := a.X, a.Y
	for {
		blendPixel(dst, x, y, c, alpha)
		if x == b.X && y == b.Y {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x += sx
		}
		if e2 <= dx {
			e += dx
			y += sy
		}
	}
}

func blendPixel(dst *image.NRGBA, x, y int, c colorful.Color, alpha float64) {
	if !image.Pt(x, y).In(dst.Rect) {
		return
	}
	old := dst.NRGBAAt(x, y)
	base, _ := colorful.MakeColor(old)
	r, g, b := base.BlendRgb(c, alpha).Clamped().RGB255()
	a := math.Max(float64(old.A), alpha*255)
	dst.SetNRGBA(x, y, color.NRGBA{R: r, G: g, B: b, A: uint8(a)})
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
