package detection

import (
	"fmt"
	"image"
	"math"
	"sort"

	"github.com/anthonynsimon/bild/blur"
)

const (
	defaultMinPixels = 3
	// minThreshold is the lowest automatic threshold, in gray levels.
	minThreshold = 16.0
	// noiseSigmas is the auto threshold in units of the estimated noise.
	noiseSigmas = 5.0
	// madToSigma converts a median absolute deviation to a Gaussian sigma.
	madToSigma = 1.4826
)

// Bounds is the raster bounding box of a source.
type Bounds struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Source is a connected group of pixels brighter than the detection
// threshold.
type Source struct {
	// X and Y are the flux-weighted centroid in raster coordinates.
	X float64 `json:"x"`
	Y float64 `json:"y"`
	// Flux is the summed gray level above background.
	Flux   float64 `json:"flux"`
	Peak   uint8   `json:"peak"`
	Pixels int     `json:"pixels"`
	Bounds Bounds  `json:"bounds"`
}

// Options controls DetectSources.
type Options struct {
	Threshold  float64 // gray levels above background; 0 estimates one from the image noise
	MinPixels  int     // smaller groups are dropped; 0 means 3
	MaxSources int     // 0 keeps all
	Smooth     float64 // Gaussian blur radius applied first; 0 for none
}

// SourcesResult contains the detected sources, brightest first.
type SourcesResult struct {
	Sources    []Source `json:"sources"`
	Count      int      `json:"count"`
	Background float64  `json:"background"`
	Threshold  float64  `json:"threshold"`
	// Truncated is set when MaxSources dropped fainter sources.
	Truncated bool `json:"truncated"`
}

type point struct{ x, y int }

// DetectSources finds compact bright regions in img.
func DetectSources(img image.Image, opts Options) (*SourcesResult, error) {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("image is empty")
	}
	if opts.Threshold < 0 {
		return nil, fmt.Errorf("threshold must not be negative")
	}
	if opts.MinPixels <= 0 {
		opts.MinPixels = defaultMinPixels
	}

	if opts.Smooth > 0 {
		img = blur.Gaussian(img, opts.Smooth)
	}
	gray := grayLevels(img)

	background, noise := estimateBackground(gray)
	threshold := opts.Threshold
	if threshold == 0 {
		threshold = math.Max(noiseSigmas*noise, minThreshold)
	}

	mask := make([][]bool, height)
	for y := range mask {
		mask[y] = make([]bool, width)
		for x := range mask[y] {
			mask[y][x] = float64(gray[y][x]) > background+threshold
		}
	}

	sources := make([]Source, 0)
	for _, comp := range findComponents(mask, width, height) {
		if len(comp) < opts.MinPixels {
			continue
		}
		sources = append(sources, measure(comp, gray, background))
	}

	sort.SliceStable(sources, func(i, j int) bool {
		if sources[i].Flux != sources[j].Flux {
			return sources[i].Flux > sources[j].Flux
		}
		if sources[i].Y != sources[j].Y {
			return sources[i].Y < sources[j].Y
		}
		return sources[i].X < sources[j].X
	})

	result := &SourcesResult{Background: background, Threshold: threshold}
	if opts.MaxSources > 0 && len(sources) > opts.MaxSources {
		sources = sources[:opts.MaxSources]
		result.Truncated = true
	}
	result.Sources = sources
	result.Count = len(sources)
	return result, nil
}

// grayLevels converts img to ITU-R BT.601 luminance, indexed [y][x] from the
// image origin.
func grayLevels(img image.Image) [][]uint8 {
	b := img.Bounds()
	gray := make([][]uint8, b.Dy())
	for y := range gray {
		gray[y] = make([]uint8, b.Dx())
		for x := range gray[y] {
			r, g, bl, _ := img.At(x+b.Min.X, y+b.Min.Y).RGBA()
			v := float64(r>>8)*0.299 + float64(g>>8)*0.587 + float64(bl>>8)*0.114
			gray[y][x] = uint8(math.Round(v))
		}
	}
	return gray
}

// estimateBackground returns the median gray level and a noise sigma derived
// from the median absolute deviation.
func estimateBackground(gray [][]uint8) (median, sigma float64) {
	var hist [256]int
	n := 0
	for _, row := range gray {
		for _, v := range row {
			hist[v]++
			n++
		}
	}
	med := histMedian(hist[:], n)

	var dev [256]int
	for v, count := range hist {
		d := v - med
		if d < 0 {
			d = -d
		}
		dev[d] += count
	}
	mad := histMedian(dev[:], n)

	return float64(med), madToSigma * float64(mad)
}

func histMedian(hist []int, n int) int {
	half := (n + 1) / 2
	seen := 0
	for v, count := range hist {
		seen += count
		if seen >= half {
			return v
		}
	}
	return len(hist) - 1
}

// findComponents groups set mask pixels into 8-connected components.
func findComponents(mask [][]bool, width, height int) [][]point {
	visited := make([][]bool, height)
	for y := range visited {
		visited[y] = make([]bool, width)
	}

	var comps [][]point
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if mask[y][x] && !visited[y][x] {
				comps = append(comps, floodFill(mask, visited, x, y, width, height))
			}
		}
	}
	return comps
}

// floodFill collects the component containing (startX, startY) with an
// explicit stack.
func floodFill(mask, visited [][]bool, startX, startY, width, height int) []point {
	var comp []point
	stack := []point{{startX, startY}}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.x < 0 || p.x >= width || p.y < 0 || p.y >= height {
			continue
		}
		if visited[p.y][p.x] || !mask[p.y][p.x] {
			continue
		}

		visited[p.y][p.x] = true
		comp = append(comp, p)

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				stack = append(stack, point{p.x + dx, p.y + dy})
			}
		}
	}
	return comp
}

// measure computes the centroid, flux, peak and bounds of a component.
func measure(comp []point, gray [][]uint8, background float64) Source {
	minX, minY := comp[0].x, comp[0].y
	maxX, maxY := minX, minY
	var sx, sy, flux float64
	var peak uint8

	for _, p := range comp {
		v := gray[p.y][p.x]
		w := float64(v) - background
		sx += w * float64(p.x)
		sy += w * float64(p.y)
		flux += w
		if v > peak {
			peak = v
		}
		minX, maxX = min(minX, p.x), max(maxX, p.x)
		minY, maxY = min(minY, p.y), max(maxY, p.y)
	}

	return Source{
		X:      sx / flux,
		Y:      sy / flux,
		Flux:   flux,
		Peak:   peak,
		Pixels: len(comp),
		Bounds: Bounds{X: minX, Y: minY, Width: maxX - minX + 1, Height: maxY - minY + 1},
	}
}
