package imaging

import (
	"image/color"
	"math"
	"strings"
	"testing"

	"github.com/ironsheep/wcs-tools-mcp/internal/headers"
)

func TestSkyGridOverlay(t *testing.T) {
	img := createInMemoryImage(200, 200, black)
	m := testMapper(t)

	result, err := SkyGridOverlay(img, m, GridOptions{
		StepDeg:   0.5,
		Samples:   64,
		GridColor: "#FF0000FF",
	})
	if err != nil {
		t.Fatalf("SkyGridOverlay failed: %v", err)
	}

	if result.Width != 200 || result.Height != 200 {
		t.Errorf("dimensions: got %dx%d, want 200x200", result.Width, result.Height)
	}
	if result.StepDeg != 0.5 {
		t.Errorf("StepDeg: got %v, want 0.5", result.StepDeg)
	}
	// RA 149.5, 150, 150.5 and Dec -0.5, 0, 0.5
	if result.RALines != 3 || result.DecLines != 3 {
		t.Errorf("lines: got %d RA and %d Dec, want 3 and 3", result.RALines, result.DecLines)
	}

	out := decodePNG(t, result.ImageBase64)
	tests := []struct {
		name string
		x, y int
		want color.RGBA
	}{
		{"equator", 30, 100, red},
		{"RA 150", 99, 30, red},
		{"crossing", 99, 100, red},
		{"empty sky", 20, 20, black},
		{"empty sky between lines", 75, 75, black},
	}
	for _, tt := range tests {
		if got := rgbaAt(out, tt.x, tt.y); got != tt.want {
			t.Errorf("%s (%d, %d): got %v, want %v", tt.name, tt.x, tt.y, got, tt.want)
		}
	}

	if got := rgbaAt(img, 30, 100); got != black {
		t.Error("SkyGridOverlay modified its input image")
	}
}

func TestSkyGridOverlay_Defaults(t *testing.T) {
	img := createInMemoryImage(200, 200, black)

	result, err := SkyGridOverlay(img, testMapper(t), GridOptions{ShowLabels: true, Format: FormatWebP})
	if err != nil {
		t.Fatalf("SkyGridOverlay failed: %v", err)
	}
	// a 2° field gets a 30' grid
	if math.Abs(result.StepDeg-0.5) > 1e-12 {
		t.Errorf("StepDeg: got %v, want 0.5", result.StepDeg)
	}
	if result.MimeType != "image/webp" {
		t.Errorf("MimeType: got %s, want image/webp", result.MimeType)
	}
	if math.Abs(result.Center.RA-150) > 0.01 || math.Abs(result.Center.Dec) > 0.01 {
		t.Errorf("Center: got %+v, want about (150, 0)", result.Center)
	}
}

func TestSkyGridOverlay_PoleInField(t *testing.T) {
	m := newMapper(t, headers.TAN(0, 90, 100, 100, -0.1, 0.1).Build())

	result, err := SkyGridOverlay(createInMemoryImage(200, 200, black), m, GridOptions{})
	if err != nil {
		t.Fatalf("SkyGridOverlay failed: %v", err)
	}
	if result.RALines == 0 || result.DecLines == 0 {
		t.Errorf("lines: got %d RA and %d Dec, want both non-zero", result.RALines, result.DecLines)
	}
}

func TestSkyGridOverlay_StepTooSmall(t *testing.T) {
	_, err := SkyGridOverlay(createInMemoryImage(200, 200, black), testMapper(t), GridOptions{StepDeg: 0.001})
	if err == nil || !strings.Contains(err.Error(), "too small") {
		t.Errorf("expected step error, got %v", err)
	}
}

func TestAutoStep(t *testing.T) {
	tests := []struct {
		span float64
		want float64
	}{
		{2, 0.5},
		{0.01, 10.0 / 3600},
		{6, 1},
		{40, 10},
		{1000, 45},
	}
	for _, tt := range tests {
		if got := autoStep(tt.span); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("autoStep(%v): got %v, want %v", tt.span, got, tt.want)
		}
	}
}

func TestWrap180(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{190, -170},
		{-190, 170},
		{360, 0},
		{-359.5, 0.5},
	}
	for _, tt := range tests {
		if got := wrap180(tt.in); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("wrap180(%v): got %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestStretch(t *testing.T) {
	img := createInMemoryImage(4, 4, color.RGBA{64, 64, 64, 255})

	same := Stretch(img, 1)
	if got := rgbaAt(same, 0, 0); got.R != 64 {
		t.Errorf("gamma 1: got %d, want 64", got.R)
	}

	lifted := Stretch(img, 2)
	if got := rgbaAt(lifted, 0, 0); got.R <= 64 {
		t.Errorf("gamma 2 should brighten: got %d", got.R)
	}
	if got := rgbaAt(img, 0, 0); got.R != 64 {
		t.Error("Stretch modified its input image")
	}
}
