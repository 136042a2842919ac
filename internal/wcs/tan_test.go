package wcs

import (
	"errors"
	"math"
	"testing"
)

func TestPixelToCoordinate_TangentPoint(t *testing.T) {
	// The reference pixel maps to the reference value: native (phi, theta) is
	// the native pole, theta = 90.
	m := mustMapper(t, tanHeader(180, 0, 0, 0, -1, 1))

	got, err := m.PixelToCoordinate(0, 0)
	if err != nil {
		t.Fatalf("PixelToCoordinate failed: %v", err)
	}
	if !approx(got.RA, 180, tolerance) || !approx(got.Dec, 0, tolerance) {
		t.Errorf("got (%v, %v), want (180, 0)", got.RA, got.Dec)
	}

	// CDELT1 < 0 turns the x offset into -0, so phi = atan2(-0, -0) = -180.
	coord, err := m.IntermediateWorldCoords([]float64{0, 0})
	if err != nil {
		t.Fatalf("IntermediateWorldCoords failed: %v", err)
	}
	n := m.IntermediateToNative(coord[0], coord[1])
	if n.Theta != 90 {
		t.Errorf("theta at tangent point: got %v, want 90", n.Theta)
	}
	if n.Phi != -180 {
		t.Errorf("phi at tangent point: got %v, want -180", n.Phi)
	}
}

func TestPixelToCoordinate_IdentityOrigin(t *testing.T) {
	m := mustMapper(t, tanHeader(0, 0, 0, 0, 1, 1))

	got, err := m.PixelToCoordinate(0, 0)
	if err != nil {
		t.Fatalf("PixelToCoordinate failed: %v", err)
	}
	if math.IsNaN(got.RA) || math.IsNaN(got.Dec) {
		t.Fatalf("got NaN: (%v, %v)", got.RA, got.Dec)
	}
	if !approx(got.RA, 0, tolerance) || !approx(got.Dec, 0, tolerance) {
		t.Errorf("got (%v, %v), want (0, 0)", got.RA, got.Dec)
	}
}

func TestPixelToCoordinate_GnomonicOffsets(t *testing.T) {
	// On the equator a gnomonic offset of d degrees on the plane lands at
	// atan(d·π/180) on the sky.
	m := mustMapper(t, tanHeader(0, 0, 0, 0, 1, 1))
	want := rad2deg(math.Atan(math.Pi / 4))

	got, err := m.PixelToCoordinate(0, 45)
	if err != nil {
		t.Fatalf("PixelToCoordinate failed: %v", err)
	}
	if !approx(got.RA, 0, tolerance) || !approx(got.Dec, want, tolerance) {
		t.Errorf("(0,45): got (%v, %v), want (0, %v)", got.RA, got.Dec, want)
	}

	got, err = m.PixelToCoordinate(45, 0)
	if err != nil {
		t.Fatalf("PixelToCoordinate failed: %v", err)
	}
	if !approx(got.RA, want, tolerance) || !approx(got.Dec, 0, tolerance) {
		t.Errorf("(45,0): got (%v, %v), want (%v, 0)", got.RA, got.Dec, want)
	}
}

func TestPixelToCoordinate_Monotonic(t *testing.T) {
	const scale = 1.0 / 3600

	tests := []struct {
		name           string
		cdelt1, cdelt2 float64
		wantRASign     float64
		wantDecSign    float64
	}{
		{"east left", -scale, scale, -1, 1},
		{"east right", scale, scale, 1, 1},
		{"flipped y", -scale, -scale, -1, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mustMapper(t, tanHeader(150, 20, 100, 100, tt.cdelt1, tt.cdelt2))

			ref, err := m.PixelToCoordinate(100, 100)
			if err != nil {
				t.Fatalf("PixelToCoordinate failed: %v", err)
			}
			up, err := m.PixelToCoordinate(100, 110)
			if err != nil {
				t.Fatalf("PixelToCoordinate failed: %v", err)
			}
			right, err := m.PixelToCoordinate(110, 100)
			if err != nil {
				t.Fatalf("PixelToCoordinate failed: %v", err)
			}

			if dDec := up.Dec - ref.Dec; math.Signbit(dDec) != math.Signbit(tt.wantDecSign) || dDec == 0 {
				t.Errorf("Dec change for +y: got %v, want sign %v", dDec, tt.wantDecSign)
			}
			if dRA := right.RA - ref.RA; math.Signbit(dRA) != math.Signbit(tt.wantRASign) || dRA == 0 {
				t.Errorf("RA change for +x: got %v, want sign %v", dRA, tt.wantRASign)
			}
			if !approx(up.RA, ref.RA, 1e-6) {
				t.Errorf("moving along y changed RA: %v -> %v", ref.RA, up.RA)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	headers := []struct {
		name string
		h    Header
	}{
		{"M31 arcsec scale", tanHeader(10.684708, 41.26875, 512, 512, -1.0/3600, 1.0/3600)},
		{"southern wide field", tanHeader(201.365, -43.019, 1000.5, 800.5, -0.01, 0.01)},
		{"coarse degrees", tanHeader(300, 60, 0, 0, 0.5, -0.5)},
		{"near pole", tanHeader(45, 89.5, 256, 256, -0.002, 0.002)},
	}
	pixels := []Pixel{{1, 1}, {100, 200}, {900, 30}, {513, 512}, {-40, 77}}

	for _, hh := range headers {
		m := mustMapper(t, hh.h)
		for _, p := range pixels {
			sky, err := m.PixelToCoordinate(float64(p.X), float64(p.Y))
			if err != nil {
				t.Fatalf("%s: PixelToCoordinate(%v) failed: %v", hh.name, p, err)
			}
			back, err := m.CoordinateToPixel(sky.RA, sky.Dec)
			if err != nil {
				t.Fatalf("%s: CoordinateToPixel(%v) failed: %v", hh.name, sky, err)
			}
			if abs(back.X-p.X) > 1 || abs(back.Y-p.Y) > 1 {
				t.Errorf("%s: round trip %v -> %v -> %v", hh.name, p, sky, back)
			}
		}
	}
}

func TestRoundTrip_WrappedRA(t *testing.T) {
	m := mustMapper(t, tanHeader(0.1, 10, 50, 50, -0.01, 0.01))

	sky, err := m.PixelToCoordinate(80, 50)
	if err != nil {
		t.Fatalf("PixelToCoordinate failed: %v", err)
	}
	if sky.RA >= 0 {
		t.Fatalf("expected unwrapped negative RA, got %v", sky.RA)
	}

	// the inverse accepts the wrapped value as well
	back, err := m.CoordinateToPixel(sky.Normalized().RA, sky.Dec)
	if err != nil {
		t.Fatalf("CoordinateToPixel failed: %v", err)
	}
	if back.X != 80 || back.Y != 50 {
		t.Errorf("got %v, want {80 50}", back)
	}
}

func TestLonPoleFromHeader(t *testing.T) {
	h := tanHeader(30, 30, 10, 10, -0.1, 0.1)
	h["LONPOLE"] = 180.0
	withDefault := mustMapper(t, tanHeader(30, 30, 10, 10, -0.1, 0.1))
	explicit := mustMapper(t, h)

	a, _ := withDefault.PixelToCoordinate(20, 25)
	b, _ := explicit.PixelToCoordinate(20, 25)
	if !approx(a.RA, b.RA, tolerance) || !approx(a.Dec, b.Dec, tolerance) {
		t.Errorf("LONPOLE=180 differs from default: %v vs %v", a, b)
	}

	h["LONPOLE"] = 90.0
	rotated := mustMapper(t, h)
	if got := rotated.NativePoleLongitude(); got != 90 {
		t.Errorf("NativePoleLongitude: got %v, want 90", got)
	}
	if got := withDefault.NativePoleLongitude(); got != 180 {
		t.Errorf("default NativePoleLongitude: got %v, want 180", got)
	}
	c, err := rotated.PixelToCoordinate(20, 25)
	if err != nil {
		t.Fatalf("PixelToCoordinate failed: %v", err)
	}
	if approx(a.RA, c.RA, 1e-6) && approx(a.Dec, c.Dec, 1e-6) {
		t.Error("LONPOLE=90 should rotate the field")
	}
	back, err := rotated.CoordinateToPixel(c.RA, c.Dec)
	if err != nil {
		t.Fatalf("CoordinateToPixel failed: %v", err)
	}
	if back.X != 20 || back.Y != 25 {
		t.Errorf("rotated round trip: got %v, want {20 25}", back)
	}
}

func TestIntermediateWorldCoords(t *testing.T) {
	m := mustMapper(t, tanHeader(0, 0, 10, 20, 2, -3))

	got, err := m.IntermediateWorldCoords([]float64{15, 18})
	if err != nil {
		t.Fatalf("IntermediateWorldCoords failed: %v", err)
	}
	if got[0] != 10 || got[1] != 6 {
		t.Errorf("got %v, want [10 6]", got)
	}

	one, err := m.IntermediateWorldCoords([]float64{11})
	if err != nil {
		t.Fatalf("single axis failed: %v", err)
	}
	if len(one) != 1 || one[0] != 2 {
		t.Errorf("single axis: got %v, want [2]", one)
	}
}

func TestIntermediateWorldCoords_DimensionMismatch(t *testing.T) {
	m := mustMapper(t, tanHeader(0, 0, 0, 0, 1, 1))

	_, err := m.IntermediateWorldCoords([]float64{1, 2, 3})
	var dim *DimensionMismatchError
	if !errors.As(err, &dim) {
		t.Fatalf("error: got %v, want DimensionMismatchError", err)
	}
	if dim.Got != 3 || dim.NAXIS != 2 {
		t.Errorf("got %+v, want Got=3 NAXIS=2", dim)
	}
}

func TestMissingKeywordAtUse(t *testing.T) {
	h := tanHeader(0, 0, 0, 0, 1, 1)
	delete(h, "CRPIX1")

	m, err := NewMapper(h)
	if err != nil {
		t.Fatalf("missing CRPIX1 must not fail construction: %v", err)
	}

	_, err = m.PixelToCoordinate(1, 1)
	var missing *MissingKeywordError
	if !errors.As(err, &missing) || missing.Keyword != "CRPIX1" {
		t.Errorf("PixelToCoordinate: got %v, want MissingKeywordError{CRPIX1}", err)
	}
	if _, err := m.CoordinateToPixel(0, 0); !errors.As(err, &missing) {
		t.Errorf("CoordinateToPixel: got %v, want MissingKeywordError", err)
	}
}

func TestCoordinateToPixel_Degenerate(t *testing.T) {
	m := mustMapper(t, tanHeader(0, 0, 0, 0, 1, 1))

	tests := []struct {
		name    string
		ra, dec float64
	}{
		{"antipode", 180, 0},
		{"ninety degrees away", 90, 0},
		{"behind the plane", 0, -120},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := m.CoordinateToPixel(tt.ra, tt.dec); !errors.Is(err, ErrDegenerateGeometry) {
				t.Errorf("got %v, want ErrDegenerateGeometry", err)
			}
		})
	}

	zero := mustMapper(t, tanHeader(0, 0, 0, 0, 0, 1))
	if _, err := zero.CoordinateToPixel(0, 0); !errors.Is(err, ErrDegenerateGeometry) {
		t.Errorf("zero CDELT: got %v, want ErrDegenerateGeometry", err)
	}
}

func TestCoordinateToPixel_Rounding(t *testing.T) {
	m := mustMapper(t, tanHeader(0, 0, 0, 0, 1, 1))

	got, err := m.IntermediateToPixel([]float64{2.5, -2.5})
	if err != nil {
		t.Fatalf("IntermediateToPixel failed: %v", err)
	}
	if got[0] != 3 || got[1] != -3 {
		t.Errorf("got %v, want [3 -3]", got)
	}
}

func TestNormalized(t *testing.T) {
	tests := []struct {
		ra, want float64
	}{
		{-10, 350},
		{370, 10},
		{0, 0},
		{360, 0},
		{-720.5, 359.5},
	}
	for _, tt := range tests {
		if got := (Celestial{RA: tt.ra}).Normalized().RA; !approx(got, tt.want, tolerance) {
			t.Errorf("Normalized(%v): got %v, want %v", tt.ra, got, tt.want)
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
