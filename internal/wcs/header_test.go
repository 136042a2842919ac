package wcs

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func TestBuildHeaderConfig_Unsupported(t *testing.T) {
	tests := []struct {
		name   string
		ctype1 interface{}
		ctype2 interface{}
	}{
		{"galactic CAR", "GLON-CAR", "DEC--TAN"},
		{"second axis unsupported", "RA---TAN", "GLAT-CAR"},
		{"swapped axes", "DEC--TAN", "RA---TAN"},
		{"both longitude", "RA---TAN", "RA---TAN"},
		{"missing CTYPE2", "RA---TAN", nil},
		{"sine projection", "RA---SIN", "DEC--SIN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := tanHeader(0, 0, 0, 0, 1, 1)
			h["CTYPE1"] = tt.ctype1
			if tt.ctype2 == nil {
				delete(h, "CTYPE2")
			} else {
				h["CTYPE2"] = tt.ctype2
			}

			m, err := NewMapper(h)
			if !errors.Is(err, ErrUnsupportedTransform) {
				t.Fatalf("error: got %v, want ErrUnsupportedTransform", err)
			}
			if m != nil {
				t.Error("NewMapper returned a usable mapper for an unsupported header")
			}
		})
	}
}

func TestBuildHeaderConfig_PaddedCTYPE(t *testing.T) {
	h := tanHeader(0, 0, 0, 0, 1, 1)
	h["CTYPE1"] = "RA---TAN  "
	h["CTYPE2"] = " DEC--TAN"

	cfg, err := BuildHeaderConfig(h)
	if err != nil {
		t.Fatalf("BuildHeaderConfig failed: %v", err)
	}
	if got, _ := cfg.CTYPE(1); got != "RA---TAN" {
		t.Errorf("CTYPE1: got %q, want RA---TAN", got)
	}
}

func TestBuildHeaderConfig_CopiesPresentKeywords(t *testing.T) {
	h := Header{
		"NAXIS":   3,
		"NAXIS1":  2048,
		"NAXIS2":  1024,
		"NAXIS3":  4,
		"CTYPE1":  "RA---TAN",
		"CTYPE2":  "DEC--TAN",
		"CTYPE3":  "FREQ",
		"CRPIX1":  "1024.5",
		"CRPIX2":  512.5,
		"CRVAL1":  json.Number("83.822"),
		"CRVAL2":  float32(-5.391),
		"CDELT1":  -0.001,
		"CDELT2":  0.001,
		"CDELT3":  int64(1000),
		"CUNIT1":  "deg",
		"CUNIT2":  "deg",
		"EQUINOX": 2000,
		"RADESYS": "ICRS",
		"OBJECT":  "M42",
	}

	cfg, err := BuildHeaderConfig(h)
	if err != nil {
		t.Fatalf("BuildHeaderConfig failed: %v", err)
	}

	if n, err := cfg.NAXIS(); err != nil || n != 3 {
		t.Errorf("NAXIS: got %d (%v), want 3", n, err)
	}
	if n, ok := cfg.AxisLength(1); !ok || n != 2048 {
		t.Errorf("NAXIS1: got %d (%v), want 2048", n, ok)
	}
	if v, err := cfg.CRPIX(1); err != nil || v != 1024.5 {
		t.Errorf("CRPIX1: got %v (%v), want 1024.5", v, err)
	}
	if v, err := cfg.CRVAL(1); err != nil || v != 83.822 {
		t.Errorf("CRVAL1: got %v (%v), want 83.822", v, err)
	}
	if v, err := cfg.CDELT(3); err != nil || v != 1000 {
		t.Errorf("CDELT3: got %v (%v), want 1000", v, err)
	}
	if u, ok := cfg.CUNIT(2); !ok || u != "deg" {
		t.Errorf("CUNIT2: got %q (%v), want deg", u, ok)
	}
	if _, ok := cfg.CUNIT(3); ok {
		t.Error("CUNIT3 should be absent")
	}
	if eq, ok := cfg.EQUINOX(); !ok || eq != 2000 {
		t.Errorf("EQUINOX: got %v (%v), want 2000", eq, ok)
	}
	if rs, ok := cfg.RADESYS(); !ok || rs != "ICRS" {
		t.Errorf("RADESYS: got %q (%v), want ICRS", rs, ok)
	}
	if _, ok := cfg.LONPOLE(); ok {
		t.Error("LONPOLE should be absent")
	}

	kw := cfg.Keywords()
	if _, ok := kw["OBJECT"]; ok {
		t.Error("Keywords should not carry non-WCS keywords")
	}
	if _, ok := kw["CRPIX3"]; ok {
		t.Error("Keywords should not zero-fill absent CRPIX3")
	}
	if kw["CTYPE3"] != "FREQ" {
		t.Errorf("Keywords CTYPE3: got %v, want FREQ", kw["CTYPE3"])
	}

	// the source header is untouched
	if h["CRPIX1"] != "1024.5" {
		t.Errorf("source header mutated: CRPIX1 = %v", h["CRPIX1"])
	}
}

func TestBuildHeaderConfig_OnlyDeclaredAxes(t *testing.T) {
	h := tanHeader(0, 0, 0, 0, 1, 1)
	h["CRPIX3"] = 7.0

	cfg, err := BuildHeaderConfig(h)
	if err != nil {
		t.Fatalf("BuildHeaderConfig failed: %v", err)
	}
	if _, err := cfg.CRPIX(3); err == nil {
		t.Error("CRPIX3 beyond NAXIS should not be copied")
	}
}

func TestBuildHeaderConfig_BadValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value interface{}
	}{
		{"non numeric CRPIX", "CRPIX1", "center"},
		{"fractional NAXIS", "NAXIS", 2.5},
		{"boolean CDELT", "CDELT2", true},
		{"NAXIS beyond 999", "NAXIS", 1e15},
		{"NAXIS just beyond 999", "NAXIS", 1000},
		{"negative NAXIS", "NAXIS", -1},
		{"NaN CRVAL string", "CRVAL1", "NaN"},
		{"infinite CDELT", "CDELT1", math.Inf(1)},
		{"infinite NAXIS", "NAXIS", math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := tanHeader(0, 0, 0, 0, 1, 1)
			h[tt.key] = tt.value
			if _, err := BuildHeaderConfig(h); err == nil {
				t.Errorf("expected error for %s=%v", tt.key, tt.value)
			}
		})
	}
}

func TestHeaderConfig_MissingKeyword(t *testing.T) {
	cfg, err := BuildHeaderConfig(Header{"CTYPE1": "RA---TAN", "CTYPE2": "DEC--TAN"})
	if err != nil {
		t.Fatalf("BuildHeaderConfig failed: %v", err)
	}

	var missing *MissingKeywordError
	if _, err := cfg.NAXIS(); !errors.As(err, &missing) || missing.Keyword != "NAXIS" {
		t.Errorf("NAXIS: got %v, want MissingKeywordError{NAXIS}", err)
	}
	if _, err := cfg.CRVAL(2); !errors.As(err, &missing) || missing.Keyword != "CRVAL2" {
		t.Errorf("CRVAL2: got %v, want MissingKeywordError{CRVAL2}", err)
	}
}

func TestParseProjection(t *testing.T) {
	if p, ok := ParseProjection("RA---TAN"); !ok || !p.IsLongitude() {
		t.Errorf("RA---TAN: got %q %v", p, ok)
	}
	if p, ok := ParseProjection("DEC--TAN"); !ok || !p.IsLatitude() {
		t.Errorf("DEC--TAN: got %q %v", p, ok)
	}
	if _, ok := ParseProjection("GLON-CAR"); ok {
		t.Error("GLON-CAR should not parse")
	}
}
