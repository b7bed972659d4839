package colorspace

import (
	"math"
	"testing"

	colorful "github.com/lucasb-eyer/go-colorful"
)

const tolerance = 1e-6

func near(a, b float64) bool {
	return math.Abs(a-b) <= tolerance
}

// sampleRGB walks the RGB cube in steps of 17 so both 0 and 255 are hit.
func sampleRGB(fn func(r, g, b uint8)) {
	for r := 0; r <= 255; r += 17 {
		for g := 0; g <= 255; g += 17 {
			for b := 0; b <= 255; b += 17 {
				fn(uint8(r), uint8(g), uint8(b))
			}
		}
	}
}

func TestToHSL_MatchesReference(t *testing.T) {
	sampleRGB(func(r, g, b uint8) {
		got := ToHSL(r, g, b)
		h, s, l := colorful.Color{R: unit(r), G: unit(g), B: unit(b)}.Hsl()

		if !near(got[0], h) || !near(got[1], s*100) || !near(got[2], l*100) {
			t.Errorf("ToHSL(%d,%d,%d) = %v, want (%f,%f,%f)", r, g, b, got, h, s*100, l*100)
		}
	})
}

func TestToHSV_MatchesReference(t *testing.T) {
	sampleRGB(func(r, g, b uint8) {
		got := ToHSV(r, g, b)
		h, s, v := colorful.Color{R: unit(r), G: unit(g), B: unit(b)}.Hsv()

		if !near(got[0], h) || !near(got[1], s*100) || !near(got[2], v*100) {
			t.Errorf("ToHSV(%d,%d,%d) = %v, want (%f,%f,%f)", r, g, b, got, h, s*100, v*100)
		}
	})
}

func TestHueRanges(t *testing.T) {
	sampleRGB(func(r, g, b uint8) {
		for name, tr := range map[string]Triple{"HSL": ToHSL(r, g, b), "HSV": ToHSV(r, g, b)} {
			if tr[0] < 0 || tr[0] >= 360 {
				t.Errorf("%s hue out of range for (%d,%d,%d): %f", name, r, g, b, tr[0])
			}
			if tr[1] < 0 || tr[1] > 100 || tr[2] < 0 || tr[2] > 100 {
				t.Errorf("%s s/l out of range for (%d,%d,%d): %v", name, r, g, b, tr)
			}
		}
	})
}

func TestAchromaticHueIsZero(t *testing.T) {
	for _, v := range []uint8{0, 1, 64, 128, 200, 255} {
		if h := ToHSL(v, v, v)[0]; h != 0 {
			t.Errorf("ToHSL gray %d: hue %f, want 0", v, h)
		}
		if h := ToHSV(v, v, v)[0]; h != 0 {
			t.Errorf("ToHSV gray %d: hue %f, want 0", v, h)
		}
		if s := ToHSL(v, v, v)[1]; s != 0 {
			t.Errorf("ToHSL gray %d: saturation %f, want 0", v, s)
		}
	}
}

func TestKnownHues(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
		wantHue float64
	}{
		{"pure red", 255, 0, 0, 0},
		{"yellow", 255, 255, 0, 60},
		{"pure green", 0, 255, 0, 120},
		{"cyan", 0, 255, 255, 180},
		{"pure blue", 0, 0, 255, 240},
		{"magenta", 255, 0, 255, 300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if h := ToHSL(tt.r, tt.g, tt.b)[0]; !near(h, tt.wantHue) {
				t.Errorf("HSL hue: got %f, want %f", h, tt.wantHue)
			}
			if h := ToHSV(tt.r, tt.g, tt.b)[0]; !near(h, tt.wantHue) {
				t.Errorf("HSV hue: got %f, want %f", h, tt.wantHue)
			}
		})
	}
}

func TestToHSL_Lightness(t *testing.T) {
	if got := ToHSL(255, 255, 255); got != (Triple{0, 0, 100}) {
		t.Errorf("white: got %v, want [0 0 100]", got)
	}
	if got := ToHSL(0, 0, 0); got != (Triple{0, 0, 0}) {
		t.Errorf("black: got %v, want [0 0 0]", got)
	}
	got := ToHSL(255, 0, 0)
	if !near(got[1], 100) || !near(got[2], 50) {
		t.Errorf("red: got %v, want s=100 l=50", got)
	}
}

func TestToHSV_BlackHasZeroSaturation(t *testing.T) {
	if got := ToHSV(0, 0, 0); got != (Triple{0, 0, 0}) {
		t.Errorf("black: got %v, want [0 0 0]", got)
	}
}
