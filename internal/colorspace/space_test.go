package colorspace

import (
	"errors"
	"math"
	"testing"
)

func TestParseSpace(t *testing.T) {
	tests := []struct {
		in   string
		want Space
	}{
		{"RGB", RGB},
		{"rgb", RGB},
		{"HSL", HSL},
		{"hsv", HSV},
		{"CAM16", CAM16},
		{" cam16-ucs ", CAM16},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSpace(tt.in)
			if err != nil {
				t.Fatalf("ParseSpace(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseSpace(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseSpace_Unknown(t *testing.T) {
	_, err := ParseSpace("LAB")
	if !errors.Is(err, ErrUnknownSpace) {
		t.Errorf("expected ErrUnknownSpace, got %v", err)
	}
}

func TestSpace_TextRoundTrip(t *testing.T) {
	for _, s := range AllSpaces() {
		text, err := s.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v): %v", s, err)
		}
		var back Space
		if err := back.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%s): %v", text, err)
		}
		if back != s {
			t.Errorf("round trip: got %v, want %v", back, s)
		}
	}
}

func TestDistance_SelfIsZero(t *testing.T) {
	w := Weights{CAM16J: 3}
	sampleRGB(func(r, g, b uint8) {
		for _, s := range AllSpaces() {
			v := s.Convert(r, g, b)
			if d := s.Distance(v, v, w); d != 0 {
				t.Fatalf("%v distance of (%d,%d,%d) to itself = %g", s, r, g, b, d)
			}
		}
	})
}

func TestDistance_NonNegative(t *testing.T) {
	a := FromRGB(10, 20, 30)
	b := FromRGB(200, 100, 0)
	for _, s := range AllSpaces() {
		d := s.Distance(s.Convert(10, 20, 30), s.Convert(200, 100, 0), DefaultWeights())
		if d < 0 || math.IsNaN(d) {
			t.Errorf("%v distance = %g", s, d)
		}
	}
	if DistRGB(a, b) != 190*190+80*80+30*30 {
		t.Errorf("DistRGB: got %g", DistRGB(a, b))
	}
}

func TestDistHSL_HueIsCircular(t *testing.T) {
	a := Triple{350, 50, 50}
	b := Triple{10, 50, 50}
	want := (20.0 / 180) * (20.0 / 180)
	if d := DistHSL(a, b); math.Abs(d-want) > 1e-12 {
		t.Errorf("DistHSL across 0: got %g, want %g", d, want)
	}
	if DistHSV(a, b) != DistHSL(a, b) {
		t.Errorf("DistHSV should match DistHSL for identical inputs")
	}

	opposite := DistHSL(Triple{0, 0, 0}, Triple{180, 0, 0})
	if math.Abs(opposite-1) > 1e-12 {
		t.Errorf("opposite hues: got %g, want 1", opposite)
	}
}

func TestDistCAM16_WeightOnlyScalesLightness(t *testing.T) {
	a := Triple{50, 10, 10}
	b := Triple{60, 10, 10}
	c := Triple{50, 20, 10}

	if d := DistCAM16(a, b, 2); d != 200 {
		t.Errorf("weighted J delta: got %g, want 200", d)
	}
	if d := DistCAM16(a, c, 2); d != 100 {
		t.Errorf("a' delta must not be weighted: got %g, want 100", d)
	}
	if d := DistCAM16(a, b, 0); d != 0 {
		t.Errorf("zero weight should ignore J: got %g", d)
	}
}

func TestSpace_Convert(t *testing.T) {
	if RGB.Convert(1, 2, 3) != (Triple{1, 2, 3}) {
		t.Errorf("RGB.Convert should copy channels")
	}
	if HSL.Convert(255, 0, 0) != ToHSL(255, 0, 0) {
		t.Errorf("HSL.Convert mismatch")
	}
	if HSV.Convert(0, 255, 0) != ToHSV(0, 255, 0) {
		t.Errorf("HSV.Convert mismatch")
	}
}
