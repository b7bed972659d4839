package colorspace

// Triple is one colour in a three-component representation.
type Triple [3]float64

// FromRGB returns the 8-bit channels as a Triple.
func FromRGB(r, g, b uint8) Triple {
	return Triple{float64(r), float64(g), float64(b)}
}

// ToHSL converts 8-bit RGB values to HSL.
//
// The conversion follows the standard algorithm:
//  1. Normalize RGB to 0-1 range
//  2. Find min and max components
//  3. Calculate Lightness as (max + min) / 2
//  4. Calculate Saturation based on lightness
//  5. Calculate Hue based on which component is max
//
// Returns a Triple with:
//   - H: 0-360 (degrees on color wheel, 0 for grays)
//   - S: 0-100 (percentage)
//   - L: 0-100 (percentage)
func ToHSL(r, g, b uint8) Triple {
	rf, gf, bf := unit(r), unit(g), unit(b)
	max, min := maxMin(rf, gf, bf)

	l := (max + min) / 2.0
	if max == min {
		return Triple{0, 0, l * 100}
	}

	d := max - min
	var s float64
	if l > 0.5 {
		s = d / (2.0 - max - min)
	} else {
		s = d / (max + min)
	}

	return Triple{hue(rf, gf, bf, max, d), s * 100, l * 100}
}

// ToHSV converts 8-bit RGB values to HSV.
//
// Returns a Triple with:
//   - H: 0-360 (degrees on color wheel, 0 when the delta is zero)
//   - S: 0-100 (percentage, 0 for black)
//   - V: 0-100 (percentage)
func ToHSV(r, g, b uint8) Triple {
	rf, gf, bf := unit(r), unit(g), unit(b)
	max, min := maxMin(rf, gf, bf)
	d := max - min

	var s float64
	if max != 0 {
		s = d / max
	}
	if d == 0 {
		return Triple{0, s * 100, max * 100}
	}

	return Triple{hue(rf, gf, bf, max, d), s * 100, max * 100}
}

// hue is the piecewise hue shared by HSL and HSV, in degrees.
// The first matching channel wins when two channels share the maximum.
func hue(rf, gf, bf, max, d float64) float64 {
	var h float64
	switch max {
	case rf:
		h = (gf - bf) / d
		if gf < bf {
			h += 6
		}
	case gf:
		h = 2.0 + (bf-rf)/d
	case bf:
		h = 4.0 + (rf-gf)/d
	}
	return h * 60
}

func unit(c uint8) float64 {
	return float64(c) / 255.0
}

func maxMin(r, g, b float64) (max, min float64) {
	max = r
	if g > max {
		max = g
	}
	if b > max {
		max = b
	}

	min = r
	if g < min {
		min = g
	}
	if b < min {
		min = b
	}
	return max, min
}
