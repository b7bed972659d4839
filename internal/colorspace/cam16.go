package colorspace

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// UCS rescaling coefficients (Li et al. 2017).
const (
	ucsC1 = 0.007
	ucsC2 = 0.0228
)

// m16 maps CIE XYZ to CAM16 cone responses.
var m16 = [3][3]float64{
	{0.401288, 0.650173, -0.051461},
	{-0.250268, 1.204414, 0.045854},
	{-0.002079, 0.048952, 0.953127},
}

// d65 is the reference white in XYZ scaled to Y = 100.
var d65 = [3]float64{95.047, 100.0, 108.883}

// viewingConditions holds the values of the CAM16 model that depend only on
// the environment, computed once.
type viewingConditions struct {
	n, aw, nbb, ncb, c, nc, fl, fLRoot, z float64
	rgbD                                [3]float64
}

var defaultConditions = newViewingConditions(
	200.0/math.Pi*yFromLstar(50.0)/100.0,
	50.0,
	2.0,
)

// newViewingConditions derives the model constants for the D65 white.
// surround is 0 (dark) to 2 (average).
func newViewingConditions(adaptingLuminance, backgroundLstar, surround float64) viewingConditions {
	rgbW := mulM16(d65)

	f := 0.8 + surround/10.0
	var c float64
	if f >= 0.9 {
		c = lerp(0.59, 0.69, (f-0.9)*10.0)
	} else {
		c = lerp(0.525, 0.59, (f-0.8)*10.0)
	}

	d := f * (1.0 - (1.0/3.6)*math.Exp((-adaptingLuminance-42.0)/92.0))
	d = math.Max(0, math.Min(1, d))

	var rgbD [3]float64
	for i := range rgbD {
		rgbD[i] = d*(100.0/rgbW[i]) + 1.0 - d
	}

	k := 1.0 / (5.0*adaptingLuminance + 1.0)
	k4 := k * k * k * k
	k4F := 1.0 - k4
	fl := k4*adaptingLuminance + 0.1*k4F*k4F*math.Cbrt(5.0*adaptingLuminance)

	n := yFromLstar(backgroundLstar) / d65[1]
	z := 1.48 + math.Sqrt(n)
	nbb := 0.725 / math.Pow(n, 0.2)

	var rgbA [3]float64
	for i := range rgbA {
		rgbA[i] = compress(fl * rgbD[i] * rgbW[i] / 100.0)
	}
	aw := (2.0*rgbA[0] + rgbA[1] + 0.05*rgbA[2]) * nbb

	return viewingConditions{
		n:      n,
		aw:     aw,
		nbb:    nbb,
		ncb:    nbb,
		c:      c,
		nc:     f,
		fl:     fl,
		fLRoot: math.Pow(fl, 0.25),
		z:      z,
		rgbD:   rgbD,
	}
}

// ToCAM16UCS converts 8-bit sRGB to CAM16-UCS (J', a', b').
//
// The sRGB values are gamma decoded (0.04045 breakpoint) and projected to
// XYZ with the BT.709/D65 matrix, adapted to the D65 white in CAM16 cone
// space, compressed with the signed 0.42 power response, and reduced to the
// lightness J, hue h and colourfulness M correlates before the UCS rescale.
func ToCAM16UCS(r, g, b uint8) Triple {
	return defaultConditions.ucs(r, g, b)
}

func (vc viewingConditions) ucs(r, g, b uint8) Triple {
	x, y, z := colorful.Color{R: unit(r), G: unit(g), B: unit(b)}.Xyz()
	cone := mulM16([3]float64{x * 100, y * 100, z * 100})

	var ra [3]float64
	for i := range ra {
		ra[i] = compress(vc.fl * vc.rgbD[i] * cone[i] / 100.0)
	}

	a := (11.0*ra[0] - 12.0*ra[1] + ra[2]) / 11.0
	bb := (ra[0] + ra[1] - 2.0*ra[2]) / 9.0
	u := (20.0*ra[0] + 20.0*ra[1] + 21.0*ra[2]) / 20.0
	p2 := (40.0*ra[0] + 20.0*ra[1] + ra[2]) / 20.0

	hRad := math.Atan2(bb, a)
	hDeg := hRad * 180.0 / math.Pi
	if hDeg < 0 {
		hDeg += 360.0
	}

	ac := p2 * vc.nbb
	j := 0.0
	if ratio := ac / vc.aw; ratio > 0 {
		j = 100.0 * math.Pow(ratio, vc.c*vc.z)
	}

	huePrime := hDeg
	if huePrime < 20.14 {
		huePrime += 360.0
	}
	eHue := 0.25 * (math.Cos(huePrime*math.Pi/180.0+2.0) + 3.8)
	p1 := 50000.0 / 13.0 * eHue * vc.nc * vc.ncb
	t := p1 * math.Hypot(a, bb) / (u + 0.305)
	alpha := math.Pow(t, 0.9) * math.Pow(1.64-math.Pow(0.29, vc.n), 0.73)
	chroma := alpha * math.Sqrt(j/100.0)
	m := chroma * vc.fLRoot

	jStar := (1.0 + 100.0*ucsC1) * j / (1.0 + ucsC1*j)
	mStar := math.Log1p(ucsC2*m) / ucsC2

	return Triple{jStar, mStar * math.Cos(hRad), mStar * math.Sin(hRad)}
}

// compress is the CAM16 post-adaptation response: a signed 0.42 power law
// followed by the hyperbolic saturation.
func compress(v float64) float64 {
	p := math.Pow(math.Abs(v), 0.42)
	return math.Copysign(400.0*p/(p+27.13), v)
}

func mulM16(v [3]float64) [3]float64 {
	var out [3]float64
	for i, row := range m16 {
		out[i] = row[0]*v[0] + row[1]*v[1] + row[2]*v[2]
	}
	return out
}

// yFromLstar is the CIE relative luminance (0-100) for a given L*.
func yFromLstar(lstar float64) float64 {
	ft := (lstar + 16.0) / 116.0
	ft3 := ft * ft * ft
	if ft3 > 216.0/24389.0 {
		return 100.0 * ft3
	}
	return 100.0 * (116.0*ft - 16.0) / (24389.0 / 27.0)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
