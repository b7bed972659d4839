package colorspace

import "math"

// Weights tunes distance functions. The zero value is not the neutral
// setting; use DefaultWeights.
type Weights struct {
	// CAM16J multiplies the squared J' delta in DistCAM16. Must be >= 0.
	CAM16J float64 `json:"cam16_j"`
}

// DefaultWeights leaves every term unweighted.
func DefaultWeights() Weights {
	return Weights{CAM16J: 1}
}

// DistRGB is the squared Euclidean distance between two RGB triples.
func DistRGB(a, b Triple) float64 {
	d0 := a[0] - b[0]
	d1 := a[1] - b[1]
	d2 := a[2] - b[2]
	return d0*d0 + d1*d1 + d2*d2
}

// DistHSL compares two HSL triples with circular hue.
//
// The hue delta is folded onto [0,180] and divided by 180; saturation and
// lightness deltas are divided by 100. The squared components are summed.
func DistHSL(a, b Triple) float64 {
	return distCylindrical(a, b)
}

// DistHSV compares two HSV triples the same way DistHSL does.
func DistHSV(a, b Triple) float64 {
	return distCylindrical(a, b)
}

// DistCAM16 is the squared Euclidean distance in CAM16-UCS with the J' term
// scaled by jWeight.
func DistCAM16(a, b Triple, jWeight float64) float64 {
	dj := a[0] - b[0]
	da := a[1] - b[1]
	db := a[2] - b[2]
	return jWeight*dj*dj + da*da + db*db
}

func distCylindrical(a, b Triple) float64 {
	raw := math.Abs(a[0] - b[0])
	dh := math.Min(raw, 360-raw) / 180
	ds := (a[1] - b[1]) / 100
	dl := (a[2] - b[2]) / 100
	return dh*dh + ds*ds + dl*dl
}
