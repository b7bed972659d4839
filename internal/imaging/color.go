package imaging

import (
	"fmt"
	"image"
	"image/color"

	"github.com/ironsheep/pixelmap-mcp/internal/colorspace"
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// ColorResult contains a pixel's colour in every representation the
// matcher can compare in.
//
// HSL and HSV are [hue 0-360, saturation 0-100, lightness/value 0-100].
// CAM16 is [J', a', b'] in CAM16-UCS.
type ColorResult struct {
	Hex   string            `json:"hex"`   // "#RRGGBB" (alpha excluded)
	RGB   RGBColor          `json:"rgb"`   // 8-bit components
	Alpha uint8             `json:"alpha"` // ignored by matching
	HSL   colorspace.Triple `json:"hsl"`
	HSV   colorspace.Triple `json:"hsv"`
	CAM16 colorspace.Triple `json:"cam16"`
}

// Repr returns the representation used for space.
func (c *ColorResult) Repr(space colorspace.Space) colorspace.Triple {
	switch space {
	case colorspace.HSL:
		return c.HSL
	case colorspace.HSV:
		return c.HSV
	case colorspace.CAM16:
		return c.CAM16
	default:
		return colorspace.FromRGB(c.RGB.R, c.RGB.G, c.RGB.B)
	}
}

// SampleColor extracts the color value at a specific pixel coordinate.
//
// Parameters:
//   - img: The source image to sample from.
//   - x: X coordinate relative to the image's top-left corner (0-based).
//   - y: Y coordinate relative to the image's top-left corner (0-based).
//
// Returns:
//   - *ColorResult: The color at (x, y) in every representation.
//   - error: Non-nil if coordinates are outside the image bounds.
//
// The colour is read as non-premultiplied 8-bit RGBA, the same way the
// pixel cache reads it, so a sample always agrees with the cached values.
func SampleColor(img image.Image, x, y int) (*ColorResult, error) {
	bounds := img.Bounds()
	if x < 0 || x >= bounds.Dx() || y < 0 || y >= bounds.Dy() {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds %dx%d", x, y, bounds.Dx(), bounds.Dy())
	}

	c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)

	return &ColorResult{
		Hex:   fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B),
		RGB:   RGBColor{R: c.R, G: c.G, B: c.B},
		Alpha: c.A,
		HSL:   colorspace.ToHSL(c.R, c.G, c.B),
		HSV:   colorspace.ToHSV(c.R, c.G, c.B),
		CAM16: colorspace.ToCAM16UCS(c.R, c.G, c.B),
	}, nil
}
