// Package colorspace converts 8-bit sRGB colours into the representations
// used for palette matching and measures distances between them.
//
// # Representations
//
// Every representation is a Triple of float64 components:
//   - RGB: the 8-bit channels unchanged (0-255)
//   - HSL: Hue (0-360), Saturation (0-100), Lightness (0-100)
//   - HSV: Hue (0-360), Saturation (0-100), Value (0-100)
//   - CAM16: CAM16-UCS J' (lightness), a' and b' (opponent chroma)
//
// Achromatic inputs (all channels equal) have hue 0 in both HSL and HSV.
//
// # CAM16-UCS
//
// The CAM16 forward model runs under the sRGB default viewing conditions
// (D65 white, adapting luminance 200/pi * Y(L*=50)/100, background L* 50,
// average surround) and is rescaled with the Li et al. 2017 UCS
// coefficients c1 = 0.007 and c2 = 0.0228. Palette entries and image pixels
// go through the same constants, so distances stay comparable.
//
// # Distances
//
// Distance functions only order candidates. They return squared sums and
// never take a square root. Hue is circular in HSL and HSV.
package colorspace
