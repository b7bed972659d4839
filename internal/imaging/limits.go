package imaging

import (
	"errors"
	"fmt"
)

// Dimension limits applied before an image is handed to the engine.
const (
	// MaxDimsNormal is the largest accepted width or height by default.
	MaxDimsNormal = 500

	// MaxDimsLarge is the largest accepted width or height when larger
	// images are allowed.
	MaxDimsLarge = 2000

	// LargeImageWarningPixels is the pixel count above which processing is
	// expected to be slow.
	LargeImageWarningPixels = 100000
)

// ErrDimensionLimitExceeded means the image is wider or taller than allowed.
var ErrDimensionLimitExceeded = errors.New("image exceeds dimension limit")

// DimensionCheck is the outcome of CheckDimensions for an accepted image.
type DimensionCheck struct {
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	MaxDims int    `json:"max_dims"`
	Warning string `json:"warning,omitempty"`
}

// MaxDims returns the dimension limit in force.
func MaxDims(allowLarger bool) int {
	if allowLarger {
		return MaxDimsLarge
	}
	return MaxDimsNormal
}

// CheckDimensions validates a width x height image against the limit.
//
// Images over the limit fail with ErrDimensionLimitExceeded. Accepted images
// over LargeImageWarningPixels carry a warning.
func CheckDimensions(width, height int, allowLarger bool) (*DimensionCheck, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid image dimensions %dx%d", width, height)
	}
	limit := MaxDims(allowLarger)
	if width > limit || height > limit {
		return nil, fmt.Errorf("%w: %dx%d, max resolution %dx%d", ErrDimensionLimitExceeded, width, height, limit, limit)
	}

	check := &DimensionCheck{Width: width, Height: height, MaxDims: limit}
	if pixels := width * height; pixels > LargeImageWarningPixels {
		check.Warning = fmt.Sprintf("image has %d pixels; processing may take a while", pixels)
	}
	return check, nil
}
