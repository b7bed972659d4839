package engine

import (
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/pixelmap-mcp/internal/colorspace"
)

// ErrBuildAborted reports that a newer image superseded a cache build. It
// is an expected outcome, not a failure.
var ErrBuildAborted = errors.New("pixel cache build superseded by a newer image")

// PixelCache holds every pixel of one image in all four representations,
// row-major. It is read-only once returned.
type PixelCache struct {
	Width  int
	Height int
	Epoch  uint64

	rgb   []colorspace.Triple
	hsl   []colorspace.Triple
	hsv   []colorspace.Triple
	cam16 []colorspace.Triple
}

// Len is the number of pixels.
func (c *PixelCache) Len() int {
	return c.Width * c.Height
}

// Grid returns the row-major grid for space. Callers must not modify it.
func (c *PixelCache) Grid(space colorspace.Space) []colorspace.Triple {
	switch space {
	case colorspace.HSL:
		return c.hsl
	case colorspace.HSV:
		return c.hsv
	case colorspace.CAM16:
		return c.cam16
	default:
		return c.rgb
	}
}

// At returns the representation of pixel (x, y).
func (c *PixelCache) At(space colorspace.Space, x, y int) (colorspace.Triple, error) {
	if x < 0 || x >= c.Width || y < 0 || y >= c.Height {
		return colorspace.Triple{}, fmt.Errorf("coordinates (%d,%d) outside image bounds", x, y)
	}
	return c.Grid(space)[y*c.Width+x], nil
}

// BuildOptions controls BuildCache.
type BuildOptions struct {
	// ChunkSize is the number of pixels between yields. Defaults to
	// DefaultCacheChunk.
	ChunkSize int

	// Progress is called with PhaseCaching at chunk boundaries.
	Progress ProgressFunc

	// Current returns the epoch of the image the caller wants now. The build
	// aborts as soon as it differs from the target epoch. Nil means the
	// build can never go stale.
	Current func() uint64
}

// BuildCache converts every pixel of img into all four representations.
//
// The image is flattened once into a non-premultiplied NRGBA buffer and
// walked row-major; alpha is ignored. After each chunk the build reports
// progress, yields and checks the epoch, and it checks once more before
// returning. A stale build returns ErrBuildAborted and drops its partial
// grids.
func BuildCache(img image.Image, target uint64, opts BuildOptions) (*PixelCache, error) {
	if img == nil {
		return nil, ErrNoImage
	}
	stale := func() bool {
		return opts.Current != nil && opts.Current() != target
	}
	if stale() {
		return nil, ErrBuildAborted
	}

	src := imaging.Clone(img)
	w, h := src.Rect.Dx(), src.Rect.Dy()
	n := w * h

	cache := &PixelCache{
		Width:  w,
		Height: h,
		Epoch:  target,
		rgb:    make([]colorspace.Triple, n),
		hsl:    make([]colorspace.Triple, n),
		hsv:    make([]colorspace.Triple, n),
		cam16:  make([]colorspace.Triple, n),
	}

	steps := newStepper(n, opts.ChunkSize, PhaseCaching, opts.Progress, DefaultCacheChunk)
	i := 0
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w*4]
		for x := 0; x < w; x++ {
			r, g, b := row[x*4], row[x*4+1], row[x*4+2]

			cache.rgb[i] = colorspace.FromRGB(r, g, b)
			cache.hsl[i] = colorspace.ToHSL(r, g, b)
			cache.hsv[i] = colorspace.ToHSV(r, g, b)
			cache.cam16[i] = colorspace.ToCAM16UCS(r, g, b)
			i++

			if steps.step() && stale() {
				return nil, ErrBuildAborted
			}
		}
	}
	steps.finish()

	if stale() {
		return nil, ErrBuildAborted
	}
	return cache, nil
}
