package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/ironsheep/pixelmap-mcp/internal/colorspace"
	"github.com/ironsheep/pixelmap-mcp/internal/palette"
)

// Request describes one quantization pass.
type Request struct {
	Palette  *palette.Palette
	Excluded palette.GUIDSet
	Space    colorspace.Space
	Weights  colorspace.Weights

	// ChunkSize is the number of pixels between yields. Defaults to
	// DefaultQuantizeChunk.
	ChunkSize int
	Progress  ProgressFunc
}

// Result maps every pixel to a palette entry.
type Result struct {
	Width  int              `json:"width"`
	Height int              `json:"height"`
	Epoch  uint64           `json:"epoch"`
	Space  colorspace.Space `json:"color_space"`

	// Cells holds the matched entry per pixel, row-major.
	Cells []*palette.Entry `json:"-"`

	// Counts maps GUID to the number of pixels matched to it.
	Counts map[int]int `json:"counts"`
}

// At returns the entry matched at (x, y), or nil outside the image.
func (r *Result) At(x, y int) *palette.Entry {
	if x < 0 || x >= r.Width || y < 0 || y >= r.Height {
		return nil
	}
	return r.Cells[y*r.Width+x]
}

// Total is the number of pixels counted.
func (r *Result) Total() int {
	n := 0
	for _, c := range r.Counts {
		n += c
	}
	return n
}

// Quantize matches every cached pixel against the palette minus the
// excluded GUIDs.
//
// The filtered palette is built once. Each pixel's cached representation in
// req.Space goes through palette.Match; the output is a fresh Result, so a
// change of palette selection, space or weights always means a new full
// pass. ctx is checked at chunk boundaries.
func Quantize(ctx context.Context, cache *PixelCache, req Request) (*Result, error) {
	if cache == nil {
		return nil, ErrStaleCache
	}
	if req.Palette == nil {
		return nil, fmt.Errorf("quantize: nil palette")
	}
	if req.Weights.CAM16J < 0 {
		return nil, fmt.Errorf("quantize: negative CAM16 J weight %g", req.Weights.CAM16J)
	}

	filtered := req.Palette.Filter(req.Excluded)
	if filtered.Len() == 0 {
		return nil, palette.ErrEmptyPalette
	}

	grid := cache.Grid(req.Space)
	n := cache.Len()
	res := &Result{
		Width:  cache.Width,
		Height: cache.Height,
		Epoch:  cache.Epoch,
		Space:  req.Space,
		Cells:  make([]*palette.Entry, n),
		Counts: make(map[int]int),
	}

	steps := newStepper(n, req.ChunkSize, PhaseQuantizing, req.Progress, DefaultQuantizeChunk)
	for i := 0; i < n; i++ {
		e, err := palette.Match(filtered, grid[i], req.Space, req.Weights)
		if err != nil {
			return nil, err
		}
		res.Cells[i] = e
		res.Counts[e.GUID]++

		if steps.step() {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
	}
	steps.finish()

	return res, nil
}

// Quantize runs a pass against the current image's cache, building it
// first if needed. If the image changes while the pass runs the result is
// dropped and ErrStaleCache returned.
func (c *Coordinator) Quantize(ctx context.Context, req Request) (*Result, error) {
	cache, err := c.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	if req.ChunkSize <= 0 {
		req.ChunkSize = c.opts.QuantizeChunk
	}
	if req.Progress == nil {
		req.Progress = c.opts.Progress
	}

	res, err := Quantize(ctx, cache, req)
	if err != nil {
		if errors.Is(err, palette.ErrEmptyPalette) {
			c.opts.Logger.Printf("quantize aborted: every palette entry is excluded")
		}
		return nil, err
	}
	if res.Epoch != c.current.Load() {
		return nil, ErrStaleCache
	}
	c.opts.Logger.Printf("quantized epoch %d in %s: %d entries used", res.Epoch, req.Space, len(res.Counts))
	return res, nil
}
