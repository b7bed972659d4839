package palette

import (
	"errors"
	"math"

	"github.com/ironsheep/pixelmap-mcp/internal/colorspace"
)

// ErrEmptyPalette is returned when every palette entry has been excluded.
var ErrEmptyPalette = errors.New("no palette entries left to match against")

// Match returns the entry of f closest to pixel in space.
//
// Candidates are scanned in palette order. An entry whose representation
// equals pixel exactly is returned at once; otherwise the minimum distance
// wins and ties go to the entry seen first.
func Match(f *Filtered, pixel colorspace.Triple, space colorspace.Space, w colorspace.Weights) (*Entry, error) {
	if f.Len() == 0 {
		return nil, ErrEmptyPalette
	}

	var best *Entry
	bestDist := math.Inf(1)
	for _, e := range f.entries {
		repr := e.Repr(space)
		if repr == pixel {
			return e, nil
		}
		if d := space.Distance(repr, pixel, w); d < bestDist || best == nil {
			best = e
			bestDist = d
		}
	}
	return best, nil
}
