// Package palette holds the fixed colour catalogue that images are mapped
// onto, filtered views of it, and the nearest-entry matcher.
//
// A Palette is immutable once built and may be shared between goroutines
// without locking.
package palette

import (
	"errors"
	"fmt"

	"github.com/ironsheep/pixelmap-mcp/internal/colorspace"
)

// ErrDuplicateGUID is returned by New when two entries share a GUID.
var ErrDuplicateGUID = errors.New("duplicate palette GUID")

// Entry is one target colour. HSL, HSV and CAM16 are always the exact
// conversions of RGB; build entries with NewEntry.
type Entry struct {
	GUID        int               `json:"guid"`
	Name        string            `json:"name"`
	RGB         [3]uint8          `json:"rgb"`
	HSL         colorspace.Triple `json:"hsl"`
	HSV         colorspace.Triple `json:"hsv"`
	CAM16       colorspace.Triple `json:"cam16"`
	ImageSource string            `json:"image_source,omitempty"`
}

// NewEntry precomputes every representation of rgb.
func NewEntry(guid int, name string, rgb [3]uint8, imageSource string) *Entry {
	r, g, b := rgb[0], rgb[1], rgb[2]
	return &Entry{
		GUID:        guid,
		Name:        name,
		RGB:         rgb,
		HSL:         colorspace.ToHSL(r, g, b),
		HSV:         colorspace.ToHSV(r, g, b),
		CAM16:       colorspace.ToCAM16UCS(r, g, b),
		ImageSource: imageSource,
	}
}

// Repr returns the entry's representation in space.
func (e *Entry) Repr(space colorspace.Space) colorspace.Triple {
	switch space {
	case colorspace.HSL:
		return e.HSL
	case colorspace.HSV:
		return e.HSV
	case colorspace.CAM16:
		return e.CAM16
	default:
		return colorspace.FromRGB(e.RGB[0], e.RGB[1], e.RGB[2])
	}
}

// Hex formats the entry colour as "#RRGGBB".
func (e *Entry) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", e.RGB[0], e.RGB[1], e.RGB[2])
}

// Palette is an ordered, GUID-indexed set of entries. Order is the
// tie-break order for matching.
type Palette struct {
	entries []*Entry
	index   map[int]int
}

// New builds a palette from entries in the given order.
func New(entries []*Entry) (*Palette, error) {
	p := &Palette{
		entries: make([]*Entry, 0, len(entries)),
		index:   make(map[int]int, len(entries)),
	}
	for _, e := range entries {
		if e == nil {
			return nil, fmt.Errorf("nil palette entry at position %d", len(p.entries))
		}
		if _, dup := p.index[e.GUID]; dup {
			return nil, fmt.Errorf("%w: %d (%s)", ErrDuplicateGUID, e.GUID, e.Name)
		}
		p.index[e.GUID] = len(p.entries)
		p.entries = append(p.entries, e)
	}
	return p, nil
}

// Len returns the number of entries.
func (p *Palette) Len() int {
	return len(p.entries)
}

// Entries returns a copy of the ordered entry list.
func (p *Palette) Entries() []*Entry {
	out := make([]*Entry, len(p.entries))
	copy(out, p.entries)
	return out
}

// ByGUID looks up an entry.
func (p *Palette) ByGUID(guid int) (*Entry, bool) {
	i, ok := p.index[guid]
	if !ok {
		return nil, false
	}
	return p.entries[i], true
}

// Position is the entry's index in palette order, or -1.
func (p *Palette) Position(guid int) int {
	if i, ok := p.index[guid]; ok {
		return i
	}
	return -1
}

// Filtered is an ordered view of a palette with some GUIDs removed.
type Filtered struct {
	entries []*Entry
}

// Filter returns the entries whose GUID is not in excluded, keeping their
// relative order. The palette itself is left untouched.
func (p *Palette) Filter(excluded GUIDSet) *Filtered {
	out := make([]*Entry, 0, len(p.entries))
	for _, e := range p.entries {
		if excluded.Has(e.GUID) {
			continue
		}
		out = append(out, e)
	}
	return &Filtered{entries: out}
}

// Len returns the number of candidates.
func (f *Filtered) Len() int {
	if f == nil {
		return 0
	}
	return len(f.entries)
}

// Entries returns a copy of the candidates in order.
func (f *Filtered) Entries() []*Entry {
	if f == nil {
		return nil
	}
	out := make([]*Entry, len(f.entries))
	copy(out, f.entries)
	return out
}
