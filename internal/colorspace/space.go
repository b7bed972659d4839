package colorspace

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownSpace is returned by ParseSpace for names outside the enum.
var ErrUnknownSpace = errors.New("unknown color space")

// Space selects the representation used to compare pixels with palette
// entries. It only decides which entry wins; output colours always come
// from the entry's RGB.
type Space uint8

const (
	RGB Space = iota
	HSL
	HSV
	CAM16
)

// AllSpaces lists every Space in declaration order.
func AllSpaces() []Space {
	return []Space{RGB, HSL, HSV, CAM16}
}

// ParseSpace maps "RGB", "HSL", "HSV" or "CAM16" (any case) to a Space.
// "CAM16-UCS" is accepted as an alias.
func ParseSpace(name string) (Space, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "RGB":
		return RGB, nil
	case "HSL":
		return HSL, nil
	case "HSV":
		return HSV, nil
	case "CAM16", "CAM16-UCS", "CAM16UCS":
		return CAM16, nil
	default:
		return RGB, fmt.Errorf("%w: %q", ErrUnknownSpace, name)
	}
}

// String returns the canonical key.
func (s Space) String() string {
	switch s {
	case RGB:
		return "RGB"
	case HSL:
		return "HSL"
	case HSV:
		return "HSV"
	case CAM16:
		return "CAM16"
	default:
		return fmt.Sprintf("Space(%d)", uint8(s))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Space) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Space) UnmarshalText(text []byte) error {
	parsed, err := ParseSpace(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Convert returns the representation of an 8-bit RGB colour in s.
func (s Space) Convert(r, g, b uint8) Triple {
	switch s {
	case HSL:
		return ToHSL(r, g, b)
	case HSV:
		return ToHSV(r, g, b)
	case CAM16:
		return ToCAM16UCS(r, g, b)
	default:
		return FromRGB(r, g, b)
	}
}

// Distance orders two triples of this space. Only CAM16 reads w.
func (s Space) Distance(a, b Triple, w Weights) float64 {
	switch s {
	case HSL:
		return DistHSL(a, b)
	case HSV:
		return DistHSV(a, b)
	case CAM16:
		return DistCAM16(a, b, w.CAM16J)
	default:
		return DistRGB(a, b)
	}
}
