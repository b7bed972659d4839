package palette

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// record is one colour DB row as stored on disk.
type record struct {
	GUID        *int     `json:"GUID"`
	Name        string   `json:"Name"`
	RGB         rgbField `json:"RGB"`
	ImageSrc    string   `json:"Image Src"`
	ImageSource string   `json:"imageSource"`
}

// rgbField accepts either [r,g,b] or a string such as "[r,g,b]" or "(r, g, b)".
type rgbField struct {
	set bool
	rgb [3]uint8
}

func (f *rgbField) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	var parts []string

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		s = strings.TrimLeft(s, "[(")
		s = strings.TrimRight(s, "])")
		parts = strings.Split(s, ",")
	} else {
		var nums []json.Number
		if err := json.Unmarshal(data, &nums); err != nil {
			return fmt.Errorf("RGB must be an array or string: %w", err)
		}
		for _, n := range nums {
			parts = append(parts, n.String())
		}
	}

	if len(parts) != 3 {
		return fmt.Errorf("RGB needs 3 components, got %d", len(parts))
	}
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return fmt.Errorf("RGB component %d: %w", i, err)
		}
		if v < 0 || v > 255 {
			return fmt.Errorf("RGB component %d out of range: %d", i, v)
		}
		f.rgb[i] = uint8(v)
	}
	f.set = true
	return nil
}

// Decode reads a colour DB JSON array and builds a palette, deriving the
// HSL, HSV and CAM16 representations of every entry.
func Decode(r io.Reader) (*Palette, error) {
	var records []record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode palette: %w", err)
	}

	entries := make([]*Entry, 0, len(records))
	for i, rec := range records {
		if rec.GUID == nil {
			return nil, fmt.Errorf("palette entry %d (%s) has no GUID", i, rec.Name)
		}
		if !rec.RGB.set {
			return nil, fmt.Errorf("palette entry %d (%s) has no RGB", i, rec.Name)
		}
		src := rec.ImageSrc
		if src == "" {
			src = rec.ImageSource
		}
		entries = append(entries, NewEntry(*rec.GUID, rec.Name, rec.RGB.rgb, src))
	}

	return New(entries)
}

// LoadFile opens path and decodes it with Decode.
func LoadFile(path string) (*Palette, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open palette: %w", err)
	}
	defer f.Close()

	return Decode(f)
}
