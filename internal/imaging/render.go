package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strconv"

	"github.com/anthonynsimon/bild/clone"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/pixelmap-mcp/internal/engine"
)

// Rendering defaults.
const (
	// DefaultGridCells is the number of image pixels between grid lines.
	DefaultGridCells = 25

	// MaxPreviewGrid caps the side of a preview chunk in cells.
	MaxPreviewGrid = 25

	// renderTargetWidth drives the upscale factor of the mapped image.
	renderTargetWidth = 2000
)

// RenderOptions controls RenderMapped.
type RenderOptions struct {
	// ShowGrid draws lines between chunks of GridCells x GridCells pixels.
	ShowGrid bool

	// GridCells defaults to DefaultGridCells.
	GridCells int

	// GridThickness is the line width in output pixels. Defaults to 1.
	GridThickness int

	// GridColor is "#RRGGBB" or "#RRGGBBAA". Defaults to black.
	GridColor string

	// LabelChunks writes each chunk's "x,y" index in its top-left corner.
	LabelChunks bool
}

// RenderResult contains the encoded mapped image.
type RenderResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	PixelSize   int    `json:"pixel_size"`
	GridSpacing int    `json:"grid_spacing,omitempty"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// PixelSize is the side in output pixels of one mapped image pixel.
func PixelSize(width int) int {
	if width <= 0 {
		return 1
	}
	return 1 + renderTargetWidth/width
}

// MappedImage paints every pixel of res with its matched entry colour at
// 1:1 scale.
func MappedImage(res *engine.Result) (*image.NRGBA, error) {
	if res == nil || len(res.Cells) != res.Width*res.Height || res.Width == 0 {
		return nil, fmt.Errorf("no quantization result to render")
	}
	img := image.NewNRGBA(image.Rect(0, 0, res.Width, res.Height))
	for i, e := range res.Cells {
		if e == nil {
			continue
		}
		o := i * 4
		img.Pix[o] = e.RGB[0]
		img.Pix[o+1] = e.RGB[1]
		img.Pix[o+2] = e.RGB[2]
		img.Pix[o+3] = 0xff
	}
	return img, nil
}

// RenderMappedImage upscales the mapped image by PixelSize and draws the
// optional chunk grid.
func RenderMappedImage(res *engine.Result, opts RenderOptions) (*image.RGBA, int, error) {
	small, err := MappedImage(res)
	if err != nil {
		return nil, 0, err
	}
	ps := PixelSize(res.Width)
	scaled := imaging.Resize(small, res.Width*ps, res.Height*ps, imaging.NearestNeighbor)
	canvas := clone.AsRGBA(scaled)

	if !opts.ShowGrid {
		return canvas, ps, nil
	}

	cells := opts.GridCells
	if cells <= 0 {
		cells = DefaultGridCells
	}
	thickness := opts.GridThickness
	if thickness <= 0 {
		thickness = 1
	}
	lineColor := color.RGBA{0, 0, 0, 255}
	if opts.GridColor != "" {
		c, err := parseHexColor(opts.GridColor)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid grid color %q: %w", opts.GridColor, err)
		}
		lineColor = c
	}

	spacing := ps * cells
	drawGrid(canvas, spacing, thickness, lineColor)

	if opts.LabelChunks {
		fg := color.RGBA{255, 255, 255, 255}
		bg := color.RGBA{0, 0, 0, 180}
		b := canvas.Bounds()
		for y, cy := 0, 0; y < b.Dy(); y, cy = y+spacing, cy+1 {
			for x, cx := 0, 0; x < b.Dx(); x, cx = x+spacing, cx+1 {
				drawLabel(canvas, x+thickness+1, y+thickness+1, fmt.Sprintf("%d,%d", cx, cy), fg, bg)
			}
		}
	}
	return canvas, ps, nil
}

// RenderMapped renders res and returns it as a base64 PNG.
func RenderMapped(res *engine.Result, opts RenderOptions) (*RenderResult, error) {
	canvas, ps, err := RenderMappedImage(res, opts)
	if err != nil {
		return nil, err
	}
	encoded, err := encodePNG(canvas)
	if err != nil {
		return nil, err
	}

	out := &RenderResult{
		Width:       canvas.Bounds().Dx(),
		Height:      canvas.Bounds().Dy(),
		PixelSize:   ps,
		ImageBase64: encoded,
		MimeType:    "image/png",
	}
	if opts.ShowGrid {
		cells := opts.GridCells
		if cells <= 0 {
			cells = DefaultGridCells
		}
		out.GridSpacing = ps * cells
	}
	return out, nil
}

// drawGrid draws vertical and horizontal lines every spacing pixels,
// starting at the image edge, each thickness pixels wide.
func drawGrid(img *image.RGBA, spacing, thickness int, c color.RGBA) {
	b := img.Bounds()
	lead := (thickness - 1) / 2

	for x := 0; x < b.Dx(); x += spacing {
		for px := x - lead; px < x-lead+thickness; px++ {
			if px < 0 || px >= b.Dx() {
				continue
			}
			for y := 0; y < b.Dy(); y++ {
				img.SetRGBA(b.Min.X+px, b.Min.Y+y, c)
			}
		}
	}

	for y := 0; y < b.Dy(); y += spacing {
		for py := y - lead; py < y-lead+thickness; py++ {
			if py < 0 || py >= b.Dy() {
				continue
			}
			for x := 0; x < b.Dx(); x++ {
				img.SetRGBA(b.Min.X+x, b.Min.Y+py, c)
			}
		}
	}
}

func encodePNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// parseHexColor parses a hex color string like "#FF0000" or "#FF000080".
func parseHexColor(hex string) (color.RGBA, error) {
	if len(hex) > 0 && hex[0] == '#' {
		hex = hex[1:]
	}
	if len(hex) != 6 && len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid hex color length")
	}

	val, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, err
	}
	if len(hex) == 6 {
		val = val<<8 | 0xff
	}
	return color.RGBA{R: uint8(val >> 24), G: uint8(val >> 16), B: uint8(val >> 8), A: uint8(val)}, nil
}

// glyphs is a 3x5 pixel font for digits and comma.
var glyphs = map[rune][5]string{
	'0': {"111", "101", "101", "101", "111"},
	'1': {"010", "110", "010", "010", "111"},
	'2': {"111", "001", "111", "100", "111"},
	'3': {"111", "001", "111", "001", "111"},
	'4': {"101", "101", "111", "001", "001"},
	'5': {"111", "100", "111", "001", "111"},
	'6': {"111", "100", "111", "101", "111"},
	'7': {"111", "001", "001", "001", "001"},
	'8': {"111", "101", "111", "101", "111"},
	'9': {"111", "101", "111", "001", "111"},
	',': {"000", "000", "000", "010", "010"},
}

// drawLabel draws text on a filled background box at (x, y), clipped to
// the image.
func drawLabel(img *image.RGBA, x, y int, text string, fg, bg color.RGBA) {
	const advance, boxHeight = 4, 7
	b := img.Bounds()
	set := func(px, py int, c color.RGBA) {
		if image.Pt(px, py).In(b) {
			img.SetRGBA(px, py, c)
		}
	}

	for dy := -1; dy < boxHeight; dy++ {
		for dx := -1; dx < len(text)*advance; dx++ {
			set(x+dx, y+dy, bg)
		}
	}

	for i, ch := range []rune(text) {
		glyph, ok := glyphs[ch]
		if !ok {
			continue
		}
		for row, line := range glyph {
			for col, bit := range line {
				if bit == '1' {
					set(x+i*advance+col, y+row, fg)
				}
			}
		}
	}
}
