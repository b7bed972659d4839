package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/pixelmap-mcp/internal/engine"
)

// previewCellPx is the side of one preview cell in the preview image.
const previewCellPx = 16

// PreviewCell is one mapped pixel of a preview chunk.
type PreviewCell struct {
	X           int    `json:"x"`
	Y           int    `json:"y"`
	GUID        int    `json:"guid"`
	Name        string `json:"name"`
	Hex         string `json:"hex"`
	ImageSource string `json:"image_source,omitempty"`
}

// PreviewResult is a gridSize x gridSize window of the mapped image.
type PreviewResult struct {
	ChunkX   int `json:"chunk_x"`
	ChunkY   int `json:"chunk_y"`
	GridSize int `json:"grid_size"`

	// ChunksX and ChunksY are the number of chunks across and down.
	ChunksX int `json:"chunks_x"`
	ChunksY int `json:"chunks_y"`

	// Cells is indexed [row][column]. Cells past the image edge are nil.
	Cells [][]*PreviewCell `json:"cells"`

	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// PreviewGridSize clamps a requested chunk side to 1..MaxPreviewGrid,
// with 0 or less meaning DefaultGridCells.
func PreviewGridSize(gridSize int) int {
	if gridSize <= 0 {
		gridSize = DefaultGridCells
	}
	if gridSize > MaxPreviewGrid {
		gridSize = MaxPreviewGrid
	}
	return gridSize
}

// ChunkCount returns how many chunks of gridSize cover a width x height image.
func ChunkCount(width, height, gridSize int) (int, int) {
	g := PreviewGridSize(gridSize)
	return (width + g - 1) / g, (height + g - 1) / g
}

// PreviewChunk extracts chunk (chunkX, chunkY) of the mapped image.
//
// Parameters:
//   - res: A completed quantization result.
//   - chunkX, chunkY: 0-based chunk indices, matching the "x,y" labels drawn
//     by RenderMapped.
//   - gridSize: Chunk side in pixels, clamped by PreviewGridSize.
//
// Returns:
//   - *PreviewResult: The entry per cell plus an enlarged PNG of the chunk.
//   - error: Non-nil if the chunk lies outside the image.
//
// Chunks on the right and bottom edges may be partial; missing cells are nil.
func PreviewChunk(res *engine.Result, chunkX, chunkY, gridSize int) (*PreviewResult, error) {
	small, err := MappedImage(res)
	if err != nil {
		return nil, err
	}
	g := PreviewGridSize(gridSize)
	cols, rows := ChunkCount(res.Width, res.Height, g)
	if chunkX < 0 || chunkY < 0 || chunkX >= cols || chunkY >= rows {
		return nil, fmt.Errorf("chunk (%d,%d) outside image: %dx%d chunks of %d pixels", chunkX, chunkY, cols, rows, g)
	}

	x0, y0 := chunkX*g, chunkY*g
	cells := make([][]*PreviewCell, g)
	for row := 0; row < g; row++ {
		cells[row] = make([]*PreviewCell, g)
		for col := 0; col < g; col++ {
			e := res.At(x0+col, y0+row)
			if e == nil {
				continue
			}
			cells[row][col] = &PreviewCell{
				X:           x0 + col,
				Y:           y0 + row,
				GUID:        e.GUID,
				Name:        e.Name,
				Hex:         e.Hex(),
				ImageSource: e.ImageSource,
			}
		}
	}

	rect := image.Rect(x0, y0, x0+g, y0+g).Intersect(small.Bounds())
	chunk := imaging.Crop(small, rect)
	chunk = imaging.Resize(chunk, rect.Dx()*previewCellPx, rect.Dy()*previewCellPx, imaging.NearestNeighbor)
	encoded, err := encodePNG(chunk)
	if err != nil {
		return nil, err
	}

	return &PreviewResult{
		ChunkX:      chunkX,
		ChunkY:      chunkY,
		GridSize:    g,
		ChunksX:     cols,
		ChunksY:     rows,
		Cells:       cells,
		ImageBase64: encoded,
		MimeType:    "image/png",
	}, nil
}
