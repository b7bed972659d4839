package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/ironsheep/pixelmap-mcp/internal/colorspace"
	"github.com/ironsheep/pixelmap-mcp/internal/engine"
	"github.com/ironsheep/pixelmap-mcp/internal/imaging"
	"github.com/ironsheep/pixelmap-mcp/internal/palette"
)

var (
	errNoPalette = errors.New("no palette loaded; call palette_load first")
	errNoResult  = errors.New("no quantization result; call image_quantize first")
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_quantize").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		if s.cfg.Debug {
			log.Printf("Tool %s failed: %v", params.Name, err)
		}
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	// Palette
	case "palette_load":
		return s.handlePaletteLoad(args)
	case "palette_list":
		return s.handlePaletteList()
	case "palette_select":
		return s.handlePaletteSelect(ctx, args)

	// Image and quantization
	case "image_load":
		return s.handleImageLoad(ctx, args)
	case "image_quantize":
		return s.handleImageQuantize(ctx, args)
	case "image_sample_match":
		return s.handleImageSampleMatch(args)

	// Counters
	case "counter_suppress":
		return s.handleCounterSuppress(ctx, args)
	case "counter_clear_suppressed":
		return s.handleCounterClearSuppressed(ctx)

	// Output
	case "image_render":
		return s.handleImageRender(args)
	case "image_preview_chunk":
		return s.handleImagePreviewChunk(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Palette Handlers ===

type paletteLoadArgs struct {
	Path string `json:"path"`
}

type paletteEntryInfo struct {
	GUID        int      `json:"guid"`
	Name        string   `json:"name"`
	Hex         string   `json:"hex"`
	RGB         [3]uint8 `json:"rgb"`
	ImageSource string   `json:"image_source,omitempty"`
	Selected    bool     `json:"selected"`
}

type paletteListResult struct {
	Entries  []paletteEntryInfo `json:"entries"`
	Selected int                `json:"selected"`
}

func (s *Server) handlePaletteLoad(args json.RawMessage) (interface{}, error) {
	var a paletteLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	if _, err := s.LoadPalette(a.Path); err != nil {
		return nil, err
	}
	return s.handlePaletteList()
}

func (s *Server) handlePaletteList() (interface{}, error) {
	if s.palette == nil {
		return nil, errNoPalette
	}
	entries := s.palette.Entries()
	out := paletteListResult{Entries: make([]paletteEntryInfo, len(entries))}
	for i, e := range entries {
		selected := !s.unchecked.Has(e.GUID)
		if selected {
			out.Selected++
		}
		out.Entries[i] = paletteEntryInfo{
			GUID:        e.GUID,
			Name:        e.Name,
			Hex:         e.Hex(),
			RGB:         e.RGB,
			ImageSource: e.ImageSource,
			Selected:    selected,
		}
	}
	return out, nil
}

type paletteSelectArgs struct {
	GUIDs    []int `json:"guids"`
	Selected *bool `json:"selected"`
}

type paletteSelectResult struct {
	Selected  int   `json:"selected"`
	Unchecked []int `json:"unchecked"`

	// Quantization is the fresh pass run when a result was on display.
	Quantization *quantizeResult `json:"quantization,omitempty"`
}

func (s *Server) handlePaletteSelect(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a paletteSelectArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if s.palette == nil {
		return nil, errNoPalette
	}
	selected := true
	if a.Selected != nil {
		selected = *a.Selected
	}

	guids := a.GUIDs
	if len(guids) == 0 {
		for _, e := range s.palette.Entries() {
			guids = append(guids, e.GUID)
		}
	}
	for _, g := range guids {
		if _, ok := s.palette.ByGUID(g); !ok {
			return nil, fmt.Errorf("unknown palette GUID %d", g)
		}
	}
	previous := s.unchecked.Clone()
	for _, g := range guids {
		if selected {
			s.unchecked.Remove(g)
		} else {
			s.unchecked.Add(g)
		}
	}

	out := paletteSelectResult{}
	if _, err := s.currentResult(); err == nil {
		res, err := s.quantize(ctx, s.space, s.weights)
		if err != nil {
			s.unchecked = previous
			return nil, err
		}
		out.Quantization = res
	} else {
		// Nothing on display, or it belongs to an earlier image.
		s.last = nil
	}

	out.Selected = s.palette.Len() - s.unchecked.Len()
	out.Unchecked = s.unchecked.Sorted()
	return out, nil
}

// === Image Handlers ===

type imageLoadArgs struct {
	Path        string `json:"path"`
	AllowLarger bool   `json:"allow_larger"`
}

type imageLoadResult struct {
	*imaging.ImageInfo
	Epoch    uint64 `json:"epoch"`
	NewImage bool   `json:"new_image"`
	MaxDims  int    `json:"max_dims"`
	Warning  string `json:"warning,omitempty"`
}

func (s *Server) handleImageLoad(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("path is required")
	}

	li, err := s.images.Load(a.Path)
	if err != nil {
		return nil, err
	}
	info := li.Info()
	check, err := imaging.CheckDimensions(info.Width, info.Height, a.AllowLarger || s.cfg.AllowLarger)
	if err != nil {
		return nil, err
	}
	if check.Warning != "" {
		log.Printf("Large image %s: %s", a.Path, check.Warning)
	}

	newImage := s.engine.Image() == nil || s.engine.Identity() != li.Identity
	if newImage {
		if old := s.engine.Identity(); old != "" {
			s.images.Evict(old)
		}
		s.engine.LoadNewImage(li.Image, li.Identity)
		s.board.Reset()
		s.suppressed = palette.NewGUIDSet()
		s.last = nil
	}

	if _, err := s.engine.Acquire(ctx); err != nil {
		return nil, fmt.Errorf("failed to build pixel cache: %w", err)
	}

	return imageLoadResult{
		ImageInfo: info,
		Epoch:     s.engine.Epoch(),
		NewImage:  newImage,
		MaxDims:   check.MaxDims,
		Warning:   check.Warning,
	}, nil
}

type imageQuantizeArgs struct {
	ColorSpace  string   `json:"color_space"`
	CAM16Weight *float64 `json:"cam16_weight"`
}

type quantizeResult struct {
	Width      int                 `json:"width"`
	Height     int                 `json:"height"`
	Epoch      uint64              `json:"epoch"`
	ColorSpace colorspace.Space    `json:"color_space"`
	CAM16J     float64             `json:"cam16_weight"`
	Pixels     int                 `json:"pixels"`
	Suppressed []int               `json:"suppressed"`
	Counters   []engine.CounterRow `json:"counters"`
}

func (s *Server) handleImageQuantize(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageQuantizeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	space := s.space
	if a.ColorSpace != "" {
		parsed, err := colorspace.ParseSpace(a.ColorSpace)
		if err != nil {
			return nil, err
		}
		space = parsed
	}
	weights := s.weights
	if a.CAM16Weight != nil {
		if *a.CAM16Weight < 0 {
			return nil, fmt.Errorf("cam16_weight must not be negative, got %g", *a.CAM16Weight)
		}
		weights.CAM16J = *a.CAM16Weight
	}

	res, err := s.quantize(ctx, space, weights)
	if err != nil {
		return nil, err
	}
	s.space, s.weights = space, weights
	return res, nil
}

// quantize runs a full pass with the current selection and suppressions and
// records it as the session's last result.
func (s *Server) quantize(ctx context.Context, space colorspace.Space, weights colorspace.Weights) (*quantizeResult, error) {
	if s.palette == nil {
		return nil, errNoPalette
	}
	if s.engine.Image() == nil {
		return nil, engine.ErrNoImage
	}

	res, err := s.engine.Quantize(ctx, engine.Request{
		Palette:  s.palette,
		Excluded: palette.Union(s.unchecked, s.suppressed),
		Space:    space,
		Weights:  weights,
	})
	if err != nil {
		return nil, err
	}
	s.last = res

	return &quantizeResult{
		Width:      res.Width,
		Height:     res.Height,
		Epoch:      res.Epoch,
		ColorSpace: res.Space,
		CAM16J:     weights.CAM16J,
		Pixels:     res.Total(),
		Suppressed: s.suppressed.Sorted(),
		Counters:   s.board.Arrange(s.palette, res, s.suppressed),
	}, nil
}

type imageSampleMatchArgs struct {
	X          int    `json:"x"`
	Y          int    `json:"y"`
	ColorSpace string `json:"color_space"`
}

type matchInfo struct {
	GUID     int     `json:"guid"`
	Name     string  `json:"name"`
	Hex      string  `json:"hex"`
	Distance float64 `json:"distance"`
}

type sampleMatchResult struct {
	X          int                  `json:"x"`
	Y          int                  `json:"y"`
	Color      *imaging.ColorResult `json:"color"`
	ColorSpace colorspace.Space     `json:"color_space"`
	Match      matchInfo            `json:"match"`
}

func (s *Server) handleImageSampleMatch(args json.RawMessage) (interface{}, error) {
	var a imageSampleMatchArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if s.palette == nil {
		return nil, errNoPalette
	}
	img := s.engine.Image()
	if img == nil {
		return nil, engine.ErrNoImage
	}

	space := s.space
	if a.ColorSpace != "" {
		parsed, err := colorspace.ParseSpace(a.ColorSpace)
		if err != nil {
			return nil, err
		}
		space = parsed
	}

	c, err := imaging.SampleColor(img, a.X, a.Y)
	if err != nil {
		return nil, err
	}
	pixel := c.Repr(space)
	filtered := s.palette.Filter(palette.Union(s.unchecked, s.suppressed))
	e, err := palette.Match(filtered, pixel, space, s.weights)
	if err != nil {
		return nil, err
	}

	return sampleMatchResult{
		X:          a.X,
		Y:          a.Y,
		Color:      c,
		ColorSpace: space,
		Match: matchInfo{
			GUID:     e.GUID,
			Name:     e.Name,
			Hex:      e.Hex(),
			Distance: space.Distance(pixel, e.Repr(space), s.weights),
		},
	}, nil
}

// === Counter Handlers ===

type counterSuppressArgs struct {
	GUID *int `json:"guid"`
}

func (s *Server) handleCounterSuppress(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a counterSuppressArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.GUID == nil {
		return nil, fmt.Errorf("guid is required")
	}
	if s.palette == nil {
		return nil, errNoPalette
	}
	if _, ok := s.palette.ByGUID(*a.GUID); !ok {
		return nil, fmt.Errorf("unknown palette GUID %d", *a.GUID)
	}

	s.suppressed.Toggle(*a.GUID)
	res, err := s.quantize(ctx, s.space, s.weights)
	if err != nil {
		// Leave the session as it was before the toggle.
		s.suppressed.Toggle(*a.GUID)
		return nil, err
	}
	return res, nil
}

func (s *Server) handleCounterClearSuppressed(ctx context.Context) (interface{}, error) {
	previous := s.suppressed
	s.suppressed = palette.NewGUIDSet()
	res, err := s.quantize(ctx, s.space, s.weights)
	if err != nil {
		s.suppressed = previous
		return nil, err
	}
	return res, nil
}

// === Output Handlers ===

// currentResult returns the last result if it still belongs to the loaded
// image.
func (s *Server) currentResult() (*engine.Result, error) {
	if s.last == nil {
		return nil, errNoResult
	}
	if s.last.Epoch != s.engine.Epoch() {
		return nil, engine.ErrStaleCache
	}
	return s.last, nil
}

type imageRenderArgs struct {
	ShowGrid      bool   `json:"show_grid"`
	GridCells     int    `json:"grid_cells"`
	GridThickness int    `json:"grid_thickness"`
	GridColor     string `json:"grid_color"`
	LabelChunks   bool   `json:"label_chunks"`
}

func (s *Server) handleImageRender(args json.RawMessage) (interface{}, error) {
	var a imageRenderArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	res, err := s.currentResult()
	if err != nil {
		return nil, err
	}
	return imaging.RenderMapped(res, imaging.RenderOptions{
		ShowGrid:      a.ShowGrid,
		GridCells:     a.GridCells,
		GridThickness: a.GridThickness,
		GridColor:     a.GridColor,
		LabelChunks:   a.LabelChunks,
	})
}

type imagePreviewChunkArgs struct {
	ChunkX   int `json:"chunk_x"`
	ChunkY   int `json:"chunk_y"`
	GridSize int `json:"grid_size"`
}

func (s *Server) handleImagePreviewChunk(args json.RawMessage) (interface{}, error) {
	var a imagePreviewChunkArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	res, err := s.currentResult()
	if err != nil {
		return nil, err
	}
	return imaging.PreviewChunk(res, a.ChunkX, a.ChunkY, a.GridSize)
}
