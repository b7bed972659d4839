package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func objectSchema(properties map[string]interface{}, required ...string) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func prop(typ, description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        typ,
		"description": description,
	}
}

func colorSpaceProp(description string) map[string]interface{} {
	p := prop("string", description)
	p["enum"] = []string{"RGB", "HSL", "HSV", "CAM16"}
	return p
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Palette
		{
			Name:        "palette_load",
			Description: "Load a colour database (JSON array of {GUID, Name, RGB, Image Src}) as the palette. Resets palette selection and counter suppressions.",
			InputSchema: objectSchema(map[string]interface{}{
				"path": prop("string", "Absolute path to the colour database JSON file"),
			}, "path"),
		},
		{
			Name:        "palette_list",
			Description: "List palette entries with GUID, name, hex colour and whether each is selected for matching.",
			InputSchema: objectSchema(map[string]interface{}{}),
		},
		{
			Name:        "palette_select",
			Description: "Check or uncheck palette entries. Unchecked entries are never matched. With no guids, applies to every entry. If an image has been quantized, it is quantized again with the new selection.",
			InputSchema: objectSchema(map[string]interface{}{
				"guids": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "integer"},
					"description": "GUIDs to change. Omit to change all entries",
				},
				"selected": map[string]interface{}{
					"type":        "boolean",
					"description": "true to check, false to uncheck. Default true",
					"default":     true,
				},
			}),
		},

		// Image and quantization
		{
			Name:        "image_load",
			Description: "Load an image (PNG, JPEG, GIF, WebP, BMP, TIFF) as the current image and build its pixel cache. Images wider or taller than 500 pixels are rejected unless allow_larger is set (limit 2000).",
			InputSchema: objectSchema(map[string]interface{}{
				"path":         prop("string", "Absolute path to the image file"),
				"allow_larger": prop("boolean", "Raise the dimension limit from 500 to 2000 pixels. Default false"),
			}, "path"),
		},
		{
			Name:        "image_quantize",
			Description: "Map every pixel of the current image to its nearest selected, unsuppressed palette entry and return usage counters. Colour space and CAM16 weight persist for later passes.",
			InputSchema: objectSchema(map[string]interface{}{
				"color_space":  colorSpaceProp("Colour space to compare in. Default RGB, or the last space used"),
				"cam16_weight": prop("number", "Weight of the lightness (J') term in CAM16 distances. Default 1.0; 0 ignores lightness"),
			}),
		},
		{
			Name:        "image_sample_match",
			Description: "Show a pixel of the current image in RGB, HSL, HSV and CAM16-UCS and the palette entry it matches.",
			InputSchema: objectSchema(map[string]interface{}{
				"x":           prop("integer", "X coordinate (0-based)"),
				"y":           prop("integer", "Y coordinate (0-based)"),
				"color_space": colorSpaceProp("Colour space to match in. Default: the last space used"),
			}, "x", "y"),
		},

		// Counters
		{
			Name:        "counter_suppress",
			Description: "Toggle a temporary suppression of a palette entry and re-quantize. Suppressed entries keep their place in the counter list at count 0.",
			InputSchema: objectSchema(map[string]interface{}{
				"guid": prop("integer", "GUID of the entry to suppress or restore"),
			}, "guid"),
		},
		{
			Name:        "counter_clear_suppressed",
			Description: "Remove every counter suppression and re-quantize.",
			InputSchema: objectSchema(map[string]interface{}{}),
		},

		// Output
		{
			Name:        "image_render",
			Description: "Render the last quantization as a base64 PNG, each pixel enlarged to roughly 2000 pixels total width, with an optional chunk grid.",
			InputSchema: objectSchema(map[string]interface{}{
				"show_grid":      prop("boolean", "Draw grid lines between chunks. Default false"),
				"grid_cells":     prop("integer", "Image pixels per chunk side. Default 25"),
				"grid_thickness": prop("integer", "Grid line width in output pixels. Default 1"),
				"grid_color":     prop("string", "Grid colour as #RRGGBB or #RRGGBBAA. Default black"),
				"label_chunks":   prop("boolean", "Write each chunk's x,y index in its corner. Default false"),
			}),
		},
		{
			Name:        "image_preview_chunk",
			Description: "Return the palette entry of every pixel in one chunk of the last quantization, plus an enlarged PNG of the chunk.",
			InputSchema: objectSchema(map[string]interface{}{
				"chunk_x":   prop("integer", "Chunk column (0-based)"),
				"chunk_y":   prop("integer", "Chunk row (0-based)"),
				"grid_size": prop("integer", "Chunk side in pixels, at most 25. Default 25"),
			}, "chunk_x", "chunk_y"),
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
