// Package server implements the MCP (Model Context Protocol) server for
// palette quantization.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout, interleaved with
//     notifications/message progress updates while a pixel cache builds or a
//     quantization pass runs
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Palette:
//   - palette_load: Load a colour database JSON file
//   - palette_list: List entries and their selection state
//   - palette_select: Check or uncheck entries, re-quantizing a displayed result
//
// Image and quantization:
//   - image_load: Validate and load an image, build its pixel cache
//   - image_quantize: Map every pixel to its nearest palette entry
//   - image_sample_match: Inspect one pixel and its match
//
// Counters:
//   - counter_suppress: Toggle a temporary suppression and re-quantize
//   - counter_clear_suppressed: Drop all suppressions and re-quantize
//
// Output:
//   - image_render: Upscaled mapped image with optional chunk grid
//   - image_preview_chunk: Entries of one grid chunk
//
// # Session State
//
// A Server serves one client. It keeps the palette, the unchecked and
// suppressed GUID sets, the colour space and CAM16 weight of the last pass,
// the last result and the counter ordering. The current image and its pixel
// cache live in an engine.Coordinator; loading an image with a different
// content identity advances the epoch and makes earlier results stale.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
package server
