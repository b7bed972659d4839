// Package imaging handles everything about images that sits outside the
// quantization engine: decoding source files, deciding whether they are
// acceptable, and turning quantization results back into pictures.
//
// # Loading
//
// ImageCache decodes PNG, JPEG, GIF, WebP, BMP and TIFF files and tags each
// with an xxhash64 content identity. The identity is what the server compares
// to decide whether a load is a new image and the engine epoch must advance.
//
// # Validation
//
// CheckDimensions enforces the width/height limit (MaxDimsNormal, or
// MaxDimsLarge when larger images are allowed) and warns about images above
// LargeImageWarningPixels. Validation is separate from cache building; the
// engine never rejects an image on size.
//
// # Rendering
//
// RenderMapped paints each pixel with its matched palette colour, enlarged
// by PixelSize so that narrow images still render about 2000 pixels wide,
// and optionally draws a chunk grid. PreviewChunk returns the entries of a
// single chunk for close inspection.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner, X
// increasing rightward and Y downward. Chunk indices follow the same
// convention.
package imaging
