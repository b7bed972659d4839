package imaging

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"sync"

	"github.com/cespare/xxhash/v2"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// LoadedImage is a decoded source image together with its content identity.
type LoadedImage struct {
	// Image is the decoded image.
	Image image.Image

	// Identity is the xxhash64 of the file contents as 16 hex characters.
	// Two loads of byte-identical files share an identity.
	Identity string

	// Format is the decoder name reported by image.Decode ("png", "webp", ...).
	Format string

	// FileSizeBytes is the size of the file on disk in bytes.
	FileSizeBytes int64
}

// ImageCache provides thread-safe caching of decoded images to avoid
// redundant decoding.
//
// Entries are keyed by content identity, not path. Every Load reads and
// hashes the file, so a file rewritten in place yields its new pixels and a
// new identity.
//
// ImageCache is safe for concurrent use by multiple goroutines.
//
// # Example Usage
//
//	cache := imaging.NewImageCache()
//	li, err := cache.Load("/path/to/image.png")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	coordinator.LoadNewImage(li.Image, li.Identity)
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]*LoadedImage
}

// NewImageCache creates and initializes a new empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]*LoadedImage),
	}
}

// Load reads and hashes the file at path, decoding it unless an image with
// the same identity is already cached.
//
// Parameters:
//   - path: Absolute or relative file path to the image. Supported formats are
//     PNG, JPEG, GIF, WebP, BMP and TIFF.
//
// Returns:
//   - *LoadedImage: The decoded image with its identity and format.
//   - error: Non-nil if the file cannot be read or decoded.
//
// The identity is computed over the raw file bytes, so re-encoding the same
// pixels produces a new identity.
func (c *ImageCache) Load(path string) (*LoadedImage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	id := Identity(data)

	c.mu.RLock()
	if li, ok := c.images[id]; ok {
		c.mu.RUnlock()
		return li, nil
	}
	c.mu.RUnlock()

	li, err := Decode(data)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if cached, ok := c.images[id]; ok {
		li = cached
	} else {
		c.images[id] = li
	}
	c.mu.Unlock()

	return li, nil
}

// Decode decodes raw image bytes and computes their identity.
func Decode(data []byte) (*LoadedImage, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return &LoadedImage{
		Image:         img,
		Identity:      Identity(data),
		Format:        format,
		FileSizeBytes: int64(len(data)),
	}, nil
}

// Identity returns the xxhash64 of data as 16 lowercase hex characters.
func Identity(data []byte) string {
	var b [8]byte
	h := xxhash.Sum64(data)
	for i := 7; i >= 0; i-- {
		b[i] = byte(h)
		h >>= 8
	}
	return hex.EncodeToString(b[:])
}

// Clear removes all images from the cache.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]*LoadedImage)
	c.mu.Unlock()
}

// Evict removes the image with the given identity from the cache. Unknown
// identities are ignored.
func (c *ImageCache) Evict(identity string) {
	c.mu.Lock()
	delete(c.images, identity)
	c.mu.Unlock()
}

// ImageInfo contains metadata about a loaded image.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Pixels is Width * Height.
	Pixels int `json:"pixels"`

	// Format is the decoder name, e.g. "png" or "webp".
	Format string `json:"format"`

	// Identity is the content hash used to decide whether a reload is a new image.
	Identity string `json:"identity"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// Info summarises li.
func (li *LoadedImage) Info() *ImageInfo {
	b := li.Image.Bounds()
	return &ImageInfo{
		Width:         b.Dx(),
		Height:        b.Dy(),
		Pixels:        b.Dx() * b.Dy(),
		Format:        li.Format,
		Identity:      li.Identity,
		FileSizeBytes: li.FileSizeBytes,
	}
}
