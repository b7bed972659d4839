package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"sync"
	"testing"
)

// createTestImage writes a solid-colour PNG to a temp file and returns its
// path. The file is removed when the test ends.
func createTestImage(t *testing.T, width, height int, c color.Color) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}

	tmpFile, err := os.CreateTemp("", "test-image-*.png")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer tmpFile.Close()
	t.Cleanup(func() { os.Remove(tmpFile.Name()) })

	if err := png.Encode(tmpFile, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return tmpFile.Name()
}

func TestImageCache_Load(t *testing.T) {
	cache := NewImageCache()
	imgPath := createTestImage(t, 100, 80, color.RGBA{255, 0, 0, 255})

	li, err := cache.Load(imgPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if b := li.Image.Bounds(); b.Dx() != 100 || b.Dy() != 80 {
		t.Errorf("unexpected dimensions: got %dx%d, want 100x80", b.Dx(), b.Dy())
	}
	if li.Format != "png" {
		t.Errorf("Format: got %s, want png", li.Format)
	}
	if len(li.Identity) != 16 {
		t.Errorf("Identity should be 16 hex chars, got %q", li.Identity)
	}

	again, err := cache.Load(imgPath)
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if again != li {
		t.Error("second Load did not return cached image")
	}
}

func TestImageCache_Load_NonExistent(t *testing.T) {
	cache := NewImageCache()
	if _, err := cache.Load("/nonexistent/path/to/image.png"); err == nil {
		t.Error("Load should fail for non-existent file")
	}
}

func TestImageCache_Load_InvalidImage(t *testing.T) {
	tmpFile, err := os.CreateTemp("", "invalid-image-*.png")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpFile.WriteString("not an image")
	tmpFile.Close()
	defer os.Remove(tmpFile.Name())

	if _, err := NewImageCache().Load(tmpFile.Name()); err == nil {
		t.Error("Load should fail for invalid image data")
	}
}

func TestImageCache_EvictAndClear(t *testing.T) {
	cache := NewImageCache()
	imgPath := createTestImage(t, 10, 10, color.RGBA{0, 255, 0, 255})

	first, err := cache.Load(imgPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	cache.Evict(first.Identity)
	second, err := cache.Load(imgPath)
	if err != nil {
		t.Fatalf("Load after Evict failed: %v", err)
	}
	if second == first {
		t.Error("Evict should force a reload")
	}
	if second.Identity != first.Identity {
		t.Error("same file should keep its identity across reloads")
	}

	cache.Clear()
	if len(cache.images) != 0 {
		t.Errorf("Clear left %d entries", len(cache.images))
	}
	cache.Evict("0000000000000000")
}

func TestImageCache_Load_FileRewritten(t *testing.T) {
	cache := NewImageCache()
	imgPath := createTestImage(t, 2, 1, color.RGBA{255, 0, 0, 255})

	first, err := cache.Load(imgPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	f, err := os.Create(imgPath)
	if err != nil {
		t.Fatalf("failed to rewrite image: %v", err)
	}
	blue := image.NewRGBA(image.Rect(0, 0, 2, 1))
	blue.Set(0, 0, color.RGBA{0, 0, 255, 255})
	blue.Set(1, 0, color.RGBA{0, 0, 255, 255})
	if err := png.Encode(f, blue); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	f.Close()

	second, err := cache.Load(imgPath)
	if err != nil {
		t.Fatalf("Load after rewrite failed: %v", err)
	}
	if second.Identity == first.Identity {
		t.Fatal("rewritten file kept its old identity")
	}
	r, g, b, _ := second.Image.At(0, 0).RGBA()
	if r != 0 || g != 0 || b>>8 != 255 {
		t.Errorf("rewritten file returned old pixels: %d,%d,%d", r>>8, g>>8, b>>8)
	}
}

func TestImageCache_ConcurrentAccess(t *testing.T) {
	cache := NewImageCache()
	imgPath := createTestImage(t, 50, 50, color.RGBA{128, 128, 128, 255})

	var wg sync.WaitGroup
	errs := make(chan error, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Load(imgPath); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent Load error: %v", err)
	}
}

func TestIdentity(t *testing.T) {
	a := Identity([]byte("pixels"))
	if a != Identity([]byte("pixels")) {
		t.Error("Identity is not deterministic")
	}
	if a == Identity([]byte("pixelz")) {
		t.Error("different contents should have different identities")
	}
	if len(a) != 16 {
		t.Errorf("length: got %d, want 16", len(a))
	}
}

func TestDecode_IdentityTracksContents(t *testing.T) {
	encode := func(c color.RGBA) []byte {
		img := image.NewRGBA(image.Rect(0, 0, 4, 4))
		img.Set(0, 0, c)
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			t.Fatalf("encode failed: %v", err)
		}
		return buf.Bytes()
	}

	a, err := Decode(encode(color.RGBA{1, 2, 3, 255}))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	b, err := Decode(encode(color.RGBA{3, 2, 1, 255}))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if a.Identity == b.Identity {
		t.Error("images with different pixels share an identity")
	}
}

func TestLoadedImage_Info(t *testing.T) {
	imgPath := createTestImage(t, 20, 15, color.RGBA{255, 128, 64, 255})
	li, err := NewImageCache().Load(imgPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	info := li.Info()
	if info.Width != 20 || info.Height != 15 || info.Pixels != 300 {
		t.Errorf("dimensions: got %+v", info)
	}
	if info.Format != "png" || info.Identity != li.Identity {
		t.Errorf("format/identity: got %+v", info)
	}

	stat, _ := os.Stat(imgPath)
	if info.FileSizeBytes != stat.Size() {
		t.Errorf("FileSizeBytes: got %d, want %d", info.FileSizeBytes, stat.Size())
	}
}
