package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	errs "github.com/ironsheep/photo-tools-mcp/internal/errors"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return buf.Bytes()
}

// createTestImage writes a solid PNG into the test's temp dir and returns its path.
func createTestImage(t *testing.T, width, height int, c color.Color) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test-image.png")
	if err := os.WriteFile(path, encodePNG(t, createInMemoryImage(width, height, c)), 0o644); err != nil {
		t.Fatalf("failed to write image: %v", err)
	}
	return path
}

func TestDecodeSource(t *testing.T) {
	raw := encodePNG(t, createPatternImage(120, 60))

	img, err := DecodeSource(raw, 0)
	if err != nil {
		t.Fatalf("DecodeSource failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 120 || b.Dy() != 60 {
		t.Errorf("got %dx%d, want 120x60", b.Dx(), b.Dy())
	}

	capped, err := DecodeSource(raw, 40)
	if err != nil {
		t.Fatalf("DecodeSource failed: %v", err)
	}
	if b := capped.Bounds(); b.Dx() != 40 || b.Dy() != 20 {
		t.Errorf("capped: got %dx%d, want 40x20", b.Dx(), b.Dy())
	}
}

func TestDecodeSource_Invalid(t *testing.T) {
	if _, err := DecodeSource([]byte("not an image"), 0); !errs.Is(err, errs.KindProcessing) {
		t.Errorf("expected processing error, got %v", err)
	}
}

func TestImageCache_Load(t *testing.T) {
	cache := NewImageCache(DefaultMaxInputDim)
	imgPath := createTestImage(t, 100, 80, color.RGBA{255, 0, 0, 255})

	src1, err := cache.Load(imgPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if src1.Info.Width != 100 || src1.Info.Height != 80 {
		t.Errorf("unexpected dimensions: got %dx%d", src1.Info.Width, src1.Info.Height)
	}
	if src1.Info.Format != "png" {
		t.Errorf("format: got %q, want png", src1.Info.Format)
	}
	if src1.Info.FileSizeBytes != int64(len(src1.Raw)) || len(src1.Raw) == 0 {
		t.Errorf("file size %d does not match raw bytes %d", src1.Info.FileSizeBytes, len(src1.Raw))
	}

	src2, err := cache.Load(imgPath)
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if src1 != src2 {
		t.Error("second Load did not return cached source")
	}
}

func TestImageCache_LoadCapsInput(t *testing.T) {
	cache := NewImageCache(50)
	src, err := cache.Load(createTestImage(t, 200, 100, color.White))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if src.Info.Width != 50 || src.Info.Height != 25 {
		t.Errorf("decoded: got %dx%d, want 50x25", src.Info.Width, src.Info.Height)
	}
	if src.Info.OriginalWidth != 200 || src.Info.OriginalHeight != 100 {
		t.Errorf("original: got %dx%d, want 200x100", src.Info.OriginalWidth, src.Info.OriginalHeight)
	}
}

func TestImageCache_Load_NonExistent(t *testing.T) {
	cache := NewImageCache(0)
	_, err := cache.Load("/nonexistent/path/to/image.png")
	if err == nil {
		t.Fatal("Load should fail for non-existent file")
	}
	if !errs.Is(err, errs.KindNotFound) {
		t.Errorf("kind: got %q, want %q", errs.KindOf(err), errs.KindNotFound)
	}
}

func TestImageCache_Load_InvalidImage(t *testing.T) {
	cache := NewImageCache(0)
	path := filepath.Join(t.TempDir(), "invalid.png")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := cache.Load(path); err == nil {
		t.Error("Load should fail for invalid image data")
	}
	if cache.Len() != 0 {
		t.Error("failed loads should not be cached")
	}
}

func TestImageCache_PutEvictClear(t *testing.T) {
	cache := NewImageCache(0)
	raw := encodePNG(t, createInMemoryImage(10, 10, color.Black))

	if _, err := cache.Put("inline-1", raw); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if _, err := cache.Put("inline-2", raw); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if cache.Len() != 2 {
		t.Fatalf("Len: got %d, want 2", cache.Len())
	}

	cache.Evict("inline-1")
	cache.Evict("missing")
	if cache.Len() != 1 {
		t.Errorf("after Evict: got %d, want 1", cache.Len())
	}

	cache.Clear()
	if cache.Len() != 0 {
		t.Errorf("after Clear: got %d, want 0", cache.Len())
	}
}

func TestImageCache_ConcurrentAccess(t *testing.T) {
	cache := NewImageCache(0)
	imgPath := createTestImage(t, 50, 50, color.RGBA{0, 0, 255, 255})

	var wg sync.WaitGroup
	errCh := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Load(imgPath); err != nil {
				errCh <- err
			}
		}()
	}
	wg.Wait()
	close(errCh)

	for err := range errCh {
		t.Errorf("concurrent Load failed: %v", err)
	}
	if cache.Len() != 1 {
		t.Errorf("Len: got %d, want 1", cache.Len())
	}
}
