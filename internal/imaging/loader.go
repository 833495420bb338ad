package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"os"
	"sync"

	"github.com/disintegration/imaging"

	errs "github.com/ironsheep/photo-tools-mcp/internal/errors"
)

// DefaultMaxInputDim caps the longest side of a decoded source.
const DefaultMaxInputDim = 4096

// DecodeSource decodes an encoded photo, applies its EXIF orientation and
// shrinks it so neither side exceeds maxDim. maxDim <= 0 disables the cap.
//
// Supported formats are those registered by disintegration/imaging: JPEG,
// PNG, GIF, TIFF and BMP.
func DecodeSource(raw []byte, maxDim int) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return nil, errs.Processing("decode", "failed to decode image", err)
	}
	if isEmpty(img) {
		return nil, errs.Processing("decode", "image has no pixels", nil)
	}
	b := img.Bounds()
	if maxDim > 0 && (b.Dx() > maxDim || b.Dy() > maxDim) {
		img = imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
	}
	return img, nil
}

// SourceInfo describes a loaded source file.
type SourceInfo struct {
	// Width and Height are the decoded dimensions after orientation and the
	// input cap.
	Width  int `json:"width"`
	Height int `json:"height"`

	// OriginalWidth and OriginalHeight are the stored pixel dimensions.
	OriginalWidth  int `json:"original_width"`
	OriginalHeight int `json:"original_height"`

	// Format is the decoder name reported by image.DecodeConfig, e.g. "jpeg".
	Format string `json:"format"`

	// FileSizeBytes is the size of the encoded file.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadedSource is a cached source: the decoded image plus the encoded bytes
// it came from, which analysis needs for EXIF.
type LoadedSource struct {
	Path  string
	Image image.Image
	Raw   []byte
	Info  SourceInfo
}

// ImageCache provides thread-safe caching of decoded sources keyed by path.
//
// Cached sources remain in memory until removed via Evict() or Clear().
//
//	cache := imaging.NewImageCache(imaging.DefaultMaxInputDim)
//	src, err := cache.Load("/photos/beach.jpg")
//	if err != nil {
//	    return err
//	}
//	preview, err := imaging.GeneratePreview(ctx, src.Image, settings, imaging.Square(1024))
type ImageCache struct {
	maxDim int

	mu      sync.RWMutex
	sources map[string]*LoadedSource
}

// NewImageCache creates an empty cache whose decodes are capped to maxDim.
func NewImageCache(maxDim int) *ImageCache {
	return &ImageCache{
		maxDim:  maxDim,
		sources: make(map[string]*LoadedSource),
	}
}

// Load returns the cached source for path, reading and decoding it on the
// first call.
//
// The cache key is the exact path string: different spellings of the same
// file are separate entries. Loaded sources are shared and must be treated
// as read-only.
func (c *ImageCache) Load(path string) (*LoadedSource, error) {
	c.mu.RLock()
	if src, ok := c.sources[path]; ok {
		c.mu.RUnlock()
		return src, nil
	}
	c.mu.RUnlock()

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errs.NotFound("load", path, err)
		}
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	src, err := c.decode(path, raw)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.sources[path]; ok {
		return existing, nil
	}
	c.sources[path] = src
	return src, nil
}

// Put decodes raw and stores it under key, replacing any previous entry.
// It is used for sources that arrive inline rather than from disk.
func (c *ImageCache) Put(key string, raw []byte) (*LoadedSource, error) {
	src, err := c.decode(key, raw)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.sources[key] = src
	c.mu.Unlock()
	return src, nil
}

func (c *ImageCache) decode(key string, raw []byte) (*LoadedSource, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, errs.Processing("decode", "unrecognized image "+key, err)
	}
	img, err := DecodeSource(raw, c.maxDim)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	return &LoadedSource{
		Path:  key,
		Image: img,
		Raw:   raw,
		Info: SourceInfo{
			Width:          b.Dx(),
			Height:         b.Dy(),
			OriginalWidth:  cfg.Width,
			OriginalHeight: cfg.Height,
			Format:         format,
			FileSizeBytes:  int64(len(raw)),
		},
	}, nil
}

// Len returns the number of cached sources.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.sources)
}

// Clear removes all sources from the cache.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.sources = make(map[string]*LoadedSource)
	c.mu.Unlock()
}

// Evict removes one source. Unknown keys are ignored.
func (c *ImageCache) Evict(key string) {
	c.mu.Lock()
	delete(c.sources, key)
	c.mu.Unlock()
}
