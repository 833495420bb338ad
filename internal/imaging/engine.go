package imaging

import (
	"context"
	"image"
	"time"

	clog "github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"

	adj "github.com/ironsheep/photo-tools-mcp/internal/adjust"
	"github.com/ironsheep/photo-tools-mcp/internal/detection"
	"github.com/ironsheep/photo-tools-mcp/internal/logging"
	"github.com/ironsheep/photo-tools-mcp/internal/session"
)

// Default engine sizes and limits.
const (
	DefaultPreviewSize   = 1024
	DefaultRealtimeSize  = 512
	DefaultQuality       = 90
	DefaultStraightenMax = 15.0
)

// DatestampReader recovers a capture date from pixels, for files whose
// metadata has none.
type DatestampReader interface {
	ReadDatestamp(ctx context.Context, img image.Image) (time.Time, error)
}

// EngineConfig holds the render sizes and encoder limits.
type EngineConfig struct {
	// PreviewSize bounds finalize-quality previews.
	PreviewSize Size
	// RealtimeSize bounds the low-resolution buffers rendered while dragging.
	RealtimeSize Size
	// Quality is the JPEG quality used when Encode is given 0.
	Quality int
	// MaxBytes caps encoded output; it never exceeds MaxCompressedBytes.
	MaxBytes int
	// StraightenMax is the largest tilt auto-straighten will correct, in degrees.
	StraightenMax float64
}

// DefaultEngineConfig returns the standard sizes.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		PreviewSize:   Square(DefaultPreviewSize),
		RealtimeSize:  Square(DefaultRealtimeSize),
		Quality:       DefaultQuality,
		MaxBytes:      MaxCompressedBytes,
		StraightenMax: DefaultStraightenMax,
	}
}

// Engine is the production renderer behind edit sessions. It holds no
// per-image state and is safe for concurrent use.
type Engine struct {
	cfg       EngineConfig
	datestamp DatestampReader
	logger    *clog.Logger
}

var _ session.Renderer = (*Engine)(nil)

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithDatestampReader enables the capture-date fallback in Analyze.
func WithDatestampReader(r DatestampReader) EngineOption {
	return func(e *Engine) { e.datestamp = r }
}

// WithEngineLogger sets the engine logger.
func WithEngineLogger(l *clog.Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine returns an engine for cfg. Zero fields take their defaults.
func NewEngine(cfg EngineConfig, opts ...EngineOption) *Engine {
	def := DefaultEngineConfig()
	if cfg.PreviewSize.Width <= 0 || cfg.PreviewSize.Height <= 0 {
		cfg.PreviewSize = def.PreviewSize
	}
	if cfg.RealtimeSize.Width <= 0 || cfg.RealtimeSize.Height <= 0 {
		cfg.RealtimeSize = def.RealtimeSize
	}
	if cfg.Quality <= 0 {
		cfg.Quality = def.Quality
	}
	if cfg.MaxBytes <= 0 || cfg.MaxBytes > MaxCompressedBytes {
		cfg.MaxBytes = def.MaxBytes
	}
	if cfg.StraightenMax <= 0 {
		cfg.StraightenMax = def.StraightenMax
	}

	e := &Engine{cfg: cfg, logger: logging.Discard()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Config returns the effective configuration.
func (e *Engine) Config() EngineConfig { return e.cfg }

// Downsample builds the realtime buffer for a source.
func (e *Engine) Downsample(img image.Image) (image.Image, error) {
	return Resize(img, e.cfg.RealtimeSize)
}

// RenderRealtime renders onto a realtime buffer.
func (e *Engine) RenderRealtime(ctx context.Context, lowRes image.Image, s adj.Settings) (image.Image, error) {
	return GeneratePreviewFast(ctx, lowRes, s)
}

// RenderFinalize renders a preview-size image from the full source.
func (e *Engine) RenderFinalize(ctx context.Context, src image.Image, s adj.Settings) (image.Image, error) {
	return GeneratePreview(ctx, src, s, e.cfg.PreviewSize)
}

// RenderFinal renders the source at full resolution.
func (e *Engine) RenderFinal(ctx context.Context, src image.Image, s adj.Settings) (image.Image, error) {
	start := time.Now()
	out, err := RenderFinal(ctx, src, s)
	if err != nil {
		return nil, err
	}
	b := out.Bounds()
	e.logger.Debug("final render", "width", b.Dx(), "height", b.Dy(), "elapsed", time.Since(start).Round(time.Millisecond))
	return out, nil
}

// Compress encodes img within the configured byte cap. quality <= 0 uses
// the configured quality.
func (e *Engine) Compress(img image.Image, quality int) (*Compressed, error) {
	if quality <= 0 {
		quality = e.cfg.Quality
	}
	c, err := CompressWithLimit(img, quality, e.cfg.MaxBytes)
	if err != nil {
		return nil, err
	}
	if c.Quality != quality || c.Width != img.Bounds().Dx() {
		e.logger.Info("output reduced to fit",
			"limit", humanize.IBytes(uint64(e.cfg.MaxBytes)),
			"quality", c.Quality,
			"width", c.Width,
			"height", c.Height)
	}
	e.logger.Debug("encoded", "size", humanize.IBytes(uint64(len(c.Data))), "quality", c.Quality)
	return c, nil
}

// Encode is Compress returning only the bytes.
func (e *Engine) Encode(img image.Image, quality int) ([]byte, error) {
	c, err := e.Compress(img, quality)
	if err != nil {
		return nil, err
	}
	return c.Data, nil
}

// SuggestStraighten looks for a horizon in img as it appears after the
// crop's quarter turns and flips, and returns the free rotation that levels
// it. Any free rotation already in c is ignored.
func (e *Engine) SuggestStraighten(img image.Image, c adj.Crop) (float64, bool) {
	if isEmpty(img) {
		return 0, false
	}
	c.FreeRotation = 0
	c.Aspect = adj.AspectNone
	h := detection.DetectHorizon(ApplyOrientation(c, img), e.cfg.StraightenMax)
	if !h.Found {
		return 0, false
	}
	e.logger.Debug("horizon found", "tilt", h.TiltDegrees, "confidence", h.Confidence)
	return h.Correction, true
}

// Analyze runs Analyze and, when the file carries no capture time, asks the
// date-stamp reader for one. A stamp carries no hour, so TimeOfDay stays
// unknown in that case.
func (e *Engine) Analyze(ctx context.Context, img image.Image, raw []byte, maxColors int) (*Analysis, error) {
	a, err := Analyze(img, raw, maxColors)
	if err != nil {
		return nil, err
	}
	if e.datestamp == nil || !a.Metadata.CapturedAt.IsZero() {
		return a, nil
	}

	t, err := e.datestamp.ReadDatestamp(ctx, img)
	if err != nil {
		e.logger.Debug("no date stamp", "err", err)
		return a, nil
	}
	a.Metadata.CapturedAt = t
	a.Metadata.TimeSource = SourceDatestamp
	return a, nil
}
