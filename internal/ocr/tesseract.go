package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"time"

	clog "github.com/charmbracelet/log"
	"github.com/otiai10/gosseract/v2"
)

// stampWhitelist limits recognition to the glyphs date imprints use.
const stampWhitelist = "0123456789'/.-: "

// Reader reads burned-in date stamps with Tesseract. It satisfies the
// engine's date-stamp fallback interface.
//
// A fresh Tesseract client is created per call, so a Reader is safe for
// concurrent use.
type Reader struct {
	language string
	logger   *clog.Logger
}

// NewReader returns a Reader for the given Tesseract language code
// ("eng" when empty). logger may be nil.
func NewReader(language string, logger *clog.Logger) *Reader {
	if language == "" {
		language = "eng"
	}
	return &Reader{language: language, logger: logger}
}

// ReadDatestamp looks for a date imprint in the lower right corner of img.
//
// Returns:
//   - time.Time: The stamped date at local midnight.
//   - error: ErrNoDatestamp when nothing parseable was recognized, ctx.Err()
//     when cancelled before recognition, or a Tesseract failure.
//
// Tesseract itself is not interruptible; ctx is checked before the call.
func (r *Reader) ReadDatestamp(ctx context.Context, img image.Image) (time.Time, error) {
	if img == nil || img.Bounds().Empty() {
		return time.Time{}, ErrNoDatestamp
	}
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, isolateStamp(img)); err != nil {
		return time.Time{}, fmt.Errorf("failed to encode stamp region: %w", err)
	}

	text, err := r.recognize(buf.Bytes())
	if err != nil {
		return time.Time{}, err
	}
	t, ok := parseDatestamp(text)
	if r.logger != nil {
		r.logger.Debug("date stamp ocr", "text", text, "parsed", ok)
	}
	if !ok {
		return time.Time{}, ErrNoDatestamp
	}
	return t, nil
}

func (r *Reader) recognize(pngData []byte) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(r.language); err != nil {
		return "", fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetWhitelist(stampWhitelist); err != nil {
		return "", fmt.Errorf("failed to set whitelist: %w", err)
	}
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_LINE); err != nil {
		return "", fmt.Errorf("failed to set page mode: %w", err)
	}
	if err := client.SetImageFromBytes(pngData); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return text, nil
}
