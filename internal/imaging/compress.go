package imaging

import (
	"bytes"
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"

	errs "github.com/ironsheep/photo-tools-mcp/internal/errors"
)

// MaxCompressedBytes is the hard cap on encoded output.
const MaxCompressedBytes = 5 << 20

const (
	minQuality     = 10
	qualityStep    = 10
	downscaleRatio = 0.8
	maxDownscales  = 6
)

// Compressed is an encoded JPEG and the parameters that produced it.
type Compressed struct {
	Data    []byte `json:"-"`
	Quality int    `json:"quality"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
}

// Compress encodes img as JPEG within MaxCompressedBytes.
func Compress(img image.Image, quality int) (*Compressed, error) {
	return CompressWithLimit(img, quality, MaxCompressedBytes)
}

// CompressWithLimit encodes img as JPEG no larger than limit bytes.
//
// quality is clamped to [1, 100]. When the encoding is too large the quality
// steps down toward a floor of 10; after that the image is shrunk by 0.8 up to
// six times. If nothing fits a compression error is returned.
func CompressWithLimit(img image.Image, quality, limit int) (*Compressed, error) {
	if isEmpty(img) {
		return nil, errs.Compression("empty image", nil)
	}
	if limit <= 0 || limit > MaxCompressedBytes {
		limit = MaxCompressedBytes
	}
	q := min(100, max(1, quality))

	var buf bytes.Buffer
	encode := func(src image.Image, q int) error {
		buf.Reset()
		return imaging.Encode(&buf, src, imaging.JPEG, imaging.JPEGQuality(q))
	}

	current := img
	for scaleStep := 0; scaleStep <= maxDownscales; scaleStep++ {
		for {
			if err := encode(current, q); err != nil {
				return nil, errs.Compression("jpeg encode", err)
			}
			if buf.Len() <= limit {
				b := current.Bounds()
				return &Compressed{
					Data:    bytes.Clone(buf.Bytes()),
					Quality: q,
					Width:   b.Dx(),
					Height:  b.Dy(),
				}, nil
			}
			if q <= minQuality {
				break
			}
			q = max(minQuality, q-qualityStep)
		}

		b := current.Bounds()
		w := int(math.Round(float64(b.Dx()) * downscaleRatio))
		h := int(math.Round(float64(b.Dy()) * downscaleRatio))
		if w < 1 || h < 1 {
			break
		}
		current = imaging.Resize(current, w, h, imaging.Lanczos)
	}

	return nil, errs.Compression(fmt.Sprintf("output exceeds %d bytes", limit), nil)
}
