// Package ocr reads burned-in camera date stamps using Tesseract.
//
// Film point-and-shoots and early digital cameras print the capture date into
// the lower right corner of the frame. When EXIF carries no capture time the
// engine falls back to this reader.
//
// # Prerequisites
//
// Tesseract must be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// # Pipeline
//
//  1. Crop the lower right quarter of the frame
//  2. Keep only orange-red LED or bright white pixels, as black on white
//  3. Upscale 3x with nearest-neighbor sampling
//  4. Recognize a single line restricted to digits and separators
//  5. Parse the text as one of the common imprint layouts
//
// # Supported Layouts
//
//   - '98 7 14 (year first, apostrophe year)
//   - 7 14 '98 (month first, apostrophe year)
//   - 2004/07/14, 2004.07.14, 2004-07-14
//   - 07/14/98 or 14.07.2004 (a first field above 12 is the day)
package ocr
