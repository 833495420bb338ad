// Package detection finds geometric features in photographs.
//
// It currently provides horizon detection, used to suggest a straightening
// rotation for tilted shots.
//
// # Algorithm Overview
//
//  1. Edge Detection: Convert to grayscale and detect edges using gradient thresholds
//  2. Feature Extraction: Hough line transform over near-horizontal angles only
//  3. Result Formatting: the strongest line with its tilt, correction and extent
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//
// Angles follow the same convention, so a positive tilt falls toward the
// right edge of the frame. Corrections are counter-clockwise degrees, the
// unit used by adjust.Crop.FreeRotation.
//
// # Limitations
//
// Detection works best on a clear boundary such as sea against sky. Busy
// scenes may pick a strong non-horizon edge; callers treat the result as a
// suggestion.
package detection
