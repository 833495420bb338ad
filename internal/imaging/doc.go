// Package imaging is the render engine: per-adjustment image transforms,
// preset filters, geometry, resizing, JPEG compression and the color and
// capture analyses used for tagging.
//
// All operations work on standard Go image.Image values and never modify
// their input. Results are fresh *image.NRGBA images with their origin at
// (0,0), where X increases rightward and Y increases downward.
//
// # Render Order
//
// ApplySettings runs the selected filter first, then every active adjustment
// in canonical order (exposure and tonal, color, detail, stylistic). Geometry
// follows: quarter turns, flips, free rotation, then the aspect crop.
//
// # Cancellation
//
// Render entry points take a context.Context and check it between steps.
// A cancelled render returns a processing error wrapping ctx.Err(); the
// pixel work of a single step is not interrupted.
//
// # Thread Safety
//
// Functions are stateless and can be called concurrently. ImageCache and
// Engine are safe for concurrent use.
//
// # Error Handling
//
// Failures are *errors.Error values from internal/errors: processing errors
// for empty or undecodable images, compression errors when output cannot be
// brought under the byte cap, and invalid color format for bad hex input.
package imaging
