// Package imaging provides the per-frame image stages of the ball tracker.
//
// The package turns a camera frame into a cleaned-up binary mask of the
// target color, and exposes the edge detector the circle locator runs on that
// mask. Every stage is a pure function of its input: nothing is cached between
// frames, and no stage mutates the image it was given.
//
// # Stages
//
//   - PrepareFrame: normalise any image.Image to *image.NRGBA, optionally downscaled
//   - Segmenter.Segment: HSV in-range test against one or more ColorBands (logical OR)
//   - Refiner.Refine: Gaussian smoothing, then dilation, then erosion
//   - Canny: edge map with gradients, used by the Hough circle locator
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//
// # Color Representation
//
// HSV values use the 8-bit convention of common vision libraries:
//   - H: hue in half-degrees, 0-179 (so 0 and 179 are neighbours on the color wheel)
//   - S: saturation, 0-255
//   - V: value (brightness), 0-255
//
// Red straddles hue 0, so a red target is usually described by two bands, one
// at each end of the hue axis. SplitWrapBand builds that pair.
//
// # Thread Safety
//
// Segmenter and Refiner are immutable after construction and safe for
// concurrent use. The ImageCache type is safe for concurrent use.
//
// # Error Handling
//
// Construction errors (bad bands, bad kernel sizes) wrap
// errdefs.ErrInvalidConfiguration. Zero-area inputs are not errors here: they
// produce zero-area masks, which later stages report as empty results.
package imaging
