// Package detection locates circles in segmentation masks.
//
// The Locator implements the gradient variant of the Hough circle transform
// in pure Go: edge pixels vote along their gradient direction instead of
// around a full circle, which keeps a wide radius range affordable for every
// frame of a live video stream.
//
// # Pipeline
//
//  1. Canny edges on the mask, keeping Sobel gradients (imaging.Canny)
//  2. Gradient-directed voting into a downscaled accumulator
//  3. Local maxima of 3x3 vote support as candidate centers, strongest first
//  4. A least-squares circle fit on the edge pixels around each candidate,
//     with minimum center distance suppression
//
// Building with -tags gocv adds OpenCVLocator, which delegates the same steps
// to OpenCV's HoughCircles with the same Params.
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//
// Centers and radii are floating point and come from the fit, not from the
// accumulator cells, so Resolution does not limit their precision.
//
// # Errors
//
// Invalid Params match errdefs.ErrInvalidConfiguration and are reported all
// at once. A zero-area mask matches errdefs.ErrInvalidInput. Finding nothing
// is not an error.
package detection
