// Package transform is the editor's library of pixel transformations.
//
// Every function takes a read-only *imaging.ImageBuffer plus explicit
// parameters and returns a new buffer. None of them keep state or modify their
// input, so the same input and parameters always produce the same output. A
// nil or malformed buffer is rejected with *imaging.InvalidImageError; there is
// no partial output.
//
// # Operations
//
//   - Grayscale: BT.601 luminance, 3 channels in, 1 channel out
//   - Blur: Gaussian smoothing, kernel size coerced to a positive odd number
//   - EdgeDetect: Canny edges between two thresholds, 3 identical channels out
//   - BrightnessContrast: out = clamp(in*contrast + brightness, 0, 255)
//   - Rotate: about the image center, counter-clockwise for positive angles,
//     canvas size preserved
//   - Flip: "horizontal" mirrors left-right, anything else top-bottom
//   - Resize: scale by a percentage with area (box) interpolation
//   - Crop: extract a rectangular region
//
// Apply dispatches by Operation name, which is how the session layer and the
// MCP server drive the library.
//
// # Libraries
//
// Pixel work is delegated to github.com/anthonynsimon/bild (grayscale,
// convolution, per-pixel adjustment, rotation) and
// github.com/disintegration/imaging (flip, resize, crop). Buffers are converted
// to image.Image for the call and back afterwards.
package transform
