// Package imaging provides the pixel buffer type shared by the editor and the
// file and color helpers that work on it.
//
// # Buffers
//
// ImageBuffer is a plain 8-bit pixel grid with 1 (gray) or 3 (RGB) channels,
// stored row-major with interleaved channels. Buffers are immutable by
// convention: every function returns a buffer with its own pixel storage and
// none of them write to a buffer they receive. Use Clone to take a private
// copy and Equal to compare content.
//
// Conversions to and from image.Image (ToImage, FromImage) are the bridge to
// the third-party image libraries used by the transform package.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with the origin at the top-left corner:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (X1,Y1) is inclusive (top-left), (X2,Y2) is exclusive
//
// # Files
//
// Load and Save delegate to github.com/disintegration/imaging and pick the
// format from the file extension (PNG, JPEG, GIF, BMP, TIFF). Decoded files are
// always 3-channel buffers. Failures are reported as *DecodeError and
// *EncodeError; Save encodes in memory first so it never leaves a partial
// file when encoding fails.
//
// # Error Handling
//
// A nil or inconsistent buffer is reported as *InvalidImageError, which also
// matches ErrInvalidImage through errors.Is.
//
// # Color Representation
//
// Colors are reported as hex ("#RRGGBB"), 8-bit RGB and HSL (hue 0-360,
// saturation and lightness 0-100) using github.com/lucasb-eyer/go-colorful.
package imaging
