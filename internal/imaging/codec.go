package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// DefaultJPEGQuality is used by Save when no quality option is given.
const DefaultJPEGQuality = 95

// DecodeError reports a file that could not be read or decoded into a buffer.
type DecodeError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode image %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *DecodeError) Unwrap() error { return e.Err }

// EncodeError reports a buffer that could not be encoded or written to disk.
type EncodeError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *EncodeError) Error() string {
	return fmt.Sprintf("failed to encode image %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *EncodeError) Unwrap() error { return e.Err }

// SaveOptions controls encoding in Save and Encode.
type SaveOptions struct {
	// JPEGQuality is the JPEG quality (1-100). Zero means DefaultJPEGQuality.
	JPEGQuality int
}

// Load reads an image file and converts it to a 3-channel buffer.
//
// Supported formats are those registered by github.com/disintegration/imaging:
// PNG, JPEG, GIF, BMP and TIFF. EXIF orientation is applied to JPEG files.
// Alpha is discarded.
//
// # Errors
//
// Every failure (missing file, unreadable data, unsupported format) is
// returned as a *DecodeError carrying the path.
func Load(path string) (*ImageBuffer, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}

	buf, err := FromImage(img, 3)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	return buf, nil
}

// FormatFromPath maps a file extension to a format name ("png", "jpeg",
// "gif", "tiff", "bmp"). The check is case-insensitive.
func FormatFromPath(path string) (string, error) {
	f, err := imaging.FormatFromFilename(path)
	if err != nil {
		return "", fmt.Errorf("unsupported image format %q: %w", filepath.Ext(path), err)
	}
	return strings.ToLower(f.String()), nil
}

// Encode writes b in the given format ("png", "jpeg", ...) and returns the
// encoded bytes.
func Encode(b *ImageBuffer, format string, opts SaveOptions) ([]byte, error) {
	if err := Validate("encode", b); err != nil {
		return nil, err
	}

	f, err := imaging.FormatFromExtension(format)
	if err != nil {
		return nil, fmt.Errorf("unsupported image format %q: %w", format, err)
	}

	quality := opts.JPEGQuality
	if quality == 0 {
		quality = DefaultJPEGQuality
	}

	var out bytes.Buffer
	if err := imaging.Encode(&out, b.ToImage(), f, imaging.JPEGQuality(quality)); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// Save encodes b using the format implied by the extension of path and writes
// it to disk.
//
// The image is fully encoded in memory before the file is created, so an
// unsupported extension or an encoder failure never leaves a partial file
// behind. All failures are returned as *EncodeError.
func Save(b *ImageBuffer, path string, opts SaveOptions) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return &EncodeError{Path: path, Err: err}
	}

	data, err := Encode(b, format, opts)
	if err != nil {
		return &EncodeError{Path: path, Err: err}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &EncodeError{Path: path, Err: err}
	}
	return nil
}

// ExportResult contains a buffer encoded as base64 PNG for transport in a
// JSON response.
type ExportResult struct {
	// Width of the exported image in pixels.
	Width int `json:"width"`

	// Height of the exported image in pixels.
	Height int `json:"height"`

	// ImageBase64 is the PNG encoding of the image, base64 (standard alphabet).
	ImageBase64 string `json:"image_base64"`

	// MimeType is always "image/png".
	MimeType string `json:"mime_type"`
}

// ExportPNG encodes b as base64 PNG.
func ExportPNG(b *ImageBuffer) (*ExportResult, error) {
	data, err := Encode(b, "png", SaveOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &ExportResult{
		Width:       b.Width,
		Height:      b.Height,
		ImageBase64: base64.StdEncoding.EncodeToString(data),
		MimeType:    "image/png",
	}, nil
}

// ImageInfo contains metadata about a buffer and where it came from.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Channels is 1 for gray buffers and 3 for RGB buffers.
	Channels int `json:"channels"`

	// Format is derived from the source path extension, or "unknown".
	Format string `json:"format"`

	// SizeBytes is the size of the decoded pixel data held in memory.
	SizeBytes int `json:"size_bytes"`
}

// Info describes b. The path is only used to derive the format name.
func Info(b *ImageBuffer, path string) ImageInfo {
	format, err := FormatFromPath(path)
	if err != nil {
		format = "unknown"
	}
	return ImageInfo{
		Width:     b.Width,
		Height:    b.Height,
		Channels:  b.Channels,
		Format:    format,
		SizeBytes: b.SizeBytes(),
	}
}
