package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
)

// ErrInvalidImage is the sentinel matched by errors.Is for every InvalidImageError.
var ErrInvalidImage = errors.New("invalid image")

// InvalidImageError reports a nil or malformed ImageBuffer handed to a
// transform or committed to history.
type InvalidImageError struct {
	// Op names the operation that rejected the buffer (e.g. "blur", "commit").
	Op string

	// Reason describes what is wrong with the buffer.
	Reason string
}

// Error implements the error interface.
func (e *InvalidImageError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("invalid image: %s", e.Reason)
	}
	return fmt.Sprintf("%s: invalid image: %s", e.Op, e.Reason)
}

// Is lets errors.Is(err, ErrInvalidImage) match any InvalidImageError.
func (e *InvalidImageError) Is(target error) bool {
	return target == ErrInvalidImage
}

// ImageBuffer is a 2D grid of 8-bit pixels with 1 (gray) or 3 (RGB) channels.
//
// Pixels are stored row-major with channels interleaved, so the value of
// channel c at (x, y) lives at Pix[(y*Width+x)*Channels+c]. An ImageBuffer is
// immutable by convention: functions in this module never modify a buffer they
// receive and every buffer they return owns its own Pix slice.
type ImageBuffer struct {
	Width    int
	Height   int
	Channels int
	Pix      []uint8
}

// NewImageBuffer allocates a zeroed (black) buffer.
func NewImageBuffer(width, height, channels int) *ImageBuffer {
	return &ImageBuffer{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      make([]uint8, width*height*channels),
	}
}

// NewSolidBuffer allocates a 3-channel buffer filled with one color.
func NewSolidBuffer(width, height int, r, g, b uint8) *ImageBuffer {
	buf := NewImageBuffer(width, height, 3)
	for i := 0; i < len(buf.Pix); i += 3 {
		buf.Pix[i], buf.Pix[i+1], buf.Pix[i+2] = r, g, b
	}
	return buf
}

// Validate checks that b is non-nil and internally consistent.
//
// The op argument is recorded in the returned *InvalidImageError so callers
// can tell which operation rejected the buffer.
func Validate(op string, b *ImageBuffer) error {
	if b == nil {
		return &InvalidImageError{Op: op, Reason: "nil buffer"}
	}
	if b.Width <= 0 || b.Height <= 0 {
		return &InvalidImageError{Op: op, Reason: fmt.Sprintf("invalid dimensions %dx%d", b.Width, b.Height)}
	}
	if b.Channels != 1 && b.Channels != 3 {
		return &InvalidImageError{Op: op, Reason: fmt.Sprintf("unsupported channel count %d", b.Channels)}
	}
	if want := b.Width * b.Height * b.Channels; len(b.Pix) != want {
		return &InvalidImageError{Op: op, Reason: fmt.Sprintf("pixel data length %d, want %d", len(b.Pix), want)}
	}
	return nil
}

// Clone returns a deep copy of b. Cloning a nil buffer returns nil.
func (b *ImageBuffer) Clone() *ImageBuffer {
	if b == nil {
		return nil
	}
	pix := make([]uint8, len(b.Pix))
	copy(pix, b.Pix)
	return &ImageBuffer{
		Width:    b.Width,
		Height:   b.Height,
		Channels: b.Channels,
		Pix:      pix,
	}
}

// Equal reports whether a and b have the same dimensions, channel count and
// pixel values. Two nil buffers are equal.
func (b *ImageBuffer) Equal(other *ImageBuffer) bool {
	if b == nil || other == nil {
		return b == other
	}
	return b.Width == other.Width &&
		b.Height == other.Height &&
		b.Channels == other.Channels &&
		bytes.Equal(b.Pix, other.Pix)
}

// SizeBytes is the number of bytes held by the pixel data.
func (b *ImageBuffer) SizeBytes() int {
	if b == nil {
		return 0
	}
	return len(b.Pix)
}

// Bounds returns the buffer rectangle anchored at the origin.
func (b *ImageBuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.Width, b.Height)
}

// At returns the channel values at (x, y). For a 1-channel buffer the single
// value is returned in all three positions.
func (b *ImageBuffer) At(x, y int) (r, g, bl uint8) {
	i := (y*b.Width + x) * b.Channels
	if b.Channels == 1 {
		v := b.Pix[i]
		return v, v, v
	}
	return b.Pix[i], b.Pix[i+1], b.Pix[i+2]
}

// ToImage converts the buffer to a standard library image. 1-channel buffers
// become *image.Gray and 3-channel buffers become opaque *image.NRGBA.
func (b *ImageBuffer) ToImage() image.Image {
	if b.Channels == 1 {
		img := image.NewGray(b.Bounds())
		for y := 0; y < b.Height; y++ {
			copy(img.Pix[y*img.Stride:y*img.Stride+b.Width], b.Pix[y*b.Width:(y+1)*b.Width])
		}
		return img
	}

	img := image.NewNRGBA(b.Bounds())
	for y := 0; y < b.Height; y++ {
		src := b.Pix[y*b.Width*3 : (y+1)*b.Width*3]
		dst := img.Pix[y*img.Stride : y*img.Stride+b.Width*4]
		for x := 0; x < b.Width; x++ {
			dst[x*4] = src[x*3]
			dst[x*4+1] = src[x*3+1]
			dst[x*4+2] = src[x*3+2]
			dst[x*4+3] = 0xff
		}
	}
	return img
}

// FromImage converts img into a buffer with the requested channel count.
//
// For channels == 3 the straight RGB values are kept and alpha is dropped,
// except for *image.RGBA whose premultiplied values are taken as-is, which
// amounts to compositing over black. For channels == 1 the red channel is
// used; callers convert to grayscale before asking for one channel.
func FromImage(img image.Image, channels int) (*ImageBuffer, error) {
	if img == nil {
		return nil, &InvalidImageError{Op: "convert", Reason: "nil image"}
	}
	if channels != 1 && channels != 3 {
		return nil, &InvalidImageError{Op: "convert", Reason: fmt.Sprintf("unsupported channel count %d", channels)}
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return nil, &InvalidImageError{Op: "convert", Reason: fmt.Sprintf("invalid dimensions %dx%d", w, h)}
	}

	buf := NewImageBuffer(w, h, channels)
	put := func(x, y int, r, g, b uint8) {
		i := (y*w + x) * channels
		buf.Pix[i] = r
		if channels == 3 {
			buf.Pix[i+1] = g
			buf.Pix[i+2] = b
		}
	}

	switch src := img.(type) {
	case *image.Gray:
		for y := 0; y < h; y++ {
			row := src.Pix[y*src.Stride:]
			for x := 0; x < w; x++ {
				v := row[x]
				put(x, y, v, v, v)
			}
		}
	case *image.NRGBA:
		for y := 0; y < h; y++ {
			row := src.Pix[y*src.Stride:]
			for x := 0; x < w; x++ {
				put(x, y, row[x*4], row[x*4+1], row[x*4+2])
			}
		}
	case *image.RGBA:
		for y := 0; y < h; y++ {
			row := src.Pix[y*src.Stride:]
			for x := 0; x < w; x++ {
				put(x, y, row[x*4], row[x*4+1], row[x*4+2])
			}
		}
	default:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				c := color.NRGBAModel.Convert(img.At(x+bounds.Min.X, y+bounds.Min.Y)).(color.NRGBA)
				put(x, y, c.R, c.G, c.B)
			}
		}
	}

	return buf, nil
}
