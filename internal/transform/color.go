package transform

import (
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/effect"

	"github.com/ironsheep/image-edit-mcp/internal/imaging"
)

// ITU-R BT.601 luma weights.
const (
	lumaR = 0.299
	lumaG = 0.587
	lumaB = 0.114
)

// Grayscale converts a 3-channel buffer to a 1-channel luminance buffer of the
// same size using BT.601 weights (0.299 R + 0.587 G + 0.114 B).
//
// A buffer that already has one channel does not meet the precondition and is
// rejected with *imaging.InvalidImageError. Use ExpandChannels to turn the
// result back into a 3-channel buffer for display or saving.
func Grayscale(b *imaging.ImageBuffer) (*imaging.ImageBuffer, error) {
	if err := imaging.Validate("grayscale", b); err != nil {
		return nil, err
	}
	if b.Channels != 3 {
		return nil, &imaging.InvalidImageError{Op: "grayscale", Reason: "expected a 3-channel image"}
	}

	gray := effect.GrayscaleWithWeights(b.ToImage(), lumaR, lumaG, lumaB)
	return imaging.FromImage(gray, 1)
}

// luminance returns a 1-channel view of b, converting only when needed.
func luminance(op string, b *imaging.ImageBuffer) (*imaging.ImageBuffer, error) {
	if err := imaging.Validate(op, b); err != nil {
		return nil, err
	}
	if b.Channels == 1 {
		return b, nil
	}
	return Grayscale(b)
}

// ExpandChannels returns a 3-channel copy of b. A 1-channel buffer has its
// value replicated into R, G and B; a 3-channel buffer is cloned.
func ExpandChannels(b *imaging.ImageBuffer) (*imaging.ImageBuffer, error) {
	if err := imaging.Validate("expand channels", b); err != nil {
		return nil, err
	}
	if b.Channels == 3 {
		return b.Clone(), nil
	}

	out := imaging.NewImageBuffer(b.Width, b.Height, 3)
	for i, v := range b.Pix {
		out.Pix[i*3] = v
		out.Pix[i*3+1] = v
		out.Pix[i*3+2] = v
	}
	return out, nil
}

// BrightnessContrast applies out = clamp(round(in*contrast + brightness), 0, 255)
// to every channel of every pixel.
//
// Typical ranges are -100..100 for brightness and 0.1..3.0 for contrast, but
// any value is accepted; the clamp keeps the result in range.
func BrightnessContrast(b *imaging.ImageBuffer, brightness int, contrast float64) (*imaging.ImageBuffer, error) {
	if err := imaging.Validate("brightness_contrast", b); err != nil {
		return nil, err
	}

	var lut [256]uint8
	for v := range lut {
		out := math.Round(float64(v)*contrast + float64(brightness))
		lut[v] = uint8(math.Max(0, math.Min(255, out)))
	}

	adjusted := adjust.Apply(b.ToImage(), func(c color.RGBA) color.RGBA {
		return color.RGBA{R: lut[c.R], G: lut[c.G], B: lut[c.B], A: c.A}
	})
	return imaging.FromImage(adjusted, b.Channels)
}
