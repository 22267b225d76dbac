package transform

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	dimg "github.com/disintegration/imaging"

	"github.com/ironsheep/image-edit-mcp/internal/imaging"
)

// Flip modes accepted by Flip.
const (
	FlipHorizontal = "horizontal"
	FlipVertical   = "vertical"
)

// ErrInvalidRegion is returned by Crop for an empty or out-of-bounds region.
var ErrInvalidRegion = errors.New("invalid crop region")

// Rotate turns the image by angle degrees about its center, counter-clockwise
// for positive angles.
//
// The output always has the input's width and height: corners that leave the
// canvas are cropped and uncovered areas are filled with black. Pixels are
// sampled bilinearly about the center of the pixel grid, so quarter turns of
// a square image are exact. When angle is a multiple of 360 the result is an
// exact copy of the input.
func Rotate(b *imaging.ImageBuffer, angle float64) (*imaging.ImageBuffer, error) {
	if err := imaging.Validate("rotate", b); err != nil {
		return nil, err
	}
	if math.Mod(angle, 360) == 0 {
		return b.Clone(), nil
	}

	rotated := dimg.Rotate(b.ToImage(), angle, color.Black)

	// Center the expanded result on a black canvas of the original size
	canvas := dimg.New(b.Width, b.Height, color.Black)
	pos := image.Pt(
		b.Width/2-rotated.Bounds().Dx()/2,
		b.Height/2-rotated.Bounds().Dy()/2,
	)
	return imaging.FromImage(dimg.Overlay(canvas, rotated, pos, 1.0), b.Channels)
}

// Flip mirrors the image. FlipHorizontal mirrors left-right; any other mode,
// including FlipVertical, mirrors top-bottom.
func Flip(b *imaging.ImageBuffer, mode string) (*imaging.ImageBuffer, error) {
	if err := imaging.Validate("flip", b); err != nil {
		return nil, err
	}

	var flipped *image.NRGBA
	if mode == FlipHorizontal {
		flipped = dimg.FlipH(b.ToImage())
	} else {
		flipped = dimg.FlipV(b.ToImage())
	}
	return imaging.FromImage(flipped, b.Channels)
}

// ScaledSize returns the dimensions Resize produces for a width x height image
// at scalePercent. Non-positive percentages keep the original size. Scaled
// dimensions are truncated and never drop below one pixel.
func ScaledSize(width, height int, scalePercent float64) (int, int) {
	if scalePercent <= 0 {
		return width, height
	}
	w := int(float64(width) * scalePercent / 100)
	h := int(float64(height) * scalePercent / 100)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// Resize scales the image by scalePercent using area (box) interpolation.
//
// scalePercent <= 0 returns an unchanged copy, as does any percentage that
// leaves both dimensions the same (e.g. 100).
func Resize(b *imaging.ImageBuffer, scalePercent float64) (*imaging.ImageBuffer, error) {
	if err := imaging.Validate("resize", b); err != nil {
		return nil, err
	}

	w, h := ScaledSize(b.Width, b.Height, scalePercent)
	if w == b.Width && h == b.Height {
		return b.Clone(), nil
	}

	resized := dimg.Resize(b.ToImage(), w, h, dimg.Box)
	return imaging.FromImage(resized, b.Channels)
}

// Crop extracts the region (X1,Y1)-(X2,Y2), with the bottom-right corner
// exclusive. The region must be non-empty and lie inside the image.
func Crop(b *imaging.ImageBuffer, region imaging.Region) (*imaging.ImageBuffer, error) {
	if err := imaging.Validate("crop", b); err != nil {
		return nil, err
	}
	if region.Empty() {
		return nil, fmt.Errorf("%w: x1 must be < x2, y1 must be < y2", ErrInvalidRegion)
	}
	if !region.Within(b.Width, b.Height) {
		return nil, fmt.Errorf("%w: (%d,%d)-(%d,%d) outside image bounds %dx%d",
			ErrInvalidRegion, region.X1, region.Y1, region.X2, region.Y2, b.Width, b.Height)
	}

	cropped := dimg.Crop(b.ToImage(), image.Rect(region.X1, region.Y1, region.X2, region.Y2))
	return imaging.FromImage(cropped, b.Channels)
}
