package transform

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ironsheep/image-edit-mcp/internal/imaging"
)

// Operation names a transformation that Apply can run.
type Operation string

// Supported operations.
const (
	OpGrayscale          Operation = "grayscale"
	OpBlur               Operation = "blur"
	OpEdgeDetect         Operation = "edge_detect"
	OpBrightnessContrast Operation = "brightness_contrast"
	OpRotate             Operation = "rotate"
	OpFlip               Operation = "flip"
	OpResize             Operation = "resize"
	OpCrop               Operation = "crop"
)

var (
	// ErrUnknownOperation is returned for an operation name Apply does not know.
	ErrUnknownOperation = errors.New("unknown operation")

	// ErrParamOutOfRange is returned by CheckLimits.
	ErrParamOutOfRange = errors.New("parameter out of range")
)

// Limits on caller-supplied parameters.
const (
	MaxKernelSize   = 255
	MaxScalePercent = 1000
	MaxPixels       = 1 << 26
)

// Operations lists every supported operation in display order.
func Operations() []Operation {
	return []Operation{
		OpGrayscale,
		OpBlur,
		OpEdgeDetect,
		OpBrightnessContrast,
		OpRotate,
		OpFlip,
		OpResize,
		OpCrop,
	}
}

// ParseOperation resolves a case-insensitive operation name.
func ParseOperation(name string) (Operation, error) {
	op := Operation(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Operations() {
		if op == known {
			return op, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownOperation, name)
}

// Params carries the parameters of every operation. Each operation reads only
// the fields it needs.
type Params struct {
	KernelSize   int            // blur
	Threshold1   int            // edge_detect
	Threshold2   int            // edge_detect
	Brightness   int            // brightness_contrast
	Contrast     float64        // brightness_contrast
	Angle        float64        // rotate, degrees
	Mode         string         // flip
	ScalePercent float64        // resize
	Region       imaging.Region // crop
}

// DefaultParams returns the parameter values the editor starts with.
func DefaultParams() Params {
	return Params{
		KernelSize:   3,
		Threshold1:   100,
		Threshold2:   200,
		Brightness:   0,
		Contrast:     1.0,
		Angle:        0,
		Mode:         FlipHorizontal,
		ScalePercent: 100,
	}
}

// CheckLimits rejects parameters that would make op on b too expensive to
// run: blur kernels above MaxKernelSize, and resizes above MaxScalePercent or
// producing more than MaxPixels pixels.
func CheckLimits(op Operation, b *imaging.ImageBuffer, p Params) error {
	switch op {
	case OpBlur:
		if p.KernelSize > MaxKernelSize {
			return fmt.Errorf("%w: kernel_size %d exceeds %d", ErrParamOutOfRange, p.KernelSize, MaxKernelSize)
		}
	case OpResize:
		if p.ScalePercent > MaxScalePercent {
			return fmt.Errorf("%w: scale_percent %g exceeds %d", ErrParamOutOfRange, p.ScalePercent, MaxScalePercent)
		}
		if b != nil {
			w, h := ScaledSize(b.Width, b.Height, p.ScalePercent)
			if w*h > MaxPixels {
				return fmt.Errorf("%w: resize to %dx%d exceeds %d pixels", ErrParamOutOfRange, w, h, MaxPixels)
			}
		}
	}
	return nil
}

// Apply runs op on b with p.
//
// OpGrayscale returns the 3-channel form (luminance replicated into R, G and
// B) so every result of Apply can be displayed and saved the same way; call
// Grayscale directly for the 1-channel buffer.
func Apply(op Operation, b *imaging.ImageBuffer, p Params) (*imaging.ImageBuffer, error) {
	switch op {
	case OpGrayscale:
		gray, err := Grayscale(b)
		if err != nil {
			return nil, err
		}
		return ExpandChannels(gray)
	case OpBlur:
		return Blur(b, p.KernelSize)
	case OpEdgeDetect:
		return EdgeDetect(b, p.Threshold1, p.Threshold2)
	case OpBrightnessContrast:
		return BrightnessContrast(b, p.Brightness, p.Contrast)
	case OpRotate:
		return Rotate(b, p.Angle)
	case OpFlip:
		return Flip(b, p.Mode)
	case OpResize:
		return Resize(b, p.ScalePercent)
	case OpCrop:
		return Crop(b, p.Region)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperation, string(op))
	}
}

// Describe renders op and the parameters it uses as a short label for history
// listings, e.g. "blur k=5" or "rotate 90°".
func Describe(op Operation, p Params) string {
	switch op {
	case OpBlur:
		return fmt.Sprintf("blur k=%d", CoerceKernelSize(p.KernelSize))
	case OpEdgeDetect:
		return fmt.Sprintf("edge_detect %d/%d", p.Threshold1, p.Threshold2)
	case OpBrightnessContrast:
		return fmt.Sprintf("brightness_contrast b=%d c=%g", p.Brightness, p.Contrast)
	case OpRotate:
		return fmt.Sprintf("rotate %g°", p.Angle)
	case OpFlip:
		if p.Mode == FlipHorizontal {
			return "flip horizontal"
		}
		return "flip vertical"
	case OpResize:
		return fmt.Sprintf("resize %g%%", p.ScalePercent)
	case OpCrop:
		r := p.Region
		return fmt.Sprintf("crop (%d,%d)-(%d,%d)", r.X1, r.Y1, r.X2, r.Y2)
	default:
		return string(op)
	}
}
