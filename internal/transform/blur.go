package transform

import (
	"math"

	"github.com/anthonynsimon/bild/convolution"

	"github.com/ironsheep/image-edit-mcp/internal/imaging"
)

// CoerceKernelSize maps any requested kernel size to the size Blur actually
// uses: at least 1, and odd (even sizes are bumped to the next odd number).
func CoerceKernelSize(k int) int {
	if k < 1 {
		k = 1
	}
	if k%2 == 0 {
		k++
	}
	return k
}

// GaussianSigma derives the standard deviation for a kernel of size k the
// same way OpenCV does when sigma is left at zero.
func GaussianSigma(k int) float64 {
	return 0.3*(float64(k-1)*0.5-1) + 0.8
}

// Blur applies a k x k Gaussian smoothing kernel, where k is kernelSize after
// CoerceKernelSize. Borders are handled by extending the edge pixels.
// Blur(b, 4) and Blur(b, 5) are therefore the same operation.
//
// The kernel is separable, so the image is convolved with a horizontal 1D
// kernel and then its transpose.
func Blur(b *imaging.ImageBuffer, kernelSize int) (*imaging.ImageBuffer, error) {
	if err := imaging.Validate("blur", b); err != nil {
		return nil, err
	}

	k := CoerceKernelSize(kernelSize)
	if k == 1 {
		return b.Clone(), nil
	}

	kernel := gaussianKernel(k)
	opts := &convolution.Options{
		Bias:      0,
		Wrap:      false,
		KeepAlpha: true,
	}
	blurred := convolution.Convolve(b.ToImage(), kernel, opts)
	blurred = convolution.Convolve(blurred, kernel.Transposed(), opts)
	return imaging.FromImage(blurred, b.Channels)
}

// gaussianKernel builds a normalized k x 1 Gaussian kernel.
func gaussianKernel(k int) *convolution.Kernel {
	sigma := GaussianSigma(k)
	radius := k / 2

	kernel := convolution.NewKernel(k, 1)
	var sum float64
	for i := range kernel.Matrix {
		d := float64(i - radius)
		kernel.Matrix[i] = math.Exp(-(d * d) / (2 * sigma * sigma))
		sum += kernel.Matrix[i]
	}
	for i := range kernel.Matrix {
		kernel.Matrix[i] /= sum
	}
	return kernel
}
