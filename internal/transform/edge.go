package transform

import (
	"math"

	"github.com/ironsheep/image-edit-mcp/internal/imaging"
)

// EdgeDetect performs Canny edge detection and returns a 3-channel buffer in
// which edge pixels are white (255) and everything else is black.
//
// # Algorithm
//
//  1. Grayscale conversion (BT.601) unless the buffer already has one channel
//
//  2. Gradient computation: 3x3 Sobel operators on 0-255 intensities,
//     magnitude = |Gx| + |Gy|, direction = atan2(Gy, Gx).
//     Border pixels use clamped (replicated) neighbours.
//
//  3. Non-maximum suppression: keep only local maxima along the gradient
//     direction, thinning edges to one pixel. The border ring is included.
//
//  4. Hysteresis: pixels above the high threshold are edges; pixels above the
//     low threshold are edges only when 8-connected to one of those
//
// The threshold arguments may be given in either order; the smaller one is
// used as the low threshold.
//
// # Threshold Selection
//
// Lower thresholds detect more edges but increase noise. The editor defaults
// are threshold1=100, threshold2=200.
func EdgeDetect(b *imaging.ImageBuffer, threshold1, threshold2 int) (*imaging.ImageBuffer, error) {
	gray, err := luminance("edge_detect", b)
	if err != nil {
		return nil, err
	}

	low, high := float64(threshold1), float64(threshold2)
	if low > high {
		low, high = high, low
	}

	width, height := gray.Width, gray.Height
	at := func(x, y int) float64 {
		return float64(gray.Pix[clamp(y, 0, height-1)*width+clamp(x, 0, width-1)])
	}

	// Compute gradients using Sobel operator
	magnitude := make([]float64, width*height)
	direction := make([]float64, width*height)

	sobelX := [3][3]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelY := [3][3]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var gx, gy float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					v := at(x+kx, y+ky)
					gx += v * sobelX[ky+1][kx+1]
					gy += v * sobelY[ky+1][kx+1]
				}
			}
			magnitude[y*width+x] = math.Abs(gx) + math.Abs(gy)
			direction[y*width+x] = math.Atan2(gy, gx)
		}
	}

	// Non-maximum suppression. Neighbours outside the image repeat the border
	// pixel, so edges on the first and last rows and columns survive.
	magAt := func(x, y int) float64 {
		return magnitude[clamp(y, 0, height-1)*width+clamp(x, 0, width-1)]
	}
	suppressed := make([]float64, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*width + x
			mag := magnitude[i]
			if mag <= low {
				continue
			}

			angle := direction[i]

			// Offset of the neighbours along the gradient direction
			var dx, dy int
			switch {
			case (angle >= -math.Pi/8 && angle < math.Pi/8) || angle >= 7*math.Pi/8 || angle < -7*math.Pi/8:
				dx, dy = 1, 0
			case (angle >= math.Pi/8 && angle < 3*math.Pi/8) || (angle >= -7*math.Pi/8 && angle < -5*math.Pi/8):
				dx, dy = 1, 1
			case (angle >= 3*math.Pi/8 && angle < 5*math.Pi/8) || (angle >= -5*math.Pi/8 && angle < -3*math.Pi/8):
				dx, dy = 0, 1
			default:
				dx, dy = -1, 1
			}

			if mag >= magAt(x-dx, y-dy) && mag >= magAt(x+dx, y+dy) {
				suppressed[i] = mag
			}
		}
	}

	// Edge tracking by hysteresis: grow from strong pixels through weak ones
	edges := imaging.NewImageBuffer(width, height, 1)
	stack := make([]int, 0, 64)
	for i, v := range suppressed {
		if v > high && edges.Pix[i] == 0 {
			edges.Pix[i] = 255
			stack = append(stack, i)
		}
		for len(stack) > 0 {
			p := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			px, py := p%width, p/width
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx, ny := px+dx, py+dy
					if nx < 0 || ny < 0 || nx >= width || ny >= height {
						continue
					}
					n := ny*width + nx
					if edges.Pix[n] == 0 && suppressed[n] > low {
						edges.Pix[n] = 255
						stack = append(stack, n)
					}
				}
			}
		}
	}

	return ExpandChannels(edges)
}

// clamp constrains an integer value to the range [min, max].
// Used for boundary handling in convolution operations.
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
