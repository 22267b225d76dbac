package imaging

import (
	"fmt"
	"sort"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// RGBColor represents an RGB color with 8-bit components.
//
// Each component ranges from 0 to 255, where:
//   - 0 represents no intensity (black for all components)
//   - 255 represents full intensity (white for all components)
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorResult contains a color value in multiple representations.
//
// Buffers carry no alpha, so unlike a decoded file there is no RGBA form.
type ColorResult struct {
	Hex string   `json:"hex"` // Hex format "#RRGGBB"
	RGB RGBColor `json:"rgb"` // RGB components
	HSL HSLColor `json:"hsl"` // HSL representation
}

// SampleColor extracts the color value at a specific pixel coordinate.
//
// Parameters:
//   - b: The buffer to sample from. 1-channel buffers report gray colors.
//   - x: X coordinate (0-based, 0 = leftmost pixel).
//   - y: Y coordinate (0-based, 0 = topmost pixel).
//
// Returns:
//   - *ColorResult: The color at (x, y) in multiple formats.
//   - error: Non-nil if the buffer is invalid or coordinates are outside it.
func SampleColor(b *ImageBuffer, x, y int) (*ColorResult, error) {
	if err := Validate("sample color", b); err != nil {
		return nil, err
	}
	if x < 0 || x >= b.Width || y < 0 || y >= b.Height {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds %dx%d", x, y, b.Width, b.Height)
	}

	r, g, bl := b.At(x, y)
	return newColorResult(r, g, bl), nil
}

// Region represents a rectangular region within an image.
//
// (X1, Y1) is the top-left corner (inclusive) and (X2, Y2) the bottom-right
// corner (exclusive).
type Region struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Empty reports whether the region contains no pixels.
func (r Region) Empty() bool {
	return r.X1 >= r.X2 || r.Y1 >= r.Y2
}

// Within reports whether the region lies entirely inside a width x height image.
func (r Region) Within(width, height int) bool {
	return r.X1 >= 0 && r.Y1 >= 0 && r.X2 <= width && r.Y2 <= height
}

// ColorFrequency represents a color and its occurrence frequency in an image.
type ColorFrequency struct {
	Hex        string   `json:"hex"`        // Hex color "#RRGGBB" (quantized)
	Percentage float64  `json:"percentage"` // Percentage of pixels with this color (0-100)
	RGB        RGBColor `json:"rgb"`        // RGB components (quantized)
}

// DominantColorsResult contains the most frequently occurring colors in an image.
//
// Colors are sorted by frequency in descending order (most common first).
type DominantColorsResult struct {
	Colors []ColorFrequency `json:"colors"`
}

// DominantColors extracts the N most common colors from a buffer or region.
//
// # Color Quantization
//
// To group similar colors, each component is quantized to a multiple of 16:
//
//	quantized = (original / 16) * 16
//
// For example, #F0F0F0 and #FAFAFA are both counted as #F0F0F0. Ties in
// frequency are broken by hex value so the result is deterministic.
func DominantColors(b *ImageBuffer, count int, region *Region) (*DominantColorsResult, error) {
	if err := Validate("dominant colors", b); err != nil {
		return nil, err
	}

	area := Region{X1: 0, Y1: 0, X2: b.Width, Y2: b.Height}
	if region != nil {
		if region.Empty() || !region.Within(b.Width, b.Height) {
			return nil, fmt.Errorf("region (%d,%d)-(%d,%d) outside image bounds %dx%d",
				region.X1, region.Y1, region.X2, region.Y2, b.Width, b.Height)
		}
		area = *region
	}

	counts := make(map[RGBColor]int)
	total := 0
	for y := area.Y1; y < area.Y2; y++ {
		for x := area.X1; x < area.X2; x++ {
			r, g, bl := b.At(x, y)
			counts[RGBColor{R: r / 16 * 16, G: g / 16 * 16, B: bl / 16 * 16}]++
			total++
		}
	}

	colors := make([]ColorFrequency, 0, len(counts))
	for c, n := range counts {
		colors = append(colors, ColorFrequency{
			Hex:        hexOf(c.R, c.G, c.B),
			Percentage: float64(n) / float64(total) * 100,
			RGB:        c,
		})
	}

	sort.Slice(colors, func(i, j int) bool {
		if colors[i].Percentage != colors[j].Percentage {
			return colors[i].Percentage > colors[j].Percentage
		}
		return colors[i].Hex < colors[j].Hex
	})

	if count > 0 && len(colors) > count {
		colors = colors[:count]
	}

	return &DominantColorsResult{Colors: colors}, nil
}

// ParseHex parses a "#RRGGBB" color. The leading '#' is optional.
func ParseHex(s string) (r, g, b uint8, err error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid color %q: %w", s, err)
	}
	r, g, b = c.RGB255()
	return r, g, b, nil
}

func newColorResult(r, g, b uint8) *ColorResult {
	c := toColorful(r, g, b)
	h, s, l := c.Hsl()
	return &ColorResult{
		Hex: strings.ToUpper(c.Hex()),
		RGB: RGBColor{R: r, G: g, B: b},
		HSL: HSLColor{
			H: int(h),
			S: int(s * 100),
			L: int(l * 100),
		},
	}
}

func hexOf(r, g, b uint8) string {
	return strings.ToUpper(toColorful(r, g, b).Hex())
}

func toColorful(r, g, b uint8) colorful.Color {
	return colorful.Color{
		R: float64(r) / 255.0,
		G: float64(g) / 255.0,
		B: float64(b) / 255.0,
	}
}
