package ocr

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"strings"
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/image-edit-mcp/internal/imaging"
	"github.com/ironsheep/image-edit-mcp/internal/transform"
)

// drawText draws text on an image using basicfont
func drawText(img draw.Image, x, y int, text string, col color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}

// createTextBuffer renders black text on white and scales it up so Tesseract
// can read it
func createTextBuffer(t *testing.T, text string, scale int) *imaging.ImageBuffer {
	t.Helper()

	width := len(text)*7 + 40
	height := 40

	small := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(small, small.Bounds(), image.White, image.Point{}, draw.Src)
	drawText(small, 20, 25, text, color.Black)

	buf, err := imaging.FromImage(small, 3)
	if err != nil {
		t.Fatalf("FromImage failed: %v", err)
	}

	scaled, err := transform.Resize(buf, float64(scale*100))
	if err != nil {
		t.Fatalf("Resize failed: %v", err)
	}
	return scaled
}

// skipIfUnavailable skips when the error comes from a missing Tesseract
// installation or language pack
func skipIfUnavailable(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		return
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "tesseract") || strings.Contains(msg, "library") {
		t.Skipf("Tesseract not available: %v", err)
	}
}

func TestExtract_RealText(t *testing.T) {
	buf := createTextBuffer(t, "HELLO WORLD", 4)

	result, err := Extract(buf, Options{})
	skipIfUnavailable(t, err)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if result.Language != DefaultLanguage {
		t.Errorf("Language: got %q, want %q", result.Language, DefaultLanguage)
	}

	t.Logf("Extracted text: %q (%d regions)", result.FullText, len(result.Regions))
	if !strings.Contains(strings.ToUpper(result.FullText), "HELLO") {
		t.Logf("Warning: expected HELLO in %q", result.FullText)
	}
}

func TestExtract_RegionOffsetsBounds(t *testing.T) {
	buf := createTextBuffer(t, "TEST", 4)
	region := &imaging.Region{X1: 40, Y1: 20, X2: buf.Width, Y2: buf.Height}

	result, err := Extract(buf, Options{Region: region})
	skipIfUnavailable(t, err)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	for _, r := range result.Regions {
		if r.Bounds.X1 < region.X1 || r.Bounds.Y1 < region.Y1 {
			t.Errorf("word %q bounds %+v not offset into region %+v", r.Text, r.Bounds, *region)
		}
	}
}

func TestExtract_BlankImage(t *testing.T) {
	buf := imaging.NewImageBuffer(100, 50, 3)
	for i := range buf.Pix {
		buf.Pix[i] = 255
	}

	result, err := Extract(buf, Options{Language: "eng"})
	skipIfUnavailable(t, err)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if strings.TrimSpace(result.FullText) != "" {
		t.Logf("Unexpected text on blank image: %q", result.FullText)
	}
}

func TestExtract_InvalidBuffer(t *testing.T) {
	_, err := Extract(nil, Options{})
	if !errors.Is(err, imaging.ErrInvalidImage) {
		t.Errorf("error: got %v, want ErrInvalidImage", err)
	}
}

func TestExtract_RegionOutsideImage(t *testing.T) {
	buf := imaging.NewImageBuffer(50, 50, 3)

	tests := []struct {
		name   string
		region imaging.Region
	}{
		{"entirely right", imaging.Region{X1: 60, Y1: 0, X2: 80, Y2: 10}},
		{"inverted", imaging.Region{X1: 30, Y1: 30, X2: 10, Y2: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract(buf, Options{Region: &tt.region})
			if !errors.Is(err, transform.ErrInvalidRegion) {
				t.Errorf("error: got %v, want ErrInvalidRegion", err)
			}
		})
	}
}

func TestClipRegion(t *testing.T) {
	tests := []struct {
		name string
		in   imaging.Region
		want imaging.Region
	}{
		{"inside", imaging.Region{X1: 1, Y1: 2, X2: 3, Y2: 4}, imaging.Region{X1: 1, Y1: 2, X2: 3, Y2: 4}},
		{"negative origin", imaging.Region{X1: -5, Y1: -1, X2: 10, Y2: 10}, imaging.Region{X1: 0, Y1: 0, X2: 10, Y2: 10}},
		{"past edge", imaging.Region{X1: 10, Y1: 10, X2: 500, Y2: 90}, imaging.Region{X1: 10, Y1: 10, X2: 100, Y2: 50}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := clipRegion(tt.in, 100, 50); got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestGetInfo(t *testing.T) {
	info := GetInfo()

	if info.Backend != "gosseract" {
		t.Errorf("Backend: got %q, want gosseract", info.Backend)
	}
	if info.Available && info.Version == "" {
		t.Error("available backend should report a version")
	}
	t.Logf("OCR info: %+v", info)
}
