package imaging

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

// createSolidBuffer creates a 3-channel buffer filled with one color
func createSolidBuffer(width, height int, r, g, b uint8) *ImageBuffer {
	buf := NewImageBuffer(width, height, 3)
	for i := 0; i < len(buf.Pix); i += 3 {
		buf.Pix[i] = r
		buf.Pix[i+1] = g
		buf.Pix[i+2] = b
	}
	return buf
}

// createPatternBuffer creates a buffer with different colors in each quadrant
func createPatternBuffer(width, height int) *ImageBuffer {
	buf := NewImageBuffer(width, height, 3)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := (y*width + x) * 3
			switch {
			case x < width/2 && y < height/2:
				buf.Pix[i] = 255 // Red top-left
			case x >= width/2 && y < height/2:
				buf.Pix[i+1] = 255 // Green top-right
			case x < width/2 && y >= height/2:
				buf.Pix[i+2] = 255 // Blue bottom-left
			default:
				buf.Pix[i], buf.Pix[i+1], buf.Pix[i+2] = 255, 255, 255 // White bottom-right
			}
		}
	}
	return buf
}

func TestNewImageBuffer(t *testing.T) {
	buf := NewImageBuffer(4, 3, 3)
	if len(buf.Pix) != 36 {
		t.Errorf("Pix length: got %d, want 36", len(buf.Pix))
	}
	if err := Validate("test", buf); err != nil {
		t.Errorf("Validate: unexpected error %v", err)
	}
}

func TestNewSolidBuffer(t *testing.T) {
	buf := NewSolidBuffer(5, 2, 10, 20, 30)
	if err := Validate("test", buf); err != nil {
		t.Fatalf("Validate: unexpected error %v", err)
	}
	if buf.Channels != 3 {
		t.Errorf("Channels: got %d, want 3", buf.Channels)
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < 5; x++ {
			if r, g, b := buf.At(x, y); r != 10 || g != 20 || b != 30 {
				t.Fatalf("At(%d,%d): got (%d,%d,%d)", x, y, r, g, b)
			}
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		buf  *ImageBuffer
	}{
		{"nil buffer", nil},
		{"zero width", &ImageBuffer{Width: 0, Height: 2, Channels: 3}},
		{"negative height", &ImageBuffer{Width: 2, Height: -1, Channels: 3}},
		{"four channels", &ImageBuffer{Width: 1, Height: 1, Channels: 4, Pix: make([]uint8, 4)}},
		{"short pixel data", &ImageBuffer{Width: 2, Height: 2, Channels: 3, Pix: make([]uint8, 11)}},
		{"long pixel data", &ImageBuffer{Width: 2, Height: 2, Channels: 1, Pix: make([]uint8, 5)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate("blur", tt.buf)
			if err == nil {
				t.Fatal("expected error, got nil")
			}

			var invalid *InvalidImageError
			if !errors.As(err, &invalid) {
				t.Fatalf("error type: got %T, want *InvalidImageError", err)
			}
			if invalid.Op != "blur" {
				t.Errorf("Op: got %q, want blur", invalid.Op)
			}
			if !errors.Is(err, ErrInvalidImage) {
				t.Error("errors.Is(err, ErrInvalidImage) = false")
			}
		})
	}
}

func TestClone_IsDeepCopy(t *testing.T) {
	orig := createSolidBuffer(5, 5, 10, 20, 30)
	clone := orig.Clone()

	if !clone.Equal(orig) {
		t.Fatal("clone is not equal to original")
	}

	clone.Pix[0] = 200
	if orig.Pix[0] != 10 {
		t.Error("modifying clone changed the original")
	}
	if clone.Equal(orig) {
		t.Error("Equal should report the modified clone as different")
	}
}

func TestClone_Nil(t *testing.T) {
	var b *ImageBuffer
	if b.Clone() != nil {
		t.Error("Clone of nil should be nil")
	}
}

func TestEqual(t *testing.T) {
	a := createSolidBuffer(3, 3, 1, 2, 3)

	tests := []struct {
		name  string
		other *ImageBuffer
		want  bool
	}{
		{"same content", createSolidBuffer(3, 3, 1, 2, 3), true},
		{"different pixel", createSolidBuffer(3, 3, 1, 2, 4), false},
		{"different width", createSolidBuffer(4, 3, 1, 2, 3), false},
		{"different channels", &ImageBuffer{Width: 3, Height: 3, Channels: 1, Pix: make([]uint8, 9)}, false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Equal(tt.other); got != tt.want {
				t.Errorf("Equal: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestToImage_FromImage_RGB(t *testing.T) {
	orig := createPatternBuffer(8, 6)

	img := orig.ToImage()
	if _, ok := img.(*image.NRGBA); !ok {
		t.Fatalf("ToImage type: got %T, want *image.NRGBA", img)
	}

	back, err := FromImage(img, 3)
	if err != nil {
		t.Fatalf("FromImage failed: %v", err)
	}
	if !back.Equal(orig) {
		t.Error("buffer changed across ToImage/FromImage")
	}
}

func TestToImage_FromImage_Gray(t *testing.T) {
	orig := NewImageBuffer(4, 4, 1)
	for i := range orig.Pix {
		orig.Pix[i] = uint8(i * 15)
	}

	img := orig.ToImage()
	if _, ok := img.(*image.Gray); !ok {
		t.Fatalf("ToImage type: got %T, want *image.Gray", img)
	}

	back, err := FromImage(img, 1)
	if err != nil {
		t.Fatalf("FromImage failed: %v", err)
	}
	if !back.Equal(orig) {
		t.Error("gray buffer changed across ToImage/FromImage")
	}
}

func TestFromImage_GrayToRGB(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 2, 2))
	img.SetGray(1, 1, color.Gray{Y: 77})

	buf, err := FromImage(img, 3)
	if err != nil {
		t.Fatalf("FromImage failed: %v", err)
	}

	r, g, b := buf.At(1, 1)
	if r != 77 || g != 77 || b != 77 {
		t.Errorf("At(1,1): got (%d,%d,%d), want (77,77,77)", r, g, b)
	}
}

func TestFromImage_OffsetBounds(t *testing.T) {
	full := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	full.SetNRGBA(5, 5, color.NRGBA{R: 9, G: 8, B: 7, A: 255})
	sub := full.SubImage(image.Rect(5, 5, 8, 8))

	buf, err := FromImage(sub, 3)
	if err != nil {
		t.Fatalf("FromImage failed: %v", err)
	}
	if buf.Width != 3 || buf.Height != 3 {
		t.Fatalf("dimensions: got %dx%d, want 3x3", buf.Width, buf.Height)
	}

	r, g, b := buf.At(0, 0)
	if r != 9 || g != 8 || b != 7 {
		t.Errorf("At(0,0): got (%d,%d,%d), want (9,8,7)", r, g, b)
	}
}

func TestFromImage_DropsAlpha(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 200, G: 100, B: 50, A: 10})

	buf, err := FromImage(img, 3)
	if err != nil {
		t.Fatalf("FromImage failed: %v", err)
	}

	r, g, b := buf.At(0, 0)
	if r != 200 || g != 100 || b != 50 {
		t.Errorf("At(0,0): got (%d,%d,%d), want (200,100,50)", r, g, b)
	}
}

func TestFromImage_Invalid(t *testing.T) {
	if _, err := FromImage(nil, 3); !errors.Is(err, ErrInvalidImage) {
		t.Errorf("nil image: got %v, want ErrInvalidImage", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	if _, err := FromImage(img, 2); !errors.Is(err, ErrInvalidImage) {
		t.Errorf("2 channels: got %v, want ErrInvalidImage", err)
	}

	empty := image.NewRGBA(image.Rect(0, 0, 0, 0))
	if _, err := FromImage(empty, 3); !errors.Is(err, ErrInvalidImage) {
		t.Errorf("empty image: got %v, want ErrInvalidImage", err)
	}
}

func TestSizeBytes(t *testing.T) {
	buf := NewImageBuffer(10, 10, 3)
	if buf.SizeBytes() != 300 {
		t.Errorf("SizeBytes: got %d, want 300", buf.SizeBytes())
	}

	var nilBuf *ImageBuffer
	if nilBuf.SizeBytes() != 0 {
		t.Errorf("nil SizeBytes: got %d, want 0", nilBuf.SizeBytes())
	}
}
