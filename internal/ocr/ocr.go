package ocr

import (
	"fmt"

	"github.com/otiai10/gosseract/v2"

	"github.com/ironsheep/image-edit-mcp/internal/imaging"
	"github.com/ironsheep/image-edit-mcp/internal/transform"
)

// DefaultLanguage is used when Options.Language is empty.
const DefaultLanguage = "eng"

// Bounds represents a rectangular bounding box in pixel coordinates.
type Bounds struct {
	X1 int `json:"x1"` // Left edge
	Y1 int `json:"y1"` // Top edge
	X2 int `json:"x2"` // Right edge
	Y2 int `json:"y2"` // Bottom edge
}

// TextRegion is one recognized word with its location.
type TextRegion struct {
	Text string `json:"text"`

	// Confidence is the OCR confidence score (0.0 to 1.0).
	Confidence float64 `json:"confidence"`

	Bounds Bounds `json:"bounds"`
}

// Result contains the text found in an image.
type Result struct {
	FullText string       `json:"full_text"`
	Regions  []TextRegion `json:"regions"`
	Language string       `json:"language"`
}

// Options controls a single Extract call.
type Options struct {
	// Language is a Tesseract language code; empty means DefaultLanguage.
	Language string

	// Region limits recognition to part of the image. Nil means the whole image.
	Region *imaging.Region
}

// Extract runs OCR on b.
func Extract(b *imaging.ImageBuffer, opts Options) (*Result, error) {
	if err := imaging.Validate("ocr", b); err != nil {
		return nil, err
	}

	language := opts.Language
	if language == "" {
		language = DefaultLanguage
	}

	src := b
	var offsetX, offsetY int
	if opts.Region != nil {
		region := clipRegion(*opts.Region, b.Width, b.Height)
		cropped, err := transform.Crop(b, region)
		if err != nil {
			return nil, err
		}
		src = cropped
		offsetX, offsetY = region.X1, region.Y1
	}

	data, err := imaging.Encode(src, "png", imaging.SaveOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to encode image for tesseract: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(language); err != nil {
		return nil, fmt.Errorf("tesseract: failed to set language %q: %w", language, err)
	}
	if err := client.SetImageFromBytes(data); err != nil {
		return nil, fmt.Errorf("tesseract: failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("tesseract: OCR failed: %w", err)
	}

	// Word boxes are best effort
	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	regions := make([]TextRegion, 0, len(boxes))
	if err == nil {
		for _, box := range boxes {
			regions = append(regions, TextRegion{
				Text:       box.Word,
				Confidence: float64(box.Confidence) / 100.0,
				Bounds: Bounds{
					X1: box.Box.Min.X + offsetX,
					Y1: box.Box.Min.Y + offsetY,
					X2: box.Box.Max.X + offsetX,
					Y2: box.Box.Max.Y + offsetY,
				},
			})
		}
	}

	return &Result{
		FullText: text,
		Regions:  regions,
		Language: language,
	}, nil
}

// clipRegion limits r to a width x height image.
func clipRegion(r imaging.Region, width, height int) imaging.Region {
	if r.X1 < 0 {
		r.X1 = 0
	}
	if r.Y1 < 0 {
		r.Y1 = 0
	}
	if r.X2 > width {
		r.X2 = width
	}
	if r.Y2 > height {
		r.Y2 = height
	}
	return r
}

// Info describes the OCR backend.
type Info struct {
	Available bool   `json:"available"`
	Version   string `json:"version,omitempty"`
	Backend   string `json:"backend"`
}

// GetInfo reports the linked Tesseract version.
func GetInfo() Info {
	client := gosseract.NewClient()
	defer client.Close()

	version := client.Version()
	return Info{
		Available: version != "",
		Version:   version,
		Backend:   "gosseract",
	}
}
