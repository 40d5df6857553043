package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/otiai10/gosseract/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/ironsheep/certgen/internal/imaging"
)

// DefaultLanguage is the Tesseract language used when none is given.
const DefaultLanguage = "eng"

// regionPadding is the margin added around a text box before recognition.
// Tesseract needs some blank border to find glyph edges.
const regionPadding = 12

// Bounds represents a rectangular bounding box in pixel coordinates.
type Bounds struct {
	X1 int `json:"x1"` // Left edge
	Y1 int `json:"y1"` // Top edge
	X2 int `json:"x2"` // Right edge
	Y2 int `json:"y2"` // Bottom edge
}

// TextRegion represents a recognized word with its location and confidence.
type TextRegion struct {
	Text string `json:"text"`

	// Confidence is the OCR confidence score (0.0 to 1.0).
	Confidence float64 `json:"confidence"`

	Bounds Bounds `json:"bounds"`
}

// OCRResult contains the text recognized in an image.
type OCRResult struct {
	// FullText is all recognized text with Tesseract's spacing and newlines.
	FullText string `json:"full_text"`

	// Regions contains individual words. It may be empty when bounding box
	// extraction fails; FullText is still set.
	Regions []TextRegion `json:"regions"`
}

// Confidence returns the mean word confidence, or 0 with no words.
func (r *OCRResult) Confidence() float64 {
	if len(r.Regions) == 0 {
		return 0
	}
	var sum float64
	for _, w := range r.Regions {
		sum += w.Confidence
	}
	return sum / float64(len(r.Regions))
}

// Verification is the outcome of checking a rendered name.
type Verification struct {
	Expected   string  `json:"expected"`
	Recognized string  `json:"recognized"`
	Confidence float64 `json:"confidence"`
	Match      bool    `json:"match"`
}

// Recognize performs OCR on an in-memory image.
//
// language is a Tesseract language code such as "eng" or "ara"; its training
// data must be installed. Word bounds are in the coordinates of img.
func Recognize(img image.Image, language string) (*OCRResult, error) {
	if language == "" {
		language = DefaultLanguage
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image for ocr: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(language); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("tesseract recognition failed: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return &OCRResult{FullText: text, Regions: []TextRegion{}}, nil
	}

	origin := img.Bounds().Min
	regions := make([]TextRegion, 0, len(boxes))
	for _, box := range boxes {
		if strings.TrimSpace(box.Word) == "" {
			continue
		}
		regions = append(regions, TextRegion{
			Text:       box.Word,
			Confidence: float64(box.Confidence) / 100.0,
			Bounds: Bounds{
				X1: box.Box.Min.X + origin.X,
				Y1: box.Box.Min.Y + origin.Y,
				X2: box.Box.Max.X + origin.X,
				Y2: box.Box.Max.Y + origin.Y,
			},
		})
	}

	return &OCRResult{FullText: text, Regions: regions}, nil
}

// RecognizeRegion performs OCR on region of img, grown by a small padding.
// Word bounds are adjusted back to the coordinates of img.
func RecognizeRegion(img image.Image, region image.Rectangle, language string) (*OCRResult, error) {
	cropped, offset, err := imaging.CropPadded(img, region, regionPadding)
	if err != nil {
		return nil, err
	}

	result, err := Recognize(cropped, language)
	if err != nil {
		return nil, err
	}

	for i := range result.Regions {
		result.Regions[i].Bounds.X1 += offset.X
		result.Regions[i].Bounds.Y1 += offset.Y
		result.Regions[i].Bounds.X2 += offset.X
		result.Regions[i].Bounds.Y2 += offset.Y
	}
	return result, nil
}

// Verify reads back the text drawn in region and reports whether expected
// occurs in it. Both sides are compared after Normalize, so case, spacing
// and Arabic presentation forms do not matter.
//
// expected should be the name in logical order, as it appears in the
// roster, not the shaped string that was drawn.
func Verify(img image.Image, region image.Rectangle, expected, language string) (*Verification, error) {
	result, err := RecognizeRegion(img, region, language)
	if err != nil {
		return nil, err
	}

	recognized := strings.TrimSpace(result.FullText)
	want := Normalize(expected)
	return &Verification{
		Expected:   expected,
		Recognized: recognized,
		Confidence: result.Confidence(),
		Match:      want != "" && strings.Contains(Normalize(recognized), want),
	}, nil
}

// Normalize prepares text for comparison. NFKC maps presentation forms back
// to base letters, then the text is case folded and runs of whitespace
// become single spaces.
func Normalize(s string) string {
	s = norm.NFKC.String(s)
	s = cases.Fold().String(s)
	return strings.Join(strings.Fields(s), " ")
}

// Version returns the linked Tesseract library version.
func Version() string {
	return gosseract.Version()
}
