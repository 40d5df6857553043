package ocr

import (
	"image"
	"image/color"
	"image/draw"
	"strings"
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// createNameImage draws text large and black on a white canvas and returns
// the image with the box the text occupies.
func createNameImage(t *testing.T, text string) (*image.RGBA, image.Rectangle) {
	t.Helper()

	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		t.Fatalf("failed to parse font: %v", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: 64, DPI: 72})
	if err != nil {
		t.Fatalf("failed to create face: %v", err)
	}
	defer face.Close()

	img := image.NewRGBA(image.Rect(0, 0, 900, 300))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	origin := image.Pt(60, 100)
	m := face.Metrics()
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(origin.X), Y: fixed.I(origin.Y) + m.Ascent},
	}
	d.DrawString(text)

	w := font.MeasureString(face, text).Ceil()
	h := (m.Ascent + m.Descent).Ceil()
	return img, image.Rect(origin.X, origin.Y, origin.X+w, origin.Y+h)
}

func skipWithoutTesseract(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		return
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "tesseract") || strings.Contains(msg, "language") ||
		strings.Contains(msg, "library") {
		t.Skipf("Tesseract not available: %v", err)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Bob Smith", "bob smith"},
		{"  BOB   smith\t", "bob smith"},
		{"", ""},
		// Presentation forms of محمد fold back to the base letters.
		{"\ufee3\ufea4\ufee4\ufeaa", "\u0645\u062d\u0645\u062f"},
		{"\ufefb", "\u0644\u0627"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestOCRResult_Confidence(t *testing.T) {
	empty := &OCRResult{}
	if got := empty.Confidence(); got != 0 {
		t.Errorf("empty Confidence() = %v, want 0", got)
	}

	r := &OCRResult{Regions: []TextRegion{
		{Text: "Bob", Confidence: 0.9},
		{Text: "Smith", Confidence: 0.7},
	}}
	if got := r.Confidence(); got < 0.7999 || got > 0.8001 {
		t.Errorf("Confidence() = %v, want 0.8", got)
	}
}

func TestRecognizeRegion_OutsideImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 50, 50))
	_, err := RecognizeRegion(img, image.Rect(500, 500, 600, 550), DefaultLanguage)
	if err == nil {
		t.Fatal("RecognizeRegion should fail for a region outside the image")
	}
}

func TestVerify_RenderedName(t *testing.T) {
	img, box := createNameImage(t, "HELLO WORLD")

	v, err := Verify(img, box, "Hello World", DefaultLanguage)
	skipWithoutTesseract(t, err)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	t.Logf("recognized %q (confidence %.2f)", v.Recognized, v.Confidence)
	if v.Expected != "Hello World" {
		t.Errorf("Expected = %q", v.Expected)
	}
	if !v.Match {
		t.Errorf("expected a match, recognized %q", v.Recognized)
	}
}

func TestVerify_WrongName(t *testing.T) {
	img, box := createNameImage(t, "HELLO WORLD")

	v, err := Verify(img, box, "Zebra Quartz", DefaultLanguage)
	skipWithoutTesseract(t, err)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if v.Match {
		t.Errorf("unexpected match, recognized %q", v.Recognized)
	}
}

func TestVerify_BlankRegion(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 200, 100))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	v, err := Verify(img, image.Rect(20, 20, 180, 80), "Anyone", DefaultLanguage)
	skipWithoutTesseract(t, err)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if v.Match {
		t.Errorf("blank region should not match, recognized %q", v.Recognized)
	}
}

func TestRecognize_BoundsInImageCoordinates(t *testing.T) {
	img, box := createNameImage(t, "HELLO")

	result, err := RecognizeRegion(img, box, DefaultLanguage)
	skipWithoutTesseract(t, err)
	if err != nil {
		t.Fatalf("RecognizeRegion failed: %v", err)
	}

	padded := box.Inset(-regionPadding)
	for _, r := range result.Regions {
		rect := image.Rect(r.Bounds.X1, r.Bounds.Y1, r.Bounds.X2, r.Bounds.Y2)
		if !rect.In(padded) {
			t.Errorf("word %q at %v lies outside searched region %v", r.Text, rect, padded)
		}
	}
}
