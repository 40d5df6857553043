package render

import (
	"fmt"
	"image"
	"image/draw"
	"strings"

	"github.com/skip2/go-qrcode"
)

// QROptions adds a QR code to the bottom-right corner of the certificate.
// It is disabled when Content is empty or Size is not positive.
type QROptions struct {
	// Content is the encoded text. "{name}" and "{email}" are replaced with
	// the roster values.
	Content string `json:"content,omitempty" yaml:"content"`

	// Size is the QR image edge length in pixels, including its quiet zone.
	Size int `json:"size,omitempty" yaml:"size"`

	// Margin is the distance in pixels from the right and bottom edges.
	Margin int `json:"margin,omitempty" yaml:"margin"`
}

// Enabled reports whether a QR code should be drawn.
func (o QROptions) Enabled() bool {
	return o.Content != "" && o.Size > 0
}

// Text expands the content template for one person.
func (o QROptions) Text(name, email string) string {
	return strings.NewReplacer("{name}", name, "{email}", email).Replace(o.Content)
}

// drawQR renders content as a QR code onto canvas and returns where it was
// placed.
func drawQR(canvas draw.Image, content string, opts QROptions) (image.Rectangle, error) {
	q, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return image.Rectangle{}, fmt.Errorf("failed to encode qr code: %w", err)
	}
	code := q.Image(opts.Size)

	bounds := canvas.Bounds()
	size := code.Bounds().Size()
	origin := image.Pt(bounds.Max.X-opts.Margin-size.X, bounds.Max.Y-opts.Margin-size.Y)
	rect := image.Rectangle{Min: origin, Max: origin.Add(size)}
	if !rect.In(bounds) {
		return image.Rectangle{}, fmt.Errorf("qr code of %dpx with %dpx margin does not fit a %dx%d template",
			size.X, opts.Margin, bounds.Dx(), bounds.Dy())
	}

	draw.Draw(canvas, rect, code, code.Bounds().Min, draw.Src)
	return rect, nil
}
