package imaging

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/anthonynsimon/bild/clone"
	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// RGBA returns c as an opaque color.RGBA.
func (c RGBColor) RGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// Hex formats c as "#RRGGBB".
func (c RGBColor) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// ParseHexColor parses a text color given as "RRGGBB", "#RRGGBB", "RGB" or
// "#RGB". Surrounding whitespace is ignored.
func ParseHexColor(hex string) (RGBColor, error) {
	s := strings.TrimSpace(hex)
	if s == "" {
		return RGBColor{}, fmt.Errorf("empty color string")
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	if n := len(s) - 1; n != 3 && n != 6 {
		return RGBColor{}, fmt.Errorf("invalid hex color %q: want 3 or 6 digits", hex)
	}

	c, err := colorful.Hex(strings.ToLower(s))
	if err != nil {
		return RGBColor{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}

	r, g, b := c.RGB255()
	return RGBColor{R: r, G: g, B: b}, nil
}

// Flatten returns a mutable, fully opaque copy of img with its top-left
// corner at the origin. Transparent areas are composited over white, so
// drawing on the copy never touches the cached template.
func Flatten(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	bg := imaging.New(bounds.Dx(), bounds.Dy(), color.White)
	composed := imaging.Overlay(bg, img, image.Pt(0, 0), 1.0)
	return clone.AsRGBA(composed)
}
