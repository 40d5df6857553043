package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
)

// GridOverlayResult contains a template preview with a coordinate grid, used
// to pick explicit text positions.
type GridOverlayResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64,omitempty"`
	MimeType    string `json:"mime_type"`
	GridSpacing int    `json:"grid_spacing"`

	// Image is the rendered preview for callers that write it to disk.
	Image *image.RGBA `json:"-"`
}

var (
	defaultGridColor = color.RGBA{255, 0, 0, 255}
	centerLineColor  = color.RGBA{0, 160, 255, 255}
)

// GridOverlay draws a coordinate grid over a flattened copy of img. Lines are
// drawn every gridSpacing pixels in gridColorHex (red if empty or invalid);
// the horizontal and vertical centre lines, where a centred name is placed,
// are drawn in blue.
func GridOverlay(img image.Image, gridSpacing int, showCoordinates bool, gridColorHex string) (*GridOverlayResult, error) {
	if gridSpacing <= 0 {
		return nil, fmt.Errorf("grid spacing must be positive, got %d", gridSpacing)
	}

	result := Flatten(img)
	bounds := result.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	gridColor := defaultGridColor
	if c, err := ParseHexColor(gridColorHex); err == nil {
		gridColor = c.RGBA()
	}

	// Draw vertical lines
	for x := gridSpacing; x < width; x += gridSpacing {
		for y := 0; y < height; y++ {
			result.Set(x, y, gridColor)
		}
	}

	// Draw horizontal lines
	for y := gridSpacing; y < height; y += gridSpacing {
		for x := 0; x < width; x++ {
			result.Set(x, y, gridColor)
		}
	}

	for y := 0; y < height; y++ {
		result.Set(width/2, y, centerLineColor)
	}
	for x := 0; x < width; x++ {
		result.Set(x, height/2, centerLineColor)
	}

	if showCoordinates {
		labelColor := color.RGBA{255, 255, 255, 255}
		bgColor := color.RGBA{0, 0, 0, 180}

		for y := gridSpacing; y < height; y += gridSpacing {
			for x := gridSpacing; x < width; x += gridSpacing {
				label := fmt.Sprintf("%d,%d", x, y)
				drawLabel(result, x+2, y+2, label, labelColor, bgColor)
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, result); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &GridOverlayResult{
		Width:       width,
		Height:      height,
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
		GridSpacing: gridSpacing,
		Image:       result,
	}, nil
}

// drawLabel draws a coordinate label with a 3x5 pixel digit font.
func drawLabel(img *image.RGBA, x, y int, text string, fg, bg color.RGBA) {
	glyphs := map[rune][]string{
		'0': {"111", "101", "101", "101", "111"},
		'1': {"010", "110", "010", "010", "111"},
		'2': {"111", "001", "111", "100", "111"},
		'3': {"111", "001", "111", "001", "111"},
		'4': {"101", "101", "111", "001", "001"},
		'5': {"111", "100", "111", "001", "111"},
		'6': {"111", "100", "111", "101", "111"},
		'7': {"111", "001", "001", "001", "001"},
		'8': {"111", "101", "111", "101", "111"},
		'9': {"111", "101", "111", "001", "111"},
		',': {"000", "000", "000", "010", "010"},
	}

	bounds := img.Bounds()
	charWidth := 4
	labelWidth := len(text) * charWidth
	labelHeight := 7

	inside := func(px, py int) bool {
		return px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y
	}

	for dy := -1; dy < labelHeight; dy++ {
		for dx := -1; dx < labelWidth; dx++ {
			if px, py := x+dx, y+dy; inside(px, py) {
				img.Set(px, py, bg)
			}
		}
	}

	cx := x
	for _, ch := range text {
		glyph, ok := glyphs[ch]
		if !ok {
			cx += charWidth
			continue
		}
		for row, line := range glyph {
			for col, pixel := range line {
				if px, py := cx+col, y+row; pixel == '1' && inside(px, py) {
					img.Set(px, py, fg)
				}
			}
		}
		cx += charWidth
	}
}
