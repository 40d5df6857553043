package render

import (
	"image"

	"golang.org/x/image/font"
)

// Measure returns the width and height of text set in face. The width is
// the advance of the whole string; the height is the face's ascent plus
// descent, so every name set in the same face has the same height.
func Measure(face font.Face, text string) (width, height int) {
	metrics := face.Metrics()
	width = font.MeasureString(face, text).Ceil()
	height = (metrics.Ascent + metrics.Descent).Ceil()
	return width, height
}

// Place resolves the top-left corner of the text box. A nil coordinate is
// centred on the template as (templateSize - textSize) / 2, truncated toward
// zero; an explicit coordinate is used as given. Each axis is resolved on
// its own.
//
// A name wider than the template gets a negative x and is drawn clipped.
func Place(templateW, templateH, textW, textH int, x, y *int) image.Point {
	var p image.Point
	if x != nil {
		p.X = *x
	} else {
		p.X = (templateW - textW) / 2
	}
	if y != nil {
		p.Y = *y
	} else {
		p.Y = (templateH - textH) / 2
	}
	return p
}
