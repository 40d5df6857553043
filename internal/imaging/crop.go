package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// CropPadded extracts rect grown by pad pixels on every side, clipped to the
// image bounds. The result starts at the origin; offset is where that origin
// lies in img.
func CropPadded(img image.Image, rect image.Rectangle, pad int) (cropped image.Image, offset image.Point, err error) {
	bounds := img.Bounds()
	grown := image.Rect(rect.Min.X-pad, rect.Min.Y-pad, rect.Max.X+pad, rect.Max.Y+pad)
	clipped := grown.Intersect(bounds)
	if clipped.Empty() {
		return nil, image.Point{}, fmt.Errorf("crop region %v outside image bounds %v", rect, bounds)
	}
	return imaging.Crop(img, clipped), clipped.Min, nil
}
