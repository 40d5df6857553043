package render

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
)

// FontCache keeps parsed font files so a batch reads and parses its font
// once. Faces are created per render because a font.Face is not safe for
// concurrent use.
type FontCache struct {
	mu    sync.RWMutex
	fonts map[string]*opentype.Font
}

// NewFontCache creates an empty font cache.
func NewFontCache() *FontCache {
	return &FontCache{fonts: make(map[string]*opentype.Font)}
}

// Load returns the parsed font at path. TrueType, OpenType and the first
// font of a TrueType collection (.ttc) are accepted.
func (c *FontCache) Load(path string) (*opentype.Font, error) {
	c.mu.RLock()
	if f, ok := c.fonts[path]; ok {
		c.mu.RUnlock()
		return f, nil
	}
	c.mu.RUnlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read font: %w", err)
	}

	f, err := parseFont(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font %s: %w", path, err)
	}

	c.mu.Lock()
	c.fonts[path] = f
	c.mu.Unlock()

	return f, nil
}

// Face opens a face of the font at path with a pixel size of size. The
// caller must Close it.
func (c *FontCache) Face(path string, size int) (font.Face, error) {
	if size <= 0 {
		return nil, fmt.Errorf("font size must be positive, got %d", size)
	}

	f, err := c.Load(path)
	if err != nil {
		return nil, err
	}

	// At 72 DPI one point is one pixel, matching the pixel sizes used on
	// the command line.
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("create font face at %dpx: %w", size, err)
	}
	return face, nil
}

func parseFont(data []byte) (*opentype.Font, error) {
	if len(data) >= 4 && string(data[:4]) == "ttcf" {
		coll, err := opentype.ParseCollection(data)
		if err != nil {
			return nil, err
		}
		return coll.Font(0)
	}
	return opentype.Parse(data)
}
