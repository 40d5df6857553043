package imaging

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
)

// TemplateCache provides thread-safe caching of decoded certificate templates.
//
// A batch draws every name onto the same template, so the template is decoded
// once and reused. Cached images are never modified; renderers draw on a
// Flatten copy.
//
// TemplateCache is safe for concurrent use by multiple goroutines.
//
// # Example Usage
//
//	cache := imaging.NewTemplateCache()
//	tpl, err := cache.Load("/path/to/cert.png")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	canvas := imaging.Flatten(tpl)
type TemplateCache struct {
	mu        sync.RWMutex
	templates map[string]image.Image
}

// NewTemplateCache creates and initializes a new empty template cache.
func NewTemplateCache() *TemplateCache {
	return &TemplateCache{
		templates: make(map[string]image.Image),
	}
}

// Load retrieves a template from the cache or decodes it from disk.
//
// Parameters:
//   - path: File path to the template. Supported formats are PNG, JPEG, GIF,
//     TIFF and BMP. JPEG EXIF orientation is applied on decode.
//
// Returns:
//   - image.Image: The decoded template.
//   - error: Non-nil if the file cannot be opened or decoded. A missing file
//     wraps os.ErrNotExist.
//
// The template is cached using the exact path string provided.
func (c *TemplateCache) Load(path string) (image.Image, error) {
	c.mu.RLock()
	if img, ok := c.templates[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode template %s: %w", path, err)
	}

	c.mu.Lock()
	c.templates[path] = img
	c.mu.Unlock()

	return img, nil
}

// Clear removes all templates from the cache.
func (c *TemplateCache) Clear() {
	c.mu.Lock()
	c.templates = make(map[string]image.Image)
	c.mu.Unlock()
}

// Evict removes a specific template from the cache by its path.
//
// The web front end evicts before each batch so an edited template on disk
// is picked up.
func (c *TemplateCache) Evict(path string) {
	c.mu.Lock()
	delete(c.templates, path)
	c.mu.Unlock()
}

// TemplateInfo contains metadata about a template file.
type TemplateInfo struct {
	// Width is the template width in pixels.
	Width int `json:"width"`

	// Height is the template height in pixels.
	Height int `json:"height"`

	// Format is the format implied by the file extension: "png", "jpeg",
	// "gif", "tiff", "bmp" or "unknown".
	Format string `json:"format"`

	// HasAlpha indicates whether the decoded image carries an alpha channel.
	// Transparent areas are rendered over white.
	HasAlpha bool `json:"has_alpha"`

	// FileSizeBytes is the size of the template file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadTemplateInfo loads a template through the cache and describes it.
func LoadTemplateInfo(cache *TemplateCache, path string) (*TemplateInfo, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	format := "unknown"
	if f, err := imaging.FormatFromFilename(path); err == nil {
		format = strings.ToLower(f.String())
	}

	hasAlpha := false
	switch img.(type) {
	case *image.RGBA, *image.NRGBA, *image.RGBA64, *image.NRGBA64:
		hasAlpha = true
	}

	bounds := img.Bounds()
	return &TemplateInfo{
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		Format:        format,
		HasAlpha:      hasAlpha,
		FileSizeBytes: stat.Size(),
	}, nil
}

// BaseName returns the template file name without directory or extension,
// the first component of every output file name.
func BaseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
