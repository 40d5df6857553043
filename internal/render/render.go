package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/certgen/internal/imaging"
	"github.com/ironsheep/certgen/internal/shaping"
)

// Error kinds returned by Renderer. Each wraps the underlying cause.
var (
	// ErrTemplateLoad means the template does not exist or is not a
	// decodable image.
	ErrTemplateLoad = errors.New("template load failed")

	// ErrFontLoad means the font does not exist, is not a valid font file,
	// or the size is not positive.
	ErrFontLoad = errors.New("font load failed")

	// ErrRender covers drawing, encoding and writing the output.
	ErrRender = errors.New("render failed")
)

// Request describes one certificate.
type Request struct {
	Name  string `json:"name"`
	Email string `json:"email"`

	TemplatePath string `json:"template_path"`
	OutputPath   string `json:"output_path"`
	FontPath     string `json:"font_path"`

	// FontSize is the font pixel size. Must be positive.
	FontSize int `json:"font_size"`

	Color color.RGBA `json:"-"`

	// X and Y place the top-left corner of the name. Nil centres that axis.
	X *int `json:"x,omitempty"`
	Y *int `json:"y,omitempty"`

	// Format, when set, must agree with the OutputPath extension.
	Format Format `json:"format,omitempty"`

	QR QROptions `json:"qr,omitempty"`
}

// Result describes a composed (and, after Render, written) certificate.
type Result struct {
	// Path is the written file; empty for Compose.
	Path   string `json:"path,omitempty"`
	Format Format `json:"format,omitempty"`

	// Shaped is the name as drawn, after right-to-left shaping.
	Shaped string `json:"shaped"`

	// Text is the box the name was laid out in.
	Text image.Rectangle `json:"text"`

	// QR is where the QR code was drawn; empty when disabled.
	QR image.Rectangle `json:"qr,omitempty"`

	// Image is the composed page. It is not part of any wire format.
	Image *image.RGBA `json:"-"`
}

// Renderer draws names onto templates. Templates and fonts are cached
// across calls, so one Renderer should serve a whole batch.
type Renderer struct {
	templates *imaging.TemplateCache
	fonts     *FontCache
}

// New creates a Renderer. A nil cache gets a private one.
func New(templates *imaging.TemplateCache) *Renderer {
	if templates == nil {
		templates = imaging.NewTemplateCache()
	}
	return &Renderer{
		templates: templates,
		fonts:     NewFontCache(),
	}
}

// Compose draws the request's name onto a copy of the template without
// writing anything. OutputPath is not used.
func (r *Renderer) Compose(req Request) (*Result, error) {
	tpl, err := r.templates.Load(req.TemplatePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTemplateLoad, err)
	}

	face, err := r.fonts.Face(req.FontPath, req.FontSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFontLoad, err)
	}
	defer face.Close()

	shaped := shaping.Shape(req.Name)
	canvas := imaging.Flatten(tpl)
	bounds := canvas.Bounds()

	w, h := Measure(face, shaped)
	at := Place(bounds.Dx(), bounds.Dy(), w, h, req.X, req.Y)

	d := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(req.Color),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(at.X), Y: fixed.I(at.Y) + face.Metrics().Ascent},
	}
	d.DrawString(shaped)

	result := &Result{
		Format: req.Format,
		Shaped: shaped,
		Text:   image.Rect(at.X, at.Y, at.X+w, at.Y+h),
		Image:  canvas,
	}

	if req.QR.Enabled() {
		rect, err := drawQR(canvas, req.QR.Text(req.Name, req.Email), req.QR)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrRender, err)
		}
		result.QR = rect
	}

	return result, nil
}

// Render composes the certificate and writes it to req.OutputPath. Exactly
// one file is written on success; on failure nothing is written.
func (r *Renderer) Render(req Request) (*Result, error) {
	format, err := resolveFormat(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}

	result, err := r.Compose(req)
	if err != nil {
		return nil, err
	}
	result.Format = format

	info := DocInfo{Title: req.Name, Subject: req.Email}
	if stat, err := os.Stat(req.TemplatePath); err == nil {
		info.Created = stat.ModTime().UTC().Truncate(1e9)
	}

	if err := WriteFile(req.OutputPath, result.Image, result.Format, info); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}

	result.Path = req.OutputPath
	return result, nil
}

func resolveFormat(req Request) (Format, error) {
	if req.OutputPath == "" {
		return "", fmt.Errorf("output path is empty")
	}
	fromExt, err := FormatFromPath(req.OutputPath)
	if err != nil {
		return "", err
	}
	if req.Format != "" && req.Format != fromExt {
		return "", fmt.Errorf("output format %q does not match extension of %s", req.Format, req.OutputPath)
	}
	return fromExt, nil
}
