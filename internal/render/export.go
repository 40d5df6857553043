package render

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/jung-kurt/gofpdf"
)

// Format is an output document format.
type Format string

// Supported output formats.
const (
	FormatPDF  Format = "pdf"
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatGIF  Format = "gif"
	FormatTIFF Format = "tiff"
	FormatBMP  Format = "bmp"
)

var rasterFormats = map[Format]imaging.Format{
	FormatPNG:  imaging.PNG,
	FormatJPEG: imaging.JPEG,
	FormatGIF:  imaging.GIF,
	FormatTIFF: imaging.TIFF,
	FormatBMP:  imaging.BMP,
}

// ParseFormat accepts a format name or extension, with or without the dot
// ("pdf", ".png", "jpg", "TIF").
func ParseFormat(s string) (Format, error) {
	name := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))
	switch name {
	case "pdf":
		return FormatPDF, nil
	case "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	case "gif":
		return FormatGIF, nil
	case "tif", "tiff":
		return FormatTIFF, nil
	case "bmp":
		return FormatBMP, nil
	}
	return "", fmt.Errorf("unsupported output format %q", s)
}

// FormatFromPath returns the format implied by the file extension of path.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", fmt.Errorf("output path %q has no extension", path)
	}
	return ParseFormat(ext)
}

// Extension returns the file extension, with dot, used for f in generated
// file names.
func (f Format) Extension() string {
	switch f {
	case FormatJPEG:
		return ".jpg"
	case "":
		return ".pdf"
	}
	return "." + string(f)
}

// DocInfo is document metadata embedded in PDF output.
type DocInfo struct {
	Title   string
	Subject string

	// Created is written as both the creation and modification date.
	// Fixing it keeps repeated renders byte-identical.
	Created time.Time
}

// Encode writes img to w in format f.
func Encode(w io.Writer, img image.Image, f Format, info DocInfo) error {
	if f == FormatPDF {
		return encodePDF(w, img, info)
	}
	rf, ok := rasterFormats[f]
	if !ok {
		return fmt.Errorf("unsupported output format %q", f)
	}
	return imaging.Encode(w, img, rf, imaging.JPEGQuality(95))
}

// encodePDF writes a single-page PDF whose page is the image size in points,
// so the certificate keeps its pixel dimensions at 72 DPI.
func encodePDF(w io.Writer, img image.Image, info DocInfo) error {
	var raster bytes.Buffer
	if err := png.Encode(&raster, img); err != nil {
		return fmt.Errorf("failed to encode page image: %w", err)
	}

	bounds := img.Bounds()
	width, height := float64(bounds.Dx()), float64(bounds.Dy())

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: width, Ht: height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(info.Created)
	pdf.SetModificationDate(info.Created)
	pdf.SetCreator("certgen", true)
	if info.Title != "" {
		pdf.SetTitle(info.Title, true)
	}
	if info.Subject != "" {
		pdf.SetSubject(info.Subject, true)
	}

	pdf.AddPage()
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("certificate", opts, &raster)
	pdf.ImageOptions("certificate", 0, 0, width, height, false, opts, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}

// WriteFile encodes img in format f to path. Nothing is left at path when
// encoding fails.
func WriteFile(path string, img image.Image, f Format, info DocInfo) error {
	return writeFileAtomic(path, func(w io.Writer) error {
		return Encode(w, img, f, info)
	})
}

// writeFileAtomic writes the output of write to path through a temporary
// file in the same directory. On any error the temporary file is removed and
// path is left untouched.
func writeFileAtomic(path string, write func(io.Writer) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".certgen-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if err = write(tmp); err != nil {
		return err
	}
	if err = tmp.Chmod(0o644); err != nil {
		return fmt.Errorf("failed to set file mode: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err = os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to move output into place: %w", err)
	}
	return nil
}
