package render

import (
	"bytes"
	"errors"
	"image"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"pdf", FormatPDF, false},
		{".PDF", FormatPDF, false},
		{"png", FormatPNG, false},
		{"jpg", FormatJPEG, false},
		{".jpeg", FormatJPEG, false},
		{"TIF", FormatTIFF, false},
		{"gif", FormatGIF, false},
		{"bmp", FormatBMP, false},
		{"webp", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	if f, err := FormatFromPath("/out/a+b+c.pdf"); err != nil || f != FormatPDF {
		t.Errorf("FormatFromPath(.pdf) = %q, %v", f, err)
	}
	if _, err := FormatFromPath("/out/noext"); err == nil {
		t.Error("expected error for path without extension")
	}
}

func TestFormat_Extension(t *testing.T) {
	cases := map[Format]string{
		"":         ".pdf",
		FormatPDF:  ".pdf",
		FormatJPEG: ".jpg",
		FormatPNG:  ".png",
		FormatTIFF: ".tiff",
	}
	for f, want := range cases {
		if got := f.Extension(); got != want {
			t.Errorf("%q.Extension() = %q, want %q", f, got, want)
		}
	}
}

func TestWriteFileAtomic_FailureLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.png")
	boom := errors.New("boom")

	err := writeFileAtomic(path, func(io.Writer) error {
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want boom", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("expected empty directory, found %d entries", len(entries))
	}
}

func TestEncode_UnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	if err := Encode(&buf, img, Format("webp"), DocInfo{}); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestEncode_PDFDatesFixed(t *testing.T) {
	created := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
	img := image.NewRGBA(image.Rect(0, 0, 40, 20))

	var buf bytes.Buffer
	if err := Encode(&buf, img, FormatPDF, DocInfo{Title: "Ann", Created: created}); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	for _, key := range []string{"/CreationDate", "/ModDate"} {
		want := key + " (D:20240309140507)"
		if !bytes.Contains(buf.Bytes(), []byte(want)) {
			t.Errorf("pdf does not contain %q", want)
		}
	}
}

func TestEncode_PDFStableOverTime(t *testing.T) {
	if testing.Short() {
		t.Skip("sleeps past a second boundary")
	}
	img := image.NewRGBA(image.Rect(0, 0, 40, 20))
	info := DocInfo{Title: "Ann", Created: time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)}

	var first, second bytes.Buffer
	if err := Encode(&first, img, FormatPDF, info); err != nil {
		t.Fatal(err)
	}
	time.Sleep(1100 * time.Millisecond)
	if err := Encode(&second, img, FormatPDF, info); err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Error("pdf bytes changed between encodes a second apart")
	}
}

func TestWriteFile_UnsupportedFormatLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))

	if err := WriteFile(filepath.Join(dir, "grid.webp"), img, Format("webp"), DocInfo{}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("expected empty directory, found %d entries", len(entries))
	}
}
