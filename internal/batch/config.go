package batch

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/ironsheep/certgen/internal/render"
	"github.com/ironsheep/certgen/internal/roster"
)

// OverwritePolicy says what happens when an output file already exists.
type OverwritePolicy int

const (
	// OverwriteSkip leaves existing files alone.
	OverwriteSkip OverwritePolicy = iota
	// OverwriteForce replaces existing files.
	OverwriteForce
	// OverwriteAsk asks the Prompter for each existing file.
	OverwriteAsk
)

func (p OverwritePolicy) String() string {
	switch p {
	case OverwriteForce:
		return "force"
	case OverwriteAsk:
		return "ask"
	}
	return "skip"
}

// ParseOverwritePolicy accepts "skip", "force" or "ask". Empty means skip.
func ParseOverwritePolicy(s string) (OverwritePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "skip":
		return OverwriteSkip, nil
	case "force", "replace":
		return OverwriteForce, nil
	case "ask", "prompt":
		return OverwriteAsk, nil
	}
	return OverwriteSkip, fmt.Errorf("unknown overwrite policy %q", s)
}

// VerifyOptions turns on reading each certificate back with OCR.
type VerifyOptions struct {
	Enabled  bool   `json:"enabled" yaml:"enabled"`
	Language string `json:"language,omitempty" yaml:"language"`
}

// Config is everything a batch needs. It is passed by value and not
// modified by Run.
type Config struct {
	RosterPath   string
	TemplatePath string
	FontPath     string
	OutputDir    string

	FontSize int
	Color    color.RGBA

	// X and Y are explicit text positions; nil centres that axis.
	X, Y *int

	// Format selects the output format and file extension. Empty is PDF.
	Format render.Format

	Overwrite       OverwritePolicy
	ContinueOnError bool

	Roster roster.Options
	QR     render.QROptions
	Verify VerifyOptions
}

// WithPosition returns a copy of c with its own x and y values.
func (c Config) WithPosition(x, y *int) Config {
	c.X = cloneInt(x)
	c.Y = cloneInt(y)
	return c
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
