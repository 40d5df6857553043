package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ironsheep/certgen/internal/batch"
	"github.com/ironsheep/certgen/internal/imaging"
	"github.com/ironsheep/certgen/internal/render"
	"github.com/ironsheep/certgen/internal/roster"
)

// Defaults used when nothing else is configured.
const (
	DefaultFontSize = 48
	DefaultColor    = "000000"
	DefaultFormat   = "pdf"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "CERTGEN_"

// Config is a certificate job as written in a YAML job file.
type Config struct {
	Roster   string `yaml:"roster"`
	Template string `yaml:"template"`
	Font     string `yaml:"font"`
	Output   string `yaml:"output"`

	FontSize int    `yaml:"font_size"`
	Color    string `yaml:"color"`
	X        *int   `yaml:"x"`
	Y        *int   `yaml:"y"`
	Format   string `yaml:"format"`

	// Overwrite is "skip", "force" or "ask".
	Overwrite       string `yaml:"overwrite"`
	ContinueOnError bool   `yaml:"continue_on_error"`

	Header        bool `yaml:"header"`
	SkipMalformed bool `yaml:"skip_malformed"`

	QR     render.QROptions    `yaml:"qr"`
	Verify batch.VerifyOptions `yaml:"verify"`

	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in configuration: 48px black text, centered,
// PDF output, existing files skipped.
func Default() *Config {
	return &Config{
		FontSize:  DefaultFontSize,
		Color:     DefaultColor,
		Format:    DefaultFormat,
		Overwrite: batch.OverwriteSkip.String(),
		QR:        render.QROptions{Size: 120, Margin: 24},
		Verify:    batch.VerifyOptions{Language: "eng"},
		LogLevel:  "info",
	}
}

// Load builds a configuration from the defaults, the YAML job file at path
// (skipped when path is empty), then a .env file in the working directory
// if present, then CERTGEN_* environment variables. Command line flags are
// applied on top by the caller.
func Load(path string) (*Config, error) {
	return load(path, ".env")
}

func load(path, envFile string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read job file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse job file %s: %w", path, err)
		}
	}

	if envFile != "" {
		// godotenv never overrides variables that are already set.
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	if err := cfg.overrideWithEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) overrideWithEnv() error {
	strs := map[string]*string{
		"ROSTER":      &c.Roster,
		"TEMPLATE":    &c.Template,
		"FONT":        &c.Font,
		"OUTPUT":      &c.Output,
		"COLOR":       &c.Color,
		"FORMAT":      &c.Format,
		"OVERWRITE":   &c.Overwrite,
		"QR":          &c.QR.Content,
		"VERIFY_LANG": &c.Verify.Language,
		"LOG_LEVEL":   &c.LogLevel,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok && v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"FONT_SIZE": &c.FontSize,
		"QR_SIZE":   &c.QR.Size,
	}
	for key, dst := range ints {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid %s%s %q: %w", EnvPrefix, key, v, err)
			}
			*dst = n
		}
	}

	bools := map[string]*bool{
		"CONTINUE_ON_ERROR": &c.ContinueOnError,
		"HEADER":            &c.Header,
		"SKIP_MALFORMED":    &c.SkipMalformed,
		"VERIFY":            &c.Verify.Enabled,
	}
	for key, dst := range bools {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok && v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid %s%s %q: %w", EnvPrefix, key, v, err)
			}
			*dst = b
		}
	}
	return nil
}

// Batch validates the configuration and converts it to a batch.Config.
func (c *Config) Batch() (batch.Config, error) {
	if c.FontSize <= 0 {
		return batch.Config{}, fmt.Errorf("font size must be positive, got %d", c.FontSize)
	}

	col, err := imaging.ParseHexColor(c.Color)
	if err != nil {
		return batch.Config{}, err
	}

	var format render.Format
	if strings.TrimSpace(c.Format) != "" {
		if format, err = render.ParseFormat(c.Format); err != nil {
			return batch.Config{}, err
		}
	}

	overwrite, err := batch.ParseOverwritePolicy(c.Overwrite)
	if err != nil {
		return batch.Config{}, err
	}

	cfg := batch.Config{
		RosterPath:      c.Roster,
		TemplatePath:    c.Template,
		FontPath:        c.Font,
		OutputDir:       c.Output,
		FontSize:        c.FontSize,
		Color:           col.RGBA(),
		Format:          format,
		Overwrite:       overwrite,
		ContinueOnError: c.ContinueOnError,
		Roster: roster.Options{
			Header:        c.Header,
			SkipMalformed: c.SkipMalformed,
		},
		QR:     c.QR,
		Verify: c.Verify,
	}
	return cfg.WithPosition(c.X, c.Y), nil
}

// Debug reports whether debug logging is configured.
func (c *Config) Debug() bool {
	return strings.EqualFold(c.LogLevel, "debug")
}
