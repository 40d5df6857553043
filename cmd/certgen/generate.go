package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"golang.org/x/term"

	"github.com/ironsheep/certgen/internal/batch"
	"github.com/ironsheep/certgen/internal/config"
)

// generateFlags holds the generate command line. Only flags the user set
// override the job file.
type generateFlags struct {
	configPath string

	fontSize int
	color    string
	x, y     int
	format   string

	replace         bool
	noPrompt        bool
	continueOnError bool
	skipMalformed   bool
	header          bool

	qr     string
	qrSize int

	verify     bool
	verifyLang string

	set map[string]bool
}

func newGenerateFlagSet(f *generateFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("certgen", flag.ContinueOnError)

	fs.StringVar(&f.configPath, "config", "", "YAML job file")
	fs.IntVar(&f.fontSize, "s", config.DefaultFontSize, "font size in pixels")
	fs.IntVar(&f.fontSize, "fontsize", config.DefaultFontSize, "font size in pixels")
	fs.StringVar(&f.color, "k", config.DefaultColor, "text color as RRGGBB")
	fs.StringVar(&f.color, "colorhex", config.DefaultColor, "text color as RRGGBB")
	fs.IntVar(&f.x, "x", 0, "text x position; centered when omitted")
	fs.IntVar(&f.y, "y", 0, "text y position; centered when omitted")
	fs.StringVar(&f.format, "format", config.DefaultFormat, "output format")
	fs.BoolVar(&f.replace, "r", false, "overwrite existing certificates")
	fs.BoolVar(&f.replace, "replace", false, "overwrite existing certificates")
	fs.BoolVar(&f.noPrompt, "no-prompt", false, "skip existing certificates without asking")
	fs.BoolVar(&f.continueOnError, "continue-on-error", false, "keep going after a failed certificate")
	fs.BoolVar(&f.skipMalformed, "skip-malformed", false, "skip malformed roster rows")
	fs.BoolVar(&f.header, "header", false, "the roster's first row is a header")
	fs.StringVar(&f.qr, "qr", "", "QR code content")
	fs.IntVar(&f.qrSize, "qr-size", 120, "QR code size in pixels")
	fs.BoolVar(&f.verify, "verify", false, "verify names with Tesseract")
	fs.StringVar(&f.verifyLang, "verify-lang", "eng", "Tesseract language")

	fs.Usage = printUsage
	return fs
}

// parse accepts options before, between and after the paths, as in
// "certgen people.csv award.png font.ttf out -s 42 --replace". Everything
// after "--" is a path.
func (f *generateFlags) parse(args []string) ([]string, error) {
	fs := newGenerateFlagSet(f)

	var paths []string
	rest := args
	for {
		if err := fs.Parse(rest); err != nil {
			return nil, err
		}
		consumed := len(rest) - fs.NArg()
		terminated := consumed > 0 && rest[consumed-1] == "--"
		rest = fs.Args()
		if terminated || len(rest) == 0 {
			paths = append(paths, rest...)
			break
		}
		paths = append(paths, rest[0])
		rest = rest[1:]
	}

	f.set = make(map[string]bool)
	fs.Visit(func(fl *flag.Flag) { f.set[fl.Name] = true })
	return paths, nil
}

func (f *generateFlags) isSet(names ...string) bool {
	for _, n := range names {
		if f.set[n] {
			return true
		}
	}
	return false
}

// apply layers the flags that were set, and the positional paths, onto cfg.
func (f *generateFlags) apply(cfg *config.Config, paths []string) error {
	switch len(paths) {
	case 4:
		cfg.Roster, cfg.Template, cfg.Font, cfg.Output = paths[0], paths[1], paths[2], paths[3]
	case 0:
		if cfg.Roster == "" || cfg.Template == "" || cfg.Font == "" || cfg.Output == "" {
			return errors.New("expected <roster> <template> <font> <output-dir>")
		}
	default:
		return fmt.Errorf("expected 4 paths, got %d", len(paths))
	}

	if f.isSet("s", "fontsize") {
		cfg.FontSize = f.fontSize
	}
	if f.isSet("k", "colorhex") {
		cfg.Color = f.color
	}
	if f.isSet("x") {
		x := f.x
		cfg.X = &x
	}
	if f.isSet("y") {
		y := f.y
		cfg.Y = &y
	}
	if f.isSet("format") {
		cfg.Format = f.format
	}
	if f.isSet("r", "replace") && f.replace {
		cfg.Overwrite = batch.OverwriteForce.String()
	}
	if f.isSet("continue-on-error") {
		cfg.ContinueOnError = f.continueOnError
	}
	if f.isSet("skip-malformed") {
		cfg.SkipMalformed = f.skipMalformed
	}
	if f.isSet("header") {
		cfg.Header = f.header
	}
	if f.isSet("qr") {
		cfg.QR.Content = f.qr
	}
	if f.isSet("qr-size") {
		cfg.QR.Size = f.qrSize
	}
	if f.isSet("verify") {
		cfg.Verify.Enabled = f.verify
	}
	if f.isSet("verify-lang") {
		cfg.Verify.Language = f.verifyLang
	}
	return nil
}

// overwritePolicy picks the policy to run with. Skipping becomes asking when
// stdin is a terminal and prompts were not turned off.
func overwritePolicy(configured batch.OverwritePolicy, noPrompt, interactive bool) batch.OverwritePolicy {
	switch {
	case configured == batch.OverwriteForce:
		return configured
	case noPrompt:
		return batch.OverwriteSkip
	case configured == batch.OverwriteSkip && interactive:
		return batch.OverwriteAsk
	case configured == batch.OverwriteAsk && !interactive:
		return batch.OverwriteSkip
	}
	return configured
}

func runGenerate(args []string, stdout io.Writer) int {
	var f generateFlags
	paths, err := f.parse(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := config.Load(f.configPath)
	if err != nil {
		log.Printf("Error: %v", err)
		return 1
	}
	if err := f.apply(cfg, paths); err != nil {
		log.Printf("Error: %v", err)
		fmt.Fprintln(os.Stderr, "Run 'certgen help' for usage.")
		return 2
	}
	if cfg.Debug() {
		log.Printf("certgen v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
		log.Printf("Job: %+v", *cfg)
	}

	bcfg, err := cfg.Batch()
	if err != nil {
		log.Printf("Error: %v", err)
		return 1
	}
	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	bcfg.Overwrite = overwritePolicy(bcfg.Overwrite, f.noPrompt, interactive)

	opts := []batch.Option{
		batch.WithProgress(func(ev batch.Event) {
			if ev.Status == batch.StatusWritten {
				fmt.Fprintf(stdout, "%s  -  %s\n", ev.Entry.Name, ev.Entry.Email)
			}
		}),
	}
	if bcfg.Overwrite == batch.OverwriteAsk {
		opts = append(opts, batch.WithPrompter(batch.SurveyPrompter{}))
	}

	report, err := batch.Run(bcfg, opts...)
	if report != nil {
		fmt.Fprintf(stdout, "Total of \"%d\" files made in %q.\n", report.Written, bcfg.OutputDir)
		for _, u := range report.Unverified {
			log.Printf("Warning: OCR could not read the name back from %s", u)
		}
	}
	if err != nil {
		log.Printf("Error: %v", err)
		return 1
	}
	return 0
}
