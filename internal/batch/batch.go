package batch

import (
	"errors"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/ironsheep/certgen/internal/imaging"
	"github.com/ironsheep/certgen/internal/ocr"
	"github.com/ironsheep/certgen/internal/render"
	"github.com/ironsheep/certgen/internal/roster"
)

// Status is the outcome for one roster entry.
type Status string

const (
	StatusWritten Status = "written"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Event is sent to the Progress callback after each entry.
type Event struct {
	// Index is the entry's position in the roster, starting at 1.
	Index  int          `json:"index"`
	Total  int          `json:"total"`
	Entry  roster.Entry `json:"entry"`
	Path   string       `json:"path"`
	Status Status       `json:"status"`
	Err    error        `json:"-"`

	// Verification is set when OCR verification ran.
	Verification *ocr.Verification `json:"verification,omitempty"`
}

// Progress receives one Event per roster entry, in roster order.
type Progress func(Event)

// Report summarizes a batch. On a fail-fast error it covers the entries
// handled before the failure.
type Report struct {
	Total   int `json:"total"`
	Written int `json:"written"`
	Skipped int `json:"skipped"`

	// Files lists written files in roster order.
	Files []string `json:"files"`

	Failures []*EntryError `json:"failures,omitempty"`

	// Unverified lists written files whose name OCR could not read back.
	Unverified []string `json:"unverified,omitempty"`

	Malformed []*roster.MalformedRowError `json:"malformed,omitempty"`
}

// Verifier checks that a rendered name can be read back.
type Verifier interface {
	Verify(img image.Image, region image.Rectangle, expected, language string) (*ocr.Verification, error)
}

// TesseractVerifier verifies with the ocr package.
type TesseractVerifier struct{}

// Verify implements Verifier.
func (TesseractVerifier) Verify(img image.Image, region image.Rectangle, expected, language string) (*ocr.Verification, error) {
	return ocr.Verify(img, region, expected, language)
}

// Option customizes Run.
type Option func(*runner)

// WithProgress registers a progress callback.
func WithProgress(p Progress) Option {
	return func(r *runner) { r.progress = p }
}

// WithPrompter sets the Prompter used by OverwriteAsk. Without one,
// OverwriteAsk behaves like OverwriteSkip.
func WithPrompter(p Prompter) Option {
	return func(r *runner) { r.prompter = p }
}

// WithLogger sets the logger for diagnostics. The default is log.Default().
func WithLogger(l *log.Logger) Option {
	return func(r *runner) { r.logger = l }
}

// WithRenderer shares a Renderer, and so its template and font caches,
// across batches.
func WithRenderer(rd *render.Renderer) Option {
	return func(r *runner) { r.renderer = rd }
}

// WithVerifier replaces the OCR verifier.
func WithVerifier(v Verifier) Option {
	return func(r *runner) { r.verifier = v }
}

type runner struct {
	cfg      Config
	progress Progress
	prompter Prompter
	logger   *log.Logger
	renderer *render.Renderer
	verifier Verifier
}

// Run generates one certificate per roster entry, in roster order.
//
// Paths are checked first; any problem is a *PathError and nothing is
// rendered. The output directory is created when missing. By default the
// first failing entry stops the batch and its *EntryError is returned along
// with the report so far. With ContinueOnError every failure is recorded
// and the joined errors are returned at the end.
func Run(cfg Config, opts ...Option) (*Report, error) {
	r := &runner{
		cfg:    cfg.WithPosition(cfg.X, cfg.Y),
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.renderer == nil {
		r.renderer = render.New(imaging.NewTemplateCache())
	}
	if r.verifier == nil {
		r.verifier = TesseractVerifier{}
	}
	return r.run()
}

func (r *runner) run() (*Report, error) {
	if err := r.validatePaths(); err != nil {
		return nil, err
	}

	list, err := roster.Load(r.cfg.RosterPath, r.cfg.Roster)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster: %w", err)
	}

	report := &Report{
		Total:     len(list.Entries),
		Files:     []string{},
		Malformed: list.Skipped,
	}
	for _, m := range list.Skipped {
		r.logger.Printf("Skipping %v", m)
	}

	var failures []error
	for i, entry := range list.Entries {
		ev := Event{Index: i + 1, Total: report.Total, Entry: entry}
		ev.Path = r.outputPath(entry)

		err := r.handle(&ev, report)
		r.notify(ev)
		if err == nil {
			continue
		}
		if errors.Is(err, ErrAborted) {
			return report, err
		}

		entryErr := &EntryError{Index: ev.Index, Entry: entry, Path: ev.Path, Err: err}
		report.Failures = append(report.Failures, entryErr)
		r.logger.Printf("Failed to generate certificate for %s (%s): %v", entry.Name, entry.Email, err)
		if !r.cfg.ContinueOnError {
			return report, entryErr
		}
		failures = append(failures, entryErr)
	}

	return report, errors.Join(failures...)
}

// handle processes one entry and fills in ev.
func (r *runner) handle(ev *Event, report *Report) error {
	write, err := r.shouldWrite(ev.Path)
	if err != nil {
		ev.Status, ev.Err = StatusFailed, err
		return err
	}
	if !write {
		ev.Status = StatusSkipped
		report.Skipped++
		return nil
	}

	res, err := r.renderer.Render(render.Request{
		Name:         ev.Entry.Name,
		Email:        ev.Entry.Email,
		TemplatePath: r.cfg.TemplatePath,
		OutputPath:   ev.Path,
		FontPath:     r.cfg.FontPath,
		FontSize:     r.cfg.FontSize,
		Color:        r.cfg.Color,
		X:            r.cfg.X,
		Y:            r.cfg.Y,
		Format:       r.format(),
		QR:           r.cfg.QR,
	})
	if err != nil {
		ev.Status, ev.Err = StatusFailed, err
		return err
	}

	ev.Status = StatusWritten
	report.Written++
	report.Files = append(report.Files, res.Path)

	if r.cfg.Verify.Enabled {
		r.verify(ev, res, report)
	}
	return nil
}

// verify runs OCR on a written certificate. Mismatches and OCR errors are
// reported but never fail the entry.
func (r *runner) verify(ev *Event, res *render.Result, report *Report) {
	v, err := r.verifier.Verify(res.Image, res.Text, ev.Entry.Name, r.cfg.Verify.Language)
	if err != nil {
		r.logger.Printf("Could not verify %s: %v", res.Path, err)
		report.Unverified = append(report.Unverified, res.Path)
		return
	}
	ev.Verification = v
	if !v.Match {
		r.logger.Printf("Name %q not recognized in %s (read %q)", ev.Entry.Name, res.Path, v.Recognized)
		report.Unverified = append(report.Unverified, res.Path)
	}
}

func (r *runner) shouldWrite(path string) (bool, error) {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check output: %w", err)
	}
	if info.IsDir() {
		return false, fmt.Errorf("output %s is a directory", path)
	}

	switch r.cfg.Overwrite {
	case OverwriteForce:
		return true, nil
	case OverwriteAsk:
		if r.prompter == nil {
			return false, nil
		}
		return r.prompter.ConfirmOverwrite(path)
	}
	return false, nil
}

func (r *runner) notify(ev Event) {
	if r.progress != nil {
		r.progress(ev)
	}
}

func (r *runner) format() render.Format {
	if r.cfg.Format == "" {
		return render.FormatPDF
	}
	return r.cfg.Format
}

// outputPath builds <template>+<name>+<email>.<ext> in the output directory.
func (r *runner) outputPath(e roster.Entry) string {
	name := OutputName(r.cfg.TemplatePath, e, r.format())
	return filepath.Join(r.cfg.OutputDir, name)
}

var separatorReplacer = strings.NewReplacer("/", "_", "\\", "_")

// OutputName returns the file name written for e. Path separators inside
// the name or email are replaced so every file lands in the output
// directory.
func OutputName(templatePath string, e roster.Entry, f render.Format) string {
	base := imaging.BaseName(templatePath) + "+" + e.Name + "+" + e.Email
	return separatorReplacer.Replace(base) + f.Extension()
}

func (r *runner) validatePaths() error {
	inputs := []struct{ kind, path string }{
		{"roster", r.cfg.RosterPath},
		{"template", r.cfg.TemplatePath},
		{"font", r.cfg.FontPath},
	}
	for _, in := range inputs {
		if err := checkFile(in.path); err != nil {
			return &PathError{Kind: in.kind, Path: in.path, Err: err}
		}
	}

	dir := r.cfg.OutputDir
	if dir == "" {
		return &PathError{Kind: "output", Err: errors.New("path is empty")}
	}
	info, err := os.Stat(dir)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &PathError{Kind: "output", Path: dir, Err: err}
		}
		r.logger.Printf("Created output directory %s", dir)
	case err != nil:
		return &PathError{Kind: "output", Path: dir, Err: err}
	case !info.IsDir():
		return &PathError{Kind: "output", Path: dir, Err: errors.New("not a directory")}
	}
	return nil
}

func checkFile(path string) error {
	if path == "" {
		return errors.New("path is empty")
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return errors.New("not a regular file")
	}
	return nil
}
