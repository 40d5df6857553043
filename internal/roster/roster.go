package roster

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrMalformedRow is matched by every MalformedRowError.
var ErrMalformedRow = errors.New("malformed roster row")

// Entry is one person on the roster.
type Entry struct {
	// Name is the display name, whitespace-trimmed and title-cased.
	Name string `json:"name"`

	// Email is whitespace-trimmed only; case is preserved.
	Email string `json:"email"`
}

// MalformedRowError reports a row that does not carry both a name and an email.
type MalformedRowError struct {
	// Row is the 1-based row number in the source file.
	Row int `json:"row"`

	// Raw holds the fields as read, before normalization.
	Raw []string `json:"raw"`
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("roster row %d: expected 2 fields (name, email), got %d: %q",
		e.Row, len(e.Raw), strings.Join(e.Raw, ","))
}

// Is makes errors.Is(err, ErrMalformedRow) true for any MalformedRowError.
func (e *MalformedRowError) Is(target error) bool {
	return target == ErrMalformedRow
}

// Options controls how a roster file is interpreted.
type Options struct {
	// Header skips the first non-blank row.
	Header bool

	// SkipMalformed records short rows in Roster.Skipped instead of failing
	// the whole load.
	SkipMalformed bool
}

// Roster is the result of loading a roster file.
type Roster struct {
	// Entries are in file order. Duplicates are kept.
	Entries []Entry `json:"entries"`

	// Skipped lists rows dropped under Options.SkipMalformed.
	Skipped []*MalformedRowError `json:"skipped,omitempty"`
}

// NewEntry builds an Entry from raw field values. Title casing follows
// Unicode word boundaries, so an apostrophe inside a word does not start a
// new word: "o'brien" becomes "O'brien" and "it's" stays "It's".
func NewEntry(name, email string) Entry {
	// Casers hold state and are not shared across goroutines.
	return Entry{
		Name:  cases.Title(language.Und).String(strings.TrimSpace(name)),
		Email: strings.TrimSpace(email),
	}
}

// Load reads a roster file. Files ending in .xlsx are read from their first
// sheet; anything else is treated as comma-separated text.
//
// An empty file yields an empty Roster, not an error.
func Load(path string, opts Options) (*Roster, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return loadWorkbook(path, opts)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open roster: %w", err)
	}
	defer f.Close()

	return Parse(f, opts)
}

// Parse reads comma-separated (name, email) rows from r.
func Parse(r io.Reader, opts Options) (*Roster, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	b := newBuilder(opts)
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read roster: %w", err)
		}
		if isBlank(record) {
			continue
		}
		line, _ := cr.FieldPos(0)
		if err := b.add(line, record); err != nil {
			return nil, err
		}
	}
	return b.roster, nil
}

func loadWorkbook(path string, opts Options) (*Roster, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open roster workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return &Roster{Entries: []Entry{}}, nil
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	b := newBuilder(opts)
	for i, row := range rows {
		if isBlank(row) {
			continue
		}
		if err := b.add(i+1, row); err != nil {
			return nil, err
		}
	}
	return b.roster, nil
}

// builder applies header, normalization and malformed-row policy to rows
// coming from either source format.
type builder struct {
	opts     Options
	sawFirst bool
	roster   *Roster
}

func newBuilder(opts Options) *builder {
	return &builder{
		opts:   opts,
		roster: &Roster{Entries: []Entry{}},
	}
}

func (b *builder) add(row int, fields []string) error {
	if !b.sawFirst {
		b.sawFirst = true
		if len(fields) > 0 {
			fields[0] = strings.TrimPrefix(fields[0], "\ufeff")
		}
		if b.opts.Header {
			return nil
		}
	}

	if len(fields) < 2 {
		raw := make([]string, len(fields))
		copy(raw, fields)
		rowErr := &MalformedRowError{Row: row, Raw: raw}
		if !b.opts.SkipMalformed {
			return rowErr
		}
		b.roster.Skipped = append(b.roster.Skipped, rowErr)
		return nil
	}

	b.roster.Entries = append(b.roster.Entries, NewEntry(fields[0], fields[1]))
	return nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
