package batch

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ironsheep/certgen/internal/roster"
)

// ErrInvalidPath is matched by every *PathError.
var ErrInvalidPath = errors.New("missing or invalid path")

// ErrAborted is returned when the user interrupts an overwrite prompt.
var ErrAborted = errors.New("batch aborted by user")

// PathError reports an input or output path that cannot be used.
type PathError struct {
	// Kind is "roster", "template", "font" or "output".
	Kind string
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("invalid %s path %q: %v", e.Kind, e.Path, e.Err)
}

func (e *PathError) Unwrap() error { return e.Err }

func (e *PathError) Is(target error) bool { return target == ErrInvalidPath }

// EntryError is a failure to produce one person's certificate.
type EntryError struct {
	// Index is the entry's position in the roster, starting at 1.
	Index int
	Entry roster.Entry
	Path  string
	Err   error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("entry %d (%s, %s): %v", e.Index, e.Entry.Name, e.Entry.Email, e.Err)
}

func (e *EntryError) Unwrap() error { return e.Err }

// MarshalJSON flattens the error for reports sent over the wire.
func (e *EntryError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Index int    `json:"index"`
		Name  string `json:"name"`
		Email string `json:"email"`
		Path  string `json:"path,omitempty"`
		Error string `json:"error"`
	}{e.Index, e.Entry.Name, e.Entry.Email, e.Path, e.Err.Error()})
}
