package batch

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// Prompter decides whether an existing output file is replaced.
type Prompter interface {
	ConfirmOverwrite(path string) (bool, error)
}

// SurveyPrompter asks on the terminal. The default answer is no.
type SurveyPrompter struct{}

// ConfirmOverwrite implements Prompter.
func (SurveyPrompter) ConfirmOverwrite(path string) (bool, error) {
	var out bool
	prompt := &survey.Confirm{
		Message: fmt.Sprintf("%s already exists. Overwrite?", filepath.Base(path)),
		Help:    path,
		Default: false,
	}
	if err := survey.AskOne(prompt, &out); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return false, ErrAborted
		}
		return false, err
	}
	return out, nil
}
