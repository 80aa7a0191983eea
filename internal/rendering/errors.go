// Package rendering turns a Profile into artifacts: a resume view-model (with a LaTeX
// export), a cover letter, and a static portfolio site bundle. Rendering is pure.
package rendering

import (
	"errors"
	"fmt"
)

// ErrNilView is returned when an export is asked to render a nil resume view-model.
var ErrNilView = errors.New("resume view-model is nil")

// Error is a failed rendering step. Artifact is "latex" or "portfolio"; Template
// is the template file path, empty for built-in templates.
type Error struct {
	Artifact string
	Template string
	Message  string
	Cause    error
}

func (e *Error) Error() string {
	msg := e.Artifact + " render"
	if e.Template != "" {
		msg += fmt.Sprintf(" (%s)", e.Template)
	}
	msg += ": " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}
