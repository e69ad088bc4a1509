package prompt

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("prompt: aborted")
	// ErrUnsupportedComponent is returned for components the runner cannot
	// drive.
	ErrUnsupportedComponent = errors.New("prompt: unsupported component")
)
