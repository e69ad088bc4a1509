package formstate

import "errors"

var (
	// ErrMissingID is returned when a field without an id is registered or
	// updated. The wrapped message carries the serialized field.
	ErrMissingID = errors.New("formstate: please pass id")
	// ErrClosed is returned for mutations after Close.
	ErrClosed = errors.New("formstate: form is closed")
	// ErrUnknownField is returned when an operation targets an id that was
	// never registered.
	ErrUnknownField = errors.New("formstate: unknown field")
)
