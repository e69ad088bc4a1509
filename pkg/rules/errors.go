package rules

import "errors"

var (
	// ErrUnknownRule is returned when a specifier names a rule that is neither
	// a custom rule nor registered.
	ErrUnknownRule = errors.New("rules: unknown validation rule")
	// ErrInvalidRule signals a rule without a pattern or message, or with a
	// name that cannot appear in a specifier.
	ErrInvalidRule = errors.New("rules: invalid rule")
	// ErrInvalidArgs is returned when a rule cannot build its pattern from the
	// positional arguments of a specifier (for example `min-abc`).
	ErrInvalidArgs = errors.New("rules: invalid rule arguments")
	// ErrDuplicateRule is returned by Register for names already present.
	ErrDuplicateRule = errors.New("rules: rule already registered")
)
