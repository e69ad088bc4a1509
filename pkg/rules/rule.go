package rules

import (
	"fmt"
	"regexp"
	"strings"
)

// PatternFunc builds the matcher for a rule from the positional arguments of
// a specifier.
type PatternFunc func(args ...string) (*regexp.Regexp, error)

// MessageFunc formats the error message for a failing rule. name is the
// field display name (or its id when no display name is set).
type MessageFunc func(name string, args ...string) string

// Rule pairs a pattern constructor with a message formatter.
type Rule struct {
	Pattern PatternFunc
	Message MessageFunc
}

// Check reports whether the rule is usable.
func (r Rule) Check() error {
	if r.Pattern == nil {
		return fmt.Errorf("%w: pattern is required", ErrInvalidRule)
	}
	if r.Message == nil {
		return fmt.Errorf("%w: message is required", ErrInvalidRule)
	}
	return nil
}

// Static returns a rule whose pattern ignores arguments. The expression is
// compiled once and panics on invalid input, like regexp.MustCompile.
func Static(expr string, message MessageFunc) Rule {
	re := regexp.MustCompile(expr)
	return Rule{
		Pattern: func(...string) (*regexp.Regexp, error) { return re, nil },
		Message: message,
	}
}

// Messagef returns a MessageFunc that feeds the display name followed by the
// rule arguments to fmt.Sprintf. Missing arguments render as empty strings.
func Messagef(format string) MessageFunc {
	want := strings.Count(format, "%s")
	return func(name string, args ...string) string {
		values := make([]any, want)
		for i := range values {
			switch {
			case i == 0:
				values[i] = name
			case i-1 < len(args):
				values[i] = args[i-1]
			default:
				values[i] = ""
			}
		}
		return fmt.Sprintf(format, values...)
	}
}

func checkName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidRule)
	}
	if strings.ContainsAny(name, "-| \t") {
		return fmt.Errorf("%w: name %q cannot contain '-', '|' or spaces", ErrInvalidRule, name)
	}
	return nil
}
