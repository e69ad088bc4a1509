package rules

import (
	"fmt"
	"regexp"
	"strconv"
)

// Built-in rule names.
const (
	Required     = "required"
	Email        = "email"
	Min          = "min"
	Max          = "max"
	Length       = "length"
	Between      = "between"
	Numeric      = "numeric"
	Alpha        = "alpha"
	Alphanumeric = "alphanumeric"
	Phone        = "phone"
	URL          = "url"
	Slug         = "slug"
)

// Go's regexp caps repetition counts at 1000.
const maxRepeat = 1000

func registerBuiltins(reg *Registry) {
	reg.MustRegister(Required, Static(`(?s)^.+$`, Messagef("%s is required")))
	reg.MustRegister(Email, Static(`^[^\s@]+@[^\s@]+\.[^\s@]+$`, Messagef("%s is not valid email")))
	reg.MustRegister(Numeric, Static(`^[0-9]+$`, Messagef("%s should contain only numbers")))
	reg.MustRegister(Alpha, Static(`^[a-zA-Z]+$`, Messagef("%s should contain only letters")))
	reg.MustRegister(Alphanumeric, Static(`^[a-zA-Z0-9]+$`, Messagef("%s should contain only letters and numbers")))
	reg.MustRegister(Phone, Static(`^\+?[1-9]\d{1,14}$`, Messagef("%s is not valid phone number")))
	reg.MustRegister(URL, Static(`^https?://[^\s/$.?#][^\s]*$`, Messagef("%s is not valid url")))
	reg.MustRegister(Slug, Static(`^[a-z0-9]+(?:-[a-z0-9]+)*$`, Messagef("%s should be a lowercase slug")))

	reg.MustRegister(Min, Rule{
		Pattern: lengthPattern(func(n []int) string { return fmt.Sprintf(`(?s)^.{%d,}$`, n[0]) }, 1),
		Message: Messagef("%s should be at least %s characters"),
	})
	reg.MustRegister(Max, Rule{
		Pattern: lengthPattern(func(n []int) string { return fmt.Sprintf(`(?s)^.{0,%d}$`, n[0]) }, 1),
		Message: Messagef("%s should be at most %s characters"),
	})
	reg.MustRegister(Length, Rule{
		Pattern: lengthPattern(func(n []int) string { return fmt.Sprintf(`(?s)^.{%d}$`, n[0]) }, 1),
		Message: Messagef("%s should be exactly %s characters"),
	})
	reg.MustRegister(Between, Rule{
		Pattern: lengthPattern(func(n []int) string { return fmt.Sprintf(`(?s)^.{%d,%d}$`, n[0], n[1]) }, 2),
		Message: Messagef("%s should be between %s and %s characters"),
	})
}

// lengthPattern parses want non-negative integer arguments and compiles the
// expression produced by expr.
func lengthPattern(expr func([]int) string, want int) PatternFunc {
	return func(args ...string) (*regexp.Regexp, error) {
		if len(args) < want {
			return nil, fmt.Errorf("%w: expected %d argument(s), got %d", ErrInvalidArgs, want, len(args))
		}
		bounds := make([]int, want)
		for i := 0; i < want; i++ {
			n, err := strconv.Atoi(args[i])
			if err != nil || n < 0 {
				return nil, fmt.Errorf("%w: %q is not a non-negative integer", ErrInvalidArgs, args[i])
			}
			if n > maxRepeat {
				return nil, fmt.Errorf("%w: %d exceeds the maximum of %d", ErrInvalidArgs, n, maxRepeat)
			}
			bounds[i] = n
		}
		for i := 1; i < want; i++ {
			if bounds[i-1] > bounds[i] {
				return nil, fmt.Errorf("%w: bound %d exceeds bound %d", ErrInvalidArgs, bounds[i-1], bounds[i])
			}
		}
		return regexp.Compile(expr(bounds))
	}
}
