package rules

import "strings"

// Spec is one parsed rule specifier.
type Spec struct {
	Name string
	Args []string
}

// String renders the specifier back into its `name-arg` form.
func (s Spec) String() string {
	if len(s.Args) == 0 {
		return s.Name
	}
	return s.Name + "-" + strings.Join(s.Args, "-")
}

// Parse splits a validate string on `|` and each specifier on `-`. Empty
// specifiers are skipped, so "" and "required||email" are both accepted.
func Parse(validate string) []Spec {
	if validate == "" {
		return nil
	}
	var specs []Spec
	for _, raw := range strings.Split(validate, "|") {
		if raw == "" {
			continue
		}
		parts := strings.Split(raw, "-")
		spec := Spec{Name: parts[0]}
		if len(parts) > 1 {
			spec.Args = parts[1:]
		}
		specs = append(specs, spec)
	}
	return specs
}

// Join renders specifiers into a validate string.
func Join(specs ...Spec) string {
	parts := make([]string, 0, len(specs))
	for _, spec := range specs {
		if spec.Name == "" {
			continue
		}
		parts = append(parts, spec.String())
	}
	return strings.Join(parts, "|")
}
