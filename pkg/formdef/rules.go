package formdef

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/goliatone/go-formstate/internal/placeholder"
	"github.com/goliatone/go-formstate/pkg/rules"
)

// RuleDef declares a custom rule. Pattern is a regular expression where
// `{arg0}`, `{arg1}` are replaced by the quoted specifier arguments. Message
// may reference `{name}` and the same `{argN}` placeholders.
type RuleDef struct {
	Pattern string `json:"pattern" yaml:"pattern"`
	Message string `json:"message" yaml:"message"`
}

// Compile turns the declaration into a rule. Patterns without placeholders
// are compiled once, so syntax errors surface here.
func (r RuleDef) Compile() (rules.Rule, error) {
	if strings.TrimSpace(r.Pattern) == "" {
		return rules.Rule{}, fmt.Errorf("%w: pattern is required", rules.ErrInvalidRule)
	}
	message := r.Message
	if strings.TrimSpace(message) == "" {
		message = "{name} is invalid"
	}

	rule := rules.Rule{
		Message: func(name string, args ...string) string {
			return placeholder.Expand(strings.ReplaceAll(message, "{name}", name), args, false)
		},
	}

	if !placeholder.Has(r.Pattern) {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return rules.Rule{}, fmt.Errorf("%w: %v", rules.ErrInvalidRule, err)
		}
		rule.Pattern = func(...string) (*regexp.Regexp, error) { return re, nil }
		return rule, nil
	}

	pattern := r.Pattern
	rule.Pattern = func(args ...string) (*regexp.Regexp, error) {
		if want := placeholder.Arity(pattern); len(args) < want {
			return nil, fmt.Errorf("%w: expected %d argument(s), got %d", rules.ErrInvalidArgs, want, len(args))
		}
		re, err := regexp.Compile(placeholder.Expand(pattern, args, true))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", rules.ErrInvalidArgs, err)
		}
		return re, nil
	}
	return rule, nil
}

// CompileRules compiles every custom rule, validating names the same way a
// rules.Registry does.
func (d Definition) CompileRules() (map[string]rules.Rule, error) {
	if len(d.Rules) == 0 {
		return nil, nil
	}
	scratch := rules.NewRegistry()
	out := make(map[string]rules.Rule, len(d.Rules))
	for _, name := range sortedRuleNames(d.Rules) {
		rule, err := d.Rules[name].Compile()
		if err != nil {
			return nil, fmt.Errorf("%w: rule %q: %w", ErrInvalidDefinition, name, err)
		}
		if err := scratch.Register(name, rule); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidDefinition, err)
		}
		out[name] = rule
	}
	return out, nil
}
