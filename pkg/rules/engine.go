package rules

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
)

// Input carries the parts of a field the engine needs.
type Input struct {
	ID          string
	DisplayName string
	Value       string
	Validate    string
	// Custom rules take precedence over the engine's registry.
	Custom map[string]Rule
}

// Engine evaluates validate strings against a registry. Compiled patterns
// for registry rules are memoised per rule name and arguments, and are
// rebuilt once the registry changes.
type Engine struct {
	registry *Registry

	mu    sync.Mutex
	cache map[string]cached
}

type cached struct {
	rev uint64
	re  *regexp.Regexp
}

// NewEngine constructs an engine backed by registry. A nil registry falls
// back to Default().
func NewEngine(registry *Registry) *Engine {
	if registry == nil {
		registry = Default()
	}
	return &Engine{
		registry: registry,
		cache:    make(map[string]cached),
	}
}

// Registry exposes the backing registry.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Validate returns the message of the first failing rule, or "" when every
// rule passes. Rules other than `required` treat an empty value as
// satisfied. Unknown rules and bad arguments are returned as errors and stop
// evaluation.
func (e *Engine) Validate(in Input) (string, error) {
	name := in.DisplayName
	if name == "" {
		name = in.ID
	}

	for _, spec := range Parse(in.Validate) {
		rule, rev, custom, ok := e.resolve(spec.Name, in.Custom)
		if !ok {
			return "", fmt.Errorf("%w %q on field %q: use a registered rule name or pass a custom rule with the same name", ErrUnknownRule, spec.Name, in.ID)
		}

		if spec.Name != Required && in.Value == "" {
			continue
		}

		re, err := e.pattern(spec, rule, rev, custom)
		if err != nil {
			return "", fmt.Errorf("rule %q on field %q: %w", spec.String(), in.ID, err)
		}
		if !re.MatchString(in.Value) {
			return rule.Message(name, spec.Args...), nil
		}
	}
	return "", nil
}

func (e *Engine) resolve(name string, custom map[string]Rule) (Rule, uint64, bool, bool) {
	if rule, ok := custom[name]; ok {
		return rule, 0, true, true
	}
	rule, rev, ok := e.registry.lookup(name)
	return rule, rev, false, ok
}

func (e *Engine) pattern(spec Spec, rule Rule, rev uint64, custom bool) (*regexp.Regexp, error) {
	if err := rule.Check(); err != nil {
		return nil, err
	}
	if custom {
		return buildPattern(rule, spec.Args)
	}

	key := spec.Name + "\x00" + strings.Join(spec.Args, "\x00")
	e.mu.Lock()
	hit, ok := e.cache[key]
	e.mu.Unlock()
	if ok && hit.rev == rev {
		return hit.re, nil
	}

	re, err := buildPattern(rule, spec.Args)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	if prev, ok := e.cache[key]; !ok || prev.rev <= rev {
		e.cache[key] = cached{rev: rev, re: re}
	}
	e.mu.Unlock()
	return re, nil
}

func buildPattern(rule Rule, args []string) (*regexp.Regexp, error) {
	re, err := rule.Pattern(args...)
	if err != nil {
		return nil, err
	}
	if re == nil {
		return nil, fmt.Errorf("%w: pattern constructor returned nil", ErrInvalidRule)
	}
	return re, nil
}
