package rules

import (
	"fmt"
	"sort"
	"sync"
)

// Registry stores rules by name. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	rules map[string]Rule

	// rev changes on every write so engines can drop compiled patterns.
	rev uint64
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		rules: make(map[string]Rule),
	}
}

// Default returns a fresh registry preloaded with the built-in rules.
func Default() *Registry {
	reg := NewRegistry()
	registerBuiltins(reg)
	return reg
}

// Register adds a rule. Duplicate names return ErrDuplicateRule.
func (r *Registry) Register(name string, rule Rule) error {
	if err := checkName(name); err != nil {
		return err
	}
	if err := rule.Check(); err != nil {
		return fmt.Errorf("rule %q: %w", name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rules[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateRule, name)
	}
	r.rules[name] = rule
	r.rev++
	return nil
}

// Set adds or replaces a rule.
func (r *Registry) Set(name string, rule Rule) error {
	if err := checkName(name); err != nil {
		return err
	}
	if err := rule.Check(); err != nil {
		return fmt.Errorf("rule %q: %w", name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules[name] = rule
	r.rev++
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(name string, rule Rule) {
	if err := r.Register(name, rule); err != nil {
		panic(err)
	}
}

// Get retrieves a rule by name.
func (r *Registry) Get(name string) (Rule, bool) {
	rule, _, ok := r.lookup(name)
	return rule, ok
}

// lookup returns the rule together with the revision it was read at.
func (r *Registry) lookup(name string) (Rule, uint64, bool) {
	if r == nil {
		return Rule{}, 0, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	rule, ok := r.rules[name]
	return rule, r.rev, ok
}

// Has reports whether a rule is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// List returns the sorted rule names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.rules))
	for name := range r.rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns an independent copy of the registry.
func (r *Registry) Clone() *Registry {
	clone := NewRegistry()
	if r == nil {
		return clone
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for name, rule := range r.rules {
		clone.rules[name] = rule
	}
	return clone
}
