package fields

import (
	"fmt"

	"github.com/goliatone/go-formstate/pkg/formstate"
)

// MultiChoice is a multi-valued input (checkbox group or multi-select). The
// value is an ordered list; every effective toggle commits the field.
type MultiChoice struct {
	store Store
	cfg   Config
}

// NewMultiChoice constructs a multi-choice input bound to store.
func NewMultiChoice(store Store, cfg Config) *MultiChoice {
	if cfg.Type == "" {
		cfg.Type = formstate.FieldTypeMultiSelect
	}
	return &MultiChoice{store: store, cfg: cfg}
}

// ID returns the field id.
func (m *MultiChoice) ID() string {
	return m.cfg.ID
}

// Mount registers the field as untouched with a list value, empty unless
// initial items were configured.
func (m *MultiChoice) Mount() error {
	field := m.cfg.field()
	field.Value = formstate.List(field.Value.Items()...)
	return m.store.AddField(field)
}

// Field returns the current record.
func (m *MultiChoice) Field() (formstate.Field, bool) {
	return m.store.Field(m.cfg.ID)
}

// Options returns the configured options.
func (m *MultiChoice) Options() []formstate.Option {
	return append([]formstate.Option(nil), m.cfg.Options...)
}

// Add appends value when it is not selected yet. Selecting an already
// selected value changes nothing and fires no callback.
func (m *MultiChoice) Add(value string) (formstate.Field, error) {
	field, err := current(m.store, m.cfg.ID)
	if err != nil {
		return formstate.Field{}, err
	}
	if len(field.Options) > 0 && !field.HasOption(value) {
		return formstate.Field{}, fmt.Errorf("%w %q for field %q", ErrUnknownOption, value, m.cfg.ID)
	}
	if field.Value.Contains(value) {
		return field, nil
	}
	return m.commit(field, field.Value.Append(value))
}

// Remove drops the first occurrence of value. Removing a value that is not
// selected keeps the list as is but still commits the field.
func (m *MultiChoice) Remove(value string) (formstate.Field, error) {
	field, err := current(m.store, m.cfg.ID)
	if err != nil {
		return formstate.Field{}, err
	}
	return m.commit(field, field.Value.Remove(value))
}

// Toggle adds value when checked and removes it otherwise.
func (m *MultiChoice) Toggle(value string, checked bool) (formstate.Field, error) {
	if checked {
		return m.Add(value)
	}
	return m.Remove(value)
}

// Set replaces the selection with values in a single update. Already
// selected entries keep their position, new ones are appended in the order
// given and duplicates are ignored. An unknown value rejects the whole call
// and leaves the field unchanged.
func (m *MultiChoice) Set(values ...string) (formstate.Field, error) {
	field, err := current(m.store, m.cfg.ID)
	if err != nil {
		return formstate.Field{}, err
	}
	want := make(map[string]struct{}, len(values))
	for _, value := range values {
		if len(field.Options) > 0 && !field.HasOption(value) {
			return formstate.Field{}, fmt.Errorf("%w %q for field %q", ErrUnknownOption, value, m.cfg.ID)
		}
		want[value] = struct{}{}
	}

	items := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, selected := range field.Value.Items() {
		if _, keep := want[selected]; !keep {
			continue
		}
		if _, dup := seen[selected]; dup {
			continue
		}
		seen[selected] = struct{}{}
		items = append(items, selected)
	}
	for _, value := range values {
		if _, dup := seen[value]; dup {
			continue
		}
		seen[value] = struct{}{}
		items = append(items, value)
	}
	return m.commit(field, formstate.List(items...))
}

// Close is a no-op; multi-choice inputs hold no timers.
func (m *MultiChoice) Close() {}

func (m *MultiChoice) commit(field formstate.Field, value formstate.Value) (formstate.Field, error) {
	updated := field.Clone()
	updated.Value = value
	updated.Pristine = formstate.Committed

	if err := m.store.UpdateField(updated); err != nil {
		return formstate.Field{}, err
	}
	if stored, ok := m.store.Field(m.cfg.ID); ok {
		updated = stored
	}
	notifyChange(updated)
	return updated, nil
}
