// Package fields provides the controlled input components that register
// themselves into a form and translate user interactions into state
// transitions: free-text inputs, single choice (radio/select) and multi
// choice (checkbox/multi-select).
//
// Components receive the form they belong to at construction time. They do
// not hold state of their own beyond configuration; every read goes back to
// the form so concurrent updates are never lost.
package fields

import (
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-formstate/pkg/formstate"
	"github.com/goliatone/go-formstate/pkg/rules"
)

var (
	// ErrNotMounted is returned when a component is used before Mount.
	ErrNotMounted = errors.New("fields: component is not mounted")
	// ErrUnknownOption is returned when a choice field receives a value that
	// is not one of its options.
	ErrUnknownOption = errors.New("fields: unknown option")
	// ErrUnsupportedType is returned by Build for unknown field types.
	ErrUnsupportedType = errors.New("fields: unsupported field type")
)

// Store is the part of formstate.Form that components depend on.
type Store interface {
	AddField(field formstate.Field) error
	UpdateField(field formstate.Field, options ...formstate.UpdateOption) error
	ValidateField(field formstate.Field) (string, error)
	Field(id string) (formstate.Field, bool)
	DebounceDelay() time.Duration
	OnClose(fn func())
}

var _ Store = (*formstate.Form)(nil)

// Component is implemented by every input component.
type Component interface {
	// ID returns the field id.
	ID() string
	// Mount registers the field into the form. Call it once.
	Mount() error
	// Field returns the current record from the form.
	Field() (formstate.Field, bool)
	// Close cancels pending callbacks.
	Close()
}

// Config declares a field. It mirrors the attributes of formstate.Field that
// a caller controls.
type Config struct {
	ID          string
	Label       string
	DisplayName string
	Placeholder string
	Type        formstate.FieldType
	Value       formstate.Value
	Validate    string
	Options     []formstate.Option
	Events      formstate.Events
	CustomRules map[string]rules.Rule
	// Sanitize strips markup from typed text.
	Sanitize bool
}

func (c Config) field() formstate.Field {
	return formstate.Field{
		ID:          c.ID,
		Label:       c.Label,
		DisplayName: c.DisplayName,
		Placeholder: c.Placeholder,
		Type:        c.Type,
		Value:       c.Value,
		Validate:    c.Validate,
		Options:     append([]formstate.Option(nil), c.Options...),
		Events:      c.Events,
		CustomRules: c.CustomRules,
		Pristine:    formstate.Untouched,
	}
}

// Build selects the component matching cfg.Type. An empty type yields a text
// input.
func Build(store Store, cfg Config) (Component, error) {
	switch {
	case cfg.Type.IsTextLike():
		return NewText(store, cfg), nil
	case cfg.Type.IsSingleChoice():
		return NewChoice(store, cfg), nil
	case cfg.Type.IsMultiChoice():
		return NewMultiChoice(store, cfg), nil
	default:
		return nil, fmt.Errorf("%w %q for field %q", ErrUnsupportedType, cfg.Type, cfg.ID)
	}
}

// MountAll builds and mounts every config in order.
func MountAll(store Store, configs ...Config) ([]Component, error) {
	components := make([]Component, 0, len(configs))
	for _, cfg := range configs {
		component, err := Build(store, cfg)
		if err != nil {
			return nil, err
		}
		if err := component.Mount(); err != nil {
			return nil, err
		}
		components = append(components, component)
	}
	return components, nil
}

func current(store Store, id string) (formstate.Field, error) {
	field, ok := store.Field(id)
	if !ok {
		return formstate.Field{}, fmt.Errorf("%w: %q", ErrNotMounted, id)
	}
	return field, nil
}

func notifyChange(field formstate.Field) {
	if field.Events.OnChange != nil {
		field.Events.OnChange(field)
	}
}
