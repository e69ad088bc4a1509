package fields

import (
	"fmt"

	"github.com/goliatone/go-formstate/pkg/formstate"
)

// Choice is a single-choice input (radio group or select). A selection is
// an immediate commit: the field skips the touched stage and validates on
// every change.
type Choice struct {
	store Store
	cfg   Config
}

// NewChoice constructs a single-choice input bound to store.
func NewChoice(store Store, cfg Config) *Choice {
	if cfg.Type == "" {
		cfg.Type = formstate.FieldTypeSelect
	}
	return &Choice{store: store, cfg: cfg}
}

// ID returns the field id.
func (c *Choice) ID() string {
	return c.cfg.ID
}

// Mount registers the field as untouched with an empty default value.
func (c *Choice) Mount() error {
	field := c.cfg.field()
	if !field.Value.IsSet() {
		field.Value = formstate.Text("")
	}
	return c.store.AddField(field)
}

// Field returns the current record.
func (c *Choice) Field() (formstate.Field, bool) {
	return c.store.Field(c.cfg.ID)
}

// Options returns the configured options.
func (c *Choice) Options() []formstate.Option {
	return append([]formstate.Option(nil), c.cfg.Options...)
}

// Select replaces the value and commits the field. The empty value clears
// the selection; any other value must match an option when options are
// configured.
func (c *Choice) Select(value string) (formstate.Field, error) {
	field, err := current(c.store, c.cfg.ID)
	if err != nil {
		return formstate.Field{}, err
	}
	if value != "" && len(field.Options) > 0 && !field.HasOption(value) {
		return formstate.Field{}, fmt.Errorf("%w %q for field %q", ErrUnknownOption, value, c.cfg.ID)
	}

	updated := field.Clone()
	updated.Value = formstate.Text(value)
	updated.Pristine = formstate.Committed

	if err := c.store.UpdateField(updated); err != nil {
		return formstate.Field{}, err
	}
	if stored, ok := c.store.Field(c.cfg.ID); ok {
		updated = stored
	}
	notifyChange(updated)
	return updated, nil
}

// Close is a no-op; choice inputs hold no timers.
func (c *Choice) Close() {}
