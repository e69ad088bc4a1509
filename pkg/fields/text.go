package fields

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formstate/pkg/debounce"
	"github.com/goliatone/go-formstate/pkg/formstate"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// Text is a free-text input. Changes update the form synchronously while the
// caller's OnChange callback is debounced, so a burst of keystrokes produces
// a single notification. Validation only runs once the field is committed
// by a blur.
type Text struct {
	store  Store
	cfg    Config
	notify *debounce.Debouncer[formstate.Field]
	hooked bool
}

// NewText constructs a text input bound to store.
func NewText(store Store, cfg Config) *Text {
	if cfg.Type == "" {
		cfg.Type = formstate.FieldTypeText
	}
	return &Text{store: store, cfg: cfg}
}

// ID returns the field id.
func (t *Text) ID() string {
	return t.cfg.ID
}

// Mount registers the field as untouched. The stored OnChange callback is
// the debounced wrapper around the configured one. Mounting again resets the
// record and replaces the wrapper; the previous one is stopped.
func (t *Text) Mount() error {
	field := t.cfg.field()
	if field.Value.IsSet() && field.Value.IsList() {
		field.Value = formstate.Text(field.Value.String())
	}
	t.notify.Stop()
	t.notify = nil
	if onChange := t.cfg.Events.OnChange; onChange != nil {
		t.notify = debounce.New(t.store.DebounceDelay(), onChange)
		field.Events.OnChange = t.notify.Call
	}
	if err := t.store.AddField(field); err != nil {
		t.notify.Stop()
		return err
	}
	if !t.hooked {
		t.store.OnClose(t.Close)
		t.hooked = true
	}
	return nil
}

// Field returns the current record.
func (t *Text) Field() (formstate.Field, bool) {
	return t.store.Field(t.cfg.ID)
}

// Change replaces the value. An untouched field becomes touched; touched
// fields are not validated, committed ones are.
func (t *Text) Change(value string) (formstate.Field, error) {
	field, err := current(t.store, t.cfg.ID)
	if err != nil {
		return formstate.Field{}, err
	}
	if t.cfg.Sanitize {
		value = sanitizeText(value)
	}

	updated := field.Clone()
	updated.Value = formstate.Text(value)
	if updated.Pristine == formstate.Untouched {
		updated.Pristine = formstate.Touched
	}

	if err := t.store.UpdateField(updated); err != nil {
		return formstate.Field{}, err
	}
	if stored, ok := t.store.Field(t.cfg.ID); ok {
		updated = stored
	}
	notifyChange(updated)
	return updated, nil
}

// Blur commits a touched field and validates committed ones. Untouched
// fields are left alone. OnBlur always runs with the resulting record.
func (t *Text) Blur() (formstate.Field, error) {
	field, err := current(t.store, t.cfg.ID)
	if err != nil {
		return formstate.Field{}, err
	}

	updated := field.Clone()
	if updated.Pristine == formstate.Touched {
		updated.Pristine = formstate.Committed
	}
	if updated.Pristine == formstate.Committed {
		msg, err := t.store.ValidateField(updated)
		if err != nil {
			return formstate.Field{}, err
		}
		updated.Error = msg
		if err := t.store.UpdateField(updated, formstate.SkipValidation()); err != nil {
			return formstate.Field{}, err
		}
	}

	if onBlur := updated.Events.OnBlur; onBlur != nil {
		onBlur(updated)
	}
	return updated, nil
}

// Flush delivers a pending debounced OnChange immediately.
func (t *Text) Flush() {
	t.notify.Flush()
}

// Close drops a pending debounced OnChange and ignores later ones.
func (t *Text) Close() {
	t.notify.Stop()
}

func sanitizeText(value string) string {
	if !strings.ContainsAny(value, "<>&") {
		return value
	}
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return html.UnescapeString(textPolicy.Sanitize(value))
}
