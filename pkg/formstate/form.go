package formstate

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-formstate/pkg/debounce"
	"github.com/goliatone/go-formstate/pkg/rules"
)

// Form owns the state of one form instance: a mapping from field id to field
// record plus the rule engine used to validate them. Field components receive
// the Form explicitly and register themselves on mount.
type Form struct {
	id       string
	registry *rules.Registry
	custom   map[string]rules.Rule
	engine   *rules.Engine
	logger   *slog.Logger
	debounce time.Duration

	mu        sync.RWMutex
	data      map[string]Field
	observers map[uint64]func(Field)
	nextObs   uint64
	closers   []func()
	closed    bool
}

// New constructs an empty form. Custom rules are validated here so malformed
// rules fail at wiring time.
func New(options ...FormOption) (*Form, error) {
	f := &Form{
		id:        uuid.NewString(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		debounce:  debounce.DefaultDelay,
		data:      make(map[string]Field),
		observers: make(map[uint64]func(Field)),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(f)
	}

	var registry *rules.Registry
	if f.registry != nil {
		registry = f.registry.Clone()
	} else {
		registry = rules.Default()
	}
	for name, rule := range f.custom {
		if err := registry.Set(name, rule); err != nil {
			return nil, fmt.Errorf("formstate: custom rule: %w", err)
		}
	}
	f.registry = registry
	f.engine = rules.NewEngine(registry)
	f.logger = f.logger.With(slog.String("form", f.id))
	return f, nil
}

// MustNew panics when New fails.
func MustNew(options ...FormOption) *Form {
	f, err := New(options...)
	if err != nil {
		panic(err)
	}
	return f
}

// ID returns the form instance id.
func (f *Form) ID() string {
	return f.id
}

// Rules exposes the form's rule registry.
func (f *Form) Rules() *rules.Registry {
	return f.registry
}

// DebounceDelay reports the delay fields apply to external change callbacks.
func (f *Form) DebounceDelay() time.Duration {
	return f.debounce
}

// Logger returns the form logger, scoped with the form id.
func (f *Form) Logger() *slog.Logger {
	return f.logger
}

// AddField registers field under its id, defaulting an unset value to the
// empty string. Registering an id twice overwrites the previous record.
// Registration never runs validation.
func (f *Form) AddField(field Field) error {
	if field.ID == "" {
		return missingID(field)
	}
	if !field.Value.IsSet() {
		field.Value = Text("")
	}
	if err := f.store(field.Clone()); err != nil {
		return err
	}
	f.logger.Debug("field registered", slog.String("field", field.ID), slog.String("type", string(field.Type)))
	return nil
}

// UpdateField merges field into the state. Unless SkipValidation is passed,
// committed fields are validated and the resulting message replaces
// field.Error; other fields keep the caller supplied error. Rule
// configuration errors are returned and leave the state untouched.
func (f *Form) UpdateField(field Field, options ...UpdateOption) error {
	if field.ID == "" {
		return missingID(field)
	}
	cfg := updateConfig{validate: true}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	if cfg.validate && field.Pristine == Committed {
		msg, err := f.ValidateField(field)
		if err != nil {
			f.logger.Error("field validation failed", slog.String("field", field.ID), slog.Any("error", err))
			return err
		}
		field.Error = msg
	}

	if err := f.store(field.Clone()); err != nil {
		return err
	}
	f.logger.Debug("field updated",
		slog.String("field", field.ID),
		slog.String("pristine", field.Pristine.String()),
		slog.Bool("valid", field.Error == ""),
	)
	return nil
}

// ValidateField runs the rule engine on field and returns "" when every rule
// passes, or the first failing rule's message.
func (f *Form) ValidateField(field Field) (string, error) {
	return f.engine.Validate(field.ruleInput())
}

// ValidateAll commits every registered field, re-runs validation and stores
// the results. It returns the failing messages keyed by field id.
func (f *Form) ValidateAll() (map[string]string, error) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil, ErrClosed
	}
	ids := f.sortedIDsLocked()
	updated := make([]Field, 0, len(ids))
	failures := make(map[string]string)
	for _, id := range ids {
		field := f.data[id].Clone()
		field.Pristine = Committed
		msg, err := f.engine.Validate(field.ruleInput())
		if err != nil {
			f.mu.Unlock()
			return nil, err
		}
		field.Error = msg
		if msg != "" {
			failures[id] = msg
		}
		updated = append(updated, field)
	}
	for _, field := range updated {
		f.data[field.ID] = field
	}
	observers := f.observersLocked()
	f.mu.Unlock()

	for _, field := range updated {
		notify(observers, field)
	}
	f.logger.Debug("form validated", slog.Int("fields", len(ids)), slog.Int("failures", len(failures)))
	return failures, nil
}

// Field returns a copy of the record stored under id.
func (f *Form) Field(id string) (Field, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	field, ok := f.data[id]
	if !ok {
		return Field{}, false
	}
	return field.Clone(), true
}

// Data returns a snapshot of the whole state.
func (f *Form) Data() map[string]Field {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make(map[string]Field, len(f.data))
	for id, field := range f.data {
		out[id] = field.Clone()
	}
	return out
}

// Values returns the current values keyed by id. Text values are strings and
// multi-valued fields are []string.
func (f *Form) Values() map[string]any {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make(map[string]any, len(f.data))
	for id, field := range f.data {
		out[id] = field.Value.Any()
	}
	return out
}

// Errors returns the non-empty error messages keyed by id.
func (f *Form) Errors() map[string]string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make(map[string]string)
	for id, field := range f.data {
		if field.Error != "" {
			out[id] = field.Error
		}
	}
	return out
}

// Valid reports whether no stored field carries an error. Fields that were
// never committed count as valid.
func (f *Form) Valid() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, field := range f.data {
		if field.Error != "" {
			return false
		}
	}
	return true
}

// Len returns the number of registered fields.
func (f *Form) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.data)
}

// IDs returns the registered ids in sorted order.
func (f *Form) IDs() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.sortedIDsLocked()
}

// Subscribe registers fn to be called with every stored record. The returned
// function removes the subscription.
func (f *Form) Subscribe(fn func(Field)) func() {
	if fn == nil {
		return func() {}
	}
	f.mu.Lock()
	key := f.nextObs
	f.nextObs++
	f.observers[key] = fn
	f.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.observers, key)
			f.mu.Unlock()
		})
	}
}

// OnClose registers fn to run when the form is closed. Field components use
// it to cancel pending debounced callbacks.
func (f *Form) OnClose(fn func()) {
	if fn == nil {
		return
	}
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		fn()
		return
	}
	f.closers = append(f.closers, fn)
	f.mu.Unlock()
}

// Close tears the form down. Registered close hooks run once, observers are
// dropped and later mutations return ErrClosed. Reads keep working on the
// final state.
func (f *Form) Close() {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.closed = true
	closers := f.closers
	f.closers = nil
	f.observers = make(map[uint64]func(Field))
	f.mu.Unlock()

	for _, fn := range closers {
		fn()
	}
	f.logger.Debug("form closed", slog.Int("fields", f.Len()))
}

// Closed reports whether Close was called.
func (f *Form) Closed() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.closed
}

func (f *Form) store(field Field) error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return ErrClosed
	}
	f.data[field.ID] = field
	observers := f.observersLocked()
	f.mu.Unlock()

	notify(observers, field)
	return nil
}

func (f *Form) observersLocked() []func(Field) {
	if len(f.observers) == 0 {
		return nil
	}
	keys := make([]uint64, 0, len(f.observers))
	for key := range f.observers {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	out := make([]func(Field), 0, len(keys))
	for _, key := range keys {
		out = append(out, f.observers[key])
	}
	return out
}

func (f *Form) sortedIDsLocked() []string {
	ids := make([]string, 0, len(f.data))
	for id := range f.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func notify(observers []func(Field), field Field) {
	for _, fn := range observers {
		fn(field.Clone())
	}
}

func missingID(field Field) error {
	return fmt.Errorf("%w to %s", ErrMissingID, field.serialize())
}
