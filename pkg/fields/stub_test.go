package fields

import (
	"time"

	"github.com/goliatone/go-formstate/pkg/formstate"
)

type updateCall struct {
	field    formstate.Field
	validate bool
}

// stubStore records calls and stores fields verbatim, without validation.
type stubStore struct {
	data      map[string]formstate.Field
	added     []formstate.Field
	updates   []updateCall
	validated []formstate.Field
	closers   []func()
	message   string
}

func newStubStore() *stubStore {
	return &stubStore{data: make(map[string]formstate.Field)}
}

func (s *stubStore) AddField(field formstate.Field) error {
	if !field.Value.IsSet() {
		field.Value = formstate.Text("")
	}
	s.added = append(s.added, field)
	s.data[field.ID] = field
	return nil
}

func (s *stubStore) UpdateField(field formstate.Field, options ...formstate.UpdateOption) error {
	s.updates = append(s.updates, updateCall{field: field, validate: len(options) == 0})
	s.data[field.ID] = field
	return nil
}

func (s *stubStore) ValidateField(field formstate.Field) (string, error) {
	s.validated = append(s.validated, field)
	return s.message, nil
}

func (s *stubStore) Field(id string) (formstate.Field, bool) {
	field, ok := s.data[id]
	return field, ok
}

func (s *stubStore) DebounceDelay() time.Duration {
	return 0
}

func (s *stubStore) OnClose(fn func()) {
	s.closers = append(s.closers, fn)
}
