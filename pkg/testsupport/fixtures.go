// Package testsupport holds helpers shared by package tests: fixture lookup,
// definition loading, throwaway forms and a scripted prompt driver.
package testsupport

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/goliatone/go-formstate/pkg/formdef"
	"github.com/goliatone/go-formstate/pkg/formstate"
	"github.com/goliatone/go-formstate/pkg/prompt"
)

// Fixture resolves a path relative to the repository root so tests in any
// package can share fixtures.
func Fixture(t *testing.T, parts ...string) string {
	t.Helper()

	_, here, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("testsupport: unable to resolve repository root")
	}
	root := filepath.Join(filepath.Dir(here), "..", "..")
	path := filepath.Join(append([]string{root}, parts...)...)
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("testsupport: fixture %s: %v", path, err)
	}
	return path
}

// LoadDefinition reads a definition fixture, failing the test on error.
func LoadDefinition(t *testing.T, path string) formdef.Definition {
	t.Helper()

	def, err := formdef.Load(path)
	if err != nil {
		t.Fatalf("load definition: %v", err)
	}
	return def
}

// LoadOpenAPIDefinition derives a definition from an OpenAPI fixture.
func LoadOpenAPIDefinition(t *testing.T, path, operationID string) formdef.Definition {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read document: %v", err)
	}
	def, err := formdef.FromOpenAPI(context.Background(), data, operationID)
	if err != nil {
		t.Fatalf("from openapi: %v", err)
	}
	return def
}

// NewForm builds a form that is closed when the test ends.
func NewForm(t *testing.T, opts ...formstate.FormOption) *formstate.Form {
	t.Helper()

	form, err := formstate.New(opts...)
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	t.Cleanup(form.Close)
	return form
}

// ErrNotScripted is returned by ScriptedDriver when a prompt has no answer
// queued.
var ErrNotScripted = errors.New("testsupport: prompt not scripted")

// ScriptedDriver answers prompts from queues. Every prompt message is
// recorded in Asked; Info messages in Infos.
type ScriptedDriver struct {
	mu      sync.Mutex
	Inputs  []string
	Selects []int
	Multis  [][]int
	Asked   []string
	Infos   []string
}

var _ prompt.Driver = (*ScriptedDriver)(nil)

func (s *ScriptedDriver) Input(_ context.Context, cfg prompt.InputConfig) (string, error) {
	return s.nextInput("input", cfg)
}

func (s *ScriptedDriver) Password(_ context.Context, cfg prompt.InputConfig) (string, error) {
	return s.nextInput("password", cfg)
}

func (s *ScriptedDriver) TextArea(_ context.Context, cfg prompt.InputConfig) (string, error) {
	return s.nextInput("textarea", cfg)
}

func (s *ScriptedDriver) Select(_ context.Context, cfg prompt.SelectConfig) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Asked = append(s.Asked, "select:"+cfg.Message)
	if len(s.Selects) == 0 {
		return -1, fmt.Errorf("%w: select %q", ErrNotScripted, cfg.Message)
	}
	val := s.Selects[0]
	s.Selects = s.Selects[1:]
	return val, nil
}

func (s *ScriptedDriver) MultiSelect(_ context.Context, cfg prompt.SelectConfig) ([]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Asked = append(s.Asked, "multiselect:"+cfg.Message)
	if len(s.Multis) == 0 {
		return nil, fmt.Errorf("%w: multiselect %q", ErrNotScripted, cfg.Message)
	}
	val := s.Multis[0]
	s.Multis = s.Multis[1:]
	return val, nil
}

func (s *ScriptedDriver) Info(_ context.Context, msg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Infos = append(s.Infos, msg)
	return nil
}

func (s *ScriptedDriver) nextInput(kind string, cfg prompt.InputConfig) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Asked = append(s.Asked, kind+":"+cfg.Message)
	if len(s.Inputs) == 0 {
		return "", fmt.Errorf("%w: %s %q", ErrNotScripted, kind, cfg.Message)
	}
	val := s.Inputs[0]
	s.Inputs = s.Inputs[1:]
	return val, nil
}
