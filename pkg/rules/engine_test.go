package rules_test

import (
	"errors"
	"regexp"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/rules"
)

func TestEngine_EmptyValidateAlwaysPasses(t *testing.T) {
	engine := rules.NewEngine(nil)
	for _, value := range []string{"", "some value", "@@@"} {
		msg, err := engine.Validate(rules.Input{ID: "test", Value: value})
		if err != nil {
			t.Fatalf("validate %q: %v", value, err)
		}
		if msg != "" {
			t.Fatalf("expected no error for %q, got %q", value, msg)
		}
	}
}

func TestEngine_Required(t *testing.T) {
	engine := rules.NewEngine(nil)

	msg, err := engine.Validate(rules.Input{ID: "test", Validate: "required"})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if msg != "test is required" {
		t.Fatalf("unexpected message %q", msg)
	}

	for _, value := range []string{"x", " ", "some value", "line\nbreak"} {
		msg, err := engine.Validate(rules.Input{ID: "test", Value: value, Validate: "required"})
		if err != nil {
			t.Fatalf("validate %q: %v", value, err)
		}
		if msg != "" {
			t.Fatalf("expected %q to satisfy required, got %q", value, msg)
		}
	}
}

func TestEngine_EmptyValueSkipsNonRequiredRules(t *testing.T) {
	engine := rules.NewEngine(nil)
	for _, validate := range []string{"email", "min-5", "numeric|alpha", "length-3", "between-2-4", "url"} {
		msg, err := engine.Validate(rules.Input{ID: "test", Validate: validate})
		if err != nil {
			t.Fatalf("validate %q: %v", validate, err)
		}
		if msg != "" {
			t.Fatalf("expected empty value to pass %q, got %q", validate, msg)
		}
	}
}

func TestEngine_ShortCircuitsOnFirstFailure(t *testing.T) {
	engine := rules.NewEngine(nil)

	msg, err := engine.Validate(rules.Input{ID: "email", Validate: "required|email"})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if msg != "email is required" {
		t.Fatalf("expected required message, got %q", msg)
	}

	msg, err = engine.Validate(rules.Input{ID: "test", Value: "some value", Validate: "required|email"})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if msg != "test is not valid email" {
		t.Fatalf("expected email message, got %q", msg)
	}
}

func TestEngine_ArgumentsAndDisplayName(t *testing.T) {
	engine := rules.NewEngine(nil)
	cases := []struct {
		name     string
		input    rules.Input
		expected string
	}{
		{
			name:     "min fails",
			input:    rules.Input{ID: "nick", DisplayName: "Nickname", Value: "abc", Validate: "min-5"},
			expected: "Nickname should be at least 5 characters",
		},
		{
			name:     "min passes",
			input:    rules.Input{ID: "nick", Value: "abcde", Validate: "min-5"},
			expected: "",
		},
		{
			name:     "max fails",
			input:    rules.Input{ID: "nick", Value: "abcdef", Validate: "max-3"},
			expected: "nick should be at most 3 characters",
		},
		{
			name:     "length counts runes",
			input:    rules.Input{ID: "code", Value: "äöü", Validate: "length-3"},
			expected: "",
		},
		{
			name:     "between fails",
			input:    rules.Input{ID: "pin", Value: "1", Validate: "required|numeric|between-2-4"},
			expected: "pin should be between 2 and 4 characters",
		},
		{
			name:     "numeric fails before between",
			input:    rules.Input{ID: "pin", Value: "ab", Validate: "numeric|between-2-4"},
			expected: "pin should contain only numbers",
		},
		{
			name:     "empty specifiers ignored",
			input:    rules.Input{ID: "site", Value: "https://example.com", Validate: "|url||"},
			expected: "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg, err := engine.Validate(tc.input)
			if err != nil {
				t.Fatalf("validate: %v", err)
			}
			if msg != tc.expected {
				t.Fatalf("expected %q, got %q", tc.expected, msg)
			}
		})
	}
}

func TestEngine_UnknownRuleFailsFast(t *testing.T) {
	engine := rules.NewEngine(nil)

	_, err := engine.Validate(rules.Input{ID: "test", Value: "value", Validate: "required|wrong|email"})
	if !errors.Is(err, rules.ErrUnknownRule) {
		t.Fatalf("expected ErrUnknownRule, got %v", err)
	}

	// unknown names fail even when the value is empty
	_, err = engine.Validate(rules.Input{ID: "test", Validate: "wrong"})
	if !errors.Is(err, rules.ErrUnknownRule) {
		t.Fatalf("expected ErrUnknownRule for empty value, got %v", err)
	}
}

func TestEngine_InvalidArguments(t *testing.T) {
	engine := rules.NewEngine(nil)
	for _, validate := range []string{"min-abc", "min", "max--1", "between-5-2", "length-5000"} {
		_, err := engine.Validate(rules.Input{ID: "test", Value: "value", Validate: validate})
		if !errors.Is(err, rules.ErrInvalidArgs) {
			t.Fatalf("%s: expected ErrInvalidArgs, got %v", validate, err)
		}
	}
}

func TestEngine_CustomRulesOverrideRegistry(t *testing.T) {
	engine := rules.NewEngine(nil)
	custom := map[string]rules.Rule{
		"required": rules.Static(`\S`, rules.Messagef("please fill in %s")),
		"prefix": {
			Pattern: func(args ...string) (*regexp.Regexp, error) {
				return regexp.Compile("^" + regexp.QuoteMeta(args[0]))
			},
			Message: rules.Messagef("%s must start with %s"),
		},
	}

	msg, err := engine.Validate(rules.Input{ID: "sku", Value: "  ", Validate: "required", Custom: custom})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if msg != "please fill in sku" {
		t.Fatalf("expected custom required message, got %q", msg)
	}

	msg, err = engine.Validate(rules.Input{ID: "sku", Value: "XY-1", Validate: "prefix-AB", Custom: custom})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if msg != "sku must start with AB" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestEngine_RegistryChangesReplaceCompiledPatterns(t *testing.T) {
	registry := rules.Default()
	engine := rules.NewEngine(registry)
	in := rules.Input{ID: "code", Value: "abcd", Validate: "min-3"}

	msg, err := engine.Validate(in)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if msg != "" {
		t.Fatalf("expected built-in min to pass, got %q", msg)
	}

	if err := registry.Set(rules.Min, rules.Static(`^x+$`, rules.Messagef("%s must be all x"))); err != nil {
		t.Fatalf("set: %v", err)
	}
	msg, err = engine.Validate(in)
	if err != nil {
		t.Fatalf("validate after set: %v", err)
	}
	if msg != "code must be all x" {
		t.Fatalf("expected replaced rule to apply, got %q", msg)
	}

	if err := registry.Register("hex", rules.Static(`^[0-9a-f]+$`, rules.Messagef("%s must be hex"))); err != nil {
		t.Fatalf("register: %v", err)
	}
	msg, err = engine.Validate(rules.Input{ID: "code", Value: "xxxx", Validate: "min-3|hex"})
	if err != nil {
		t.Fatalf("validate after register: %v", err)
	}
	if msg != "code must be hex" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestParse(t *testing.T) {
	got := rules.Parse("required||between-2-4|email")
	want := []rules.Spec{
		{Name: "required"},
		{Name: "between", Args: []string{"2", "4"}},
		{Name: "email"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("parse mismatch (-want +got):\n%s", diff)
	}
	if rules.Parse("") != nil {
		t.Fatalf("expected nil specs for empty input")
	}
	if joined := rules.Join(got...); joined != "required|between-2-4|email" {
		t.Fatalf("unexpected join %q", joined)
	}
}
