package formdef_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/fields"
	"github.com/goliatone/go-formstate/pkg/formdef"
	"github.com/goliatone/go-formstate/pkg/formstate"
	"github.com/goliatone/go-formstate/pkg/rules"
	"github.com/goliatone/go-formstate/pkg/testsupport"
)

func TestLoad_SignupDefinition(t *testing.T) {
	def, err := formdef.Load("testdata/signup.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if def.ID != "signup" || def.Title != "Sign up" {
		t.Fatalf("unexpected header %q/%q", def.ID, def.Title)
	}

	if diff := cmp.Diff([]string{"email", "Name", "zip", "sku", "plan", "langs"}, def.FieldIDs()); diff != "" {
		t.Fatalf("field ids mismatch (-want +got):\n%s", diff)
	}

	configs, err := def.Configs()
	if err != nil {
		t.Fatalf("configs: %v", err)
	}
	validates := make([]string, 0, len(configs))
	for _, cfg := range configs {
		validates = append(validates, cfg.Validate)
	}
	want := []string{"required|email", "required|min-2|max-40", "zip", "prefix-AB", "", "required"}
	if diff := cmp.Diff(want, validates); diff != "" {
		t.Fatalf("validate strings mismatch (-want +got):\n%s", diff)
	}
	if !configs[4].Value.Equal(formstate.Text("free")) {
		t.Fatalf("expected select default, got %v", configs[4].Value.Any())
	}
	if !configs[5].Value.Equal(formstate.List("go")) {
		t.Fatalf("expected list default, got %v", configs[5].Value.Any())
	}
	if !configs[1].Sanitize {
		t.Fatalf("expected sanitize flag on name")
	}
}

func TestDefinition_MountAndValidateWithCustomRules(t *testing.T) {
	def := testsupport.LoadDefinition(t, "testdata/signup.yaml")
	form := testsupport.NewForm(t)

	components, err := def.Mount(form, nil)
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	byID := make(map[string]fields.Component, len(components))
	for _, component := range components {
		byID[component.ID()] = component
	}

	zip := byID["zip"].(*fields.Text)
	if _, err := zip.Change("12a"); err != nil {
		t.Fatalf("change: %v", err)
	}
	blurred, err := zip.Blur()
	if err != nil {
		t.Fatalf("blur: %v", err)
	}
	if blurred.Error != "zip is not a valid zip code" {
		t.Fatalf("unexpected zip error %q", blurred.Error)
	}

	sku := byID["sku"].(*fields.Text)
	if _, err := sku.Change("XY-1"); err != nil {
		t.Fatalf("change: %v", err)
	}
	blurred, err = sku.Blur()
	if err != nil {
		t.Fatalf("blur: %v", err)
	}
	if blurred.Error != "sku must start with AB" {
		t.Fatalf("unexpected sku error %q", blurred.Error)
	}

	failures, err := form.ValidateAll()
	if err != nil {
		t.Fatalf("validate all: %v", err)
	}
	wantFailures := map[string]string{
		"email": "email is required",
		"Name":  "Name is required",
		"zip":   "zip is not a valid zip code",
		"sku":   "sku must start with AB",
	}
	if diff := cmp.Diff(wantFailures, failures); diff != "" {
		t.Fatalf("failures mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_RejectsBrokenDefinitions(t *testing.T) {
	cases := map[string]string{
		"missing id":     "fields:\n  - type: text\n",
		"duplicate id":   "fields:\n  - id: a\n  - id: a\n",
		"unknown type":   "fields:\n  - id: a\n    type: slider\n",
		"unknown rule":   "fields:\n  - id: a\n    validate: wrong\n",
		"bad rule name":  "rules:\n  bad-name:\n    pattern: x\nfields:\n  - id: a\n",
		"bad pattern":    "rules:\n  broken:\n    pattern: '('\nfields:\n  - id: a\n",
		"empty pattern":  "rules:\n  empty:\n    message: x\nfields:\n  - id: a\n",
		"bad value type": "fields:\n  - id: a\n    value: {x: 1}\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := formdef.Parse([]byte(doc), name); !errors.Is(err, formdef.ErrInvalidDefinition) {
				t.Fatalf("expected ErrInvalidDefinition, got %v", err)
			}
		})
	}

	if _, err := formdef.Parse([]byte("fields: [\n"), "broken"); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestDefinition_ResolvesRulesAgainstTheFormRegistry(t *testing.T) {
	zip5 := rules.Static(`^\d{5}$`, rules.Messagef("%s needs five digits"))
	doc := []byte("id: address\nfields:\n  - id: zip\n    validate: zip5\n")

	if _, err := formdef.Parse(doc, "address"); !errors.Is(err, rules.ErrUnknownRule) {
		t.Fatalf("expected ErrUnknownRule against the built-in rules, got %v", err)
	}

	registry := rules.Default()
	registry.MustRegister("zip5", zip5)
	def, err := formdef.ParseWith(doc, "address", registry)
	if err != nil {
		t.Fatalf("parse with registry: %v", err)
	}

	if _, err := def.Mount(testsupport.NewForm(t), nil); !errors.Is(err, formdef.ErrInvalidDefinition) {
		t.Fatalf("expected mount into a form without zip5 to fail, got %v", err)
	}

	form := testsupport.NewForm(t, formstate.WithCustomRules(map[string]rules.Rule{"zip5": zip5}))
	components, err := def.Mount(form, nil)
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	zip := components[0].(*fields.Text)
	if _, err := zip.Change("123"); err != nil {
		t.Fatalf("change: %v", err)
	}
	blurred, err := zip.Blur()
	if err != nil {
		t.Fatalf("blur: %v", err)
	}
	if blurred.Error != "zip needs five digits" {
		t.Fatalf("unexpected zip error %q", blurred.Error)
	}
}

func TestLoadFS_JSONDefinition(t *testing.T) {
	fsys := fstest.MapFS{
		"forms/contact.json": {Data: []byte(`{"id":"contact","fields":[{"label":"Message","type":"textarea","required":true}]}`)},
	}
	def, err := formdef.LoadFS(fsys, "forms/contact.json")
	if err != nil {
		t.Fatalf("load fs: %v", err)
	}
	configs, err := def.Configs()
	if err != nil {
		t.Fatalf("configs: %v", err)
	}
	if len(configs) != 1 || configs[0].ID != "Message" || configs[0].Type != formstate.FieldTypeTextArea || configs[0].Validate != "required" {
		t.Fatalf("unexpected configs %+v", configs)
	}
}

func TestRuleDef_ArgumentsAreQuoted(t *testing.T) {
	rule, err := formdef.RuleDef{Pattern: "^{arg0}$", Message: "{name} must equal {arg0}"}.Compile()
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	engine := rules.NewEngine(nil)
	custom := map[string]rules.Rule{"eq": rule}

	msg, err := engine.Validate(rules.Input{ID: "code", Value: "a.c", Validate: "eq-a.c", Custom: custom})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if msg != "" {
		t.Fatalf("expected literal match, got %q", msg)
	}
	msg, err = engine.Validate(rules.Input{ID: "code", Value: "abc", Validate: "eq-a.c", Custom: custom})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if msg != "code must equal a.c" {
		t.Fatalf("dot should be quoted, got %q", msg)
	}

	if _, err := engine.Validate(rules.Input{ID: "code", Value: "abc", Validate: "eq", Custom: custom}); !errors.Is(err, rules.ErrInvalidArgs) {
		t.Fatalf("expected ErrInvalidArgs for missing argument, got %v", err)
	}
}

func TestFromOpenAPI_CreatePet(t *testing.T) {
	def := testsupport.LoadOpenAPIDefinition(t, "testdata/petstore.json", "createPet")
	if def.Title != "Create pet" {
		t.Fatalf("unexpected title %q", def.Title)
	}

	configs, err := def.Configs()
	if err != nil {
		t.Fatalf("configs: %v", err)
	}
	type summary struct {
		ID       string
		Label    string
		Type     formstate.FieldType
		Validate string
		Options  []formstate.Option
	}
	got := make([]summary, 0, len(configs))
	for _, cfg := range configs {
		got = append(got, summary{ID: cfg.ID, Label: cfg.Label, Type: cfg.Type, Validate: cfg.Validate, Options: cfg.Options})
	}
	want := []summary{
		{ID: "name", Label: "Name", Type: formstate.FieldTypeText, Validate: "required|min-2|max-20"},
		{ID: "ownerEmail", Label: "Owner email", Type: formstate.FieldTypeEmail, Validate: "required|email"},
		{ID: "status", Label: "Status", Type: formstate.FieldTypeSelect, Options: []formstate.Option{
			{Value: "available", Name: "Available"},
			{Value: "sold", Name: "Sold"},
		}},
		{ID: "age", Label: "Age", Type: formstate.FieldTypeNumber, Validate: "numeric"},
		{ID: "chip", Label: "Chip", Type: formstate.FieldTypeText, Validate: "chip_pattern"},
		{ID: "tags", Label: "Tags", Type: formstate.FieldTypeMultiSelect, Options: []formstate.Option{
			{Value: "cute", Name: "Cute"},
			{Value: "loud", Name: "Loud"},
		}},
		{ID: "vaccinated", Label: "Vaccinated", Type: formstate.FieldTypeCheckbox, Options: []formstate.Option{
			{Value: "true", Name: "Vaccinated"},
		}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}

	form := testsupport.NewForm(t)
	if _, err := def.Mount(form, nil); err != nil {
		t.Fatalf("mount: %v", err)
	}
	msg, err := form.ValidateField(formstate.Field{ID: "chip", Value: formstate.Text("ab-12"), Validate: "chip_pattern", CustomRules: configs[4].CustomRules})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if msg != "chip has an invalid format" {
		t.Fatalf("unexpected chip message %q", msg)
	}
}

func TestFromOpenAPI_UnknownOperation(t *testing.T) {
	data, err := os.ReadFile("testdata/petstore.json")
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	if _, err := formdef.FromOpenAPI(context.Background(), data, "deletePet"); err == nil {
		t.Fatalf("expected error for unknown operation")
	}
}
