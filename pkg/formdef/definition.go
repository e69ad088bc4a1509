package formdef

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formstate/pkg/fields"
	"github.com/goliatone/go-formstate/pkg/formstate"
	"github.com/goliatone/go-formstate/pkg/rules"
)

var (
	// ErrInvalidDefinition wraps every structural problem found while
	// loading a definition.
	ErrInvalidDefinition = errors.New("formdef: invalid definition")
)

// Definition declares a form: its fields and any custom rules they use.
type Definition struct {
	ID     string             `json:"id,omitempty" yaml:"id,omitempty"`
	Title  string             `json:"title,omitempty" yaml:"title,omitempty"`
	Fields []FieldDef         `json:"fields" yaml:"fields"`
	Rules  map[string]RuleDef `json:"rules,omitempty" yaml:"rules,omitempty"`
}

// FieldDef declares one field. ID defaults to Label when empty and Required
// prepends the `required` rule to Validate.
type FieldDef struct {
	ID          string             `json:"id,omitempty" yaml:"id,omitempty"`
	Label       string             `json:"label,omitempty" yaml:"label,omitempty"`
	DisplayName string             `json:"displayName,omitempty" yaml:"displayName,omitempty"`
	Type        string             `json:"type,omitempty" yaml:"type,omitempty"`
	Required    bool               `json:"required,omitempty" yaml:"required,omitempty"`
	Validate    string             `json:"validate,omitempty" yaml:"validate,omitempty"`
	Placeholder string             `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Options     []formstate.Option `json:"options,omitempty" yaml:"options,omitempty"`
	Value       any                `json:"value,omitempty" yaml:"value,omitempty"`
	Sanitize    bool               `json:"sanitize,omitempty" yaml:"sanitize,omitempty"`
}

// Load reads a YAML or JSON definition from disk.
func Load(path string) (Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, fmt.Errorf("formdef: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// LoadFS reads a YAML or JSON definition from fsys.
func LoadFS(fsys fs.FS, path string) (Definition, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return Definition{}, fmt.Errorf("formdef: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes a definition. YAML is a superset of JSON, so both formats go
// through the YAML decoder. name only labels error messages. Rule names are
// resolved against the built-in rules; use ParseWith for other registries.
func Parse(data []byte, name string) (Definition, error) {
	return ParseWith(data, name, nil)
}

// ParseWith is Parse with rule names resolved against registry. A nil
// registry means the built-in rules.
func ParseWith(data []byte, name string, registry *rules.Registry) (Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return Definition{}, fmt.Errorf("formdef: decode %s: %w", name, err)
	}
	def.normalize()
	if err := def.CheckWith(registry); err != nil {
		return Definition{}, fmt.Errorf("%s: %w", name, err)
	}
	return def, nil
}

func (d *Definition) normalize() {
	d.ID = strings.TrimSpace(d.ID)
	for i := range d.Fields {
		field := &d.Fields[i]
		field.ID = strings.TrimSpace(field.ID)
		if field.ID == "" {
			field.ID = strings.TrimSpace(field.Label)
		}
		field.Type = strings.ToLower(strings.TrimSpace(field.Type))
		field.Validate = strings.TrimSpace(field.Validate)
	}
}

// Check reports structural problems: missing or duplicate ids, unknown field
// types, invalid custom rules and rule names that resolve nowhere. Names are
// resolved against the definition's own rules and the built-in ones.
func (d Definition) Check() error {
	return d.CheckWith(nil)
}

// CheckWith is Check with names resolved against registry instead of the
// built-in rules. A nil registry means rules.Default().
func (d Definition) CheckWith(registry *rules.Registry) error {
	custom, err := d.CompileRules()
	if err != nil {
		return err
	}
	if registry == nil {
		registry = rules.Default()
	}

	seen := make(map[string]struct{}, len(d.Fields))
	for idx, field := range d.Fields {
		if field.ID == "" {
			return fmt.Errorf("%w: field %d has neither id nor label", ErrInvalidDefinition, idx)
		}
		if _, dup := seen[field.ID]; dup {
			return fmt.Errorf("%w: duplicate field id %q", ErrInvalidDefinition, field.ID)
		}
		seen[field.ID] = struct{}{}

		typ := formstate.FieldType(field.Type)
		if !typ.IsTextLike() && !typ.IsSingleChoice() && !typ.IsMultiChoice() {
			return fmt.Errorf("%w: field %q has unsupported type %q", ErrInvalidDefinition, field.ID, field.Type)
		}
		if _, err := valueOf(field.Value); err != nil {
			return fmt.Errorf("%w: field %q: %v", ErrInvalidDefinition, field.ID, err)
		}
		for _, spec := range rules.Parse(field.validate()) {
			if _, ok := custom[spec.Name]; ok {
				continue
			}
			if !registry.Has(spec.Name) {
				return fmt.Errorf("%w: field %q uses %w %q", ErrInvalidDefinition, field.ID, rules.ErrUnknownRule, spec.Name)
			}
		}
	}
	return nil
}

// Configs converts the field declarations into component configs. Custom
// rules are attached to every field.
func (d Definition) Configs() ([]fields.Config, error) {
	custom, err := d.CompileRules()
	if err != nil {
		return nil, err
	}
	configs := make([]fields.Config, 0, len(d.Fields))
	for _, field := range d.Fields {
		value, err := valueOf(field.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: field %q: %v", ErrInvalidDefinition, field.ID, err)
		}
		configs = append(configs, fields.Config{
			ID:          field.ID,
			Label:       field.Label,
			DisplayName: field.DisplayName,
			Placeholder: field.Placeholder,
			Type:        formstate.FieldType(field.Type),
			Value:       value,
			Validate:    field.validate(),
			Options:     append([]formstate.Option(nil), field.Options...),
			CustomRules: custom,
			Sanitize:    field.Sanitize,
		})
	}
	return configs, nil
}

// ruleSource is implemented by stores that carry their own rule registry,
// such as *formstate.Form.
type ruleSource interface {
	Rules() *rules.Registry
}

// Mount builds a component for every field and registers it into store.
// Events let callers hook per-field callbacks keyed by field id. When store
// exposes its rule registry the definition is checked against it first, so
// rules registered on the form are accepted and missing ones fail here.
func (d Definition) Mount(store fields.Store, events map[string]formstate.Events) ([]fields.Component, error) {
	if src, ok := store.(ruleSource); ok {
		if err := d.CheckWith(src.Rules()); err != nil {
			return nil, err
		}
	}
	configs, err := d.Configs()
	if err != nil {
		return nil, err
	}
	for i := range configs {
		if ev, ok := events[configs[i].ID]; ok {
			configs[i].Events = ev
		}
	}
	return fields.MountAll(store, configs...)
}

// FieldIDs returns the declared ids in declaration order.
func (d Definition) FieldIDs() []string {
	ids := make([]string, 0, len(d.Fields))
	for _, field := range d.Fields {
		ids = append(ids, field.ID)
	}
	return ids
}

func (f FieldDef) validate() string {
	specs := rules.Parse(f.Validate)
	if f.Required {
		hasRequired := false
		for _, spec := range specs {
			if spec.Name == rules.Required {
				hasRequired = true
				break
			}
		}
		if !hasRequired {
			specs = append([]rules.Spec{{Name: rules.Required}}, specs...)
		}
	}
	return rules.Join(specs...)
}

func valueOf(raw any) (formstate.Value, error) {
	switch typed := raw.(type) {
	case nil:
		return formstate.Value{}, nil
	case string:
		return formstate.Text(typed), nil
	case []any:
		items := make([]string, 0, len(typed))
		for _, item := range typed {
			switch v := item.(type) {
			case string:
				items = append(items, v)
			case int, int64, float64, bool:
				items = append(items, fmt.Sprint(v))
			default:
				return formstate.Value{}, fmt.Errorf("unsupported list item %T", item)
			}
		}
		return formstate.List(items...), nil
	case []string:
		return formstate.List(typed...), nil
	case int, int64, float64, bool:
		return formstate.Text(fmt.Sprint(typed)), nil
	default:
		return formstate.Value{}, fmt.Errorf("unsupported value %T", raw)
	}
}

func sortedRuleNames(defs map[string]RuleDef) []string {
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
