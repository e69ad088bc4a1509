package formstate

import (
	"encoding/json"
	"strings"

	"github.com/goliatone/go-formstate/pkg/rules"
)

// FieldType identifies the input component backing a field.
type FieldType string

// Supported field types.
const (
	FieldTypeText        FieldType = "text"
	FieldTypeEmail       FieldType = "email"
	FieldTypeNumber      FieldType = "number"
	FieldTypeTel         FieldType = "tel"
	FieldTypePassword    FieldType = "password"
	FieldTypeTextArea    FieldType = "textarea"
	FieldTypeSelect      FieldType = "select"
	FieldTypeRadio       FieldType = "radio"
	FieldTypeCheckbox    FieldType = "checkbox"
	FieldTypeMultiSelect FieldType = "multiselect"
)

// IsTextLike reports whether the type is rendered as a free-text input.
// The empty type counts as text.
func (t FieldType) IsTextLike() bool {
	switch t {
	case "", FieldTypeText, FieldTypeEmail, FieldTypeNumber, FieldTypeTel, FieldTypePassword, FieldTypeTextArea:
		return true
	default:
		return false
	}
}

// IsSingleChoice reports whether the type selects exactly one option.
func (t FieldType) IsSingleChoice() bool {
	return t == FieldTypeSelect || t == FieldTypeRadio
}

// IsMultiChoice reports whether the type selects a set of options.
func (t FieldType) IsMultiChoice() bool {
	return t == FieldTypeCheckbox || t == FieldTypeMultiSelect
}

// Option is one selectable entry of a choice field.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Name  string `json:"name" yaml:"name"`
}

// Events holds optional callbacks invoked with the updated record after the
// matching state mutation.
type Events struct {
	OnChange func(Field)
	OnBlur   func(Field)
}

// Field is the unit of state for one form input.
type Field struct {
	ID          string    `json:"id,omitempty"`
	Label       string    `json:"label,omitempty"`
	DisplayName string    `json:"displayName,omitempty"`
	Placeholder string    `json:"placeholder,omitempty"`
	Type        FieldType `json:"type,omitempty"`
	Value       Value     `json:"value"`
	Pristine    Pristine  `json:"pristine,omitempty"`
	Error       string    `json:"error,omitempty"`
	Validate    string    `json:"validate,omitempty"`
	Options     []Option  `json:"options,omitempty"`

	Events      Events                `json:"-"`
	CustomRules map[string]rules.Rule `json:"-"`
}

// Name returns the display name used in messages, falling back to the id.
func (f Field) Name() string {
	if name := strings.TrimSpace(f.DisplayName); name != "" {
		return name
	}
	return f.ID
}

// HasOption reports whether value matches one of the field options.
func (f Field) HasOption(value string) bool {
	for _, option := range f.Options {
		if option.Value == value {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no slices with f.
func (f Field) Clone() Field {
	clone := f
	if f.Options != nil {
		clone.Options = append([]Option(nil), f.Options...)
	}
	if f.Value.IsList() {
		clone.Value = List(f.Value.Items()...)
	}
	return clone
}

func (f Field) ruleInput() rules.Input {
	return rules.Input{
		ID:          f.ID,
		DisplayName: f.DisplayName,
		Value:       f.Value.String(),
		Validate:    f.Validate,
		Custom:      f.CustomRules,
	}
}

func (f Field) serialize() string {
	payload, err := json.Marshal(f)
	if err != nil {
		return "{}"
	}
	return string(payload)
}
