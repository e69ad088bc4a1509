package formdef

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formstate/pkg/formstate"
	"github.com/goliatone/go-formstate/pkg/rules"
)

var requestMediaTypes = []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"}

// FromOpenAPI derives a definition from the request body of an OpenAPI 3
// operation. Properties are emitted in alphabetical order, or in the order of
// an `x-field-order` extension when the schema carries one.
//
// Mapping: string properties become text inputs (`format: email` and
// `format: password` pick the matching input type); minLength/maxLength
// become `min-N`/`max-N`; a `pattern` becomes a custom rule named after the
// property; enums become selects; arrays of enums become multi-selects;
// integers get the `numeric` rule; booleans become a single checkbox.
func FromOpenAPI(ctx context.Context, data []byte, operationID string) (Definition, error) {
	if err := ctx.Err(); err != nil {
		return Definition{}, err
	}
	if len(data) == 0 {
		return Definition{}, errors.New("formdef openapi: document payload is empty")
	}

	loader := openapi3.NewLoader()
	loader.Context = ctx
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return Definition{}, fmt.Errorf("formdef openapi: load document: %w", err)
	}

	operation := findOperation(doc, operationID)
	if operation == nil {
		return Definition{}, fmt.Errorf("formdef openapi: operation %q not found", operationID)
	}
	schema := requestSchema(operation.RequestBody)
	if schema == nil {
		return Definition{}, fmt.Errorf("formdef openapi: operation %q has no request body schema", operationID)
	}

	def := Definition{
		ID:    operationID,
		Title: firstNonEmpty(operation.Summary, schema.Title, operationID),
	}
	required := make(map[string]struct{}, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = struct{}{}
	}

	for _, name := range propertyOrder(schema) {
		ref := schema.Properties[name]
		if ref == nil || ref.Value == nil || ref.Value.ReadOnly {
			continue
		}
		_, isRequired := required[name]
		field, rule, ok := fieldFromSchema(name, ref.Value, isRequired)
		if !ok {
			continue
		}
		if rule != nil {
			if def.Rules == nil {
				def.Rules = make(map[string]RuleDef)
			}
			def.Rules[ruleName(name)] = *rule
		}
		def.Fields = append(def.Fields, field)
	}

	if err := def.Check(); err != nil {
		return Definition{}, fmt.Errorf("formdef openapi: %w", err)
	}
	return def, nil
}

func findOperation(doc *openapi3.T, operationID string) *openapi3.Operation {
	if doc == nil || doc.Paths == nil {
		return nil
	}
	for _, item := range doc.Paths.Map() {
		if item == nil {
			continue
		}
		for _, op := range item.Operations() {
			if op != nil && op.OperationID == operationID {
				return op
			}
		}
	}
	return nil
}

func requestSchema(body *openapi3.RequestBodyRef) *openapi3.Schema {
	if body == nil || body.Value == nil {
		return nil
	}
	content := body.Value.Content
	for _, mediaType := range requestMediaTypes {
		if mt, ok := content[mediaType]; ok && mt != nil && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

func propertyOrder(schema *openapi3.Schema) []string {
	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	raw, ok := schema.Extensions["x-field-order"].([]any)
	if !ok {
		return names
	}
	ordered := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, entry := range raw {
		name, ok := entry.(string)
		if !ok {
			continue
		}
		if _, exists := schema.Properties[name]; !exists {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		ordered = append(ordered, name)
	}
	for _, name := range names {
		if _, done := seen[name]; !done {
			ordered = append(ordered, name)
		}
	}
	return ordered
}

func fieldFromSchema(name string, schema *openapi3.Schema, required bool) (FieldDef, *RuleDef, bool) {
	field := FieldDef{
		ID:          name,
		Label:       firstNonEmpty(schema.Title, humanize(name)),
		Required:    required,
		Placeholder: schema.Description,
	}
	if def, ok := schema.Default.(string); ok {
		field.Value = def
	}

	var specs []rules.Spec
	var custom *RuleDef

	switch {
	case schemaIs(schema, openapi3.TypeString):
		if len(schema.Enum) > 0 {
			field.Type = string(formstate.FieldTypeSelect)
			field.Options = enumOptions(schema.Enum)
			break
		}
		switch strings.ToLower(schema.Format) {
		case "email":
			field.Type = string(formstate.FieldTypeEmail)
			specs = append(specs, rules.Spec{Name: rules.Email})
		case "password":
			field.Type = string(formstate.FieldTypePassword)
		case "uri", "url":
			field.Type = string(formstate.FieldTypeText)
			specs = append(specs, rules.Spec{Name: rules.URL})
		case "textarea":
			field.Type = string(formstate.FieldTypeTextArea)
		default:
			field.Type = string(formstate.FieldTypeText)
		}
		specs = append(specs, lengthSpecs(schema)...)
		if schema.Pattern != "" {
			specs = append(specs, rules.Spec{Name: ruleName(name)})
			custom = &RuleDef{Pattern: schema.Pattern, Message: "{name} has an invalid format"}
		}
	case schemaIs(schema, openapi3.TypeInteger):
		field.Type = string(formstate.FieldTypeNumber)
		specs = append(specs, rules.Spec{Name: rules.Numeric})
	case schemaIs(schema, openapi3.TypeNumber):
		field.Type = string(formstate.FieldTypeNumber)
	case schemaIs(schema, openapi3.TypeBoolean):
		field.Type = string(formstate.FieldTypeCheckbox)
		field.Options = []formstate.Option{{Value: "true", Name: field.Label}}
	case schemaIs(schema, openapi3.TypeArray):
		if schema.Items == nil || schema.Items.Value == nil || len(schema.Items.Value.Enum) == 0 {
			return FieldDef{}, nil, false
		}
		field.Type = string(formstate.FieldTypeMultiSelect)
		field.Options = enumOptions(schema.Items.Value.Enum)
	default:
		return FieldDef{}, nil, false
	}

	field.Validate = rules.Join(specs...)
	return field, custom, true
}

func schemaIs(schema *openapi3.Schema, typ string) bool {
	return schema.Type != nil && schema.Type.Is(typ)
}

func lengthSpecs(schema *openapi3.Schema) []rules.Spec {
	var specs []rules.Spec
	if schema.MinLength > 0 {
		specs = append(specs, rules.Spec{Name: rules.Min, Args: []string{strconv.FormatUint(schema.MinLength, 10)}})
	}
	if schema.MaxLength != nil {
		specs = append(specs, rules.Spec{Name: rules.Max, Args: []string{strconv.FormatUint(*schema.MaxLength, 10)}})
	}
	return specs
}

func enumOptions(values []any) []formstate.Option {
	options := make([]formstate.Option, 0, len(values))
	for _, raw := range values {
		value := fmt.Sprint(raw)
		options = append(options, formstate.Option{Value: value, Name: humanize(value)})
	}
	return options
}

// ruleName derives a rule name usable inside a specifier.
func ruleName(property string) string {
	var builder strings.Builder
	for _, r := range property {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			builder.WriteRune(unicode.ToLower(r))
		} else {
			builder.WriteRune('_')
		}
	}
	return builder.String() + "_pattern"
}

func humanize(raw string) string {
	var words []string
	var current []rune
	flush := func() {
		if len(current) > 0 {
			words = append(words, string(current))
			current = current[:0]
		}
	}
	for i, r := range raw {
		switch {
		case r == '_' || r == '-' || r == ' ' || r == '.':
			flush()
		case unicode.IsUpper(r) && i > 0:
			flush()
			current = append(current, unicode.ToLower(r))
		default:
			current = append(current, r)
		}
	}
	flush()
	if len(words) == 0 {
		return raw
	}
	first := []rune(words[0])
	first[0] = unicode.ToUpper(first[0])
	words[0] = string(first)
	return strings.Join(words, " ")
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
