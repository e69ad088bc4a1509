package formstate

import (
	"encoding/json"
	"errors"
	"strings"
)

type valueKind uint8

const (
	kindUnset valueKind = iota
	kindText
	kindList
)

// Value holds either a single string or an ordered list of strings. The zero
// Value is unset; AddField replaces it with Text("").
type Value struct {
	kind  valueKind
	text  string
	items []string
}

// Text returns a single-string value.
func Text(s string) Value {
	return Value{kind: kindText, text: s}
}

// List returns a multi-valued value. List() is an empty, but set, list.
func List(items ...string) Value {
	return Value{kind: kindList, items: append([]string{}, items...)}
}

// IsSet reports whether the value was assigned.
func (v Value) IsSet() bool {
	return v.kind != kindUnset
}

// IsList reports whether the value is multi-valued.
func (v Value) IsList() bool {
	return v.kind == kindList
}

// String returns the text, or the list items joined with commas.
func (v Value) String() string {
	if v.kind == kindList {
		return strings.Join(v.items, ",")
	}
	return v.text
}

// Items returns a copy of the list items. A text value yields a one-item
// slice unless it is empty.
func (v Value) Items() []string {
	switch v.kind {
	case kindList:
		return append([]string{}, v.items...)
	case kindText:
		if v.text == "" {
			return nil
		}
		return []string{v.text}
	default:
		return nil
	}
}

// Contains reports whether item is part of the value.
func (v Value) Contains(item string) bool {
	if v.kind != kindList {
		return v.kind == kindText && v.text == item
	}
	for _, existing := range v.items {
		if existing == item {
			return true
		}
	}
	return false
}

// Append returns a list value with item appended when it is not present.
func (v Value) Append(item string) Value {
	items := v.Items()
	if v.Contains(item) {
		return List(items...)
	}
	return List(append(items, item)...)
}

// Remove returns a list value without the first occurrence of item. Absent
// items leave the list unchanged.
func (v Value) Remove(item string) Value {
	items := v.Items()
	for idx, existing := range items {
		if existing == item {
			return List(append(items[:idx:idx], items[idx+1:]...)...)
		}
	}
	return List(items...)
}

// Equal reports whether two values hold the same kind and content.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind || v.text != other.text || len(v.items) != len(other.items) {
		return false
	}
	for i := range v.items {
		if v.items[i] != other.items[i] {
			return false
		}
	}
	return true
}

// Any returns the value as a string, []string or nil when unset.
func (v Value) Any() any {
	switch v.kind {
	case kindList:
		return v.Items()
	case kindText:
		return v.text
	default:
		return nil
	}
}

// MarshalJSON encodes text values as strings, lists as arrays and unset
// values as null.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Any())
}

// UnmarshalJSON accepts a string, an array of strings or null.
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	switch {
	case trimmed == "null":
		*v = Value{}
		return nil
	case strings.HasPrefix(trimmed, "["):
		var items []string
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*v = List(items...)
		return nil
	case strings.HasPrefix(trimmed, `"`):
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*v = Text(text)
		return nil
	default:
		return errors.New("formstate: value must be a string or an array of strings")
	}
}
