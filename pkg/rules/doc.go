// Package rules implements the declarative validation rule engine used by
// form fields. A field declares its rules as a pipe-delimited string of
// specifiers, each of the form `name` or `name-arg1-arg2`, for example
// `required|min-5|email`. Every specifier resolves to a Rule: a pattern
// constructor that turns the positional arguments into a regular expression
// and a message formatter that renders the error shown to the user.
//
// Rules are looked up in caller-supplied custom mappings first and then in a
// Registry. Registries validate rules when they are registered so malformed
// entries surface at wiring time instead of the first keystroke.
package rules
