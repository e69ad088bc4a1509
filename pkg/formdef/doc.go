// Package formdef loads form definitions from YAML or JSON files, or derives
// them from an OpenAPI request body, and mounts them into a form.
package formdef
