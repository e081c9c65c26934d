package params

import (
	"fmt"
)

// ParseError reports a structurally malformed document.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// SchemaError reports a missing required section or an unexpected field.
type SchemaError struct {
	Path    string
	Section string
	Field   string // empty when a whole section is missing
	Missing bool   // true for a missing section/field, false for an unexpected one
}

func (e *SchemaError) Error() string {
	switch {
	case e.Field == "" && e.Missing:
		return fmt.Sprintf("%s: required section %q is missing", e.Path, e.Section)
	case e.Field == "":
		return fmt.Sprintf("%s: unexpected section %q", e.Path, e.Section)
	case e.Missing:
		return fmt.Sprintf("%s: section %q is missing required field %q", e.Path, e.Section, e.Field)
	default:
		return fmt.Sprintf("%s: section %q has unexpected field %q", e.Path, e.Section, e.Field)
	}
}

// TypeError reports a field value outside its expected domain, or a value
// whose YAML type does not match the field.
type TypeError struct {
	Section string
	Field   string
	Value   interface{}
	Domain  string
	Err     error
}

func (e *TypeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("section %q: %v", e.Section, e.Err)
	}
	return fmt.Sprintf("%s.%s: value %v outside expected domain (%s)", e.Section, e.Field, e.Value, e.Domain)
}

func (e *TypeError) Unwrap() error { return e.Err }

// UnresolvedReferenceError reports a reference that could not be resolved
// against the environment, typically an undefined variable.
type UnresolvedReferenceError struct {
	Section  string
	Field    string
	Variable string // environment variable name, empty when no data root is configured
	Reason   string
}

func (e *UnresolvedReferenceError) Error() string {
	if e.Variable != "" {
		return fmt.Sprintf("%s.%s: environment variable %s is not defined", e.Section, e.Field, e.Variable)
	}
	return fmt.Sprintf("%s.%s: %s", e.Section, e.Field, e.Reason)
}
