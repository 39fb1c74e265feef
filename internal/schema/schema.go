// Package schema validates document trees against a descriptor tree.
//
// Schemas are plain values assembled at runtime (a profile schema depends on
// the options the current workspace declares), so there is no code
// generation and no reflection: Validate walks the schema and the document
// side by side and reports the first mismatch with its document path.
package schema

import (
	"fmt"
	"sort"
	"strings"

	"p4studio/internal/doc"
)

// Type identifies the shape a Schema accepts.
type Type uint8

const (
	ObjectType Type = iota
	ArrayType
	BooleanType
	StringType
	NullableStringType
	EnumType
	OneOfType
)

// Schema describes the accepted shape of a document value.
type Schema struct {
	Type       Type
	Properties map[string]*Schema // ObjectType
	Required   []string           // ObjectType
	Items      *Schema            // ArrayType
	Values     []string           // EnumType
	OneOf      []*Schema          // OneOfType
}

// Object accepts a mapping with the given properties and no others.
func Object(properties map[string]*Schema, required ...string) *Schema {
	if properties == nil {
		properties = map[string]*Schema{}
	}
	return &Schema{Type: ObjectType, Properties: properties, Required: required}
}

func Array(items *Schema) *Schema { return &Schema{Type: ArrayType, Items: items} }
func Boolean() *Schema { return &Schema{Type: BooleanType} }
func String() *Schema { return &Schema{Type: StringType} }
func NullableString() *Schema { return &Schema{Type: NullableStringType} }
func OneOf(alts ...*Schema) *Schema { return &Schema{Type: OneOfType, OneOf: alts} }

// Enum accepts one of the listed strings.
func Enum(values ...string) *Schema {
	return &Schema{Type: EnumType, Values: append([]string(nil), values...)}
}

// Error is a validation failure at a document path.
type Error struct {
	Path    []string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%s]: %s", strings.Join(e.Path, "/"), e.Message)
}

// Validate checks v against s and returns a *Error for the first violation.
func Validate(s *Schema, v *doc.Node) error {
	if err := validate(s, v, nil); err != nil {
		return err
	}
	return nil
}

func validate(s *Schema, v *doc.Node, path []string) *Error {
	fail := func(format string, args ...interface{}) *Error {
		return &Error{Path: append([]string(nil), path...), Message: fmt.Sprintf(format, args...)}
	}

	switch s.Type {
	case ObjectType:
		if !v.IsMap() {
			return fail("%s is not of type 'object'", describe(v))
		}
		for _, req := range s.Required {
			if _, ok := v.Get(req); !ok {
				return fail("'%s' is a required property", req)
			}
		}
		var extra []string
		for _, key := range v.Keys() {
			if _, ok := s.Properties[key]; !ok {
				extra = append(extra, key)
			}
		}
		if len(extra) > 0 {
			return fail("Additional properties are not allowed (%s %s unexpected)", quoteAll(extra), wasWere(len(extra)))
		}
		for _, key := range v.Keys() {
			child, _ := v.Get(key)
			if err := validate(s.Properties[key], child, append(path, key)); err != nil {
				return err
			}
		}
	case ArrayType:
		if !v.IsSeq() {
			return fail("%s is not of type 'array'", describe(v))
		}
		for i, item := range v.Items() {
			if err := validate(s.Items, item, append(path, fmt.Sprint(i))); err != nil {
				return err
			}
		}
	case BooleanType:
		if v.Kind() != doc.BoolKind {
			return fail("%s is not of type 'boolean'", describe(v))
		}
	case StringType:
		if v.Kind() != doc.StringKind {
			return fail("%s is not of type 'string'", describe(v))
		}
	case NullableStringType:
		if v.Kind() != doc.StringKind && !v.IsNull() {
			return fail("%s is not of type 'string', 'null'", describe(v))
		}
	case EnumType:
		str, ok := v.AsString()
		if !ok || !contains(s.Values, str) {
			return fail("%s is not one of [%s]", describe(v), quoteAll(s.Values))
		}
	case OneOfType:
		matches := 0
		for _, alt := range s.OneOf {
			if validate(alt, v, path) == nil {
				matches++
			}
		}
		switch {
		case matches == 0:
			// Report the alternative matching the value's kind when there is
			// one: it carries the more useful nested message.
			for _, alt := range s.OneOf {
				if sameShape(alt, v) {
					return validate(alt, v, path)
				}
			}
			return fail("%s is not valid under any of the given schemas", describe(v))
		case matches > 1:
			return fail("%s is valid under each of the given schemas", describe(v))
		}
	default:
		return fail("unsupported schema type %d", s.Type)
	}
	return nil
}

func sameShape(s *Schema, v *doc.Node) bool {
	switch s.Type {
	case ObjectType:
		return v.IsMap()
	case ArrayType:
		return v.IsSeq()
	}
	return false
}

func describe(v *doc.Node) string {
	switch v.Kind() {
	case doc.NullKind:
		return "None"
	case doc.StringKind:
		return "'" + v.Text() + "'"
	case doc.MapKind:
		return "{" + strings.Join(v.Keys(), ", ") + "}"
	case doc.SeqKind:
		return "[" + strings.Join(v.StringItems(), ", ") + "]"
	}
	return v.Text()
}

func quoteAll(values []string) string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = "'" + v + "'"
	}
	return strings.Join(out, ", ")
}

func wasWere(n int) string {
	if n == 1 {
		return "was"
	}
	return "were"
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

// PropertyNames returns the sorted property names of an object schema.
func (s *Schema) PropertyNames() []string {
	names := make([]string, 0, len(s.Properties))
	for k := range s.Properties {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
