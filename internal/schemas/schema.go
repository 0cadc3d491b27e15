package schemas

import (
	"encoding/json"
	"maps"
	"slices"
)

// Type is a JSON value type.
type Type string

// JSON value types used in response schemas
const (
	TypeObject  Type = "object"
	TypeArray   Type = "array"
	TypeString  Type = "string"
	TypeInteger Type = "integer"
)

// Schema declares the shape of a JSON value expected back from a model.
// It is rendered both as a provider response schema and as a JSON Schema document
// used to check what actually came back.
type Schema struct {
	Type        Type
	Description string
	Properties  map[string]*Schema
	Required    []string
	Items       *Schema
	MinItems    *int
	MaxItems    *int
	// NonEmpty requires strings to have at least one character
	NonEmpty bool
}

// Object builds an object schema. Every property listed in required must exist in props.
func Object(description string, props map[string]*Schema, required ...string) *Schema {
	return &Schema{Type: TypeObject, Description: description, Properties: props, Required: required}
}

// Array builds an array schema.
func Array(description string, items *Schema) *Schema {
	return &Schema{Type: TypeArray, Description: description, Items: items}
}

// String builds a non-empty string schema.
func String(description string) *Schema {
	return &Schema{Type: TypeString, Description: description, NonEmpty: true}
}

// WithItemCount bounds an array schema; pass the same value twice for an exact length.
func (s *Schema) WithItemCount(minItems, maxItems int) *Schema {
	s.MinItems = &minItems
	s.MaxItems = &maxItems
	return s
}

// WithMinItems sets only the lower bound of an array schema.
func (s *Schema) WithMinItems(minItems int) *Schema {
	s.MinItems = &minItems
	return s
}

// PropertyNames returns the property names in sorted order.
func (s *Schema) PropertyNames() []string {
	return slices.Sorted(maps.Keys(s.Properties))
}

// Document renders the schema as a JSON Schema (draft-07) document.
func (s *Schema) Document() map[string]any {
	doc := s.node()
	doc["$schema"] = "http://json-schema.org/draft-07/schema#"
	return doc
}

func (s *Schema) node() map[string]any {
	n := map[string]any{"type": string(s.Type)}
	if s.Description != "" {
		n["description"] = s.Description
	}
	switch s.Type {
	case TypeObject:
		props := make(map[string]any, len(s.Properties))
		for name, p := range s.Properties {
			props[name] = p.node()
		}
		n["properties"] = props
		if len(s.Required) > 0 {
			n["required"] = s.Required
		}
	case TypeArray:
		if s.Items != nil {
			n["items"] = s.Items.node()
		}
		if s.MinItems != nil {
			n["minItems"] = *s.MinItems
		}
		if s.MaxItems != nil {
			n["maxItems"] = *s.MaxItems
		}
	case TypeString:
		if s.NonEmpty {
			n["minLength"] = 1
		}
	}
	return n
}

// String renders the JSON Schema document as indented JSON.
func (s *Schema) String() string {
	data, err := json.MarshalIndent(s.Document(), "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}
