// Package schema defines the structured-output contract between an
// automation run and its caller, and validates agent output against it.
package schema

import (
	"fmt"
)

// FieldType is the semantic type of one extracted field.
type FieldType string

const (
	TypeString FieldType = "string"
	TypeBool   FieldType = "bool"
	TypeInt    FieldType = "int"
	TypeList   FieldType = "list"
	TypeObject FieldType = "object"
)

// Field is one (name, semantic type) pair in an extraction schema.
type Field struct {
	Name     string    `json:"name"`
	Type     FieldType `json:"type"`
	Optional bool      `json:"optional,omitempty"`
}

// ExtractionSchema is a named, ordered set of fields describing the shape
// of data an automation run must return. It is owned by the caller and
// checked against actual output after the run completes.
type ExtractionSchema struct {
	Name   string  `json:"name"`
	Fields []Field `json:"fields"`
}

// Describe renders the schema as a compact instruction block for the task
// prompt, preserving field order.
func (s ExtractionSchema) Describe() string {
	out := fmt.Sprintf("Return a JSON array of %q objects with fields:\n", s.Name)
	for _, f := range s.Fields {
		req := "required"
		if f.Optional {
			req = "optional"
		}
		out += fmt.Sprintf("- %s (%s, %s)\n", f.Name, f.Type, req)
	}
	out += "Do not write files. Return [] when there is nothing to report."
	return out
}

// Validate checks one extracted record against the schema. Missing required
// fields and type mismatches are reported together.
func (s ExtractionSchema) Validate(record map[string]interface{}) error {
	var problems []string
	for _, f := range s.Fields {
		value, ok := record[f.Name]
		if !ok || value == nil {
			if !f.Optional {
				problems = append(problems, fmt.Sprintf("missing field %q", f.Name))
			}
			continue
		}
		if !matchesType(value, f.Type) {
			problems = append(problems, fmt.Sprintf("field %q is not a %s", f.Name, f.Type))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("schema %q: %v", s.Name, problems)
	}
	return nil
}

// ValidateAll validates every record, returning the indexes that failed.
func (s ExtractionSchema) ValidateAll(records []map[string]interface{}) []error {
	var errs []error
	for i, r := range records {
		if err := s.Validate(r); err != nil {
			errs = append(errs, fmt.Errorf("record %d: %w", i, err))
		}
	}
	return errs
}

// matchesType checks a decoded JSON value against a semantic type. JSON
// numbers decode as float64, so ints accept whole-valued floats.
func matchesType(value interface{}, t FieldType) bool {
	switch t {
	case TypeString:
		_, ok := value.(string)
		return ok
	case TypeBool:
		_, ok := value.(bool)
		return ok
	case TypeInt:
		f, ok := value.(float64)
		return ok && f == float64(int64(f))
	case TypeList:
		_, ok := value.([]interface{})
		return ok
	case TypeObject:
		_, ok := value.(map[string]interface{})
		return ok
	default:
		return false
	}
}
