package jsonschema

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Envelope describes the response shape the run API uses: optional success flag,
// message and a list of field errors. Extra members are allowed.
const Envelope = `{
	"type": "object",
	"properties": {
		"success": {"type": ["integer", "string", "boolean"]},
		"message": {"type": "string"},
		"errors": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["field", "error_message"],
				"properties": {
					"field": {"type": "string"},
					"error_message": {"type": "string"}
				}
			}
		}
	}
}`

// ValidationErrors represents a collection of validation errors
type ValidationErrors []error

// Error implements the error interface for ValidationErrors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return ""
	}

	var sb strings.Builder
	for i, err := range ve {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(err.Error())
	}
	return sb.String()
}

// Schema is a compiled JSON Schema.
type Schema struct {
	compiled *jsonschema.Schema
}

// Compile parses and compiles a JSON Schema document.
func Compile(schemaStr string) (*Schema, error) {
	compiler := jsonschema.NewCompiler()

	if err := compiler.AddResource("schema.json", strings.NewReader(schemaStr)); err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}

	compiled, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}

	return &Schema{compiled: compiled}, nil
}

// Validate checks an already decoded JSON value. It returns nil when the value
// conforms and ValidationErrors listing every failed location otherwise.
func (s *Schema) Validate(v any) error {
	err := s.compiled.Validate(v)
	if err == nil {
		return nil
	}

	var validationErr *jsonschema.ValidationError
	if errors.As(err, &validationErr) {
		return extractValidationErrors(validationErr)
	}
	return ValidationErrors{err}
}

// Validate validates a raw JSON document against a JSON Schema.
func Validate(doc []byte, schemaStr string) error {
	schema, err := Compile(schemaStr)
	if err != nil {
		return err
	}

	var data any
	if err := json.Unmarshal(doc, &data); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	return schema.Validate(data)
}

// extractValidationErrors flattens a jsonschema.ValidationError tree into leaf messages
func extractValidationErrors(err *jsonschema.ValidationError) ValidationErrors {
	if len(err.Causes) == 0 {
		location := err.InstanceLocation
		if location == "" {
			location = "/"
		}
		return ValidationErrors{fmt.Errorf("validation error at %s: %s", location, err.Message)}
	}

	var errs ValidationErrors
	for _, childErr := range err.Causes {
		errs = append(errs, extractValidationErrors(childErr)...)
	}
	return errs
}
