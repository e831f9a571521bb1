package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/invopop/jsonschema"
	santhosh "github.com/santhosh-tekuri/jsonschema/v5"
)

// GenerateSchema reflects the Config struct into a JSON Schema. Sections
// are closed; unknown top-level keys are allowed as extensions.
func GenerateSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		ExpandedStruct:            true,
		FieldNameTag:              "yaml",
		DoNotReference:            true,
	}

	schema := r.Reflect(&Config{})
	schema.Title = "padnav configuration"
	schema.Description = "Schema for padnav.yml."
	schema.Version = "http://json-schema.org/draft-07/schema#"
	schema.AdditionalProperties = nil

	return json.MarshalIndent(schema, "", "  ")
}

var (
	compiledOnce   sync.Once
	compiledSchema *santhosh.Schema
	compiledErr    error
)

// SchemaValidator validates raw configuration documents against the
// generated schema.
type SchemaValidator struct {
	schema *santhosh.Schema
}

// NewSchemaValidator compiles the schema once per process.
func NewSchemaValidator() (*SchemaValidator, error) {
	compiledOnce.Do(func() {
		data, err := GenerateSchema()
		if err != nil {
			compiledErr = fmt.Errorf("failed to generate schema: %w", err)
			return
		}
		compiler := santhosh.NewCompiler()
		if err := compiler.AddResource("padnav.json", bytes.NewReader(data)); err != nil {
			compiledErr = fmt.Errorf("failed to add schema resource: %w", err)
			return
		}
		compiledSchema, compiledErr = compiler.Compile("padnav.json")
	})
	if compiledErr != nil {
		return nil, compiledErr
	}
	return &SchemaValidator{schema: compiledSchema}, nil
}

// Validate checks configData, which may be any value that marshals to JSON.
func (v *SchemaValidator) Validate(configData interface{}) error {
	jsonData, err := json.Marshal(configData)
	if err != nil {
		return fmt.Errorf("failed to marshal config to JSON for validation: %w", err)
	}

	var dataToValidate interface{}
	if err := json.Unmarshal(jsonData, &dataToValidate); err != nil {
		return fmt.Errorf("failed to unmarshal JSON for validation: %w", err)
	}

	if err := v.schema.Validate(dataToValidate); err != nil {
		if validationErr, ok := err.(*santhosh.ValidationError); ok {
			var messages []string
			collectErrors(validationErr, &messages)
			return fmt.Errorf("schema validation failed:\n%s", strings.Join(messages, "\n"))
		}
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

// collectErrors flattens nested validation errors.
func collectErrors(err *santhosh.ValidationError, messages *[]string) {
	if err.InstanceLocation != "" {
		*messages = append(*messages, fmt.Sprintf("- %s: %s", err.InstanceLocation, err.Message))
	}
	for _, cause := range err.Causes {
		collectErrors(cause, messages)
	}
}
