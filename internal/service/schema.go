package service

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// buildSplitRequestSchema returns the JSON-Schema (draft 2020-12
// subset) for the split request body. The raw extraction body on
// receipt upload is deliberately schemaless; only the split request has
// a fixed shape worth validating up front.
func buildSplitRequestSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"participants": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items":    map[string]any{"type": "string", "minLength": 1},
			},
			"strategy": map[string]any{
				"type": "string",
				"enum": []string{"equal", "proportional"},
			},
			"assignments": map[string]any{
				"type": "object",
				"additionalProperties": map[string]any{
					"type":      "string",
					"minLength": 1,
				},
			},
		},
		"required": []string{"participants", "strategy"},
	}
}

// compileSchema turns a schema map into a compiled validator.
func compileSchema(name string, schemaMap map[string]any) (*jsonschema.Schema, error) {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

var splitRequestSchema = func() *jsonschema.Schema {
	schema, err := compileSchema("split_request.json", buildSplitRequestSchema())
	if err != nil {
		panic(err)
	}
	return schema
}()

// validateSplitRequest checks the raw request body against the schema
// before it is decoded into the typed request.
func validateSplitRequest(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := splitRequestSchema.Validate(v); err != nil {
		return fmt.Errorf("request does not match schema: %w", err)
	}
	return nil
}
