package llm

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/careerforge/resume-parser/internal/fields"
)

// BuildFieldsJSONSchema returns the JSON-Schema (draft 2020-12 subset) every
// enrichment payload must satisfy: an object of field-name → {value, confidence}.
// Value type is left open (string, list or bool); confidence must be 0..1.
func BuildFieldsJSONSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"additionalProperties": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"value":      map[string]any{},
				"confidence": map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
			},
			"required": []string{"value"},
		},
	}
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}

// DecodeFieldMap converts a schema-valid fields payload into a FieldMap.
func DecodeFieldMap(data []byte) (fields.FieldMap, error) {
	var raw map[string]map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal fields: %w", err)
	}
	out := make(fields.FieldMap, len(raw))
	for name, entry := range raw {
		out[name] = fields.FieldValue(entry)
	}
	return out, nil
}
