// Package fields defines the confidence-tagged field map produced by extraction
// and enrichment, and the deterministic recognizers that populate it.
package fields

import "strings"

// FieldValue is a confidence-tagged value with open extension: beyond "value" and
// "confidence" a field may carry extra status keys (e.g. ocr_status), so it is a
// dynamic record rather than a fixed struct.
type FieldValue map[string]any

// FieldMap maps a field name to its FieldValue. Keys are unique; later writes in
// a merge overwrite earlier ones. Unknown keys are permitted downstream.
type FieldMap map[string]FieldValue

// NewValue builds a FieldValue with the two mandatory keys.
func NewValue(value any, confidence float64) FieldValue {
	return FieldValue{"value": value, "confidence": confidence}
}

// With returns v with an extra status key set.
func (v FieldValue) With(key string, value any) FieldValue {
	v[key] = value
	return v
}

// Value returns the "value" entry, or nil.
func (v FieldValue) Value() any {
	return v["value"]
}

// Confidence returns the "confidence" entry, or 0.
func (v FieldValue) Confidence() float64 {
	switch c := v["confidence"].(type) {
	case float64:
		return c
	case float32:
		return float64(c)
	case int:
		return float64(c)
	}
	return 0
}

// StringValue returns the "value" entry as a string, or "".
func (v FieldValue) StringValue() string {
	s, _ := v["value"].(string)
	return s
}

// hasContent reports whether a value counts as non-empty for merge purposes.
func hasContent(value any) bool {
	switch t := value.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(t) != ""
	case []string:
		return len(t) > 0
	case []any:
		return len(t) > 0
	}
	return true
}
