// Package llm defines the remote field-extraction boundary: the request shape sent
// to an enrichment model and the two-case result the pipeline consumes.
package llm

import (
	"context"

	"github.com/careerforge/resume-parser/internal/fields"
)

// MaxDocumentChars is the character budget for document text sent to the model.
const MaxDocumentChars = 12000

// ExtractRequest carries the extracted resume text and an optional model override.
type ExtractRequest struct {
	DocumentText  string
	ModelOverride string
}

// FieldExtractor is the capability the pipeline enriches through. Implementations
// return (fields, true) on success and (nil, false) for every failure mode:
// transport error, timeout, non-2xx, unparseable body, schema mismatch. Absence is
// a valid outcome, never an error: the pipeline proceeds with heuristic fields.
type FieldExtractor interface {
	ExtractFields(ctx context.Context, req ExtractRequest) (fields.FieldMap, bool)
}

// Truncate clips text to the model character budget.
func Truncate(text string) string {
	if len(text) > MaxDocumentChars {
		return text[:MaxDocumentChars]
	}
	return text
}
