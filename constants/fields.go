package constants

import "strings"

// Canonical field names produced by the heuristic extractor and expected from the
// enrichment model. The field map is open: downstream consumers must tolerate keys
// outside this list.
const (
	FieldName         = "name"
	FieldEmail        = "email"
	FieldPhone        = "phone"
	FieldLocation     = "location"
	FieldLinks        = "links"
	FieldLinkedInURL  = "linkedinUrl"
	FieldGitHubURL    = "githubUrl"
	FieldRole         = "role"
	FieldFunctionArea = "functionArea"
	FieldExperience   = "experience"

	// Synthetic status fields appended by the orchestrator, never produced by
	// recognizers or the remote model.
	FieldNeedsOCR  = "needsOcr"
	FieldAntivirus = "antivirus"
)

// ModelFields lists the fields the enrichment model is asked for, in prompt order.
var ModelFields = []string{
	FieldName, FieldEmail, FieldPhone, FieldLocation,
	FieldLinkedInURL, FieldGitHubURL,
	FieldRole, FieldFunctionArea, FieldExperience,
}

// AllowedExtensions holds the upload extensions the extractor has a real path for.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"docx": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// PipelineVersion is reported in job telemetry.
const PipelineVersion = "0.1.0"
