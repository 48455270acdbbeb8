package llm

import (
	"encoding/json"
	"strings"
)

// ExtractJSONObject recovers a JSON object from model output. Models wrap JSON in
// prose or code fences often enough that a strict parse is tried first, then the
// span between the first "{" and the last "}". Returns ok=false when neither parses.
func ExtractJSONObject(text string) (map[string]any, bool) {
	var m map[string]any
	if err := json.Unmarshal([]byte(text), &m); err == nil {
		return m, true
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return nil, false
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), &m); err != nil {
		return nil, false
	}
	return m, true
}
