// Package safety gates extracted text before any field extraction or remote call.
package safety

import (
	"fmt"
	"strings"
)

// injectionPhrases is the ordered deny-list evaluated by Screen. Matching is
// case-insensitive substring containment; first hit wins. Extend the table,
// not the control flow.
var injectionPhrases = []struct {
	phrase string
	label  string
}{
	{"ignore previous instructions", "instruction override"},
	{"ignore all previous instructions", "instruction override"},
	{"disregard previous instructions", "instruction override"},
	{"disregard all previous instructions", "instruction override"},
	{"forget previous instructions", "instruction override"},
	{"override all rules", "instruction override"},
	{"system prompt", "system prompt probe"},
	{"reveal your instructions", "system prompt probe"},
	{"you are now", "role hijack"},
	{"act as a", "role hijack"},
	{"pretend you are", "role hijack"},
	{"developer mode", "jailbreak"},
	{"do anything now", "jailbreak"},
	{"jailbreak", "jailbreak"},
}

// Screen scans text for known prompt-injection phrases. It returns ok=false and a
// human-readable reason naming the matched phrase on the first hit. Empty text is
// always safe. This is a hard gate: callers must not run any further stage, local
// or remote, once it fails.
func Screen(text string) (bool, string) {
	if text == "" {
		return true, ""
	}
	lower := strings.ToLower(text)
	for _, p := range injectionPhrases {
		if strings.Contains(lower, p.phrase) {
			return false, fmt.Sprintf("suspicious content (%s): matched %q", p.label, p.phrase)
		}
	}
	return true, ""
}
