package fields

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/careerforge/resume-parser/constants"
)

// Recognizer confidences. Heuristic matches are deliberately modest; the
// enrichment model reports its own.
const (
	confEmail      = 0.9
	confPhone      = 0.7
	confLinks      = 0.6
	confProfileURL = 0.85
	confName       = 0.7
	confLocation   = 0.7
	confRole       = 0.65
	confFunction   = 0.6
	confExperience = 0.6
)

const maxLinks = 5

var (
	emailRe = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	phoneRe = regexp.MustCompile(`\+?\(?\d[\d\s().\-]{7,}\d`)
	linkRe  = regexp.MustCompile(`https?://[^\s<>"')\]]+`)
	yearsRe = regexp.MustCompile(`(?i)(\d{1,2})\s*\+?\s*years`)
)

// roleKeywords flags a line as a probable job title.
var roleKeywords = []string{"engineer", "developer", "designer", "product", "data", "analyst", "manager"}

// functionBuckets maps role text to a function area. Ordered: first bucket with a
// keyword hit wins.
var functionBuckets = []struct {
	area     string
	keywords []string
}{
	{"engineering", []string{"engineer", "developer", "software", "devops", "sre"}},
	{"product", []string{"product"}},
	{"design", []string{"design", "ux", "ui"}},
	{"data", []string{"data", "analyst", "analytics", "scientist"}},
	{"sales", []string{"sales", "account executive"}},
	{"marketing", []string{"marketing", "growth"}},
	{"operations", []string{"operations", "ops", "logistics"}},
	{"finance", []string{"finance", "accounting", "controller"}},
	{"hr", []string{"hr", "recruit", "people", "talent"}},
}

// locationMarkers flag a line as a probable location when it carries no comma.
var locationMarkers = []string{
	"remote", "hybrid",
	"usa", "united states", "united kingdom", "uk", "canada", "germany", "france",
	"india", "australia", "netherlands", "singapore", "spain", "italy", "poland",
	"brazil", "japan", "ireland", "sweden", "switzerland", "portugal",
}

// Extract applies every recognizer to text and returns the resulting field map.
// It is a pure function: same text, same map. A field is omitted entirely when its
// recognizer finds nothing. All recognizers take the first occurrence in document
// order rather than scoring alternatives; simplicity over precision is deliberate.
func Extract(text string) FieldMap {
	out := FieldMap{}
	if strings.TrimSpace(text) == "" {
		return out
	}
	lines := nonBlankLines(text)

	if m := emailRe.FindString(text); m != "" {
		out[constants.FieldEmail] = NewValue(m, confEmail)
	}
	if phone := firstPhone(text); phone != "" {
		out[constants.FieldPhone] = NewValue(phone, confPhone)
	}

	links := linkRe.FindAllString(text, -1)
	if len(links) > 0 {
		capped := links
		if len(capped) > maxLinks {
			capped = capped[:maxLinks]
		}
		out[constants.FieldLinks] = NewValue(append([]string(nil), capped...), confLinks)
	}
	for _, l := range links {
		if _, ok := out[constants.FieldLinkedInURL]; !ok && strings.Contains(l, "linkedin.com") {
			out[constants.FieldLinkedInURL] = NewValue(l, confProfileURL)
		}
		if _, ok := out[constants.FieldGitHubURL]; !ok && strings.Contains(l, "github.com") {
			out[constants.FieldGitHubURL] = NewValue(l, confProfileURL)
		}
	}

	extractNameLocation(lines, out)
	extractRole(lines, out)

	if m := yearsRe.FindStringSubmatch(text); m != nil {
		out[constants.FieldExperience] = NewValue(experienceBand(atoi(m[1])), confExperience)
	}

	return out
}

// extractNameLocation applies the header heuristics: the first non-blank line is a
// name candidate under a narrow title-case pattern (a known gap for non-Latin names
// and honorifics, kept on purpose); the location falls out of the first or second
// line depending on whether the name matched.
func extractNameLocation(lines []string, out FieldMap) {
	if len(lines) == 0 {
		return
	}
	first := lines[0]

	if isNameLine(first) {
		out[constants.FieldName] = NewValue(first, confName)
		if len(lines) > 1 && isLocationLine(lines[1]) {
			out[constants.FieldLocation] = NewValue(lines[1], confLocation)
		}
		return
	}

	if len(strings.Fields(first)) <= 6 && isLocationLine(first) {
		out[constants.FieldLocation] = NewValue(first, defaultConfidence(first))
	}
}

func extractRole(lines []string, out FieldMap) {
	limit := len(lines)
	if limit > 6 {
		limit = 6
	}
	for _, line := range lines[:limit] {
		lower := strings.ToLower(line)
		for _, kw := range roleKeywords {
			if strings.Contains(lower, kw) {
				out[constants.FieldRole] = NewValue(line, confRole)
				if area, ok := functionArea(lower); ok {
					out[constants.FieldFunctionArea] = NewValue(area, confFunction)
				}
				return
			}
		}
	}
}

func functionArea(roleLower string) (string, bool) {
	for _, b := range functionBuckets {
		for _, kw := range b.keywords {
			if strings.Contains(roleLower, kw) {
				return b.area, true
			}
		}
	}
	return "", false
}

// isNameLine accepts 2-4 space-separated title-case words with no digits or commas.
func isNameLine(line string) bool {
	if strings.Contains(line, ",") {
		return false
	}
	words := strings.Fields(line)
	if len(words) < 2 || len(words) > 4 {
		return false
	}
	for _, w := range words {
		if strings.ContainsFunc(w, unicode.IsDigit) {
			return false
		}
		r := []rune(w)
		if !unicode.IsUpper(r[0]) {
			return false
		}
		for _, c := range r[1:] {
			if unicode.IsUpper(c) {
				return false
			}
		}
	}
	return true
}

// isLocationLine accepts lines with a comma ("Berlin, Germany") or a known
// place/remote marker.
func isLocationLine(line string) bool {
	if strings.Contains(line, ",") {
		return true
	}
	lower := strings.ToLower(line)
	for _, m := range locationMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// defaultConfidence is the length-based fallback used for values that were not
// matched by a dedicated rule.
func defaultConfidence(value string) float64 {
	if len(value) > 3 {
		return 0.8
	}
	return 0.5
}

// firstPhone returns the first separator-tolerant run carrying at least 9 digits.
func firstPhone(text string) string {
	for _, cand := range phoneRe.FindAllString(text, -1) {
		digits := 0
		for _, r := range cand {
			if unicode.IsDigit(r) {
				digits++
			}
		}
		if digits >= 9 {
			return strings.TrimSpace(cand)
		}
	}
	return ""
}

// experienceBand buckets a years-of-experience integer into one of five bands.
func experienceBand(years int) string {
	switch {
	case years <= 1:
		return "0-1"
	case years <= 3:
		return "1-3"
	case years <= 5:
		return "3-5"
	case years <= 10:
		return "5-10"
	default:
		return "10+"
	}
}

func nonBlankLines(text string) []string {
	var out []string
	for _, ln := range strings.Split(text, "\n") {
		if t := strings.TrimSpace(ln); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}
