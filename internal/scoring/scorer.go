// Package scoring computes resume quality scores from extracted text.
package scoring

import "strings"

// ScoreSet holds the three independent 0-100 axes. All zero when no text survived
// extraction (or the screener blocked the document).
type ScoreSet struct {
	Readability int `json:"readability"`
	ATS         int `json:"ats"`
	Match       int `json:"match"`
}

// atsHeadings are the section headings an applicant-tracking system looks for.
var atsHeadings = []string{"experience", "education", "skills", "projects", "summary", "profile"}

var bulletPrefixes = []string{"-", "•", "*"}

// Score computes all three axes for text. targetRole may be empty, in which case
// Match is 0. Pure and deterministic.
func Score(text, targetRole string) ScoreSet {
	return ScoreSet{
		Readability: Readability(text),
		ATS:         ATS(text),
		Match:       Match(text, targetRole),
	}
}

// Readability scores length and bullet usage. Non-empty text floors at 10.
func Readability(text string) int {
	if text == "" {
		return 0
	}

	score := 10
	if len(text) > 1500 {
		score = 40
	} else if len(text) > 700 {
		score = 20
	}

	ratio := bulletRatio(text)
	switch {
	case ratio >= 0.30:
		score += 40
	case ratio >= 0.15:
		score += 20
	default:
		score += 10
	}

	return clamp(score)
}

// ATS scores section-heading coverage plus length, with a flat baseline of 20.
func ATS(text string) int {
	if text == "" {
		return 0
	}
	lower := strings.ToLower(text)

	headings := 0
	for _, h := range atsHeadings {
		if strings.Contains(lower, h) {
			headings++
		}
	}

	score := 10
	if headings >= 3 {
		score = 40
	} else if headings >= 2 {
		score = 20
	}

	if len(text) > 1500 {
		score += 30
	} else {
		score += 15
	}
	score += 20

	return clamp(score)
}

// Match counts how many whitespace-separated tokens of targetRole appear in the
// text, 20 points each, capped at 100. Containment is substring, not word-bounded.
func Match(text, targetRole string) int {
	if text == "" || strings.TrimSpace(targetRole) == "" {
		return 0
	}
	lower := strings.ToLower(text)

	hits := 0
	for _, tok := range strings.Fields(strings.ToLower(targetRole)) {
		if strings.Contains(lower, tok) {
			hits++
		}
	}

	score := hits * 20
	if score > 100 {
		score = 100
	}
	return score
}

// bulletRatio is the share of non-blank lines that start with a bullet glyph.
func bulletRatio(text string) float64 {
	total, bullets := 0, 0
	for _, ln := range strings.Split(text, "\n") {
		t := strings.TrimSpace(ln)
		if t == "" {
			continue
		}
		total++
		for _, p := range bulletPrefixes {
			if strings.HasPrefix(t, p) {
				bullets++
				break
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(bullets) / float64(total)
}

func clamp(score int) int {
	if score < 10 {
		return 10
	}
	if score > 100 {
		return 100
	}
	return score
}
