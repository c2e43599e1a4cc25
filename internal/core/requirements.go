package core

import (
	"strings"
	"unicode"
)

// MaxRequirementLength is the longest requirement text kept, in runes.
const MaxRequirementLength = 200

// ParseRequirements turns free-form text into checklist items: one per
// non-blank line, with bullet markers and surrounding whitespace removed.
// Order is preserved.
func ParseRequirements(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = trimBullet(line)
		if line == "" {
			continue
		}
		if runes := []rune(line); len(runes) > MaxRequirementLength {
			line = string(runes[:MaxRequirementLength])
		}
		out = append(out, line)
	}
	return out
}

// ObjectiveLines normalizes an objective the same way, for rendering it as a
// bullet list.
func ObjectiveLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if line = trimBullet(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

func trimBullet(line string) string {
	return strings.TrimFunc(line, func(r rune) bool {
		return unicode.IsSpace(r) || r == '-' || r == '•'
	})
}
