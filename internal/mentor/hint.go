package mentor

import "strings"

const (
	hintPrefix   = "Think about: "
	hintFallback = "Review the related concept carefully."

	// hintMaxRunes bounds the quoted segment, counted in code points.
	hintMaxRunes = 100
)

// Hint derives a short nudge from an explanation: the first non-empty
// sentence, truncated to hintMaxRunes code points. It never looks at the
// correct answer.
func Hint(explanation string) string {
	for _, segment := range strings.Split(explanation, ".") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		if r := []rune(segment); len(r) > hintMaxRunes {
			segment = string(r[:hintMaxRunes]) + "..."
		}
		return hintPrefix + segment
	}
	return hintFallback
}
