package mentor

import "strings"

// MatchConcepts returns every concept that occurs, case-insensitively, as a
// substring of questionText. Matches keep the order of concepts.
//
// The match is purely lexical: a concept that is a fragment of an unrelated
// word still matches, and a paraphrase that never names the concept does not.
func MatchConcepts(questionText string, concepts []string) []string {
	if len(concepts) == 0 {
		return nil
	}
	text := strings.ToLower(questionText)

	var matched []string
	for _, c := range concepts {
		if strings.Contains(text, strings.ToLower(c)) {
			matched = append(matched, c)
		}
	}
	return matched
}
