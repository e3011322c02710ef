package mentor

import (
	"fmt"
	"slices"
)

// maxSampleQuestions caps the sample question texts kept per weak concept.
const maxSampleQuestions = 3

// IsWeak reports whether a chapter result counts as a weak area. Only
// completed chapters qualify and the threshold itself is not weak.
func IsWeak(p ChapterProgressRecord, weakScoreThreshold float64) bool {
	return p.Completed && p.Score < weakScoreThreshold
}

// ExtractWeakAreas returns the weak chapters of a learner, weakest first,
// each with the concepts its wrong answers point at, most-missed first.
// Both orderings are stable. A progress record without a matching chapter
// definition yields a weak area with no concepts.
func ExtractWeakAreas(progress []ChapterProgressRecord, chapters []ChapterDefinition, weakScoreThreshold float64) []WeakArea {
	byNumber := make(map[int]ChapterDefinition, len(chapters))
	for _, ch := range chapters {
		if _, dup := byNumber[ch.Number]; !dup {
			byNumber[ch.Number] = ch
		}
	}

	var areas []WeakArea
	for _, p := range progress {
		if !IsWeak(p, weakScoreThreshold) {
			continue
		}
		def, known := byNumber[p.ChapterNumber]

		areas = append(areas, WeakArea{
			ChapterNumber:  p.ChapterNumber,
			ChapterTitle:   chapterTitle(p, def, known),
			Score:          p.Score,
			QuestionsTotal: p.TotalQuestions,
			QuestionsWrong: p.TotalQuestions - p.CorrectAnswers,
			WeakConcepts:   extractWeakConcepts(p.Answers, def.KeyConcepts),
		})
	}

	slices.SortStableFunc(areas, func(a, b WeakArea) int {
		switch {
		case a.Score < b.Score:
			return -1
		case a.Score > b.Score:
			return 1
		}
		return 0
	})
	return areas
}

func chapterTitle(p ChapterProgressRecord, def ChapterDefinition, known bool) string {
	if p.ChapterTitle != "" {
		return p.ChapterTitle
	}
	if known && def.Title != "" {
		return def.Title
	}
	return fmt.Sprintf("Chapter %d", p.ChapterNumber)
}

// extractWeakConcepts attributes each wrong answer to the concepts its
// question text mentions.
func extractWeakConcepts(answers []AnswerRecord, keyConcepts []string) []WeakConcept {
	concepts := uniqueConcepts(keyConcepts)
	if len(concepts) == 0 {
		return nil
	}

	tally := make(map[string]*WeakConcept, len(concepts))
	for _, ans := range answers {
		if ans.IsCorrect {
			continue
		}
		for _, c := range MatchConcepts(ans.QuestionText, concepts) {
			wc, ok := tally[c]
			if !ok {
				wc = &WeakConcept{Concept: c, TotalQuestions: len(answers)}
				tally[c] = wc
			}
			wc.WrongCount++
			if len(wc.SampleQuestions) < maxSampleQuestions {
				wc.SampleQuestions = append(wc.SampleQuestions, ans.QuestionText)
			}
		}
	}

	// Walk the concept list so ties keep their original order.
	out := make([]WeakConcept, 0, len(tally))
	for _, c := range concepts {
		if wc, ok := tally[c]; ok {
			out = append(out, *wc)
		}
	}
	slices.SortStableFunc(out, func(a, b WeakConcept) int {
		return b.WrongCount - a.WrongCount
	})
	return out
}

func uniqueConcepts(concepts []string) []string {
	seen := make(map[string]bool, len(concepts))
	out := make([]string, 0, len(concepts))
	for _, c := range concepts {
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
