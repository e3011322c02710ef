package feedback

import (
	"fmt"
	"strings"

	"github.com/abhisek/coursementor/internal/mentor"
)

// Fallback builds deterministic feedback, used when no provider is
// configured or generation fails.
func Fallback(a *mentor.MentorAnalysis) string {
	if a == nil {
		return "Complete a few chapters and your mentor will point out what to review."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You have completed %d of %d chapters with an average score of %.0f%%.",
		a.TotalChaptersCompleted, a.TotalChapters, a.AverageScore*100)

	if len(a.WeakAreas) == 0 {
		b.WriteString(" No chapter is below the review threshold, so keep going at your current pace.")
		if a.TotalWrongAnswers > 0 {
			fmt.Fprintf(&b, " Retrying your %d missed %s will lock in what you learned.",
				a.TotalWrongAnswers, plural(a.TotalWrongAnswers, "question", "questions"))
		}
		return b.String()
	}

	weakest := a.WeakAreas[0]
	fmt.Fprintf(&b, " Start by reviewing %q, where you scored %.0f%%.", weakest.ChapterTitle, weakest.Score*100)
	if len(weakest.WeakConcepts) > 0 {
		fmt.Fprintf(&b, " Focus on %s.", weakest.WeakConcepts[0].Concept)
	}
	if rest := len(a.WeakAreas) - 1; rest > 0 {
		fmt.Fprintf(&b, " %d more %s could use a second look.", rest, plural(rest, "chapter", "chapters"))
	}
	fmt.Fprintf(&b, " The gap quiz lets you retry all %d missed %s for free.",
		a.TotalWrongAnswers, plural(a.TotalWrongAnswers, "question", "questions"))
	return b.String()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
