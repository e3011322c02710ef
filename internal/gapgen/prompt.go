package gapgen

import (
	"fmt"
	"strings"

	"github.com/abhisek/coursementor/internal/mentor"
)

const systemPrompt = `You are a supportive learning mentor writing short review questions.

Rules:
- Write exactly one question per numbered target, in the same order.
- Each question must test the target concept in the context of its chapter.
- Mix "mcq" and "true_false" questions. Prefer mcq for concepts that have common confusions.
- mcq questions have exactly 4 options labelled "A) ", "B) ", "C) ", "D) " with one correct option. The correct_answer is the letter.
- true_false questions have no options and a correct_answer of "true" or "false".
- Distractors should reflect realistic misunderstandings, not jokes.
- The hint must point the learner in the right direction without giving the answer away.
- Set source_chapter and target_concept exactly as given in the target.
- Do not copy the sample questions the learner already missed.`

func buildUserMessage(req Request, targets []Target) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Course: %s\n", req.CourseTopic)
	if req.Difficulty != "" {
		fmt.Fprintf(&b, "Course level: %s\n", req.Difficulty)
	}

	b.WriteString("\nWeak chapters:\n")
	for _, a := range req.WeakAreas {
		fmt.Fprintf(&b, "- Chapter %d %q: score %.0f%%, %d of %d wrong\n",
			a.ChapterNumber, a.ChapterTitle, a.Score*100, a.QuestionsWrong, a.QuestionsTotal)
		for _, c := range a.WeakConcepts {
			fmt.Fprintf(&b, "  - %s (missed %d)%s\n", c.Concept, c.WrongCount, formatSamples(c))
		}
	}

	fmt.Fprintf(&b, "\nTargets (%d questions):\n", len(targets))
	for i, t := range targets {
		fmt.Fprintf(&b, "%d. chapter %d, concept %q\n", i+1, t.Chapter, t.Concept)
	}
	return b.String()
}

func formatSamples(c mentor.WeakConcept) string {
	if len(c.SampleQuestions) == 0 {
		return ""
	}
	return "; missed: " + strings.Join(quoteAll(c.SampleQuestions), ", ")
}

func quoteAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = fmt.Sprintf("%q", s)
	}
	return out
}
