// Package report renders mentor results for the terminal.
package report

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/coursementor/internal/mentor"
	"github.com/abhisek/coursementor/internal/ui/theme"
)

const barWidth = 20

// ScoreBar renders score (0..1) as a fixed-width bar followed by a percentage.
func ScoreBar(score float64) string {
	filled := min(max(int(float64(barWidth)*score), 0), barWidth)
	return theme.ProgressFilled.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", barWidth-filled)) +
		theme.Subtitle.Render(fmt.Sprintf("  %d%%", int(score*100)))
}

func Status(courseSlug string, st mentor.MentorStatus) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Mentor status: "+courseSlug) + "\n\n")

	if st.MentorAvailable {
		b.WriteString(theme.Unlocked.Render("Unlocked") + "\n")
	} else {
		b.WriteString(theme.Locked.Render("Locked") +
			theme.Hint.Render(fmt.Sprintf("  complete %d more %s to unlock",
				st.ChaptersRequired-st.ChaptersCompleted, chapters(st.ChaptersRequired-st.ChaptersCompleted))) + "\n")
	}

	rows := [][2]string{
		{"Chapters", fmt.Sprintf("%d / %d required", st.ChaptersCompleted, st.ChaptersRequired)},
		{"Average", ScoreBar(st.AverageScore)},
		{"Weak areas", fmt.Sprint(st.WeakAreasCount)},
		{"Wrong answers", fmt.Sprint(st.TotalWrongAnswers)},
	}
	for _, r := range rows {
		b.WriteString(label(r[0]) + theme.Body.Render(r[1]) + "\n")
	}
	return theme.Card.Render(strings.TrimRight(b.String(), "\n"))
}

func Analysis(a *mentor.MentorAnalysis) string {
	var b strings.Builder
	title := a.CourseTopic
	if title == "" {
		title = a.CourseSlug
	}
	b.WriteString(theme.Title.Render("Weak-area analysis: "+title) + "\n")
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("%d of %d chapters completed, %d wrong answers",
		a.TotalChaptersCompleted, a.TotalChapters, a.TotalWrongAnswers)) + "\n\n")
	b.WriteString(label("Average") + ScoreBar(a.AverageScore) + "\n")

	if len(a.WeakAreas) == 0 {
		b.WriteString("\n" + theme.Unlocked.Render("No weak chapters. Nice work.") + "\n")
		return theme.Card.Render(strings.TrimRight(b.String(), "\n"))
	}

	for _, wa := range a.WeakAreas {
		b.WriteString("\n" + theme.Weak.Render(fmt.Sprintf("Chapter %d: %s", wa.ChapterNumber, wa.ChapterTitle)) + "\n")
		b.WriteString(label("Score") + ScoreBar(wa.Score) + "\n")
		b.WriteString(label("Missed") + theme.Body.Render(fmt.Sprintf("%d of %d", wa.QuestionsWrong, wa.QuestionsTotal)) + "\n")
		for _, c := range wa.WeakConcepts {
			b.WriteString("  • " + theme.Body.Render(fmt.Sprintf("%s (%d wrong)", c.Concept, c.WrongCount)) + "\n")
			for _, q := range c.SampleQuestions {
				b.WriteString(theme.Hint.Render("      "+q) + "\n")
			}
		}
	}
	return theme.Card.Render(strings.TrimRight(b.String(), "\n"))
}

func GapQuiz(q *mentor.GapQuiz) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render(fmt.Sprintf("Gap quiz %s", q.ID)) + "\n")
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("%d retries, %d extra questions",
		q.WrongAnswersCount, q.ExtraQuestionsCount)) + "\n")

	n := 0
	for _, w := range q.WrongAnswers {
		n++
		b.WriteString("\n" + question(n, w.QuestionText, w.Options, w.Hint))
		b.WriteString(theme.Hint.Render(fmt.Sprintf("   chapter %d, you answered %q", w.ChapterNumber, w.UserAnswer)) + "\n")
	}
	for _, x := range q.ExtraQuestions {
		n++
		b.WriteString("\n" + question(n, x.QuestionText, x.Options, x.Hint))
		b.WriteString(theme.Hint.Render(fmt.Sprintf("   %s, %s", x.TargetConcept, x.Difficulty)) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func question(n int, text string, options []string, hint *string) string {
	var b strings.Builder
	b.WriteString(theme.Body.Bold(true).Render(fmt.Sprintf("%d. %s", n, text)) + "\n")
	for _, o := range options {
		b.WriteString("   " + theme.Body.Render(o) + "\n")
	}
	if hint != nil {
		b.WriteString(theme.Hint.Render("   hint: "+*hint) + "\n")
	}
	return b.String()
}

func label(s string) string {
	return lipgloss.NewStyle().Foreground(theme.TextDim).Width(15).Render(s)
}

func chapters(n int) string {
	if n == 1 {
		return "chapter"
	}
	return "chapters"
}
