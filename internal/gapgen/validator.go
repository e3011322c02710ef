package gapgen

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/abhisek/coursementor/internal/mentor"
)

// questionOutput is one raw item from the LLM before validation.
type questionOutput struct {
	QuestionType  string   `json:"question_type"`
	Difficulty    string   `json:"difficulty"`
	QuestionText  string   `json:"question_text"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
	Hint          string   `json:"hint"`
	SourceChapter int      `json:"source_chapter"`
	TargetConcept string   `json:"target_concept"`
}

type batchOutput struct {
	Questions []questionOutput `json:"questions"`
}

// ValidationError describes why a generated question was dropped.
type ValidationError struct {
	Index   int
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("question %d: %s", e.Index, e.Message)
}

var optionLetters = []string{"A", "B", "C", "D"}

// toQuestion validates raw and converts it. chapters is the set of weak
// chapter numbers the question may come from.
func toQuestion(i int, raw questionOutput, chapters map[int]bool, maxLen int) (mentor.GapQuizQuestion, error) {
	fail := func(format string, args ...any) (mentor.GapQuizQuestion, error) {
		return mentor.GapQuizQuestion{}, &ValidationError{Index: i, Message: fmt.Sprintf(format, args...)}
	}

	qt := mentor.QuestionType(raw.QuestionType)
	diff := mentor.Difficulty(raw.Difficulty)
	text := strings.TrimSpace(raw.QuestionText)
	explanation := strings.TrimSpace(raw.Explanation)
	concept := strings.TrimSpace(raw.TargetConcept)

	switch {
	case !qt.Valid():
		return fail("question_type %q is not mcq or true_false", raw.QuestionType)
	case !diff.Valid():
		return fail("difficulty %q is not easy, medium or hard", raw.Difficulty)
	case text == "":
		return fail("question_text is empty")
	case explanation == "":
		return fail("explanation is empty")
	case concept == "":
		return fail("target_concept is empty")
	case maxLen > 0 && (utf8.RuneCountInString(text) > maxLen || utf8.RuneCountInString(explanation) > maxLen):
		return fail("text exceeds %d characters", maxLen)
	case !chapters[raw.SourceChapter]:
		return fail("source_chapter %d is not a weak chapter", raw.SourceChapter)
	}

	q := mentor.GapQuizQuestion{
		QuestionType:  qt,
		Difficulty:    diff,
		QuestionText:  text,
		Explanation:   explanation,
		SourceChapter: raw.SourceChapter,
		TargetConcept: concept,
	}
	if h := strings.TrimSpace(raw.Hint); h != "" {
		q.Hint = &h
	}

	answer := strings.TrimSpace(raw.CorrectAnswer)
	switch qt {
	case mentor.QuestionTypeMCQ:
		if len(raw.Options) != len(optionLetters) {
			return fail("mcq needs %d options, got %d", len(optionLetters), len(raw.Options))
		}
		letter, ok := normalizeMCQAnswer(answer, raw.Options)
		if !ok {
			return fail("correct_answer %q matches no option", raw.CorrectAnswer)
		}
		q.Options = raw.Options
		q.CorrectAnswer = mentor.TextAnswer(letter)
	case mentor.QuestionTypeTrueFalse:
		switch strings.ToLower(answer) {
		case "true":
			q.CorrectAnswer = mentor.BoolAnswer(true)
		case "false":
			q.CorrectAnswer = mentor.BoolAnswer(false)
		default:
			return fail("true_false correct_answer %q is not true or false", raw.CorrectAnswer)
		}
	}

	if q.Hint != nil && revealsAnswer(*q.Hint, q) {
		q.Hint = nil
	}
	return q, nil
}

// normalizeMCQAnswer accepts a letter ("B", "b", "B)") or the full option
// text and returns the option letter.
func normalizeMCQAnswer(answer string, options []string) (string, bool) {
	a := strings.TrimSuffix(strings.ToUpper(answer), ")")
	if slices.Contains(optionLetters, a) {
		return a, true
	}
	for i, opt := range options {
		if strings.EqualFold(strings.TrimSpace(opt), answer) || strings.EqualFold(stripLetter(opt), answer) {
			return optionLetters[i], true
		}
	}
	return "", false
}

func stripLetter(opt string) string {
	opt = strings.TrimSpace(opt)
	if len(opt) > 2 && opt[1] == ')' {
		return strings.TrimSpace(opt[2:])
	}
	return opt
}

// revealsAnswer reports whether a generated hint quotes the correct option.
func revealsAnswer(hint string, q mentor.GapQuizQuestion) bool {
	if q.QuestionType != mentor.QuestionTypeMCQ {
		return false
	}
	idx := slices.Index(optionLetters, q.CorrectAnswer.Text)
	if idx < 0 {
		return false
	}
	body := stripLetter(q.Options[idx])
	return len(body) > 3 && strings.Contains(strings.ToLower(hint), strings.ToLower(body))
}
